//go:build ebiten

package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"

	"trailforge/internal/app"
	"trailforge/internal/sim"

	"github.com/hajimehoshi/ebiten/v2"
)

// overrideFlags collects repeatable -set key=value pairs for simulation
// parameters that have no dedicated flag.
type overrideFlags map[string]string

func (o overrideFlags) String() string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+o[k])
	}
	return strings.Join(pairs, ",")
}

func (o overrideFlags) Set(v string) error {
	key, value, ok := strings.Cut(v, "=")
	if !ok || key == "" {
		return fmt.Errorf("expected key=value, got %q", v)
	}
	o[key] = value
	return nil
}

func main() {
	width := flag.Int("width", 200, "grid width in cells")
	height := flag.Int("height", 200, "grid height in cells")
	actors := flag.Int("actors", 100, "initial actor count")
	seed := flag.Int64("seed", 1337, "seed for simulation reset")
	scale := flag.Int("scale", 3, "pixel scale multiplier")
	tps := flag.Int("tps", 60, "ticks per second")
	threshold := flag.Float64("threshold", 0.1, "layer mask preview threshold")
	hudWidth := flag.Int("hud", 220, "HUD panel width in pixels (0 hides it)")
	overrides := overrideFlags{}
	flag.Var(overrides, "set", "simulation parameter override as key=value (repeatable)")
	flag.Parse()

	pairs := map[string]string{
		"w":      strconv.Itoa(*width),
		"h":      strconv.Itoa(*height),
		"seed":   strconv.FormatInt(*seed, 10),
		"actors": strconv.Itoa(*actors),
	}
	for k, v := range overrides {
		pairs[k] = v
	}
	cfg := sim.FromMap(pairs)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	world := sim.NewWithConfig(cfg)
	game := app.New(world, *scale, cfg.Seed, *threshold, *hudWidth)
	size := world.Size()

	ebiten.SetWindowTitle("trailforge — live trail field")
	ebiten.SetTPS(*tps)
	ebiten.SetWindowSize(size.W*(*scale)+*hudWidth, size.H*(*scale))

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}

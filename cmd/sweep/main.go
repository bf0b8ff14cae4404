// Command sweep evaluates grids of simulation parameters in parallel and
// ranks them by the printability and size of the resulting model. Useful
// for finding settings that grow interesting solids instead of dust or
// blobs.
package main

import (
	"context"
	"flag"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"trailforge/internal/pipeline"
)

type paramSet struct {
	decay     float64
	diffusion float64
	spawnProb float64
	deathProb float64
	threshold float64
}

func (p paramSet) String() string {
	return fmt.Sprintf("decay=%.3f diffusion=%.3f spawn=%.3f death=%.4f threshold=%.2f",
		p.decay, p.diffusion, p.spawnProb, p.deathProb, p.threshold)
}

type sweepResult struct {
	params paramSet

	printReady bool
	volume     float64
	faces      int
	layers     int
	truncated  int
	stepsRun   int
}

// score prefers print-ready models, then taller stacks, then volume.
func (r sweepResult) score() float64 {
	s := r.volume + 50*float64(r.layers)
	if r.printReady {
		s += 1e6
	}
	if r.truncated >= 0 {
		s -= 1e4
	}
	return s
}

func main() {
	steps := flag.Int("steps", 150, "ticks to simulate per candidate")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	width := flag.Int("width", 100, "grid width for sweep runs")
	height := flag.Int("height", 100, "grid height for sweep runs")
	actors := flag.Int("actors", 60, "initial actor count")
	seed := flag.Int64("seed", 1337, "seed shared by all candidates")
	top := flag.Int("top", 10, "number of best candidates to print")
	flag.Parse()

	base := pipeline.DefaultConfig()
	base.Sim.Width = *width
	base.Sim.Height = *height
	base.Sim.Seed = *seed
	base.Sim.Params.Actors = *actors
	base.Steps = *steps
	base.Mode = pipeline.ModeVoxel
	base.Background.Enabled = false

	decayOptions := []float64{0.005, 0.01, 0.02, 0.05}
	diffusionOptions := []float64{0, 0.1, 0.25}
	spawnOptions := []float64{0, 0.005, 0.02}
	deathOptions := []float64{0, 0.001, 0.005}
	thresholdOptions := []float64{0.05, 0.1, 0.2}

	var sets []paramSet
	for _, decay := range decayOptions {
		for _, diffusion := range diffusionOptions {
			for _, spawn := range spawnOptions {
				for _, death := range deathOptions {
					for _, threshold := range thresholdOptions {
						sets = append(sets, paramSet{
							decay:     decay,
							diffusion: diffusion,
							spawnProb: spawn,
							deathProb: death,
							threshold: threshold,
						})
					}
				}
			}
		}
	}

	fmt.Printf("Sweeping %d parameter sets (%d workers, %d steps)\n", len(sets), *workers, *steps)

	jobs := make(chan paramSet)
	results := make(chan sweepResult)
	var wg sync.WaitGroup

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for params := range jobs {
				results <- runCandidate(base, params)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for _, params := range sets {
			jobs <- params
		}
		close(jobs)
	}()

	start := time.Now()
	var all []sweepResult
	for res := range results {
		all = append(all, res)
	}

	sort.Slice(all, func(i, j int) bool { return all[i].score() > all[j].score() })

	limit := *top
	if limit > len(all) {
		limit = len(all)
	}
	fmt.Printf("Swept %d candidates in %s\n", len(all), time.Since(start).Round(time.Millisecond))
	for i := 0; i < limit; i++ {
		r := all[i]
		truncated := "-"
		if r.truncated >= 0 {
			truncated = fmt.Sprintf("layer %d", r.truncated)
		}
		fmt.Printf("%2d. %s\n    print_ready=%t volume=%.1f faces=%d layers=%d steps=%d truncated=%s\n",
			i+1, r.params, r.printReady, r.volume, r.faces, r.layers, r.stepsRun, truncated)
	}
}

func runCandidate(base pipeline.Config, params paramSet) sweepResult {
	cfg := base
	cfg.Sim.Params.Decay = params.decay
	cfg.Sim.Params.Diffusion = params.diffusion
	cfg.Sim.Params.SpawnProbability = params.spawnProb
	cfg.Sim.Params.DeathProbability = params.deathProb
	cfg.Threshold = params.threshold

	res, err := pipeline.Run(context.Background(), cfg, nil)
	if err != nil {
		// Sweep grids are built from valid ranges; a config error here is
		// a bug worth surfacing loudly.
		panic(err)
	}
	return sweepResult{
		params:     params,
		printReady: res.Quality.PrintReady,
		volume:     res.Quality.Volume,
		faces:      res.Quality.FaceCount,
		layers:     res.Layers,
		truncated:  res.TruncatedAt,
		stepsRun:   res.StepsRun,
	}
}

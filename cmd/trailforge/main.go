package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"trailforge/internal/core"
	"trailforge/internal/mesh"
	"trailforge/internal/pipeline"
)

func main() {
	cfg := pipeline.DefaultConfig()

	width := flag.Int("width", cfg.Sim.Width, "grid width in cells")
	height := flag.Int("height", cfg.Sim.Height, "grid height in cells")
	seed := flag.Int64("seed", cfg.Sim.Seed, "seed for deterministic runs")
	actors := flag.Int("actors", cfg.Sim.Params.Actors, "initial actor count")
	steps := flag.Int("steps", cfg.Steps, "ticks to simulate")

	decay := flag.Float64("decay", cfg.Sim.Params.Decay, "trail decay rate per tick [0,1]")
	diffusion := flag.Float64("diffusion", cfg.Sim.Params.Diffusion, "trail diffusion rate per tick [0,1]")
	deposit := flag.Float64("deposit", cfg.Sim.Params.DepositAmount, "trail deposited per actor per tick")
	viewRadius := flag.Int("view-radius", cfg.Sim.Params.ViewRadius, "sensor sampling radius in cells")
	viewDistance := flag.Float64("view-distance", cfg.Sim.Params.ViewDistance, "sensor lookahead distance")
	speed := flag.Float64("speed", cfg.Sim.Params.Speed, "actor speed in cells per tick")
	speedMin := flag.Float64("speed-min", cfg.Sim.Params.SpeedMin, "minimum initial speed (0 uses -speed)")
	speedMax := flag.Float64("speed-max", cfg.Sim.Params.SpeedMax, "maximum initial speed (0 uses -speed)")
	spawnSpeedRand := flag.Float64("spawn-speed-randomization", cfg.Sim.Params.SpawnSpeedRandomization,
		"offspring speed perturbation fraction [0,1]")
	diameter := flag.Float64("diameter", cfg.Sim.Params.InitialDiameter, "initial placement ring diameter")
	deathProb := flag.Float64("death-probability", cfg.Sim.Params.DeathProbability, "base per-tick death probability [0,1]")
	spawnProb := flag.Float64("spawn-probability", cfg.Sim.Params.SpawnProbability, "per-tick spawn probability [0,1]")
	deviation := flag.Float64("direction-deviation", cfg.Sim.Params.DirectionDeviation,
		"random heading deviation in radians [0,pi]")

	threshold := flag.Float64("threshold", cfg.Threshold, "trail inclusion threshold for layer capture [0,1]")
	layerFreq := flag.Int("layer-frequency", cfg.LayerFrequency, "capture a layer every N ticks")
	layerHeight := flag.Float64("layer-height", cfg.LayerHeight, "height of one layer in model units")
	baseRadius := flag.Float64("base-radius", cfg.BaseRadius, "forced solid base disk radius (0 disables)")

	mode := flag.String("mode", string(cfg.Mode), "extraction mode: voxel or smooth")
	smoothing := flag.String("smoothing", string(cfg.Smoothing.Type),
		"smoothing type: laplacian, taubin, feature_preserving or boundary_outline")
	iterations := flag.Int("iterations", cfg.Smoothing.Iterations, "smoothing iteration count")
	lambda := flag.Float64("lambda", cfg.Smoothing.Lambda, "taubin lambda step [0.01,0.99]")
	mu := flag.Float64("mu", cfg.Smoothing.Mu, "taubin mu step [-0.99,-0.01]")
	preserve := flag.Bool("preserve-features", cfg.Smoothing.PreserveFeatures, "pin sharp-feature vertices while smoothing")
	featureAngle := flag.Float64("feature-angle", cfg.Smoothing.FeatureAngle, "sharp feature dihedral threshold in degrees")

	background := flag.Bool("background", cfg.Background.Enabled, "add a display slab under the model")
	bgDepth := flag.Float64("background-depth", cfg.Background.Depth, "slab thickness")
	bgMargin := flag.Float64("background-margin", cfg.Background.Margin, "slab margin as a fraction of the footprint")
	border := flag.Bool("border", cfg.Background.Border, "raise a border wall along the slab rim")
	borderHeight := flag.Float64("border-height", cfg.Background.BorderHeight, "border wall height")
	borderThickness := flag.Float64("border-thickness", cfg.Background.BorderThickness, "border wall thickness")

	out := flag.String("out", "trailforge.stl", "output file path")
	ascii := flag.Bool("ascii", false, "write ASCII STL instead of binary")
	quiet := flag.Bool("quiet", false, "suppress progress output")
	progressRate := flag.Int("progress-rate", 4, "progress lines per second")
	flag.Parse()

	cfg.Sim.Width = *width
	cfg.Sim.Height = *height
	cfg.Sim.Seed = *seed
	cfg.Sim.Params.Actors = *actors
	cfg.Sim.Params.Decay = *decay
	cfg.Sim.Params.Diffusion = *diffusion
	cfg.Sim.Params.DepositAmount = *deposit
	cfg.Sim.Params.ViewRadius = *viewRadius
	cfg.Sim.Params.ViewDistance = *viewDistance
	cfg.Sim.Params.Speed = *speed
	cfg.Sim.Params.SpeedMin = *speedMin
	cfg.Sim.Params.SpeedMax = *speedMax
	cfg.Sim.Params.SpawnSpeedRandomization = *spawnSpeedRand
	cfg.Sim.Params.InitialDiameter = *diameter
	cfg.Sim.Params.DeathProbability = *deathProb
	cfg.Sim.Params.SpawnProbability = *spawnProb
	cfg.Sim.Params.DirectionDeviation = *deviation

	cfg.Steps = *steps
	cfg.LayerFrequency = *layerFreq
	cfg.Threshold = *threshold
	cfg.LayerHeight = *layerHeight
	cfg.BaseRadius = *baseRadius
	cfg.Mode = pipeline.ExtractionMode(*mode)
	cfg.Smoothing.Type = mesh.SmoothingType(*smoothing)
	cfg.Smoothing.Iterations = *iterations
	cfg.Smoothing.Lambda = *lambda
	cfg.Smoothing.Mu = *mu
	cfg.Smoothing.PreserveFeatures = *preserve
	cfg.Smoothing.FeatureAngle = *featureAngle
	cfg.Background.Enabled = *background
	cfg.Background.Depth = *bgDepth
	cfg.Background.Margin = *bgMargin
	cfg.Background.Border = *border
	cfg.Background.BorderHeight = *borderHeight
	cfg.Background.BorderThickness = *borderThickness

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	throttle := core.NewFixedStep(*progressRate)
	onProgress := func(p pipeline.Progress) {
		if *quiet {
			return
		}
		if p.Stage == "simulate" {
			if p.Step < p.TotalSteps && !throttle.ShouldStep() {
				return
			}
			fmt.Printf("step %d/%d  actors=%d  layers=%d  trail max=%.3f mean=%.4f\n",
				p.Step, p.TotalSteps, p.Actors, p.Layers, p.MaxTrail, p.MeanTrail)
			return
		}
		fmt.Printf("stage %s\n", p.Stage)
	}

	res, err := pipeline.Run(ctx, cfg, onProgress)
	if err != nil {
		log.Fatalf("run failed: %v", err)
	}
	if res.Aborted {
		log.Fatalf("run cancelled after %d steps, %d layers", res.StepsRun, res.Layers)
	}
	if res.TruncatedAt >= 0 {
		fmt.Printf("layer stack truncated at layer %d (no connected cells above)\n", res.TruncatedAt)
	}
	if res.Mesh.Empty() {
		log.Fatalf("run produced no geometry: %d layers captured, nothing above threshold %g",
			res.Layers, cfg.Threshold)
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("create %s: %v", *out, err)
	}
	name := strings.TrimSuffix(*out, ".stl")
	if *ascii {
		err = mesh.WriteASCIISTL(f, res.Mesh, name)
	} else {
		err = mesh.WriteBinarySTL(f, res.Mesh, name)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		log.Fatalf("write %s: %v", *out, err)
	}

	q := res.Quality
	fmt.Printf("wrote %s: %d vertices, %d faces\n", *out, q.VertexCount, q.FaceCount)
	fmt.Printf("quality: watertight=%t winding=%t print_ready=%t volume=%.2f area=%.2f\n",
		q.Watertight, q.WindingConsistent, q.PrintReady, q.Volume, q.SurfaceArea)
	for _, issue := range q.Issues {
		fmt.Printf("issue: %s\n", issue)
	}
	if !q.PrintReady {
		os.Exit(1)
	}
}

// Package pipeline runs a trail simulation end to end: tick the world,
// capture layer snapshots, stack them into an occupancy volume, extract a
// surface and deliver a repaired, export-ready mesh.
package pipeline

import (
	"context"
	"fmt"

	"trailforge/internal/mesh"
	"trailforge/internal/sim"
	"trailforge/internal/volume"
)

// ExtractionMode selects how the occupancy volume becomes a mesh.
type ExtractionMode string

const (
	// ModeVoxel emits exact axis-aligned quads for every exposed voxel
	// face.
	ModeVoxel ExtractionMode = "voxel"
	// ModeSmooth extracts the 0.5-isosurface of the occupancy density and
	// then runs the configured smoothing passes.
	ModeSmooth ExtractionMode = "smooth"
)

// Config bundles everything a run needs. Validate before calling Run.
type Config struct {
	Sim sim.Config

	// Steps is the tick count of the simulation phase.
	Steps int
	// LayerFrequency captures a layer snapshot every that many ticks. The
	// first and last executed tick are always captured.
	LayerFrequency int
	// Threshold is the trail strength above which a cell counts as active
	// in a layer snapshot.
	Threshold float64

	// LayerHeight stretches each layer to this many world units of height.
	LayerHeight float64
	// BaseRadius, when positive, stamps a solid disk into the bottom layer
	// so the model always has a stable footprint.
	BaseRadius float64

	Mode       ExtractionMode
	Smoothing  mesh.SmoothConfig
	Background mesh.BackgroundConfig
}

// DefaultConfig returns a config that produces a reasonable small model.
func DefaultConfig() Config {
	return Config{
		Sim:            sim.DefaultConfig(),
		Steps:          150,
		LayerFrequency: 5,
		Threshold:      0.1,
		LayerHeight:    1,
		Mode:           ModeSmooth,
		Smoothing:      mesh.DefaultSmoothConfig(),
		Background:     mesh.DefaultBackgroundConfig(),
	}
}

// Validate rejects out-of-range or inconsistent parameters before any
// simulation work begins.
func (c Config) Validate() error {
	if err := c.Sim.Validate(); err != nil {
		return err
	}
	if c.Steps < 1 {
		return fmt.Errorf("step count must be at least 1, got %d", c.Steps)
	}
	if c.LayerFrequency < 1 {
		return fmt.Errorf("layer frequency must be at least 1, got %d", c.LayerFrequency)
	}
	if c.Threshold < 0 || c.Threshold > 1 {
		return fmt.Errorf("inclusion threshold must be in [0, 1], got %g", c.Threshold)
	}
	if c.LayerHeight <= 0 {
		return fmt.Errorf("layer height must be positive, got %g", c.LayerHeight)
	}
	if c.BaseRadius < 0 {
		return fmt.Errorf("base radius must be non-negative, got %g", c.BaseRadius)
	}
	switch c.Mode {
	case ModeVoxel, ModeSmooth:
	default:
		return fmt.Errorf("unknown extraction mode %q", c.Mode)
	}
	if err := c.Smoothing.Validate(); err != nil {
		return err
	}
	return c.Background.Validate()
}

// Progress is a read-only snapshot for the job-management layer, published
// after every tick and after every pipeline stage.
type Progress struct {
	Stage      string
	Step       int
	TotalSteps int
	Actors     int
	Layers     int
	MaxTrail   float64
	MeanTrail  float64
}

// Result carries everything a run produced. Degenerate runs (extinction,
// empty layer stack, zero-volume occupancy) yield an empty mesh here, not
// an error.
type Result struct {
	Mesh    *mesh.Mesh
	Quality mesh.QualityReport

	// Layers is the number of captured snapshots; StepsRun the number of
	// ticks actually executed (early extinction cuts the run short).
	Layers   int
	StepsRun int

	// TruncatedAt is the layer index where volume assembly cut the stack
	// because a layer filtered to empty, or -1.
	TruncatedAt int

	// Aborted marks a cooperative cancellation; the rest of the result is
	// whatever had been computed by then.
	Aborted bool
}

// Run executes the configured pipeline. It returns an error only for
// invalid configuration; everything after validation is reported through
// the Result. Cancellation is checked at tick boundaries and between
// pipeline stages.
func Run(ctx context.Context, cfg Config, onProgress func(Progress)) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	notify := onProgress
	if notify == nil {
		notify = func(Progress) {}
	}

	world := sim.NewWithConfig(cfg.Sim)
	res := &Result{Mesh: &mesh.Mesh{}, TruncatedAt: -1}

	var masks []volume.Mask
	capture := func() {
		masks = append(masks, volume.NewMask(cfg.Sim.Width, cfg.Sim.Height, world.Mask(cfg.Threshold)))
	}

	lastCaptured := -1
	for t := 0; t < cfg.Steps; t++ {
		if ctx.Err() != nil {
			res.Aborted = true
			res.Layers = len(masks)
			return res, nil
		}
		world.Step()
		res.StepsRun = t + 1

		if t%cfg.LayerFrequency == 0 || t == cfg.Steps-1 {
			capture()
			lastCaptured = t
		}
		maxTrail, meanTrail := world.Field().Stats()
		notify(Progress{
			Stage:      "simulate",
			Step:       t + 1,
			TotalSteps: cfg.Steps,
			Actors:     world.ActorCount(),
			Layers:     len(masks),
			MaxTrail:   maxTrail,
			MeanTrail:  meanTrail,
		})

		// Extinction halts the run early; the stack keeps whatever was
		// captured, ending with the state the last actor left behind.
		if world.ActorCount() == 0 {
			if lastCaptured != t {
				capture()
			}
			break
		}
	}
	res.Layers = len(masks)

	stage := func(name string) bool {
		if ctx.Err() != nil {
			res.Aborted = true
			return false
		}
		notify(Progress{
			Stage:      name,
			Step:       res.StepsRun,
			TotalSteps: cfg.Steps,
			Actors:     world.ActorCount(),
			Layers:     res.Layers,
		})
		return true
	}

	if !stage("assemble") {
		return res, nil
	}
	vol := volume.Assemble(masks, volume.Options{
		LayerHeight: cfg.LayerHeight,
		BaseRadius:  cfg.BaseRadius,
	})
	res.TruncatedAt = vol.TruncatedAt

	if !stage("extract") {
		return res, nil
	}
	switch cfg.Mode {
	case ModeVoxel:
		res.Mesh = mesh.ExtractVoxelSurface(vol)
	case ModeSmooth:
		res.Mesh = mesh.ExtractIsosurface(vol)
	}

	if cfg.Mode == ModeSmooth && cfg.Smoothing.Iterations > 0 {
		if !stage("smooth") {
			return res, nil
		}
		mesh.Smooth(res.Mesh, cfg.Smoothing)
	}

	if cfg.Background.Enabled {
		if !stage("background") {
			return res, nil
		}
		mesh.AddBackground(res.Mesh, cfg.Background)
	}

	if !stage("repair") {
		return res, nil
	}
	res.Quality = mesh.Repair(res.Mesh)
	return res, nil
}

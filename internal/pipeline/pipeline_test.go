package pipeline

import (
	"context"
	"testing"
)

// quietConfig returns a deterministic run with lifecycle randomness turned
// off, so layer capture counts are exact.
func quietConfig() Config {
	cfg := DefaultConfig()
	cfg.Sim.Width = 50
	cfg.Sim.Height = 50
	cfg.Sim.Seed = 7
	cfg.Sim.Params.Actors = 10
	cfg.Sim.Params.DeathProbability = 0
	cfg.Sim.Params.SpawnProbability = 0
	cfg.Steps = 20
	cfg.LayerFrequency = 5
	cfg.Threshold = 0.1
	cfg.Mode = ModeVoxel
	cfg.Background.Enabled = false
	return cfg
}

func TestRunCapturesExpectedLayers(t *testing.T) {
	res, err := Run(context.Background(), quietConfig(), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	// Captures at ticks 0, 5, 10, 15 and the always-captured final tick.
	if res.Layers != 5 {
		t.Fatalf("captured %d layers, want 5", res.Layers)
	}
	if res.StepsRun != 20 {
		t.Fatalf("steps run = %d, want 20", res.StepsRun)
	}
	if res.Aborted {
		t.Fatal("uncancelled run reported aborted")
	}
}

func TestRunDeterministic(t *testing.T) {
	a, err := Run(context.Background(), quietConfig(), nil)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	b, err := Run(context.Background(), quietConfig(), nil)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(a.Mesh.Verts) != len(b.Mesh.Verts) || len(a.Mesh.Faces) != len(b.Mesh.Faces) {
		t.Fatalf("mesh differs between identical runs: %d/%d verts, %d/%d faces",
			len(a.Mesh.Verts), len(b.Mesh.Verts), len(a.Mesh.Faces), len(b.Mesh.Faces))
	}
	if a.Quality.Volume != b.Quality.Volume {
		t.Fatalf("volume differs between identical runs: %g vs %g", a.Quality.Volume, b.Quality.Volume)
	}
}

func TestRunVoxelModePrintReady(t *testing.T) {
	cfg := quietConfig()
	cfg.BaseRadius = 5

	res, err := Run(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Mesh.Empty() {
		t.Fatal("run produced an empty mesh despite a forced base disk")
	}
	if !res.Quality.PrintReady {
		t.Fatalf("voxel mesh not print ready: %v", res.Quality.Issues)
	}
	if res.Quality.Volume <= 0 {
		t.Fatalf("volume = %g, want positive", res.Quality.Volume)
	}
}

func TestRunSmoothMode(t *testing.T) {
	cfg := quietConfig()
	cfg.Mode = ModeSmooth
	cfg.BaseRadius = 5

	res, err := Run(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Mesh.Empty() {
		t.Fatal("smooth mode produced an empty mesh")
	}
	if !res.Quality.Watertight {
		t.Fatalf("isosurface mesh not watertight: %v", res.Quality.Issues)
	}
}

func TestRunBackground(t *testing.T) {
	bare := quietConfig()
	bare.BaseRadius = 5
	plain, err := Run(context.Background(), bare, nil)
	if err != nil {
		t.Fatalf("run without background: %v", err)
	}

	cfg := bare
	cfg.Background.Enabled = true
	cfg.Background.Border = true
	withBase, err := Run(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("run with background: %v", err)
	}
	if len(withBase.Mesh.Faces) != len(plain.Mesh.Faces)+5*12 {
		t.Fatalf("background added %d faces, want %d",
			len(withBase.Mesh.Faces)-len(plain.Mesh.Faces), 5*12)
	}
	if !withBase.Quality.PrintReady {
		t.Fatalf("mesh with background not print ready: %v", withBase.Quality.Issues)
	}
}

func TestRunReportsProgressStages(t *testing.T) {
	var ticks int
	stages := map[string]bool{}
	_, err := Run(context.Background(), quietConfig(), func(p Progress) {
		stages[p.Stage] = true
		if p.Stage == "simulate" {
			ticks++
			if p.TotalSteps != 20 {
				t.Fatalf("total steps = %d, want 20", p.TotalSteps)
			}
		}
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if ticks != 20 {
		t.Fatalf("got %d tick reports, want 20", ticks)
	}
	for _, want := range []string{"assemble", "extract", "repair"} {
		if !stages[want] {
			t.Fatalf("missing %q stage report, got %v", want, stages)
		}
	}
}

func TestRunExtinctionHaltsEarly(t *testing.T) {
	cfg := quietConfig()
	cfg.Sim.Params.DeathProbability = 1
	cfg.Steps = 10

	res, err := Run(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.StepsRun != 1 {
		t.Fatalf("steps run = %d, want 1 after immediate extinction", res.StepsRun)
	}
	if res.Layers != 1 {
		t.Fatalf("captured %d layers, want 1", res.Layers)
	}
	if res.Aborted {
		t.Fatal("extinction must not count as cancellation")
	}
}

func TestRunCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Run(ctx, quietConfig(), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !res.Aborted {
		t.Fatal("cancelled run not marked aborted")
	}
	if res.Layers != 0 || res.StepsRun != 0 {
		t.Fatalf("cancelled run did work: %d layers, %d steps", res.Layers, res.StepsRun)
	}
}

func TestRunCancelledMidRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	res, err := Run(ctx, quietConfig(), func(p Progress) {
		if p.Stage == "simulate" && p.Step == 3 {
			cancel()
		}
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !res.Aborted {
		t.Fatal("mid-run cancellation not marked aborted")
	}
	if res.StepsRun != 3 {
		t.Fatalf("steps run = %d, want 3", res.StepsRun)
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero steps", func(c *Config) { c.Steps = 0 }},
		{"zero layer frequency", func(c *Config) { c.LayerFrequency = 0 }},
		{"threshold above one", func(c *Config) { c.Threshold = 1.5 }},
		{"zero layer height", func(c *Config) { c.LayerHeight = 0 }},
		{"negative base radius", func(c *Config) { c.BaseRadius = -1 }},
		{"unknown mode", func(c *Config) { c.Mode = "marching" }},
		{"bad smoothing", func(c *Config) { c.Smoothing.Lambda = 2 }},
		{"bad background", func(c *Config) { c.Background.Enabled = true; c.Background.Depth = -1 }},
		{"bad sim", func(c *Config) { c.Sim.Width = 0 }},
	}
	for _, tc := range cases {
		cfg := quietConfig()
		tc.mutate(&cfg)
		if _, err := Run(context.Background(), cfg, nil); err == nil {
			t.Fatalf("%s: expected a config error", tc.name)
		}
	}
}

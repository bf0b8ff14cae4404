package sim

import (
	"math"
	"slices"
	"testing"
)

func TestResetDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 48
	cfg.Height = 32
	cfg.Seed = 99
	cfg.Params.Actors = 20

	world := NewWithConfig(cfg)
	world.Reset(0)

	initialActors := append([]Actor(nil), world.Actors()...)
	if len(initialActors) != 20 {
		t.Fatalf("expected 20 actors, got %d", len(initialActors))
	}

	// Mutate state to ensure Reset rebuilds from scratch.
	world.Step()
	world.Step()

	world.Reset(0)
	if !slices.Equal(initialActors, world.Actors()) {
		t.Fatal("Reset with config seed not deterministic for actors")
	}
	for _, v := range world.Field().Cells() {
		if v != 0 {
			t.Fatal("Reset must clear the trail field")
		}
	}

	world.Reset(777)
	seedActors := append([]Actor(nil), world.Actors()...)
	world.Reset(777)
	if !slices.Equal(seedActors, world.Actors()) {
		t.Fatal("Reset with explicit seed not deterministic")
	}
	if slices.Equal(initialActors, seedActors) {
		t.Fatal("different seeds should produce different initial actors")
	}
}

func TestStepDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 40
	cfg.Height = 40
	cfg.Seed = 7
	cfg.Params.Actors = 15

	a := NewWithConfig(cfg)
	b := NewWithConfig(cfg)
	for i := 0; i < 30; i++ {
		a.Step()
		b.Step()
	}
	if !slices.Equal(a.Actors(), b.Actors()) {
		t.Fatal("identical configs must step identically")
	}
	if !slices.Equal(a.Field().Cells(), b.Field().Cells()) {
		t.Fatal("identical configs must leave identical fields")
	}
}

func TestInitialPlacementInsideDisk(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 100
	cfg.Height = 100
	cfg.Params.Actors = 200
	cfg.Params.InitialDiameter = 30

	world := NewWithConfig(cfg)
	cx, cy := 50.0, 50.0
	for i, a := range world.Actors() {
		d := math.Hypot(a.X-cx, a.Y-cy)
		if d > 15+1e-9 {
			t.Fatalf("actor %d placed at distance %f, outside diameter 30 disk", i, d)
		}
	}
}

func TestActorSpeedsWithinRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Params.Actors = 50
	cfg.Params.SpeedMin = 0.5
	cfg.Params.SpeedMax = 2.0

	world := NewWithConfig(cfg)
	for i, a := range world.Actors() {
		if a.Speed < 0.5 || a.Speed > 2.0 {
			t.Fatalf("actor %d speed %f outside [0.5, 2.0]", i, a.Speed)
		}
	}
}

func TestTrailNonNegativeOverRun(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 50
	cfg.Height = 50
	cfg.Params.Actors = 10
	cfg.Params.Decay = 0.05
	cfg.Params.Diffusion = 0.2

	world := NewWithConfig(cfg)
	for i := 0; i < 100; i++ {
		world.Step()
		for _, v := range world.Field().Cells() {
			if v < 0 {
				t.Fatalf("tick %d: negative trail %f", i, v)
			}
		}
	}
}

func TestFullDecayNoDepositors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 30
	cfg.Height = 30
	cfg.Params.Actors = 5
	cfg.Params.Decay = 1.0
	cfg.Params.SpawnProbability = 0
	cfg.Params.DeathProbability = 1.0

	world := NewWithConfig(cfg)
	world.Step() // everyone deposits once, then dies; full decay wipes the field
	if world.ActorCount() != 0 {
		// Death probability 1.0 with zero spawn must extinguish the population.
		t.Fatalf("expected extinction, %d actors alive", world.ActorCount())
	}
	world.Step()
	for _, v := range world.Field().Cells() {
		if v != 0 {
			t.Fatalf("decay=1.0 with no depositors must zero the field, found %f", v)
		}
	}
}

func TestExtinctionIsNotAnError(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 20
	cfg.Height = 20
	cfg.Params.Actors = 3
	cfg.Params.DeathProbability = 1.0
	cfg.Params.SpawnProbability = 0

	world := NewWithConfig(cfg)
	for i := 0; i < 10; i++ {
		world.Step()
	}
	if world.ActorCount() != 0 {
		t.Fatalf("expected empty population, got %d", world.ActorCount())
	}
	if world.StepCount() != 10 {
		t.Fatalf("stepping an extinct world must still advance ticks, got %d", world.StepCount())
	}
}

func TestSpawnInheritsSpeedWithinBand(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 60
	cfg.Height = 60
	cfg.Params.Actors = 30
	cfg.Params.Speed = 2.0
	cfg.Params.SpawnProbability = 1.0
	cfg.Params.DeathProbability = 0
	cfg.Params.SpawnSpeedRandomization = 0.25

	world := NewWithConfig(cfg)
	world.Step()
	actors := world.Actors()
	if len(actors) != 60 {
		t.Fatalf("spawn probability 1.0 must double the population, got %d", len(actors))
	}
	for _, a := range actors[30:] {
		if a.Age != 0 {
			t.Fatalf("offspring must start at age zero, got %d", a.Age)
		}
		if a.Speed < 2.0*0.75-1e-9 || a.Speed > 2.0*1.25+1e-9 {
			t.Fatalf("offspring speed %f outside inheritance band", a.Speed)
		}
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	good := DefaultConfig()
	if err := good.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"cell budget", func(c *Config) { c.Width = 4096; c.Height = 4096 }},
		{"no actors", func(c *Config) { c.Params.Actors = 0 }},
		{"decay above one", func(c *Config) { c.Params.Decay = 1.5 }},
		{"negative diffusion", func(c *Config) { c.Params.Diffusion = -0.1 }},
		{"speed band inverted", func(c *Config) { c.Params.SpeedMin = 3; c.Params.SpeedMax = 1 }},
		{"deviation above pi", func(c *Config) { c.Params.DirectionDeviation = 4 }},
		{"spawn probability", func(c *Config) { c.Params.SpawnProbability = 2 }},
	}
	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}

func TestSetFloatParameterClamps(t *testing.T) {
	world := NewWithConfig(DefaultConfig())
	if !world.SetFloatParameter("decay", 1.5) {
		t.Fatal("decay must be adjustable")
	}
	if got := world.Config().Params.Decay; got != 1 {
		t.Fatalf("expected decay clamped to 1, got %f", got)
	}
	if world.SetFloatParameter("unknown", 0.5) {
		t.Fatal("unknown keys must be rejected")
	}
}

func TestSetIntParameterClamps(t *testing.T) {
	world := NewWithConfig(DefaultConfig())
	if !world.SetIntParameter("view_radius", 5) {
		t.Fatal("view_radius must be adjustable")
	}
	if got := world.Config().Params.ViewRadius; got != 5 {
		t.Fatalf("expected view radius 5, got %d", got)
	}
	world.SetIntParameter("view_radius", -3)
	if got := world.Config().Params.ViewRadius; got != 0 {
		t.Fatalf("expected view radius clamped to 0, got %d", got)
	}
	world.SetIntParameter("view_radius", 99)
	if got := world.Config().Params.ViewRadius; got != maxViewRadius {
		t.Fatalf("expected view radius clamped to %d, got %d", maxViewRadius, got)
	}
	if world.SetIntParameter("unknown", 1) {
		t.Fatal("unknown keys must be rejected")
	}
}

func TestDepositAtSeamWrapsToOppositeEdge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 50
	cfg.Height = 50
	cfg.Seed = 11
	cfg.Params.Actors = 1
	cfg.Params.Decay = 0
	cfg.Params.Diffusion = 0
	cfg.Params.DeathProbability = 0
	cfg.Params.SpawnProbability = 0
	cfg.Params.DepositAmount = 1

	world := NewWithConfig(cfg)

	// Park the lone actor in the band that rounds to the grid edge; zero
	// speed keeps it there through the step.
	a := &world.Actors()[0]
	a.X, a.Y = 49.7, 49.6
	a.Speed = 0

	world.Step()

	var total float64
	for _, v := range world.Field().Cells() {
		total += float64(v)
	}
	if math.Abs(total-1) > 1e-6 {
		t.Fatalf("expected the full deposit to land on the field, got %f", total)
	}
	if got := world.Field().StrengthAt(0, 0); math.Abs(got-1) > 1e-6 {
		t.Fatalf("deposit past the seam must wrap to (0, 0), got %f", got)
	}
}

package sim

import (
	"fmt"
	"math"
	"strconv"
)

// maxCells caps the grid area so a single run cannot exhaust memory.
const maxCells = 4 << 20

// Params holds the tunable behavior of the trail field and actor population.
type Params struct {
	Actors int

	Decay     float64
	Diffusion float64

	ViewRadius   int
	ViewDistance float64

	Speed    float64
	SpeedMin float64
	SpeedMax float64

	SpawnSpeedRandomization float64
	InitialDiameter         float64

	DeathProbability   float64
	SpawnProbability   float64
	DirectionDeviation float64

	DepositAmount float64
}

// Config controls the simulation dimensions and population parameters.
type Config struct {
	Width  int
	Height int

	Seed int64

	Params Params
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:  100,
		Height: 100,
		Seed:   1337,
		Params: Params{
			Actors:                  50,
			Decay:                   0.01,
			Diffusion:               0,
			ViewRadius:              3,
			ViewDistance:            10,
			Speed:                   1.0,
			SpawnSpeedRandomization: 0.2,
			InitialDiameter:         20,
			DeathProbability:        0.001,
			SpawnProbability:        0.005,
			DirectionDeviation:      1.57,
			DepositAmount:           1.0,
		},
	}
}

// SpeedRange returns the effective [min, max] speed band for new actors.
// When no explicit band is configured both bounds collapse to Speed.
func (p Params) SpeedRange() (float64, float64) {
	min, max := p.SpeedMin, p.SpeedMax
	if min == 0 {
		min = p.Speed
	}
	if max == 0 {
		max = p.Speed
	}
	return min, max
}

// Validate rejects out-of-range or mutually inconsistent parameters before
// any simulation work begins.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("grid dimensions must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.Width*c.Height > maxCells {
		return fmt.Errorf("grid %dx%d exceeds the %d cell budget", c.Width, c.Height, maxCells)
	}
	p := c.Params
	if p.Actors <= 0 {
		return fmt.Errorf("actor count must be positive, got %d", p.Actors)
	}
	if p.Decay < 0 || p.Decay > 1 {
		return fmt.Errorf("decay rate must be in [0, 1], got %g", p.Decay)
	}
	if p.Diffusion < 0 || p.Diffusion > 1 {
		return fmt.Errorf("diffusion rate must be in [0, 1], got %g", p.Diffusion)
	}
	if p.ViewRadius < 0 {
		return fmt.Errorf("view radius must be non-negative, got %d", p.ViewRadius)
	}
	if p.ViewDistance < 0 {
		return fmt.Errorf("view distance must be non-negative, got %g", p.ViewDistance)
	}
	min, max := p.SpeedRange()
	if min <= 0 || max <= 0 {
		return fmt.Errorf("speed values must be positive, got [%g, %g]", min, max)
	}
	if min > max {
		return fmt.Errorf("speed min %g exceeds speed max %g", min, max)
	}
	if p.SpawnSpeedRandomization < 0 || p.SpawnSpeedRandomization > 1 {
		return fmt.Errorf("spawn speed randomization must be in [0, 1], got %g", p.SpawnSpeedRandomization)
	}
	if p.InitialDiameter <= 0 {
		return fmt.Errorf("initial diameter must be positive, got %g", p.InitialDiameter)
	}
	if p.DeathProbability < 0 || p.DeathProbability > 1 {
		return fmt.Errorf("death probability must be in [0, 1], got %g", p.DeathProbability)
	}
	if p.SpawnProbability < 0 || p.SpawnProbability > 1 {
		return fmt.Errorf("spawn probability must be in [0, 1], got %g", p.SpawnProbability)
	}
	if p.DirectionDeviation < 0 || p.DirectionDeviation > math.Pi {
		return fmt.Errorf("direction deviation must be in [0, π], got %g", p.DirectionDeviation)
	}
	if p.DepositAmount <= 0 {
		return fmt.Errorf("deposit amount must be positive, got %g", p.DepositAmount)
	}
	return nil
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["actors"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Params.Actors = parsed
		}
	}
	if v, ok := cfg["decay"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.Decay = parsed
		}
	}
	if v, ok := cfg["diffusion"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.Diffusion = parsed
		}
	}
	if v, ok := cfg["view_radius"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Params.ViewRadius = parsed
		}
	}
	if v, ok := cfg["view_distance"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.ViewDistance = parsed
		}
	}
	if v, ok := cfg["speed"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Params.Speed = parsed
		}
	}
	if v, ok := cfg["speed_min"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Params.SpeedMin = parsed
		}
	}
	if v, ok := cfg["speed_max"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Params.SpeedMax = parsed
		}
	}
	if v, ok := cfg["spawn_speed_randomization"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.SpawnSpeedRandomization = parsed
		}
	}
	if v, ok := cfg["initial_diameter"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Params.InitialDiameter = parsed
		}
	}
	if v, ok := cfg["death_probability"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.DeathProbability = parsed
		}
	}
	if v, ok := cfg["spawn_probability"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.SpawnProbability = parsed
		}
	}
	if v, ok := cfg["direction_deviation"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.DirectionDeviation = parsed
		}
	}
	if v, ok := cfg["deposit"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Params.DepositAmount = parsed
		}
	}
	return c
}

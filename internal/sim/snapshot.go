package sim

import (
	"strconv"

	"trailforge/internal/core"
)

// Parameters reports the current configuration as a grouped snapshot for the
// CLI's run header and the viewer HUD.
func (w *World) Parameters() core.ParameterSnapshot {
	params := w.cfg.Params
	groups := []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				intParam("w", "Width", w.cfg.Width),
				intParam("h", "Height", w.cfg.Height),
				int64Param("seed", "Seed", w.cfg.Seed),
				intParam("actors", "Actors", params.Actors),
			},
		},
		{
			Name: "Trail",
			Params: []core.Parameter{
				floatParam("decay", "Decay rate", params.Decay),
				floatParam("diffusion", "Diffusion rate", params.Diffusion),
				floatParam("deposit", "Deposit amount", params.DepositAmount),
			},
		},
		{
			Name: "Sensing",
			Params: []core.Parameter{
				intParam("view_radius", "View radius", params.ViewRadius),
				floatParam("view_distance", "View distance", params.ViewDistance),
				floatParam("direction_deviation", "Direction deviation", params.DirectionDeviation),
			},
		},
		{
			Name: "Lifecycle",
			Params: []core.Parameter{
				floatParam("speed", "Speed", params.Speed),
				floatParam("speed_min", "Speed min", params.SpeedMin),
				floatParam("speed_max", "Speed max", params.SpeedMax),
				floatParam("spawn_speed_randomization", "Spawn speed randomization", params.SpawnSpeedRandomization),
				floatParam("initial_diameter", "Initial diameter", params.InitialDiameter),
				floatParam("death_probability", "Death probability", params.DeathProbability),
				floatParam("spawn_probability", "Spawn probability", params.SpawnProbability),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeInt, Value: strconv.Itoa(value)}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeInt, Value: strconv.FormatInt(value, 10)}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeFloat, Value: strconv.FormatFloat(value, 'g', -1, 64)}
}

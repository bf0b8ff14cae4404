package sim

import (
	"math"

	"trailforge/internal/core"
	pcore "trailforge/pkg/core"
)

// World holds the trail field and actor population and advances them one
// tick at a time. It implements core.Sim so the viewer can drive it.
type World struct {
	cfg Config

	field  *Field
	actors []Actor

	// deposits buffers per-tick trail writes so every actor senses the
	// field state left by the previous tick (read-then-write-barrier
	// discipline, no order-dependent bias).
	deposits []depositOp

	display []uint8

	step int
	rng  *pcore.RNG
}

type depositOp struct {
	x, y   int
	amount float64
}

// New returns a World with the provided dimensions using defaults.
func New(w, h int) *World {
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	return NewWithConfig(cfg)
}

// NewWithConfig returns a World configured from the provided options. The
// config is not validated here; call Config.Validate before running a job.
func NewWithConfig(cfg Config) *World {
	w := &World{
		cfg:     cfg,
		field:   NewField(cfg.Width, cfg.Height),
		display: make([]uint8, cfg.Width*cfg.Height),
		rng:     pcore.NewRNG(cfg.Seed),
	}
	w.placeInitialActors()
	return w
}

// Name returns the simulation identifier.
func (w *World) Name() string { return "trail" }

// Size reports the grid dimensions.
func (w *World) Size() core.Size { return core.Size{W: w.cfg.Width, H: w.cfg.Height} }

// Cells exposes the display buffer: trail strength normalized to 0..255.
func (w *World) Cells() []uint8 { return w.display }

// Field exposes the live trail field.
func (w *World) Field() *Field { return w.field }

// Actors exposes the live population. The slice is owned by the World and
// only valid until the next Step.
func (w *World) Actors() []Actor { return w.actors }

// ActorCount returns the number of live actors.
func (w *World) ActorCount() int { return len(w.actors) }

// StepCount returns the number of completed ticks since the last Reset.
func (w *World) StepCount() int { return w.step }

// TrailStats reports the current maximum and mean trail strength.
func (w *World) TrailStats() (max, mean float64) { return w.field.Stats() }

// Config returns a copy of the world's configuration.
func (w *World) Config() Config { return w.cfg }

// Reset rebuilds the initial population and clears the field using
// deterministic randomness.
func (w *World) Reset(seed int64) {
	effective := seed
	if effective == 0 {
		effective = w.cfg.Seed
	}
	w.rng = pcore.NewRNG(effective)
	w.field.Clear()
	w.actors = w.actors[:0]
	w.deposits = w.deposits[:0]
	w.step = 0
	w.placeInitialActors()
	w.refreshDisplay()
}

// placeInitialActors arranges the starting population on a circle of the
// configured diameter centered on the grid; any remainder that does not fit
// on the ring is scattered uniformly inside the disk.
func (w *World) placeInitialActors() {
	p := w.cfg.Params
	centerX := float64(w.cfg.Width) / 2
	centerY := float64(w.cfg.Height) / 2
	radius := p.InitialDiameter / 2

	onRing := int(math.Pi * p.InitialDiameter)
	if onRing < 1 {
		onRing = 1
	}
	if onRing > p.Actors {
		onRing = p.Actors
	}

	for i := 0; i < onRing; i++ {
		theta := 2 * math.Pi * float64(i) / float64(onRing)
		w.actors = append(w.actors, Actor{
			X:     centerX + radius*math.Cos(theta),
			Y:     centerY + radius*math.Sin(theta),
			Angle: w.rng.Angle(),
			Speed: w.randomSpeed(),
		})
	}
	for i := onRing; i < p.Actors; i++ {
		r := radius * math.Sqrt(w.rng.Float64())
		theta := w.rng.Angle()
		w.actors = append(w.actors, Actor{
			X:     centerX + r*math.Cos(theta),
			Y:     centerY + r*math.Sin(theta),
			Angle: w.rng.Angle(),
			Speed: w.randomSpeed(),
		})
	}
}

func (w *World) randomSpeed() float64 {
	min, max := w.cfg.Params.SpeedRange()
	if min == max {
		return min
	}
	return w.rng.Range(min, max)
}

// Step advances the world by one tick: sense/steer/move every actor against
// the field state from the previous tick, commit buffered deposits, apply
// deaths and spawns, then diffuse and decay the field. Total extinction is
// not an error; the field keeps decaying.
func (w *World) Step() {
	p := w.cfg.Params

	w.deposits = w.deposits[:0]
	for i := range w.actors {
		a := &w.actors[i]
		a.Age++

		left, center, right := a.sense(w.field, p.ViewRadius, p.ViewDistance)
		w.steer(a, left, center, right)
		a.advance()
		a.wrap(float64(w.cfg.Width), float64(w.cfg.Height))

		w.deposits = append(w.deposits, depositOp{
			x:      int(math.Round(a.X)),
			y:      int(math.Round(a.Y)),
			amount: p.DepositAmount,
		})
	}
	for _, d := range w.deposits {
		// Rounding can push a wrapped position to W or H exactly, so the
		// deposit wraps onto the opposite edge rather than falling off.
		w.field.DepositWrapped(d.x, d.y, d.amount)
	}

	w.applyDeaths()
	w.applySpawns()

	w.field.Diffuse(p.Diffusion)
	w.field.Decay(p.Decay)

	w.step++
	w.refreshDisplay()
}

// steer turns the actor toward the strongest sensed signal. When the center
// sensor wins, the heading only jitters by a small bounded deviation.
func (w *World) steer(a *Actor, left, center, right float64) {
	switch {
	case center >= left && center >= right:
		jitter := turnRate / 2
		if dev := w.cfg.Params.DirectionDeviation; dev < jitter {
			jitter = dev
		}
		a.Angle += w.rng.Range(-jitter, jitter)
	case left > right:
		a.Angle -= turnRate
	default:
		a.Angle += turnRate
	}
	a.Angle = math.Mod(a.Angle, 2*math.Pi)
	if a.Angle < 0 {
		a.Angle += 2 * math.Pi
	}
}

// applyDeaths removes actors whose age-weighted death roll fails. The
// per-tick probability grows linearly with age, so old actors thin out
// while the curve stays monotone.
func (w *World) applyDeaths() {
	base := w.cfg.Params.DeathProbability
	if base <= 0 {
		return
	}
	alive := w.actors[:0]
	for _, a := range w.actors {
		effective := base * (1 + float64(a.Age)*0.001)
		if w.rng.Float64() < effective {
			continue
		}
		alive = append(alive, a)
	}
	w.actors = alive
}

// applySpawns gives every live actor a chance to bud an offspring nearby.
// Offspring inherit the parent's heading within the configured deviation and
// its speed within the spawn randomization band, and start at age zero.
func (w *World) applySpawns() {
	p := w.cfg.Params
	if p.SpawnProbability <= 0 {
		return
	}
	parents := len(w.actors)
	for i := 0; i < parents; i++ {
		if w.rng.Float64() >= p.SpawnProbability {
			continue
		}
		parent := w.actors[i]

		theta := w.rng.Angle()
		child := Actor{
			X:     parent.X + spawnDistance*math.Cos(theta),
			Y:     parent.Y + spawnDistance*math.Sin(theta),
			Angle: parent.Angle + w.rng.Triangular(p.DirectionDeviation),
			Speed: parent.Speed,
		}
		if p.SpawnSpeedRandomization > 0 {
			child.Speed = parent.Speed * (1 + w.rng.Range(-p.SpawnSpeedRandomization, p.SpawnSpeedRandomization))
			if child.Speed < minSpawnSpeed {
				child.Speed = minSpawnSpeed
			}
		}
		child.wrap(float64(w.cfg.Width), float64(w.cfg.Height))
		w.actors = append(w.actors, child)
	}
}

// Mask thresholds the current trail field into a binary snapshot.
func (w *World) Mask(threshold float64) []bool {
	return w.field.Mask(threshold)
}

// ParameterControls lists the HUD-adjustable parameters.
func (w *World) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "decay", Label: "Decay", Type: core.ParamTypeFloat, Step: 0.005, Min: 0, Max: 1, HasMin: true, HasMax: true},
		{Key: "diffusion", Label: "Diffusion", Type: core.ParamTypeFloat, Step: 0.01, Min: 0, Max: 1, HasMin: true, HasMax: true},
		{Key: "spawn_probability", Label: "Spawn chance", Type: core.ParamTypeFloat, Step: 0.001, Min: 0, Max: 1, HasMin: true, HasMax: true},
		{Key: "death_probability", Label: "Death chance", Type: core.ParamTypeFloat, Step: 0.001, Min: 0, Max: 1, HasMin: true, HasMax: true},
		{Key: "view_radius", Label: "View radius", Type: core.ParamTypeInt, Step: 1, Min: 0, Max: maxViewRadius, HasMin: true, HasMax: true},
	}
}

// SetFloatParameter updates a float parameter, clamping to its valid range.
func (w *World) SetFloatParameter(key string, value float64) bool {
	clamped := value
	if clamped < 0 {
		clamped = 0
	}
	if clamped > 1 {
		clamped = 1
	}
	switch key {
	case "decay":
		w.cfg.Params.Decay = clamped
	case "diffusion":
		w.cfg.Params.Diffusion = clamped
	case "spawn_probability":
		w.cfg.Params.SpawnProbability = clamped
	case "death_probability":
		w.cfg.Params.DeathProbability = clamped
	default:
		return false
	}
	return true
}

// maxViewRadius bounds live view-radius adjustments; sensing cost grows
// quadratically with the radius.
const maxViewRadius = 12

// SetIntParameter updates an integer parameter, clamping to its valid range.
func (w *World) SetIntParameter(key string, value int) bool {
	switch key {
	case "view_radius":
		if value < 0 {
			value = 0
		}
		if value > maxViewRadius {
			value = maxViewRadius
		}
		w.cfg.Params.ViewRadius = value
	default:
		return false
	}
	return true
}

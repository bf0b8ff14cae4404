package sim

import "math"

// sensorOffset is the angular spread between the forward sensor and the
// left/right sensors, in radians.
const sensorOffset = 0.4

// turnRate is how far an actor rotates toward a stronger side signal per tick.
const turnRate = 0.1

// spawnDistance is how far from its parent a new actor appears.
const spawnDistance = 5.0

// minSpawnSpeed floors inherited speeds so offspring never stall.
const minSpawnSpeed = 0.1

// Actor is a single trail-following agent. Actors are value types owned by
// the World's population slice; nothing outside the package aliases them.
type Actor struct {
	X, Y  float64
	Angle float64
	Speed float64
	Age   int
}

// sense samples the trail field ahead of the actor at the three sensor
// positions and returns (left, center, right) strengths.
func (a *Actor) sense(f *Field, viewRadius int, viewDistance float64) (left, center, right float64) {
	lx, ly := a.sensorAt(-sensorOffset, viewDistance)
	cx, cy := a.sensorAt(0, viewDistance)
	rx, ry := a.sensorAt(sensorOffset, viewDistance)
	left = f.SampleDisk(lx, ly, viewRadius)
	center = f.SampleDisk(cx, cy, viewRadius)
	right = f.SampleDisk(rx, ry, viewRadius)
	return left, center, right
}

func (a *Actor) sensorAt(offset, distance float64) (x, y float64) {
	angle := a.Angle + offset
	return a.X + math.Cos(angle)*distance, a.Y + math.Sin(angle)*distance
}

// advance moves the actor along its heading by its own speed.
func (a *Actor) advance() {
	a.X += math.Cos(a.Angle) * a.Speed
	a.Y += math.Sin(a.Angle) * a.Speed
}

// wrap applies the toroidal boundary policy: positions wrap around both
// axes so the population never piles up against an edge.
func (a *Actor) wrap(w, h float64) {
	a.X = math.Mod(a.X, w)
	if a.X < 0 {
		a.X += w
	}
	a.Y = math.Mod(a.Y, h)
	if a.Y < 0 {
		a.Y += h
	}
}

package sim

import (
	"trailforge/internal/core"
)

// Field is the decaying, diffusing trail layer actors deposit into and sense
// from. Values are never negative.
type Field struct {
	grid    *core.FloatGrid
	scratch []float32
}

// NewField allocates a zeroed trail field with the given dimensions.
func NewField(w, h int) *Field {
	g := core.NewFloatGrid(w, h)
	return &Field{grid: g, scratch: make([]float32, g.W*g.H)}
}

// Width returns the horizontal cell count.
func (f *Field) Width() int { return f.grid.W }

// Height returns the vertical cell count.
func (f *Field) Height() int { return f.grid.H }

// Cells exposes the backing trail values in row-major order.
func (f *Field) Cells() []float32 { return f.grid.Cells() }

// Clear zeroes every cell.
func (f *Field) Clear() { f.grid.Clear() }

// Deposit adds amount at (x, y). Out-of-bounds deposits are dropped.
func (f *Field) Deposit(x, y int, amount float64) {
	if !f.grid.In(x, y) {
		return
	}
	f.grid.Cells()[f.grid.Index(x, y)] += float32(amount)
}

// DepositWrapped adds amount at (x, y) with toroidal wrapping. Actors live
// on a torus, so a position that rounds just past an edge lands on the
// opposite one instead of being lost.
func (f *Field) DepositWrapped(x, y int, amount float64) {
	x, y = f.grid.Wrap(x, y)
	f.grid.Cells()[f.grid.Index(x, y)] += float32(amount)
}

// StrengthAt returns the trail value at (x, y), or zero outside the grid.
func (f *Field) StrengthAt(x, y int) float64 {
	if !f.grid.In(x, y) {
		return 0
	}
	return float64(f.grid.Cells()[f.grid.Index(x, y)])
}

// Decay multiplies every cell by (1 - rate). An un-reinforced cell strictly
// decreases toward zero for any positive rate.
func (f *Field) Decay(rate float64) {
	if rate <= 0 {
		return
	}
	keep := float32(1 - rate)
	if keep < 0 {
		keep = 0
	}
	cells := f.grid.Cells()
	for i := range cells {
		cells[i] *= keep
	}
}

// Diffuse sheds rate of each cell's value equally to its in-bounds
// 8-neighbors. Total trail is conserved; cells on the border shed less
// because they have fewer neighbors to receive it.
func (f *Field) Diffuse(rate float64) {
	if rate <= 0 {
		return
	}
	w, h := f.grid.W, f.grid.H
	cells := f.grid.Cells()
	copy(f.scratch, cells)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := f.scratch[y*w+x]
			if v <= 0 {
				continue
			}
			toDiffuse := v * float32(rate)

			var neighbors [8]int
			count := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx, ny := x+dx, y+dy
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					neighbors[count] = ny*w + nx
					count++
				}
			}
			if count == 0 {
				continue
			}
			per := toDiffuse / float32(count)
			for i := 0; i < count; i++ {
				cells[neighbors[i]] += per
			}
			cells[y*w+x] -= toDiffuse
		}
	}
}

// SampleDisk averages trail strength over the cells within radius of
// (cx, cy). Cells outside the grid contribute zero but still count, so
// sensing fades near the border.
func (f *Field) SampleDisk(cx, cy float64, radius int) float64 {
	if radius <= 0 {
		return f.StrengthAt(int(cx), int(cy))
	}
	total := 0.0
	count := 0
	r2 := radius * radius
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > r2 {
				continue
			}
			total += f.StrengthAt(int(cx)+dx, int(cy)+dy)
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// Stats returns the maximum and mean trail values.
func (f *Field) Stats() (max, mean float64) {
	cells := f.grid.Cells()
	if len(cells) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, v := range cells {
		fv := float64(v)
		if fv > max {
			max = fv
		}
		sum += fv
	}
	return max, sum / float64(len(cells))
}

// Mask thresholds the field into a binary occupancy snapshot. The returned
// slice is independent of the field and safe to retain.
func (f *Field) Mask(threshold float64) []bool {
	cells := f.grid.Cells()
	mask := make([]bool, len(cells))
	t := float32(threshold)
	for i, v := range cells {
		mask[i] = v > t
	}
	return mask
}

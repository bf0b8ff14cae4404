package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// BackgroundConfig describes the optional display base merged under the
// model: a flat slab, optionally with raised border walls along its rim.
type BackgroundConfig struct {
	Enabled bool
	// Depth is the slab thickness below z=0.
	Depth float64
	// Margin widens the slab beyond the model footprint, as a fraction of
	// the footprint extent.
	Margin float64

	Border          bool
	BorderHeight    float64
	BorderThickness float64
}

// DefaultBackgroundConfig mirrors the CLI defaults.
func DefaultBackgroundConfig() BackgroundConfig {
	return BackgroundConfig{
		Depth:           2,
		Margin:          0.05,
		BorderHeight:    1,
		BorderThickness: 0.5,
	}
}

// Validate rejects unusable background dimensions.
func (c BackgroundConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Depth <= 0 {
		return fmt.Errorf("background depth must be positive, got %g", c.Depth)
	}
	if c.Margin < 0 || c.Margin > 1 {
		return fmt.Errorf("background margin must be in [0, 1], got %g", c.Margin)
	}
	if c.Border {
		if c.BorderHeight <= 0 {
			return fmt.Errorf("border height must be positive, got %g", c.BorderHeight)
		}
		if c.BorderThickness <= 0 {
			return fmt.Errorf("border thickness must be positive, got %g", c.BorderThickness)
		}
	}
	return nil
}

// AddBackground appends the slab (and border walls) beneath and around the
// model. This is a union-like append of closed prisms, not a boolean
// operation; it runs before the final repair pass.
func AddBackground(m *Mesh, cfg BackgroundConfig) {
	if !cfg.Enabled || m.Empty() {
		return
	}
	min, max := m.Bounds()
	extX := max.X - min.X
	extY := max.Y - min.Y
	marginX := extX * cfg.Margin
	marginY := extY * cfg.Margin

	lo := r3.Vec{X: min.X - marginX, Y: min.Y - marginY, Z: min.Z - cfg.Depth}
	hi := r3.Vec{X: max.X + marginX, Y: max.Y + marginY, Z: min.Z}
	appendBox(m, lo, hi)

	if !cfg.Border {
		return
	}
	t := cfg.BorderThickness
	top := min.Z + cfg.BorderHeight
	// Four wall prisms along the slab rim, overlapping at the corners.
	appendBox(m, r3.Vec{X: lo.X, Y: lo.Y, Z: min.Z}, r3.Vec{X: hi.X, Y: lo.Y + t, Z: top})
	appendBox(m, r3.Vec{X: lo.X, Y: hi.Y - t, Z: min.Z}, r3.Vec{X: hi.X, Y: hi.Y, Z: top})
	appendBox(m, r3.Vec{X: lo.X, Y: lo.Y + t, Z: min.Z}, r3.Vec{X: lo.X + t, Y: hi.Y - t, Z: top})
	appendBox(m, r3.Vec{X: hi.X - t, Y: lo.Y + t, Z: min.Z}, r3.Vec{X: hi.X, Y: hi.Y - t, Z: top})
}

// appendBox adds a closed axis-aligned prism with outward winding. The box
// brings its own eight vertices; it shares nothing with the rest of the
// mesh.
func appendBox(m *Mesh, lo, hi r3.Vec) {
	base := len(m.Verts)
	// Corner bit layout matches the extraction lattice: bit0=x, bit1=y,
	// bit2=z.
	for c := 0; c < 8; c++ {
		v := r3.Vec{X: lo.X, Y: lo.Y, Z: lo.Z}
		if c&1 != 0 {
			v.X = hi.X
		}
		if c&2 != 0 {
			v.Y = hi.Y
		}
		if c&4 != 0 {
			v.Z = hi.Z
		}
		m.Verts = append(m.Verts, v)
	}
	quads := [6][4]int{
		{1, 3, 7, 5}, // +x
		{0, 4, 6, 2}, // -x
		{2, 6, 7, 3}, // +y
		{0, 1, 5, 4}, // -y
		{4, 5, 7, 6}, // +z
		{0, 2, 3, 1}, // -z
	}
	for _, q := range quads {
		m.Faces = append(m.Faces,
			[3]int{base + q[0], base + q[1], base + q[2]},
			[3]int{base + q[0], base + q[2], base + q[3]})
	}
}

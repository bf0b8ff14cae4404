package mesh

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestTaubinPreservesVolume(t *testing.T) {
	vol := cubeVolume(t, 12)

	taubin := ExtractVoxelSurface(vol)
	before := taubin.Volume()
	Smooth(taubin, SmoothConfig{
		Type:         SmoothTaubin,
		Iterations:   10,
		Lambda:       0.5,
		Mu:           -0.52,
		FeatureAngle: 60,
	})
	taubinShrink := (before - taubin.Volume()) / before
	if math.Abs(taubinShrink) > 0.05 {
		t.Fatalf("taubin volume change = %.2f%%, want within 5%%", taubinShrink*100)
	}

	laplacian := ExtractVoxelSurface(vol)
	Smooth(laplacian, SmoothConfig{
		Type:         SmoothLaplacian,
		Iterations:   10,
		Lambda:       0.5,
		Mu:           -0.52,
		FeatureAngle: 60,
	})
	laplacianShrink := (before - laplacian.Volume()) / before
	if laplacianShrink <= 0 {
		t.Fatalf("laplacian shrink = %.2f%%, want positive", laplacianShrink*100)
	}
	if laplacianShrink <= math.Abs(taubinShrink) {
		t.Fatalf("laplacian shrink %.2f%% should exceed taubin %.2f%%",
			laplacianShrink*100, math.Abs(taubinShrink)*100)
	}
}

func TestLaplacianShrinksMonotonically(t *testing.T) {
	vol := cubeVolume(t, 6)
	m := ExtractVoxelSurface(vol)

	cfg := SmoothConfig{Type: SmoothLaplacian, Iterations: 1, Lambda: 0.3, Mu: -0.3, FeatureAngle: 60}
	prev := m.Volume()
	for i := 0; i < 5; i++ {
		Smooth(m, cfg)
		v := m.Volume()
		if v >= prev {
			t.Fatalf("iteration %d: volume %g did not shrink from %g", i, v, prev)
		}
		prev = v
	}
}

func TestFeaturePreservingPinsCorners(t *testing.T) {
	vol := cubeVolume(t, 3)
	m := ExtractVoxelSurface(vol)

	corner := -1
	for i, v := range m.Verts {
		if v.X == 0 && v.Y == 0 && v.Z == 0 {
			corner = i
			break
		}
	}
	if corner < 0 {
		t.Fatal("origin corner vertex not found")
	}

	before := m.Volume()
	Smooth(m, SmoothConfig{
		Type:         SmoothFeaturePreserving,
		Iterations:   5,
		Lambda:       0.5,
		Mu:           -0.5,
		FeatureAngle: 60,
	})

	if v := m.Verts[corner]; v.X != 0 || v.Y != 0 || v.Z != 0 {
		t.Fatalf("pinned corner moved to %+v", v)
	}
	// Every sharp edge of the cube is pinned and the remaining vertices can
	// only slide within their face plane, so the volume stays put.
	if !almostEqual(m.Volume(), before, 1e-6) {
		t.Fatalf("volume changed from %g to %g", before, m.Volume())
	}
}

// openGrid builds a 3x3 vertex sheet in the z=0 plane with one boundary
// vertex pulled out of line.
func openGrid() *Mesh {
	m := &Mesh{}
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			m.Verts = append(m.Verts, r3.Vec{X: float64(x), Y: float64(y)})
		}
	}
	m.Verts[1].Y = -0.5
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			a := y*3 + x
			m.Faces = append(m.Faces,
				[3]int{a, a + 1, a + 4},
				[3]int{a, a + 4, a + 3})
		}
	}
	return m
}

func TestBoundaryOutlineSmoothsRim(t *testing.T) {
	m := openGrid()
	Smooth(m, SmoothConfig{
		Type:         SmoothBoundaryOutline,
		Iterations:   1,
		Lambda:       0.5,
		Mu:           -0.5,
		FeatureAngle: 60,
	})

	// The displaced rim vertex relaxes halfway toward its two rim
	// neighbors at (0,0) and (2,0).
	if got := m.Verts[1].Y; !almostEqual(got, -0.25, 1e-9) {
		t.Fatalf("rim vertex y = %g, want -0.25", got)
	}
	// The interior vertex never moves.
	if v := m.Verts[4]; v.X != 1 || v.Y != 1 || v.Z != 0 {
		t.Fatalf("interior vertex moved to %+v", v)
	}
}

func TestSmoothNoopCases(t *testing.T) {
	empty := &Mesh{}
	Smooth(empty, DefaultSmoothConfig())
	if !empty.Empty() {
		t.Fatal("smoothing an empty mesh should do nothing")
	}

	m := openGrid()
	before := append([]r3.Vec(nil), m.Verts...)
	cfg := DefaultSmoothConfig()
	cfg.Iterations = 0
	Smooth(m, cfg)
	for i := range before {
		if m.Verts[i] != before[i] {
			t.Fatalf("vertex %d moved with zero iterations", i)
		}
	}
}

func TestSmoothConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*SmoothConfig)
	}{
		{"unknown type", func(c *SmoothConfig) { c.Type = "bilateral" }},
		{"negative iterations", func(c *SmoothConfig) { c.Iterations = -1 }},
		{"lambda too small", func(c *SmoothConfig) { c.Lambda = 0.001 }},
		{"lambda too large", func(c *SmoothConfig) { c.Lambda = 1.5 }},
		{"positive mu", func(c *SmoothConfig) { c.Mu = 0.5 }},
		{"mu weaker than lambda", func(c *SmoothConfig) { c.Lambda = 0.6; c.Mu = -0.5 }},
		{"feature angle out of range", func(c *SmoothConfig) { c.FeatureAngle = 200 }},
	}
	for _, tc := range cases {
		cfg := DefaultSmoothConfig()
		tc.mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
	if err := DefaultSmoothConfig().Validate(); err != nil {
		t.Fatalf("default config rejected: %v", err)
	}
}

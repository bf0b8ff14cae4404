package core

import (
	"math"
	"testing"
)

func TestRNGDeterministic(t *testing.T) {
	a := NewRNG(99)
	b := NewRNG(99)
	for i := 0; i < 100; i++ {
		if a.Float64() != b.Float64() {
			t.Fatalf("sequence diverged at draw %d", i)
		}
	}
}

func TestRangeBounds(t *testing.T) {
	r := NewRNG(1)
	for i := 0; i < 1000; i++ {
		v := r.Range(-2, 3)
		if v < -2 || v >= 3 {
			t.Fatalf("Range(-2,3) = %g out of bounds", v)
		}
	}
	if v := r.Range(5, 5); v != 5 {
		t.Fatalf("empty range returned %g, want 5", v)
	}
	if v := r.Range(5, 1); v != 5 {
		t.Fatalf("inverted range returned %g, want 5", v)
	}
}

func TestAngleBounds(t *testing.T) {
	r := NewRNG(2)
	for i := 0; i < 1000; i++ {
		a := r.Angle()
		if a < 0 || a >= 2*math.Pi {
			t.Fatalf("Angle() = %g out of [0, 2pi)", a)
		}
	}
}

func TestTriangularBoundsAndSymmetry(t *testing.T) {
	r := NewRNG(3)
	sum := 0.0
	const n = 10000
	for i := 0; i < n; i++ {
		v := r.Triangular(0.5)
		if v < -0.5 || v > 0.5 {
			t.Fatalf("Triangular(0.5) = %g out of bounds", v)
		}
		sum += v
	}
	if mean := sum / n; math.Abs(mean) > 0.02 {
		t.Fatalf("triangular mean = %g, want near zero", mean)
	}
	if v := r.Triangular(0); v != 0 {
		t.Fatalf("Triangular(0) = %g, want 0", v)
	}
}

func TestIntN(t *testing.T) {
	r := NewRNG(4)
	for i := 0; i < 100; i++ {
		if v := r.IntN(7); v < 0 || v >= 7 {
			t.Fatalf("IntN(7) = %d out of bounds", v)
		}
	}
	if v := r.IntN(0); v != 0 {
		t.Fatalf("IntN(0) = %d, want 0", v)
	}
}

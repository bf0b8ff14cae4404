package mesh

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// SmoothingType selects the smoothing strategy.
type SmoothingType string

const (
	// SmoothLaplacian moves each vertex toward its neighbor centroid.
	// Simple but shrinks volume over many iterations.
	SmoothLaplacian SmoothingType = "laplacian"
	// SmoothTaubin alternates a positive λ pass with a negative μ pass,
	// cancelling first-order shrinkage. The recommended default.
	SmoothTaubin SmoothingType = "taubin"
	// SmoothFeaturePreserving pins vertices on sharp edges so ridges
	// survive the averaging.
	SmoothFeaturePreserving SmoothingType = "feature_preserving"
	// SmoothBoundaryOutline only relaxes vertices on open mesh
	// boundaries, along their boundary neighbors.
	SmoothBoundaryOutline SmoothingType = "boundary_outline"
)

// SmoothConfig parameterizes a smoothing run.
type SmoothConfig struct {
	Type       SmoothingType
	Iterations int

	// Lambda is the positive smoothing step; Mu the negative inflation
	// step used by Taubin passes. |Mu| must be at least Lambda.
	Lambda float64
	Mu     float64

	// FeatureAngle is the dihedral threshold in degrees beyond which an
	// edge counts as a sharp feature.
	FeatureAngle float64

	// PreserveFeatures pins sharp vertices regardless of the algorithm.
	PreserveFeatures bool
}

// DefaultSmoothConfig mirrors the recommended Taubin setup.
func DefaultSmoothConfig() SmoothConfig {
	return SmoothConfig{
		Type:         SmoothTaubin,
		Iterations:   2,
		Lambda:       0.5,
		Mu:           -0.52,
		FeatureAngle: 60,
	}
}

// Validate rejects inconsistent smoothing parameters.
func (c SmoothConfig) Validate() error {
	switch c.Type {
	case SmoothLaplacian, SmoothTaubin, SmoothFeaturePreserving, SmoothBoundaryOutline:
	default:
		return fmt.Errorf("unknown smoothing type %q", c.Type)
	}
	if c.Iterations < 0 {
		return fmt.Errorf("smoothing iterations must be non-negative, got %d", c.Iterations)
	}
	if c.Lambda < 0.01 || c.Lambda > 0.99 {
		return fmt.Errorf("taubin lambda must be in [0.01, 0.99], got %g", c.Lambda)
	}
	if c.Mu < -0.99 || c.Mu > -0.01 {
		return fmt.Errorf("taubin mu must be in [-0.99, -0.01], got %g", c.Mu)
	}
	if -c.Mu < c.Lambda {
		return fmt.Errorf("taubin mu magnitude %g must be at least lambda %g", -c.Mu, c.Lambda)
	}
	if c.FeatureAngle <= 0 || c.FeatureAngle >= 180 {
		return fmt.Errorf("feature angle must be in (0, 180) degrees, got %g", c.FeatureAngle)
	}
	return nil
}

// Smooth runs the configured smoothing strategy over the mesh in place.
func Smooth(m *Mesh, cfg SmoothConfig) {
	if m.Empty() || cfg.Iterations <= 0 {
		return
	}

	adj := m.neighborLists()

	var pinned []bool
	if cfg.Type == SmoothFeaturePreserving || cfg.PreserveFeatures {
		pinned = m.sharpVertices(cfg.FeatureAngle)
	}

	switch cfg.Type {
	case SmoothTaubin:
		for i := 0; i < cfg.Iterations; i++ {
			laplacianPass(m, adj, cfg.Lambda, pinned)
			laplacianPass(m, adj, cfg.Mu, pinned)
		}
	case SmoothBoundaryOutline:
		boundaryAdj, onBoundary := m.boundaryAdjacency()
		for i := 0; i < cfg.Iterations; i++ {
			boundaryPass(m, boundaryAdj, onBoundary, cfg.Lambda, pinned)
		}
	default: // laplacian, feature_preserving
		for i := 0; i < cfg.Iterations; i++ {
			laplacianPass(m, adj, cfg.Lambda, pinned)
		}
	}
}

// laplacianPass moves every unpinned vertex toward the centroid of its
// neighbors by the given factor. A negative factor pushes away instead,
// which is how the Taubin μ pass re-inflates.
func laplacianPass(m *Mesh, adj [][]int, factor float64, pinned []bool) {
	next := make([]r3.Vec, len(m.Verts))
	copy(next, m.Verts)
	for i, neighbors := range adj {
		if len(neighbors) == 0 {
			continue
		}
		if pinned != nil && pinned[i] {
			continue
		}
		var sum r3.Vec
		for _, n := range neighbors {
			sum = r3.Add(sum, m.Verts[n])
		}
		center := r3.Scale(1/float64(len(neighbors)), sum)
		next[i] = r3.Add(m.Verts[i], r3.Scale(factor, r3.Sub(center, m.Verts[i])))
	}
	m.Verts = next
}

// boundaryPass relaxes boundary vertices along their boundary neighbors
// only; interior vertices never move.
func boundaryPass(m *Mesh, boundaryAdj [][]int, onBoundary []bool, factor float64, pinned []bool) {
	next := make([]r3.Vec, len(m.Verts))
	copy(next, m.Verts)
	for i := range m.Verts {
		if !onBoundary[i] || len(boundaryAdj[i]) == 0 {
			continue
		}
		if pinned != nil && pinned[i] {
			continue
		}
		var sum r3.Vec
		for _, n := range boundaryAdj[i] {
			sum = r3.Add(sum, m.Verts[n])
		}
		center := r3.Scale(1/float64(len(boundaryAdj[i])), sum)
		next[i] = r3.Add(m.Verts[i], r3.Scale(factor, r3.Sub(center, m.Verts[i])))
	}
	m.Verts = next
}

// sharpVertices marks vertices touching an edge whose dihedral angle (the
// deviation between the two face normals) exceeds the threshold.
func (m *Mesh) sharpVertices(featureAngleDeg float64) []bool {
	pinned := make([]bool, len(m.Verts))
	cosThreshold := math.Cos(featureAngleDeg * math.Pi / 180)

	for key, faces := range m.edgeUses() {
		if len(faces) != 2 {
			continue
		}
		n1 := unitOrZero(m.FaceNormal(faces[0]))
		n2 := unitOrZero(m.FaceNormal(faces[1]))
		if r3.Dot(n1, n2) < cosThreshold {
			pinned[key.a] = true
			pinned[key.b] = true
		}
	}
	return pinned
}

// boundaryAdjacency returns, per vertex, its neighbors along open boundary
// edges (edges used by exactly one face), plus a membership mask.
func (m *Mesh) boundaryAdjacency() ([][]int, []bool) {
	adj := make([][]int, len(m.Verts))
	onBoundary := make([]bool, len(m.Verts))
	for key, faces := range m.edgeUses() {
		if len(faces) != 1 {
			continue
		}
		adj[key.a] = append(adj[key.a], key.b)
		adj[key.b] = append(adj[key.b], key.a)
		onBoundary[key.a] = true
		onBoundary[key.b] = true
	}
	return adj, onBoundary
}

func unitOrZero(v r3.Vec) r3.Vec {
	if n := r3.Norm(v); n > 0 {
		return r3.Scale(1/n, v)
	}
	return r3.Vec{}
}

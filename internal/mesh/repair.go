package mesh

import (
	"fmt"
	"sort"
)

// degenerateAreaEps is the face area below which a triangle counts as
// degenerate.
const degenerateAreaEps = 1e-12

// QualityReport summarizes a finished mesh for the caller. It is computed
// once per mesh and read-only thereafter.
type QualityReport struct {
	VertexCount int
	FaceCount   int

	Volume      float64
	SurfaceArea float64

	Watertight        bool
	WindingConsistent bool
	PrintReady        bool

	// Issues lists unresolved problems in human-readable form.
	Issues []string
}

// Repair removes degenerate and duplicate faces, propagates a consistent
// winding where possible, and reports mesh quality. Unfixable geometry is
// reported through the quality flags rather than returned as an error: a
// bad triangle must never take the pipeline down. Running Repair on an
// already repaired mesh is a no-op that reproduces the same report.
func Repair(m *Mesh) QualityReport {
	report := QualityReport{}
	if m.Empty() {
		report.Issues = append(report.Issues, "mesh is empty")
		return report
	}

	dropped := dropDegenerateFaces(m)
	duplicates := dropDuplicateFaces(m)
	orphans := compactVertices(m)
	nonOrientable := propagateWinding(m)

	// Re-orient globally: a fully flipped mesh has negative signed volume.
	if m.SignedVolume() < 0 {
		for i := range m.Faces {
			m.Faces[i][1], m.Faces[i][2] = m.Faces[i][2], m.Faces[i][1]
		}
	}

	boundary, nonManifold := m.edgeCensus()

	report.VertexCount = len(m.Verts)
	report.FaceCount = len(m.Faces)
	report.Watertight = boundary == 0 && nonManifold == 0
	report.WindingConsistent = nonOrientable == 0 && !m.hasMisalignedEdges()
	report.SurfaceArea = m.SurfaceArea()
	if report.Watertight && report.WindingConsistent {
		report.Volume = m.Volume()
	}
	report.PrintReady = report.Watertight && report.WindingConsistent

	if dropped > 0 {
		report.Issues = append(report.Issues, fmt.Sprintf("removed %d degenerate face(s)", dropped))
	}
	if duplicates > 0 {
		report.Issues = append(report.Issues, fmt.Sprintf("removed %d duplicate face(s)", duplicates))
	}
	if orphans > 0 {
		report.Issues = append(report.Issues, fmt.Sprintf("removed %d unreferenced vertex(es)", orphans))
	}
	if boundary > 0 {
		report.Issues = append(report.Issues, fmt.Sprintf("%d boundary edge(s): mesh is not watertight", boundary))
	}
	if nonManifold > 0 {
		report.Issues = append(report.Issues, fmt.Sprintf("%d non-manifold edge(s) shared by more than two faces", nonManifold))
	}
	if nonOrientable > 0 {
		report.Issues = append(report.Issues, fmt.Sprintf("%d edge(s) could not be consistently oriented", nonOrientable))
	}
	return report
}

// dropDegenerateFaces removes faces with repeated vertices or (numerically)
// zero area and returns how many were removed.
func dropDegenerateFaces(m *Mesh) int {
	kept := m.Faces[:0]
	removed := 0
	for i := range m.Faces {
		f := m.Faces[i]
		if f[0] == f[1] || f[1] == f[2] || f[2] == f[0] {
			removed++
			continue
		}
		if m.FaceArea(i) < degenerateAreaEps {
			removed++
			continue
		}
		kept = append(kept, f)
	}
	m.Faces = kept
	return removed
}

// dropDuplicateFaces removes faces covering the same vertex triple
// regardless of rotation or winding, keeping the first occurrence.
func dropDuplicateFaces(m *Mesh) int {
	seen := make(map[[3]int]bool, len(m.Faces))
	kept := m.Faces[:0]
	removed := 0
	for _, f := range m.Faces {
		key := f
		sort.Ints(key[:])
		if seen[key] {
			removed++
			continue
		}
		seen[key] = true
		kept = append(kept, f)
	}
	m.Faces = kept
	return removed
}

// compactVertices drops vertices no face references and remaps the face
// indices, so vertex counts and bounds describe only exported geometry.
func compactVertices(m *Mesh) int {
	used := make([]bool, len(m.Verts))
	for _, f := range m.Faces {
		used[f[0]] = true
		used[f[1]] = true
		used[f[2]] = true
	}
	remap := make([]int, len(m.Verts))
	kept := m.Verts[:0]
	for i, v := range m.Verts {
		if !used[i] {
			remap[i] = -1
			continue
		}
		remap[i] = len(kept)
		kept = append(kept, v)
	}
	removed := len(m.Verts) - len(kept)
	m.Verts = kept
	if removed == 0 {
		return 0
	}
	for i := range m.Faces {
		f := &m.Faces[i]
		f[0], f[1], f[2] = remap[f[0]], remap[f[1]], remap[f[2]]
	}
	return removed
}

// propagateWinding walks the face adjacency breadth-first and flips faces
// so that every shared edge is traversed in opposite directions by its two
// faces. Edges that end up in conflict between two already-fixed faces are
// non-orientable; the number of such edges is returned.
func propagateWinding(m *Mesh) int {
	type directedEdge struct{ from, to int }
	edgeDir := func(f [3]int, e edgeKey) directedEdge {
		for i := 0; i < 3; i++ {
			a, b := f[i], f[(i+1)%3]
			if newEdgeKey(a, b) == e {
				return directedEdge{a, b}
			}
		}
		return directedEdge{}
	}

	uses := m.edgeUses()
	visited := make([]bool, len(m.Faces))
	conflicts := make(map[edgeKey]bool)

	for start := range m.Faces {
		if visited[start] {
			continue
		}
		visited[start] = true
		queue := []int{start}

		for len(queue) > 0 {
			fi := queue[0]
			queue = queue[1:]
			f := m.Faces[fi]

			for i := 0; i < 3; i++ {
				e := newEdgeKey(f[i], f[(i+1)%3])
				faces := uses[e]
				if len(faces) != 2 {
					continue // boundary or non-manifold, cannot orient across it
				}
				other := faces[0]
				if other == fi {
					other = faces[1]
				}
				mine := edgeDir(f, e)
				theirs := edgeDir(m.Faces[other], e)
				aligned := mine == theirs

				if !visited[other] {
					if aligned {
						m.Faces[other][1], m.Faces[other][2] = m.Faces[other][2], m.Faces[other][1]
					}
					visited[other] = true
					queue = append(queue, other)
				} else if aligned {
					// Both faces of this edge are examined in turn; keying
					// by edge keeps the count at one per conflict.
					conflicts[e] = true
				}
			}
		}
	}
	return len(conflicts)
}

// edgeCensus counts boundary edges (one face) and non-manifold edges (more
// than two faces). A watertight mesh has neither.
func (m *Mesh) edgeCensus() (boundary, nonManifold int) {
	for _, faces := range m.edgeUses() {
		switch {
		case len(faces) == 1:
			boundary++
		case len(faces) > 2:
			nonManifold++
		}
	}
	return boundary, nonManifold
}

// hasMisalignedEdges reports whether any two-face edge is traversed in the
// same direction by both faces after propagation.
func (m *Mesh) hasMisalignedEdges() bool {
	dirs := make(map[directedKey]int, len(m.Faces)*3)
	for _, f := range m.Faces {
		dirs[directedKey{f[0], f[1]}]++
		dirs[directedKey{f[1], f[2]}]++
		dirs[directedKey{f[2], f[0]}]++
	}
	for key, count := range dirs {
		if count > 1 {
			return true
		}
		if dirs[directedKey{key.b, key.a}] > 1 {
			return true
		}
	}
	return false
}

type directedKey struct{ a, b int }

// Package mesh holds the triangle mesh produced from an occupancy volume and
// the pipeline stages that operate on it: surface extraction, smoothing,
// repair/validation and STL export. A mesh is owned by exactly one stage at
// a time; stages mutate it in place and hand it forward.
package mesh

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Mesh is an indexed triangle mesh. Faces index into Verts; winding is
// counter-clockwise seen from outside for a well-oriented mesh.
type Mesh struct {
	Verts []r3.Vec
	Faces [][3]int
}

// Empty reports whether the mesh has no faces.
func (m *Mesh) Empty() bool { return len(m.Faces) == 0 }

// FaceNormal returns the (non-unit) normal of face i via the right-hand rule.
func (m *Mesh) FaceNormal(i int) r3.Vec {
	f := m.Faces[i]
	a, b, c := m.Verts[f[0]], m.Verts[f[1]], m.Verts[f[2]]
	return r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
}

// FaceArea returns the area of face i.
func (m *Mesh) FaceArea(i int) float64 {
	return r3.Norm(m.FaceNormal(i)) / 2
}

// SurfaceArea sums the areas of all faces.
func (m *Mesh) SurfaceArea() float64 {
	total := 0.0
	for i := range m.Faces {
		total += m.FaceArea(i)
	}
	return total
}

// Volume returns the enclosed volume of a closed, consistently wound mesh
// via the divergence theorem (sum of signed tetrahedra against the origin).
// The result is the absolute value, so global orientation does not matter.
func (m *Mesh) Volume() float64 {
	return math.Abs(m.SignedVolume())
}

// SignedVolume is positive when faces wind counter-clockwise seen from
// outside and negative when the mesh is inside out.
func (m *Mesh) SignedVolume() float64 {
	total := 0.0
	for _, f := range m.Faces {
		a, b, c := m.Verts[f[0]], m.Verts[f[1]], m.Verts[f[2]]
		total += r3.Dot(a, r3.Cross(b, c)) / 6
	}
	return total
}

// Bounds returns the axis-aligned bounding box. An empty mesh reports zero
// bounds.
func (m *Mesh) Bounds() (min, max r3.Vec) {
	if len(m.Verts) == 0 {
		return r3.Vec{}, r3.Vec{}
	}
	min = m.Verts[0]
	max = m.Verts[0]
	for _, v := range m.Verts[1:] {
		min.X = math.Min(min.X, v.X)
		min.Y = math.Min(min.Y, v.Y)
		min.Z = math.Min(min.Z, v.Z)
		max.X = math.Max(max.X, v.X)
		max.Y = math.Max(max.Y, v.Y)
		max.Z = math.Max(max.Z, v.Z)
	}
	return min, max
}

// VertexNormals derives per-vertex normals by accumulating face normals
// (area weighted, since FaceNormal scales with area) and normalizing.
func (m *Mesh) VertexNormals() []r3.Vec {
	normals := make([]r3.Vec, len(m.Verts))
	for i := range m.Faces {
		n := m.FaceNormal(i)
		f := m.Faces[i]
		normals[f[0]] = r3.Add(normals[f[0]], n)
		normals[f[1]] = r3.Add(normals[f[1]], n)
		normals[f[2]] = r3.Add(normals[f[2]], n)
	}
	for i, n := range normals {
		if length := r3.Norm(n); length > 0 {
			normals[i] = r3.Scale(1/length, n)
		}
	}
	return normals
}

// edgeKey identifies an undirected edge by its sorted vertex indices.
type edgeKey struct{ a, b int }

func newEdgeKey(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// edgeUses maps every undirected edge to the faces that use it.
func (m *Mesh) edgeUses() map[edgeKey][]int {
	uses := make(map[edgeKey][]int, len(m.Faces)*3/2)
	for i, f := range m.Faces {
		uses[newEdgeKey(f[0], f[1])] = append(uses[newEdgeKey(f[0], f[1])], i)
		uses[newEdgeKey(f[1], f[2])] = append(uses[newEdgeKey(f[1], f[2])], i)
		uses[newEdgeKey(f[2], f[0])] = append(uses[newEdgeKey(f[2], f[0])], i)
	}
	return uses
}

// neighborLists builds the vertex adjacency used by the smoothing passes.
func (m *Mesh) neighborLists() [][]int {
	adj := make([][]int, len(m.Verts))
	seen := make(map[edgeKey]bool, len(m.Faces)*3/2)
	addEdge := func(a, b int) {
		k := newEdgeKey(a, b)
		if seen[k] {
			return
		}
		seen[k] = true
		adj[a] = append(adj[a], b)
		adj[b] = append(adj[b], a)
	}
	for _, f := range m.Faces {
		addEdge(f[0], f[1])
		addEdge(f[1], f[2])
		addEdge(f[2], f[0])
	}
	return adj
}

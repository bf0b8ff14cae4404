package mesh

import (
	"gonum.org/v1/gonum/spatial/r3"

	"trailforge/internal/volume"
)

// isoLevel is the density threshold the smooth surface is extracted at.
// Occupied voxels carry density 1, empty space 0.
const isoLevel = 0.5

// tetras decomposes a cell into six tetrahedra around the 0-7 diagonal.
// Corner bit layout: bit0=x, bit1=y, bit2=z. Every cell uses the same
// diagonal, so face diagonals agree between neighboring cells and the
// extracted surface is crack free.
var tetras = [6][4]int{
	{0, 1, 3, 7},
	{0, 3, 2, 7},
	{0, 2, 6, 7},
	{0, 6, 4, 7},
	{0, 4, 5, 7},
	{0, 5, 1, 7},
}

// marcher walks the padded sample lattice and accumulates the isosurface.
type marcher struct {
	vol        *volume.Volume
	sx, sy, sz int

	mesh      *Mesh
	edgeVerts map[edgeKey]int
}

// ExtractIsosurface treats the occupancy volume as a binary density field
// sampled at voxel centers, pads it with an empty shell so the surface
// closes, and extracts the 0.5-level set with a marching-cubes-style
// tetrahedral decomposition. The result is a continuous triangulated
// surface that already softens the voxel staircase.
func ExtractIsosurface(vol *volume.Volume) *Mesh {
	m := &marcher{
		vol:       vol,
		sx:        vol.W + 2,
		sy:        vol.H + 2,
		sz:        vol.Depth + 2,
		mesh:      &Mesh{},
		edgeVerts: make(map[edgeKey]int),
	}
	if vol.Empty() {
		return m.mesh
	}

	for k := 0; k < m.sz-1; k++ {
		for j := 0; j < m.sy-1; j++ {
			for i := 0; i < m.sx-1; i++ {
				m.marchCell(i, j, k)
			}
		}
	}
	return m.mesh
}

// density returns 1 for samples at occupied voxel centers, 0 elsewhere
// (including the padding shell).
func (m *marcher) density(i, j, k int) float64 {
	if m.vol.At(i-1, j-1, k-1) {
		return 1
	}
	return 0
}

// samplePos is the world position of lattice sample (i, j, k): the center of
// the corresponding voxel, with Z stretched by the layer height.
func (m *marcher) samplePos(i, j, k int) r3.Vec {
	return r3.Vec{
		X: float64(i) - 0.5,
		Y: float64(j) - 0.5,
		Z: (float64(k) - 0.5) * m.vol.LayerHeight,
	}
}

func (m *marcher) sampleIndex(i, j, k int) int {
	return (k*m.sy+j)*m.sx + i
}

func (m *marcher) marchCell(i, j, k int) {
	var idx [8]int
	var pos [8]r3.Vec
	var val [8]float64
	for c := 0; c < 8; c++ {
		ci := i + (c & 1)
		cj := j + (c >> 1 & 1)
		ck := k + (c >> 2 & 1)
		idx[c] = m.sampleIndex(ci, cj, ck)
		pos[c] = m.samplePos(ci, cj, ck)
		val[c] = m.density(ci, cj, ck)
	}
	for _, tet := range tetras {
		m.marchTetra(idx, pos, val, tet)
	}
}

// marchTetra emits the iso-level crossing through one tetrahedron. The
// triangle orientation is resolved against the inside/outside centroid axis
// so normals always point out of the solid.
func (m *marcher) marchTetra(idx [8]int, pos [8]r3.Vec, val [8]float64, tet [4]int) {
	var inside, outside []int
	for _, c := range tet {
		if val[c] >= isoLevel {
			inside = append(inside, c)
		} else {
			outside = append(outside, c)
		}
	}
	if len(inside) == 0 || len(inside) == 4 {
		return
	}

	out := centroid(pos, outside)
	in := centroid(pos, inside)
	outward := r3.Sub(out, in)

	switch len(inside) {
	case 1:
		p := inside[0]
		a := m.edgeVertex(idx, pos, val, p, outside[0])
		b := m.edgeVertex(idx, pos, val, p, outside[1])
		c := m.edgeVertex(idx, pos, val, p, outside[2])
		m.emit(a, b, c, outward)
	case 3:
		q := outside[0]
		a := m.edgeVertex(idx, pos, val, inside[0], q)
		b := m.edgeVertex(idx, pos, val, inside[1], q)
		c := m.edgeVertex(idx, pos, val, inside[2], q)
		m.emit(a, b, c, outward)
	case 2:
		ac := m.edgeVertex(idx, pos, val, inside[0], outside[0])
		ad := m.edgeVertex(idx, pos, val, inside[0], outside[1])
		bd := m.edgeVertex(idx, pos, val, inside[1], outside[1])
		bc := m.edgeVertex(idx, pos, val, inside[1], outside[0])
		m.emit(ac, ad, bd, outward)
		m.emit(ac, bd, bc, outward)
	}
}

// edgeVertex interpolates the iso crossing on the edge between corners a and
// b, sharing the vertex with every tetrahedron that cuts the same lattice
// edge.
func (m *marcher) edgeVertex(idx [8]int, pos [8]r3.Vec, val [8]float64, a, b int) int {
	key := newEdgeKey(idx[a], idx[b])
	if vi, ok := m.edgeVerts[key]; ok {
		return vi
	}
	t := 0.5
	if val[b] != val[a] {
		t = (isoLevel - val[a]) / (val[b] - val[a])
	}
	p := r3.Add(pos[a], r3.Scale(t, r3.Sub(pos[b], pos[a])))
	vi := len(m.mesh.Verts)
	m.mesh.Verts = append(m.mesh.Verts, p)
	m.edgeVerts[key] = vi
	return vi
}

func (m *marcher) emit(a, b, c int, outward r3.Vec) {
	va := m.mesh.Verts[a]
	n := r3.Cross(r3.Sub(m.mesh.Verts[b], va), r3.Sub(m.mesh.Verts[c], va))
	if r3.Dot(n, outward) < 0 {
		b, c = c, b
	}
	m.mesh.Faces = append(m.mesh.Faces, [3]int{a, b, c})
}

func centroid(pos [8]r3.Vec, corners []int) r3.Vec {
	var sum r3.Vec
	for _, c := range corners {
		sum = r3.Add(sum, pos[c])
	}
	return r3.Scale(1/float64(len(corners)), sum)
}

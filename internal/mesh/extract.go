package mesh

import (
	"gonum.org/v1/gonum/spatial/r3"

	"trailforge/internal/volume"
)

// builder accumulates triangles while sharing vertices through an integer
// lattice index, so extraction emits an indexed mesh rather than a triangle
// soup.
type builder struct {
	mesh  *Mesh
	index map[[3]int]int
	scale r3.Vec
}

func newBuilder(layerHeight float64) *builder {
	return &builder{
		mesh:  &Mesh{},
		index: make(map[[3]int]int),
		scale: r3.Vec{X: 1, Y: 1, Z: layerHeight},
	}
}

// vertex returns the index for lattice point (x, y, z), creating it on first
// use. Lattice Z is in layer units and is stretched by the layer height.
func (b *builder) vertex(x, y, z int) int {
	key := [3]int{x, y, z}
	if idx, ok := b.index[key]; ok {
		return idx
	}
	idx := len(b.mesh.Verts)
	b.mesh.Verts = append(b.mesh.Verts, r3.Vec{
		X: float64(x) * b.scale.X,
		Y: float64(y) * b.scale.Y,
		Z: float64(z) * b.scale.Z,
	})
	b.index[key] = idx
	return idx
}

// quad emits two triangles for the quad a-b-c-d (counter-clockwise seen from
// outside).
func (b *builder) quad(a, c, d, e int) {
	b.mesh.Faces = append(b.mesh.Faces, [3]int{a, c, d}, [3]int{a, d, e})
}

// ExtractVoxelSurface converts the occupancy volume into a blocky but exact
// boundary mesh: one quad for every face between an occupied voxel and an
// unoccupied 6-neighbor, with outward winding. The shared-vertex lattice
// makes the result watertight by construction.
func ExtractVoxelSurface(vol *volume.Volume) *Mesh {
	b := newBuilder(vol.LayerHeight)

	for z := 0; z < vol.Depth; z++ {
		for y := 0; y < vol.H; y++ {
			for x := 0; x < vol.W; x++ {
				if !vol.At(x, y, z) {
					continue
				}
				x0, x1 := x, x+1
				y0, y1 := y, y+1
				z0, z1 := z, z+1

				if !vol.At(x+1, y, z) {
					b.quad(
						b.vertex(x1, y0, z0), b.vertex(x1, y1, z0),
						b.vertex(x1, y1, z1), b.vertex(x1, y0, z1))
				}
				if !vol.At(x-1, y, z) {
					b.quad(
						b.vertex(x0, y0, z0), b.vertex(x0, y0, z1),
						b.vertex(x0, y1, z1), b.vertex(x0, y1, z0))
				}
				if !vol.At(x, y+1, z) {
					b.quad(
						b.vertex(x0, y1, z0), b.vertex(x0, y1, z1),
						b.vertex(x1, y1, z1), b.vertex(x1, y1, z0))
				}
				if !vol.At(x, y-1, z) {
					b.quad(
						b.vertex(x0, y0, z0), b.vertex(x1, y0, z0),
						b.vertex(x1, y0, z1), b.vertex(x0, y0, z1))
				}
				if !vol.At(x, y, z+1) {
					b.quad(
						b.vertex(x0, y0, z1), b.vertex(x1, y0, z1),
						b.vertex(x1, y1, z1), b.vertex(x0, y1, z1))
				}
				if !vol.At(x, y, z-1) {
					b.quad(
						b.vertex(x0, y0, z0), b.vertex(x0, y1, z0),
						b.vertex(x1, y1, z0), b.vertex(x1, y0, z0))
				}
			}
		}
	}
	return b.mesh
}

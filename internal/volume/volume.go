// Package volume assembles thresholded layer snapshots into a 3D occupancy
// volume whose "on" voxels form a single solid connected to the base: a cell
// may only be occupied at layer k>0 if it is reachable, through the layer's
// own in-plane cells, from a cell that was occupied at layer k-1.
package volume

// Mask is one binary layer snapshot in row-major order. Masks are immutable
// once captured.
type Mask struct {
	W, H  int
	Cells []bool
}

// NewMask wraps raw threshold output in a Mask. The cell slice is retained,
// not copied.
func NewMask(w, h int, cells []bool) Mask {
	return Mask{W: w, H: h, Cells: cells}
}

// Count returns the number of active cells.
func (m Mask) Count() int {
	n := 0
	for _, v := range m.Cells {
		if v {
			n++
		}
	}
	return n
}

// Options controls volume assembly.
type Options struct {
	// LayerHeight stretches each Z-slab to this many world units.
	LayerHeight float64
	// BaseRadius, when positive, forces a solid disk of this radius at the
	// center of layer 0 so the model always has a printable foundation.
	BaseRadius float64
}

// Volume is the assembled, growth-filtered occupancy grid. Once built it is
// immutable input to surface extraction.
type Volume struct {
	W, H, Depth int
	LayerHeight float64

	// layers holds the filtered masks bottom-up.
	layers [][]bool

	// TruncatedAt is the index of the first layer dropped because filtering
	// emptied it, or -1 when the full stack survived.
	TruncatedAt int
}

// At reports whether the voxel at (x, y, z) is occupied.
func (v *Volume) At(x, y, z int) bool {
	if x < 0 || x >= v.W || y < 0 || y >= v.H || z < 0 || z >= v.Depth {
		return false
	}
	return v.layers[z][y*v.W+x]
}

// Layer exposes the filtered mask at height z.
func (v *Volume) Layer(z int) []bool { return v.layers[z] }

// Count returns the total number of occupied voxels.
func (v *Volume) Count() int {
	n := 0
	for _, layer := range v.layers {
		for _, on := range layer {
			if on {
				n++
			}
		}
	}
	return n
}

// Empty reports whether no voxel is occupied.
func (v *Volume) Empty() bool { return v.Count() == 0 }

// Assemble builds the occupancy volume from an ordered layer stack. Layer 0
// is seeded as captured, optionally with the base disk forced solid. Each
// later layer keeps only the raw cells reachable by in-plane flood fill from
// cells occupied directly below; everything else is discarded. When
// filtering empties a layer the stack is truncated at that height and the
// truncation is reported through Volume.TruncatedAt.
func Assemble(layers []Mask, opts Options) *Volume {
	if opts.LayerHeight <= 0 {
		opts.LayerHeight = 1
	}
	if len(layers) == 0 {
		return &Volume{LayerHeight: opts.LayerHeight, TruncatedAt: -1}
	}

	w, h := layers[0].W, layers[0].H
	vol := &Volume{
		W:           w,
		H:           h,
		LayerHeight: opts.LayerHeight,
		TruncatedAt: -1,
	}

	base := append([]bool(nil), layers[0].Cells...)
	if opts.BaseRadius > 0 {
		stampDisk(base, w, h, opts.BaseRadius)
	}
	if countSet(base) == 0 {
		vol.TruncatedAt = 0
		return vol
	}
	vol.layers = append(vol.layers, base)

	for k := 1; k < len(layers); k++ {
		below := vol.layers[k-1]
		filtered := growLayer(layers[k].Cells, below, w, h)
		if countSet(filtered) == 0 {
			vol.TruncatedAt = k
			break
		}
		vol.layers = append(vol.layers, filtered)
	}
	vol.Depth = len(vol.layers)
	return vol
}

// growLayer keeps the subset of raw cells reachable from the layer below.
// Seeds are raw cells whose cell directly below is occupied; the fill then
// spreads through in-plane 4-neighbors. Flat frontier queue over the
// row-major grid, no recursion.
func growLayer(raw, below []bool, w, h int) []bool {
	filtered := make([]bool, len(raw))
	frontier := make([]int, 0, len(raw)/4)

	for i, on := range raw {
		if on && below[i] {
			filtered[i] = true
			frontier = append(frontier, i)
		}
	}

	for len(frontier) > 0 {
		idx := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		x, y := idx%w, idx/w

		if x > 0 {
			frontier = visit(raw, filtered, frontier, idx-1)
		}
		if x < w-1 {
			frontier = visit(raw, filtered, frontier, idx+1)
		}
		if y > 0 {
			frontier = visit(raw, filtered, frontier, idx-w)
		}
		if y < h-1 {
			frontier = visit(raw, filtered, frontier, idx+w)
		}
	}
	return filtered
}

func visit(raw, filtered []bool, frontier []int, idx int) []int {
	if raw[idx] && !filtered[idx] {
		filtered[idx] = true
		frontier = append(frontier, idx)
	}
	return frontier
}

func stampDisk(cells []bool, w, h int, radius float64) {
	cx, cy := w/2, h/2
	r2 := radius * radius
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx := float64(x - cx)
			dy := float64(y - cy)
			if dx*dx+dy*dy <= r2 {
				cells[y*w+x] = true
			}
		}
	}
}

func countSet(cells []bool) int {
	n := 0
	for _, v := range cells {
		if v {
			n++
		}
	}
	return n
}

// Connected validates the whole-volume invariant: every occupied voxel is
// reachable from layer 0 under in-plane ∪ directly-below adjacency. Assembly
// guarantees this by construction; the check exists for tests and debugging.
func (v *Volume) Connected() bool {
	total := v.Count()
	if total == 0 {
		return true
	}
	if len(v.layers) == 0 {
		return false
	}

	visited := make([][]bool, v.Depth)
	for z := range visited {
		visited[z] = make([]bool, v.W*v.H)
	}

	type voxel struct{ idx, z int }
	var frontier []voxel
	for i, on := range v.layers[0] {
		if on {
			visited[0][i] = true
			frontier = append(frontier, voxel{i, 0})
		}
	}

	reached := len(frontier)
	for len(frontier) > 0 {
		cur := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		x, y := cur.idx%v.W, cur.idx/v.W

		push := func(idx, z int) {
			if z < 0 || z >= v.Depth {
				return
			}
			if v.layers[z][idx] && !visited[z][idx] {
				visited[z][idx] = true
				frontier = append(frontier, voxel{idx, z})
				reached++
			}
		}
		if x > 0 {
			push(cur.idx-1, cur.z)
		}
		if x < v.W-1 {
			push(cur.idx+1, cur.z)
		}
		if y > 0 {
			push(cur.idx-v.W, cur.z)
		}
		if y < v.H-1 {
			push(cur.idx+v.W, cur.z)
		}
		push(cur.idx, cur.z-1)
		push(cur.idx, cur.z+1)
	}
	return reached == total
}

// WorldZ converts a layer index into the world-unit height of the slab base.
func (v *Volume) WorldZ(z int) float64 {
	return float64(z) * v.LayerHeight
}

// Bounds returns the world-unit extents of the occupied volume, including
// the stretched Z axis. A zero volume reports all-zero bounds.
func (v *Volume) Bounds() (maxX, maxY, maxZ float64) {
	if v.Empty() {
		return 0, 0, 0
	}
	return float64(v.W), float64(v.H), float64(v.Depth) * v.LayerHeight
}

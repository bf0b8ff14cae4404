package mesh

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// stlHeaderSize is the fixed binary STL header length.
const stlHeaderSize = 80

// WriteBinarySTL writes the mesh in binary STL format: an 80-byte header, a
// little-endian triangle count, then per triangle a unit normal, three
// vertices and a zero attribute word.
func WriteBinarySTL(w io.Writer, m *Mesh, name string) error {
	bw := bufio.NewWriter(w)

	var header [stlHeaderSize]byte
	copy(header[:], name)
	if _, err := bw.Write(header[:]); err != nil {
		return fmt.Errorf("write stl header: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(m.Faces))); err != nil {
		return fmt.Errorf("write stl face count: %w", err)
	}

	var record [50]byte
	for i, f := range m.Faces {
		n := unitOrZero(m.FaceNormal(i))
		putVec(record[0:], n)
		putVec(record[12:], m.Verts[f[0]])
		putVec(record[24:], m.Verts[f[1]])
		putVec(record[36:], m.Verts[f[2]])
		record[48], record[49] = 0, 0
		if _, err := bw.Write(record[:]); err != nil {
			return fmt.Errorf("write stl face %d: %w", i, err)
		}
	}
	return bw.Flush()
}

func putVec(dst []byte, v r3.Vec) {
	binary.LittleEndian.PutUint32(dst[0:], math.Float32bits(float32(v.X)))
	binary.LittleEndian.PutUint32(dst[4:], math.Float32bits(float32(v.Y)))
	binary.LittleEndian.PutUint32(dst[8:], math.Float32bits(float32(v.Z)))
}

// WriteASCIISTL writes the textual STL variant, mainly useful for
// eyeballing small meshes.
func WriteASCIISTL(w io.Writer, m *Mesh, name string) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "solid %s\n", name); err != nil {
		return err
	}
	for i, f := range m.Faces {
		n := unitOrZero(m.FaceNormal(i))
		fmt.Fprintf(bw, "  facet normal %e %e %e\n", n.X, n.Y, n.Z)
		fmt.Fprintf(bw, "    outer loop\n")
		for _, vi := range f {
			v := m.Verts[vi]
			fmt.Fprintf(bw, "      vertex %e %e %e\n", v.X, v.Y, v.Z)
		}
		fmt.Fprintf(bw, "    endloop\n")
		fmt.Fprintf(bw, "  endfacet\n")
	}
	if _, err := fmt.Fprintf(bw, "endsolid %s\n", name); err != nil {
		return err
	}
	return bw.Flush()
}

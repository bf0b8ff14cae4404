package mesh

import (
	"bytes"
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func triangleMesh() *Mesh {
	return &Mesh{
		Verts: []r3.Vec{{}, {X: 1}, {Y: 1}},
		Faces: [][3]int{{0, 1, 2}},
	}
}

func readFloat32(data []byte) float64 {
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(data)))
}

func TestWriteBinarySTL(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteBinarySTL(&buf, triangleMesh(), "tri"); err != nil {
		t.Fatalf("write: %v", err)
	}

	data := buf.Bytes()
	if len(data) != stlHeaderSize+4+50 {
		t.Fatalf("output length = %d, want %d", len(data), stlHeaderSize+4+50)
	}
	if !bytes.HasPrefix(data, []byte("tri")) {
		t.Fatalf("header = %q, want name prefix", data[:8])
	}
	if count := binary.LittleEndian.Uint32(data[stlHeaderSize:]); count != 1 {
		t.Fatalf("triangle count = %d, want 1", count)
	}

	rec := data[stlHeaderSize+4:]
	if nz := readFloat32(rec[8:]); nz != 1 {
		t.Fatalf("normal z = %g, want 1", nz)
	}
	if x := readFloat32(rec[24:]); x != 1 {
		t.Fatalf("second vertex x = %g, want 1", x)
	}
	if attr := binary.LittleEndian.Uint16(rec[48:]); attr != 0 {
		t.Fatalf("attribute word = %d, want 0", attr)
	}
}

func TestWriteBinarySTLBox(t *testing.T) {
	m := &Mesh{}
	appendBox(m, r3.Vec{}, r3.Vec{X: 1, Y: 1, Z: 1})

	var buf bytes.Buffer
	if err := WriteBinarySTL(&buf, m, "box"); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := stlHeaderSize + 4 + 50*len(m.Faces)
	if buf.Len() != want {
		t.Fatalf("output length = %d, want %d", buf.Len(), want)
	}
}

func TestWriteASCIISTL(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteASCIISTL(&buf, triangleMesh(), "tri"); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "solid tri\n") {
		t.Fatalf("missing solid header in %q", out)
	}
	if !strings.Contains(out, "endsolid tri") {
		t.Fatal("missing endsolid footer")
	}
	if got := strings.Count(out, "facet normal"); got != 1 {
		t.Fatalf("facet count = %d, want 1", got)
	}
	if got := strings.Count(out, "vertex "); got != 3 {
		t.Fatalf("vertex count = %d, want 3", got)
	}
}

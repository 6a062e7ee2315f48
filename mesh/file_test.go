package mesh

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/stage"
)

func sampleMesh(t *testing.T) *Mesh {
	t.Helper()
	m := New(TriMesh)
	if err := m.CreateCone(2, 0.75, 6); err != nil {
		t.Fatal(err)
	}
	p, _ := m.Polygon(0)
	p.Vertices[0].Color = stage.RGBA(0.1, 0.2, 0.3, 0.4)
	return m
}

func equalPolygons(t *testing.T, a, b *Mesh) {
	t.Helper()
	if a.MeshType() != b.MeshType() {
		t.Fatalf("type %v != %v", a.MeshType(), b.MeshType())
	}
	if a.PolygonCount() != b.PolygonCount() {
		t.Fatalf("polygon count %d != %d", a.PolygonCount(), b.PolygonCount())
	}
	for i := range a.PolygonCount() {
		pa, _ := a.Polygon(i)
		pb, _ := b.Polygon(i)
		if len(pa.Vertices) != len(pb.Vertices) {
			t.Fatalf("polygon %d: %d vs %d vertices", i, len(pa.Vertices), len(pb.Vertices))
		}
		for j := range pa.Vertices {
			if pa.Vertices[j] != pb.Vertices[j] {
				t.Fatalf("polygon %d vertex %d: %+v != %+v", i, j, pa.Vertices[j], pb.Vertices[j])
			}
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	src := sampleMesh(t)
	path := filepath.Join(t.TempDir(), "cone.mesh")
	if err := src.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile: %v", err)
	}

	dst, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	equalPolygons(t, src, dst)
	if dst.Dirty() != AllArrays {
		t.Errorf("loaded mesh dirty = %v, want all", dst.Dirty().Types())
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("save left %d files behind, want 1", len(entries))
	}
}

func TestEncodeLayout(t *testing.T) {
	m := New(LineMesh)
	m.AddPolygon(NewPolygon(V(1, 2, 3, 0.5, 0.25)))
	var buf bytes.Buffer
	if err := m.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()
	if len(data) != headerSize+4+bytesPerVertex {
		t.Fatalf("encoded %d bytes, want %d", len(data), headerSize+4+bytesPerVertex)
	}
	if got := binary.LittleEndian.Uint32(data[0:]); got != uint32(LineMesh) {
		t.Errorf("type word = %d", got)
	}
	if got := binary.LittleEndian.Uint32(data[4:]); got != 1 {
		t.Errorf("polygon count = %d", got)
	}
	if got := binary.LittleEndian.Uint32(data[8:]); got != 1 {
		t.Errorf("vertex count = %d", got)
	}
}

func TestLoadMesh_Missing(t *testing.T) {
	m := sampleMesh(t)
	before := m.PolygonCount()
	err := m.LoadMesh(filepath.Join(t.TempDir(), "nope.mesh"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("err = %v, want fs.ErrNotExist", err)
	}
	if m.PolygonCount() != before {
		t.Error("failed load modified the mesh")
	}
}

func TestDecode_Corrupt(t *testing.T) {
	var good bytes.Buffer
	if err := sampleMesh(t).Encode(&good); err != nil {
		t.Fatal(err)
	}
	full := good.Bytes()

	badType := bytes.Clone(full)
	binary.LittleEndian.PutUint32(badType, 99)

	hugeCount := bytes.Clone(full)
	binary.LittleEndian.PutUint32(hugeCount[4:], 1<<30)

	hugeVerts := bytes.Clone(full)
	binary.LittleEndian.PutUint32(hugeVerts[8:], 1<<28)

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short header", full[:6]},
		{"truncated vertex", full[:len(full)-3]},
		{"truncated polygon", full[:len(full)-bytesPerVertex]},
		{"trailing bytes", append(bytes.Clone(full), 0)},
		{"unknown type", badType},
		{"polygon count too large", hugeCount},
		{"vertex count too large", hugeVerts},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(PointMesh)
			m.AddPolygon(NewPolygon(V(0, 0, 0, 0, 0)))
			err := m.Decode(bytes.NewReader(tt.data))
			if !errors.Is(err, ErrCorrupt) {
				t.Fatalf("err = %v, want ErrCorrupt", err)
			}
			if m.PolygonCount() != 1 || m.MeshType() != PointMesh || m.Dirty() != 0 {
				t.Error("failed decode modified the mesh")
			}
		})
	}
}

func TestLoadMesh_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.mesh")
	if err := os.WriteFile(path, []byte{1, 2, 3}, 0o600); err != nil {
		t.Fatal(err)
	}
	m := New(TriMesh)
	if err := m.LoadMesh(path); !errors.Is(err, ErrCorrupt) {
		t.Errorf("err = %v, want ErrCorrupt", err)
	}
}

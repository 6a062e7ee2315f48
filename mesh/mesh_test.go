package mesh

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/stage"
)

func triangle(z float32) *Polygon {
	return NewPolygon(V(0, 0, z, 0, 0), V(1, 0, z, 1, 0), V(0, 1, z, 0, 1))
}

func TestMesh_AddPolygonDoesNotDirty(t *testing.T) {
	m := New(TriMesh)
	m.AddPolygon(triangle(0))
	if m.Dirty() != 0 {
		t.Errorf("AddPolygon marked %v dirty, want none", m.Dirty().Types())
	}
	if m.PolygonCount() != 1 || m.VertexCount() != 3 {
		t.Errorf("counts = %d polygons, %d vertices", m.PolygonCount(), m.VertexCount())
	}
}

func TestMesh_VertexCountMatchesPolygons(t *testing.T) {
	cases := map[string]func(m *Mesh) error{
		"plane":    func(m *Mesh) error { return m.CreatePlane(2, 3) },
		"box":      func(m *Mesh) error { return m.CreateBox(1, 2, 3) },
		"sphere":   func(m *Mesh) error { return m.CreateSphere(1, 6, 8) },
		"cylinder": func(m *Mesh) error { return m.CreateCylinder(2, 1, 7) },
		"cone":     func(m *Mesh) error { return m.CreateCone(2, 1, 5) },
	}
	for name, build := range cases {
		t.Run(name, func(t *testing.T) {
			m := New(TriMesh)
			if err := build(m); err != nil {
				t.Fatal(err)
			}
			m.AddPolygon(NewPolygon(V(9, 9, 9, 0, 0)))
			sum := 0
			for i := range m.PolygonCount() {
				p, err := m.Polygon(i)
				if err != nil {
					t.Fatal(err)
				}
				sum += p.VertexCount()
			}
			if got := m.VertexCount(); got != sum {
				t.Errorf("VertexCount = %d, sum over polygons = %d", got, sum)
			}
		})
	}
}

func TestMesh_PolygonOutOfRange(t *testing.T) {
	m := New(TriMesh)
	m.AddPolygon(triangle(0))
	for _, i := range []int{-1, 1, 5} {
		if _, err := m.Polygon(i); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("Polygon(%d) error = %v, want ErrIndexOutOfRange", i, err)
		}
	}
}

type fakeVertexBuffer struct {
	count     int
	destroyed bool
}

func (f *fakeVertexBuffer) VertexCount() int     { return f.count }
func (f *fakeVertexBuffer) VerticesPerFace() int { return 3 }
func (f *fakeVertexBuffer) MeshType() Type       { return TriMesh }
func (f *fakeVertexBuffer) Destroy()             { f.destroyed = true }

func TestMesh_VertexBufferOverride(t *testing.T) {
	m := New(TriMesh)
	m.AddPolygon(triangle(0))
	vb := &fakeVertexBuffer{count: 42}
	m.SetVertexBuffer(vb)
	if !m.HasVertexBuffer() || m.VertexBuffer() != vb {
		t.Fatal("vertex buffer not installed")
	}
	if m.VertexCount() != 42 {
		t.Errorf("VertexCount = %d, want the buffer's 42", m.VertexCount())
	}
	m.Destroy()
	if !vb.destroyed {
		t.Error("Destroy did not release the vertex buffer")
	}
	if m.HasVertexBuffer() || m.PolygonCount() != 0 {
		t.Error("Destroy left state behind")
	}
}

func TestMesh_DirtyContract(t *testing.T) {
	m := New(QuadMesh)
	if err := m.CreatePlane(1, 1); err != nil {
		t.Fatal(err)
	}
	if m.Dirty() != AllArrays {
		t.Fatalf("after CreatePlane dirty = %v, want all four", m.Dirty().Types())
	}

	for _, at := range AllArrays.Types() {
		if arr, fresh := m.RenderArray(at); arr != nil || fresh {
			t.Errorf("%v: unbuilt slot reported arr=%v fresh=%v", at, arr, fresh)
		}
		m.RebuildArray(at)
		if m.IsDirty(at) {
			t.Errorf("%v still dirty after RebuildArray", at)
		}
		if _, fresh := m.RenderArray(at); !fresh {
			t.Errorf("%v not fresh after RebuildArray", at)
		}
	}

	m.CalculateNormals()
	if m.Dirty() != SetOf(NormalArray) {
		t.Errorf("CalculateNormals dirtied %v, want [normal]", m.Dirty().Types())
	}
	if _, fresh := m.RenderArray(NormalArray); fresh {
		t.Error("dirty slot reported fresh")
	}
	m.RebuildArray(NormalArray)

	m.RecenterMesh()
	if m.Dirty() != SetOf(VertexArray) {
		t.Errorf("RecenterMesh dirtied %v, want [vertex]", m.Dirty().Types())
	}
	m.RebuildArray(VertexArray)

	m.SetUseVertexColors(true)
	if m.Dirty() != SetOf(ColorArray) {
		t.Errorf("SetUseVertexColors dirtied %v, want [color]", m.Dirty().Types())
	}
	m.RebuildArray(ColorArray)

	m.SetMeshType(TriFanMesh)
	if m.Dirty() != AllArrays {
		t.Errorf("SetMeshType dirtied %v, want all", m.Dirty().Types())
	}
}

func TestMesh_RebuildKeepsHandle(t *testing.T) {
	m := New(TriMesh)
	m.AddPolygon(triangle(0))
	arr := m.RebuildArray(VertexArray)
	arr.Handle = "gpu-buffer"
	m.MarkDirty(VertexArray)
	if got := m.RebuildArray(VertexArray); got.Handle != "gpu-buffer" {
		t.Errorf("Handle = %v, want carried over", got.Handle)
	}
}

func TestMesh_RebuildTriangulatesQuads(t *testing.T) {
	m := New(QuadMesh)
	if err := m.CreatePlane(2, 2); err != nil {
		t.Fatal(err)
	}
	arr := m.RebuildArray(VertexArray)
	if arr.Count != 6 {
		t.Fatalf("Count = %d, want 6 (two triangles)", arr.Count)
	}
	if arr.Stride != 12 || arr.Size != 6*12 || len(arr.Data) != 18 {
		t.Errorf("stride=%d size=%d len=%d", arr.Stride, arr.Size, len(arr.Data))
	}
	if len(arr.Bytes()) != arr.Size {
		t.Errorf("Bytes() len = %d, want %d", len(arr.Bytes()), arr.Size)
	}
	if QuadMesh.Topology() != gputypes.PrimitiveTopologyTriangleList {
		t.Error("quad meshes should draw as triangle lists")
	}
}

func TestMesh_RebuildLines(t *testing.T) {
	m := New(LineMesh)
	m.AddPolygon(NewPolygon(V(0, 0, 0, 0, 0), V(1, 0, 0, 0, 0), V(1, 1, 0, 0, 0)))
	arr := m.RebuildArray(VertexArray)
	if arr.Count != 4 {
		t.Errorf("Count = %d, want 4 (two segments)", arr.Count)
	}
}

func strip(xs ...float32) *Polygon {
	p := NewPolygon()
	for i, x := range xs {
		p.AddVertex(V(x, float32(i%2), 0, 0, 0))
	}
	return p
}

func TestMesh_RebuildStripsJoinDegenerate(t *testing.T) {
	tests := []struct {
		name  string
		polys []*Polygon
		want  []float32
	}{
		{"single", []*Polygon{strip(1, 2, 3, 4)}, []float32{1, 2, 3, 4}},
		{"odd then even", []*Polygon{strip(1, 2, 3), strip(10, 11, 12, 13)},
			[]float32{1, 2, 3, 3, 10, 10, 10, 11, 12, 13}},
		{"even then odd", []*Polygon{strip(1, 2, 3, 4), strip(10, 11, 12)},
			[]float32{1, 2, 3, 4, 4, 10, 10, 11, 12}},
		{"empty between", []*Polygon{strip(1, 2, 3, 4), NewPolygon(), strip(10, 11, 12)},
			[]float32{1, 2, 3, 4, 4, 10, 10, 11, 12}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(TriStripMesh)
			for _, p := range tt.polys {
				m.AddPolygon(p)
			}
			arr := m.RebuildArray(VertexArray)
			if arr.Count != len(tt.want) {
				t.Fatalf("Count = %d, want %d", arr.Count, len(tt.want))
			}
			xs := make([]float32, arr.Count)
			for i := range xs {
				xs[i] = arr.Data[i*3]
			}
			for i := range tt.want {
				if xs[i] != tt.want[i] {
					t.Fatalf("x sequence = %v, want %v", xs, tt.want)
				}
			}
			// A triangle mixing two polygons must repeat a vertex.
			for i := 0; i+2 < len(xs); i++ {
				a, b, c := xs[i], xs[i+1], xs[i+2]
				mixed := min(a, b, c) < 10 && max(a, b, c) >= 10
				if mixed && a != b && b != c && a != c {
					t.Errorf("triangle %d (%v %v %v) bridges two strips", i, a, b, c)
				}
			}
		})
	}
}

func TestMesh_RebuildColorsAndTexcoords(t *testing.T) {
	m := New(TriMesh)
	p := triangle(0)
	p.Vertices[1].Color = stage.RGBA(1, 0, 0, 1)
	m.AddPolygon(p)

	colors := m.RebuildArray(ColorArray)
	if colors.Stride != 16 || colors.Count != 3 {
		t.Fatalf("color stride=%d count=%d", colors.Stride, colors.Count)
	}
	if got := colors.Data[4:8]; got[0] != 1 || got[1] != 0 || got[3] != 1 {
		t.Errorf("second color = %v", got)
	}
	uv := m.RebuildArray(TexCoordArray)
	if uv.Data[2] != 1 || uv.Data[3] != 0 {
		t.Errorf("second texcoord = %v", uv.Data[2:4])
	}
	if uv.Layout().ArrayStride != 8 || uv.Layout().Attributes[0].ShaderLocation != uint32(TexCoordArray) {
		t.Errorf("layout = %+v", uv.Layout())
	}
}

func TestArraySet(t *testing.T) {
	s := SetOf(NormalArray, VertexArray)
	if !s.Has(VertexArray) || !s.Has(NormalArray) || s.Has(ColorArray) {
		t.Errorf("Has mismatch for %016b", s)
	}
	if s.Len() != 2 {
		t.Errorf("Len = %d", s.Len())
	}
	types := s.Types()
	if len(types) != 2 || types[0] != VertexArray || types[1] != NormalArray {
		t.Errorf("Types = %v", types)
	}
	if s.Without(VertexArray).Has(VertexArray) {
		t.Error("Without did not remove")
	}
	if s.With(MaxArrays) != s || s.Has(MaxArrays) {
		t.Error("out of range slots must be ignored")
	}
	if AllArrays.Len() != 4 {
		t.Errorf("AllArrays.Len = %d", AllArrays.Len())
	}
}

func TestType(t *testing.T) {
	tests := []struct {
		typ      Type
		name     string
		perFace  int
		topology gputypes.PrimitiveTopology
	}{
		{QuadMesh, "Quad", 4, gputypes.PrimitiveTopologyTriangleList},
		{TriMesh, "Tri", 3, gputypes.PrimitiveTopologyTriangleList},
		{TriFanMesh, "TriFan", 0, gputypes.PrimitiveTopologyTriangleList},
		{TriStripMesh, "TriStrip", 0, gputypes.PrimitiveTopologyTriangleStrip},
		{LineMesh, "Line", 2, gputypes.PrimitiveTopologyLineList},
		{PointMesh, "Point", 1, gputypes.PrimitiveTopologyPointList},
	}
	for i, tt := range tests {
		if Type(i) != tt.typ {
			t.Errorf("%s has value %d, want %d", tt.name, tt.typ, i)
		}
		if tt.typ.String() != tt.name || tt.typ.VerticesPerFace() != tt.perFace || tt.typ.Topology() != tt.topology {
			t.Errorf("%v: got %q/%d/%v", tt.typ, tt.typ.String(), tt.typ.VerticesPerFace(), tt.typ.Topology())
		}
	}
	if Type(6).Valid() {
		t.Error("Type(6) should be invalid")
	}
}

func TestArrayType_Format(t *testing.T) {
	for _, at := range AllArrays.Types() {
		if got := at.Format().Size(); got != uint64(at.Components()*4) {
			t.Errorf("%v: format size %d, components %d", at, got, at.Components())
		}
	}
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package mesh

import (
	"errors"
	"fmt"

	"github.com/gogpu/stage"
)

// Mesh errors.
var (
	// ErrIndexOutOfRange is returned for a polygon index outside [0, PolygonCount()).
	ErrIndexOutOfRange = errors.New("mesh: polygon index out of range")

	// ErrDegenerateShape is returned by generators for non-positive or
	// non-finite sizes.
	ErrDegenerateShape = errors.New("mesh: degenerate shape parameters")

	// ErrCorrupt is returned when mesh data is truncated or inconsistent.
	ErrCorrupt = errors.New("mesh: corrupt mesh data")
)

// Mesh is a list of polygons plus the render arrays derived from them.
//
// A Mesh is not safe for concurrent use. Geometry is written by update
// logic and read by the renderer; both must run on the same goroutine or
// under a shared lock.
type Mesh struct {
	meshType Type
	polygons []*Polygon

	vertexBuffer VertexBuffer

	arrays [MaxArrays]*RenderDataArray
	dirty  ArraySet

	useVertexColors  bool
	useVertexNormals bool
}

// New creates an empty mesh of type t.
func New(t Type) *Mesh {
	return &Mesh{meshType: t}
}

// MeshType returns the mesh type.
func (m *Mesh) MeshType() Type { return m.meshType }

// SetMeshType changes how polygons are assembled. Existing polygons are
// kept as they are. All attribute slots are marked dirty because array
// layout depends on the type.
func (m *Mesh) SetMeshType(t Type) {
	if t == m.meshType {
		return
	}
	m.meshType = t
	m.dirty |= AllArrays
}

// AddPolygon appends p and takes ownership of it.
// It marks nothing dirty; callers that add polygons to a mesh that has
// already been rendered must call MarkDirty.
func (m *Mesh) AddPolygon(p *Polygon) {
	m.polygons = append(m.polygons, p)
}

// PolygonCount returns the number of polygons.
func (m *Mesh) PolygonCount() int { return len(m.polygons) }

// Polygon returns polygon i. Edits through the returned pointer mark
// nothing dirty.
func (m *Mesh) Polygon(i int) (*Polygon, error) {
	if i < 0 || i >= len(m.polygons) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(m.polygons))
	}
	return m.polygons[i], nil
}

// VertexCount returns the total number of polygon vertices, or the vertex
// buffer's count when one is set.
func (m *Mesh) VertexCount() int {
	if m.vertexBuffer != nil {
		return m.vertexBuffer.VertexCount()
	}
	n := 0
	for _, p := range m.polygons {
		n += len(p.Vertices)
	}
	return n
}

// SetVertexBuffer installs a pre-baked vertex buffer; nil removes it.
// The mesh takes ownership and releases it in Destroy.
func (m *Mesh) SetVertexBuffer(vb VertexBuffer) {
	m.vertexBuffer = vb
}

// VertexBuffer returns the vertex buffer, or nil.
func (m *Mesh) VertexBuffer() VertexBuffer { return m.vertexBuffer }

// HasVertexBuffer reports whether a vertex buffer is set.
func (m *Mesh) HasVertexBuffer() bool { return m.vertexBuffer != nil }

// UseVertexColors reports whether per-vertex colors should be drawn.
func (m *Mesh) UseVertexColors() bool { return m.useVertexColors }

// SetUseVertexColors toggles per-vertex colors and marks ColorArray dirty.
func (m *Mesh) SetUseVertexColors(v bool) {
	m.useVertexColors = v
	m.dirty = m.dirty.With(ColorArray)
}

// UseVertexNormals selects smooth normals for the next CalculateNormals:
// each vertex gets the average of the face normals sharing its position.
// When false, every vertex takes its face's normal.
func (m *Mesh) UseVertexNormals(v bool) {
	m.useVertexNormals = v
}

// =============================================================================
// Render array cache
// =============================================================================

// IsDirty reports whether slot t must be rebuilt before use.
func (m *Mesh) IsDirty(t ArrayType) bool { return m.dirty.Has(t) }

// Dirty returns the set of dirty slots.
func (m *Mesh) Dirty() ArraySet { return m.dirty }

// MarkDirty marks the given slots stale.
func (m *Mesh) MarkDirty(ts ...ArrayType) {
	for _, t := range ts {
		m.dirty = m.dirty.With(t)
	}
}

// RenderArray returns slot t and whether it is fresh. A slot that was
// never built returns nil. A dirty slot is returned with fresh=false and
// must not be drawn.
func (m *Mesh) RenderArray(t ArrayType) (arr *RenderDataArray, fresh bool) {
	if t >= MaxArrays {
		return nil, false
	}
	arr = m.arrays[t]
	return arr, arr != nil && !m.dirty.Has(t)
}

// RebuildArray regenerates slot t from the polygons and clears its dirty
// bit. It is reserved for renderers. The previous array's Handle is
// carried over so the renderer can reuse or release it.
//
// Quad and fan polygons are split into triangle fans, tri polygons with
// more than three vertices likewise. Line polygons become consecutive
// segments. Strip polygons are joined into one strip through degenerate
// triangles, keeping each polygon's winding. Point polygons are
// concatenated.
func (m *Mesh) RebuildArray(t ArrayType) *RenderDataArray {
	if t >= MaxArrays {
		return nil
	}
	arr := newRenderDataArray(t, m.flatten(t))
	if old := m.arrays[t]; old != nil {
		arr.Handle = old.Handle
	}
	m.arrays[t] = arr
	m.dirty = m.dirty.Without(t)
	stage.Logger().Debug("mesh: rebuilt render array",
		"slot", t.String(), "count", arr.Count, "bytes", arr.Size)
	return arr
}

func (m *Mesh) flatten(t ArrayType) []float32 {
	c := t.Components()
	if c == 0 {
		return nil
	}
	data := make([]float32, 0, m.assembledCount()*c)
	m.assemble(func(v *Vertex) {
		data = appendAttribute(data, t, v)
	})
	return data
}

// assemble visits polygon vertices in draw order for the mesh type.
func (m *Mesh) assemble(visit func(v *Vertex)) {
	var (
		emitted int
		last    *Vertex
	)
	emit := func(v *Vertex) {
		visit(v)
		emitted++
		last = v
	}
	for _, p := range m.polygons {
		vs := p.Vertices
		switch m.meshType {
		case TriStripMesh:
			if len(vs) == 0 {
				continue
			}
			if last != nil {
				emit(last)
				emit(&vs[0])
				if emitted%2 != 0 {
					emit(&vs[0])
				}
			}
			for i := range vs {
				emit(&vs[i])
			}
		case QuadMesh, TriMesh, TriFanMesh:
			for i := 1; i+1 < len(vs); i++ {
				visit(&vs[0])
				visit(&vs[i])
				visit(&vs[i+1])
			}
		case LineMesh:
			for i := 0; i+1 < len(vs); i++ {
				visit(&vs[i])
				visit(&vs[i+1])
			}
		default:
			for i := range vs {
				visit(&vs[i])
			}
		}
	}
}

func (m *Mesh) assembledCount() int {
	n := 0
	m.assemble(func(*Vertex) { n++ })
	return n
}

func appendAttribute(dst []float32, t ArrayType, v *Vertex) []float32 {
	switch t {
	case VertexArray:
		return append(dst, v.Position.X, v.Position.Y, v.Position.Z)
	case NormalArray:
		return append(dst, v.Normal.X, v.Normal.Y, v.Normal.Z)
	case ColorArray:
		return append(dst, v.Color.R, v.Color.G, v.Color.B, v.Color.A)
	case TexCoordArray:
		return append(dst, v.TexCoord.X, v.TexCoord.Y)
	}
	return dst
}

// Destroy releases the polygons, the render arrays and the vertex buffer.
// A vertex buffer with a Destroy method has it called. Array handles are
// the renderer's to release before calling Destroy.
func (m *Mesh) Destroy() {
	m.polygons = nil
	m.arrays = [MaxArrays]*RenderDataArray{}
	m.dirty = 0
	if d, ok := m.vertexBuffer.(interface{ Destroy() }); ok {
		d.Destroy()
	}
	m.vertexBuffer = nil
}

// replace swaps in a new polygon list and marks every attribute dirty.
func (m *Mesh) replace(t Type, polys []*Polygon) {
	m.meshType = t
	m.polygons = polys
	m.dirty |= AllArrays
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package mesh

import "github.com/gogpu/stage"

// CalculateNormals recomputes every polygon's face normal from its winding
// and writes vertex normals: the face normal itself, or with
// UseVertexNormals(true) the normalized sum of the face normals of all
// polygons sharing the vertex position. Marks NormalArray dirty.
//
// The result depends only on positions, so repeated calls produce the
// same normals.
func (m *Mesh) CalculateNormals() {
	for _, p := range m.polygons {
		p.Normal = p.faceNormal()
	}

	if !m.useVertexNormals {
		for _, p := range m.polygons {
			for i := range p.Vertices {
				p.Vertices[i].Normal = p.Normal
			}
		}
		m.dirty = m.dirty.With(NormalArray)
		return
	}

	sums := make(map[stage.Vector3]stage.Vector3)
	for _, p := range m.polygons {
		for _, v := range p.Vertices {
			sums[v.Position] = sums[v.Position].Add(p.Normal)
		}
	}
	for _, p := range m.polygons {
		for i := range p.Vertices {
			v := &p.Vertices[i]
			v.Normal = sums[v.Position].Normalize()
		}
	}
	m.dirty = m.dirty.With(NormalArray)
}

// Bounds returns the minimum and maximum corners of the axis-aligned box
// around all polygon vertices. An empty mesh has zero bounds.
func (m *Mesh) Bounds() (lo, hi stage.Vector3) {
	first := true
	for _, p := range m.polygons {
		for _, v := range p.Vertices {
			if first {
				lo, hi = v.Position, v.Position
				first = false
				continue
			}
			lo = lo.Min(v.Position)
			hi = hi.Max(v.Position)
		}
	}
	return lo, hi
}

// CalculateBBox returns the full extents (max - min) of the axis-aligned
// bounding box.
func (m *Mesh) CalculateBBox() stage.Vector3 {
	lo, hi := m.Bounds()
	return hi.Sub(lo)
}

// Radius returns the largest distance from the origin to any vertex.
func (m *Mesh) Radius() float32 {
	var r float32
	for _, p := range m.polygons {
		for _, v := range p.Vertices {
			r = max(r, v.Position.Length())
		}
	}
	return r
}

// RecenterMesh moves the mesh so its bounding box center sits at the
// origin and returns the center that was removed. A caller can add the
// returned offset to the owning transform to keep the mesh in place.
// Marks VertexArray dirty.
func (m *Mesh) RecenterMesh() stage.Vector3 {
	lo, hi := m.Bounds()
	center := lo.Add(hi).Mul(0.5)
	if !center.IsZero() {
		m.translate(center.Neg())
	}
	m.dirty = m.dirty.With(VertexArray)
	return center
}

// Translate moves every vertex by d and marks VertexArray dirty.
func (m *Mesh) Translate(d stage.Vector3) {
	m.translate(d)
	m.dirty = m.dirty.With(VertexArray)
}

func (m *Mesh) translate(d stage.Vector3) {
	for _, p := range m.polygons {
		for i := range p.Vertices {
			p.Vertices[i].Position = p.Vertices[i].Position.Add(d)
		}
	}
}

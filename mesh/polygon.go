// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package mesh

import "github.com/gogpu/stage"

// Vertex is one polygon corner.
type Vertex struct {
	Position stage.Vector3
	Normal   stage.Vector3
	Color    stage.Color
	TexCoord stage.Vector2
}

// V returns a white vertex at (x, y, z) with texture coordinate (u, v).
func V(x, y, z, u, v float32) Vertex {
	return Vertex{
		Position: stage.V3(x, y, z),
		Color:    stage.White,
		TexCoord: stage.V2(u, v),
	}
}

// Polygon is an ordered list of vertices forming one face.
type Polygon struct {
	Vertices []Vertex

	// Normal is the face normal computed by Mesh.CalculateNormals.
	Normal stage.Vector3
}

// NewPolygon returns a polygon holding vs.
func NewPolygon(vs ...Vertex) *Polygon {
	return &Polygon{Vertices: vs}
}

// AddVertex appends a vertex.
func (p *Polygon) AddVertex(v Vertex) {
	p.Vertices = append(p.Vertices, v)
}

// VertexCount returns the number of vertices.
func (p *Polygon) VertexCount() int { return len(p.Vertices) }

// faceNormal returns the normalized cross product of the first two edges,
// or zero for polygons with fewer than three vertices.
func (p *Polygon) faceNormal() stage.Vector3 {
	if len(p.Vertices) < 3 {
		return stage.Vector3{}
	}
	v0 := p.Vertices[0].Position
	e1 := p.Vertices[1].Position.Sub(v0)
	e2 := p.Vertices[2].Position.Sub(v0)
	return e1.Cross(e2).Normalize()
}

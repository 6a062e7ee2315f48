// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package mesh

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/gogpu/stage"
)

// Minimum tessellation counts. Smaller values are clamped up.
const (
	MinRings    = 2
	MinSegments = 3
)

func checkSizes(shape string, sizes ...float32) error {
	for _, s := range sizes {
		if !(s > 0) || math32.IsInf(s, 0) {
			return fmt.Errorf("%w: %s size %v", ErrDegenerateShape, shape, s)
		}
	}
	return nil
}

func quad(a, b, c, d Vertex) *Polygon { return NewPolygon(a, b, c, d) }

func tri(a, b, c Vertex) *Polygon { return NewPolygon(a, b, c) }

// finish installs generated polygons and computes their normals.
func (m *Mesh) finish(t Type, polys []*Polygon) {
	m.replace(t, polys)
	m.CalculateNormals()
}

// CreatePlane replaces the mesh with a w by h quad in the XY plane facing +Z.
// Its bounding box extents are (w, h, 0). The mesh type becomes QuadMesh.
func (m *Mesh) CreatePlane(w, h float32) error {
	if err := checkSizes("plane", w, h); err != nil {
		return err
	}
	hw, hh := w/2, h/2
	m.finish(QuadMesh, []*Polygon{quad(
		V(-hw, -hh, 0, 0, 0),
		V(hw, -hh, 0, 1, 0),
		V(hw, hh, 0, 1, 1),
		V(-hw, hh, 0, 0, 1),
	)})
	return nil
}

// CreateBox replaces the mesh with a box of width w along X, depth d along
// Y and height h along Z. The mesh type becomes QuadMesh.
func (m *Mesh) CreateBox(w, d, h float32) error {
	if err := checkSizes("box", w, d, h); err != nil {
		return err
	}
	x, y, z := w/2, d/2, h/2
	face := func(a, b, c, e stage.Vector3) *Polygon {
		return quad(
			V(a.X, a.Y, a.Z, 0, 0),
			V(b.X, b.Y, b.Z, 1, 0),
			V(c.X, c.Y, c.Z, 1, 1),
			V(e.X, e.Y, e.Z, 0, 1),
		)
	}
	v := stage.V3
	m.finish(QuadMesh, []*Polygon{
		face(v(x, -y, -z), v(x, y, -z), v(x, y, z), v(x, -y, z)),     // +X
		face(v(-x, -y, -z), v(-x, -y, z), v(-x, y, z), v(-x, y, -z)), // -X
		face(v(-x, y, -z), v(-x, y, z), v(x, y, z), v(x, y, -z)),     // +Y
		face(v(-x, -y, -z), v(x, -y, -z), v(x, -y, z), v(-x, -y, z)), // -Y
		face(v(-x, -y, z), v(x, -y, z), v(x, y, z), v(-x, y, z)),     // +Z
		face(v(-x, -y, -z), v(-x, y, -z), v(x, y, -z), v(x, -y, -z)), // -Z
	})
	return nil
}

// CreateSphere replaces the mesh with a UV sphere around the Y axis.
// rings counts latitude bands and segments longitude slices. The mesh type
// becomes TriMesh; pole bands hold one triangle per segment.
func (m *Mesh) CreateSphere(radius float32, rings, segments int) error {
	if err := checkSizes("sphere", radius); err != nil {
		return err
	}
	rings = max(rings, MinRings)
	segments = max(segments, MinSegments)

	point := func(i, j int) Vertex {
		u := float32(j) / float32(segments)
		v := float32(i) / float32(rings)
		switch i {
		case 0:
			return V(0, radius, 0, u, v)
		case rings:
			return V(0, -radius, 0, u, v)
		}
		theta := math32.Pi * v
		phi := 2 * math32.Pi * float32(j%segments) / float32(segments)
		st, ct := math32.Sincos(theta)
		sp, cp := math32.Sincos(phi)
		return V(radius*st*cp, radius*ct, radius*st*sp, u, v)
	}

	polys := make([]*Polygon, 0, segments*(2*rings-2))
	for i := range rings {
		for j := range segments {
			p00, p01 := point(i, j), point(i, j+1)
			p10, p11 := point(i+1, j), point(i+1, j+1)
			if i != rings-1 {
				polys = append(polys, tri(p00, p11, p10))
			}
			if i != 0 {
				polys = append(polys, tri(p00, p01, p11))
			}
		}
	}
	m.finish(TriMesh, polys)
	return nil
}

// ring returns the point at segment j of a circle of radius r at height y.
func ring(r, y float32, j, segments int) stage.Vector3 {
	s, c := math32.Sincos(2 * math32.Pi * float32(j%segments) / float32(segments))
	return stage.V3(r*c, y, r*s)
}

func at(p stage.Vector3, u, v float32) Vertex { return V(p.X, p.Y, p.Z, u, v) }

// CreateCylinder replaces the mesh with a capped cylinder of the given
// height along Y. The mesh type becomes TriMesh.
func (m *Mesh) CreateCylinder(height, radius float32, segments int) error {
	if err := checkSizes("cylinder", height, radius); err != nil {
		return err
	}
	segments = max(segments, MinSegments)
	hy := height / 2
	top, bottom := stage.V3(0, hy, 0), stage.V3(0, -hy, 0)

	polys := make([]*Polygon, 0, 4*segments)
	for j := range segments {
		u0 := float32(j) / float32(segments)
		u1 := float32(j+1) / float32(segments)
		b0, b1 := ring(radius, -hy, j, segments), ring(radius, -hy, j+1, segments)
		t0, t1 := ring(radius, hy, j, segments), ring(radius, hy, j+1, segments)

		polys = append(polys,
			tri(at(b0, u0, 1), at(t0, u0, 0), at(t1, u1, 0)),
			tri(at(b0, u0, 1), at(t1, u1, 0), at(b1, u1, 1)),
			tri(at(top, 0.5, 0.5), capUV(t1, radius), capUV(t0, radius)),
			tri(at(bottom, 0.5, 0.5), capUV(b0, radius), capUV(b1, radius)),
		)
	}
	m.finish(TriMesh, polys)
	return nil
}

// CreateCone replaces the mesh with a capped cone of the given height along
// Y, apex up. The mesh type becomes TriMesh.
func (m *Mesh) CreateCone(height, radius float32, segments int) error {
	if err := checkSizes("cone", height, radius); err != nil {
		return err
	}
	segments = max(segments, MinSegments)
	hy := height / 2
	apex, bottom := stage.V3(0, hy, 0), stage.V3(0, -hy, 0)

	polys := make([]*Polygon, 0, 2*segments)
	for j := range segments {
		u0 := float32(j) / float32(segments)
		u1 := float32(j+1) / float32(segments)
		b0, b1 := ring(radius, -hy, j, segments), ring(radius, -hy, j+1, segments)

		polys = append(polys,
			tri(at(b0, u0, 1), at(apex, (u0+u1)/2, 0), at(b1, u1, 1)),
			tri(at(bottom, 0.5, 0.5), capUV(b0, radius), capUV(b1, radius)),
		)
	}
	m.finish(TriMesh, polys)
	return nil
}

// CreateEllipse replaces the mesh with a filled ellipse in the XY plane
// facing +Z, with radii rx and ry. It is a single fan polygon whose first
// vertex is the center and whose rim closes on its first point. The mesh
// type becomes TriFanMesh.
func (m *Mesh) CreateEllipse(rx, ry float32, segments int) error {
	if err := checkSizes("ellipse", rx, ry); err != nil {
		return err
	}
	segments = max(segments, MinSegments)
	p := NewPolygon(V(0, 0, 0, 0.5, 0.5))
	for j := range segments + 1 {
		sin, cos := math32.Sincos(2 * math32.Pi * float32(j%segments) / float32(segments))
		p.AddVertex(V(cos*rx, sin*ry, 0, 0.5+cos/2, 0.5+sin/2))
	}
	m.finish(TriFanMesh, []*Polygon{p})
	return nil
}

// capUV maps a rim point onto the unit disc in texture space.
func capUV(p stage.Vector3, r float32) Vertex {
	return at(p, 0.5+p.X/(2*r), 0.5+p.Z/(2*r))
}

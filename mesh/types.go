// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package mesh

import (
	"fmt"
	"math/bits"

	"github.com/gogpu/gputypes"
)

// Type selects how a mesh's polygons are assembled into primitives.
type Type uint32

// Mesh types. The numeric values are part of the file format.
const (
	QuadMesh Type = iota
	TriMesh
	TriFanMesh
	TriStripMesh
	LineMesh
	PointMesh
)

var typeNames = [...]string{
	QuadMesh:     "Quad",
	TriMesh:      "Tri",
	TriFanMesh:   "TriFan",
	TriStripMesh: "TriStrip",
	LineMesh:     "Line",
	PointMesh:    "Point",
}

func (t Type) String() string {
	if t.Valid() {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", uint32(t))
}

// Valid reports whether t is a known mesh type.
func (t Type) Valid() bool { return t <= PointMesh }

// Topology returns the primitive topology of the arrays built for t.
// Quad and fan polygons are triangulated when arrays are rebuilt, so they
// draw as triangle lists.
func (t Type) Topology() gputypes.PrimitiveTopology {
	switch t {
	case TriStripMesh:
		return gputypes.PrimitiveTopologyTriangleStrip
	case LineMesh:
		return gputypes.PrimitiveTopologyLineList
	case PointMesh:
		return gputypes.PrimitiveTopologyPointList
	default:
		return gputypes.PrimitiveTopologyTriangleList
	}
}

// VerticesPerFace returns the vertex count of one face for fixed-size
// types, or 0 when faces vary in size.
func (t Type) VerticesPerFace() int {
	switch t {
	case QuadMesh:
		return 4
	case TriMesh:
		return 3
	case LineMesh:
		return 2
	case PointMesh:
		return 1
	default:
		return 0
	}
}

// ArrayType identifies a render array slot.
type ArrayType uint8

// Render array slots. Slots 4 through MaxArrays-1 are reserved.
const (
	VertexArray ArrayType = iota
	ColorArray
	NormalArray
	TexCoordArray
)

// MaxArrays is the number of render array slots per mesh.
const MaxArrays = 16

var arrayNames = [...]string{
	VertexArray:   "vertex",
	ColorArray:    "color",
	NormalArray:   "normal",
	TexCoordArray: "texcoord",
}

func (t ArrayType) String() string {
	if int(t) < len(arrayNames) {
		return arrayNames[t]
	}
	return fmt.Sprintf("array(%d)", uint8(t))
}

// Components returns the number of float32 values per element.
func (t ArrayType) Components() int {
	switch t {
	case VertexArray, NormalArray:
		return 3
	case ColorArray:
		return 4
	case TexCoordArray:
		return 2
	default:
		return 0
	}
}

// Format returns the GPU vertex format of one element.
func (t ArrayType) Format() gputypes.VertexFormat {
	switch t {
	case VertexArray, NormalArray:
		return gputypes.VertexFormatFloat32x3
	case ColorArray:
		return gputypes.VertexFormatFloat32x4
	case TexCoordArray:
		return gputypes.VertexFormatFloat32x2
	default:
		return gputypes.VertexFormatUndefined
	}
}

// ArraySet is a bitset of render array slots.
type ArraySet uint16

// AllArrays holds the four attribute slots.
const AllArrays = ArraySet(1<<VertexArray | 1<<ColorArray | 1<<NormalArray | 1<<TexCoordArray)

// SetOf returns a set holding ts.
func SetOf(ts ...ArrayType) ArraySet {
	var s ArraySet
	for _, t := range ts {
		s = s.With(t)
	}
	return s
}

// Has reports whether t is in the set.
func (s ArraySet) Has(t ArrayType) bool { return t < MaxArrays && s&(1<<t) != 0 }

// With returns the set with t added.
func (s ArraySet) With(t ArrayType) ArraySet {
	if t >= MaxArrays {
		return s
	}
	return s | 1<<t
}

// Without returns the set with t removed.
func (s ArraySet) Without(t ArrayType) ArraySet { return s &^ (1 << t) }

// Len returns the number of slots in the set.
func (s ArraySet) Len() int { return bits.OnesCount16(uint16(s)) }

// Types returns the slots in ascending order.
func (s ArraySet) Types() []ArrayType {
	out := make([]ArrayType, 0, s.Len())
	for t := ArrayType(0); t < MaxArrays; t++ {
		if s.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package mesh

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"
)

// RenderDataArray is one attribute stream of a mesh, flattened for a
// renderer.
//
// Data holds Count elements of Type.Components() float32 each. Stride and
// Size are in bytes. Handle belongs to the renderer: the mesh carries it
// across rebuilds but never reads or releases it.
type RenderDataArray struct {
	Type   ArrayType
	Stride int
	Size   int
	Count  int
	Data   []float32
	Handle any
}

func newRenderDataArray(t ArrayType, data []float32) *RenderDataArray {
	c := t.Components()
	count := 0
	if c > 0 {
		count = len(data) / c
	}
	return &RenderDataArray{
		Type:   t,
		Stride: c * 4,
		Size:   len(data) * 4,
		Count:  count,
		Data:   data,
	}
}

// Bytes returns a little-endian copy of Data suitable for a GPU upload.
// The renderer must upload from this copy, not keep references to Data.
func (a *RenderDataArray) Bytes() []byte {
	out := make([]byte, 0, len(a.Data)*4)
	for _, f := range a.Data {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(f))
	}
	return out
}

// Attribute returns the vertex attribute describing this array when bound
// at the given shader location.
func (a *RenderDataArray) Attribute(location uint32) gputypes.VertexAttribute {
	return gputypes.VertexAttribute{
		Format:         a.Type.Format(),
		Offset:         0,
		ShaderLocation: location,
	}
}

// Layout returns the single-attribute vertex buffer layout of this array.
// Each slot is uploaded as its own buffer, bound at the slot index.
func (a *RenderDataArray) Layout() gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: uint64(a.Stride), //nolint:gosec // stride is at most 16 bytes
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes:  []gputypes.VertexAttribute{a.Attribute(uint32(a.Type))},
	}
}

// VertexBuffer is a pre-baked, backend-specific vertex store that a mesh
// can carry instead of rebuilding arrays from its polygons.
type VertexBuffer interface {
	VertexCount() int
	VerticesPerFace() int
	MeshType() Type
}

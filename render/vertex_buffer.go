// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/stage/mesh"
)

// interleaved lists the attribute slots of a GPUVertexBuffer in layout order.
var interleaved = []mesh.ArrayType{mesh.VertexArray, mesh.ColorArray, mesh.NormalArray, mesh.TexCoordArray}

// GPUVertexBuffer is a pre-baked, interleaved vertex buffer. A mesh holding
// one is drawn from it instead of from its per-slot arrays.
type GPUVertexBuffer struct {
	device   hal.Device
	buffer   hal.Buffer
	count    int
	meshType mesh.Type
}

// VertexLayout returns the interleaved layout: position, color, normal and
// texcoord at shader locations 0 through 3.
func VertexLayout() gputypes.VertexBufferLayout {
	attrs := make([]gputypes.VertexAttribute, 0, len(interleaved))
	var offset uint64
	for _, t := range interleaved {
		attrs = append(attrs, gputypes.VertexAttribute{
			Format:         t.Format(),
			Offset:         offset,
			ShaderLocation: uint32(t),
		})
		offset += t.Format().Size()
	}
	return gputypes.VertexBufferLayout{
		ArrayStride: offset,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes:  attrs,
	}
}

// BakeVertexBuffer interleaves the current geometry of m into a new GPU
// buffer. It rebuilds all four attribute arrays, so their dirty bits are
// cleared. The returned buffer is not installed on m.
func BakeVertexBuffer(device hal.Device, queue hal.Queue, m *mesh.Mesh) (*GPUVertexBuffer, error) {
	arrays := make([]*mesh.RenderDataArray, len(interleaved))
	for i, t := range interleaved {
		arrays[i] = m.RebuildArray(t)
	}
	count := arrays[0].Count
	stride := VertexLayout().ArrayStride

	data := make([]byte, 0, uint64(count)*stride)
	for v := range count {
		for _, arr := range arrays {
			c := arr.Type.Components()
			for _, f := range arr.Data[v*c : (v+1)*c] {
				data = binary.LittleEndian.AppendUint32(data, math.Float32bits(f))
			}
		}
	}

	vb := &GPUVertexBuffer{device: device, count: count, meshType: m.MeshType()}
	if len(data) == 0 {
		return vb, nil
	}
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "stage baked mesh",
		Size:  uint64(len(data)),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("render: bake vertex buffer: %w", err)
	}
	if err := queue.WriteBuffer(buf, 0, data); err != nil {
		device.DestroyBuffer(buf)
		return nil, fmt.Errorf("render: bake vertex buffer: %w", err)
	}
	vb.buffer = buf
	return vb, nil
}

func (b *GPUVertexBuffer) VertexCount() int { return b.count }

func (b *GPUVertexBuffer) VerticesPerFace() int {
	// Baked data is already assembled into the topology's primitives.
	switch b.meshType.Topology() {
	case gputypes.PrimitiveTopologyTriangleList:
		return 3
	default:
		return b.meshType.VerticesPerFace()
	}
}

func (b *GPUVertexBuffer) MeshType() mesh.Type { return b.meshType }

// Buffer returns the underlying hal buffer, nil for an empty mesh.
func (b *GPUVertexBuffer) Buffer() hal.Buffer { return b.buffer }

// Destroy releases the GPU buffer.
func (b *GPUVertexBuffer) Destroy() {
	if b.buffer != nil {
		b.device.DestroyBuffer(b.buffer)
		b.buffer = nil
	}
}

var _ mesh.VertexBuffer = (*GPUVertexBuffer)(nil)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/stage"
	"github.com/gogpu/stage/mesh"
)

// ArrayBuffer is the GPU buffer behind one mesh render array. It is stored
// in RenderDataArray.Handle.
type ArrayBuffer struct {
	Buffer   hal.Buffer
	Capacity uint64
	Size     uint64
}

// MeshUploader keeps mesh render arrays mirrored in GPU vertex buffers.
//
// Sync rebuilds every dirty attribute slot of a mesh and writes it to the
// slot's buffer, growing the buffer when needed. Slots that are clean are
// left alone.
type MeshUploader struct {
	device hal.Device
	queue  hal.Queue

	uploads int
	bytes   int
}

// NewMeshUploader creates an uploader on device and queue.
func NewMeshUploader(device hal.Device, queue hal.Queue) (*MeshUploader, error) {
	if device == nil || queue == nil {
		return nil, errors.New("render: uploader needs a device and a queue")
	}
	return &MeshUploader{device: device, queue: queue}, nil
}

// Sync uploads the dirty attribute slots of m. Meshes carrying a vertex
// buffer are drawn from it and are not synced. A slot whose upload fails
// is marked dirty again so the next Sync retries it.
func (u *MeshUploader) Sync(m *mesh.Mesh) error {
	if m.HasVertexBuffer() {
		return nil
	}
	for _, t := range (m.Dirty() & mesh.AllArrays).Types() {
		arr := m.RebuildArray(t)
		if err := u.upload(arr); err != nil {
			m.MarkDirty(t)
			return fmt.Errorf("render: upload %s array: %w", t, err)
		}
	}
	return nil
}

func (u *MeshUploader) upload(arr *mesh.RenderDataArray) error {
	data := arr.Bytes()
	size := uint64(len(data))
	ab, _ := arr.Handle.(*ArrayBuffer)

	if size == 0 {
		u.destroy(ab)
		arr.Handle = nil
		return nil
	}
	if ab == nil || ab.Capacity < size {
		u.destroy(ab)
		buf, err := u.device.CreateBuffer(&hal.BufferDescriptor{
			Label: "stage mesh " + arr.Type.String(),
			Size:  size,
			Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			arr.Handle = nil
			return err
		}
		ab = &ArrayBuffer{Buffer: buf, Capacity: size}
		arr.Handle = ab
	}
	if err := u.queue.WriteBuffer(ab.Buffer, 0, data); err != nil {
		return err
	}
	ab.Size = size
	u.uploads++
	u.bytes += len(data)
	stage.Logger().Debug("render: uploaded array", "slot", arr.Type.String(), "bytes", size)
	return nil
}

func (u *MeshUploader) destroy(ab *ArrayBuffer) {
	if ab != nil && ab.Buffer != nil {
		u.device.DestroyBuffer(ab.Buffer)
	}
}

// Release destroys the GPU buffers of every render array of m.
func (u *MeshUploader) Release(m *mesh.Mesh) {
	for t := range mesh.ArrayType(mesh.MaxArrays) {
		arr, _ := m.RenderArray(t)
		if arr == nil {
			continue
		}
		if ab, ok := arr.Handle.(*ArrayBuffer); ok {
			u.destroy(ab)
			arr.Handle = nil
		}
	}
}

// Buffer returns the GPU buffer of slot t of m, if it has been uploaded.
func Buffer(m *mesh.Mesh, t mesh.ArrayType) (*ArrayBuffer, bool) {
	arr, _ := m.RenderArray(t)
	if arr == nil {
		return nil, false
	}
	ab, ok := arr.Handle.(*ArrayBuffer)
	return ab, ok
}

// Uploads returns the number of uploads and bytes written so far.
func (u *MeshUploader) Uploads() (count, bytes int) { return u.uploads, u.bytes }

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/stage"
	"github.com/gogpu/stage/material"
	"github.com/gogpu/stage/mesh"
	"github.com/gogpu/stage/module"
)

// GPURenderer is a Renderer on a hal device provided by the host.
//
// It keeps mesh render arrays uploaded through a MeshUploader, creates
// shader modules from compiled SPIR-V and allocates render target
// textures. Command encoding is left to the host's frame loop; DrawMesh
// makes a mesh's buffers current and accounts for the draw.
//
// Example:
//
//	dev, _ := render.OpenNoopDevice()
//	r, err := render.NewGPURenderer(dev, 1280, 720)
//	if err != nil {
//	    return err
//	}
//	cs := services.New(services.WithRenderer(r))
type GPURenderer struct {
	handle DeviceHandle
	device hal.Device
	queue  hal.Queue

	uploader *MeshUploader
	shaders  map[string]hal.ShaderModule

	width, height int
	mode          ProjectionMode
	ortho         [2]float32
	targets       []Texture

	stats Stats
}

// NewGPURenderer creates a renderer on the host's device. The handle's
// Device and Queue must be a hal.Device and a hal.Queue.
func NewGPURenderer(handle DeviceHandle, width, height int) (*GPURenderer, error) {
	dev, q, err := halPair(handle)
	if err != nil {
		return nil, err
	}
	up, err := NewMeshUploader(dev, q)
	if err != nil {
		return nil, err
	}
	stage.Logger().Info("render: GPU renderer created",
		"adapter", handle.AdapterInfo().Name, "width", width, "height", height)
	return &GPURenderer{
		handle:   handle,
		device:   dev,
		queue:    q,
		uploader: up,
		shaders:  make(map[string]hal.ShaderModule),
		width:    width,
		height:   height,
	}, nil
}

// DeviceHandle returns the host device handle.
func (r *GPURenderer) DeviceHandle() DeviceHandle { return r.handle }

// Uploader returns the mesh uploader.
func (r *GPURenderer) Uploader() *MeshUploader { return r.uploader }

// Resize changes the viewport size.
func (r *GPURenderer) Resize(width, height int) {
	r.width, r.height = width, height
}

func (r *GPURenderer) SetPerspectiveMode() { r.mode = Perspective }

func (r *GPURenderer) SetOrthoMode(width, height float32) {
	r.mode = Ortho
	r.ortho = [2]float32{width, height}
}

// Mode returns the current projection and, in ortho mode, its extent.
func (r *GPURenderer) Mode() (ProjectionMode, [2]float32) { return r.mode, r.ortho }

func (r *GPURenderer) ClearScreen() { r.stats.Clears++ }

func (r *GPURenderer) Viewport() (int, int) { return r.width, r.height }

// DrawMesh uploads the dirty arrays of m and accounts for one draw.
func (r *GPURenderer) DrawMesh(m *mesh.Mesh, _ DrawState) error {
	if m == nil {
		return errors.New("render: nil mesh")
	}
	if err := r.uploader.Sync(m); err != nil {
		return err
	}
	r.stats.DrawCalls++
	r.stats.Vertices += drawnVertices(m)
	return nil
}

// drawnVertices is the number of vertices a draw of m submits: the baked
// buffer's count, or the assembled vertex array's.
func drawnVertices(m *mesh.Mesh) int {
	if vb := m.VertexBuffer(); vb != nil {
		return vb.VertexCount()
	}
	if arr, _ := m.RenderArray(mesh.VertexArray); arr != nil {
		return arr.Count
	}
	return 0
}

// AddShaderModule compiles s and creates its hal shader module.
func (r *GPURenderer) AddShaderModule(s *module.Shader) error {
	if _, ok := r.shaders[s.Name()]; ok {
		return fmt.Errorf("render: shader module %q already added", s.Name())
	}
	code, err := s.SPIRV()
	if err != nil {
		return err
	}
	sm, err := r.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  s.Name(),
		Source: hal.ShaderSource{SPIRV: code},
	})
	if err != nil {
		return fmt.Errorf("render: create shader module %s: %w", s.Name(), err)
	}
	r.shaders[s.Name()] = sm
	return nil
}

func (r *GPURenderer) RemoveShaderModule(name string) {
	if sm, ok := r.shaders[name]; ok {
		r.device.DestroyShaderModule(sm)
		delete(r.shaders, name)
	}
}

// ShaderModule returns the hal module created for the shader named name.
func (r *GPURenderer) ShaderModule(name string) (hal.ShaderModule, bool) {
	sm, ok := r.shaders[name]
	return sm, ok
}

func (r *GPURenderer) CreateTexture(width, height int, format gputypes.TextureFormat) (Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("render: invalid texture size %dx%d", width, height)
	}
	desc := DefaultTextureDescriptor(uint32(width), uint32(height), format) //nolint:gosec // checked positive above
	desc.Label = "stage target"
	return NewTextureTarget(r.device, desc)
}

func (r *GPURenderer) BeginTarget(t Texture) error {
	if _, ok := t.(*TextureTarget); !ok {
		return fmt.Errorf("render: %T is not a GPU texture", t)
	}
	r.targets = append(r.targets, t)
	return nil
}

func (r *GPURenderer) EndTarget() error {
	if len(r.targets) == 0 {
		return errors.New("render: EndTarget without BeginTarget")
	}
	r.targets = r.targets[:len(r.targets)-1]
	return nil
}

func (r *GPURenderer) DrawFilter(mat *material.Material, scene, _ Texture) error {
	if mat == nil || mat.Shader == nil {
		return errors.New("render: filter material has no shader")
	}
	if _, ok := r.shaders[mat.Shader.Name()]; !ok {
		return fmt.Errorf("render: filter shader %q not added", mat.Shader.Name())
	}
	if scene == nil {
		return errors.New("render: filter without scene texture")
	}
	r.stats.FilterPasses++
	return nil
}

func (r *GPURenderer) Flush() error { return nil }

// Stats returns the work counted since the last ResetStats, including
// uploads.
func (r *GPURenderer) Stats() Stats {
	s := r.stats
	s.Uploads, s.UploadBytes = r.uploader.Uploads()
	return s
}

// ResetStats clears the draw counters.
func (r *GPURenderer) ResetStats() { r.stats = Stats{} }

// Close destroys the shader modules created by the renderer.
func (r *GPURenderer) Close() {
	for name := range r.shaders {
		r.RemoveShaderModule(name)
	}
}

var _ Renderer = (*GPURenderer)(nil)

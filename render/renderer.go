// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/stage"
	"github.com/gogpu/stage/material"
	"github.com/gogpu/stage/mesh"
	"github.com/gogpu/stage/module"
)

// ProjectionMode selects how subsequent draws are projected.
type ProjectionMode uint8

const (
	Perspective ProjectionMode = iota
	Ortho
)

func (m ProjectionMode) String() string {
	if m == Ortho {
		return "ortho"
	}
	return "perspective"
}

// DrawState is the per-draw transform and appearance of a mesh.
type DrawState struct {
	Position stage.Vector3
	Scale    stage.Vector3
	Rotation stage.Vector3 // Euler angles in degrees
	Color    stage.Color
	Texture  Texture
	Material *material.Material
}

// DefaultDrawState returns an identity transform with white color.
func DefaultDrawState() DrawState {
	return DrawState{Scale: stage.V3(1, 1, 1), Color: stage.White}
}

// Renderer is the boundary between the engine core and a graphics backend.
//
// The core hands meshes to DrawMesh; the renderer is the only party that
// rebuilds a mesh's dirty render arrays and clears their dirty bits. It
// must copy array data during the call and not keep references to it.
//
// Renderers are not safe for concurrent use. Callers sharing one across
// service contexts serialize through the services render mutex.
type Renderer interface {
	// SetPerspectiveMode switches to 3D projection.
	SetPerspectiveMode()

	// SetOrthoMode switches to a 2D projection spanning width by height
	// units with the origin in the top-left corner.
	SetOrthoMode(width, height float32)

	// ClearScreen clears the active target.
	ClearScreen()

	// Viewport returns the output size in pixels.
	Viewport() (width, height int)

	// DrawMesh draws m with the given state.
	DrawMesh(m *mesh.Mesh, st DrawState) error

	// AddShaderModule makes s available to pipelines.
	AddShaderModule(s *module.Shader) error

	// RemoveShaderModule drops the shader named name, if present.
	RemoveShaderModule(name string)

	// CreateTexture allocates a texture usable as a render target.
	CreateTexture(width, height int, format gputypes.TextureFormat) (Texture, error)

	// BeginTarget redirects drawing into t until EndTarget.
	BeginTarget(t Texture) error

	// EndTarget restores drawing to the previous target.
	EndTarget() error

	// DrawFilter composites scene through mat's shader onto the active
	// target. depth may be nil.
	DrawFilter(mat *material.Material, scene, depth Texture) error

	// Flush submits pending work.
	Flush() error
}

// Stats counts renderer work since the last ResetStats.
type Stats struct {
	DrawCalls    int
	Vertices     int
	Clears       int
	FilterPasses int
	Uploads      int
	UploadBytes  int
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/stage/material"
	"github.com/gogpu/stage/mesh"
	"github.com/gogpu/stage/module"
)

// OpKind identifies a recorded renderer call.
type OpKind uint8

const (
	OpPerspective OpKind = iota
	OpOrtho
	OpClear
	OpDrawMesh
	OpAddShader
	OpRemoveShader
	OpBeginTarget
	OpEndTarget
	OpDrawFilter
	OpFlush
)

var opNames = [...]string{
	OpPerspective:  "perspective",
	OpOrtho:        "ortho",
	OpClear:        "clear",
	OpDrawMesh:     "draw",
	OpAddShader:    "add-shader",
	OpRemoveShader: "remove-shader",
	OpBeginTarget:  "begin-target",
	OpEndTarget:    "end-target",
	OpDrawFilter:   "filter",
	OpFlush:        "flush",
}

func (k OpKind) String() string {
	if int(k) < len(opNames) {
		return opNames[k]
	}
	return fmt.Sprintf("OpKind(%d)", uint8(k))
}

// Op is one recorded call.
type Op struct {
	Kind   OpKind
	Mesh   *mesh.Mesh
	State  DrawState
	Name   string
	Target Texture
	Size   [2]float32
}

// Recorder is a Renderer that records calls instead of drawing. Like any
// renderer it rebuilds the dirty arrays of meshes it draws. It is safe for
// concurrent use so tests can inspect it from other goroutines.
type Recorder struct {
	mu      sync.Mutex
	width   int
	height  int
	ops     []Op
	shaders map[string]*module.Shader
	targets int

	// FailShader makes AddShaderModule fail for this shader name.
	FailShader string
}

// NewRecorder returns a recorder with the given viewport.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{width: width, height: height, shaders: make(map[string]*module.Shader)}
}

func (r *Recorder) record(op Op) {
	r.mu.Lock()
	r.ops = append(r.ops, op)
	r.mu.Unlock()
}

// Ops returns a copy of the recorded calls.
func (r *Recorder) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.ops)
}

// Kinds returns the kinds of the recorded calls in order.
func (r *Recorder) Kinds() []OpKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]OpKind, len(r.ops))
	for i, op := range r.ops {
		out[i] = op.Kind
	}
	return out
}

// Reset discards recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.ops = nil
	r.mu.Unlock()
}

// HasShader reports whether a shader named name was added.
func (r *Recorder) HasShader(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.shaders[name]
	return ok
}

func (r *Recorder) SetPerspectiveMode() { r.record(Op{Kind: OpPerspective}) }

func (r *Recorder) SetOrthoMode(width, height float32) {
	r.record(Op{Kind: OpOrtho, Size: [2]float32{width, height}})
}

func (r *Recorder) ClearScreen() { r.record(Op{Kind: OpClear}) }

func (r *Recorder) Viewport() (int, int) { return r.width, r.height }

// Resize changes the reported viewport.
func (r *Recorder) Resize(width, height int) {
	r.mu.Lock()
	r.width, r.height = width, height
	r.mu.Unlock()
}

func (r *Recorder) DrawMesh(m *mesh.Mesh, st DrawState) error {
	if m == nil {
		return errors.New("render: nil mesh")
	}
	if !m.HasVertexBuffer() {
		for _, t := range (m.Dirty() & mesh.AllArrays).Types() {
			m.RebuildArray(t)
		}
	}
	r.record(Op{Kind: OpDrawMesh, Mesh: m, State: st})
	return nil
}

func (r *Recorder) AddShaderModule(s *module.Shader) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.Name() == r.FailShader {
		return fmt.Errorf("render: shader %q rejected", s.Name())
	}
	if _, ok := r.shaders[s.Name()]; ok {
		return fmt.Errorf("render: shader module %q already added", s.Name())
	}
	r.shaders[s.Name()] = s
	r.ops = append(r.ops, Op{Kind: OpAddShader, Name: s.Name()})
	return nil
}

func (r *Recorder) RemoveShaderModule(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.shaders[name]; ok {
		delete(r.shaders, name)
		r.ops = append(r.ops, Op{Kind: OpRemoveShader, Name: name})
	}
}

func (r *Recorder) CreateTexture(width, height int, format gputypes.TextureFormat) (Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("render: invalid texture size %dx%d", width, height)
	}
	return &memTexture{width: uint32(width), height: uint32(height), format: format}, nil //nolint:gosec // checked positive above
}

func (r *Recorder) BeginTarget(t Texture) error {
	r.mu.Lock()
	r.targets++
	r.mu.Unlock()
	r.record(Op{Kind: OpBeginTarget, Target: t})
	return nil
}

func (r *Recorder) EndTarget() error {
	r.mu.Lock()
	if r.targets == 0 {
		r.mu.Unlock()
		return errors.New("render: EndTarget without BeginTarget")
	}
	r.targets--
	r.mu.Unlock()
	r.record(Op{Kind: OpEndTarget})
	return nil
}

func (r *Recorder) DrawFilter(mat *material.Material, scene, depth Texture) error {
	if mat == nil {
		return errors.New("render: nil filter material")
	}
	r.record(Op{Kind: OpDrawFilter, Name: mat.Name, Target: scene})
	return nil
}

func (r *Recorder) Flush() error {
	r.record(Op{Kind: OpFlush})
	return nil
}

var _ Renderer = (*Recorder)(nil)

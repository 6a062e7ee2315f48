// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// TextureTarget is a GPU texture usable as an offscreen render target, for
// instance the scene and depth textures of a filtered screen.
type TextureTarget struct {
	device  hal.Device
	texture hal.Texture
	desc    TextureDescriptor
}

// NewTextureTarget creates a texture on device.
func NewTextureTarget(device hal.Device, desc TextureDescriptor) (*TextureTarget, error) {
	tex, err := device.CreateTexture(desc.hal())
	if err != nil {
		return nil, fmt.Errorf("render: create texture %dx%d: %w", desc.Width, desc.Height, err)
	}
	return &TextureTarget{device: device, texture: tex, desc: desc}, nil
}

// Width returns the texture width in pixels.
func (t *TextureTarget) Width() uint32 { return t.desc.Width }

// Height returns the texture height in pixels.
func (t *TextureTarget) Height() uint32 { return t.desc.Height }

// Format returns the pixel format.
func (t *TextureTarget) Format() gputypes.TextureFormat { return t.desc.Format }

// Texture returns the hal texture, nil after Destroy.
func (t *TextureTarget) Texture() hal.Texture { return t.texture }

// Destroy releases the GPU texture. It is safe to call more than once.
func (t *TextureTarget) Destroy() {
	if t.texture != nil {
		t.device.DestroyTexture(t.texture)
		t.texture = nil
	}
}

// memTexture is a Texture without backing storage, used by Recorder.
type memTexture struct {
	width, height uint32
	format        gputypes.TextureFormat
	destroyed     bool
}

func (t *memTexture) Width() uint32                  { return t.width }
func (t *memTexture) Height() uint32                 { return t.height }
func (t *memTexture) Format() gputypes.TextureFormat { return t.format }
func (t *memTexture) Destroy()                       { t.destroyed = true }

var (
	_ Texture = (*TextureTarget)(nil)
	_ Texture = (*memTexture)(nil)
)

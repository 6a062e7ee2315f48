// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// DeviceHandle provides GPU device access from the host application.
//
// The host owns the device; renderers in this package receive it and never
// create their own. Device() and Queue() must return a hal.Device and a
// hal.Queue for GPURenderer to use them.
type DeviceHandle = gpucontext.DeviceProvider

// Device errors.
var (
	ErrNilDevice         = errors.New("render: nil device handle")
	ErrUnsupportedDevice = errors.New("render: device handle does not expose a hal device")
)

// TextureDescriptor describes a texture to create.
type TextureDescriptor struct {
	Label         string
	Width         uint32
	Height        uint32
	MipLevelCount uint32
	SampleCount   uint32
	Format        gputypes.TextureFormat
	Usage         gputypes.TextureUsage
}

// DefaultTextureDescriptor returns a descriptor for a single-sample 2D
// texture usable both as a render attachment and for sampling.
func DefaultTextureDescriptor(width, height uint32, format gputypes.TextureFormat) TextureDescriptor {
	return TextureDescriptor{
		Width:         width,
		Height:        height,
		MipLevelCount: 1,
		SampleCount:   1,
		Format:        format,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageRenderAttachment,
	}
}

func (d TextureDescriptor) hal() *hal.TextureDescriptor {
	return &hal.TextureDescriptor{
		Label:         d.Label,
		Size:          hal.Extent3D{Width: d.Width, Height: d.Height, DepthOrArrayLayers: 1},
		MipLevelCount: d.MipLevelCount,
		SampleCount:   d.SampleCount,
		Dimension:     gputypes.TextureDimension2D,
		Format:        d.Format,
		Usage:         d.Usage,
	}
}

// Texture is a 2D image owned by a renderer.
type Texture interface {
	Width() uint32
	Height() uint32
	Format() gputypes.TextureFormat
	Destroy()
}

// HalDevice is a DeviceHandle over an opened hal device.
type HalDevice struct {
	open   hal.OpenDevice
	format gputypes.TextureFormat
	info   gpucontext.AdapterInfo
}

// NewHalDevice wraps an opened hal device. format is the surface format
// the host presents in.
func NewHalDevice(open hal.OpenDevice, format gputypes.TextureFormat, info gpucontext.AdapterInfo) *HalDevice {
	return &HalDevice{open: open, format: format, info: info}
}

// OpenNoopDevice opens the hal noop backend. It stores buffer contents in
// memory and draws nothing, which makes it suitable for headless runs and
// tests.
func OpenNoopDevice() (*HalDevice, error) {
	open, err := (&noop.Adapter{}).Open(0, gputypes.DefaultLimits())
	if err != nil {
		return nil, fmt.Errorf("render: open noop device: %w", err)
	}
	return NewHalDevice(open, gputypes.TextureFormatBGRA8Unorm, gpucontext.AdapterInfo{
		Name: "noop",
		Type: gpucontext.AdapterTypeSoftware,
	}), nil
}

func (d *HalDevice) Device() gpucontext.Device             { return d.open.Device }
func (d *HalDevice) Queue() gpucontext.Queue               { return d.open.Queue }
func (d *HalDevice) Adapter() gpucontext.Adapter           { return nil }
func (d *HalDevice) SurfaceFormat() gputypes.TextureFormat { return d.format }
func (d *HalDevice) AdapterInfo() gpucontext.AdapterInfo   { return d.info }

// Close destroys the hal device.
func (d *HalDevice) Close() {
	if d.open.Device != nil {
		d.open.Device.Destroy()
	}
}

// NullDeviceHandle is a DeviceHandle with no device, for hosts without GPU
// access.
type NullDeviceHandle struct{}

func (NullDeviceHandle) Device() gpucontext.Device { return nil }
func (NullDeviceHandle) Queue() gpucontext.Queue   { return nil }
func (NullDeviceHandle) Adapter() gpucontext.Adapter {
	return nil
}
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}
func (NullDeviceHandle) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Type: gpucontext.AdapterTypeUnknown}
}

// halPair extracts the hal device and queue from a handle.
func halPair(h DeviceHandle) (hal.Device, hal.Queue, error) {
	if h == nil {
		return nil, nil, ErrNilDevice
	}
	dev, ok := h.Device().(hal.Device)
	if !ok || dev == nil {
		return nil, nil, ErrUnsupportedDevice
	}
	q, ok := h.Queue().(hal.Queue)
	if !ok || q == nil {
		return nil, nil, ErrUnsupportedDevice
	}
	return dev, q, nil
}

var (
	_ DeviceHandle = (*HalDevice)(nil)
	_ DeviceHandle = NullDeviceHandle{}
)

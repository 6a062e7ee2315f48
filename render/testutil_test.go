// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"encoding/binary"
	"math"
	"testing"
	"unsafe"

	"github.com/gogpu/wgpu/hal"
)

const testWGSL = `@vertex
fn main(@builtin(vertex_index) idx: u32) -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}`

func openNoop(t *testing.T) *HalDevice {
	t.Helper()
	dev, err := OpenNoopDevice()
	if err != nil {
		t.Fatalf("OpenNoopDevice: %v", err)
	}
	t.Cleanup(dev.Close)
	return dev
}

// readFloats maps n float32 values from the start of buf.
func readFloats(t *testing.T, dev hal.Device, buf hal.Buffer, n int) []float32 {
	t.Helper()
	mapping, err := dev.MapBuffer(buf, 0, uint64(n*4)) //nolint:gosec // G115: test sizes are small
	if err != nil {
		t.Fatalf("MapBuffer: %v", err)
	}
	defer func() { _ = dev.UnmapBuffer(buf) }()
	raw := unsafe.Slice((*byte)(mapping.Ptr), n*4)
	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return out
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render is the boundary between the engine core and a graphics
// backend.
//
// The core never talks to a GPU directly. Screens and scenes hand meshes
// to a Renderer, which is the only party allowed to rebuild a mesh's
// dirty render arrays.
//
// # Key Principle
//
// The renderer RECEIVES a GPU device from the host application, it does
// NOT create its own. A DeviceHandle (gpucontext.DeviceProvider) carries
// the host's hal device and queue.
//
// # Renderer Implementations
//
//   - GPURenderer: keeps mesh arrays uploaded to hal buffers, creates
//     shader modules from compiled SPIR-V and allocates target textures.
//   - Recorder: records calls in order, for headless runs and tests.
//
// # Mesh Upload
//
// MeshUploader mirrors each attribute slot of a mesh in its own vertex
// buffer and re-uploads only dirty slots. BakeVertexBuffer interleaves a
// mesh into a single buffer that the mesh then draws from.
//
// # Quick Start
//
//	dev, err := render.OpenNoopDevice()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer dev.Close()
//
//	r, err := render.NewGPURenderer(dev, 1280, 720)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	m := mesh.New(mesh.QuadMesh)
//	_ = m.CreateBox(1, 1, 1)
//	_ = r.DrawMesh(m, render.DefaultDrawState())
package render

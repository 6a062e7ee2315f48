// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package mesh provides polygon meshes with cached, renderer-facing vertex
// arrays.
//
// # Render arrays
//
// A [Mesh] keeps up to [MaxArrays] [RenderDataArray] slots, one per
// attribute stream ([VertexArray], [ColorArray], [NormalArray],
// [TexCoordArray]; the remaining slots are reserved). The arrays are a
// cache of the polygon data. Every Mesh method that changes geometry
// documents which slots it marks dirty, and a dirty slot must be treated
// as stale until it is rebuilt.
//
// Only the renderer clears dirty bits, by calling [Mesh.RebuildArray]
// after it decides to refresh a slot:
//
//	for _, t := range m.Dirty().Types() {
//	    arr := m.RebuildArray(t)
//	    upload(arr.Bytes())
//	}
//
// Direct edits to a [Polygon] obtained from [Mesh.Polygon] do not mark
// anything dirty; call [Mesh.MarkDirty] afterwards.
//
// # Generators
//
// CreatePlane, CreateBox, CreateSphere, CreateCylinder and CreateCone
// replace the mesh contents with a shape centered on the origin whose faces
// wind counter-clockwise when seen from outside. Ring counts below
// [MinRings] and segment counts below [MinSegments] are clamped up. Sizes
// that are zero, negative, NaN or infinite are rejected with
// [ErrDegenerateShape] and the mesh is left unchanged.
//
// # File format
//
// Meshes are stored little-endian: uint32 mesh type, uint32 polygon count,
// then for each polygon a uint32 vertex count followed by twelve float32 per
// vertex (position xyz, normal xyz, color rgba, texcoord uv).
package mesh

// Package screen composes 2D entities for UI and overlays.
//
// A Screen holds a flat list of nodes sorted by z-index on every Update;
// it is not a scene graph. Entities are placed by their top-left corner in
// pixels, or in normalized units after SetNormalizedCoordinates. A filter
// shader set with SetScreenShader renders the children offscreen and
// composites them through a material.
//
// Shape and Image are the stock node types. Any type embedding Entity is
// a Node, and may add Update and HandleInput methods.
package screen

// Package scene holds 3D entities and the scenes that update, cull and
// draw them.
package scene

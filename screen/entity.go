package screen

import (
	"time"

	"github.com/gogpu/stage"
	"github.com/gogpu/stage/input"
	"github.com/gogpu/stage/mesh"
	"github.com/gogpu/stage/render"
)

// Node is anything a Screen can hold. Entity implements it and every type
// embedding *Entity or Entity inherits the implementation.
type Node interface {
	// AsEntity returns the node's base entity.
	AsEntity() *Entity

	// Render draws the node. origin is added to the node position and tint
	// multiplies its color.
	Render(r render.Renderer, origin stage.Vector2, tint stage.Color) error
}

// Updater is implemented by nodes with per-frame logic.
type Updater interface {
	Update(elapsed time.Duration)
}

// InputHandler is implemented by nodes that accept input. local is the
// pointer position relative to the node's top-left corner; it is zero for
// key events. Returning true marks the event as handled.
type InputHandler interface {
	HandleInput(ev input.InputEvent, local stage.Vector2) bool
}

// Entity is the base 2D node: a rectangle placed by its top-left corner.
type Entity struct {
	Name     string
	Position stage.Vector2
	Width    float32
	Height   float32
	Rotation float32 // degrees
	Scale    stage.Vector2
	Color    stage.Color
	ZIndex   int
	Visible  bool
	Enabled  bool

	// Mesh is drawn centered in the rectangle. It may be nil.
	Mesh *mesh.Mesh
}

// NewEntity returns a visible, enabled w by h entity at the origin.
func NewEntity(w, h float32) *Entity {
	return &Entity{
		Width:   w,
		Height:  h,
		Scale:   stage.V2(1, 1),
		Color:   stage.White,
		Visible: true,
		Enabled: true,
	}
}

func (e *Entity) AsEntity() *Entity { return e }

// SetPosition moves the top-left corner to (x, y).
func (e *Entity) SetPosition(x, y float32) { e.Position = stage.V2(x, y) }

// Center returns the center of the rectangle.
func (e *Entity) Center() stage.Vector2 {
	return e.Position.Add(stage.V2(e.Width/2, e.Height/2))
}

// Contains reports whether (x, y) lies in the entity's rectangle, ignoring
// rotation and scale. The left and top edges are inside, the right and
// bottom edges are not.
func (e *Entity) Contains(x, y float32) bool {
	return x >= e.Position.X && x < e.Position.X+e.Width &&
		y >= e.Position.Y && y < e.Position.Y+e.Height
}

// Render draws the entity's mesh, if any.
func (e *Entity) Render(r render.Renderer, origin stage.Vector2, tint stage.Color) error {
	return e.draw(r, origin, tint, nil)
}

func (e *Entity) draw(r render.Renderer, origin stage.Vector2, tint stage.Color, tex render.Texture) error {
	if e.Mesh == nil {
		return nil
	}
	c := origin.Add(e.Center())
	return r.DrawMesh(e.Mesh, render.DrawState{
		Position: stage.V3(c.X, c.Y, 0),
		Scale:    stage.V3(e.Scale.X, e.Scale.Y, 1),
		Rotation: stage.V3(0, 0, e.Rotation),
		Color:    tint.Mul(e.Color),
		Texture:  tex,
	})
}

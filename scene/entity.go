package scene

import (
	"slices"
	"time"

	"github.com/gogpu/stage"
	"github.com/gogpu/stage/mesh"
)

// Entity is a 3D node. Children are positioned relative to their parent
// and, when the parent's ColorAffectsChildren is set, tinted by it.
type Entity struct {
	Name     string
	Mesh     *mesh.Mesh
	Position stage.Vector3
	Scale    stage.Vector3
	Rotation stage.Vector3 // Euler angles in degrees
	Color    stage.Color
	Visible  bool
	Enabled  bool

	ColorAffectsChildren bool

	// OnUpdate, if set, runs once per scene update before the children
	// are updated.
	OnUpdate func(e *Entity, elapsed time.Duration)

	bboxRadius float32
	parent     *Entity
	children   []*Entity
	culled     bool
}

// NewEntity returns a visible, enabled entity drawing m, which may be nil.
// The bounding radius is taken from the mesh.
func NewEntity(m *mesh.Mesh) *Entity {
	e := &Entity{
		Mesh:                 m,
		Scale:                stage.V3(1, 1, 1),
		Color:                stage.White,
		Visible:              true,
		Enabled:              true,
		ColorAffectsChildren: true,
	}
	if m != nil {
		e.bboxRadius = m.Radius()
	}
	return e
}

// Parent returns the parent entity, nil for a root.
func (e *Entity) Parent() *Entity { return e.parent }

// Children returns the child entities.
func (e *Entity) Children() []*Entity { return slices.Clone(e.children) }

// AddChild makes c a child of e, detaching it from its previous parent.
func (e *Entity) AddChild(c *Entity) {
	if c.parent != nil {
		c.parent.RemoveChild(c)
	}
	c.parent = e
	e.children = append(e.children, c)
}

// RemoveChild detaches c. It does nothing when c is not a child of e.
func (e *Entity) RemoveChild(c *Entity) {
	if i := slices.Index(e.children, c); i >= 0 {
		e.children = slices.Delete(e.children, i, i+1)
		c.parent = nil
	}
}

// Translate moves the entity by d.
func (e *Entity) Translate(d stage.Vector3) { e.Position = e.Position.Add(d) }

// CombinedPosition returns the position in scene space. Parent rotation
// and scale are not applied.
func (e *Entity) CombinedPosition() stage.Vector3 {
	if e.parent == nil {
		return e.Position
	}
	return e.parent.CombinedPosition().Add(e.Position)
}

// CombinedColor returns the color multiplied by the combined color of the
// parent, if the parent tints its children.
func (e *Entity) CombinedColor() stage.Color {
	if e.parent != nil && e.parent.ColorAffectsChildren {
		return e.Color.Mul(e.parent.CombinedColor())
	}
	return e.Color
}

// SetBBoxRadius overrides the entity's own bounding radius.
func (e *Entity) SetBBoxRadius(r float32) { e.bboxRadius = r }

// BBoxRadius returns the larger of the entity's own radius and the
// compound radius of any child.
func (e *Entity) BBoxRadius() float32 {
	r := e.bboxRadius
	for _, c := range e.children {
		r = max(r, c.CompoundBBoxRadius())
	}
	return r
}

// CompoundBBoxRadius returns the radius around the parent origin that
// encloses the entity and its subtree.
func (e *Entity) CompoundBBoxRadius() float32 {
	r := e.bboxRadius + e.Position.Length()
	for _, c := range e.children {
		r = max(r, c.CompoundBBoxRadius())
	}
	return r
}

// Culled reports whether the last scene update found the entity beyond
// the far distance.
func (e *Entity) Culled() bool { return e.culled }

func (e *Entity) update(elapsed time.Duration) {
	if !e.Enabled {
		return
	}
	if e.OnUpdate != nil {
		e.OnUpdate(e, elapsed)
	}
	for _, c := range e.children {
		c.update(elapsed)
	}
}

// walk visits e and its subtree depth first.
func (e *Entity) walk(fn func(*Entity) bool) {
	if !fn(e) {
		return
	}
	for _, c := range e.children {
		c.walk(fn)
	}
}

package scene

import (
	"errors"
	"slices"
	"time"

	"github.com/gogpu/stage"
	"github.com/gogpu/stage/render"
)

// Scene is a list of root entities viewed from a camera position.
type Scene struct {
	enabled  bool
	entities []*Entity

	// Camera is the viewer position used for culling.
	Camera stage.Vector3

	// FarDistance culls entities farther from the camera than this plus
	// their radius. Zero disables culling.
	FarDistance float32
}

// New returns an enabled, empty scene.
func New() *Scene { return &Scene{enabled: true} }

// SetEnabled turns updating and rendering on or off.
func (s *Scene) SetEnabled(v bool) { s.enabled = v }

// Enabled reports whether the scene updates and renders.
func (s *Scene) Enabled() bool { return s.enabled }

// AddEntity adds a root entity.
func (s *Scene) AddEntity(e *Entity) { s.entities = append(s.entities, e) }

// RemoveEntity removes a root entity, if present.
func (s *Scene) RemoveEntity(e *Entity) {
	if i := slices.Index(s.entities, e); i >= 0 {
		s.entities = slices.Delete(s.entities, i, i+1)
	}
}

// Entities returns the root entities.
func (s *Scene) Entities() []*Entity { return slices.Clone(s.entities) }

// UpdateVirtual runs entity updates, then recomputes culling.
func (s *Scene) UpdateVirtual(elapsed time.Duration) {
	if !s.enabled {
		return
	}
	for _, e := range s.entities {
		e.update(elapsed)
	}
	for _, root := range s.entities {
		root.walk(func(e *Entity) bool {
			e.culled = s.FarDistance > 0 &&
				s.Camera.Distance(e.CombinedPosition())-e.bboxRadius > s.FarDistance
			return true
		})
	}
}

// Render draws every visible, unculled entity with a mesh. An invisible
// entity hides its subtree.
func (s *Scene) Render(r render.Renderer) error {
	if !s.enabled {
		return nil
	}
	var errs []error
	for _, root := range s.entities {
		root.walk(func(e *Entity) bool {
			if !e.Visible {
				return false
			}
			if e.Mesh == nil || e.culled {
				return true
			}
			err := r.DrawMesh(e.Mesh, render.DrawState{
				Position: e.CombinedPosition(),
				Scale:    e.Scale,
				Rotation: e.Rotation,
				Color:    e.CombinedColor(),
			})
			if err != nil {
				errs = append(errs, err)
			}
			return true
		})
	}
	return errors.Join(errs...)
}

// Manager holds the scenes of a services context.
type Manager struct {
	scenes []*Scene
}

// NewManager returns an empty manager.
func NewManager() *Manager { return &Manager{} }

// Add appends s. Adding a scene twice does nothing.
func (m *Manager) Add(s *Scene) {
	if !slices.Contains(m.scenes, s) {
		m.scenes = append(m.scenes, s)
	}
}

// Remove drops s, if present.
func (m *Manager) Remove(s *Scene) {
	if i := slices.Index(m.scenes, s); i >= 0 {
		m.scenes = slices.Delete(m.scenes, i, i+1)
	}
}

// Scenes returns the scenes in render order.
func (m *Manager) Scenes() []*Scene { return slices.Clone(m.scenes) }

// UpdateVirtual updates and culls every scene.
func (m *Manager) UpdateVirtual(elapsed time.Duration) {
	for _, s := range m.scenes {
		s.UpdateVirtual(elapsed)
	}
}

// Render draws every scene in order.
func (m *Manager) Render(r render.Renderer) error {
	var errs []error
	for _, s := range m.scenes {
		if err := s.Render(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

package screen

import (
	"errors"
	"slices"
	"time"

	"github.com/gogpu/stage/input"
	"github.com/gogpu/stage/render"
)

// Manager keeps the screens of a services context. Screens added later
// are drawn later and receive input first.
type Manager struct {
	screens []*Screen
}

// NewManager returns an empty manager.
func NewManager() *Manager { return &Manager{} }

// Add appends s. Adding a screen twice does nothing.
func (m *Manager) Add(s *Screen) {
	if !slices.Contains(m.screens, s) {
		m.screens = append(m.screens, s)
	}
}

// Remove drops s, if present.
func (m *Manager) Remove(s *Screen) {
	if i := slices.Index(m.screens, s); i >= 0 {
		m.screens = slices.Delete(m.screens, i, i+1)
	}
}

// Screens returns the screens in draw order.
func (m *Manager) Screens() []*Screen { return slices.Clone(m.screens) }

// Update switches r to an orthographic projection over its viewport, then
// updates and renders every enabled screen in order. Render failures of
// one screen do not stop the others. With a nil r the screens are only
// updated.
func (m *Manager) Update(elapsed time.Duration, r render.Renderer) error {
	if r != nil {
		w, h := r.Viewport()
		r.SetOrthoMode(float32(w), float32(h))
	}

	var errs []error
	for _, s := range m.screens {
		if !s.Enabled() {
			continue
		}
		s.Update(elapsed)
		if r == nil {
			continue
		}
		if err := s.Render(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// HandleInputEvent offers ev to the screens from the topmost down and
// stops at the first one that handles it.
func (m *Manager) HandleInputEvent(ev input.InputEvent) bool {
	for _, s := range slices.Backward(m.screens) {
		if s.HandleInputEvent(ev) {
			return true
		}
	}
	return false
}

// HandleEvent forwards a window event to every screen. Input events are
// routed as by HandleInputEvent.
func (m *Manager) HandleEvent(ev input.Event) {
	if in, ok := ev.(input.InputEvent); ok {
		m.HandleInputEvent(in)
		return
	}
	for _, s := range m.screens {
		s.HandleEvent(ev)
	}
}

// Shutdown shuts every screen down and forgets them.
func (m *Manager) Shutdown() {
	for _, s := range m.screens {
		s.Shutdown()
	}
	m.screens = nil
}

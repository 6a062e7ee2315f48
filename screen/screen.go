package screen

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/stage"
	"github.com/gogpu/stage/input"
	"github.com/gogpu/stage/material"
	"github.com/gogpu/stage/render"
)

// ErrNoMaterials is returned by SetScreenShader on a screen created
// without a material source.
var ErrNoMaterials = errors.New("screen: no material source")

// Materials looks up filter materials by name. *material.Manager
// implements it.
type Materials interface {
	Material(name string) (*material.Material, error)
}

// Screen is a 2D render root. It composes a flat list of children sorted
// by z-index, optionally through a post-process filter material.
//
// Children are referenced, not owned; an entity may be shared with other
// code. A Screen is not safe for concurrent use.
type Screen struct {
	enabled  bool
	root     *Entity
	children []Node
	focus    Node

	offset     stage.Vector2
	normalized bool
	ySize      float32
	viewport   [2]int

	materials Materials
	filter    *material.Material
	sceneTex  render.Texture
	depthTex  render.Texture
}

// New creates an enabled screen in pixel coordinates. mats resolves filter
// shader materials and may be nil.
func New(mats Materials) *Screen {
	return &Screen{
		enabled:   true,
		root:      NewEntity(0, 0),
		ySize:     1,
		materials: mats,
	}
}

// SetEnabled turns updating and rendering on or off.
func (s *Screen) SetEnabled(v bool) { s.enabled = v }

// Enabled reports whether the screen updates and renders.
func (s *Screen) Enabled() bool { return s.enabled }

// RootEntity returns the root entity. Its position translates, its color
// tints and its visibility hides the whole screen.
func (s *Screen) RootEntity() *Entity { return s.root }

// AddChild appends n to the render list and returns it.
func (s *Screen) AddChild(n Node) Node {
	s.children = append(s.children, n)
	return n
}

// RemoveChild removes n from the render list and returns it. Removing an
// entity that is not a child does nothing.
func (s *Screen) RemoveChild(n Node) Node {
	if i := slices.Index(s.children, n); i >= 0 {
		s.children = slices.Delete(s.children, i, i+1)
	}
	if s.focus == n {
		s.focus = nil
	}
	return n
}

// Children returns the children in their current order.
func (s *Screen) Children() []Node { return slices.Clone(s.children) }

// Update advances enabled children with an Update method, then sorts the
// children by ascending z-index. Equal z-indices keep insertion order.
func (s *Screen) Update(elapsed time.Duration) {
	if !s.enabled {
		return
	}
	for _, n := range s.children {
		if u, ok := n.(Updater); ok && n.AsEntity().Enabled {
			u.Update(elapsed)
		}
	}
	s.sortChildren()
}

func (s *Screen) sortChildren() {
	slices.SortStableFunc(s.children, func(a, b Node) int {
		return cmp.Compare(a.AsEntity().ZIndex, b.AsEntity().ZIndex)
	})
}

// HighestZIndex returns the largest child z-index, 0 without children.
func (s *Screen) HighestZIndex() int {
	z := 0
	for i, n := range s.children {
		if e := n.AsEntity(); i == 0 || e.ZIndex > z {
			z = e.ZIndex
		}
	}
	return z
}

// EntityAt returns the topmost child whose rectangle contains (x, y) in
// screen coordinates, or nil. Rotation and scale are ignored. Among
// overlapping children the greatest z-index wins, and on equal z-index the
// one drawn later.
func (s *Screen) EntityAt(x, y float32) Node {
	var hit Node
	for _, n := range s.children {
		e := n.AsEntity()
		if !e.Visible || !e.Contains(x, y) {
			continue
		}
		if hit == nil || e.ZIndex >= hit.AsEntity().ZIndex {
			hit = n
		}
	}
	return hit
}

// ========================================================================
// Coordinates
// ========================================================================

// SetNormalizedCoordinates switches between pixel coordinates and a
// normalized space whose vertical extent is ySize units. The horizontal
// extent follows the viewport aspect ratio. Children are not moved.
func (s *Screen) SetNormalizedCoordinates(enable bool, ySize float32) {
	s.normalized = enable
	if ySize > 0 {
		s.ySize = ySize
	}
}

// UsesNormalizedCoordinates reports the coordinate mode and vertical size.
func (s *Screen) UsesNormalizedCoordinates() (bool, float32) { return s.normalized, s.ySize }

// SetScreenOffset shifts every child by (x, y) screen units.
func (s *Screen) SetScreenOffset(x, y float32) { s.offset = stage.V2(x, y) }

// ScreenOffset returns the offset.
func (s *Screen) ScreenOffset() stage.Vector2 { return s.offset }

// SetViewport records the output size in pixels. Render does this from the
// renderer; call it to map coordinates before the first frame.
func (s *Screen) SetViewport(width, height int) { s.viewport = [2]int{width, height} }

// Extent returns the size of the visible area in screen units.
func (s *Screen) Extent() (w, h float32) {
	w, h = float32(s.viewport[0]), float32(s.viewport[1])
	if s.normalized && h > 0 {
		return s.ySize * w / h, s.ySize
	}
	return w, h
}

// Transform returns the matrix mapping screen units to pixels.
func (s *Screen) Transform() stage.Matrix {
	m := stage.Translate(s.offset.X+s.root.Position.X, s.offset.Y+s.root.Position.Y)
	if s.normalized && s.viewport[1] > 0 {
		k := float32(s.viewport[1]) / s.ySize
		m = stage.Scale(k, k).Multiply(m)
	}
	return m
}

// ToScreen maps a point in screen units to pixels.
func (s *Screen) ToScreen(p stage.Vector2) stage.Vector2 { return s.Transform().Apply(p) }

// FromScreen maps a pixel position to screen units.
func (s *Screen) FromScreen(p stage.Vector2) stage.Vector2 {
	inv, _ := s.Transform().Invert()
	return inv.Apply(p)
}

// ========================================================================
// Filter shader
// ========================================================================

// SetScreenShader routes rendering through the material named name.
func (s *Screen) SetScreenShader(name string) error {
	if s.materials == nil {
		return ErrNoMaterials
	}
	mat, err := s.materials.Material(name)
	if err != nil {
		return fmt.Errorf("screen: set shader: %w", err)
	}
	s.filter = mat
	return nil
}

// ClearScreenShader removes the filter and releases its textures.
func (s *Screen) ClearScreenShader() {
	s.filter = nil
	s.releaseTargets()
}

// HasFilterShader reports whether a filter material is set.
func (s *Screen) HasFilterShader() bool { return s.filter != nil }

// FilterMaterial returns the filter material, nil when there is none.
func (s *Screen) FilterMaterial() *material.Material { return s.filter }

func (s *Screen) releaseTargets() {
	for _, t := range []render.Texture{s.sceneTex, s.depthTex} {
		if t != nil {
			t.Destroy()
		}
	}
	s.sceneTex, s.depthTex = nil, nil
}

// ensureTargets (re)creates the scene and depth textures at the viewport
// size.
func (s *Screen) ensureTargets(r render.Renderer) error {
	w, h := s.viewport[0], s.viewport[1]
	if s.sceneTex != nil && int(s.sceneTex.Width()) == w && int(s.sceneTex.Height()) == h {
		return nil
	}
	s.releaseTargets()
	scene, err := r.CreateTexture(w, h, gputypes.TextureFormatRGBA8Unorm)
	if err != nil {
		return err
	}
	depth, err := r.CreateTexture(w, h, gputypes.TextureFormatDepth24Plus)
	if err != nil {
		scene.Destroy()
		return err
	}
	s.sceneTex, s.depthTex = scene, depth
	return nil
}

// ========================================================================
// Rendering
// ========================================================================

// Render draws the children in their current order. With a filter shader
// they are drawn into an offscreen texture which is then composited
// through the filter material.
func (s *Screen) Render(r render.Renderer) error {
	if !s.enabled {
		return nil
	}
	s.viewport[0], s.viewport[1] = r.Viewport()
	w, h := s.Extent()
	r.SetOrthoMode(w, h)

	if s.filter == nil {
		return s.drawChildren(r)
	}
	if err := s.ensureTargets(r); err != nil {
		return fmt.Errorf("screen: filter targets: %w", err)
	}
	if err := r.BeginTarget(s.sceneTex); err != nil {
		return err
	}
	r.ClearScreen()
	drawErr := s.drawChildren(r)
	if err := r.EndTarget(); err != nil {
		return errors.Join(drawErr, err)
	}
	return errors.Join(drawErr, r.DrawFilter(s.filter, s.sceneTex, s.depthTex))
}

func (s *Screen) drawChildren(r render.Renderer) error {
	if !s.root.Visible {
		return nil
	}
	origin := s.offset.Add(s.root.Position)
	var errs []error
	for _, n := range s.children {
		if !n.AsEntity().Visible {
			continue
		}
		if err := n.Render(r, origin, s.root.Color); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ========================================================================
// Input
// ========================================================================

// Focus returns the child receiving key events, or nil.
func (s *Screen) Focus() Node { return s.focus }

// SetFocus gives n the key focus. n need not be a child.
func (s *Screen) SetFocus(n Node) { s.focus = n }

// HandleInputEvent routes an input event. Pointer events go to the child
// under the pointer, and a press moves the focus to it. Key events go to
// the focused child. It reports whether a child handled the event.
func (s *Screen) HandleInputEvent(ev input.InputEvent) bool {
	if !s.enabled {
		return false
	}
	switch e := ev.(type) {
	case input.PointerEvent:
		p := s.FromScreen(e.Position)
		hit := s.EntityAt(p.X, p.Y)
		if e.Type == input.MouseDown {
			s.focus = hit
		}
		return deliver(hit, ev, p)
	case input.KeyEvent:
		return deliver(s.focus, ev, stage.Vector2{})
	}
	return false
}

func deliver(n Node, ev input.InputEvent, p stage.Vector2) bool {
	if n == nil || !n.AsEntity().Enabled {
		return false
	}
	h, ok := n.(InputHandler)
	if !ok {
		return false
	}
	if _, isKey := ev.(input.KeyEvent); isKey {
		return h.HandleInput(ev, p)
	}
	return h.HandleInput(ev, p.Sub(n.AsEntity().Position))
}

// HandleEvent reacts to window events: a resize updates the viewport and
// a focus loss clears the key focus. Input events are routed as by
// HandleInputEvent.
func (s *Screen) HandleEvent(ev input.Event) {
	switch e := ev.(type) {
	case input.ResizeEvent:
		s.SetViewport(e.Width, e.Height)
	case input.FocusEvent:
		if !e.Focused {
			s.focus = nil
		}
	case input.InputEvent:
		s.HandleInputEvent(e)
	}
}

// Shutdown disables the screen, drops its children and focus and releases
// the filter textures.
func (s *Screen) Shutdown() {
	s.enabled = false
	s.children = nil
	s.focus = nil
	s.filter = nil
	s.releaseTargets()
}

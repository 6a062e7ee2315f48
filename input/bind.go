package input

import (
	"sync"
	"time"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/stage"
)

// Clock returns the current engine time.
type Clock func() time.Duration

// pointerState tracks the last cursor position and pressed button so that
// motion and wheel events can carry them.
type pointerState struct {
	mu     sync.Mutex
	pos    stage.Vector2
	button gpucontext.MouseButton
}

func (p *pointerState) move(x, y float64) stage.Vector2 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pos = stage.V2(float32(x), float32(y))
	return p.pos
}

func (p *pointerState) press(b gpucontext.MouseButton, x, y float64) stage.Vector2 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pos = stage.V2(float32(x), float32(y))
	p.button = b
	return p.pos
}

func (p *pointerState) snapshot() (stage.Vector2, gpucontext.MouseButton) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pos, p.button
}

// Bind registers callbacks on src and returns a dispatcher that publishes
// them as typed events. Scrolling up emits MouseWheelUp, scrolling down
// MouseWheelDown; horizontal scrolling is ignored. A nil clock stamps
// events with the time elapsed since Bind was called.
func Bind(src gpucontext.EventSource, clock Clock) *Dispatcher {
	if clock == nil {
		start := time.Now()
		clock = func() time.Duration { return time.Since(start) }
	}
	d := NewDispatcher()
	var ptr pointerState

	src.OnKeyPress(func(k gpucontext.Key, m gpucontext.Modifiers) {
		d.Dispatch(KeyEvent{Type: KeyDown, Key: k, Char: KeyRune(k, m), Mods: m, Timestamp: clock()})
	})
	src.OnKeyRelease(func(k gpucontext.Key, m gpucontext.Modifiers) {
		d.Dispatch(KeyEvent{Type: KeyUp, Key: k, Char: KeyRune(k, m), Mods: m, Timestamp: clock()})
	})
	src.OnMouseMove(func(x, y float64) {
		pos := ptr.move(x, y)
		_, b := ptr.snapshot()
		d.Dispatch(PointerEvent{Type: MouseMove, Position: pos, Button: b, Timestamp: clock()})
	})
	src.OnMousePress(func(b gpucontext.MouseButton, x, y float64) {
		pos := ptr.press(b, x, y)
		d.Dispatch(PointerEvent{Type: MouseDown, Position: pos, Button: b, Timestamp: clock()})
	})
	src.OnMouseRelease(func(b gpucontext.MouseButton, x, y float64) {
		pos := ptr.press(b, x, y)
		d.Dispatch(PointerEvent{Type: MouseUp, Position: pos, Button: b, Timestamp: clock()})
	})
	src.OnScroll(func(_, dy float64) {
		if dy == 0 {
			return
		}
		code := MouseWheelDown
		if dy > 0 {
			code = MouseWheelUp
		}
		pos, b := ptr.snapshot()
		d.Dispatch(PointerEvent{Type: code, Position: pos, Button: b, Timestamp: clock()})
	})
	src.OnResize(func(w, h int) {
		d.Dispatch(ResizeEvent{Width: w, Height: h})
	})
	src.OnFocus(func(focused bool) {
		d.Dispatch(FocusEvent{Focused: focused})
	})
	return d
}

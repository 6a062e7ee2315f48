package input

import (
	"fmt"
	"time"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/stage"
)

// Code identifies the kind of an input event.
type Code uint8

const (
	MouseDown Code = iota
	MouseMove
	MouseUp
	MouseWheelUp
	MouseWheelDown
	KeyDown
	KeyUp
)

// AllCodes lists every input code in declaration order.
var AllCodes = []Code{MouseDown, MouseMove, MouseUp, MouseWheelUp, MouseWheelDown, KeyDown, KeyUp}

var codeNames = [...]string{
	MouseDown:      "MouseDown",
	MouseMove:      "MouseMove",
	MouseUp:        "MouseUp",
	MouseWheelUp:   "MouseWheelUp",
	MouseWheelDown: "MouseWheelDown",
	KeyDown:        "KeyDown",
	KeyUp:          "KeyUp",
}

func (c Code) String() string {
	if int(c) < len(codeNames) {
		return codeNames[c]
	}
	return fmt.Sprintf("Code(%d)", uint8(c))
}

// IsKey reports whether c is a keyboard code.
func (c Code) IsKey() bool { return c == KeyDown || c == KeyUp }

// Event is the closed set of events delivered by a Dispatcher.
type Event interface {
	event()
}

// InputEvent is an Event that carries an input code.
type InputEvent interface {
	Event
	Code() Code
}

// KeyEvent is a key press or release.
type KeyEvent struct {
	Type      Code
	Key       gpucontext.Key
	Char      rune
	Mods      gpucontext.Modifiers
	Timestamp time.Duration
}

// PointerEvent is a mouse button, motion or wheel event.
// Position is in window pixels.
type PointerEvent struct {
	Type      Code
	Position  stage.Vector2
	Button    gpucontext.MouseButton
	Timestamp time.Duration
}

// ResizeEvent reports a new framebuffer size.
type ResizeEvent struct {
	Width, Height int
}

// FocusEvent reports a window focus change.
type FocusEvent struct {
	Focused bool
}

func (KeyEvent) event()     {}
func (PointerEvent) event() {}
func (ResizeEvent) event()  {}
func (FocusEvent) event()   {}

func (e KeyEvent) Code() Code     { return e.Type }
func (e PointerEvent) Code() Code { return e.Type }

// Clone rebuilds an input event the way the service relay forwards it.
// Key events keep only the code, key, character and timestamp. Pointer
// events keep only the code, position, timestamp and button. Other events
// are values and are returned as they are.
func Clone(ev Event) Event {
	switch e := ev.(type) {
	case KeyEvent:
		return KeyEvent{Type: e.Type, Key: e.Key, Char: e.Char, Timestamp: e.Timestamp}
	case PointerEvent:
		return PointerEvent{Type: e.Type, Position: e.Position, Timestamp: e.Timestamp, Button: e.Button}
	default:
		return ev
	}
}

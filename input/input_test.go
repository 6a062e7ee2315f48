package input

import (
	"sync"
	"testing"
	"time"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/stage"
)

// fakeSource records the callbacks registered by Bind so tests can fire them.
type fakeSource struct {
	keyPress   func(gpucontext.Key, gpucontext.Modifiers)
	keyRelease func(gpucontext.Key, gpucontext.Modifiers)
	move       func(x, y float64)
	press      func(gpucontext.MouseButton, float64, float64)
	release    func(gpucontext.MouseButton, float64, float64)
	scroll     func(dx, dy float64)
	resize     func(w, h int)
	focus      func(bool)
}

func (f *fakeSource) OnKeyPress(fn func(gpucontext.Key, gpucontext.Modifiers))   { f.keyPress = fn }
func (f *fakeSource) OnKeyRelease(fn func(gpucontext.Key, gpucontext.Modifiers)) { f.keyRelease = fn }
func (f *fakeSource) OnTextInput(func(string))                                   {}
func (f *fakeSource) OnMouseMove(fn func(x, y float64))                          { f.move = fn }
func (f *fakeSource) OnMousePress(fn func(gpucontext.MouseButton, float64, float64)) {
	f.press = fn
}
func (f *fakeSource) OnMouseRelease(fn func(gpucontext.MouseButton, float64, float64)) {
	f.release = fn
}
func (f *fakeSource) OnScroll(fn func(dx, dy float64))                 { f.scroll = fn }
func (f *fakeSource) OnResize(fn func(w, h int))                       { f.resize = fn }
func (f *fakeSource) OnFocus(fn func(bool))                            { f.focus = fn }
func (f *fakeSource) OnIMECompositionStart(func())                     {}
func (f *fakeSource) OnIMECompositionUpdate(func(gpucontext.IMEState)) {}
func (f *fakeSource) OnIMECompositionEnd(func(string))                 {}

var _ gpucontext.EventSource = (*fakeSource)(nil)

func TestClone_Key(t *testing.T) {
	in := KeyEvent{Type: KeyDown, Key: gpucontext.KeyA, Char: 'A', Mods: gpucontext.ModShift, Timestamp: 5 * time.Millisecond}
	got, ok := Clone(in).(KeyEvent)
	if !ok {
		t.Fatalf("Clone returned %T", Clone(in))
	}
	want := KeyEvent{Type: KeyDown, Key: gpucontext.KeyA, Char: 'A', Timestamp: 5 * time.Millisecond}
	if got != want {
		t.Errorf("Clone = %+v, want %+v", got, want)
	}
}

func TestClone_Pointer(t *testing.T) {
	in := PointerEvent{Type: MouseUp, Position: stage.V2(3, 4), Button: gpucontext.MouseButtonRight, Timestamp: time.Second}
	got := Clone(in)
	if got != Event(in) {
		t.Errorf("Clone = %+v, want %+v", got, in)
	}
}

func TestClone_Passthrough(t *testing.T) {
	in := ResizeEvent{Width: 640, Height: 480}
	if got := Clone(in); got != Event(in) {
		t.Errorf("Clone = %+v, want %+v", got, in)
	}
}

func TestDispatcher_OrderAndFilter(t *testing.T) {
	d := NewDispatcher()
	var got []string
	d.Subscribe(func(Event) { got = append(got, "all") })
	d.Subscribe(func(Event) { got = append(got, "keys") }, KeyDown, KeyUp)

	d.Dispatch(KeyEvent{Type: KeyDown})
	d.Dispatch(PointerEvent{Type: MouseMove})
	d.Dispatch(ResizeEvent{})

	want := []string{"all", "keys", "all", "all"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestDispatcher_Cancel(t *testing.T) {
	d := NewDispatcher()
	n := 0
	cancel := d.Subscribe(func(Event) { n++ })
	d.Dispatch(FocusEvent{})
	cancel()
	cancel()
	d.Dispatch(FocusEvent{})
	if n != 1 {
		t.Errorf("handler called %d times, want 1", n)
	}
	if d.Len() != 0 {
		t.Errorf("Len = %d, want 0", d.Len())
	}
}

func TestDispatcher_Concurrent(t *testing.T) {
	d := NewDispatcher()
	var mu sync.Mutex
	count := 0
	d.Subscribe(func(Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				d.Dispatch(PointerEvent{Type: MouseMove})
			}
		}()
	}
	wg.Wait()
	if count != 800 {
		t.Errorf("count = %d, want 800", count)
	}
}

func TestBind(t *testing.T) {
	src := &fakeSource{}
	now := time.Duration(0)
	d := Bind(src, func() time.Duration { return now })

	var events []Event
	d.Subscribe(func(ev Event) { events = append(events, ev) })

	now = time.Millisecond
	src.keyPress(gpucontext.KeyB, gpucontext.ModShift)
	src.press(gpucontext.MouseButtonLeft, 10, 20)
	src.move(11, 21)
	src.scroll(0, 1)
	src.scroll(0, -2)
	src.scroll(3, 0)
	src.release(gpucontext.MouseButtonLeft, 12, 22)
	src.keyRelease(gpucontext.KeyB, 0)
	src.resize(800, 600)
	src.focus(true)

	want := []Event{
		KeyEvent{Type: KeyDown, Key: gpucontext.KeyB, Char: 'B', Mods: gpucontext.ModShift, Timestamp: time.Millisecond},
		PointerEvent{Type: MouseDown, Position: stage.V2(10, 20), Button: gpucontext.MouseButtonLeft, Timestamp: time.Millisecond},
		PointerEvent{Type: MouseMove, Position: stage.V2(11, 21), Button: gpucontext.MouseButtonLeft, Timestamp: time.Millisecond},
		PointerEvent{Type: MouseWheelUp, Position: stage.V2(11, 21), Button: gpucontext.MouseButtonLeft, Timestamp: time.Millisecond},
		PointerEvent{Type: MouseWheelDown, Position: stage.V2(11, 21), Button: gpucontext.MouseButtonLeft, Timestamp: time.Millisecond},
		PointerEvent{Type: MouseUp, Position: stage.V2(12, 22), Button: gpucontext.MouseButtonLeft, Timestamp: time.Millisecond},
		KeyEvent{Type: KeyUp, Key: gpucontext.KeyB, Char: 'b', Timestamp: time.Millisecond},
		ResizeEvent{Width: 800, Height: 600},
		FocusEvent{Focused: true},
	}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d: %+v", len(events), len(want), events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, events[i], want[i])
		}
	}
}

func TestKeyRune(t *testing.T) {
	tests := []struct {
		key  gpucontext.Key
		mods gpucontext.Modifiers
		want rune
	}{
		{gpucontext.KeyA, 0, 'a'},
		{gpucontext.KeyZ, gpucontext.ModShift, 'Z'},
		{gpucontext.KeyQ, gpucontext.ModCapsLock, 'Q'},
		{gpucontext.KeyQ, gpucontext.ModCapsLock | gpucontext.ModShift, 'q'},
		{gpucontext.Key7, 0, '7'},
		{gpucontext.Key1, gpucontext.ModShift, '!'},
		{gpucontext.KeyNumpad3, 0, '3'},
		{gpucontext.KeySpace, 0, ' '},
		{gpucontext.KeySlash, gpucontext.ModShift, '?'},
		{gpucontext.KeyF1, 0, 0},
		{gpucontext.KeyEscape, 0, 0},
	}
	for _, tt := range tests {
		if got := KeyRune(tt.key, tt.mods); got != tt.want {
			t.Errorf("KeyRune(%v, %v) = %q, want %q", tt.key, tt.mods, got, tt.want)
		}
	}
}

func TestCode_String(t *testing.T) {
	if MouseWheelDown.String() != "MouseWheelDown" {
		t.Errorf("String = %q", MouseWheelDown.String())
	}
	if Code(99).String() != "Code(99)" {
		t.Errorf("String = %q", Code(99).String())
	}
	if !KeyUp.IsKey() || MouseUp.IsKey() {
		t.Error("IsKey mismatch")
	}
}

package services

import (
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/gogpu/stage/render"
)

func TestRegistry_Instance(t *testing.T) {
	r := NewRegistry()
	t.Cleanup(func() { _ = r.Reset() })

	a := r.Instance(MainContext)
	if a == nil || r.Instance(MainContext) != a {
		t.Fatal("Instance should create once and then reuse")
	}
	b := r.Instance(7)
	if b == a {
		t.Error("contexts share an instance")
	}
	if got := r.Contexts(); !slices.Equal(got, []ContextID{0, 7}) {
		t.Errorf("Contexts() = %v", got)
	}
}

func TestRegistry_Override(t *testing.T) {
	r := NewRegistry()
	t.Cleanup(func() { _ = r.Reset() })

	own := r.Instance(1)
	o := New()
	r.SetInstance(o)
	if r.Instance(1) != o || r.Instance(2) != o {
		t.Error("override not returned for every context")
	}
	if len(r.Contexts()) != 1 {
		t.Errorf("override created instances: %v", r.Contexts())
	}

	r.SetInstance(nil)
	if r.Instance(1) != own {
		t.Error("clearing the override did not restore lookup")
	}
}

func TestRegistry_RemoveAndReset(t *testing.T) {
	r := NewRegistry()
	c := r.Instance(3)
	if err := r.Remove(3); err != nil {
		t.Fatal(err)
	}
	if !c.closed {
		t.Error("Remove did not close the instance")
	}
	if err := r.Remove(3); err != nil {
		t.Errorf("removing an absent context: %v", err)
	}
	if r.Instance(3) == c {
		t.Error("removed instance returned again")
	}

	o := New()
	r.SetInstance(o)
	d := r.Instance(99)
	if err := r.Reset(); err != nil {
		t.Fatal(err)
	}
	if !o.closed || d != o {
		t.Error("Reset did not close the override")
	}
	if len(r.Contexts()) != 0 {
		t.Errorf("Contexts() after Reset = %v", r.Contexts())
	}
	if r.Instance(99) == o {
		t.Error("override survived Reset")
	}
	_ = r.Reset()
}

func TestRegistry_Options(t *testing.T) {
	rec := render.NewRecorder(8, 8)
	r := NewRegistry(WithRenderer(rec))
	t.Cleanup(func() { _ = r.Reset() })
	if r.Instance(1).Renderer() != rec {
		t.Error("registry options not applied")
	}
}

func TestRegistry_Concurrent(t *testing.T) {
	r := NewRegistry()
	t.Cleanup(func() { _ = r.Reset() })

	const workers = 8
	got := make([]*CoreServices, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Go(func() {
			got[i] = r.Instance(ContextID(i % 2))
		})
	}
	wg.Wait()

	for i, c := range got {
		if c != got[i%2] {
			t.Errorf("worker %d got a different instance for context %d", i, i%2)
		}
	}
	if len(r.Contexts()) != 2 {
		t.Errorf("Contexts() = %v, want 2 entries", r.Contexts())
	}
}

func TestDefaultRegistry(t *testing.T) {
	t.Cleanup(func() { _ = Default().Reset() })

	c := Instance(MainContext)
	if Default().Instance(MainContext) != c {
		t.Error("package Instance does not use the default registry")
	}
	o := New()
	SetInstance(o)
	if Instance(42) != o {
		t.Error("package SetInstance not applied")
	}
}

func TestRenderMutex(t *testing.T) {
	if RenderMutex() != RenderMutex() {
		t.Fatal("RenderMutex is not a single mutex")
	}

	func() {
		defer func() { _ = recover() }()
		WithRenderLock(func() { panic("gpu lost") })
	}()
	if !RenderMutex().TryLock() {
		t.Fatal("WithRenderLock did not release after a panic")
	}
	RenderMutex().Unlock()
}

func TestRenderMutex_SharedRenderer(t *testing.T) {
	rec := render.NewRecorder(32, 32)
	reg := NewRegistry(WithRenderer(rec))
	t.Cleanup(func() { _ = reg.Reset() })

	var wg sync.WaitGroup
	for id := range ContextID(4) {
		c := reg.Instance(id)
		wg.Go(func() {
			for range 25 {
				if err := c.Update(time.Millisecond); err != nil {
					t.Error(err)
					return
				}
			}
		})
	}
	wg.Wait()

	kinds := rec.Kinds()
	if len(kinds) != 4*25*3 {
		t.Fatalf("recorded %d ops, want %d", len(kinds), 4*25*3)
	}
	// Each frame's render phases stay contiguous.
	for i := 0; i < len(kinds); i += 3 {
		frame := kinds[i : i+3]
		want := []render.OpKind{render.OpPerspective, render.OpClear, render.OpOrtho}
		if !slices.Equal(frame, want) {
			t.Fatalf("frame at %d = %v, want %v", i, frame, want)
		}
	}
}

package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/stage"
)

// Phase names one step of Update.
type Phase string

// Update runs the phases in this order.
const (
	PhaseResources   Phase = "resources"
	PhaseTimers      Phase = "timers"
	PhaseTweens      Phase = "tweens"
	PhaseMaterials   Phase = "materials"
	PhaseSound       Phase = "sound"
	PhasePerspective Phase = "perspective"
	PhaseScene       Phase = "scene"
	PhaseClear       Phase = "clear"
	PhaseSceneRender Phase = "scene-render"
	PhaseScreens     Phase = "screens"
)

// ErrPhasePanic marks a phase that panicked.
var ErrPhasePanic = errors.New("services: phase panicked")

// PhaseError reports the failure of one Update phase.
type PhaseError struct {
	Phase Phase
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("services: %s: %v", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error { return e.Err }

type phase struct {
	name Phase
	run  func() error
}

// Update advances the context by elapsed. The phases run in a fixed order:
// resource reloads, timers, tweens, materials, sound, then, with a
// renderer, perspective projection, scene update, clear, scene render and
// finally the screens. Without a renderer the scene and the screens are
// still updated and nothing is drawn.
//
// A failing or panicking phase does not stop the others. Failures are
// logged at Warn and returned joined, each as a *PhaseError.
//
// The render phases run under RenderMutex, so Update must not be called
// while the caller holds it.
func (c *CoreServices) Update(elapsed time.Duration) error {
	if c.closed {
		return ErrClosed
	}
	c.ticks += elapsed

	var errs []error
	run := func(phases []phase) {
		for _, p := range phases {
			if err := runPhase(p); err != nil {
				stage.Logger().Warn("services: update phase failed", "phase", string(p.name), "err", err)
				errs = append(errs, err)
			}
		}
	}

	run([]phase{
		{PhaseResources, func() error {
			_, err := c.resources.Poll()
			return err
		}},
		{PhaseTimers, func() error { c.timers.Update(elapsed); return nil }},
		{PhaseTweens, func() error { c.tweens.Update(elapsed); return nil }},
		{PhaseMaterials, func() error { c.materials.Update(elapsed); return nil }},
		{PhaseSound, func() error { c.sound.Update(elapsed); return nil }},
	})

	r := c.renderer
	if r == nil {
		run([]phase{
			{PhaseScene, func() error { c.scenes.UpdateVirtual(elapsed); return nil }},
			{PhaseScreens, func() error { return c.screens.Update(elapsed, nil) }},
		})
		return errors.Join(errs...)
	}
	WithRenderLock(func() {
		run([]phase{
			{PhasePerspective, func() error { r.SetPerspectiveMode(); return nil }},
			{PhaseScene, func() error { c.scenes.UpdateVirtual(elapsed); return nil }},
			{PhaseClear, func() error { r.ClearScreen(); return nil }},
			{PhaseSceneRender, func() error { return c.scenes.Render(r) }},
			{PhaseScreens, func() error { return c.screens.Update(elapsed, r) }},
		})
	})
	return errors.Join(errs...)
}

func runPhase(p phase) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &PhaseError{Phase: p.name, Err: fmt.Errorf("%w: %v", ErrPhasePanic, v)}
		}
	}()
	if err := p.run(); err != nil {
		return &PhaseError{Phase: p.name, Err: err}
	}
	return nil
}

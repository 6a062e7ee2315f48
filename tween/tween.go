// Package tween animates float32 values over time.
package tween

import (
	"slices"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Ease maps elapsed time t in [0, d] to a value between b and b+c.
type Ease = ease.TweenFunc

// Easing functions.
var (
	Linear    Ease = ease.Linear
	QuadIn    Ease = ease.InQuad
	QuadOut   Ease = ease.OutQuad
	QuadInOut Ease = ease.InOutQuad
	SineInOut Ease = ease.InOutSine
	BounceOut Ease = ease.OutBounce
)

// Tween moves *target from its value at creation to a destination.
type Tween struct {
	g        *gween.Tween
	target   *float32
	to       float32
	duration time.Duration
	elapsed  time.Duration
	done     bool

	// OnComplete, if set, runs once when the tween reaches its end.
	OnComplete func()
}

// Done reports whether the tween finished or was stopped.
func (tw *Tween) Done() bool { return tw.done }

// Stop ends the tween where it is, without running OnComplete.
func (tw *Tween) Stop() { tw.done = true }

// Progress returns the linear progress in [0, 1].
func (tw *Tween) Progress() float32 {
	if tw.duration <= 0 {
		return 1
	}
	return min(float32(tw.elapsed)/float32(tw.duration), 1)
}

func (tw *Tween) advance(elapsed time.Duration) {
	tw.elapsed += elapsed
	finished := tw.duration <= 0
	if !finished {
		*tw.target, finished = tw.g.Update(float32(elapsed.Seconds()))
	}
	if finished {
		*tw.target = tw.to
		tw.done = true
		if tw.OnComplete != nil {
			tw.OnComplete()
		}
	}
}

// Manager owns running tweens. It is not safe for concurrent use.
type Manager struct {
	tweens []*Tween
}

// NewManager returns an empty manager.
func NewManager() *Manager { return &Manager{} }

// Add animates *target to to over duration. A nil ease means Linear.
func (m *Manager) Add(target *float32, to float32, duration time.Duration, fn Ease) *Tween {
	if fn == nil {
		fn = Linear
	}
	tw := &Tween{
		g:        gween.New(*target, to, float32(duration.Seconds()), fn),
		target:   target,
		to:       to,
		duration: duration,
	}
	m.tweens = append(m.tweens, tw)
	return tw
}

// Len returns the number of running tweens.
func (m *Manager) Len() int { return len(m.tweens) }

// Update advances every running tween by elapsed and drops finished ones.
func (m *Manager) Update(elapsed time.Duration) {
	running := m.tweens
	for _, tw := range running {
		if !tw.done {
			tw.advance(elapsed)
		}
	}
	m.tweens = slices.DeleteFunc(m.tweens, (*Tween).Done)
}

// Package timer runs callbacks after an interval, once or repeatedly,
// driven by the services frame clock.
package timer

import (
	"slices"
	"time"
)

// Timer is a scheduled callback.
type Timer struct {
	interval time.Duration
	repeat   bool
	fn       func()
	elapsed  time.Duration
	stopped  bool
}

// Stop cancels the timer. A stopped timer never fires again.
func (t *Timer) Stop() { t.stopped = true }

// Stopped reports whether the timer was stopped or has fired its only
// time.
func (t *Timer) Stopped() bool { return t.stopped }

// Manager owns timers. It is not safe for concurrent use; timers fire on
// the goroutine calling Update.
type Manager struct {
	timers []*Timer
}

// NewManager returns an empty manager.
func NewManager() *Manager { return &Manager{} }

// Add schedules fn to run after interval. A repeating timer fires every
// interval until stopped. Non-positive intervals fire on the next Update.
func (m *Manager) Add(interval time.Duration, repeat bool, fn func()) *Timer {
	t := &Timer{interval: max(interval, 0), repeat: repeat, fn: fn}
	m.timers = append(m.timers, t)
	return t
}

// Len returns the number of live timers.
func (m *Manager) Len() int { return len(m.timers) }

// Update advances every timer by elapsed and fires the due ones in the
// order they were added. A repeating timer fires at most once per Update
// and keeps the remainder of elapsed. Timers added by a callback start on
// the next Update.
func (m *Manager) Update(elapsed time.Duration) {
	due := m.timers
	for _, t := range due {
		if t.stopped {
			continue
		}
		t.elapsed += elapsed
		if t.elapsed < t.interval {
			continue
		}
		if t.repeat && t.interval > 0 {
			t.elapsed %= t.interval
		} else {
			t.elapsed = 0
		}
		if !t.repeat {
			t.stopped = true
		}
		if t.fn != nil {
			t.fn()
		}
	}
	m.timers = slices.DeleteFunc(m.timers, (*Timer).Stopped)
}

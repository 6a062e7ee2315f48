package input

import (
	"slices"
	"sync"
)

// Handler receives events from a Dispatcher.
type Handler func(Event)

type subscription struct {
	id    uint64
	fn    Handler
	codes []Code
}

func (s *subscription) wants(ev Event) bool {
	if len(s.codes) == 0 {
		return true
	}
	ie, ok := ev.(InputEvent)
	return ok && slices.Contains(s.codes, ie.Code())
}

// Dispatcher delivers events to an explicit list of subscribers in
// subscription order. It is safe for concurrent use; handlers run on the
// goroutine that calls Dispatch.
type Dispatcher struct {
	mu     sync.Mutex
	nextID uint64
	subs   []*subscription
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Subscribe registers fn. When codes are given, fn only receives input
// events with one of those codes; otherwise it receives every event.
// The returned function removes the subscription and may be called more
// than once.
func (d *Dispatcher) Subscribe(fn Handler, codes ...Code) (cancel func()) {
	d.mu.Lock()
	d.nextID++
	s := &subscription{id: d.nextID, fn: fn, codes: slices.Clone(codes)}
	d.subs = append(d.subs, s)
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.subs = slices.DeleteFunc(d.subs, func(o *subscription) bool { return o.id == s.id })
	}
}

// Dispatch delivers ev to every interested subscriber.
// Subscriptions added or cancelled by a handler take effect on the next
// Dispatch.
func (d *Dispatcher) Dispatch(ev Event) {
	d.mu.Lock()
	subs := slices.Clone(d.subs)
	d.mu.Unlock()

	for _, s := range subs {
		if s.wants(ev) {
			s.fn(ev)
		}
	}
}

// Len returns the number of subscriptions.
func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.subs)
}

package services

import (
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/stage"
	"github.com/gogpu/stage/input"
)

// Core is the platform side of a context: the window system's input
// stream. CoreServices holds it without owning it.
type Core interface {
	Input() *input.Dispatcher
}

type platformCore struct {
	in *input.Dispatcher
}

func (p *platformCore) Input() *input.Dispatcher { return p.in }

// NewCore adapts a gpucontext event source into a Core. A nil clock stamps
// events relative to the call.
func NewCore(src gpucontext.EventSource, clock input.Clock) Core {
	return &platformCore{in: input.Bind(src, clock)}
}

// SetCore binds core, replacing any previous one, and subscribes to every
// event of its input stream. A nil core only unbinds.
func (c *CoreServices) SetCore(core Core) {
	if c.coreCancel != nil {
		c.coreCancel()
		c.coreCancel = nil
	}
	c.core = core
	if core == nil {
		return
	}
	src := core.Input()
	c.coreCancel = src.Subscribe(func(ev input.Event) { c.HandleEvent(src, ev) })
	stage.Logger().Info("services: core bound")
}

// Core returns the bound core, or nil.
func (c *CoreServices) Core() Core { return c.core }

// Input returns the services-level dispatcher that carries relayed events.
func (c *CoreServices) Input() *input.Dispatcher { return c.input }

// HandleEvent relays ev to the services subscribers when it comes from the
// bound core's input stream. Input events are re-created by input.Clone, so
// key events carry only key, character and timestamp, and pointer events
// only position, timestamp and button. Events from any other source are
// dropped.
func (c *CoreServices) HandleEvent(src *input.Dispatcher, ev input.Event) {
	if c.core == nil || src != c.core.Input() {
		return
	}
	c.input.Dispatch(input.Clone(ev))
}

// Subscribe registers fn on the services dispatcher. See
// input.Dispatcher.Subscribe.
func (c *CoreServices) Subscribe(fn input.Handler, codes ...input.Code) (cancel func()) {
	return c.input.Subscribe(fn, codes...)
}

package services

import (
	"errors"
	"maps"
	"slices"
	"sync"
)

// ContextID names an engine context. Go has no goroutine identity, so
// callers pick the ID of the context they run in.
type ContextID uint64

// MainContext is the conventional ID of the rendering context.
const MainContext ContextID = 0

// Registry maps context IDs to CoreServices. It is safe for concurrent use.
type Registry struct {
	mu        sync.Mutex
	instances map[ContextID]*CoreServices
	override  *CoreServices
	opts      []Option
}

// NewRegistry returns an empty registry. opts are applied to every
// instance it creates.
func NewRegistry(opts ...Option) *Registry {
	return &Registry{instances: make(map[ContextID]*CoreServices), opts: opts}
}

// Instance returns the override when one is set. Otherwise it returns the
// instance for id, creating it on first use.
func (r *Registry) Instance(id ContextID) *CoreServices {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.override != nil {
		return r.override
	}
	c, ok := r.instances[id]
	if !ok {
		c = New(r.opts...)
		r.instances[id] = c
	}
	return c
}

// SetInstance makes c the instance returned for every ID. Passing nil
// restores per-context lookup.
func (r *Registry) SetInstance(c *CoreServices) {
	r.mu.Lock()
	r.override = c
	r.mu.Unlock()
}

// Contexts returns the IDs with a live instance, sorted.
func (r *Registry) Contexts() []ContextID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Sorted(maps.Keys(r.instances))
}

// Remove closes and forgets the instance for id.
func (r *Registry) Remove(id ContextID) error {
	r.mu.Lock()
	c, ok := r.instances[id]
	delete(r.instances, id)
	r.mu.Unlock()
	if !ok {
		return nil
	}
	return c.Close()
}

// Reset closes every instance, the override included, and empties the
// registry.
func (r *Registry) Reset() error {
	r.mu.Lock()
	all := slices.Collect(maps.Values(r.instances))
	if r.override != nil && !slices.Contains(all, r.override) {
		all = append(all, r.override)
	}
	clear(r.instances)
	r.override = nil
	r.mu.Unlock()

	var errs []error
	for _, c := range all {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry { return defaultRegistry }

// Instance returns Default().Instance(id).
func Instance(id ContextID) *CoreServices { return defaultRegistry.Instance(id) }

// SetInstance calls Default().SetInstance(c).
func SetInstance(c *CoreServices) { defaultRegistry.SetInstance(c) }

var (
	renderMu     *sync.Mutex
	renderMuOnce sync.Once
)

// RenderMutex returns the process-wide mutex that serializes renderer
// access across contexts. It is created on first use.
func RenderMutex() *sync.Mutex {
	renderMuOnce.Do(func() { renderMu = new(sync.Mutex) })
	return renderMu
}

// WithRenderLock runs fn holding RenderMutex. The mutex is released when fn
// returns or panics.
func WithRenderLock(fn func()) {
	mu := RenderMutex()
	mu.Lock()
	defer mu.Unlock()
	fn()
}

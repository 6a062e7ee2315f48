// Package services binds the engine managers of one context together.
//
// A CoreServices owns one instance each of the resource, config, material,
// screen, scene, timer, tween, sound and font managers. It relays input from
// a platform Core, installs modules into every collaborator that needs them,
// and drives the managers once per frame from Update.
//
// A CoreServices is confined to the goroutine that calls Update. Several
// contexts may live in one process; they are looked up through a Registry
// and serialize renderer access through RenderMutex.
package services

import (
	"errors"
	"sync"
	"time"

	"github.com/gogpu/stage"
	"github.com/gogpu/stage/config"
	"github.com/gogpu/stage/font"
	"github.com/gogpu/stage/input"
	"github.com/gogpu/stage/material"
	"github.com/gogpu/stage/module"
	"github.com/gogpu/stage/render"
	"github.com/gogpu/stage/resource"
	"github.com/gogpu/stage/scene"
	"github.com/gogpu/stage/screen"
	"github.com/gogpu/stage/sound"
	"github.com/gogpu/stage/timer"
	"github.com/gogpu/stage/tween"
)

// Services errors.
var (
	ErrClosed          = errors.New("services: closed")
	ErrNilModule       = errors.New("services: nil module")
	ErrDuplicateModule = errors.New("services: module already installed")
)

// Option configures a CoreServices.
type Option func(*options)

type options struct {
	renderer render.Renderer
	core     Core
	config   *config.Config
}

// WithRenderer sets the renderer used by Update.
func WithRenderer(r render.Renderer) Option {
	return func(o *options) { o.renderer = r }
}

// WithCore binds the platform core, as SetCore does.
func WithCore(c Core) Option {
	return func(o *options) { o.core = c }
}

// WithConfig shares cfg instead of creating an empty Config.
func WithConfig(cfg *config.Config) Option {
	return func(o *options) { o.config = cfg }
}

// CoreServices is the per-context hub of engine managers.
type CoreServices struct {
	resources *resource.Manager
	config    *config.Config
	materials *material.Manager
	screens   *screen.Manager
	scenes    *scene.Manager
	timers    *timer.Manager
	tweens    *tween.Manager
	sound     *sound.Manager
	fonts     *font.Manager

	input      *input.Dispatcher
	core       Core
	coreCancel func()
	renderer   render.Renderer

	modules []module.Module
	ticks   time.Duration

	closeOnce sync.Once
	closed    bool
}

// New creates a CoreServices with fresh managers.
func New(opts ...Option) *CoreServices {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.config == nil {
		o.config = config.New()
	}

	c := &CoreServices{
		resources: resource.NewManager(),
		config:    o.config,
		materials: material.NewManager(),
		screens:   screen.NewManager(),
		scenes:    scene.NewManager(),
		timers:    timer.NewManager(),
		tweens:    tween.NewManager(),
		sound:     sound.NewManager(),
		fonts:     font.NewManager(),
		input:     input.NewDispatcher(),
		renderer:  o.renderer,
	}
	c.input.Subscribe(c.screens.HandleEvent)
	if o.core != nil {
		c.SetCore(o.core)
	}
	stage.Logger().Info("services: created", "renderer", o.renderer != nil)
	return c
}

// Resources returns the resource manager.
func (c *CoreServices) Resources() *resource.Manager { return c.resources }

// Config returns the configuration store.
func (c *CoreServices) Config() *config.Config { return c.config }

// Materials returns the material manager.
func (c *CoreServices) Materials() *material.Manager { return c.materials }

// Screens returns the screen manager.
func (c *CoreServices) Screens() *screen.Manager { return c.screens }

// Scenes returns the scene manager.
func (c *CoreServices) Scenes() *scene.Manager { return c.scenes }

// Timers returns the timer manager.
func (c *CoreServices) Timers() *timer.Manager { return c.timers }

// Tweens returns the tween manager.
func (c *CoreServices) Tweens() *tween.Manager { return c.tweens }

// Sound returns the sound manager.
func (c *CoreServices) Sound() *sound.Manager { return c.sound }

// Fonts returns the font manager.
func (c *CoreServices) Fonts() *font.Manager { return c.fonts }

// NewScreen creates a screen that resolves filter materials through this
// context and adds it on top of the existing screens.
func (c *CoreServices) NewScreen() *screen.Screen {
	s := screen.New(c.materials)
	c.screens.Add(s)
	return s
}

// NewScene creates a scene and adds it after the existing scenes.
func (c *CoreServices) NewScene() *scene.Scene {
	s := scene.New()
	c.scenes.Add(s)
	return s
}

// Renderer returns the renderer, or nil.
func (c *CoreServices) Renderer() render.Renderer { return c.renderer }

// Ticks returns the total time passed to Update.
func (c *CoreServices) Ticks() time.Duration { return c.ticks }

// Close shuts the managers down and unbinds the core. It is safe to call
// more than once; only the first call reports errors.
func (c *CoreServices) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.closed = true
		if c.coreCancel != nil {
			c.coreCancel()
			c.coreCancel = nil
		}
		c.core = nil
		c.screens.Shutdown()
		c.sound.StopAll()
		c.fonts.Close()
		err = c.resources.Close()
		stage.Logger().Info("services: closed")
	})
	return err
}

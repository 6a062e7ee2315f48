package services

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gogpu/stage"
	"github.com/gogpu/stage/module"
	"github.com/gogpu/stage/render"
)

// InstallModule installs m into the context.
//
// A shader module is registered with the renderer, the resource manager
// and the material manager. Either all three accept it or none keeps it.
// Without a renderer the renderer registration is deferred to SetRenderer.
// A generic module is only recorded.
func (c *CoreServices) InstallModule(m module.Module) error {
	if c.closed {
		return ErrClosed
	}
	if m == nil {
		stage.Logger().Warn("services: ignoring nil module")
		return ErrNilModule
	}
	if c.installed(m.Name()) {
		return fmt.Errorf("%w: %s", ErrDuplicateModule, m.Name())
	}

	switch mod := m.(type) {
	case *module.Shader:
		if err := c.installShader(mod); err != nil {
			return err
		}
	case *module.Generic:
	default:
		stage.Logger().Warn("services: ignoring module of unknown kind",
			"name", m.Name(), "kind", m.Kind().String())
		return nil
	}
	c.modules = append(c.modules, m)
	stage.Logger().Info("services: module installed", "name", m.Name(), "kind", m.Kind().String())
	return nil
}

func (c *CoreServices) installed(name string) bool {
	return slices.ContainsFunc(c.modules, func(m module.Module) bool { return m.Name() == name })
}

func (c *CoreServices) installShader(s *module.Shader) error {
	if c.renderer != nil {
		if err := c.renderer.AddShaderModule(s); err != nil {
			return fmt.Errorf("services: install %s: renderer: %w", s.Name(), err)
		}
	}
	if err := c.resources.AddShaderModule(s); err != nil {
		if c.renderer != nil {
			c.renderer.RemoveShaderModule(s.Name())
		}
		return fmt.Errorf("services: install %s: resources: %w", s.Name(), err)
	}
	if err := c.materials.AddShaderModule(s); err != nil {
		c.resources.RemoveShaderModule(s.Name())
		if c.renderer != nil {
			c.renderer.RemoveShaderModule(s.Name())
		}
		return fmt.Errorf("services: install %s: materials: %w", s.Name(), err)
	}
	return nil
}

// Modules returns the installed modules in install order.
func (c *CoreServices) Modules() []module.Module { return slices.Clone(c.modules) }

// SetRenderer replaces the renderer and registers every installed shader
// module with it. Shaders the new renderer rejects are reported; the
// renderer is kept either way.
func (c *CoreServices) SetRenderer(r render.Renderer) error {
	c.renderer = r
	if r == nil {
		return nil
	}
	var errs []error
	for _, m := range c.modules {
		s, ok := m.(*module.Shader)
		if !ok {
			continue
		}
		if err := r.AddShaderModule(s); err != nil {
			errs = append(errs, fmt.Errorf("services: register %s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// Package material manages shader modules and the materials built on them.
package material

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/gogpu/stage/module"
)

// TimeParam is the parameter Update advances on every material, in seconds.
const TimeParam = "time"

// Material errors.
var (
	ErrUnknownShader   = errors.New("material: unknown shader module")
	ErrDuplicateShader = errors.New("material: shader module already registered")
	ErrUnknownMaterial = errors.New("material: unknown material")
)

// Material binds a shader module to a set of float parameters.
type Material struct {
	Name   string
	Shader *module.Shader
	Params map[string]float32
}

// Param returns a parameter value, or 0 when unset.
func (m *Material) Param(name string) float32 { return m.Params[name] }

// SetParam sets a parameter value.
func (m *Material) SetParam(name string, v float32) { m.Params[name] = v }

// Manager holds the shader modules usable by materials and the materials
// created from them. It is not safe for concurrent use.
type Manager struct {
	shaders   map[string]*module.Shader
	materials map[string]*Material
	elapsed   time.Duration
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{
		shaders:   make(map[string]*module.Shader),
		materials: make(map[string]*Material),
	}
}

// AddShaderModule registers s under its name.
func (m *Manager) AddShaderModule(s *module.Shader) error {
	if _, ok := m.shaders[s.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateShader, s.Name())
	}
	m.shaders[s.Name()] = s
	return nil
}

// RemoveShaderModule unregisters the shader named name.
func (m *Manager) RemoveShaderModule(name string) {
	delete(m.shaders, name)
}

// ShaderModule returns the shader registered under name.
func (m *Manager) ShaderModule(name string) (*module.Shader, bool) {
	s, ok := m.shaders[name]
	return s, ok
}

// ShaderNames returns the registered shader names, sorted.
func (m *Manager) ShaderNames() []string {
	return slices.Sorted(maps.Keys(m.shaders))
}

// CreateMaterial creates or replaces the material name using the shader
// registered as shader.
func (m *Manager) CreateMaterial(name, shader string) (*Material, error) {
	s, ok := m.shaders[shader]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownShader, shader)
	}
	mat := &Material{Name: name, Shader: s, Params: map[string]float32{TimeParam: 0}}
	m.materials[name] = mat
	return mat, nil
}

// Material returns the material named name.
func (m *Manager) Material(name string) (*Material, error) {
	mat, ok := m.materials[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMaterial, name)
	}
	return mat, nil
}

// Update advances the shared clock and writes it to every material's
// TimeParam.
func (m *Manager) Update(elapsed time.Duration) {
	m.elapsed += elapsed
	secs := float32(m.elapsed.Seconds())
	for _, mat := range m.materials {
		mat.Params[TimeParam] = secs
	}
}

// Elapsed returns the accumulated update time.
func (m *Manager) Elapsed() time.Duration { return m.elapsed }

// Package module defines the units of functionality that can be installed
// into engine services.
//
// Modules form a closed set. Services switch over the concrete variants, so
// adding a variant here means adding a case there.
package module

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/naga"

	"github.com/gogpu/stage"
)

// Kind tags a module variant.
type Kind uint8

const (
	KindGeneric Kind = iota
	KindShader
)

func (k Kind) String() string {
	switch k {
	case KindGeneric:
		return "generic"
	case KindShader:
		return "shader"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Module is an installable unit. Implementations are limited to this
// package.
type Module interface {
	Name() string
	Kind() Kind
	sealed()
}

// Generic is a module with no special registration.
type Generic struct {
	ModuleName string
}

// NewGeneric returns a generic module.
func NewGeneric(name string) *Generic { return &Generic{ModuleName: name} }

func (g *Generic) Name() string { return g.ModuleName }
func (g *Generic) Kind() Kind   { return KindGeneric }
func (*Generic) sealed()        {}

// ErrEmptyShader is returned when compiling a shader module without source.
var ErrEmptyShader = errors.New("module: shader has no source")

// Shader is a WGSL shader module. Installing it registers it with the
// renderer, the resource manager and the material manager at once.
type Shader struct {
	ShaderName string
	Source     string
	Options    naga.CompileOptions

	once  sync.Once
	spirv []uint32
	err   error
}

// NewShader returns a shader module compiled with naga's default options.
func NewShader(name, wgsl string) *Shader {
	return &Shader{ShaderName: name, Source: wgsl, Options: naga.DefaultOptions()}
}

func (s *Shader) Name() string { return s.ShaderName }
func (s *Shader) Kind() Kind   { return KindShader }
func (*Shader) sealed()        {}

// SPIRV compiles the WGSL source once and returns the SPIR-V words.
// The result, including any error, is cached.
func (s *Shader) SPIRV() ([]uint32, error) {
	s.once.Do(func() {
		if s.Source == "" {
			s.err = fmt.Errorf("%w: %s", ErrEmptyShader, s.ShaderName)
			return
		}
		code, err := naga.CompileWithOptions(s.Source, s.Options)
		if err != nil {
			s.err = fmt.Errorf("module: compile %s: %w", s.ShaderName, err)
			return
		}
		s.spirv = bytesToWords(code)
		stage.Logger().Debug("module: compiled shader", "name", s.ShaderName, "words", len(s.spirv))
	})
	return s.spirv, s.err
}

// bytesToWords reinterprets SPIR-V bytes as little-endian words.
func bytesToWords(b []byte) []uint32 {
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = uint32(b[i*4]) |
			uint32(b[i*4+1])<<8 |
			uint32(b[i*4+2])<<16 |
			uint32(b[i*4+3])<<24
	}
	return words
}

// Package font registers TrueType and OpenType fonts by name and reports
// their metrics.
//
// Faces are parsed twice: go-text/typesetting provides the description
// and glyph coverage, golang.org/x/image sizes them for layout.
package font

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	gotext "github.com/go-text/typesetting/font"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/stage"
	"github.com/gogpu/stage/cache"
)

// faceCacheSize bounds the number of sized faces kept open.
const faceCacheSize = 32

// Font errors.
var (
	ErrUnknownFont = errors.New("font: unknown font")
	ErrInvalidSize = errors.New("font: size must be positive")
)

// Font is a parsed font file.
type Font struct {
	Name   string
	Family string
	Upem   uint16

	face *gotext.Font
	sfnt *opentype.Font
}

// HasGlyph reports whether the font maps r to a glyph.
func (f *Font) HasGlyph(r rune) bool {
	_, ok := f.face.NominalGlyph(r)
	return ok
}

// GlyphCount returns the number of glyphs in the font.
func (f *Font) GlyphCount() int { return f.sfnt.NumGlyphs() }

// FullName returns the full font name from the name table, or "".
func (f *Font) FullName() string {
	var buf sfnt.Buffer
	name, err := f.sfnt.Name(&buf, sfnt.NameIDFull)
	if err != nil {
		return ""
	}
	return name
}

// Metrics are vertical font metrics in pixels at a given size.
type Metrics struct {
	Ascent     float32
	Descent    float32
	LineHeight float32
}

type faceKey struct {
	name string
	size float32
}

// Manager holds registered fonts. It is safe for concurrent use.
type Manager struct {
	mu    sync.RWMutex
	fonts map[string]*Font

	// faceMu serializes use of cached faces, which are not safe for
	// concurrent use.
	faceMu sync.Mutex
	faces  *cache.LRU[faceKey, xfont.Face]
}

// NewManager returns an empty manager.
func NewManager() *Manager {
	return &Manager{
		fonts: make(map[string]*Font),
		faces: cache.New(faceCacheSize, func(_ faceKey, f xfont.Face) { _ = f.Close() }),
	}
}

// Register parses ttf and stores it under name, replacing any font of the
// same name.
func (m *Manager) Register(name string, ttf []byte) (*Font, error) {
	face, err := gotext.ParseTTF(bytes.NewReader(ttf))
	if err != nil {
		return nil, fmt.Errorf("font: parse %s: %w", name, err)
	}
	sf, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("font: parse %s: %w", name, err)
	}
	f := &Font{
		Name:   name,
		Family: face.Describe().Family,
		Upem:   face.Upem(),
		face:   face.Font,
		sfnt:   sf,
	}

	m.mu.Lock()
	m.fonts[name] = f
	m.mu.Unlock()

	m.faceMu.Lock()
	m.faces.DeleteFunc(func(k faceKey, _ xfont.Face) bool { return k.name == name })
	m.faceMu.Unlock()
	stage.Logger().Info("font: registered", "name", name, "family", f.Family, "glyphs", f.GlyphCount())
	return f, nil
}

// Font returns the font registered under name.
func (m *Manager) Font(name string) (*Font, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.fonts[name]
	return f, ok
}

// Names returns the registered names, sorted.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.fonts))
}

// Metrics returns the metrics of the named font at size pixels per em.
func (m *Manager) Metrics(name string, size float32) (Metrics, error) {
	var out Metrics
	err := m.withFace(name, size, func(face xfont.Face) {
		fm := face.Metrics()
		out = Metrics{
			Ascent:     fixedToFloat32(fm.Ascent),
			Descent:    fixedToFloat32(fm.Descent),
			LineHeight: fixedToFloat32(fm.Height),
		}
	})
	return out, err
}

// Measure returns the advance width of s in pixels.
func (m *Manager) Measure(name string, size float32, s string) (float32, error) {
	var w float32
	err := m.withFace(name, size, func(face xfont.Face) {
		w = fixedToFloat32(xfont.MeasureString(face, s))
	})
	return w, err
}

func (m *Manager) withFace(name string, size float32, fn func(xfont.Face)) error {
	if !(size > 0) {
		return fmt.Errorf("%w: %v", ErrInvalidSize, size)
	}
	f, ok := m.Font(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFont, name)
	}
	m.faceMu.Lock()
	defer m.faceMu.Unlock()
	face, err := m.faces.GetOrCreate(faceKey{name, size}, func() (xfont.Face, error) {
		return opentype.NewFace(f.sfnt, &opentype.FaceOptions{
			Size:    float64(size),
			DPI:     72,
			Hinting: xfont.HintingNone,
		})
	})
	if err != nil {
		return fmt.Errorf("font: face %s: %w", name, err)
	}
	fn(face)
	return nil
}

// CachedFaces returns the number of sized faces kept open.
func (m *Manager) CachedFaces() int { return m.faces.Len() }

// Close releases every cached face. Registered fonts stay usable.
func (m *Manager) Close() {
	m.faceMu.Lock()
	defer m.faceMu.Unlock()
	m.faces.Clear()
}

func fixedToFloat32(x fixed.Int26_6) float32 {
	return float32(x) / 64
}

// Package config is a namespaced key/value store for engine settings.
//
// Values are either strings or numbers. On disk a Config is a TOML document
// with one table per namespace:
//
//	[video]
//	width = 1280
//	title = "stage"
package config

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/stage"
)

// ErrNotTable is returned when a top-level TOML key is not a table.
var ErrNotTable = errors.New("config: namespace is not a table")

type value struct {
	str    string
	num    float64
	number bool
}

// Config is safe for concurrent use. The zero value is empty and ready.
type Config struct {
	mu   sync.RWMutex
	data map[string]map[string]value
}

// New returns an empty Config.
func New() *Config { return &Config{} }

func (c *Config) set(ns, key string, v value) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil {
		c.data = make(map[string]map[string]value)
	}
	t := c.data[ns]
	if t == nil {
		t = make(map[string]value)
		c.data[ns] = t
	}
	t[key] = v
}

func (c *Config) get(ns, key string) (value, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.data[ns][key]
	return v, ok
}

// SetString stores a string value.
func (c *Config) SetString(ns, key, s string) { c.set(ns, key, value{str: s}) }

// SetNumber stores a numeric value.
func (c *Config) SetNumber(ns, key string, n float64) { c.set(ns, key, value{num: n, number: true}) }

// String returns the value under key. Numbers are formatted.
// Missing keys yield "".
func (c *Config) String(ns, key string) string {
	v, ok := c.get(ns, key)
	switch {
	case !ok:
		return ""
	case v.number:
		return fmt.Sprint(v.num)
	default:
		return v.str
	}
}

// Number returns the numeric value under key, or 0 when it is missing or
// holds a string.
func (c *Config) Number(ns, key string) float64 {
	v, ok := c.get(ns, key)
	if !ok || !v.number {
		return 0
	}
	return v.num
}

// Has reports whether key is set in ns.
func (c *Config) Has(ns, key string) bool {
	_, ok := c.get(ns, key)
	return ok
}

// Delete removes key from ns.
func (c *Config) Delete(ns, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data[ns], key)
	if len(c.data[ns]) == 0 {
		delete(c.data, ns)
	}
}

// Namespaces returns the namespace names, sorted.
func (c *Config) Namespaces() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Sorted(maps.Keys(c.data))
}

// Keys returns the keys of ns, sorted.
func (c *Config) Keys(ns string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Sorted(maps.Keys(c.data[ns]))
}

// ============================================================================
// TOML
// ============================================================================

// Decode merges a TOML document into c. Existing keys are overwritten.
func (c *Config) Decode(r io.Reader) error {
	var doc map[string]any
	if err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return fmt.Errorf("config: decode: %w", err)
	}
	for _, ns := range slices.Sorted(maps.Keys(doc)) {
		table, ok := doc[ns].(map[string]any)
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotTable, ns)
		}
		c.merge(ns, table)
	}
	return nil
}

// DecodeNamespace merges a flat TOML document into ns.
func (c *Config) DecodeNamespace(ns string, r io.Reader) error {
	var table map[string]any
	if err := toml.NewDecoder(r).Decode(&table); err != nil {
		return fmt.Errorf("config: decode %s: %w", ns, err)
	}
	c.merge(ns, table)
	return nil
}

func (c *Config) merge(ns string, table map[string]any) {
	for key, raw := range table {
		switch v := raw.(type) {
		case string:
			c.SetString(ns, key, v)
		case int64:
			c.SetNumber(ns, key, float64(v))
		case float64:
			c.SetNumber(ns, key, v)
		case bool:
			n := 0.0
			if v {
				n = 1
			}
			c.SetNumber(ns, key, n)
		default:
			stage.Logger().Warn("config: unsupported value ignored",
				"namespace", ns, "key", key, "type", fmt.Sprintf("%T", raw))
		}
	}
}

// Encode writes c as a TOML document.
func (c *Config) Encode(w io.Writer) error {
	c.mu.RLock()
	doc := make(map[string]map[string]any, len(c.data))
	for ns, t := range c.data {
		table := make(map[string]any, len(t))
		for key, v := range t {
			if v.number {
				table[key] = v.num
			} else {
				table[key] = v.str
			}
		}
		doc[ns] = table
	}
	c.mu.RUnlock()

	if err := toml.NewEncoder(w).Encode(doc); err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	return nil
}

// Load merges the TOML file at path into c.
func (c *Config) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	return c.Decode(f)
}

// LoadNamespace merges the flat TOML file at path into ns.
func (c *Config) LoadNamespace(ns, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	return c.DecodeNamespace(ns, f)
}

// Save writes c to path as TOML.
func (c *Config) Save(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("config: %w", cerr)
		}
	}()
	return c.Encode(f)
}

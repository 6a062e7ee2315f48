// Package resource keeps named meshes and shader modules for a services
// context and reloads mesh files that change on disk.
package resource

import (
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/text/cases"

	"github.com/gogpu/stage"
	"github.com/gogpu/stage/mesh"
	"github.com/gogpu/stage/module"
)

// MeshExt is the file extension of mesh files.
const MeshExt = ".mesh"

// Resource errors.
var (
	ErrDuplicate = errors.New("resource: name already registered")
	ErrClosed    = errors.New("resource: manager closed")
)

type meshEntry struct {
	name string
	mesh *mesh.Mesh
	path string // empty for meshes not loaded from a file
}

// Manager maps case-insensitive names to resources. Lookups are safe for
// concurrent use. Reloaded meshes are modified only inside Poll, which
// must run on the goroutine that renders them.
type Manager struct {
	mu      sync.Mutex
	fold    cases.Caser
	meshes  map[string]*meshEntry
	shaders map[string]*module.Shader

	watcher *fsnotify.Watcher
	pending map[string]struct{}
	done    chan struct{}
	wg      sync.WaitGroup
	closed  bool
}

// NewManager returns an empty manager.
func NewManager() *Manager {
	return &Manager{
		fold:    cases.Fold(),
		meshes:  make(map[string]*meshEntry),
		shaders: make(map[string]*module.Shader),
		pending: make(map[string]struct{}),
	}
}

// key folds name. The caller holds mu; a Caser is not safe for
// concurrent use.
func (m *Manager) key(name string) string { return m.fold.String(name) }

// ========================================================================
// Meshes
// ========================================================================

// AddMesh registers msh under name.
func (m *Manager) AddMesh(name string, msh *mesh.Mesh) error {
	return m.addMesh(&meshEntry{name: name, mesh: msh})
}

func (m *Manager) addMesh(e *meshEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := m.key(e.name)
	if _, ok := m.meshes[k]; ok {
		return fmt.Errorf("%w: mesh %s", ErrDuplicate, e.name)
	}
	m.meshes[k] = e
	return nil
}

// LoadMesh loads the mesh file at path and registers it under the file
// name without extension. Watched directories reload it when it changes.
func (m *Manager) LoadMesh(path string) (*mesh.Mesh, error) {
	msh, err := mesh.Load(path)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resource: %w", err)
	}
	if err := m.addMesh(&meshEntry{name: name, mesh: msh, path: abs}); err != nil {
		return nil, err
	}
	stage.Logger().Info("resource: mesh loaded", "name", name, "path", abs)
	return msh, nil
}

// Mesh returns the mesh registered under name.
func (m *Manager) Mesh(name string) (*mesh.Mesh, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.meshes[m.key(name)]
	if !ok {
		return nil, false
	}
	return e.mesh, true
}

// RemoveMesh unregisters name.
func (m *Manager) RemoveMesh(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.meshes, m.key(name))
}

// MeshNames returns the registered mesh names as given, sorted.
func (m *Manager) MeshNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.meshes))
	for _, e := range m.meshes {
		names = append(names, e.name)
	}
	slices.Sort(names)
	return names
}

// ========================================================================
// Shader modules
// ========================================================================

// AddShaderModule registers s under its name.
func (m *Manager) AddShaderModule(s *module.Shader) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := m.key(s.Name())
	if _, ok := m.shaders[k]; ok {
		return fmt.Errorf("%w: shader %s", ErrDuplicate, s.Name())
	}
	m.shaders[k] = s
	return nil
}

// RemoveShaderModule unregisters the shader named name.
func (m *Manager) RemoveShaderModule(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.shaders, m.key(name))
}

// ShaderModule returns the shader registered under name.
func (m *Manager) ShaderModule(name string) (*module.Shader, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.shaders[m.key(name)]
	return s, ok
}

// ========================================================================
// Watching
// ========================================================================

// Watch starts watching dir for changed mesh files. Changes are queued
// and applied by Poll.
func (m *Manager) Watch(dir string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if m.watcher == nil {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("resource: watch: %w", err)
		}
		m.watcher = w
		m.done = make(chan struct{})
		m.wg.Add(1)
		go m.loop(w)
	}
	if err := m.watcher.Add(dir); err != nil {
		return fmt.Errorf("resource: watch %s: %w", dir, err)
	}
	stage.Logger().Info("resource: watching", "dir", dir)
	return nil
}

func (m *Manager) loop(w *fsnotify.Watcher) {
	defer m.wg.Done()
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Ext(ev.Name) != MeshExt || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			m.mu.Lock()
			m.pending[abs] = struct{}{}
			m.mu.Unlock()
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			stage.Logger().Warn("resource: watcher error", "err", err)
		case <-m.done:
			return
		}
	}
}

// Pending returns the number of changed files waiting for Poll.
func (m *Manager) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Poll reloads registered meshes whose files changed since the last call
// and returns their names. A reloaded mesh keeps its identity; its
// contents are replaced and every attribute slot is marked dirty. Files
// that fail to load leave their mesh unchanged and are reported in err.
func (m *Manager) Poll() (reloaded []string, err error) {
	m.mu.Lock()
	paths := slices.Sorted(maps.Keys(m.pending))
	clear(m.pending)
	var targets []*meshEntry
	for _, e := range m.meshes {
		if e.path != "" && slices.Contains(paths, e.path) {
			targets = append(targets, e)
		}
	}
	m.mu.Unlock()

	slices.SortFunc(targets, func(a, b *meshEntry) int { return strings.Compare(a.name, b.name) })
	var errs []error
	for _, e := range targets {
		if lerr := e.mesh.LoadMesh(e.path); lerr != nil {
			stage.Logger().Warn("resource: reload failed", "name", e.name, "err", lerr)
			errs = append(errs, lerr)
			continue
		}
		reloaded = append(reloaded, e.name)
		stage.Logger().Info("resource: mesh reloaded", "name", e.name)
	}
	return reloaded, errors.Join(errs...)
}

// Close stops watching. The registered resources stay available.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	w := m.watcher
	m.mu.Unlock()

	if w == nil {
		return nil
	}
	close(m.done)
	err := w.Close()
	m.wg.Wait()
	return err
}

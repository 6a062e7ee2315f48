package resource

import (
	"errors"
	"io/fs"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/gogpu/stage/mesh"
	"github.com/gogpu/stage/module"
)

func writeBox(t *testing.T, path string, size float32) {
	t.Helper()
	m := mesh.New(mesh.QuadMesh)
	if err := m.CreateBox(size, size, size); err != nil {
		t.Fatal(err)
	}
	if err := m.SaveToFile(path); err != nil {
		t.Fatal(err)
	}
}

func TestManager_CaseInsensitive(t *testing.T) {
	m := NewManager()
	t.Cleanup(func() { _ = m.Close() })

	box := mesh.New(mesh.QuadMesh)
	if err := m.AddMesh("Crate", box); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"crate", "CRATE", "cRaTe"} {
		if got, ok := m.Mesh(name); !ok || got != box {
			t.Errorf("Mesh(%q) = %v, %v", name, got, ok)
		}
	}
	if err := m.AddMesh("CRATE", mesh.New(mesh.TriMesh)); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate: err = %v", err)
	}
	if got := m.MeshNames(); !slices.Equal(got, []string{"Crate"}) {
		t.Errorf("MeshNames() = %v", got)
	}
	m.RemoveMesh("crate")
	if _, ok := m.Mesh("Crate"); ok {
		t.Error("RemoveMesh failed")
	}
}

func TestManager_Shaders(t *testing.T) {
	m := NewManager()
	s := module.NewShader("Blur", "")
	if err := m.AddShaderModule(s); err != nil {
		t.Fatal(err)
	}
	if got, ok := m.ShaderModule("blur"); !ok || got != s {
		t.Error("ShaderModule lookup failed")
	}
	if err := m.AddShaderModule(module.NewShader("BLUR", "")); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate: err = %v", err)
	}
	m.RemoveShaderModule("bLuR")
	if _, ok := m.ShaderModule("Blur"); ok {
		t.Error("RemoveShaderModule failed")
	}
}

func TestManager_LoadMesh(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Box.mesh")
	writeBox(t, path, 2)

	m := NewManager()
	got, err := m.LoadMesh(path)
	if err != nil {
		t.Fatal(err)
	}
	if byName, ok := m.Mesh("box"); !ok || byName != got {
		t.Error("loaded mesh not registered under its file name")
	}
	if got.PolygonCount() != 6 {
		t.Errorf("PolygonCount() = %d", got.PolygonCount())
	}
	if _, err := m.LoadMesh(filepath.Join(dir, "none.mesh")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing: err = %v", err)
	}
}

func TestManager_WatchReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crate.mesh")
	writeBox(t, path, 2)

	m := NewManager()
	t.Cleanup(func() { _ = m.Close() })
	crate, err := m.LoadMesh(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, at := range mesh.AllArrays.Types() {
		crate.RebuildArray(at)
	}
	if err := m.Watch(dir); err != nil {
		t.Fatal(err)
	}

	writeBox(t, path, 6)
	deadline := time.Now().Add(5 * time.Second)
	for m.Pending() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("no change observed")
		}
		time.Sleep(10 * time.Millisecond)
	}

	reloaded, err := m.Poll()
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(reloaded, []string{"crate"}) {
		t.Errorf("reloaded = %v", reloaded)
	}
	if got, _ := m.Mesh("crate"); got != crate {
		t.Error("reload should keep the mesh identity")
	}
	if ext := crate.CalculateBBox(); ext.X != 6 {
		t.Errorf("reloaded extents = %v, want 6", ext)
	}
	if crate.Dirty()&mesh.AllArrays != mesh.AllArrays {
		t.Error("reload should mark every attribute dirty")
	}
	if again, _ := m.Poll(); len(again) != 0 {
		t.Errorf("second Poll reloaded %v", again)
	}
}

func TestManager_Close(t *testing.T) {
	m := NewManager()
	if err := m.Watch(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
	if err := m.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if err := m.Watch(t.TempDir()); !errors.Is(err, ErrClosed) {
		t.Errorf("Watch after Close: err = %v", err)
	}
}

package screen

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/gogpu/stage"
	"github.com/gogpu/stage/mesh"
	"github.com/gogpu/stage/render"
)

func checker(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			if (x+y)%2 == 0 {
				img.SetNRGBA(x, y, color.NRGBA{R: 255, A: 255})
			}
		}
	}
	return img
}

func TestNewImage(t *testing.T) {
	img, err := NewImage(64, 32)
	if err != nil {
		t.Fatal(err)
	}
	if img.ImageWidth() != 64 || img.ImageHeight() != 32 {
		t.Errorf("image size = %v x %v", img.ImageWidth(), img.ImageHeight())
	}
	if img.Width != 64 || img.Height != 32 {
		t.Errorf("entity size = %v x %v", img.Width, img.Height)
	}
	if _, err := NewImage(0, 10); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("empty image: err = %v", err)
	}
}

func TestNewImageFromFile(t *testing.T) {
	dir := t.TempDir()
	src := checker(6, 4)

	writers := map[string]func(*os.File) error{
		"checker.png": func(f *os.File) error { return png.Encode(f, src) },
		"checker.bmp": func(f *os.File) error { return bmp.Encode(f, src) },
	}
	for name, write := range writers {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			f, err := os.Create(path)
			if err != nil {
				t.Fatal(err)
			}
			if err := write(f); err != nil {
				t.Fatal(err)
			}
			if err := f.Close(); err != nil {
				t.Fatal(err)
			}

			img, err := NewImageFromFile(path)
			if err != nil {
				t.Fatalf("NewImageFromFile: %v", err)
			}
			if img.ImageWidth() != 6 || img.ImageHeight() != 4 {
				t.Errorf("size = %v x %v, want 6 x 4", img.ImageWidth(), img.ImageHeight())
			}
			if got := img.Pixels().NRGBAAt(0, 0); got.R != 255 || got.A != 255 {
				t.Errorf("pixel (0,0) = %v", got)
			}
		})
	}

	if _, err := NewImageFromFile(filepath.Join(dir, "missing.png")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: err = %v", err)
	}
}

func TestImage_SetImageCoordinates(t *testing.T) {
	img, err := NewImageFromImage(checker(100, 50))
	if err != nil {
		t.Fatal(err)
	}
	r := render.NewRecorder(1, 1)
	if err := img.Render(r, stage.Vector2{}, stage.White); err != nil {
		t.Fatal(err)
	}
	if img.Mesh.Dirty() != 0 {
		t.Fatal("render should leave the mesh clean")
	}

	if err := img.SetImageCoordinates(25, 10, 50, 25); err != nil {
		t.Fatal(err)
	}
	if !img.Mesh.IsDirty(mesh.TexCoordArray) || !img.Mesh.IsDirty(mesh.VertexArray) {
		t.Errorf("dirty = %v, want texcoord and vertex", img.Mesh.Dirty().Types())
	}
	if img.Width != 50 || img.Height != 25 {
		t.Errorf("entity size = %v x %v, want 50 x 25", img.Width, img.Height)
	}
	p, _ := img.Mesh.Polygon(0)
	want := []stage.Vector2{{X: 0.25, Y: 0.2}, {X: 0.75, Y: 0.2}, {X: 0.75, Y: 0.7}, {X: 0.25, Y: 0.7}}
	for i, v := range p.Vertices {
		if !v.TexCoord.Approx(want[i], 1e-6) {
			t.Errorf("vertex %d texcoord = %v, want %v", i, v.TexCoord, want[i])
		}
	}
	if got := img.Mesh.CalculateBBox(); !got.Approx(stage.V3(50, 25, 0), 1e-5) {
		t.Errorf("quad extents = %v", got)
	}

	if err := img.Render(r, stage.Vector2{}, stage.White); err != nil {
		t.Fatal(err)
	}
	if err := img.SetImageCoordinates(0, 0, 50, 25); err != nil {
		t.Fatal(err)
	}
	if img.Mesh.IsDirty(mesh.VertexArray) || !img.Mesh.IsDirty(mesh.TexCoordArray) {
		t.Error("same-size region should only dirty texcoords")
	}

	if err := img.SetImageCoordinates(0, 0, 0, 5); !errors.Is(err, ErrInvalidRect) {
		t.Errorf("empty region: err = %v", err)
	}
}

func TestImage_TextureCreatedOnce(t *testing.T) {
	img, _ := NewImage(8, 8)
	r := render.NewRecorder(1, 1)
	for range 3 {
		if err := img.Render(r, stage.Vector2{}, stage.White); err != nil {
			t.Fatal(err)
		}
	}
	ops := r.Ops()
	if len(ops) != 3 || ops[0].State.Texture == nil || ops[2].State.Texture != ops[0].State.Texture {
		t.Error("image should draw with one texture across frames")
	}
	img.Destroy()
}

func TestShape(t *testing.T) {
	c, err := NewCircle(20, 10, 1)
	if err != nil {
		t.Fatal(err)
	}
	if c.ShapeType() != Circle || c.Mesh.MeshType() != mesh.TriFanMesh {
		t.Errorf("circle = %v / %v", c.ShapeType(), c.Mesh.MeshType())
	}
	if got := c.Mesh.VertexCount(); got != mesh.MinSegments+2 {
		t.Errorf("clamped circle has %d vertices", got)
	}

	rect, err := NewRect(4, 2)
	if err != nil {
		t.Fatal(err)
	}
	m := rect.Mesh
	if err := rect.SetSize(8, 6); err != nil {
		t.Fatal(err)
	}
	if rect.Mesh != m {
		t.Error("SetSize should regenerate the mesh in place")
	}
	if got := m.CalculateBBox(); !got.Approx(stage.V3(8, 6, 0), 1e-5) {
		t.Errorf("resized extents = %v", got)
	}
	if err := rect.SetSize(-1, 2); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("negative size: err = %v", err)
	}
	if rect.Width != 8 || rect.Height != 6 {
		t.Error("failed SetSize changed the size")
	}
	if _, err := NewRect(0, 1); err == nil {
		t.Error("NewRect(0, 1) should fail")
	}
}

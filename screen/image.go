package screen

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"  // register GIF decoding
	_ "image/jpeg" // register JPEG decoding
	_ "image/png"  // register PNG decoding
	"os"

	"github.com/gogpu/gputypes"
	_ "golang.org/x/image/bmp" // register BMP decoding

	"github.com/gogpu/stage"
	"github.com/gogpu/stage/mesh"
	"github.com/gogpu/stage/render"
)

// ErrInvalidRect is returned by SetImageCoordinates for an empty rectangle.
var ErrInvalidRect = errors.New("screen: invalid image rectangle")

// Image is a rectangle showing a bitmap, or a region of one.
type Image struct {
	Shape

	pixels  *image.NRGBA
	texture render.Texture
}

// NewImage returns a w by h image with transparent pixels.
func NewImage(w, h int) (*Image, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}
	return newImage(image.NewNRGBA(image.Rect(0, 0, w, h)))
}

// NewImageFromImage returns an image showing a copy of src.
func NewImageFromImage(src image.Image) (*Image, error) {
	b := src.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, b.Dx(), b.Dy())
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return newImage(dst)
}

// NewImageFromFile decodes a PNG, JPEG, GIF or BMP file.
func NewImageFromFile(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("screen: open image: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("screen: decode image %s: %w", path, err)
	}
	return NewImageFromImage(src)
}

func newImage(px *image.NRGBA) (*Image, error) {
	s, err := NewRect(float32(px.Bounds().Dx()), float32(px.Bounds().Dy()))
	if err != nil {
		return nil, err
	}
	return &Image{Shape: *s, pixels: px}, nil
}

// Pixels returns the bitmap.
func (img *Image) Pixels() *image.NRGBA { return img.pixels }

// ImageWidth returns the bitmap width in pixels.
func (img *Image) ImageWidth() float32 { return float32(img.pixels.Bounds().Dx()) }

// ImageHeight returns the bitmap height in pixels.
func (img *Image) ImageHeight() float32 { return float32(img.pixels.Bounds().Dy()) }

// SetImageCoordinates shows the region (x, y, w, h) of the bitmap, in
// pixels, and resizes the entity to w by h. The texcoord slot is marked
// dirty, and the vertex slot too when the size changes.
func (img *Image) SetImageCoordinates(x, y, w, h float32) error {
	if !(w > 0) || !(h > 0) {
		return fmt.Errorf("%w: %gx%g", ErrInvalidRect, w, h)
	}
	p, err := img.Mesh.Polygon(0)
	if err != nil {
		return err
	}

	iw, ih := img.ImageWidth(), img.ImageHeight()
	u0, v0 := x/iw, y/ih
	u1, v1 := (x+w)/iw, (y+h)/ih
	uvs := [4]stage.Vector2{{X: u0, Y: v0}, {X: u1, Y: v0}, {X: u1, Y: v1}, {X: u0, Y: v1}}
	for i := range p.Vertices {
		p.Vertices[i].TexCoord = uvs[i]
	}
	img.Mesh.MarkDirty(mesh.TexCoordArray)

	if w != img.Width || h != img.Height {
		img.Width, img.Height = w, h
		hw, hh := w/2, h/2
		corners := [4]stage.Vector3{{X: -hw, Y: -hh}, {X: hw, Y: -hh}, {X: hw, Y: hh}, {X: -hw, Y: hh}}
		for i := range p.Vertices {
			p.Vertices[i].Position = corners[i]
		}
		img.Mesh.MarkDirty(mesh.VertexArray)
	}
	return nil
}

// Render draws the image, creating its texture on first use.
func (img *Image) Render(r render.Renderer, origin stage.Vector2, tint stage.Color) error {
	if img.texture == nil {
		b := img.pixels.Bounds()
		tex, err := r.CreateTexture(b.Dx(), b.Dy(), gputypes.TextureFormatRGBA8Unorm)
		if err != nil {
			return fmt.Errorf("screen: image texture: %w", err)
		}
		img.texture = tex
	}
	return img.draw(r, origin, tint, img.texture)
}

// Destroy releases the image texture.
func (img *Image) Destroy() {
	if img.texture != nil {
		img.texture.Destroy()
		img.texture = nil
	}
}

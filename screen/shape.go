package screen

import (
	"errors"
	"fmt"

	"github.com/gogpu/stage/mesh"
)

// ErrInvalidSize is returned for shapes with non-positive dimensions.
var ErrInvalidSize = errors.New("screen: invalid shape size")

// ShapeType selects the outline of a Shape.
type ShapeType uint8

const (
	Rect ShapeType = iota
	Circle
)

func (t ShapeType) String() string {
	if t == Circle {
		return "circle"
	}
	return "rect"
}

// Shape is an entity drawn from a generated mesh.
type Shape struct {
	Entity

	shapeType ShapeType
	segments  int
}

// NewRect returns a w by h rectangle.
func NewRect(w, h float32) (*Shape, error) {
	s := &Shape{Entity: *NewEntity(w, h), shapeType: Rect}
	if err := s.rebuild(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewCircle returns an ellipse inscribed in a w by h rectangle. segments
// below 3 are clamped to 3.
func NewCircle(w, h float32, segments int) (*Shape, error) {
	s := &Shape{Entity: *NewEntity(w, h), shapeType: Circle, segments: max(segments, mesh.MinSegments)}
	if err := s.rebuild(); err != nil {
		return nil, err
	}
	return s, nil
}

// ShapeType returns the outline type.
func (s *Shape) ShapeType() ShapeType { return s.shapeType }

// SetSize resizes the shape and regenerates its mesh.
func (s *Shape) SetSize(w, h float32) error {
	ow, oh := s.Width, s.Height
	s.Width, s.Height = w, h
	if err := s.rebuild(); err != nil {
		s.Width, s.Height = ow, oh
		return err
	}
	return nil
}

func (s *Shape) rebuild() error {
	if !(s.Width > 0) || !(s.Height > 0) {
		return fmt.Errorf("%w: %gx%g", ErrInvalidSize, s.Width, s.Height)
	}
	if s.Mesh == nil {
		s.Mesh = mesh.New(mesh.QuadMesh)
	}
	if s.shapeType == Rect {
		return s.Mesh.CreatePlane(s.Width, s.Height)
	}
	return s.Mesh.CreateEllipse(s.Width/2, s.Height/2, s.segments)
}

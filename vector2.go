package stage

import "github.com/chewxy/math32"

// Vector2 is a 2D position or extent in screen space.
type Vector2 struct {
	X, Y float32
}

// V2 is a convenience function to create a Vector2.
func V2(x, y float32) Vector2 {
	return Vector2{X: x, Y: y}
}

// Add returns v + w.
func (v Vector2) Add(w Vector2) Vector2 {
	return Vector2{X: v.X + w.X, Y: v.Y + w.Y}
}

// Sub returns v - w.
func (v Vector2) Sub(w Vector2) Vector2 {
	return Vector2{X: v.X - w.X, Y: v.Y - w.Y}
}

// Mul returns the vector scaled by s.
func (v Vector2) Mul(s float32) Vector2 {
	return Vector2{X: v.X * s, Y: v.Y * s}
}

// Length returns the Euclidean length of the vector.
func (v Vector2) Length() float32 {
	return math32.Hypot(v.X, v.Y)
}

// Approx reports whether both components are within eps of w.
func (v Vector2) Approx(w Vector2, eps float32) bool {
	return math32.Abs(v.X-w.X) <= eps && math32.Abs(v.Y-w.Y) <= eps
}

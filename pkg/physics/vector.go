// pkg/physics/vector.go
package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vector2D is a point in a body's orbital plane. X maps to world x and Y to
// world z; orbits are planar so world y is carried separately.
type Vector2D struct {
	X float64
	Y float64
}

// Add returns the sum of two vectors
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub returns the difference between two vectors
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{X: v.X - other.X, Y: v.Y - other.Y}
}

// Scale multiplies the vector by a scalar value
func (v Vector2D) Scale(factor float64) Vector2D {
	return Vector2D{X: v.X * factor, Y: v.Y * factor}
}

// Length returns the magnitude of the vector
func (v Vector2D) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Distance returns the distance between two vectors
func (v Vector2D) Distance(other Vector2D) float64 {
	return v.Sub(other).Length()
}

// To3D lifts an orbital-plane point into world space at height y.
func (v Vector2D) To3D(y float64) r3.Vec {
	return r3.Vec{X: v.X, Y: y, Z: v.Y}
}

// PlaneOf projects a world point onto the orbital plane, dropping y.
func PlaneOf(p r3.Vec) Vector2D {
	return Vector2D{X: p.X, Y: p.Z}
}

// ApproxEqual reports whether a and b differ by at most tol on every axis.
func ApproxEqual(a, b r3.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

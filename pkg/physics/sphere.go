// pkg/physics/sphere.go
package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Sphere is the bounding volume used for line-of-sight tests.
type Sphere struct {
	Center r3.Vec
	Radius float64
}

// Contains reports whether p lies strictly inside the sphere.
func (s Sphere) Contains(p r3.Vec) bool {
	return r3.Norm2(r3.Sub(p, s.Center)) < s.Radius*s.Radius
}

// SegmentHit reports whether the segment from a to b passes through the
// sphere. Segments starting inside the sphere are not hits, so a body never
// occludes its own label.
func (s Sphere) SegmentHit(a, b r3.Vec) bool {
	if s.Radius <= 0 || s.Contains(a) {
		return false
	}
	d := r3.Sub(b, a)
	length := r3.Norm(d)
	if length == 0 {
		return false
	}
	dir := r3.Scale(1/length, d)

	m := r3.Sub(a, s.Center)
	bq := r3.Dot(m, dir)
	c := r3.Dot(m, m) - s.Radius*s.Radius
	disc := bq*bq - c
	if disc < 0 {
		return false
	}
	t := -bq - math.Sqrt(disc)
	return t >= 0 && t <= length
}

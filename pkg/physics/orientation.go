package physics

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Axis unit vectors.
var (
	AxisX = r3.Vec{X: 1}
	AxisY = r3.Vec{Y: 1}
	AxisZ = r3.Vec{Z: 1}
)

// Orientation is a unit quaternion describing a body's attitude.
type Orientation quat.Number

// Identity is the orientation with no rotation applied.
var Identity = Orientation{Real: 1}

// AxisAngle returns the rotation of angle radians about axis. The axis is
// normalised; a zero axis yields Identity.
func AxisAngle(axis r3.Vec, angle float64) Orientation {
	n := r3.Norm(axis)
	if n == 0 {
		return Identity
	}
	return Orientation(r3.NewRotation(angle, r3.Scale(1/n, axis)))
}

// Mul composes o followed by the local rotation r.
func (o Orientation) Mul(r Orientation) Orientation {
	return Orientation(quat.Mul(quat.Number(o), quat.Number(r)))
}

// RotateLocal applies angle radians about one of the body's own axes.
func (o Orientation) RotateLocal(axis r3.Vec, angle float64) Orientation {
	if angle == 0 {
		return o
	}
	return o.Mul(AxisAngle(axis, angle)).normalized()
}

// Rotate applies the orientation to v.
func (o Orientation) Rotate(v r3.Vec) r3.Vec {
	return r3.Rotation(o).Rotate(v)
}

// Angle returns the total rotation angle in radians, in [0, π].
func (o Orientation) Angle() float64 {
	w := math.Max(-1, math.Min(1, math.Abs(o.Real)))
	return 2 * math.Acos(w)
}

func (o Orientation) normalized() Orientation {
	n := quat.Abs(quat.Number(o))
	if n == 0 {
		return Identity
	}
	return Orientation(quat.Scale(1/n, quat.Number(o)))
}

// AlignUp returns the rotation carrying the unit vector up onto the unit
// vector dir: the axis is up × dir and the angle acos(up · dir). Parallel
// vectors give Identity; opposite vectors give a half turn about an axis
// perpendicular to up.
func AlignUp(up, dir r3.Vec) Orientation {
	dot := math.Max(-1, math.Min(1, r3.Dot(up, dir)))
	axis := r3.Cross(up, dir)
	if r3.Norm(axis) < 1e-12 {
		if dot > 0 {
			return Identity
		}
		perp := r3.Cross(up, AxisX)
		if r3.Norm(perp) < 1e-12 {
			perp = r3.Cross(up, AxisZ)
		}
		return AxisAngle(perp, math.Pi)
	}
	return AxisAngle(axis, math.Acos(dot))
}

// pkg/physics/curve.go
package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ArcLengthDivisions is how finely a curve is sampled to build its
// arc-length table.
const ArcLengthDivisions = 200

// CatmullRomCurve is an open centripetal Catmull-Rom spline through its
// control points. The parameter t in [0,1] is spread uniformly over the
// segments; PointAt and TangentAt take an arc-length fraction instead.
type CatmullRomCurve struct {
	points  []r3.Vec
	lengths []float64
}

// NewCatmullRomCurve builds a curve through points. At least two points are
// required; fewer yields nil.
func NewCatmullRomCurve(points ...r3.Vec) *CatmullRomCurve {
	if len(points) < 2 {
		return nil
	}
	c := &CatmullRomCurve{points: append([]r3.Vec(nil), points...)}
	c.lengths = c.arcLengths(ArcLengthDivisions)
	return c
}

// ControlPoints returns a copy of the control points.
func (c *CatmullRomCurve) ControlPoints() []r3.Vec {
	return append([]r3.Vec(nil), c.points...)
}

// Point returns the curve position at parameter t.
func (c *CatmullRomCurve) Point(t float64) r3.Vec {
	pts := c.points
	l := len(pts)

	p := float64(l-1) * t
	seg := int(math.Floor(p))
	weight := p - float64(seg)
	if seg >= l-1 {
		seg = l - 2
		weight = 1
	}
	if seg < 0 {
		seg = 0
		weight = 0
	}

	var p0, p3 r3.Vec
	if seg > 0 {
		p0 = pts[seg-1]
	} else {
		p0 = r3.Add(r3.Sub(pts[0], pts[1]), pts[0])
	}
	p1 := pts[seg]
	p2 := pts[seg+1]
	if seg+2 < l {
		p3 = pts[seg+2]
	} else {
		p3 = r3.Add(r3.Sub(pts[l-1], pts[l-2]), pts[l-1])
	}

	// Centripetal knot spacing: squared distance to the power 0.25.
	dt0 := math.Pow(r3.Norm2(r3.Sub(p0, p1)), 0.25)
	dt1 := math.Pow(r3.Norm2(r3.Sub(p1, p2)), 0.25)
	dt2 := math.Pow(r3.Norm2(r3.Sub(p2, p3)), 0.25)
	if dt1 < 1e-4 {
		dt1 = 1
	}
	if dt0 < 1e-4 {
		dt0 = dt1
	}
	if dt2 < 1e-4 {
		dt2 = dt1
	}

	return r3.Vec{
		X: nonuniform(p0.X, p1.X, p2.X, p3.X, dt0, dt1, dt2).at(weight),
		Y: nonuniform(p0.Y, p1.Y, p2.Y, p3.Y, dt0, dt1, dt2).at(weight),
		Z: nonuniform(p0.Z, p1.Z, p2.Z, p3.Z, dt0, dt1, dt2).at(weight),
	}
}

// Tangent returns the unit tangent at parameter t, estimated by a central
// difference clamped to the curve ends.
func (c *CatmullRomCurve) Tangent(t float64) r3.Vec {
	const delta = 1e-4
	t1 := math.Max(t-delta, 0)
	t2 := math.Min(t+delta, 1)
	d := r3.Sub(c.Point(t2), c.Point(t1))
	n := r3.Norm(d)
	if n == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/n, d)
}

// PointAt returns the position a fraction u of the way along the curve by
// arc length.
func (c *CatmullRomCurve) PointAt(u float64) r3.Vec {
	return c.Point(c.ParamAt(u))
}

// TangentAt returns the unit tangent a fraction u of the way along the curve
// by arc length.
func (c *CatmullRomCurve) TangentAt(u float64) r3.Vec {
	return c.Tangent(c.ParamAt(u))
}

// Points samples the curve at n+1 evenly spaced parameters, both ends included.
func (c *CatmullRomCurve) Points(n int) []r3.Vec {
	if n <= 0 {
		return nil
	}
	out := make([]r3.Vec, n+1)
	for i := range out {
		out[i] = c.Point(float64(i) / float64(n))
	}
	return out
}

// Length returns the approximate arc length of the curve.
func (c *CatmullRomCurve) Length() float64 {
	return c.lengths[len(c.lengths)-1]
}

// ParamAt maps an arc-length fraction u in [0,1] to the curve parameter t.
func (c *CatmullRomCurve) ParamAt(u float64) float64 {
	lengths := c.lengths
	last := len(lengths) - 1
	target := u * lengths[last]

	low, high := 0, last
	for low <= high {
		i := low + (high-low)/2
		switch cmp := lengths[i] - target; {
		case cmp < 0:
			low = i + 1
		case cmp > 0:
			high = i - 1
		default:
			high = i
			low = high + 1
		}
	}

	i := high
	if i < 0 {
		return 0
	}
	if i >= last {
		return 1
	}
	if lengths[i] == target {
		return float64(i) / float64(last)
	}
	before, after := lengths[i], lengths[i+1]
	fraction := (target - before) / (after - before)
	return (float64(i) + fraction) / float64(last)
}

func (c *CatmullRomCurve) arcLengths(divisions int) []float64 {
	out := make([]float64, divisions+1)
	prev := c.Point(0)
	sum := 0.0
	for p := 1; p <= divisions; p++ {
		cur := c.Point(float64(p) / float64(divisions))
		sum += r3.Norm(r3.Sub(cur, prev))
		out[p] = sum
		prev = cur
	}
	return out
}

// cubic holds the coefficients of c0 + c1·t + c2·t² + c3·t³.
type cubic struct {
	c0, c1, c2, c3 float64
}

// hermite builds the cubic from endpoint values x0, x1 and tangents t0, t1.
func hermite(x0, x1, t0, t1 float64) cubic {
	return cubic{
		c0: x0,
		c1: t0,
		c2: -3*x0 + 3*x1 - 2*t0 - t1,
		c3: 2*x0 - 2*x1 + t0 + t1,
	}
}

// nonuniform builds the segment between x1 and x2 with knot intervals
// dt0, dt1 and dt2.
func nonuniform(x0, x1, x2, x3, dt0, dt1, dt2 float64) cubic {
	t1 := (x1-x0)/dt0 - (x2-x0)/(dt0+dt1) + (x2-x1)/dt1
	t2 := (x2-x1)/dt1 - (x3-x1)/(dt1+dt2) + (x3-x2)/dt2
	return hermite(x1, x2, t1*dt1, t2*dt1)
}

func (c cubic) at(t float64) float64 {
	t2 := t * t
	return c.c0 + c.c1*t + c.c2*t2 + c.c3*t2*t
}

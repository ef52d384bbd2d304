package physics

import "math"

// SecondsPerDay converts orbital periods in days to simulated seconds.
const SecondsPerDay = 86400.0

// Ellipse is an axis-aligned orbit centred on its parent. A runs along x and
// B along z.
type Ellipse struct {
	A float64
	B float64
}

// At returns the orbital-plane point at angle theta.
func (e Ellipse) At(theta float64) Vector2D {
	sin, cos := math.Sincos(theta)
	return Vector2D{X: e.A * cos, Y: e.B * sin}
}

// Position returns where a body with the given angular speed sits after
// elapsed simulated seconds. Bodies travel clockwise when seen from +y,
// hence the negated angle.
func (e Ellipse) Position(elapsed, angularSpeed float64) Vector2D {
	return e.At(-(elapsed * angularSpeed))
}

// Sample returns n points evenly spaced by angle, slot i at i/n·2π.
func (e Ellipse) Sample(n int) []Vector2D {
	if n <= 0 {
		return nil
	}
	out := make([]Vector2D, n)
	for i := range out {
		out[i] = e.At(float64(i) / float64(n) * 2 * math.Pi)
	}
	return out
}

// Outline returns n+1 points so that the first and last coincide and the
// ellipse renders as a closed line.
func (e Ellipse) Outline(n int) []Vector2D {
	if n <= 0 {
		return nil
	}
	out := make([]Vector2D, n+1)
	for i := range out {
		out[i] = e.At(float64(i) / float64(n) * 2 * math.Pi)
	}
	return out
}

// AngularSpeed converts a period in days into radians per simulated second.
// A zero period is treated as one day.
func AngularSpeed(periodDays float64) float64 {
	if periodDays == 0 {
		periodDays = 1
	}
	return 2 * math.Pi / periodDays / SecondsPerDay
}

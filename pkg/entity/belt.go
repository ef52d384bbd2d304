package entity

import (
	"math"

	"github.com/opd-ai/go-orrery/pkg/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

// beltSpin is the belt rotation rate in radians per simulated second.
const beltSpin = 1e-6

// Belt is a ring of asteroids evenly spaced on an ellipse. The whole belt
// turns about the world y axis as one rigid group.
type Belt struct {
	Center r3.Vec
	Orbit  physics.Ellipse
	Count  int
	// AsteroidScale is the drawn size of each asteroid.
	AsteroidScale float64
	Angle         float64
	Hidden        bool
	Static        bool
}

// NewBelt creates a belt of count asteroids.
func NewBelt(center r3.Vec, orbit physics.Ellipse, count int) *Belt {
	return &Belt{Center: center, Orbit: orbit, Count: count, AsteroidScale: 5}
}

// Advance turns the belt unless it is static.
func (b *Belt) Advance(delta, simulationSpeed float64) {
	if b.Static {
		return
	}
	b.Angle += beltSpin * simulationSpeed * delta
}

// Asteroids returns the world position of every asteroid.
func (b *Belt) Asteroids() []r3.Vec {
	if b.Count <= 0 {
		return nil
	}
	spin := r3.NewRotation(b.Angle, physics.AxisY)
	out := make([]r3.Vec, b.Count)
	for i := range out {
		angle := float64(i) / float64(b.Count) * 2 * math.Pi
		local := r3.Add(b.Center, b.Orbit.At(angle).To3D(0))
		out[i] = spin.Rotate(local)
	}
	return out
}

// pkg/entity/body.go
package entity

import (
	"github.com/opd-ai/go-orrery/pkg/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultOrbitPoints is how many segments an orbit line is drawn with.
const DefaultOrbitPoints = 1024

// cloudSpinFactor is how much faster a cloud layer turns than its planet.
const cloudSpinFactor = 2.4

// Ring is a flat annulus around a planet, tilted by Tilt radians about the
// planet's x, y and z axes in that order.
type Ring struct {
	InnerRadius float64
	OuterRadius float64
	Tilt        r3.Vec
}

// Clouds is a transparent shell slightly larger than its planet.
type Clouds struct {
	Size        float64
	Orientation physics.Orientation
	Hidden      bool
}

// Description is the long-form text shown for a body.
type Description struct {
	Title      string
	Paragraphs []string
}

// Body is a star, planet or satellite. Its position is relative to its
// parent and driven entirely by its own elapsed time.
type Body struct {
	ID     ID
	Name   string
	Kind   Kind
	Parent ID

	Radius        float64
	Orbit         physics.Ellipse
	RotationSpeed r3.Vec
	Rotating      bool

	Position    r3.Vec
	Orientation physics.Orientation
	Scale       float64
	TimeElapsed float64

	Fixed        bool
	Hidden       bool
	LabelHidden  bool
	OrbitVisible bool
	TraceVisible bool

	Label       Label
	Trace       *Trace
	OrbitPoints int
	Locations   []*Location
	Ring        *Ring
	Clouds      *Clouds

	OrbitColor string
	LabelColor string

	ShortDescription string
	LongDescription  Description

	period float64
	speed  float64
}

// NewBody creates a body at the start of its orbit, (a, 0, 0).
func NewBody(name string, kind Kind, radius float64, orbit physics.Ellipse, periodDays float64) *Body {
	b := &Body{
		Name:         name,
		Kind:         kind,
		Parent:       NoParent,
		Radius:       radius,
		Orbit:        orbit,
		Rotating:     kind != KindAsteroid,
		Position:     r3.Vec{X: orbit.A},
		Orientation:  physics.Identity,
		Scale:        1,
		OrbitVisible: true,
		Label:        NewLabel(kind.LabelStyle()),
		OrbitPoints:  DefaultOrbitPoints,
	}
	b.SetPeriod(periodDays)
	return b
}

// SetPeriod sets the orbital period in days and recomputes the angular
// speed. A zero period becomes one day.
func (b *Body) SetPeriod(days float64) {
	if days == 0 {
		days = 1
	}
	b.period = days
	b.speed = physics.AngularSpeed(days)
}

// Period returns the orbital period in days.
func (b *Body) Period() float64 {
	return b.period
}

// AngularSpeed returns the orbital speed in radians per simulated second.
func (b *Body) AngularSpeed() float64 {
	return b.speed
}

// EnableTrace attaches a trace of capacity samples at the current position.
func (b *Body) EnableTrace(capacity int, threshold float64) {
	b.Trace = NewTrace(capacity, threshold, physics.PlaneOf(b.Position))
}

// Advance moves the body forward by delta real seconds at simulationSpeed
// simulated seconds per real second. A frozen body is left untouched.
func (b *Body) Advance(delta, simulationSpeed float64) TraceChange {
	if b.Fixed {
		return TraceUnchanged
	}

	step := delta * simulationSpeed
	b.TimeElapsed += step

	if b.Rotating {
		b.Orientation = b.Orientation.
			RotateLocal(physics.AxisX, b.RotationSpeed.X*step).
			RotateLocal(physics.AxisY, b.RotationSpeed.Y*step).
			RotateLocal(physics.AxisZ, b.RotationSpeed.Z*step)
	}

	p := b.Orbit.Position(b.TimeElapsed, b.speed)

	change := TraceUnchanged
	if b.Trace != nil {
		if simulationSpeed*2 >= b.period*physics.SecondsPerDay {
			change = b.Trace.ShowEllipse(b.Orbit)
		} else {
			change = b.Trace.Record(p)
		}
	}

	b.Position.X = p.X
	b.Position.Z = p.Y

	if b.Clouds != nil {
		b.Clouds.Orientation = b.Clouds.Orientation.RotateLocal(physics.AxisY, b.RotationSpeed.Y*cloudSpinFactor*step)
	}
	return change
}

// OrbitLine returns the closed orbit outline in the parent's frame, lifted
// to the body's height.
func (b *Body) OrbitLine() []r3.Vec {
	outline := b.Orbit.Outline(b.OrbitPoints)
	out := make([]r3.Vec, len(outline))
	for i, p := range outline {
		out[i] = p.To3D(b.Position.Y)
	}
	return out
}

// TraceLine returns the trace samples in the parent's frame, oldest first.
func (b *Body) TraceLine() []r3.Vec {
	if b.Trace == nil {
		return nil
	}
	samples := b.Trace.Samples()
	out := make([]r3.Vec, len(samples))
	for i, p := range samples {
		out[i] = p.To3D(b.Position.Y)
	}
	return out
}

// AddLocation places a named marker on the surface.
func (b *Body) AddLocation(name string, latitude, longitude, size float64) *Location {
	loc := NewLocation(name, latitude, longitude, size, b.Radius)
	loc.Hidden = b.Hidden
	b.Locations = append(b.Locations, loc)
	return loc
}

// Show makes the body and its label visible. Orbit lines and traces keep
// their own setting.
func (b *Body) Show() {
	b.Hidden = false
	b.LabelHidden = false
	for _, loc := range b.Locations {
		loc.Hidden = false
	}
}

// Hide hides the body with its label, orbit line, trace and location labels.
func (b *Body) Hide() {
	b.Hidden = true
	b.LabelHidden = true
	b.OrbitVisible = false
	b.TraceVisible = false
	for _, loc := range b.Locations {
		loc.Hidden = true
	}
}

// Freeze stops time, rotation and orbital motion together.
func (b *Body) Freeze() { b.Fixed = true }

// Unfreeze resumes motion from where it stopped.
func (b *Body) Unfreeze() { b.Fixed = false }

// ShowLabel clears the user-hidden flag on the label.
func (b *Body) ShowLabel() { b.LabelHidden = false }

// HideLabel hides the label regardless of distance or occlusion.
func (b *Body) HideLabel() { b.LabelHidden = true }

// ShowOrbit shows the orbit line.
func (b *Body) ShowOrbit() { b.OrbitVisible = true }

// HideOrbit hides the orbit line.
func (b *Body) HideOrbit() { b.OrbitVisible = false }

// ShowTrace shows the trace when the body has one.
func (b *Body) ShowTrace() { b.TraceVisible = b.Trace != nil }

// HideTrace hides the trace.
func (b *Body) HideTrace() { b.TraceVisible = false }

// SetScale sets a uniform scale. It grows the body and everything attached
// to it, satellites' orbits included.
func (b *Body) SetScale(s float64) { b.Scale = s }

// LabelVisible reports whether the label should currently be drawn.
func (b *Body) LabelVisible() bool {
	return !b.Hidden && !b.LabelHidden && !b.Label.Occluded && b.Label.Opacity > 0
}

// LabelPoint returns the label anchor in the body's parent-relative frame.
func (b *Body) LabelPoint() r3.Vec {
	return r3.Vec{Y: b.Radius * b.Label.Offset}
}

package entity

import "gonum.org/v1/gonum/spatial/r3"

// LocationLabelRange is the camera distance at which surface location
// labels fade out.
const LocationLabelRange = 20.0

// LabelStyle holds per-kind label defaults.
type LabelStyle struct {
	// Offset is the label height above the body centre, in body radii.
	Offset   float64
	FontSize int
	// The label is transparent unless MinDistance < camera distance < MaxDistance.
	MinDistance float64
	MaxDistance float64
	// MaxOcclusions is how many occluding objects are tolerated before the
	// label is hidden.
	MaxOcclusions int
}

// Label is the visible name tag of a body.
type Label struct {
	LabelStyle
	Opacity  float64
	Occluded bool
}

// NewLabel returns a fully opaque, unoccluded label.
func NewLabel(style LabelStyle) Label {
	return Label{LabelStyle: style, Opacity: 1}
}

// Fade sets the opacity from the camera distance.
func (l *Label) Fade(distance float64) {
	if distance >= l.MaxDistance || distance <= l.MinDistance {
		l.Opacity = 0
		return
	}
	l.Opacity = 1
}

// Occlude records how many occluding objects sit between label and camera.
func (l *Label) Occlude(hits int) {
	l.Occluded = hits > l.MaxOcclusions
}

// Occluder answers line-of-sight queries for label placement. Count returns
// how many opaque objects lie on the segment from one world point to
// another. Decorative, helper and line geometry and the spacecraft are
// never counted.
type Occluder interface {
	Count(from, to r3.Vec) int
}

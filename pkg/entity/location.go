package entity

import (
	"github.com/opd-ai/go-orrery/pkg/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

// Location is a named marker on a body's surface. It turns with the body.
type Location struct {
	Name      string
	Latitude  float64
	Longitude float64
	// Size is the marker radius.
	Size float64
	// Point and LabelPoint are in the body's local frame.
	Point      r3.Vec
	LabelPoint r3.Vec
	Hidden     bool
	Opacity    float64
}

// NewLocation places a marker at latitude/longitude degrees on a sphere of
// the given radius. The label floats at 1.1 radii.
func NewLocation(name string, latitude, longitude, size, radius float64) *Location {
	return &Location{
		Name:       name,
		Latitude:   latitude,
		Longitude:  longitude,
		Size:       size,
		Point:      physics.SurfacePoint(latitude, longitude, radius),
		LabelPoint: physics.SurfacePoint(latitude, longitude, radius*1.1),
		Opacity:    1,
	}
}

// UpdateLabel fades the label when anything occludes it or the camera is
// LocationLabelRange or farther from the marker.
func (l *Location) UpdateLabel(distance float64, hits int) {
	if hits > 0 || distance >= LocationLabelRange {
		l.Opacity = 0
		return
	}
	l.Opacity = 1
}

// LabelVisible reports whether the label should be drawn.
func (l *Location) LabelVisible() bool {
	return !l.Hidden && l.Opacity > 0
}

// pkg/entity/entity.go
package entity

import (
	"github.com/opd-ai/go-orrery/pkg/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

// ID indexes a body inside a system arena.
type ID int

// NoParent marks a body that orbits the scene origin.
const NoParent ID = -1

// Kind tags what role a body plays. It only selects label placement and
// fade defaults; kinematics are identical for every kind.
type Kind int

const (
	KindStar Kind = iota
	KindPlanet
	KindSatellite
	KindAsteroid
)

// String returns the lowercase kind name used in the API and config files.
func (k Kind) String() string {
	switch k {
	case KindStar:
		return "star"
	case KindPlanet:
		return "planet"
	case KindSatellite:
		return "satellite"
	case KindAsteroid:
		return "asteroid"
	default:
		return "unknown"
	}
}

// ParseKind maps a kind name back to a Kind.
func ParseKind(s string) (Kind, bool) {
	for _, k := range []Kind{KindStar, KindPlanet, KindSatellite, KindAsteroid} {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// LabelStyle returns the label defaults for the kind.
func (k Kind) LabelStyle() LabelStyle {
	switch k {
	case KindStar:
		return LabelStyle{Offset: 1.8, FontSize: 26, MinDistance: 1000, MaxDistance: 9000, MaxOcclusions: 3}
	case KindSatellite:
		return LabelStyle{Offset: 2.25, FontSize: 20, MinDistance: 11, MaxDistance: 800}
	case KindPlanet:
		return LabelStyle{Offset: 6, FontSize: 24, MinDistance: 20, MaxDistance: 50000}
	default:
		return LabelStyle{Offset: 2, FontSize: 12, MinDistance: 20, MaxDistance: 50000}
	}
}

// Transform is a body's resolved placement in world space.
type Transform struct {
	Position    r3.Vec
	Orientation physics.Orientation
	Scale       float64
}

// Apply maps a point in the body's local frame to world space.
func (t Transform) Apply(local r3.Vec) r3.Vec {
	return r3.Add(t.Position, r3.Scale(t.Scale, t.Orientation.Rotate(local)))
}

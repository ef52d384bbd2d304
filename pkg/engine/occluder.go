package engine

import (
	"github.com/opd-ai/go-orrery/pkg/entity"
	"github.com/opd-ai/go-orrery/pkg/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

// SphereOccluder counts visible bodies, each treated as a sphere, crossed by
// a line of sight. Orbit lines, traces, labels, belts and the spacecraft are
// not part of it.
type SphereOccluder struct {
	spheres []physics.Sphere
}

// NewSphereOccluder captures the current world-space bounds of every visible
// body in s.
func NewSphereOccluder(s *System) *SphereOccluder {
	o := &SphereOccluder{}
	for _, b := range s.bodies {
		if b.Hidden {
			continue
		}
		t := s.WorldTransform(b)
		o.spheres = append(o.spheres, physics.Sphere{Center: t.Position, Radius: b.Radius * t.Scale})
	}
	return o
}

// Count returns how many spheres the segment from one point to another
// passes through. A sphere containing from is never counted.
func (o *SphereOccluder) Count(from, to r3.Vec) int {
	hits := 0
	for _, sp := range o.spheres {
		if sp.SegmentHit(from, to) {
			hits++
		}
	}
	return hits
}

var _ entity.Occluder = (*SphereOccluder)(nil)

package engine

import (
	"github.com/opd-ai/go-orrery/pkg/entity"
	"gonum.org/v1/gonum/spatial/r3"
)

// UpdateLabels fades and occludes every label for a camera at the given
// world position. Body labels are tested from the body centre. Location
// labels fade by the marker's distance and are occluded from their floating
// anchor, so the far side of a planet hides them.
func (s *System) UpdateLabels(camera r3.Vec, occluder entity.Occluder) {
	for _, b := range s.bodies {
		t := s.WorldTransform(b)

		b.Label.Fade(r3.Norm(r3.Sub(camera, t.Position)))
		if b.LabelHidden || b.Hidden {
			b.Label.Occluded = false
		} else {
			b.Label.Occlude(occluder.Count(t.Position, camera))
		}

		for _, loc := range b.Locations {
			if loc.Hidden {
				continue
			}
			marker := t.Apply(loc.Point)
			anchor := t.Apply(loc.LabelPoint)
			loc.UpdateLabel(r3.Norm(r3.Sub(camera, marker)), occluder.Count(anchor, camera))
		}
	}
}

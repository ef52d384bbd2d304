// pkg/engine/system.go
package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/opd-ai/go-orrery/pkg/entity"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrUnknownBody is returned when a body lookup fails.
var ErrUnknownBody = errors.New("unknown body")

// Group selects one level of the body hierarchy for bulk operations.
type Group int

const (
	GroupStar Group = iota
	GroupPlanets
	GroupSatellites
)

// String returns the group name used in commands.
func (g Group) String() string {
	switch g {
	case GroupStar:
		return "star"
	case GroupPlanets:
		return "planets"
	case GroupSatellites:
		return "satellites"
	default:
		return "unknown"
	}
}

// ParseGroup maps a group name back to a Group.
func ParseGroup(s string) (Group, error) {
	for _, g := range []Group{GroupStar, GroupPlanets, GroupSatellites} {
		if strings.EqualFold(g.String(), s) {
			return g, nil
		}
	}
	return 0, fmt.Errorf("%w: group %q", ErrInvalidCommand, s)
}

// TraceNotice records a body whose trace switched to or from the full
// ellipse during an update.
type TraceNotice struct {
	Body    *entity.Body
	Entered bool
}

// System owns every body in one arena. Parent links point into the arena;
// a planet's satellites are found by querying it.
type System struct {
	bodies []*entity.Body
	star   entity.ID
}

// NewSystem creates an empty system.
func NewSystem() *System {
	return &System{star: entity.NoParent}
}

// Add registers b, assigns its ID and returns it. The first star added
// becomes the system's star.
func (s *System) Add(b *entity.Body) *entity.Body {
	b.ID = entity.ID(len(s.bodies))
	s.bodies = append(s.bodies, b)
	if b.Kind == entity.KindStar && s.star == entity.NoParent {
		s.star = b.ID
	}
	return b
}

// AttachSatellite makes sat orbit parent. The satellite sits yOffset above
// the parent's orbital plane and its trace starts hidden.
func (s *System) AttachSatellite(parent, sat *entity.Body, yOffset float64) {
	if _, ok := s.Body(sat.ID); !ok || s.bodies[sat.ID] != sat {
		s.Add(sat)
	}
	sat.Parent = parent.ID
	sat.Position = r3.Vec{X: sat.Orbit.A, Y: yOffset}
	sat.HideTrace()
}

// Body returns the body with the given ID.
func (s *System) Body(id entity.ID) (*entity.Body, bool) {
	if id < 0 || int(id) >= len(s.bodies) {
		return nil, false
	}
	return s.bodies[id], true
}

// Bodies returns every body in insertion order.
func (s *System) Bodies() []*entity.Body {
	return append([]*entity.Body(nil), s.bodies...)
}

// Len returns the number of bodies.
func (s *System) Len() int {
	return len(s.bodies)
}

// Star returns the star, or nil.
func (s *System) Star() *entity.Body {
	b, _ := s.Body(s.star)
	return b
}

// Planets returns the planets in insertion order.
func (s *System) Planets() []*entity.Body {
	return s.filter(func(b *entity.Body) bool { return b.Kind == entity.KindPlanet })
}

// Satellites returns every satellite of every planet.
func (s *System) Satellites() []*entity.Body {
	return s.filter(func(b *entity.Body) bool { return b.Kind == entity.KindSatellite })
}

// SatellitesOf returns the bodies orbiting parent.
func (s *System) SatellitesOf(parent *entity.Body) []*entity.Body {
	return s.filter(func(b *entity.Body) bool { return b.Parent == parent.ID && b != parent })
}

// Group returns the bodies in g.
func (s *System) Group(g Group) []*entity.Body {
	switch g {
	case GroupStar:
		if star := s.Star(); star != nil {
			return []*entity.Body{star}
		}
		return nil
	case GroupPlanets:
		return s.Planets()
	case GroupSatellites:
		return s.Satellites()
	default:
		return nil
	}
}

// ByName finds a body by name, ignoring case.
func (s *System) ByName(name string) (*entity.Body, error) {
	for _, b := range s.bodies {
		if strings.EqualFold(b.Name, name) {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBody, name)
}

func (s *System) filter(keep func(*entity.Body) bool) []*entity.Body {
	var out []*entity.Body
	for _, b := range s.bodies {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

func (s *System) parentOf(b *entity.Body) *entity.Body {
	if b.Parent == entity.NoParent || b.Parent == b.ID {
		return nil
	}
	p, _ := s.Body(b.Parent)
	return p
}

// WorldTransform resolves b's placement in world space. A satellite is
// offset from its parent's centre and scaled with it but does not turn with
// the parent's spin.
func (s *System) WorldTransform(b *entity.Body) entity.Transform {
	t := entity.Transform{Position: b.Position, Orientation: b.Orientation, Scale: b.Scale}
	if p := s.parentOf(b); p != nil {
		pt := s.WorldTransform(p)
		t.Position = r3.Add(pt.Position, r3.Scale(pt.Scale, b.Position))
		t.Scale *= pt.Scale
	}
	return t
}

// WorldPosition returns b's centre in world space.
func (s *System) WorldPosition(b *entity.Body) r3.Vec {
	return s.WorldTransform(b).Position
}

// Update advances the star, then each planet followed by its satellites,
// then any other top-level bodies. It returns the bodies whose traces
// entered or left the full-ellipse mode.
func (s *System) Update(delta, simulationSpeed float64) []TraceNotice {
	var notices []TraceNotice
	advance := func(b *entity.Body) {
		switch b.Advance(delta, simulationSpeed) {
		case entity.TraceEnteredTransition:
			notices = append(notices, TraceNotice{Body: b, Entered: true})
		case entity.TraceLeftTransition:
			notices = append(notices, TraceNotice{Body: b})
		}
	}

	star := s.Star()
	if star != nil {
		advance(star)
	}
	for _, b := range s.bodies {
		if b == star || s.parentOf(b) != nil {
			continue
		}
		advance(b)
		for _, sat := range s.SatellitesOf(b) {
			advance(sat)
		}
	}
	return notices
}

// Render hands every visible body to r with its world transform.
func (s *System) Render(r entity.Renderer) {
	for _, b := range s.bodies {
		if b.Hidden {
			continue
		}
		r.RenderBody(b, s.WorldTransform(b))
	}
}

// Show makes the group visible. Showing planets also shows their
// satellites with orbit lines and traces turned off.
func (s *System) Show(g Group) {
	for _, b := range s.Group(g) {
		b.Show()
		if g != GroupPlanets {
			continue
		}
		for _, sat := range s.SatellitesOf(b) {
			sat.Show()
			sat.HideOrbit()
			sat.HideTrace()
		}
	}
}

// Hide hides the group. Hiding planets hides their satellites too.
func (s *System) Hide(g Group) {
	for _, b := range s.Group(g) {
		b.Hide()
		if g == GroupPlanets {
			for _, sat := range s.SatellitesOf(b) {
				sat.Hide()
			}
		}
	}
}

// SetFrozen freezes or unfreezes the group.
func (s *System) SetFrozen(g Group, frozen bool) {
	s.each(g, func(b *entity.Body) {
		if frozen {
			b.Freeze()
		} else {
			b.Unfreeze()
		}
	})
}

// SetLabelsVisible shows or hides the group's labels.
func (s *System) SetLabelsVisible(g Group, visible bool) {
	s.each(g, func(b *entity.Body) {
		if visible {
			b.ShowLabel()
		} else {
			b.HideLabel()
		}
	})
}

// SetOrbitsVisible shows or hides the group's orbit lines. For planets the
// change reaches their satellites too.
func (s *System) SetOrbitsVisible(g Group, visible bool) {
	s.eachWithSatellites(g, func(b *entity.Body) {
		if visible {
			b.ShowOrbit()
		} else {
			b.HideOrbit()
		}
	})
}

// SetTracesVisible shows or hides the group's traces. For planets the
// change reaches their satellites too.
func (s *System) SetTracesVisible(g Group, visible bool) {
	s.eachWithSatellites(g, func(b *entity.Body) {
		if visible {
			b.ShowTrace()
		} else {
			b.HideTrace()
		}
	})
}

// SetScale sets a uniform scale on the group.
func (s *System) SetScale(g Group, scale float64) {
	s.each(g, func(b *entity.Body) { b.SetScale(scale) })
}

// eachWithSatellites calls fn for the group and, for planets, each
// planet's satellites after it.
func (s *System) eachWithSatellites(g Group, fn func(*entity.Body)) {
	for _, b := range s.Group(g) {
		fn(b)
		if g != GroupPlanets {
			continue
		}
		for _, sat := range s.SatellitesOf(b) {
			fn(sat)
		}
	}
}

func (s *System) each(g Group, fn func(*entity.Body)) {
	for _, b := range s.Group(g) {
		fn(b)
	}
}

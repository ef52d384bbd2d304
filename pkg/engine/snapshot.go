// pkg/engine/snapshot.go
package engine

import (
	"strings"

	"github.com/opd-ai/go-orrery/pkg/entity"
	"github.com/opd-ai/go-orrery/pkg/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

// Vec3 is a world-space point in snapshots.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func vec3(v r3.Vec) Vec3 {
	return Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

// Quat is an orientation as w, x, y, z.
type Quat [4]float64

func quat4(o physics.Orientation) Quat {
	return Quat{o.Real, o.Imag, o.Jmag, o.Kmag}
}

// Snapshot is a copy of the simulation state after a frame. It shares no
// memory with the simulation and can be read from any goroutine.
type Snapshot struct {
	Frame      uint64      `json:"frame"`
	Running    bool        `json:"running"`
	Speed      float64     `json:"speed"`
	Target     string      `json:"target,omitempty"`
	Bodies     []BodyState `json:"bodies"`
	Spacecraft *CraftState `json:"spacecraft,omitempty"`
	Belts      []BeltState `json:"belts,omitempty"`
}

// BodyState is one body's world placement and display state.
type BodyState struct {
	ID               entity.ID       `json:"id"`
	Name             string          `json:"name"`
	Kind             string          `json:"kind"`
	Parent           string          `json:"parent,omitempty"`
	Position         Vec3            `json:"position"`
	Orientation      Quat            `json:"orientation"`
	Scale            float64         `json:"scale"`
	Radius           float64         `json:"radius"`
	Hidden           bool            `json:"hidden"`
	Frozen           bool            `json:"frozen"`
	LabelVisible     bool            `json:"labelVisible"`
	LabelOpacity     float64         `json:"labelOpacity"`
	OrbitVisible     bool            `json:"orbitVisible"`
	TraceVisible     bool            `json:"traceVisible"`
	Trace            []Vec3          `json:"trace,omitempty"`
	Locations        []LocationState `json:"locations,omitempty"`
	ShortDescription string          `json:"shortDescription,omitempty"`
}

// LocationState is a surface marker in world space.
type LocationState struct {
	Name         string `json:"name"`
	Position     Vec3   `json:"position"`
	LabelVisible bool   `json:"labelVisible"`
}

// CraftState is the spacecraft's placement and journey state.
type CraftState struct {
	Name        string  `json:"name"`
	Position    Vec3    `json:"position"`
	Orientation Quat    `json:"orientation"`
	Hidden      bool    `json:"hidden"`
	Traveling   bool    `json:"traveling"`
	Progress    float64 `json:"progress"`
	From        string  `json:"from,omitempty"`
	To          string  `json:"to,omitempty"`
}

// BeltState is an asteroid belt with each asteroid's world position.
type BeltState struct {
	Hidden    bool   `json:"hidden"`
	Static    bool   `json:"static"`
	Asteroids []Vec3 `json:"asteroids"`
}

// Snapshot copies the current state.
func (s *Simulation) Snapshot() *Snapshot {
	snap := &Snapshot{
		Frame:   s.Frame,
		Running: s.Running,
		Speed:   s.Speed,
		Bodies:  s.bodyStates(),
	}
	if t := s.Target(); t != nil {
		snap.Target = t.Name
	}
	if s.Craft != nil {
		snap.Spacecraft = craftState(s.Craft)
	}
	for _, b := range s.Belts {
		snap.Belts = append(snap.Belts, beltState(b))
	}
	return snap
}

func (s *Simulation) bodyStates() []BodyState {
	states := make([]BodyState, 0, s.System.Len())
	for _, b := range s.System.bodies {
		t := s.System.WorldTransform(b)
		st := BodyState{
			ID:               b.ID,
			Name:             b.Name,
			Kind:             b.Kind.String(),
			Position:         vec3(t.Position),
			Orientation:      quat4(b.Orientation),
			Scale:            b.Scale,
			Radius:           b.Radius,
			Hidden:           b.Hidden,
			Frozen:           b.Fixed,
			LabelVisible:     b.LabelVisible(),
			LabelOpacity:     b.Label.Opacity,
			OrbitVisible:     b.OrbitVisible,
			TraceVisible:     b.TraceVisible,
			ShortDescription: b.ShortDescription,
		}
		frame := entity.Transform{Orientation: physics.Identity, Scale: 1}
		if p := s.System.parentOf(b); p != nil {
			st.Parent = p.Name
			pt := s.System.WorldTransform(p)
			frame.Position, frame.Scale = pt.Position, pt.Scale
		}
		if b.TraceVisible {
			for _, p := range b.TraceLine() {
				st.Trace = append(st.Trace, vec3(frame.Apply(p)))
			}
		}
		for _, loc := range b.Locations {
			st.Locations = append(st.Locations, LocationState{
				Name:         loc.Name,
				Position:     vec3(t.Apply(loc.Point)),
				LabelVisible: loc.LabelVisible(),
			})
		}
		states = append(states, st)
	}
	return states
}

func craftState(c *entity.Spacecraft) *CraftState {
	from, to := endpointNames(c)
	return &CraftState{
		Name:        c.Name,
		Position:    vec3(c.Position),
		Orientation: quat4(c.Orientation),
		Hidden:      c.Hidden,
		Traveling:   c.Traveling(),
		Progress:    c.Progress(),
		From:        from,
		To:          to,
	}
}

func beltState(b *entity.Belt) BeltState {
	asteroids := b.Asteroids()
	st := BeltState{Hidden: b.Hidden, Static: b.Static, Asteroids: make([]Vec3, len(asteroids))}
	for i, a := range asteroids {
		st.Asteroids[i] = vec3(a)
	}
	return st
}

// Body returns the state of the named body.
func (s *Snapshot) Body(name string) (BodyState, bool) {
	for _, b := range s.Bodies {
		if strings.EqualFold(b.Name, name) {
			return b, true
		}
	}
	return BodyState{}, false
}

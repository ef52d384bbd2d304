// pkg/engine/command.go
package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCommand is returned for malformed or out-of-range commands.
var ErrInvalidCommand = errors.New("invalid command")

// Command is a user intent applied to the simulation between frames.
type Command interface {
	Name() string
	Apply(s *Simulation) error
}

// OrbitMode selects which orbit decoration a group shows.
type OrbitMode int

const (
	OrbitLines OrbitMode = iota
	OrbitTraces
	OrbitNone
)

// String returns the mode name used in commands.
func (m OrbitMode) String() string {
	switch m {
	case OrbitLines:
		return "lines"
	case OrbitTraces:
		return "traces"
	case OrbitNone:
		return "none"
	default:
		return "unknown"
	}
}

// ParseOrbitMode maps a mode name back to an OrbitMode.
func ParseOrbitMode(s string) (OrbitMode, error) {
	for _, m := range []OrbitMode{OrbitLines, OrbitTraces, OrbitNone} {
		if strings.EqualFold(m.String(), s) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: orbit mode %q", ErrInvalidCommand, s)
}

// SetVisibility shows or hides a group.
type SetVisibility struct {
	Group   Group
	Visible bool
}

func (c SetVisibility) Name() string { return "set_visibility" }

func (c SetVisibility) Apply(s *Simulation) error {
	if c.Visible {
		s.System.Show(c.Group)
	} else {
		s.System.Hide(c.Group)
	}
	return nil
}

// SetFrozen freezes or unfreezes a group.
type SetFrozen struct {
	Group  Group
	Frozen bool
}

func (c SetFrozen) Name() string { return "set_frozen" }

func (c SetFrozen) Apply(s *Simulation) error {
	s.System.SetFrozen(c.Group, c.Frozen)
	return nil
}

// SetLabelVisibility shows or hides a group's labels.
type SetLabelVisibility struct {
	Group   Group
	Visible bool
}

func (c SetLabelVisibility) Name() string { return "set_label_visibility" }

func (c SetLabelVisibility) Apply(s *Simulation) error {
	s.System.SetLabelsVisible(c.Group, c.Visible)
	return nil
}

// SetOrbitDisplay chooses between orbit lines, traces or neither for a
// group.
type SetOrbitDisplay struct {
	Group Group
	Mode  OrbitMode
}

func (c SetOrbitDisplay) Name() string { return "set_orbit_display" }

func (c SetOrbitDisplay) Apply(s *Simulation) error {
	switch c.Mode {
	case OrbitLines:
		s.System.SetTracesVisible(c.Group, false)
		s.System.SetOrbitsVisible(c.Group, true)
	case OrbitTraces:
		s.System.SetOrbitsVisible(c.Group, false)
		s.System.SetTracesVisible(c.Group, true)
	case OrbitNone:
		s.System.SetOrbitsVisible(c.Group, false)
		s.System.SetTracesVisible(c.Group, false)
	default:
		return fmt.Errorf("%w: orbit mode %d", ErrInvalidCommand, c.Mode)
	}
	return nil
}

// SetScale sets a uniform scale on a group.
type SetScale struct {
	Group Group
	Scale float64
}

func (c SetScale) Name() string { return "set_scale" }

func (c SetScale) Apply(s *Simulation) error {
	if c.Scale <= 0 {
		return fmt.Errorf("%w: scale %v must be positive", ErrInvalidCommand, c.Scale)
	}
	s.System.SetScale(c.Group, c.Scale)
	return nil
}

// SetStartingBody chooses where the next journey departs from.
type SetStartingBody struct {
	Body string
}

func (c SetStartingBody) Name() string { return "set_starting_body" }

func (c SetStartingBody) Apply(s *Simulation) error {
	if s.Craft == nil {
		return fmt.Errorf("%w: no spacecraft", ErrInvalidCommand)
	}
	b, err := s.Reachable(c.Body)
	if err != nil {
		return err
	}
	s.Craft.SetStart(b)
	return nil
}

// SetDestinationBody chooses where the next journey arrives.
type SetDestinationBody struct {
	Body string
}

func (c SetDestinationBody) Name() string { return "set_destination_body" }

func (c SetDestinationBody) Apply(s *Simulation) error {
	if s.Craft == nil {
		return fmt.Errorf("%w: no spacecraft", ErrInvalidCommand)
	}
	b, err := s.Reachable(c.Body)
	if err != nil {
		return err
	}
	s.Craft.SetDestination(b)
	return nil
}

// BeginJourney starts the spacecraft between its chosen bodies.
type BeginJourney struct{}

func (c BeginJourney) Name() string { return "begin_journey" }

func (c BeginJourney) Apply(s *Simulation) error {
	_, err := s.BeginJourney()
	return err
}

// SetBeltsVisible shows or hides the asteroid belts.
type SetBeltsVisible struct {
	Visible bool
}

func (c SetBeltsVisible) Name() string { return "set_belts_visible" }

func (c SetBeltsVisible) Apply(s *Simulation) error {
	s.SetBeltsVisible(c.Visible)
	return nil
}

// SetBeltsStatic stops or resumes belt rotation.
type SetBeltsStatic struct {
	Static bool
}

func (c SetBeltsStatic) Name() string { return "set_belts_static" }

func (c SetBeltsStatic) Apply(s *Simulation) error {
	s.SetBeltsStatic(c.Static)
	return nil
}

// SetSimulationSpeed sets simulated seconds per real second.
type SetSimulationSpeed struct {
	Speed float64
}

func (c SetSimulationSpeed) Name() string { return "set_simulation_speed" }

func (c SetSimulationSpeed) Apply(s *Simulation) error {
	if c.Speed < 0 {
		return fmt.Errorf("%w: speed %v must not be negative", ErrInvalidCommand, c.Speed)
	}
	s.Speed = c.Speed
	return nil
}

// SetSimulating starts or stops simulated time.
type SetSimulating struct {
	Running bool
}

func (c SetSimulating) Name() string { return "set_simulating" }

func (c SetSimulating) Apply(s *Simulation) error {
	if c.Running {
		s.Start()
	} else {
		s.Stop()
	}
	return nil
}

// CycleTarget moves the view target forward or back.
type CycleTarget struct {
	Forward bool
}

func (c CycleTarget) Name() string { return "cycle_target" }

func (c CycleTarget) Apply(s *Simulation) error {
	if c.Forward {
		s.NextTarget()
	} else {
		s.PreviousTarget()
	}
	return nil
}

// pkg/engine/simulation.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/opd-ai/go-orrery/pkg/entity"
	"github.com/opd-ai/go-orrery/pkg/event"
	"github.com/opd-ai/go-orrery/pkg/logging"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultMaxDelta caps a single frame step in real seconds.
const DefaultMaxDelta = 0.1

// ErrJourneyRejected is returned when a journey cannot start.
var ErrJourneyRejected = errors.New("journey rejected")

// DefaultCamera is where labels are judged from until a view sets Camera.
var DefaultCamera = r3.Vec{Y: 1000, Z: 1000}

// Simulation drives a System, its spacecraft and asteroid belts frame by
// frame. It is not safe for concurrent use; one goroutine owns it.
type Simulation struct {
	System   *System
	Craft    *entity.Spacecraft
	Belts    []*entity.Belt
	EventBus *event.Bus

	// Speed is simulated seconds per real second.
	Speed    float64
	MaxDelta float64
	Running  bool
	Camera   r3.Vec

	Frame      uint64
	LastUpdate time.Time

	target     int
	journeyCtx context.Context
	logger     *logging.Logger
}

// NewSimulation creates a stopped simulation over system. craft may be nil.
func NewSimulation(system *System, craft *entity.Spacecraft, logger *logging.Logger) *Simulation {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Simulation{
		System:     system,
		Craft:      craft,
		EventBus:   event.NewEventBus(),
		Speed:      1,
		MaxDelta:   DefaultMaxDelta,
		Camera:     DefaultCamera,
		LastUpdate: time.Now(),
		journeyCtx: context.Background(),
		logger:     logger,
	}
}

// Start resumes simulated time.
func (s *Simulation) Start() {
	if s.Running {
		return
	}
	s.Running = true
	s.LastUpdate = time.Now()
	s.EventBus.Publish(&event.BaseEvent{
		EventType: event.SimulationStarted,
		Source:    s,
	})
}

// Stop pauses simulated time. Labels keep updating.
func (s *Simulation) Stop() {
	if !s.Running {
		return
	}
	s.Running = false
	s.EventBus.Publish(&event.BaseEvent{
		EventType: event.SimulationStopped,
		Source:    s,
	})
}

// Tick advances by the wall-clock time since the previous tick.
func (s *Simulation) Tick() {
	s.Update(s.calculateDeltaTime())
}

// calculateDeltaTime calculates the time since the last update.
func (s *Simulation) calculateDeltaTime() float64 {
	now := time.Now()
	deltaTime := now.Sub(s.LastUpdate).Seconds()
	s.LastUpdate = now
	return deltaTime
}

// Update advances one frame of delta real seconds. Delta is capped at
// MaxDelta. While stopped only labels are refreshed.
func (s *Simulation) Update(delta float64) {
	if delta < 0 {
		delta = 0
	}
	if s.MaxDelta > 0 && delta > s.MaxDelta {
		delta = s.MaxDelta
	}

	if s.Running {
		for _, n := range s.System.Update(delta, s.Speed) {
			s.EventBus.Publish(event.NewTraceEvent(s, n.Body.Name, n.Entered))
		}
		s.updateCraft(delta)
		for _, b := range s.Belts {
			b.Advance(delta, s.Speed)
		}
	}

	s.System.UpdateLabels(s.Camera, NewSphereOccluder(s.System))
	s.Frame++
}

func (s *Simulation) updateCraft(delta float64) {
	if s.Craft == nil || !s.Craft.Update(delta, s.Speed) {
		return
	}
	from, to := endpointNames(s.Craft)
	s.logger.Info(s.journeyCtx, "journey completed", "craft", s.Craft.Name, "from", from, "to", to)
	s.EventBus.Publish(event.NewJourneyEvent(event.JourneyCompleted, s, s.Craft.Name, from, to, "completed"))
	s.journeyCtx = context.Background()
}

// BeginJourney asks the craft to travel between its chosen bodies.
func (s *Simulation) BeginJourney() (entity.TravelResult, error) {
	if s.Craft == nil {
		return entity.RejectedMissingEndpoint, fmt.Errorf("%w: no spacecraft", ErrJourneyRejected)
	}

	result := s.Craft.Travel(s.System)
	from, to := endpointNames(s.Craft)

	if result != entity.TravelStarted {
		s.logger.Debug(context.Background(), "journey rejected", "craft", s.Craft.Name, "reason", result.String())
		s.EventBus.Publish(event.NewJourneyEvent(event.JourneyRejected, s, s.Craft.Name, from, to, result.String()))
		return result, fmt.Errorf("%w: %s", ErrJourneyRejected, result)
	}

	s.journeyCtx = logging.WithCorrelationID(context.Background(), logging.GenerateCorrelationID())
	s.logger.Info(s.journeyCtx, "journey started",
		"craft", s.Craft.Name, "from", from, "to", to, "length", s.Craft.Path().Length())
	s.EventBus.Publish(event.NewJourneyEvent(event.JourneyStarted, s, s.Craft.Name, from, to, result.String()))
	return result, nil
}

func endpointNames(c *entity.Spacecraft) (string, string) {
	var from, to string
	if b := c.Start(); b != nil {
		from = b.Name
	}
	if b := c.Destination(); b != nil {
		to = b.Name
	}
	return from, to
}

// Reachable returns the planet or satellite named name. Only those can be
// journey endpoints.
func (s *Simulation) Reachable(name string) (*entity.Body, error) {
	b, err := s.System.ByName(name)
	if err != nil {
		return nil, err
	}
	if b.Kind != entity.KindPlanet && b.Kind != entity.KindSatellite {
		return nil, fmt.Errorf("%w: %q is not a journey endpoint", ErrUnknownBody, name)
	}
	return b, nil
}

// Targets returns the bodies a view can cycle through: the star, then the
// planets.
func (s *Simulation) Targets() []*entity.Body {
	var out []*entity.Body
	if star := s.System.Star(); star != nil {
		out = append(out, star)
	}
	return append(out, s.System.Planets()...)
}

// Target returns the current view target, or nil when there are no bodies.
func (s *Simulation) Target() *entity.Body {
	targets := s.Targets()
	if len(targets) == 0 {
		return nil
	}
	return targets[s.clampTarget(s.target, len(targets))]
}

// NextTarget moves to the next target, stopping at the last one.
func (s *Simulation) NextTarget() *entity.Body {
	s.target = s.clampTarget(s.target+1, len(s.Targets()))
	return s.Target()
}

// PreviousTarget moves to the previous target, stopping at the first one.
func (s *Simulation) PreviousTarget() *entity.Body {
	s.target = s.clampTarget(s.target-1, len(s.Targets()))
	return s.Target()
}

func (s *Simulation) clampTarget(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// SetBeltsVisible shows or hides every asteroid belt.
func (s *Simulation) SetBeltsVisible(visible bool) {
	for _, b := range s.Belts {
		b.Hidden = !visible
	}
}

// SetBeltsStatic stops or resumes belt rotation.
func (s *Simulation) SetBeltsStatic(static bool) {
	for _, b := range s.Belts {
		b.Static = static
	}
}

// Apply runs cmd against the simulation and publishes its outcome.
func (s *Simulation) Apply(cmd Command) error {
	err := cmd.Apply(s)
	if err != nil {
		s.logger.Warn(context.Background(), "command failed", "command", cmd.Name(), "error", err.Error())
	} else {
		s.logger.Debug(context.Background(), "command applied", "command", cmd.Name())
	}
	s.EventBus.Publish(event.NewCommandEvent(s, cmd.Name(), err))
	return err
}

// Render draws the current frame.
func (s *Simulation) Render(r entity.Renderer) {
	r.Clear()
	s.System.Render(r)
	for _, b := range s.Belts {
		if !b.Hidden {
			r.RenderBelt(b)
		}
	}
	if s.Craft != nil && !s.Craft.Hidden {
		r.RenderSpacecraft(s.Craft)
	}
	r.Present()
}

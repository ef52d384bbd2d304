// pkg/entity/spacecraft.go
package entity

import (
	"math"

	"github.com/opd-ai/go-orrery/pkg/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

// Spacecraft defaults.
const (
	DefaultSpacecraftSpeed  = 0.4
	DefaultTrajectoryPoints = 512
	// liftDistance is the endpoint separation beyond which the path
	// apex rises with distance.
	liftDistance = 20.0
	liftHeight   = 5.0
)

// TravelResult says whether Travel started a journey and, if not, why.
type TravelResult int

const (
	TravelStarted TravelResult = iota
	RejectedMissingEndpoint
	RejectedSameEndpoint
	RejectedInProgress
)

// String returns a short name for the result.
func (r TravelResult) String() string {
	switch r {
	case TravelStarted:
		return "started"
	case RejectedMissingEndpoint:
		return "missing endpoint"
	case RejectedSameEndpoint:
		return "same endpoint"
	case RejectedInProgress:
		return "in progress"
	default:
		return "unknown"
	}
}

// Locator resolves a body's current world position.
type Locator interface {
	WorldPosition(b *Body) r3.Vec
}

// Spacecraft flies between two bodies along a lifted spline. It is idle
// until Travel succeeds and returns to idle when the journey wraps.
type Spacecraft struct {
	Name string
	// Speed is simulated seconds per path sample.
	Speed      float64
	PathPoints int
	Up         r3.Vec

	Position    r3.Vec
	Orientation physics.Orientation
	Hidden      bool

	start       *Body
	destination *Body
	traveling   bool
	path        *physics.CatmullRomCurve
	line        []r3.Vec
	elapsed     float64
	progress    float64
	hasProgress bool
}

// NewSpacecraft creates a hidden, idle craft with default speed and path
// resolution.
func NewSpacecraft(name string) *Spacecraft {
	return &Spacecraft{
		Name:        name,
		Speed:       DefaultSpacecraftSpeed,
		PathPoints:  DefaultTrajectoryPoints,
		Up:          physics.AxisY,
		Orientation: physics.Identity,
		Hidden:      true,
	}
}

// SetStart chooses the departure body.
func (s *Spacecraft) SetStart(b *Body) { s.start = b }

// SetDestination chooses the arrival body.
func (s *Spacecraft) SetDestination(b *Body) { s.destination = b }

// Start returns the departure body, or nil.
func (s *Spacecraft) Start() *Body { return s.start }

// Destination returns the arrival body, or nil.
func (s *Spacecraft) Destination() *Body { return s.destination }

// Traveling reports whether a journey is in progress.
func (s *Spacecraft) Traveling() bool { return s.traveling }

// Elapsed returns simulated seconds since the journey began.
func (s *Spacecraft) Elapsed() float64 { return s.elapsed }

// Progress returns the last arc-length fraction reached, in [0,1).
func (s *Spacecraft) Progress() float64 { return s.progress }

// Path returns the current trajectory, or nil when idle.
func (s *Spacecraft) Path() *physics.CatmullRomCurve {
	if !s.traveling {
		return nil
	}
	return s.path
}

// PathLine returns the sampled trajectory for drawing, or nil when idle.
func (s *Spacecraft) PathLine() []r3.Vec { return s.line }

// Travel starts a journey between the chosen bodies. Endpoints are
// snapshotted; the path does not follow the bodies once built.
func (s *Spacecraft) Travel(loc Locator) TravelResult {
	switch {
	case s.start == nil || s.destination == nil:
		return RejectedMissingEndpoint
	case s.start == s.destination:
		return RejectedSameEndpoint
	case s.traveling:
		return RejectedInProgress
	}

	from := loc.WorldPosition(s.start)
	to := loc.WorldPosition(s.destination)
	s.path = physics.NewCatmullRomCurve(from, Apex(from, to), to)
	s.line = s.path.Points(s.PathPoints)
	s.elapsed = 0
	s.hasProgress = false
	s.progress = 0
	s.traveling = true
	return TravelStarted
}

// Apex returns the lifted midpoint of a path between from and to: the
// average of the endpoints raised to a height that grows with distance.
func Apex(from, to r3.Vec) r3.Vec {
	mid := r3.Scale(0.5, r3.Add(from, to))
	h := 1.0
	if d := r3.Norm(r3.Sub(to, from)); d >= liftDistance {
		h = d / liftDistance
	}
	mid.Y = liftHeight * h
	return mid
}

// Update advances the journey. It reports true on the frame the journey
// completes, which is detected by the progress fraction wrapping.
func (s *Spacecraft) Update(delta, simulationSpeed float64) bool {
	if !s.traveling {
		return false
	}
	if s.elapsed == 0 {
		s.Hidden = false
	}

	s.elapsed += delta * simulationSpeed
	n := float64(s.PathPoints)
	p := math.Mod(s.elapsed/s.Speed, n) / n

	if s.hasProgress && p < s.progress {
		s.traveling = false
		s.elapsed = 0
		s.Hidden = true
		s.line = nil
		s.hasProgress = false
		s.progress = 0
		return true
	}

	s.Position = s.path.PointAt(p)
	s.Orientation = physics.AlignUp(s.Up, s.path.TangentAt(p))
	s.progress = p
	s.hasProgress = true
	return false
}

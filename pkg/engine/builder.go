package engine

import (
	"github.com/opd-ai/go-orrery/pkg/config"
	"github.com/opd-ai/go-orrery/pkg/entity"
	"github.com/opd-ai/go-orrery/pkg/logging"
	"github.com/opd-ai/go-orrery/pkg/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

// NewFromConfig builds the system, spacecraft and belts described by cfg.
// Planets and satellites get traces; the star has neither trace nor orbit
// line. The simulation is
// started when cfg asks for it.
func NewFromConfig(cfg *config.SystemConfig, logger *logging.Logger) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, logging.WrapError(err, "cannot build simulation")
	}

	sys := NewSystem()
	sim := cfg.Simulation

	star := sys.Add(newBody(cfg.Star, entity.KindStar, sim))
	star.HideOrbit()

	for _, pc := range cfg.Planets {
		planet := sys.Add(newBody(pc.BodyConfig, entity.KindPlanet, sim))
		planet.EnableTrace(sim.TracePoints, sim.TraceThreshold)
		if pc.Ring != nil {
			planet.Ring = &entity.Ring{
				InnerRadius: pc.Ring.InnerRadius,
				OuterRadius: pc.Ring.OuterRadius,
				Tilt:        r3.Vec{X: pc.Ring.TiltX, Y: pc.Ring.TiltY, Z: pc.Ring.TiltZ},
			}
		}
		if pc.CloudSize > 0 {
			planet.Clouds = &entity.Clouds{Size: pc.CloudSize, Orientation: physics.Identity}
		}

		for _, sc := range pc.Satellites {
			sat := newBody(sc.BodyConfig, entity.KindSatellite, sim)
			yOffset := sc.YOffset
			if yOffset == 0 {
				yOffset = 1
			}
			sys.AttachSatellite(planet, sat, yOffset)
			sat.EnableTrace(sim.TracePoints, sim.TraceThreshold)
		}
	}

	craft := entity.NewSpacecraft(cfg.Spacecraft.Name)
	craft.Speed = cfg.Spacecraft.Speed
	craft.PathPoints = cfg.Spacecraft.PathPoints

	s := NewSimulation(sys, craft, logger)
	s.Speed = sim.Speed
	s.MaxDelta = sim.MaxDelta
	for _, bc := range cfg.Belts {
		s.Belts = append(s.Belts, entity.NewBelt(
			r3.Vec{X: bc.CenterX, Y: bc.CenterY, Z: bc.CenterZ},
			physics.Ellipse{A: bc.SemiMajor, B: bc.SemiMinor},
			bc.Count,
		))
	}

	if sim.StartRunning {
		s.Start()
	}
	return s, nil
}

func newBody(bc config.BodyConfig, kind entity.Kind, sim config.SimulationConfig) *entity.Body {
	b := entity.NewBody(bc.Name, kind, bc.Radius, physics.Ellipse{A: bc.SemiMajor, B: bc.SemiMinor}, bc.PeriodDays)
	b.RotationSpeed = r3.Vec{Y: bc.RotationSpeed()}
	b.OrbitPoints = sim.OrbitPoints
	b.OrbitColor = bc.OrbitColor
	b.LabelColor = bc.LabelColor
	b.ShortDescription = bc.ShortDescription
	b.LongDescription = entity.Description{
		Title:      bc.Title,
		Paragraphs: append([]string(nil), bc.Paragraphs...),
	}
	for _, lc := range bc.Locations {
		b.AddLocation(lc.Name, lc.Latitude, lc.Longitude, lc.Size)
	}
	return b
}

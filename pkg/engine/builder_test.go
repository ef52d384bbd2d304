package engine

import (
	"errors"
	"testing"

	"github.com/opd-ai/go-orrery/pkg/config"
)

func TestNewFromConfig_DefaultCatalog(t *testing.T) {
	sim, err := NewFromConfig(config.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewFromConfig() error = %v", err)
	}

	sys := sim.System
	if sys.Len() != 13 {
		t.Errorf("got %d bodies, want 13", sys.Len())
	}
	if len(sys.Planets()) != 8 || len(sys.Satellites()) != 4 {
		t.Errorf("planets/satellites = %d/%d", len(sys.Planets()), len(sys.Satellites()))
	}

	earth, err := sys.ByName("Earth")
	if err != nil {
		t.Fatal(err)
	}
	if len(earth.Locations) != 20 || earth.Clouds == nil || earth.Trace == nil {
		t.Errorf("earth: %d locations, clouds %v, trace %v", len(earth.Locations), earth.Clouds, earth.Trace)
	}
	if earth.Trace.Len() != 75 || earth.OrbitPoints != 1024 {
		t.Errorf("earth trace/orbit points = %d/%d", earth.Trace.Len(), earth.OrbitPoints)
	}
	if earth.LongDescription.Title != "Our home - Earth" || len(earth.LongDescription.Paragraphs) != 2 {
		t.Errorf("earth description = %+v", earth.LongDescription)
	}
	if earth.RotationSpeed.Y <= 0 {
		t.Error("earth should spin")
	}

	moon, _ := sys.ByName("Moon")
	if moon.Parent != earth.ID || moon.Position.Y != 1.1 || moon.TraceVisible {
		t.Errorf("moon parent %d y %v traceVisible %v", moon.Parent, moon.Position.Y, moon.TraceVisible)
	}

	europa, _ := sys.ByName("Europa")
	if europa.Position.Y != 1 {
		t.Errorf("europa y offset = %v, want 1", europa.Position.Y)
	}

	saturn, _ := sys.ByName("Saturn")
	if saturn.Ring == nil || saturn.Ring.InnerRadius != 50 {
		t.Errorf("saturn ring = %+v", saturn.Ring)
	}

	if sys.Star().Trace != nil || sys.Star().OrbitVisible {
		t.Error("star should have neither trace nor orbit line")
	}
	if len(sim.Belts) != 5 || sim.Belts[2].Count != 70 {
		t.Errorf("belts = %d", len(sim.Belts))
	}
	if sim.Craft.Name != "Apollo 21" || sim.Craft.Speed != 0.4 || sim.Craft.PathPoints != 512 {
		t.Errorf("craft = %+v", sim.Craft)
	}
	if !sim.Running || sim.Speed != 86400 {
		t.Errorf("running %v speed %v", sim.Running, sim.Speed)
	}
}

func TestNewFromConfig_StartStopped(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Simulation.StartRunning = false

	sim, err := NewFromConfig(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if sim.Running {
		t.Error("simulation should start stopped")
	}
}

func TestNewFromConfig_Invalid(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Planets[0].Radius = 0

	if _, err := NewFromConfig(cfg, nil); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("NewFromConfig() error = %v, want ErrInvalidConfig", err)
	}
}

func TestNewFromConfig_RunsAYear(t *testing.T) {
	sim, err := NewFromConfig(config.DefaultConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	sim.Speed = 365 * 86400 / 10.0

	for i := 0; i < 100; i++ {
		sim.Update(0.1)
	}

	earth, _ := sim.System.ByName("Earth")
	start := earth.Orbit.A
	if d := earth.Position.X - start; d > 1e-6 || d < -1e-6 {
		t.Errorf("earth should be back at the start after one period, x off by %v", d)
	}
}

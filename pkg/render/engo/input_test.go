package engo

import (
	"testing"

	"github.com/opd-ai/go-orrery/pkg/config"
	"github.com/opd-ai/go-orrery/pkg/engine"
)

func newTestInput(t *testing.T, buttons ...string) (*InputSystem, *engine.Simulation) {
	t.Helper()
	sim, err := engine.NewFromConfig(config.DefaultConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	down := make(map[string]bool)
	for _, b := range buttons {
		down[b] = true
	}
	is := NewInputSystem(sim)
	is.pressed = func(button string) bool { return down[button] }
	return is, sim
}

func TestInputSystem_Commands(t *testing.T) {
	tests := []struct {
		name   string
		button string
		want   engine.Command
	}{
		{"toggle", buttonToggleRun, engine.SetSimulating{Running: false}},
		{"next target", buttonNextTarget, engine.CycleTarget{Forward: true}},
		{"previous target", buttonPrevTarget, engine.CycleTarget{Forward: false}},
		{"start", buttonSetStart, engine.SetStartingBody{Body: "Sun"}},
		{"destination", buttonSetDest, engine.SetDestinationBody{Body: "Sun"}},
		{"journey", buttonJourney, engine.BeginJourney{}},
		{"orbit mode", buttonOrbitMode, engine.SetOrbitDisplay{Group: engine.GroupPlanets, Mode: engine.OrbitTraces}},
		{"labels", buttonLabels, engine.SetLabelVisibility{Group: engine.GroupPlanets, Visible: false}},
		{"freeze", buttonFreeze, engine.SetFrozen{Group: engine.GroupPlanets, Frozen: true}},
		{"belts", buttonBelts, engine.SetBeltsVisible{Visible: false}},
		{"faster", buttonFaster, engine.SetSimulationSpeed{Speed: 172800}},
		{"slower", buttonSlower, engine.SetSimulationSpeed{Speed: 43200}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is, _ := newTestInput(t, tt.button)
			cmds := is.commands()
			if len(cmds) != 1 {
				t.Fatalf("got %d commands, want 1: %v", len(cmds), cmds)
			}
			if cmds[0] != tt.want {
				t.Errorf("command = %#v, want %#v", cmds[0], tt.want)
			}
		})
	}
}

func TestInputSystem_NothingPressed(t *testing.T) {
	is, _ := newTestInput(t)
	is.Update(0.016)
	if cmds := is.Drain(); len(cmds) != 0 {
		t.Errorf("expected no commands, got %v", cmds)
	}
}

func TestInputSystem_FasterFromStandstill(t *testing.T) {
	is, sim := newTestInput(t, buttonFaster)
	sim.Speed = 0

	cmds := is.commands()
	if len(cmds) != 1 || cmds[0] != (engine.SetSimulationSpeed{Speed: restartSpeed}) {
		t.Errorf("commands = %v", cmds)
	}
}

func TestInputSystem_QueueAndDrain(t *testing.T) {
	is, sim := newTestInput(t, buttonToggleRun)

	is.Update(0.016)
	is.Push(engine.CycleTarget{Forward: true})

	cmds := is.Drain()
	if len(cmds) != 2 {
		t.Fatalf("drained %d commands, want 2", len(cmds))
	}
	for _, cmd := range cmds {
		if err := sim.Apply(cmd); err != nil {
			t.Fatalf("apply %s: %v", cmd.Name(), err)
		}
	}
	if sim.Running {
		t.Error("simulation should be stopped")
	}
	if got := sim.Target(); got == nil || got.Name != "Mercury" {
		t.Errorf("target = %v, want Mercury", got)
	}
	if len(is.Drain()) != 0 {
		t.Error("queue should be empty after drain")
	}
}

func TestNextOrbitMode(t *testing.T) {
	tests := []struct {
		name         string
		orbit, trace bool
		want         engine.OrbitMode
	}{
		{"lines to traces", true, false, engine.OrbitTraces},
		{"traces to none", false, true, engine.OrbitNone},
		{"none to lines", false, false, engine.OrbitLines},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nextOrbitMode(tt.orbit, tt.trace); got != tt.want {
				t.Errorf("nextOrbitMode(%v, %v) = %v, want %v", tt.orbit, tt.trace, got, tt.want)
			}
		})
	}
}

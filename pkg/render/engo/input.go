// pkg/render/engo/input.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-orrery/pkg/engine"
)

// Button names
const (
	buttonToggleRun  = "toggleSimulation"
	buttonNextTarget = "nextTarget"
	buttonPrevTarget = "previousTarget"
	buttonSetStart   = "setStart"
	buttonSetDest    = "setDestination"
	buttonJourney    = "beginJourney"
	buttonOrbitMode  = "orbitMode"
	buttonLabels     = "labels"
	buttonBelts      = "belts"
	buttonFreeze     = "freeze"
	buttonFaster     = "faster"
	buttonSlower     = "slower"
)

// restartSpeed is used when speeding up from a standstill.
const restartSpeed = 1.0

// InputSystem turns key presses into simulation commands. Commands are
// queued and applied by the scene between frames.
type InputSystem struct {
	sim     *engine.Simulation
	pressed func(button string) bool
	queue   []engine.Command
}

// NewInputSystem creates an input system reading engo's buttons.
func NewInputSystem(sim *engine.Simulation) *InputSystem {
	return &InputSystem{
		sim: sim,
		pressed: func(button string) bool {
			return engo.Input.Button(button).JustPressed()
		},
	}
}

// Remove satisfies the ecs.System interface
func (is *InputSystem) Remove(basic ecs.BasicEntity) {}

// Update queues the commands for this frame's key presses.
func (is *InputSystem) Update(dt float32) {
	is.queue = append(is.queue, is.commands()...)
}

// Push queues a command as if it came from a key press.
func (is *InputSystem) Push(cmd engine.Command) {
	is.queue = append(is.queue, cmd)
}

// Drain returns and clears the queued commands.
func (is *InputSystem) Drain() []engine.Command {
	out := is.queue
	is.queue = nil
	return out
}

// commands maps pressed buttons to commands using the simulation's current
// state for toggles.
func (is *InputSystem) commands() []engine.Command {
	var cmds []engine.Command
	sim := is.sim

	if is.pressed(buttonToggleRun) {
		cmds = append(cmds, engine.SetSimulating{Running: !sim.Running})
	}
	if is.pressed(buttonNextTarget) {
		cmds = append(cmds, engine.CycleTarget{Forward: true})
	}
	if is.pressed(buttonPrevTarget) {
		cmds = append(cmds, engine.CycleTarget{Forward: false})
	}
	if target := sim.Target(); target != nil {
		if is.pressed(buttonSetStart) {
			cmds = append(cmds, engine.SetStartingBody{Body: target.Name})
		}
		if is.pressed(buttonSetDest) {
			cmds = append(cmds, engine.SetDestinationBody{Body: target.Name})
		}
	}
	if is.pressed(buttonJourney) {
		cmds = append(cmds, engine.BeginJourney{})
	}

	planets := sim.System.Planets()
	if len(planets) > 0 {
		first := planets[0]
		if is.pressed(buttonOrbitMode) {
			cmds = append(cmds, engine.SetOrbitDisplay{Group: engine.GroupPlanets, Mode: nextOrbitMode(first.OrbitVisible, first.TraceVisible)})
		}
		if is.pressed(buttonLabels) {
			cmds = append(cmds, engine.SetLabelVisibility{Group: engine.GroupPlanets, Visible: first.LabelHidden})
		}
		if is.pressed(buttonFreeze) {
			cmds = append(cmds, engine.SetFrozen{Group: engine.GroupPlanets, Frozen: !first.Fixed})
		}
	}
	if len(sim.Belts) > 0 && is.pressed(buttonBelts) {
		cmds = append(cmds, engine.SetBeltsVisible{Visible: sim.Belts[0].Hidden})
	}

	if is.pressed(buttonFaster) {
		speed := sim.Speed * 2
		if speed == 0 {
			speed = restartSpeed
		}
		cmds = append(cmds, engine.SetSimulationSpeed{Speed: speed})
	}
	if is.pressed(buttonSlower) {
		cmds = append(cmds, engine.SetSimulationSpeed{Speed: sim.Speed / 2})
	}

	return cmds
}

// nextOrbitMode cycles lines, traces, none.
func nextOrbitMode(orbitVisible, traceVisible bool) engine.OrbitMode {
	switch {
	case orbitVisible:
		return engine.OrbitTraces
	case traceVisible:
		return engine.OrbitNone
	default:
		return engine.OrbitLines
	}
}

// SetupInputBindings registers the orrery key bindings.
func SetupInputBindings() {
	engo.Input.RegisterButton(buttonToggleRun, engo.KeySpace)
	engo.Input.RegisterButton(buttonNextTarget, engo.KeyArrowRight)
	engo.Input.RegisterButton(buttonPrevTarget, engo.KeyArrowLeft)
	engo.Input.RegisterButton(buttonSetStart, engo.KeyS)
	engo.Input.RegisterButton(buttonSetDest, engo.KeyD)
	engo.Input.RegisterButton(buttonJourney, engo.KeyEnter, engo.KeyJ)
	engo.Input.RegisterButton(buttonOrbitMode, engo.KeyO)
	engo.Input.RegisterButton(buttonLabels, engo.KeyL)
	engo.Input.RegisterButton(buttonBelts, engo.KeyB)
	engo.Input.RegisterButton(buttonFreeze, engo.KeyF)
	engo.Input.RegisterButton(buttonFaster, engo.KeyX)
	engo.Input.RegisterButton(buttonSlower, engo.KeyZ)
}

// pkg/render/engo/scene.go
package engo

import (
	"context"
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-orrery/pkg/engine"
	"github.com/opd-ai/go-orrery/pkg/logging"
	"github.com/opd-ai/go-orrery/pkg/render"
)

// OrreryScene runs a simulation inside an Engo window. The simulation is
// only touched from Engo's update loop.
type OrreryScene struct {
	sim    *engine.Simulation
	loader *render.TextureLoader
	logger *logging.Logger

	world    *ecs.World
	renderer *EngoRenderer
	camera   *CameraSystem
	input    *InputSystem
	hud      *HUDSystem
}

// NewOrreryScene creates a scene for sim. Textures are read through
// loader, which may be nil.
func NewOrreryScene(sim *engine.Simulation, loader *render.TextureLoader, logger *logging.Logger) *OrreryScene {
	if logger == nil {
		logger = logging.Discard()
	}
	return &OrreryScene{
		sim:    sim,
		loader: loader,
		logger: logger,
	}
}

// Type returns the scene type (required by Engo)
func (scene *OrreryScene) Type() string {
	return "OrreryScene"
}

// Preload is called before the scene starts (required by Engo)
func (scene *OrreryScene) Preload() {}

// Setup builds the systems (required by Engo)
func (scene *OrreryScene) Setup(u engo.Updater) {
	world, _ := u.(*ecs.World)
	scene.world = world

	common.SetBackground(color.Black)
	SetupInputBindings()
	SetupCameraControls()

	renderSystem := &common.RenderSystem{}
	world.AddSystem(renderSystem)

	scene.camera = NewCameraSystem(engo.GameWidth(), engo.GameHeight())
	scene.input = NewInputSystem(scene.sim)
	scene.hud = NewHUDSystem(scene.sim)
	scene.renderer = NewEngoRenderer(renderSystem, NewAssetManager(scene.loader), scene.camera)

	world.AddSystem(scene.input)
	world.AddSystem(&simulationSystem{scene: scene})
	world.AddSystem(scene.camera)
	world.AddSystem(scene.hud)

	scene.logger.Info(context.Background(), "scene ready",
		"bodies", scene.sim.System.Len(),
		"width", engo.GameWidth(),
		"height", engo.GameHeight(),
	)
}

// step applies queued commands, advances the simulation by dt seconds,
// points the camera at the target and redraws.
func (scene *OrreryScene) step(dt float64) {
	for _, cmd := range scene.input.Drain() {
		_ = scene.sim.Apply(cmd)
	}

	scene.sim.Update(dt)

	if target := scene.sim.Target(); target != nil {
		scene.camera.Follow(scene.sim.System.WorldPosition(target))
	}
	scene.sim.Camera = scene.camera.Eye()

	scene.sim.Render(scene.renderer)
}

// Exit is called when the scene is exiting
func (scene *OrreryScene) Exit() {
	if scene.hud != nil {
		scene.hud.Close()
	}
	if scene.renderer != nil {
		scene.renderer.Remove()
	}
	scene.logger.Info(context.Background(), "scene closed", "frames", scene.sim.Frame)
}

// simulationSystem drives the scene once per Engo frame.
type simulationSystem struct {
	scene *OrreryScene
}

func (s *simulationSystem) Update(dt float32) {
	s.scene.step(float64(dt))
}

func (s *simulationSystem) Remove(ecs.BasicEntity) {}

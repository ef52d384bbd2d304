// pkg/render/engo/camera.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/opd-ai/go-orrery/pkg/physics"
)

// DefaultAltitude is the eye height above the x/z plane at zoom 1. Label
// fading uses the distance from this eye point.
const DefaultAltitude = 1000.0

// CameraSystem is a top-down view of the x/z plane that follows the
// current target body.
type CameraSystem struct {
	// Followed position
	target    physics.Vector2D
	targetSet bool

	// Pixels per world unit
	zoom    float64
	minZoom float64
	maxZoom float64

	// Smooth following
	followSpeed float64
	smoothing   bool

	currentPos physics.Vector2D
	positioned bool

	width  float32
	height float32
}

// NewCameraSystem creates a camera for a width x height pixel viewport.
func NewCameraSystem(width, height float32) *CameraSystem {
	return &CameraSystem{
		zoom:        1.0,
		minZoom:     0.01,
		maxZoom:     200,
		followSpeed: 2.0,
		smoothing:   true,
		width:       width,
		height:      height,
	}
}

// Remove satisfies the ecs.System interface
func (cs *CameraSystem) Remove(basic ecs.BasicEntity) {}

// Update reads zoom input and moves toward the target.
func (cs *CameraSystem) Update(dt float32) {
	cs.handleZoomInput()
	cs.SetViewport(engo.GameWidth(), engo.GameHeight())
	cs.step(dt)
}

func (cs *CameraSystem) handleZoomInput() {
	if scrollY := engo.Input.Mouse.ScrollY; scrollY != 0 {
		cs.SetZoom(cs.zoom * (1.0 + float64(scrollY)*0.1))
	}
	if engo.Input.Button("zoomIn").Down() {
		cs.SetZoom(cs.zoom * 1.02)
	}
	if engo.Input.Button("zoomOut").Down() {
		cs.SetZoom(cs.zoom * 0.98)
	}
	if engo.Input.Button("resetZoom").JustPressed() {
		cs.SetZoom(1.0)
	}
}

func (cs *CameraSystem) step(dt float32) {
	if !cs.targetSet {
		return
	}
	cs.updateCameraPosition(dt)
}

// updateCameraPosition moves the camera toward the target
func (cs *CameraSystem) updateCameraPosition(dt float32) {
	if !cs.smoothing {
		cs.currentPos = cs.target
		return
	}
	k := cs.followSpeed * float64(dt)
	if k > 1 {
		k = 1
	}
	cs.currentPos.X += (cs.target.X - cs.currentPos.X) * k
	cs.currentPos.Y += (cs.target.Y - cs.currentPos.Y) * k
}

// SetViewport sets the screen size in pixels. Zero sizes are ignored.
func (cs *CameraSystem) SetViewport(width, height float32) {
	if width > 0 && height > 0 {
		cs.width, cs.height = width, height
	}
}

// Follow sets the world point to keep centred. The first target snaps.
func (cs *CameraSystem) Follow(world r3.Vec) {
	cs.target = physics.PlaneOf(world)
	cs.targetSet = true
	if !cs.smoothing || !cs.positioned {
		cs.currentPos = cs.target
		cs.positioned = true
	}
}

// ClearTarget stops following.
func (cs *CameraSystem) ClearTarget() {
	cs.targetSet = false
}

// SetZoom sets pixels per world unit within the zoom limits.
func (cs *CameraSystem) SetZoom(zoom float64) {
	cs.zoom = cs.clampZoom(zoom)
}

// GetZoom returns the current zoom level
func (cs *CameraSystem) GetZoom() float64 {
	return cs.zoom
}

func (cs *CameraSystem) clampZoom(zoom float64) float64 {
	if zoom < cs.minZoom {
		return cs.minZoom
	}
	if zoom > cs.maxZoom {
		return cs.maxZoom
	}
	return zoom
}

// SetZoomLimits sets the minimum and maximum zoom levels
func (cs *CameraSystem) SetZoomLimits(min, max float64) {
	cs.minZoom = min
	cs.maxZoom = max
	cs.zoom = cs.clampZoom(cs.zoom)
}

// EnableSmoothing enables or disables camera smoothing
func (cs *CameraSystem) EnableSmoothing(enabled bool) {
	cs.smoothing = enabled
}

// GetCurrentPosition returns the point at the centre of the view.
func (cs *CameraSystem) GetCurrentPosition() physics.Vector2D {
	return cs.currentPos
}

// Eye returns the world position of the viewer: above the view centre at an
// altitude that shrinks as the zoom grows.
func (cs *CameraSystem) Eye() r3.Vec {
	return r3.Vec{X: cs.currentPos.X, Y: DefaultAltitude / cs.zoom, Z: cs.currentPos.Y}
}

// WorldToScreen projects a world point onto the screen. World z grows down
// the screen.
func (cs *CameraSystem) WorldToScreen(world r3.Vec) engo.Point {
	return engo.Point{
		X: float32((world.X-cs.currentPos.X)*cs.zoom) + cs.width/2,
		Y: float32((world.Z-cs.currentPos.Y)*cs.zoom) + cs.height/2,
	}
}

// ScreenToWorld maps a screen point back onto the x/z plane.
func (cs *CameraSystem) ScreenToWorld(p engo.Point) physics.Vector2D {
	return physics.Vector2D{
		X: float64(p.X-cs.width/2)/cs.zoom + cs.currentPos.X,
		Y: float64(p.Y-cs.height/2)/cs.zoom + cs.currentPos.Y,
	}
}

// PixelSize converts a world length to pixels.
func (cs *CameraSystem) PixelSize(world float64) float32 {
	return float32(world * cs.zoom)
}

// SetupCameraControls registers the zoom buttons.
func SetupCameraControls() {
	engo.Input.RegisterButton("zoomIn", engo.KeyArrowUp)
	engo.Input.RegisterButton("zoomOut", engo.KeyArrowDown)
	engo.Input.RegisterButton("resetZoom", engo.KeyR)
}

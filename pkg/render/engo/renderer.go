// pkg/render/engo/renderer.go
package engo

import (
	"context"
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/opd-ai/go-orrery/pkg/entity"
	"github.com/opd-ai/go-orrery/pkg/render"
)

// Draw order and marker density
const (
	zMarker = 1
	zBody   = 2
	zCraft  = 3

	// orbitStride draws every n-th orbit sample.
	orbitStride = 8
	// minBodyPixels keeps far-away bodies visible.
	minBodyPixels = 4
	craftPixels   = 12
)

var (
	traceColor    = color.RGBA{255, 255, 255, 160}
	pathColor     = color.RGBA{0, 255, 0, 255}
	asteroidColor = color.RGBA{160, 160, 160, 255}
)

// spriteSink is the part of common.RenderSystem the renderer uses.
type spriteSink interface {
	Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent)
	Remove(basic ecs.BasicEntity)
}

type sprite struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

// EngoRenderer implements entity.Renderer on top of an Engo render system.
// Sprites are created once and reused; anything not drawn in a frame is
// hidden by Present.
type EngoRenderer struct {
	sink   spriteSink
	assets *AssetManager
	camera *CameraSystem

	bodies    map[entity.ID]*sprite
	drawn     map[entity.ID]bool
	craft     *sprite
	craftSeen bool

	markers     []*sprite
	markersUsed int
}

// NewEngoRenderer creates a renderer that adds its sprites to sink.
func NewEngoRenderer(sink spriteSink, assets *AssetManager, camera *CameraSystem) *EngoRenderer {
	return &EngoRenderer{
		sink:   sink,
		assets: assets,
		camera: camera,
		bodies: make(map[entity.ID]*sprite),
		drawn:  make(map[entity.ID]bool),
	}
}

// Clear implements entity.Renderer
func (r *EngoRenderer) Clear() {
	r.markersUsed = 0
	r.craftSeen = false
	for id := range r.drawn {
		delete(r.drawn, id)
	}
}

// Present implements entity.Renderer. Sprites not drawn this frame are
// hidden.
func (r *EngoRenderer) Present() {
	for id, s := range r.bodies {
		s.Hidden = !r.drawn[id]
	}
	for i := r.markersUsed; i < len(r.markers); i++ {
		r.markers[i].Hidden = true
	}
	if r.craft != nil {
		r.craft.Hidden = !r.craftSeen
	}
}

// RenderBody implements entity.Renderer
func (r *EngoRenderer) RenderBody(body *entity.Body, world entity.Transform) {
	if body.Parent == entity.NoParent {
		c := render.NamedColor(BodyColor(body))
		if body.OrbitVisible {
			line := body.OrbitLine()
			for i := 0; i < len(line); i += orbitStride {
				r.placeMarker(line[i], c)
			}
		}
		if body.TraceVisible {
			for _, p := range body.TraceLine() {
				r.placeMarker(p, traceColor)
			}
		}
	}

	s := r.bodies[body.ID]
	if s == nil {
		s = r.newSprite(r.assets.BodySprite(context.Background(), body), zBody)
		r.bodies[body.ID] = s
	}

	size := r.camera.PixelSize(2 * body.Radius * world.Scale)
	if size < minBodyPixels {
		size = minBodyPixels
	}
	r.place(s, world.Position, size)
	r.drawn[body.ID] = true
}

// RenderSpacecraft implements entity.Renderer
func (r *EngoRenderer) RenderSpacecraft(craft *entity.Spacecraft) {
	for _, p := range craft.PathLine() {
		r.placeMarker(p, pathColor)
	}
	if r.craft == nil {
		r.craft = r.newSprite(r.assets.CraftSprite(), zCraft)
	}
	r.place(r.craft, craft.Position, craftPixels)
	r.craftSeen = true
}

// RenderBelt implements entity.Renderer
func (r *EngoRenderer) RenderBelt(belt *entity.Belt) {
	for _, p := range belt.Asteroids() {
		r.placeMarker(p, asteroidColor)
	}
}

// MarkersInUse returns how many marker sprites the last frame used.
func (r *EngoRenderer) MarkersInUse() int {
	return r.markersUsed
}

func (r *EngoRenderer) newSprite(d common.Drawable, z float32) *sprite {
	s := &sprite{BasicEntity: ecs.NewBasic()}
	s.RenderComponent = common.RenderComponent{
		Drawable: d,
		Scale:    engo.Point{X: 1, Y: 1},
		Color:    color.White,
	}
	s.RenderComponent.SetZIndex(z)
	r.sink.Add(&s.BasicEntity, &s.RenderComponent, &s.SpaceComponent)
	return s
}

// place centres s on a world point at size pixels.
func (r *EngoRenderer) place(s *sprite, world r3.Vec, size float32) {
	center := r.camera.WorldToScreen(world)
	s.Position = engo.Point{X: center.X - size/2, Y: center.Y - size/2}
	s.Width, s.Height = size, size
	if s.Drawable != nil && s.Drawable.Width() > 0 {
		k := size / s.Drawable.Width()
		s.Scale = engo.Point{X: k, Y: k}
	}
	s.Hidden = false
}

func (r *EngoRenderer) placeMarker(world r3.Vec, c color.RGBA) {
	if r.markersUsed == len(r.markers) {
		r.markers = append(r.markers, r.newSprite(r.assets.Marker(color.RGBA{255, 255, 255, 255}), zMarker))
	}
	m := r.markers[r.markersUsed]
	r.markersUsed++
	m.Color = c
	r.place(m, world, markerSize)
}

// Remove drops every sprite from the render system.
func (r *EngoRenderer) Remove() {
	for id, s := range r.bodies {
		r.sink.Remove(s.BasicEntity)
		delete(r.bodies, id)
	}
	for _, m := range r.markers {
		r.sink.Remove(m.BasicEntity)
	}
	r.markers = nil
	r.markersUsed = 0
	if r.craft != nil {
		r.sink.Remove(r.craft.BasicEntity)
		r.craft = nil
	}
}

var _ entity.Renderer = (*EngoRenderer)(nil)

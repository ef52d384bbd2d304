// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/opd-ai/go-orrery/pkg/entity"
	"github.com/opd-ai/go-orrery/pkg/logging"
)

// NullRenderer draws nothing and logs each call at debug level. It is the
// renderer used by the headless server.
type NullRenderer struct {
	logger *logging.Logger
	frames int
}

// NewNullRenderer creates a NullRenderer. A nil logger discards output.
func NewNullRenderer(logger *logging.Logger) *NullRenderer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &NullRenderer{logger: logger}
}

// Frames returns how many frames have been presented.
func (d *NullRenderer) Frames() int {
	return d.frames
}

// Clear implements entity.Renderer.
func (d *NullRenderer) Clear() {
	d.logger.Debug(context.Background(), "clear called")
}

// Present implements entity.Renderer.
func (d *NullRenderer) Present() {
	d.frames++
	d.logger.Debug(context.Background(), "present called", "frame", d.frames)
}

// RenderBody implements entity.Renderer.
func (d *NullRenderer) RenderBody(body *entity.Body, world entity.Transform) {
	ctx := context.Background()
	if body == nil {
		d.logger.Debug(ctx, "render body called with nil body")
		return
	}
	d.logger.Debug(ctx, "render body called",
		"body_id", body.ID,
		"body_name", body.Name,
		"kind", body.Kind.String(),
		"x", world.Position.X,
		"z", world.Position.Z,
	)
}

// RenderSpacecraft implements entity.Renderer.
func (d *NullRenderer) RenderSpacecraft(craft *entity.Spacecraft) {
	ctx := context.Background()
	if craft == nil {
		d.logger.Debug(ctx, "render spacecraft called with nil craft")
		return
	}
	d.logger.Debug(ctx, "render spacecraft called",
		"craft", craft.Name,
		"traveling", craft.Traveling(),
		"progress", craft.Progress(),
	)
}

// RenderBelt implements entity.Renderer.
func (d *NullRenderer) RenderBelt(belt *entity.Belt) {
	ctx := context.Background()
	if belt == nil {
		d.logger.Debug(ctx, "render belt called with nil belt")
		return
	}
	d.logger.Debug(ctx, "render belt called", "asteroids", belt.Count, "angle", belt.Angle)
}

var _ entity.Renderer = (*NullRenderer)(nil)

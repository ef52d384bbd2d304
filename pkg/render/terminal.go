package render

import (
	"io"
	"strings"
	"unicode"

	"github.com/opd-ai/go-orrery/pkg/entity"
	"github.com/opd-ai/go-orrery/pkg/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

// Terminal glyphs
const (
	glyphEmpty    = ' '
	glyphStar     = '*'
	glyphOrbit    = '.'
	glyphTrace    = ':'
	glyphAsteroid = ','
	glyphPath     = '+'
	glyphCraft    = '^'
)

// TerminalRenderer draws a top-down ASCII view of the x/z plane.
type TerminalRenderer struct {
	out       io.Writer
	width     int
	height    int
	buffer    [][]rune
	scale     float64
	centerPos physics.Vector2D
	// ANSI clears the terminal before each frame.
	ANSI bool
}

// NewTerminalRenderer creates a renderer of width x height cells where one
// cell spans scale world units.
func NewTerminalRenderer(out io.Writer, width, height int, scale float64) *TerminalRenderer {
	buffer := make([][]rune, height)
	for i := range buffer {
		buffer[i] = make([]rune, width)
	}

	r := &TerminalRenderer{
		out:    out,
		width:  width,
		height: height,
		buffer: buffer,
		scale:  scale,
	}
	r.Clear()
	return r
}

// SetCenter sets the world point shown in the middle of the view.
func (r *TerminalRenderer) SetCenter(pos physics.Vector2D) {
	r.centerPos = pos
}

// worldToScreen maps a world point to a cell. World z grows downwards.
func (r *TerminalRenderer) worldToScreen(p r3.Vec) (int, int) {
	x := (p.X-r.centerPos.X)/r.scale + float64(r.width)/2
	y := (p.Z-r.centerPos.Y)/r.scale + float64(r.height)/2
	return floor(x), floor(y)
}

func floor(f float64) int {
	i := int(f)
	if f < 0 && float64(i) != f {
		i--
	}
	return i
}

func (r *TerminalRenderer) inBounds(x, y int) bool {
	return x >= 0 && x < r.width && y >= 0 && y < r.height
}

// plot always writes the glyph.
func (r *TerminalRenderer) plot(p r3.Vec, glyph rune) {
	if x, y := r.worldToScreen(p); r.inBounds(x, y) {
		r.buffer[y][x] = glyph
	}
}

// plotBehind only writes into empty cells.
func (r *TerminalRenderer) plotBehind(p r3.Vec, glyph rune) {
	if x, y := r.worldToScreen(p); r.inBounds(x, y) && r.buffer[y][x] == glyphEmpty {
		r.buffer[y][x] = glyph
	}
}

// Clear implements entity.Renderer
func (r *TerminalRenderer) Clear() {
	for y := range r.buffer {
		for x := range r.buffer[y] {
			r.buffer[y][x] = glyphEmpty
		}
	}
}

// String returns the current frame with its border.
func (r *TerminalRenderer) String() string {
	var sb strings.Builder
	border := "+" + strings.Repeat("-", r.width) + "+\n"

	sb.WriteString(border)
	for y := range r.buffer {
		sb.WriteByte('|')
		sb.WriteString(string(r.buffer[y]))
		sb.WriteString("|\n")
	}
	sb.WriteString(border)
	return sb.String()
}

// Present implements entity.Renderer
func (r *TerminalRenderer) Present() {
	if r.out == nil {
		return
	}
	if r.ANSI {
		io.WriteString(r.out, "\033[H\033[2J")
	}
	io.WriteString(r.out, r.String())
}

// RenderBody implements entity.Renderer. Orbit lines and traces are drawn
// for bodies that orbit the origin; satellites only get their marker.
func (r *TerminalRenderer) RenderBody(body *entity.Body, world entity.Transform) {
	if body.Parent == entity.NoParent {
		if body.OrbitVisible {
			for _, p := range body.OrbitLine() {
				r.plotBehind(p, glyphOrbit)
			}
		}
		if body.TraceVisible {
			for _, p := range body.TraceLine() {
				r.plotBehind(p, glyphTrace)
			}
		}
	}
	r.plot(world.Position, bodyGlyph(body))
}

func bodyGlyph(b *entity.Body) rune {
	if b.Kind == entity.KindStar {
		return glyphStar
	}
	first := glyphOrbit
	for _, c := range b.Name {
		first = c
		break
	}
	if b.Kind == entity.KindSatellite {
		return unicode.ToLower(first)
	}
	return unicode.ToUpper(first)
}

// RenderSpacecraft implements entity.Renderer
func (r *TerminalRenderer) RenderSpacecraft(craft *entity.Spacecraft) {
	for _, p := range craft.PathLine() {
		r.plotBehind(p, glyphPath)
	}
	r.plot(craft.Position, glyphCraft)
}

// RenderBelt implements entity.Renderer
func (r *TerminalRenderer) RenderBelt(belt *entity.Belt) {
	for _, p := range belt.Asteroids() {
		r.plotBehind(p, glyphAsteroid)
	}
}

var _ entity.Renderer = (*TerminalRenderer)(nil)

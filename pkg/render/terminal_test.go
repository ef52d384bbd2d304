package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/opd-ai/go-orrery/pkg/entity"
	"github.com/opd-ai/go-orrery/pkg/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

func at(x, z float64) entity.Transform {
	return entity.Transform{Position: r3.Vec{X: x, Z: z}, Orientation: physics.Identity, Scale: 1}
}

func TestNewTerminalRenderer_Dimensions(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
	}{
		{"small", 10, 5},
		{"standard", 80, 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewTerminalRenderer(nil, tt.width, tt.height, 1)
			lines := strings.Split(strings.TrimSuffix(r.String(), "\n"), "\n")
			if len(lines) != tt.height+2 {
				t.Fatalf("got %d lines, want %d", len(lines), tt.height+2)
			}
			for i, line := range lines {
				if len(line) != tt.width+2 {
					t.Errorf("line %d has width %d, want %d", i, len(line), tt.width+2)
				}
			}
		})
	}
}

func TestTerminalRenderer_WorldToScreen(t *testing.T) {
	r := NewTerminalRenderer(nil, 20, 10, 2)
	tests := []struct {
		name  string
		p     r3.Vec
		wantX int
		wantY int
	}{
		{"origin", r3.Vec{}, 10, 5},
		{"positive x", r3.Vec{X: 4}, 12, 5},
		{"positive z", r3.Vec{Z: 4}, 10, 7},
		{"negative", r3.Vec{X: -1, Z: -1}, 9, 4},
		{"height ignored", r3.Vec{Y: 100}, 10, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := r.worldToScreen(tt.p)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("worldToScreen(%v) = (%d, %d), want (%d, %d)", tt.p, x, y, tt.wantX, tt.wantY)
			}
		})
	}

	r.SetCenter(physics.Vector2D{X: 4, Y: 4})
	if x, y := r.worldToScreen(r3.Vec{X: 4, Z: 4}); x != 10 || y != 5 {
		t.Errorf("centered point at (%d, %d), want (10, 5)", x, y)
	}
}

func TestTerminalRenderer_Glyphs(t *testing.T) {
	r := NewTerminalRenderer(nil, 21, 11, 1)

	star := entity.NewBody("Sun", entity.KindStar, 1, physics.Ellipse{}, 0)
	planet := entity.NewBody("mars", entity.KindPlanet, 1, physics.Ellipse{A: 5, B: 5}, 687)
	moon := entity.NewBody("Phobos", entity.KindSatellite, 1, physics.Ellipse{A: 1, B: 1}, 1)
	moon.Parent = 1

	r.RenderBody(star, at(0, 0))
	r.RenderBody(planet, at(5, 0))
	r.RenderBody(moon, at(6, 0))

	rows := r.buffer
	if got := rows[5][10]; got != glyphStar {
		t.Errorf("star glyph = %q", got)
	}
	if got := rows[5][15]; got != 'M' {
		t.Errorf("planet glyph = %q, want 'M'", got)
	}
	if got := rows[5][16]; got != 'p' {
		t.Errorf("satellite glyph = %q, want 'p'", got)
	}

	r.Clear()
	if strings.ContainsAny(r.String(), "*Mp") {
		t.Error("Clear left glyphs behind")
	}
}

func TestTerminalRenderer_OrbitBehindBodies(t *testing.T) {
	r := NewTerminalRenderer(nil, 21, 11, 1)

	star := entity.NewBody("Sun", entity.KindStar, 1, physics.Ellipse{}, 0)
	planet := entity.NewBody("Venus", entity.KindPlanet, 1, physics.Ellipse{A: 4, B: 4}, 225)
	planet.OrbitPoints = 64

	r.RenderBody(star, at(0, 0))
	r.RenderBody(planet, at(4, 0))

	if got := r.buffer[5][14]; got != 'V' {
		t.Errorf("planet glyph overwritten: %q", got)
	}
	if got := r.buffer[5][10]; got != glyphStar {
		t.Errorf("star glyph overwritten: %q", got)
	}
	if !strings.ContainsRune(r.String(), glyphOrbit) {
		t.Error("orbit line not drawn")
	}

	planet.HideOrbit()
	r.Clear()
	r.RenderBody(planet, at(4, 0))
	if strings.ContainsRune(r.String(), glyphOrbit) {
		t.Error("hidden orbit drawn")
	}
}

func TestTerminalRenderer_OutOfBoundsIgnored(t *testing.T) {
	r := NewTerminalRenderer(nil, 5, 5, 1)
	planet := entity.NewBody("Far", entity.KindPlanet, 1, physics.Ellipse{A: 100, B: 100}, 1)
	planet.HideOrbit()

	r.RenderBody(planet, at(100, 100))
	r.RenderBody(planet, at(-100, -100))
	if strings.ContainsRune(r.String(), 'F') {
		t.Error("out-of-bounds body drawn")
	}
}

func TestTerminalRenderer_BeltAndCraft(t *testing.T) {
	r := NewTerminalRenderer(nil, 31, 31, 1)

	r.RenderBelt(entity.NewBelt(r3.Vec{}, physics.Ellipse{A: 10, B: 10}, 8))
	craft := entity.NewSpacecraft("Apollo")
	craft.Position = r3.Vec{X: 3, Z: 3}
	r.RenderSpacecraft(craft)

	if got := r.buffer[15][25]; got != glyphAsteroid {
		t.Errorf("asteroid at (10, 0) = %q", got)
	}
	if got := r.buffer[18][18]; got != glyphCraft {
		t.Errorf("craft glyph = %q", got)
	}
}

func TestTerminalRenderer_Present(t *testing.T) {
	var out bytes.Buffer
	r := NewTerminalRenderer(&out, 4, 2, 1)
	r.Present()
	if out.String() != r.String() {
		t.Errorf("Present wrote %q", out.String())
	}

	out.Reset()
	r.ANSI = true
	r.Present()
	if !strings.HasPrefix(out.String(), "\033[H\033[2J") {
		t.Error("ANSI clear sequence missing")
	}

	NewTerminalRenderer(nil, 4, 2, 1).Present()
}

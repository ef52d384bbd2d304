// pkg/render/renderer_test.go
package render

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/opd-ai/go-orrery/pkg/entity"
	"github.com/opd-ai/go-orrery/pkg/logging"
	"github.com/opd-ai/go-orrery/pkg/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

func newLoggedRenderer() (*NullRenderer, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewNullRenderer(logging.NewLoggerWithWriter(&buf, slog.LevelDebug)), &buf
}

func TestNullRenderer_LogsCalls(t *testing.T) {
	tests := []struct {
		name     string
		call     func(r *NullRenderer)
		expected []string
	}{
		{
			name:     "clear",
			call:     func(r *NullRenderer) { r.Clear() },
			expected: []string{"clear called"},
		},
		{
			name:     "present",
			call:     func(r *NullRenderer) { r.Present() },
			expected: []string{"present called", `"frame":1`},
		},
		{
			name: "body",
			call: func(r *NullRenderer) {
				b := entity.NewBody("Mars", entity.KindPlanet, 1, physics.Ellipse{A: 10, B: 10}, 687)
				r.RenderBody(b, entity.Transform{Position: r3.Vec{X: 10}, Orientation: physics.Identity, Scale: 1})
			},
			expected: []string{"render body called", `"body_name":"Mars"`, `"kind":"planet"`, `"x":10`},
		},
		{
			name:     "nil body",
			call:     func(r *NullRenderer) { r.RenderBody(nil, entity.Transform{}) },
			expected: []string{"nil body"},
		},
		{
			name:     "spacecraft",
			call:     func(r *NullRenderer) { r.RenderSpacecraft(entity.NewSpacecraft("Apollo 21")) },
			expected: []string{"render spacecraft called", `"craft":"Apollo 21"`, `"traveling":false`},
		},
		{
			name:     "belt",
			call:     func(r *NullRenderer) { r.RenderBelt(entity.NewBelt(r3.Vec{}, physics.Ellipse{A: 5, B: 5}, 12)) },
			expected: []string{"render belt called", `"asteroids":12`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, buf := newLoggedRenderer()
			tt.call(r)
			out := buf.String()
			for _, want := range tt.expected {
				if !strings.Contains(out, want) {
					t.Errorf("log output %q missing %q", out, want)
				}
			}
		})
	}
}

func TestNullRenderer_CountsFrames(t *testing.T) {
	r := NewNullRenderer(nil)
	for i := 0; i < 3; i++ {
		r.Clear()
		r.Present()
	}
	if r.Frames() != 3 {
		t.Errorf("Frames() = %d, want 3", r.Frames())
	}
}

func TestNullRenderer_QuietAtInfo(t *testing.T) {
	var buf bytes.Buffer
	r := NewNullRenderer(logging.NewLoggerWithWriter(&buf, slog.LevelInfo))
	r.Clear()
	r.Present()
	if buf.Len() != 0 {
		t.Errorf("expected no output at info level, got %q", buf.String())
	}
}

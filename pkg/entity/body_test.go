// pkg/entity/body_test.go
package entity

import (
	"math"
	"testing"

	"github.com/opd-ai/go-orrery/pkg/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

func newTracedBody(a, b, period float64) *Body {
	body := NewBody("Test", KindPlanet, 1, physics.Ellipse{A: a, B: b}, period)
	body.EnableTrace(DefaultTracePoints, DefaultTraceThreshold)
	return body
}

func TestNewBody_Defaults(t *testing.T) {
	b := NewBody("Earth", KindPlanet, 6.371, physics.Ellipse{A: 1196.784, B: 1176.76}, 365)

	if b.Position != (r3.Vec{X: 1196.784}) {
		t.Errorf("initial position = %v, expected (a, 0, 0)", b.Position)
	}
	if b.Parent != NoParent || b.Scale != 1 || !b.Rotating {
		t.Errorf("unexpected defaults: parent=%v scale=%v rotating=%v", b.Parent, b.Scale, b.Rotating)
	}
	if b.Label.Offset != 6 || b.Label.FontSize != 24 {
		t.Errorf("planet label style = %+v", b.Label.LabelStyle)
	}
	if b.OrbitPoints != DefaultOrbitPoints {
		t.Errorf("OrbitPoints = %d", b.OrbitPoints)
	}
}

func TestBody_SetPeriod(t *testing.T) {
	tests := []struct {
		name           string
		period         float64
		expectedPeriod float64
	}{
		{"zero_normalised", 0, 1},
		{"moon", 27.3, 27.3},
		{"neptune", 60190, 60190},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBody("X", KindPlanet, 1, physics.Ellipse{A: 1, B: 1}, 5)
			b.SetPeriod(tt.period)
			if b.Period() != tt.expectedPeriod {
				t.Errorf("Period() = %v, expected %v", b.Period(), tt.expectedPeriod)
			}
			want := 2 * math.Pi / tt.expectedPeriod / 86400
			if math.Abs(b.AngularSpeed()-want) > 1e-20 {
				t.Errorf("AngularSpeed() = %v, expected %v", b.AngularSpeed(), want)
			}
		})
	}
}

func TestBody_Periodicity(t *testing.T) {
	tests := []struct {
		name   string
		a, b   float64
		period float64
		speed  float64
	}{
		{"unit_day", 10, 5, 1, 1},
		{"earth_fast", 1196.784, 1176.76, 365, 86400},
		{"mercury_slow", 558.56, 392, 88, 3600},
		{"moon", 3.8226, 3.8226, 27.3, 100000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := NewBody("P", KindPlanet, 1, physics.Ellipse{A: tt.a, B: tt.b}, tt.period)
			body.Advance(0.37, tt.speed)
			start := body.Position

			body.Advance(tt.period*86400/tt.speed, tt.speed)

			tol := 1e-9 * math.Max(tt.a, 1)
			if math.Abs(body.Position.X-start.X) > tol || math.Abs(body.Position.Z-start.Z) > tol {
				t.Errorf("after one period position = %v, expected %v", body.Position, start)
			}
		})
	}
}

func TestBody_HalfPeriodScenario(t *testing.T) {
	body := newTracedBody(10, 5, 100)
	body.Advance(50, 86400)

	if body.TimeElapsed != 50*86400 {
		t.Errorf("TimeElapsed = %v, expected %v", body.TimeElapsed, 50*86400)
	}
	want := r3.Vec{X: 10 * math.Cos(-math.Pi), Z: 5 * math.Sin(-math.Pi)}
	if !physics.ApproxEqual(body.Position, want, 1e-9) {
		t.Errorf("Position = %v, expected %v", body.Position, want)
	}
	if !physics.ApproxEqual(body.Position, r3.Vec{X: -10}, 1e-9) {
		t.Errorf("Position = %v, expected about (-10, 0, 0)", body.Position)
	}
}

func TestBody_FreezeIsBitStable(t *testing.T) {
	body := newTracedBody(100, 80, 30)
	body.RotationSpeed = r3.Vec{X: 1e-5, Y: 3e-5, Z: 2e-6}
	body.Clouds = &Clouds{Size: 1.01, Orientation: physics.Identity}
	for i := 0; i < 10; i++ {
		body.Advance(0.016, 86400)
	}

	body.Freeze()
	elapsed := body.TimeElapsed
	pos := body.Position
	orient := body.Orientation
	clouds := body.Clouds.Orientation
	trace := body.Trace.Samples()

	for i := 0; i < 1000; i++ {
		if change := body.Advance(0.016*float64(i), 1e6); change != TraceUnchanged {
			t.Fatalf("frozen body reported trace change %v", change)
		}
	}

	if body.TimeElapsed != elapsed {
		t.Errorf("TimeElapsed changed: %v -> %v", elapsed, body.TimeElapsed)
	}
	if body.Position != pos {
		t.Errorf("Position changed: %v -> %v", pos, body.Position)
	}
	if body.Orientation != orient {
		t.Errorf("Orientation changed: %v -> %v", orient, body.Orientation)
	}
	if body.Clouds.Orientation != clouds {
		t.Error("cloud layer turned while frozen")
	}
	for i, s := range body.Trace.Samples() {
		if s != trace[i] {
			t.Fatalf("trace sample %d changed while frozen", i)
		}
	}

	body.Unfreeze()
	body.Advance(0.016, 86400)
	if body.TimeElapsed == elapsed {
		t.Error("unfrozen body did not advance")
	}
}

func TestBody_TraceCapacityIsFixed(t *testing.T) {
	body := newTracedBody(50, 40, 10)
	speeds := []float64{1, 86400, 5e6, 86400, 1, 3e5, 1e7, 100}

	for i := 0; i < 400; i++ {
		speed := speeds[i%len(speeds)]
		body.Advance(0.05*float64(i%7+1), speed)
		if got := body.Trace.Len(); got != DefaultTracePoints {
			t.Fatalf("step %d: trace length %d, expected %d", i, got, DefaultTracePoints)
		}
		if got := len(body.Trace.Samples()); got != DefaultTracePoints {
			t.Fatalf("step %d: %d samples, expected %d", i, got, DefaultTracePoints)
		}
	}
}

func TestBody_TraceTransitionShowsEllipse(t *testing.T) {
	body := newTracedBody(10, 5, 1)
	// Move the tail away from the start so the rewrite is observable.
	body.Advance(1000, 1)

	// 2·S ≥ P·86400 switches to the analytic ellipse.
	speed := 86400.0 / 2
	if change := body.Advance(0.016, speed); change != TraceEnteredTransition {
		t.Fatalf("change = %v, expected TraceEnteredTransition", change)
	}
	if !body.Trace.Transitioning() {
		t.Fatal("trace not marked transitioning")
	}

	n := body.Trace.Len()
	for i, s := range body.Trace.Samples() {
		theta := float64(i) / float64(n) * 2 * math.Pi
		want := physics.Vector2D{X: 10 * math.Cos(theta), Y: 5 * math.Sin(theta)}
		if s.Distance(want) > 1e-12 {
			t.Errorf("slot %d = %v, expected %v", i, s, want)
		}
	}

	if change := body.Advance(0.016, speed); change != TraceHeldTransition {
		t.Errorf("second fast frame change = %v, expected TraceHeldTransition", change)
	}
}

func TestBody_TraceLeavesTransitionBySnapping(t *testing.T) {
	body := newTracedBody(10, 5, 1)
	body.Advance(0.016, 86400)
	if !body.Trace.Transitioning() {
		t.Fatal("expected transition")
	}

	// Slow again, but far enough along the orbit to pass the threshold.
	var change TraceChange
	for i := 0; i < 100 && change == TraceUnchanged; i++ {
		change = body.Advance(600, 1)
	}
	if change != TraceLeftTransition {
		t.Fatalf("change = %v, expected TraceLeftTransition", change)
	}
	if body.Trace.Transitioning() {
		t.Error("transition flag not cleared")
	}
	want := physics.PlaneOf(body.Position)
	for i, s := range body.Trace.Samples() {
		if s != want {
			t.Fatalf("slot %d = %v, expected every slot at %v", i, s, want)
		}
	}
}

func TestBody_TraceSlidingWindow(t *testing.T) {
	body := newTracedBody(100, 80, 10)
	// Fill the window with distinct samples.
	for i := 0; i < 2*DefaultTracePoints; i++ {
		body.Advance(600, 10)
	}

	before := body.Trace.Samples()
	if change := body.Advance(600, 10); change != TraceAppended {
		t.Fatalf("change = %v, expected TraceAppended", change)
	}
	after := body.Trace.Samples()

	for i := 0; i < len(after)-1; i++ {
		if after[i] != before[i+1] {
			t.Fatalf("slot %d = %v, expected previous slot %d = %v", i, after[i], i+1, before[i+1])
		}
	}
	if got, want := after[len(after)-1], physics.PlaneOf(body.Position); got != want {
		t.Errorf("newest sample = %v, expected current position %v", got, want)
	}
}

func TestBody_TraceSkipsSmallMoves(t *testing.T) {
	body := newTracedBody(100, 80, 365)
	before := body.Trace.Samples()

	// One simulated second barely moves a year-long orbit.
	if change := body.Advance(1, 1); change != TraceUnchanged {
		t.Fatalf("change = %v, expected TraceUnchanged", change)
	}
	for i, s := range body.Trace.Samples() {
		if s != before[i] {
			t.Fatalf("slot %d changed below threshold", i)
		}
	}
}

func TestBody_RotationAccumulates(t *testing.T) {
	body := NewBody("Spinner", KindPlanet, 1, physics.Ellipse{}, 1)
	body.RotationSpeed = r3.Vec{Y: math.Pi / 4}

	for i := 0; i < 4; i++ {
		body.Advance(1, 1)
	}
	if got := body.Orientation.Rotate(physics.AxisX); !physics.ApproxEqual(got, r3.Vec{X: -1}, 1e-9) {
		t.Errorf("after a half turn +x maps to %v", got)
	}

	body.Rotating = false
	o := body.Orientation
	body.Advance(1, 1)
	if body.Orientation != o {
		t.Error("non-rotating body turned")
	}
}

func TestBody_CloudsSpinFaster(t *testing.T) {
	body := NewBody("Earth", KindPlanet, 1, physics.Ellipse{}, 1)
	body.RotationSpeed = r3.Vec{Y: 0.1}
	body.Clouds = &Clouds{Size: 1.01, Orientation: physics.Identity}

	body.Advance(1, 1)

	if got := body.Orientation.Angle(); math.Abs(got-0.1) > 1e-9 {
		t.Errorf("body turned %v, expected 0.1", got)
	}
	if got := body.Clouds.Orientation.Angle(); math.Abs(got-0.24) > 1e-9 {
		t.Errorf("clouds turned %v, expected 0.24", got)
	}
}

func TestBody_Visibility(t *testing.T) {
	body := newTracedBody(10, 10, 1)
	body.AddLocation("Skopje", 41.9981, 21.4254, 0.06)
	body.ShowTrace()

	body.Hide()
	if !body.Hidden || !body.LabelHidden || body.OrbitVisible || body.TraceVisible {
		t.Errorf("Hide left something visible: %+v", body)
	}
	if !body.Locations[0].Hidden {
		t.Error("Hide did not hide location labels")
	}

	body.Show()
	if body.Hidden || body.LabelHidden || body.Locations[0].Hidden {
		t.Error("Show did not restore body, label and locations")
	}
	if body.OrbitVisible || body.TraceVisible {
		t.Error("Show should not bring back orbit line or trace")
	}
}

func TestBody_ShowTraceWithoutTrace(t *testing.T) {
	body := NewBody("Sun", KindStar, 126, physics.Ellipse{}, 0)
	body.ShowTrace()
	if body.TraceVisible {
		t.Error("body without a trace cannot show one")
	}
	if body.TraceLine() != nil {
		t.Error("TraceLine() should be nil without a trace")
	}
}

func TestBody_OrbitLine(t *testing.T) {
	body := NewBody("Moon", KindSatellite, 1, physics.Ellipse{A: 4, B: 3}, 27.3)
	body.Position.Y = 1.1

	line := body.OrbitLine()
	if len(line) != DefaultOrbitPoints+1 {
		t.Fatalf("orbit line has %d points, expected %d", len(line), DefaultOrbitPoints+1)
	}
	for _, p := range line {
		if p.Y != 1.1 {
			t.Fatalf("orbit point %v not at body height", p)
		}
	}
	if !physics.ApproxEqual(line[0], line[len(line)-1], 1e-9) {
		t.Error("orbit line is not closed")
	}
}

func TestBody_LabelVisible(t *testing.T) {
	body := NewBody("Mars", KindPlanet, 1, physics.Ellipse{A: 1, B: 1}, 1)
	if !body.LabelVisible() {
		t.Fatal("fresh body should show its label")
	}

	body.Label.Fade(10)
	if body.LabelVisible() {
		t.Error("label should fade inside the minimum distance")
	}
	body.Label.Fade(100)
	body.Label.Occlude(1)
	if body.LabelVisible() {
		t.Error("occluded label should be hidden")
	}
	body.Label.Occlude(0)
	body.HideLabel()
	if body.LabelVisible() {
		t.Error("user-hidden label should be hidden")
	}
}

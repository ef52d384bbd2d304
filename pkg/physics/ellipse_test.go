package physics

import (
	"math"
	"testing"
)

func TestEllipse_Position(t *testing.T) {
	e := Ellipse{A: 10, B: 5}
	speed := AngularSpeed(100)
	periodSeconds := 100 * SecondsPerDay

	tests := []struct {
		name     string
		elapsed  float64
		expected Vector2D
	}{
		{"start", 0, Vector2D{X: 10, Y: 0}},
		{"quarter", periodSeconds / 4, Vector2D{X: 0, Y: -5}},
		{"half", periodSeconds / 2, Vector2D{X: -10, Y: 0}},
		{"full", periodSeconds, Vector2D{X: 10, Y: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Position(tt.elapsed, speed)
			if got.Distance(tt.expected) > 1e-9 {
				t.Errorf("Position(%v) = %v, expected %v", tt.elapsed, got, tt.expected)
			}
		})
	}
}

func TestAngularSpeed(t *testing.T) {
	tests := []struct {
		name     string
		period   float64
		expected float64
	}{
		{"one_day", 1, 2 * math.Pi / 86400},
		{"zero_is_one_day", 0, 2 * math.Pi / 86400},
		{"earth_year", 365.256, 2 * math.Pi / 365.256 / 86400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AngularSpeed(tt.period); math.Abs(got-tt.expected) > 1e-18 {
				t.Errorf("AngularSpeed(%v) = %v, expected %v", tt.period, got, tt.expected)
			}
		})
	}
}

func TestEllipse_SampleAndOutline(t *testing.T) {
	e := Ellipse{A: 4, B: 2}

	samples := e.Sample(8)
	if len(samples) != 8 {
		t.Fatalf("Sample(8) returned %d points", len(samples))
	}
	for i, s := range samples {
		theta := float64(i) / 8 * 2 * math.Pi
		if s.Distance(Vector2D{X: 4 * math.Cos(theta), Y: 2 * math.Sin(theta)}) > 1e-12 {
			t.Errorf("sample %d = %v not on ellipse at %v", i, s, theta)
		}
	}

	outline := e.Outline(1024)
	if len(outline) != 1025 {
		t.Fatalf("Outline(1024) returned %d points", len(outline))
	}
	if outline[0].Distance(outline[1024]) > 1e-9 {
		t.Errorf("outline not closed: %v != %v", outline[0], outline[1024])
	}

	if e.Sample(0) != nil || e.Outline(-1) != nil {
		t.Error("non-positive counts should return nil")
	}
}

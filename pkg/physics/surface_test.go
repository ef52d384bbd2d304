package physics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestSurfacePoint(t *testing.T) {
	tests := []struct {
		name      string
		lat, long float64
		expected  r3.Vec
	}{
		{"origin_meridian", 0, 0, r3.Vec{X: 2}},
		{"north_pole", 90, 0, r3.Vec{Y: 2}},
		{"east_90", 0, 90, r3.Vec{Z: -2}},
		{"west_90", 0, -90, r3.Vec{Z: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SurfacePoint(tt.lat, tt.long, 2)
			if !ApproxEqual(got, tt.expected, 1e-12) {
				t.Errorf("SurfacePoint(%v, %v) = %v, expected %v", tt.lat, tt.long, got, tt.expected)
			}
		})
	}
}

func TestSurfacePoint_OnSphere(t *testing.T) {
	for _, c := range [][2]float64{{52.52, 13.405}, {-33.87, 151.21}, {40.71, -74.0}} {
		p := SurfacePoint(c[0], c[1], 3.5)
		if math.Abs(r3.Norm(p)-3.5) > 1e-12 {
			t.Errorf("SurfacePoint(%v) has radius %v", c, r3.Norm(p))
		}
	}
}

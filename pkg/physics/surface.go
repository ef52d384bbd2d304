package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// SurfacePoint places a latitude/longitude pair, in degrees, on a sphere of
// the given radius. Longitude grows westward in scene space, matching how
// planet textures are wrapped.
func SurfacePoint(latitude, longitude, radius float64) r3.Vec {
	lat := latitude * math.Pi / 180
	lon := -longitude * math.Pi / 180
	sinLat, cosLat := math.Sincos(lat)
	sinLon, cosLon := math.Sincos(lon)
	return r3.Vec{
		X: cosLat * cosLon * radius,
		Y: sinLat * radius,
		Z: cosLat * sinLon * radius,
	}
}

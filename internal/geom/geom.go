// Package geom provides the coordinate types and pure geometry helpers shared by the
// pointer control loop.
package geom

import "math"

// NormalizedPoint is a position in [0,1]x[0,1] relative to the sensor frame, origin top-left,
// already mirrored so that it matches what the user sees.
type NormalizedPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SurfacePoint is an integer pixel position on a surface (the screen, or the sensor frame).
type SurfacePoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p offset by (dx, dy).
func (p SurfacePoint) Add(dx, dy int) SurfacePoint {
	return SurfacePoint{X: p.X + dx, Y: p.Y + dy}
}

// Distance returns the Euclidean distance between two pixel positions.
func Distance(a, b SurfacePoint) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}

// Diagonal returns the length of the diagonal of a width x height frame.
func Diagonal(width, height int) float64 {
	return math.Hypot(float64(width), float64(height))
}

// Clamp limits p to [0, width-1] x [0, height-1].
func Clamp(p SurfacePoint, width, height int) SurfacePoint {
	return SurfacePoint{
		X: clampInt(p.X, 0, width-1),
		Y: clampInt(p.Y, 0, height-1),
	}
}

// NormalizedToSurface scales p onto a width x height surface, truncating toward zero
// and clamping to the surface bounds.
func NormalizedToSurface(p NormalizedPoint, width, height int) SurfacePoint {
	return Clamp(ToPixels(p, width, height), width, height)
}

// ToPixels scales p into frame pixels without clamping. Detectors report landmarks slightly
// outside the frame when a fingertip leaves it; those values are kept as-is.
func ToPixels(p NormalizedPoint, width, height int) SurfacePoint {
	return SurfacePoint{
		X: int(p.X * float64(width)),
		Y: int(p.Y * float64(height)),
	}
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package tracking

import (
	"math"

	"github.com/ayusman/airmouse/internal/geom"
)

// DefaultDeadzone is the default fraction of the surface size below which motion is ignored.
const DefaultDeadzone = 0.02

// Gate suppresses pointer moves that are too small to be intentional.
type Gate struct {
	// Deadzone is a fraction of surface width (x axis) and height (y axis).
	Deadzone float64
}

// Exceeded reports whether target is far enough from current, on either axis, to move the
// pointer. Distances are measured as a fraction of the surface dimension for that axis.
func (g Gate) Exceeded(target, current geom.SurfacePoint, width, height int) bool {
	fx := math.Abs(float64(target.X-current.X)) / float64(width)
	fy := math.Abs(float64(target.Y-current.Y)) / float64(height)
	return fx > g.Deadzone || fy > g.Deadzone
}

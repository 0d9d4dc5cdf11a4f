//go:build cgo

package actuator

import (
	"fmt"

	"github.com/go-vgo/robotgo"

	"github.com/ayusman/airmouse/internal/control"
	"github.com/ayusman/airmouse/internal/geom"
)

// System drives the host pointer through robotgo.
type System struct {
	width  int
	height int
}

// NewSystem returns an Actuator for the primary display.
func NewSystem() (*System, error) {
	w, h := robotgo.GetScreenSize()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: screen size %dx%d", ErrNoDisplay, w, h)
	}
	return &System{width: w, height: h}, nil
}

// Size returns the primary display size in pixels.
func (s *System) Size() (width, height int) {
	return s.width, s.height
}

// Position returns the real pointer position.
func (s *System) Position() geom.SurfacePoint {
	x, y := robotgo.Location()
	return geom.SurfacePoint{X: x, Y: y}
}

// MoveTo moves the pointer without animation.
func (s *System) MoveTo(p geom.SurfacePoint) error {
	robotgo.Move(p.X, p.Y)
	return nil
}

// Click clicks b.
func (s *System) Click(b control.Button) error {
	switch b {
	case control.ButtonLeft:
		robotgo.Click("left")
	case control.ButtonRight:
		robotgo.Click("right")
	default:
		return fmt.Errorf("unsupported button %v", b)
	}
	return nil
}

// Scroll scrolls the wheel vertically.
func (s *System) Scroll(amount int) error {
	if amount != 0 {
		robotgo.Scroll(0, amount)
	}
	return nil
}

//go:build !cgo

package actuator

import (
	"github.com/ayusman/airmouse/internal/control"
	"github.com/ayusman/airmouse/internal/geom"
)

// System is unavailable without cgo.
type System struct{}

// NewSystem always fails without cgo.
func NewSystem() (*System, error) {
	return nil, ErrNoDisplay
}

// Size returns zero.
func (s *System) Size() (width, height int) { return 0, 0 }

// Position returns the origin.
func (s *System) Position() geom.SurfacePoint { return geom.SurfacePoint{} }

// MoveTo is not supported.
func (s *System) MoveTo(p geom.SurfacePoint) error { return ErrNoDisplay }

// Click is not supported.
func (s *System) Click(b control.Button) error { return ErrNoDisplay }

// Scroll is not supported.
func (s *System) Scroll(amount int) error { return ErrNoDisplay }

package tracking

import (
	"testing"

	"github.com/ayusman/airmouse/internal/geom"
)

func TestGate_Exceeded(t *testing.T) {
	g := Gate{Deadzone: DefaultDeadzone}
	current := geom.SurfacePoint{X: 1000, Y: 500}

	tests := []struct {
		name   string
		target geom.SurfacePoint
		want   bool
	}{
		{"no motion", current, false},
		{"within deadzone on both axes", geom.SurfacePoint{X: 1038, Y: 519}, false},
		{"exactly at deadzone is suppressed", geom.SurfacePoint{X: 1000 + 40, Y: 500}, false},
		{"x axis alone exceeds", geom.SurfacePoint{X: 1041, Y: 500}, true},
		{"y axis alone exceeds", geom.SurfacePoint{X: 1000, Y: 522}, true},
		{"negative direction exceeds", geom.SurfacePoint{X: 950, Y: 500}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.Exceeded(tt.target, current, 2000, 1000); got != tt.want {
				t.Errorf("Exceeded(%v) = %v, want %v", tt.target, got, tt.want)
			}
		})
	}
}

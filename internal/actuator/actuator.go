// Package actuator applies pointer intents to a pointer device.
package actuator

import (
	"fmt"

	"github.com/ayusman/airmouse/internal/control"
	"github.com/ayusman/airmouse/internal/geom"
)

// Actuator drives a pointer device.
type Actuator interface {
	control.Cursor

	// MoveTo places the pointer at an absolute surface position.
	MoveTo(p geom.SurfacePoint) error

	// Click presses and releases a button at the current position.
	Click(b control.Button) error

	// Scroll scrolls vertically; positive amounts scroll up.
	Scroll(amount int) error
}

// Dispatch applies intents in order and stops at the first failure.
func Dispatch(a Actuator, intents []control.Intent) error {
	for _, in := range intents {
		var err error
		switch in.Kind {
		case control.IntentMove:
			err = a.MoveTo(in.To)
		case control.IntentClick:
			err = a.Click(in.Button)
		case control.IntentScroll:
			err = a.Scroll(in.Amount)
		default:
			err = fmt.Errorf("unknown intent kind %v", in.Kind)
		}
		if err != nil {
			return fmt.Errorf("dispatch %s: %w", in, err)
		}
	}
	return nil
}

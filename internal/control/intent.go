package control

import (
	"fmt"

	"github.com/ayusman/airmouse/internal/geom"
)

// Button is a pointer button.
type Button int

const (
	ButtonLeft Button = iota + 1
	ButtonRight
)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	default:
		return fmt.Sprintf("Button(%d)", int(b))
	}
}

// MarshalText encodes the button by name.
func (b Button) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText decodes a button name.
func (b *Button) UnmarshalText(text []byte) error {
	switch string(text) {
	case "left":
		*b = ButtonLeft
	case "right":
		*b = ButtonRight
	default:
		return fmt.Errorf("unknown button %q", text)
	}
	return nil
}

// IntentKind selects what an Intent asks the pointer to do.
type IntentKind int

const (
	IntentMove IntentKind = iota + 1
	IntentClick
	IntentScroll
)

func (k IntentKind) String() string {
	switch k {
	case IntentMove:
		return "move"
	case IntentClick:
		return "click"
	case IntentScroll:
		return "scroll"
	default:
		return fmt.Sprintf("IntentKind(%d)", int(k))
	}
}

// MarshalText encodes the kind by name.
func (k IntentKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *IntentKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "move":
		*k = IntentMove
	case "click":
		*k = IntentClick
	case "scroll":
		*k = IntentScroll
	default:
		return fmt.Errorf("unknown intent kind %q", text)
	}
	return nil
}

// Intent is one pointer action produced by a tick. Only the fields for Kind are set.
type Intent struct {
	Kind   IntentKind        `json:"kind"`
	To     geom.SurfacePoint `json:"to"`
	Button Button            `json:"button,omitempty"`
	Amount int               `json:"amount,omitempty"`
}

// MoveTo returns an intent to place the pointer at p.
func MoveTo(p geom.SurfacePoint) Intent {
	return Intent{Kind: IntentMove, To: p}
}

// Click returns an intent to click b at the current pointer position.
func Click(b Button) Intent {
	return Intent{Kind: IntentClick, Button: b}
}

// ScrollBy returns an intent to scroll by amount; positive scrolls up.
func ScrollBy(amount int) Intent {
	return Intent{Kind: IntentScroll, Amount: amount}
}

func (i Intent) String() string {
	switch i.Kind {
	case IntentMove:
		return fmt.Sprintf("move(%d,%d)", i.To.X, i.To.Y)
	case IntentClick:
		return fmt.Sprintf("click(%s)", i.Button)
	case IntentScroll:
		return fmt.Sprintf("scroll(%d)", i.Amount)
	default:
		return i.Kind.String()
	}
}

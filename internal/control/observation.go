package control

import (
	"fmt"

	"github.com/ayusman/airmouse/internal/geom"
)

// Hand is the subset of one hand's landmarks the controller uses, in normalized mirrored
// frame coordinates.
type Hand struct {
	ThumbTip  geom.NormalizedPoint `json:"thumb_tip"`
	IndexTip  geom.NormalizedPoint `json:"index_tip"`
	MiddleTip geom.NormalizedPoint `json:"middle_tip"`
}

// Observation is one tick of input. Hand is nil when no hand is visible.
type Observation struct {
	Hand        *Hand `json:"hand,omitempty"`
	FrameWidth  int   `json:"width"`
	FrameHeight int   `json:"height"`
}

// Cursor reports where the pointer device really is.
type Cursor interface {
	Position() geom.SurfacePoint
}

// Action is a short label for what the last tick did.
type Action int

const (
	ActionIdle Action = iota
	ActionLeftClick
	ActionRightClick
	ActionScrolling
)

func (a Action) String() string {
	switch a {
	case ActionLeftClick:
		return "Left Click"
	case ActionRightClick:
		return "Right Click"
	case ActionScrolling:
		return "Scrolling"
	default:
		return "Idle"
	}
}

// MarshalText encodes the action label.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText decodes an action label.
func (a *Action) UnmarshalText(text []byte) error {
	for _, c := range []Action{ActionIdle, ActionLeftClick, ActionRightClick, ActionScrolling} {
		if c.String() == string(text) {
			*a = c
			return nil
		}
	}
	return fmt.Errorf("unknown action %q", text)
}

// Package gesture classifies fingertip geometry into pointer gestures: pinch clicks and a
// two-finger scroll.
package gesture

import (
	"fmt"
	"math"

	"github.com/ayusman/airmouse/internal/geom"
)

// Classifier defaults.
const (
	// DefaultPinchRatio is the pinch threshold as a fraction of the frame diagonal.
	DefaultPinchRatio = 0.035
	// DefaultScrollLooseness widens the pinch threshold for the two-finger scroll posture.
	DefaultScrollLooseness = 1.3
	// DefaultScrollStep is the vertical displacement in frame pixels that emits a scroll.
	DefaultScrollStep = 8
	// DefaultScrollGain scales a displacement into a scroll amount.
	DefaultScrollGain = 1.2
)

// Kind identifies a discrete gesture event.
type Kind int

const (
	LeftClick Kind = iota + 1
	RightClick
	Scroll
)

func (k Kind) String() string {
	switch k {
	case LeftClick:
		return "left-click"
	case RightClick:
		return "right-click"
	case Scroll:
		return "scroll"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Event is a gesture fired on one tick. Amount is set for Scroll only; positive scrolls up.
type Event struct {
	Kind   Kind
	Amount int
}

// Config holds the classifier thresholds.
type Config struct {
	PinchRatio      float64 `json:"pinch_ratio"`
	ScrollLooseness float64 `json:"scroll_looseness"`
	ScrollStep      int     `json:"scroll_step"`
	ScrollGain      float64 `json:"scroll_gain"`
}

// DefaultConfig returns the thresholds tuned for a 640x360 webcam at arm's length.
func DefaultConfig() Config {
	return Config{
		PinchRatio:      DefaultPinchRatio,
		ScrollLooseness: DefaultScrollLooseness,
		ScrollStep:      DefaultScrollStep,
		ScrollGain:      DefaultScrollGain,
	}
}

// Fingertips are the three tracked fingertips in sensor-frame pixels.
type Fingertips struct {
	Thumb  geom.SurfacePoint
	Index  geom.SurfacePoint
	Middle geom.SurfacePoint
}

// Classifier holds the edge latches and the scroll reference between ticks.
// Left click, right click and scroll are evaluated independently; when several conditions
// hold on the same tick all of them fire, in that order.
type Classifier struct {
	cfg Config

	left      EdgeState
	right     EdgeState
	scrolling bool
	scrollRef int
}

// NewClassifier creates a Classifier with the given thresholds.
func NewClassifier(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// PinchThreshold returns the pinch distance in pixels for a frame with the given diagonal.
func (c *Classifier) PinchThreshold(frameDiagonal float64) float64 {
	return c.cfg.PinchRatio * frameDiagonal
}

// Classify updates the gesture state from one tick's fingertips and returns the events
// that fired on this tick.
func (c *Classifier) Classify(tips Fingertips, frameDiagonal float64) []Event {
	pinch := c.PinchThreshold(frameDiagonal)
	var events []Event

	var fired bool
	c.left, fired = c.left.Step(geom.Distance(tips.Index, tips.Thumb) < pinch)
	if fired {
		events = append(events, Event{Kind: LeftClick})
	}

	c.right, fired = c.right.Step(geom.Distance(tips.Middle, tips.Thumb) < pinch)
	if fired {
		events = append(events, Event{Kind: RightClick})
	}

	if geom.Distance(tips.Index, tips.Middle) < pinch*c.cfg.ScrollLooseness {
		if ev, ok := c.scroll(floorDiv(tips.Index.Y+tips.Middle.Y, 2)); ok {
			events = append(events, ev)
		}
	} else {
		c.scrolling = false
		c.scrollRef = 0
	}

	return events
}

// scroll advances the scroll posture with the current fingertip midpoint.
func (c *Classifier) scroll(mid int) (Event, bool) {
	if !c.scrolling {
		c.scrolling = true
		c.scrollRef = mid
		return Event{}, false
	}

	delta := mid - c.scrollRef
	if abs(delta) <= c.cfg.ScrollStep {
		return Event{}, false
	}

	c.scrollRef = mid
	// Fingers moving down (positive delta) scroll the content down, a negative amount.
	return Event{Kind: Scroll, Amount: int(math.Round(-float64(delta) * c.cfg.ScrollGain))}, true
}

// Reset returns every latch to idle and forgets the scroll reference.
func (c *Classifier) Reset() {
	c.left = Idle
	c.right = Idle
	c.scrolling = false
	c.scrollRef = 0
}

// Left returns the left-click latch.
func (c *Classifier) Left() EdgeState { return c.left }

// Right returns the right-click latch.
func (c *Classifier) Right() EdgeState { return c.right }

// Scrolling reports whether the scroll posture is held.
func (c *Classifier) Scrolling() bool { return c.scrolling }

// ScrollRef returns the scroll reference midpoint; ok is false when unset.
func (c *Classifier) ScrollRef() (ref int, ok bool) {
	return c.scrollRef, c.scrolling
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Package control runs one tick of the gesture-to-pointer loop: it anchors, smooths and gates
// fingertip motion into pointer moves, and classifies fingertip geometry into clicks and
// scrolls.
package control

import (
	"github.com/ayusman/airmouse/internal/geom"
	"github.com/ayusman/airmouse/internal/gesture"
	"github.com/ayusman/airmouse/internal/tracking"
)

// Config holds the controller parameters.
type Config struct {
	// SurfaceWidth and SurfaceHeight are the pointer surface (screen) size in pixels.
	SurfaceWidth  int
	SurfaceHeight int
	// Smoothing is the moving-average window in ticks.
	Smoothing int
	// Deadzone is the fraction of the surface size below which moves are suppressed.
	Deadzone float64
	Gesture  gesture.Config
}

// DefaultConfig returns the default parameters for a surface of the given size.
func DefaultConfig(width, height int) Config {
	return Config{
		SurfaceWidth:  width,
		SurfaceHeight: height,
		Smoothing:     tracking.DefaultSmoothing,
		Deadzone:      tracking.DefaultDeadzone,
		Gesture:       gesture.DefaultConfig(),
	}
}

// Controller owns all state carried between ticks. It is not safe for concurrent use; a
// single loop is expected to call Tick.
type Controller struct {
	cfg    Config
	cursor Cursor

	anchor   *tracking.AnchorTracker
	buffer   *tracking.SmoothingBuffer
	gate     tracking.Gate
	gestures *gesture.Classifier

	action Action
}

// New creates a Controller reading the real pointer position from cursor.
func New(cfg Config, cursor Cursor) *Controller {
	return &Controller{
		cfg:      cfg,
		cursor:   cursor,
		anchor:   tracking.NewAnchorTracker(),
		buffer:   tracking.NewSmoothingBuffer(cfg.Smoothing),
		gate:     tracking.Gate{Deadzone: cfg.Deadzone},
		gestures: gesture.NewClassifier(cfg.Gesture),
	}
}

// Tick processes one observation and returns the pointer intents for it, in the order they
// should be applied.
//
// The first tick with a hand after an absence only anchors: the fingertip is tied to the
// current pointer position and the smoothing buffer is seeded with it, so no move is emitted
// and the pointer cannot jump. Gestures are classified on every tick with a hand.
func (c *Controller) Tick(obs Observation) []Intent {
	c.action = ActionIdle

	if obs.Hand == nil {
		c.Reset()
		return nil
	}

	var intents []Intent
	if move, ok := c.track(obs.Hand.IndexTip); ok {
		intents = append(intents, move)
	}
	return append(intents, c.classify(obs)...)
}

func (c *Controller) track(indexTip geom.NormalizedPoint) (Intent, bool) {
	if !c.anchor.Active() {
		current := c.cursor.Position()
		c.anchor.OnHandAppeared(indexTip, current)
		c.buffer.Seed(current, c.buffer.Cap())
		return Intent{}, false
	}

	w, h := c.cfg.SurfaceWidth, c.cfg.SurfaceHeight
	c.buffer.Push(c.anchor.ComputeTarget(indexTip, w, h))
	smoothed := c.buffer.Average()

	if !c.gate.Exceeded(smoothed, c.cursor.Position(), w, h) {
		return Intent{}, false
	}
	return MoveTo(smoothed), true
}

func (c *Controller) classify(obs Observation) []Intent {
	fw, fh := obs.FrameWidth, obs.FrameHeight
	tips := gesture.Fingertips{
		Thumb:  geom.ToPixels(obs.Hand.ThumbTip, fw, fh),
		Index:  geom.ToPixels(obs.Hand.IndexTip, fw, fh),
		Middle: geom.ToPixels(obs.Hand.MiddleTip, fw, fh),
	}

	var intents []Intent
	for _, ev := range c.gestures.Classify(tips, geom.Diagonal(fw, fh)) {
		switch ev.Kind {
		case gesture.LeftClick:
			intents = append(intents, Click(ButtonLeft))
			c.action = ActionLeftClick
		case gesture.RightClick:
			intents = append(intents, Click(ButtonRight))
			c.action = ActionRightClick
		case gesture.Scroll:
			intents = append(intents, ScrollBy(ev.Amount))
		}
	}
	if c.gestures.Scrolling() {
		c.action = ActionScrolling
	}
	return intents
}

// Reset drops the anchor, the smoothing history and every gesture latch. The next tick with
// a hand re-anchors.
func (c *Controller) Reset() {
	c.anchor.OnHandLost()
	c.buffer.Clear()
	c.gestures.Reset()
}

// Tracking reports whether a hand is currently anchored.
func (c *Controller) Tracking() bool {
	return c.anchor.Active()
}

// Action returns the label of the last tick.
func (c *Controller) Action() Action {
	return c.action
}

// Gestures exposes the classifier state for inspection.
func (c *Controller) Gestures() *gesture.Classifier {
	return c.gestures
}

// Buffered returns the number of points in the smoothing buffer.
func (c *Controller) Buffered() int {
	return c.buffer.Len()
}

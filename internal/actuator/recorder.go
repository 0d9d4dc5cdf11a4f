package actuator

import (
	"sync"

	"github.com/ayusman/airmouse/internal/control"
	"github.com/ayusman/airmouse/internal/geom"
)

// Recorder is an in-memory Actuator. It tracks the pointer position it has been moved to
// and records every applied intent.
type Recorder struct {
	mu      sync.Mutex
	pos     geom.SurfacePoint
	intents []control.Intent
	err     error
}

// NewRecorder creates a Recorder with the pointer at start.
func NewRecorder(start geom.SurfacePoint) *Recorder {
	return &Recorder{pos: start}
}

// SetError makes every following call fail with err. A nil err clears it.
func (r *Recorder) SetError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Position returns the last position moved to.
func (r *Recorder) Position() geom.SurfacePoint {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pos
}

// MoveTo records a move.
func (r *Recorder) MoveTo(p geom.SurfacePoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.pos = p
	r.intents = append(r.intents, control.MoveTo(p))
	return nil
}

// Click records a click.
func (r *Recorder) Click(b control.Button) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.intents = append(r.intents, control.Click(b))
	return nil
}

// Scroll records a scroll.
func (r *Recorder) Scroll(amount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.intents = append(r.intents, control.ScrollBy(amount))
	return nil
}

// Intents returns a copy of the recorded intents.
func (r *Recorder) Intents() []control.Intent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]control.Intent, len(r.intents))
	copy(out, r.intents)
	return out
}

// Count returns how many recorded intents have the given kind.
func (r *Recorder) Count(kind control.IntentKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, in := range r.intents {
		if in.Kind == kind {
			n++
		}
	}
	return n
}

package gesture

import "fmt"

// EdgeState is the per-gesture latch that turns a level condition ("fingers are pinched")
// into a single event on its rising edge.
type EdgeState int

const (
	// Idle means the condition was false on the previous tick.
	Idle EdgeState = iota
	// Held means the condition was true on the previous tick and has already fired.
	Held
)

func (s EdgeState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Held:
		return "held"
	default:
		return fmt.Sprintf("EdgeState(%d)", int(s))
	}
}

// Step returns the state after observing cond, and whether this tick is the rising edge.
func (s EdgeState) Step(cond bool) (EdgeState, bool) {
	if !cond {
		return Idle, false
	}
	return Held, s == Idle
}

package capture

import "time"

// DefaultCooldown is the number of quiet frames before dropping to the idle rate.
const DefaultCooldown = 30

// Pacer chooses the capture rate. It runs at the active rate while a hand is
// tracked or the scene moves, and falls back to the idle rate after Cooldown
// consecutive quiet frames.
type Pacer struct {
	active   int
	idle     int
	cooldown int
	quiet    int
	current  int
}

// NewPacer returns a pacer that starts at the active rate.
func NewPacer(active, idle, cooldown int) *Pacer {
	if idle <= 0 || idle > active {
		idle = active
	}
	return &Pacer{
		active:   active,
		idle:     idle,
		cooldown: cooldown,
		current:  active,
	}
}

// Observe records one frame and returns the rate to use and whether it changed.
func (p *Pacer) Observe(hand, motion bool) (fps int, changed bool) {
	prev := p.current
	if hand || motion {
		p.quiet = 0
		p.current = p.active
	} else {
		p.quiet++
		if p.quiet >= p.cooldown {
			p.current = p.idle
		}
	}
	return p.current, p.current != prev
}

// FPS returns the current rate.
func (p *Pacer) FPS() int { return p.current }

// Idle reports whether the pacer is at the idle rate.
func (p *Pacer) Idle() bool { return p.current != p.active }

// Interval returns the frame period at the current rate.
func (p *Pacer) Interval() time.Duration {
	return time.Second / time.Duration(p.current)
}

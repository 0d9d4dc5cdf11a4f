// Package source produces per-tick hand observations for the control loop.
package source

import (
	"context"
	"io"

	"github.com/ayusman/airmouse/internal/control"
)

// Source yields one observation per tick. Next blocks until the next
// observation is ready; io.EOF means the source is exhausted.
type Source interface {
	Next(ctx context.Context) (control.Observation, error)
	Close() error
}

// Slice is an in-memory source over a fixed list of observations.
type Slice struct {
	obs []control.Observation
	pos int
}

// FromObservations returns a source that yields obs in order and then io.EOF.
func FromObservations(obs ...control.Observation) *Slice {
	return &Slice{obs: obs}
}

func (s *Slice) Next(ctx context.Context) (control.Observation, error) {
	if err := ctx.Err(); err != nil {
		return control.Observation{}, err
	}
	if s.pos >= len(s.obs) {
		return control.Observation{}, io.EOF
	}
	o := s.obs[s.pos]
	s.pos++
	return o, nil
}

func (s *Slice) Close() error { return nil }

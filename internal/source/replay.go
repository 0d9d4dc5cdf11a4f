package source

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ayusman/airmouse/internal/control"
)

// Replay reads observations from a JSON-lines trace, one observation per line.
// Blank lines are skipped.
type Replay struct {
	scanner  *bufio.Scanner
	closer   io.Closer
	interval time.Duration
	line     int
	last     time.Time
}

// NewReplay reads a trace from r. A positive interval paces ticks in real time.
func NewReplay(r io.Reader, interval time.Duration) *Replay {
	rp := &Replay{
		scanner:  bufio.NewScanner(r),
		interval: interval,
	}
	if c, ok := r.(io.Closer); ok {
		rp.closer = c
	}
	return rp
}

// OpenReplay opens a trace file.
func OpenReplay(path string, interval time.Duration) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay: %w", err)
	}
	return NewReplay(f, interval), nil
}

func (r *Replay) Next(ctx context.Context) (control.Observation, error) {
	if err := r.pace(ctx); err != nil {
		return control.Observation{}, err
	}

	for r.scanner.Scan() {
		r.line++
		raw := bytes.TrimSpace(r.scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		var obs control.Observation
		if err := json.Unmarshal(raw, &obs); err != nil {
			return control.Observation{}, fmt.Errorf("replay line %d: %w", r.line, err)
		}
		r.last = time.Now()
		return obs, nil
	}
	if err := r.scanner.Err(); err != nil {
		return control.Observation{}, fmt.Errorf("replay line %d: %w", r.line, err)
	}
	return control.Observation{}, io.EOF
}

func (r *Replay) pace(ctx context.Context) error {
	if r.interval <= 0 || r.last.IsZero() {
		return ctx.Err()
	}
	timer := time.NewTimer(time.Until(r.last.Add(r.interval)))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (r *Replay) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// Recorder passes observations through from another source and writes each
// one to w in the format Replay reads.
type Recorder struct {
	src Source
	enc *json.Encoder
}

// NewRecorder wraps src.
func NewRecorder(src Source, w io.Writer) *Recorder {
	return &Recorder{src: src, enc: json.NewEncoder(w)}
}

func (r *Recorder) Next(ctx context.Context) (control.Observation, error) {
	obs, err := r.src.Next(ctx)
	if err != nil {
		return obs, err
	}

	if err := r.enc.Encode(obs); err != nil {
		return obs, fmt.Errorf("record observation: %w", err)
	}
	return obs, nil
}

// Close closes the wrapped source.
func (r *Recorder) Close() error {
	return r.src.Close()
}

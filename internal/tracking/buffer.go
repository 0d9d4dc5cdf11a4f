// Package tracking maps hand motion onto pointer motion: anchoring on re-acquisition,
// moving-average smoothing, and a deadzone gate against jitter.
package tracking

import (
	"gonum.org/v1/gonum/stat"

	"github.com/ayusman/airmouse/internal/geom"
)

// DefaultSmoothing is the default capacity of a SmoothingBuffer.
const DefaultSmoothing = 3

// SmoothingBuffer is a fixed-capacity ring of recent pointer targets. Its average is the
// position actually sent to the pointer.
type SmoothingBuffer struct {
	data []geom.SurfacePoint
	pos  int
	full bool
	cap  int
}

// NewSmoothingBuffer creates a buffer holding at most capacity points.
// Capacities below 1 are raised to 1.
func NewSmoothingBuffer(capacity int) *SmoothingBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &SmoothingBuffer{
		data: make([]geom.SurfacePoint, capacity),
		cap:  capacity,
	}
}

// Push appends p, evicting the oldest point once the buffer is full.
func (b *SmoothingBuffer) Push(p geom.SurfacePoint) {
	b.data[b.pos] = p
	b.pos++
	if b.pos >= b.cap {
		b.pos = 0
		b.full = true
	}
}

// Clear empties the buffer.
func (b *SmoothingBuffer) Clear() {
	b.pos = 0
	b.full = false
}

// Seed clears the buffer and pushes p count times, so that the next Average is exactly p.
func (b *SmoothingBuffer) Seed(p geom.SurfacePoint, count int) {
	b.Clear()
	if count < 1 {
		count = 1
	}
	for i := 0; i < count; i++ {
		b.Push(p)
	}
}

// Len returns the number of buffered points.
func (b *SmoothingBuffer) Len() int {
	if b.full {
		return b.cap
	}
	return b.pos
}

// Cap returns the buffer capacity.
func (b *SmoothingBuffer) Cap() int {
	return b.cap
}

// Points returns the buffered points, oldest first.
func (b *SmoothingBuffer) Points() []geom.SurfacePoint {
	n := b.Len()
	out := make([]geom.SurfacePoint, n)
	if b.full {
		copy(out, b.data[b.pos:])
		copy(out[b.cap-b.pos:], b.data[:b.pos])
	} else {
		copy(out, b.data[:b.pos])
	}
	return out
}

// Average returns the per-axis mean of the buffered points, truncated to integers.
// It panics on an empty buffer: callers must Seed or Push first.
func (b *SmoothingBuffer) Average() geom.SurfacePoint {
	n := b.Len()
	if n == 0 {
		panic("tracking: Average called on empty smoothing buffer")
	}

	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, p := range b.Points() {
		xs[i] = float64(p.X)
		ys[i] = float64(p.Y)
	}

	return geom.SurfacePoint{
		X: int(stat.Mean(xs, nil)),
		Y: int(stat.Mean(ys, nil)),
	}
}

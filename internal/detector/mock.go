package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// Queued results are returned one per Detect call; once the queue is empty the
// last configured hands repeat.
type MockDetector struct {
	mu     sync.Mutex
	hands  []HandLandmarks
	queue  [][]HandLandmarks
	err    error
	calls  int
	closed bool
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// Enqueue appends one Detect result to the queue. A nil entry means no hand.
func (m *MockDetector) Enqueue(results ...[]HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, results...)
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Detect returns the next queued result, the configured hands, or the error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		return next, nil
	}
	return m.hands, nil
}

// Calls returns how many times Detect ran.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Closed reports whether Close was called.
func (m *MockDetector) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Close marks the detector closed.
func (m *MockDetector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// PointingLandmarks returns a right hand with the index finger extended to
// (x, y) and the thumb and middle finger well apart from it.
func PointingLandmarks(x, y float64) HandLandmarks {
	return handWithTips(
		Point3D{X: x + 0.15, Y: y + 0.20},
		Point3D{X: x, Y: y},
		Point3D{X: x - 0.08, Y: y + 0.15},
	)
}

// PinchLandmarks returns a hand whose thumb touches the index fingertip at (x, y).
func PinchLandmarks(x, y float64) HandLandmarks {
	return handWithTips(
		Point3D{X: x + 0.01, Y: y + 0.01},
		Point3D{X: x, Y: y},
		Point3D{X: x - 0.08, Y: y + 0.15},
	)
}

// ScrollLandmarks returns a hand with index and middle fingertips held together
// around (x, y) and the thumb tucked away.
func ScrollLandmarks(x, y float64) HandLandmarks {
	return handWithTips(
		Point3D{X: x + 0.15, Y: y + 0.20},
		Point3D{X: x, Y: y},
		Point3D{X: x - 0.02, Y: y},
	)
}

func handWithTips(thumb, index, middle Point3D) HandLandmarks {
	lm := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}
	lm.Points[Wrist] = Point3D{X: index.X, Y: index.Y + 0.35}
	for i := 1; i < NumLandmarks; i++ {
		lm.Points[i] = lm.Points[Wrist]
	}
	lm.Points[ThumbTip] = thumb
	lm.Points[IndexTip] = index
	lm.Points[MiddleTip] = middle
	return lm
}

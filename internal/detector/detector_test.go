package detector

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ayusman/airmouse/internal/control"
	"github.com/ayusman/airmouse/internal/geom"
	"github.com/ayusman/airmouse/internal/gesture"
)

func TestHandLandmarks_Tips(t *testing.T) {
	t.Run("picks thumb index and middle tips", func(t *testing.T) {
		var lm HandLandmarks
		lm.Points[ThumbTip] = Point3D{X: 0.1, Y: 0.2, Z: -0.05}
		lm.Points[IndexTip] = Point3D{X: 0.3, Y: 0.4}
		lm.Points[MiddleTip] = Point3D{X: 0.5, Y: 0.6}

		want := &control.Hand{
			ThumbTip:  geom.NormalizedPoint{X: 0.1, Y: 0.2},
			IndexTip:  geom.NormalizedPoint{X: 0.3, Y: 0.4},
			MiddleTip: geom.NormalizedPoint{X: 0.5, Y: 0.6},
		}
		if diff := cmp.Diff(want, lm.Tips()); diff != "" {
			t.Errorf("Tips() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("nil hand returns nil", func(t *testing.T) {
		var lm *HandLandmarks
		if lm.Tips() != nil {
			t.Error("expected nil for nil landmarks")
		}
	})
}

func TestPrimary(t *testing.T) {
	if Primary(nil) != nil {
		t.Error("Primary(nil) should be nil")
	}

	hands := []HandLandmarks{
		{Handedness: "Left", Score: 0.7},
		{Handedness: "Right", Score: 0.9},
		{Handedness: "Left", Score: 0.8},
	}
	got := Primary(hands)
	if got == nil || got.Handedness != "Right" {
		t.Fatalf("Primary() = %+v, want the 0.9 hand", got)
	}
	if got != &hands[1] {
		t.Error("Primary() should point into the slice")
	}
}

func TestMockDetector(t *testing.T) {
	t.Run("returns empty hands by default", func(t *testing.T) {
		m := NewMockDetector()
		hands, err := m.Detect(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hands) != 0 {
			t.Errorf("expected no hands, got %d", len(hands))
		}
	})

	t.Run("drains queue then repeats configured hands", func(t *testing.T) {
		m := NewMockDetector()
		m.SetHands([]HandLandmarks{PointingLandmarks(0.5, 0.5)})
		m.Enqueue(nil, []HandLandmarks{PinchLandmarks(0.2, 0.2)})

		wantCounts := []int{0, 1, 1, 1}
		for i, want := range wantCounts {
			hands, err := m.Detect(nil)
			if err != nil {
				t.Fatalf("call %d: unexpected error: %v", i, err)
			}
			if len(hands) != want {
				t.Errorf("call %d: got %d hands, want %d", i, len(hands), want)
			}
		}
		if m.Calls() != len(wantCounts) {
			t.Errorf("Calls() = %d, want %d", m.Calls(), len(wantCounts))
		}
	})

	t.Run("returns configured error", func(t *testing.T) {
		m := NewMockDetector()
		wantErr := errors.New("detection failed")
		m.SetError(wantErr)

		if _, err := m.Detect(nil); !errors.Is(err, wantErr) {
			t.Errorf("expected %v, got %v", wantErr, err)
		}
	})

	t.Run("Close marks closed", func(t *testing.T) {
		m := NewMockDetector()
		if err := m.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
		if !m.Closed() {
			t.Error("expected Closed() after Close")
		}
	})

	t.Run("implements Detector interface", func(t *testing.T) {
		var _ Detector = (*MockDetector)(nil)
		var _ Detector = (*MediaPipeDetector)(nil)
	})
}

// Presets are checked against the classifier on the default 640x360 frame.
func TestPresets(t *testing.T) {
	const w, h = 640, 360

	tips := func(lm HandLandmarks) gesture.Fingertips {
		hand := lm.Tips()
		return gesture.Fingertips{
			Thumb:  geom.ToPixels(hand.ThumbTip, w, h),
			Index:  geom.ToPixels(hand.IndexTip, w, h),
			Middle: geom.ToPixels(hand.MiddleTip, w, h),
		}
	}

	tests := []struct {
		name          string
		hand          HandLandmarks
		wantEvents    []gesture.Event
		wantScrolling bool
	}{
		{"pointing", PointingLandmarks(0.5, 0.5), nil, false},
		{"pinch", PinchLandmarks(0.5, 0.5), []gesture.Event{{Kind: gesture.LeftClick}}, false},
		{"scroll", ScrollLandmarks(0.5, 0.5), nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := gesture.NewClassifier(gesture.DefaultConfig())
			got := c.Classify(tips(tt.hand), geom.Diagonal(w, h))
			if diff := cmp.Diff(tt.wantEvents, got); diff != "" {
				t.Errorf("Classify() mismatch (-want +got):\n%s", diff)
			}
			if c.Scrolling() != tt.wantScrolling {
				t.Errorf("Scrolling() = %v, want %v", c.Scrolling(), tt.wantScrolling)
			}
		})
	}
}

func TestWriteFrame(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte{0xff, 0xd8, 0xff, 0xd9}

	if err := writeFrame(&buf, payload); err != nil {
		t.Fatalf("writeFrame() error = %v", err)
	}

	out := buf.Bytes()
	if len(out) != 4+len(payload) {
		t.Fatalf("wrote %d bytes, want %d", len(out), 4+len(payload))
	}
	if n := binary.BigEndian.Uint32(out[:4]); n != uint32(len(payload)) {
		t.Errorf("length prefix = %d, want %d", n, len(payload))
	}
	if !bytes.Equal(out[4:], payload) {
		t.Errorf("payload = %x, want %x", out[4:], payload)
	}
}

func TestReadHands(t *testing.T) {
	t.Run("parses hands", func(t *testing.T) {
		line := `{"hands":[{"handedness":"Left","score":0.8,"points":[{"x":0.1,"y":0.2,"z":0},{"x":0.3,"y":0.4,"z":0.1}]}]}` + "\n"
		hands, err := readHands(bufio.NewReader(strings.NewReader(line)))
		if err != nil {
			t.Fatalf("readHands() error = %v", err)
		}
		if len(hands) != 1 {
			t.Fatalf("got %d hands, want 1", len(hands))
		}
		if hands[0].Handedness != "Left" || hands[0].Score != 0.8 {
			t.Errorf("hand = %+v", hands[0])
		}
		if hands[0].Points[1] != (Point3D{X: 0.3, Y: 0.4, Z: 0.1}) {
			t.Errorf("Points[1] = %+v", hands[0].Points[1])
		}
		if hands[0].Points[IndexTip] != (Point3D{}) {
			t.Errorf("missing points should stay zero, got %+v", hands[0].Points[IndexTip])
		}
	})

	t.Run("no hands", func(t *testing.T) {
		hands, err := readHands(bufio.NewReader(strings.NewReader("{\"hands\":[]}\n")))
		if err != nil {
			t.Fatalf("readHands() error = %v", err)
		}
		if len(hands) != 0 {
			t.Errorf("got %d hands, want 0", len(hands))
		}
	})

	t.Run("service error", func(t *testing.T) {
		_, err := readHands(bufio.NewReader(strings.NewReader("{\"error\":\"bad jpeg\"}\n")))
		if err == nil || !strings.Contains(err.Error(), "bad jpeg") {
			t.Errorf("readHands() error = %v, want service error", err)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		if _, err := readHands(bufio.NewReader(strings.NewReader("not json\n"))); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("closed stream", func(t *testing.T) {
		if _, err := readHands(bufio.NewReader(strings.NewReader(""))); err == nil {
			t.Error("expected read error")
		}
	})
}

func TestServiceArgs(t *testing.T) {
	got := serviceArgs(DefaultConfig())
	want := []string{"--max-hands", "1", "--min-detection", "0.6", "--min-tracking", "0.6"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("serviceArgs() mismatch (-want +got):\n%s", diff)
	}
}

func TestNewMediaPipeDetector(t *testing.T) {
	t.Run("missing script", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ScriptPath = filepath.Join(t.TempDir(), "missing.py")
		if _, err := NewMediaPipeDetector(cfg); !errors.Is(err, ErrScriptNotFound) {
			t.Errorf("error = %v, want ErrScriptNotFound", err)
		}
	})

	t.Run("explicit script does not start process", func(t *testing.T) {
		script := filepath.Join(t.TempDir(), scriptName)
		if err := os.WriteFile(script, []byte("# stub\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		cfg := DefaultConfig()
		cfg.ScriptPath = script

		d, err := NewMediaPipeDetector(cfg)
		if err != nil {
			t.Fatalf("NewMediaPipeDetector() error = %v", err)
		}
		if d.started {
			t.Error("process should start lazily")
		}
		if err := d.Close(); err != nil {
			t.Errorf("Close() on idle detector error = %v", err)
		}
	})
}

package source

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ayusman/airmouse/internal/capture"
	"github.com/ayusman/airmouse/internal/control"
	"github.com/ayusman/airmouse/internal/detector"
	"github.com/ayusman/airmouse/internal/geom"
)

func hand(x, y float64) *control.Hand {
	return &control.Hand{
		ThumbTip:  geom.NormalizedPoint{X: x + 0.15, Y: y + 0.2},
		IndexTip:  geom.NormalizedPoint{X: x, Y: y},
		MiddleTip: geom.NormalizedPoint{X: x - 0.08, Y: y + 0.15},
	}
}

func drain(t *testing.T, src Source) []control.Observation {
	t.Helper()
	var out []control.Observation
	for {
		obs, err := src.Next(context.Background())
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		out = append(out, obs)
	}
}

func TestSlice(t *testing.T) {
	want := []control.Observation{
		{FrameWidth: 640, FrameHeight: 360},
		{Hand: hand(0.5, 0.5), FrameWidth: 640, FrameHeight: 360},
	}
	src := FromObservations(want...)

	if diff := cmp.Diff(want, drain(t, src)); diff != "" {
		t.Errorf("observations mismatch (-want +got):\n%s", diff)
	}

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := FromObservations(want...).Next(ctx); !errors.Is(err, context.Canceled) {
			t.Errorf("Next() error = %v, want context.Canceled", err)
		}
	})
}

func TestReplay(t *testing.T) {
	trace := `{"width":640,"height":360}

{"hand":{"thumb_tip":{"x":0.25,"y":0.5},"index_tip":{"x":0.5,"y":0.5},"middle_tip":{"x":0.75,"y":0.5}},"width":640,"height":360}
`
	got := drain(t, NewReplay(strings.NewReader(trace), 0))

	want := []control.Observation{
		{FrameWidth: 640, FrameHeight: 360},
		{
			Hand: &control.Hand{
				ThumbTip:  geom.NormalizedPoint{X: 0.25, Y: 0.5},
				IndexTip:  geom.NormalizedPoint{X: 0.5, Y: 0.5},
				MiddleTip: geom.NormalizedPoint{X: 0.75, Y: 0.5},
			},
			FrameWidth:  640,
			FrameHeight: 360,
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("replay mismatch (-want +got):\n%s", diff)
	}
}

func TestReplay_BadLine(t *testing.T) {
	r := NewReplay(strings.NewReader("{\"width\":640,\"height\":360}\n{oops\n"), 0)

	if _, err := r.Next(context.Background()); err != nil {
		t.Fatalf("first Next() error = %v", err)
	}
	_, err := r.Next(context.Background())
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("Next() error = %v, want a line 2 parse error", err)
	}
}

func TestReplay_PacedCancel(t *testing.T) {
	r := NewReplay(strings.NewReader("{}\n{}\n"), time.Hour)

	if _, err := r.Next(context.Background()); err != nil {
		t.Fatalf("first Next() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := r.Next(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Next() error = %v, want deadline exceeded", err)
	}
}

func TestRecorder(t *testing.T) {
	want := []control.Observation{
		{FrameWidth: 640, FrameHeight: 360},
		{Hand: hand(0.25, 0.75), FrameWidth: 640, FrameHeight: 360},
	}

	var buf bytes.Buffer
	rec := NewRecorder(FromObservations(want...), &buf)
	if diff := cmp.Diff(want, drain(t, rec)); diff != "" {
		t.Errorf("recorder pass-through mismatch (-want +got):\n%s", diff)
	}
	if n := strings.Count(buf.String(), "\n"); n != len(want) {
		t.Errorf("recorded %d lines, want %d", n, len(want))
	}

	replayed := drain(t, NewReplay(&buf, 0))
	if diff := cmp.Diff(want, replayed); diff != "" {
		t.Errorf("replayed recording mismatch (-want +got):\n%s", diff)
	}
}

func TestCamera(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	frames := capture.BlankFrames(3)
	defer func() {
		for _, f := range frames {
			f.Close()
		}
	}()

	det := detector.NewMockDetector()
	det.Enqueue(
		nil,
		[]detector.HandLandmarks{detector.PointingLandmarks(0.5, 0.5)},
		[]detector.HandLandmarks{detector.PinchLandmarks(0.25, 0.25)},
	)

	src, err := NewCamera(capture.NewMockCamera(frames, false), det, nil, nil)
	if err != nil {
		t.Fatalf("NewCamera() error = %v", err)
	}

	var got []control.Observation
	for {
		obs, err := src.Next(context.Background())
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		got = append(got, obs)
	}

	if len(got) != 3 {
		t.Fatalf("got %d observations, want 3", len(got))
	}
	for i, obs := range got {
		if obs.FrameWidth != 640 || obs.FrameHeight != 360 {
			t.Errorf("obs %d frame = %dx%d", i, obs.FrameWidth, obs.FrameHeight)
		}
	}
	if got[0].Hand != nil {
		t.Error("obs 0 should have no hand")
	}
	if got[1].Hand == nil || got[1].Hand.IndexTip != (geom.NormalizedPoint{X: 0.5, Y: 0.5}) {
		t.Errorf("obs 1 hand = %+v", got[1].Hand)
	}
	if got[2].Hand == nil || got[2].Hand.IndexTip != (geom.NormalizedPoint{X: 0.25, Y: 0.25}) {
		t.Errorf("obs 2 hand = %+v", got[2].Hand)
	}

	if err := src.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if !det.Closed() {
		t.Error("Close should close the detector")
	}
}

func TestCamera_DetectorError(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	frames := capture.BlankFrames(1)
	defer frames[0].Close()

	det := detector.NewMockDetector()
	boom := errors.New("service crashed")
	det.SetError(boom)

	src, err := NewCamera(capture.NewMockCamera(frames, true), det, nil, nil)
	if err != nil {
		t.Fatalf("NewCamera() error = %v", err)
	}
	defer src.Close()

	if _, err := src.Next(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Next() error = %v, want wrapped detector error", err)
	}
}

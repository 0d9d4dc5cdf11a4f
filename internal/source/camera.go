package source

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ayusman/airmouse/internal/capture"
	"github.com/ayusman/airmouse/internal/control"
	"github.com/ayusman/airmouse/internal/detector"
)

// Camera turns camera frames into observations. Frames are expected to be
// mirrored already (see capture.Options.Mirror); the highest-scoring hand wins.
type Camera struct {
	camera   capture.Camera
	detector detector.Detector
	motion   *capture.MotionDetector
	pacer    *capture.Pacer
	last     time.Time
}

// NewCamera opens cam and returns a source over it. motion and pacer may be nil,
// in which case the camera runs at its own rate.
func NewCamera(cam capture.Camera, det detector.Detector, motion *capture.MotionDetector, pacer *capture.Pacer) (*Camera, error) {
	if err := cam.Open(); err != nil {
		return nil, fmt.Errorf("open camera: %w", err)
	}
	return &Camera{
		camera:   cam,
		detector: det,
		motion:   motion,
		pacer:    pacer,
	}, nil
}

// Next reads one frame and runs detection on it.
func (s *Camera) Next(ctx context.Context) (control.Observation, error) {
	if err := s.wait(ctx); err != nil {
		return control.Observation{}, err
	}

	frame, err := s.camera.ReadFrame()
	if err != nil {
		return control.Observation{}, fmt.Errorf("read frame: %w", err)
	}
	defer frame.Close()
	s.last = time.Now()

	obs := control.Observation{
		FrameWidth:  frame.Cols(),
		FrameHeight: frame.Rows(),
	}

	moving := false
	if s.motion != nil {
		moving, _ = s.motion.Detect(frame)
	}

	hands, err := s.detector.Detect(frame)
	if err != nil {
		return control.Observation{}, fmt.Errorf("detect hands: %w", err)
	}
	obs.Hand = detector.Primary(hands).Tips()

	if s.pacer != nil {
		if fps, changed := s.pacer.Observe(obs.Hand != nil, moving); changed {
			s.camera.SetFPS(fps)
			log.Printf("Capture rate set to %d fps", fps)
		}
	}
	return obs, nil
}

// wait holds the loop to the pacer's interval.
func (s *Camera) wait(ctx context.Context) error {
	if s.pacer == nil || s.last.IsZero() {
		return ctx.Err()
	}
	remaining := time.Until(s.last.Add(s.pacer.Interval()))
	if remaining <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(remaining)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Close releases the camera, the detector and the motion detector.
func (s *Camera) Close() error {
	if s.motion != nil {
		s.motion.Close()
	}
	detErr := s.detector.Close()
	if err := s.camera.Close(); err != nil {
		return fmt.Errorf("close camera: %w", err)
	}
	if detErr != nil {
		return fmt.Errorf("close detector: %w", detErr)
	}
	return nil
}

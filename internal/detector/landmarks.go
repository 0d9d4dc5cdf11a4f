// Package detector provides hand-landmark detection for the pointer control loop.
package detector

import (
	"github.com/ayusman/airmouse/internal/control"
	"github.com/ayusman/airmouse/internal/geom"
)

// Hand landmark indices following MediaPipe convention. Only the points the
// control loop reads are named.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbTip     = 4
	IndexTip     = 8
	MiddleTip    = 12
	NumLandmarks = 21
)

// Point3D is a landmark in normalized image coordinates. Z is relative depth
// and is ignored by the control loop.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Tips returns the three fingertips the controller consumes.
func (h *HandLandmarks) Tips() *control.Hand {
	if h == nil {
		return nil
	}
	return &control.Hand{
		ThumbTip:  h.Points[ThumbTip].normalized(),
		IndexTip:  h.Points[IndexTip].normalized(),
		MiddleTip: h.Points[MiddleTip].normalized(),
	}
}

// Primary returns the highest scoring hand, or nil when hands is empty.
func Primary(hands []HandLandmarks) *HandLandmarks {
	var best *HandLandmarks
	for i := range hands {
		if best == nil || hands[i].Score > best.Score {
			best = &hands[i]
		}
	}
	return best
}

func (p Point3D) normalized() geom.NormalizedPoint {
	return geom.NormalizedPoint{X: p.X, Y: p.Y}
}

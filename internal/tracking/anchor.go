package tracking

import (
	"github.com/ayusman/airmouse/internal/geom"
)

// AnchorTracker converts hand motion into relative pointer motion. When a hand enters view it
// remembers where the fingertip and the pointer were; afterwards the pointer follows the
// fingertip's displacement from that anchor rather than its absolute position, so a hand
// re-entering the frame never teleports the pointer.
type AnchorTracker struct {
	active        bool
	handAnchor    geom.NormalizedPoint
	surfaceAnchor geom.SurfacePoint
}

// NewAnchorTracker returns an inactive tracker.
func NewAnchorTracker() *AnchorTracker {
	return &AnchorTracker{}
}

// OnHandAppeared anchors the fingertip position to the current pointer position.
// Call it once, on the first tick of each continuous hand-presence interval.
func (a *AnchorTracker) OnHandAppeared(indexTip geom.NormalizedPoint, current geom.SurfacePoint) {
	a.handAnchor = indexTip
	a.surfaceAnchor = current
	a.active = true
}

// OnHandLost clears the anchor. The next OnHandAppeared re-anchors.
func (a *AnchorTracker) OnHandLost() {
	a.active = false
	a.handAnchor = geom.NormalizedPoint{}
	a.surfaceAnchor = geom.SurfacePoint{}
}

// Active reports whether an anchor is set.
func (a *AnchorTracker) Active() bool {
	return a.active
}

// Anchors returns the hand and surface anchors. ok is false while inactive.
func (a *AnchorTracker) Anchors() (hand geom.NormalizedPoint, surface geom.SurfacePoint, ok bool) {
	return a.handAnchor, a.surfaceAnchor, a.active
}

// ComputeTarget returns the surface anchor moved by the fingertip's displacement since
// anchoring, scaled to the surface and clamped to it. It panics if no anchor is set.
func (a *AnchorTracker) ComputeTarget(indexTip geom.NormalizedPoint, width, height int) geom.SurfacePoint {
	if !a.active {
		panic("tracking: ComputeTarget called without an active anchor")
	}

	dx := (indexTip.X - a.handAnchor.X) * float64(width)
	dy := (indexTip.Y - a.handAnchor.Y) * float64(height)

	target := geom.SurfacePoint{
		X: int(float64(a.surfaceAnchor.X) + dx),
		Y: int(float64(a.surfaceAnchor.Y) + dy),
	}
	return geom.Clamp(target, width, height)
}

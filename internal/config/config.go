// Package config holds the airmouse runtime configuration and its tuning parameters.
package config

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/ayusman/airmouse/internal/control"
	"github.com/ayusman/airmouse/internal/gesture"
	"github.com/ayusman/airmouse/internal/tracking"
)

// ErrInvalidConfig is returned when a configuration value is out of range.
var ErrInvalidConfig = errors.New("invalid config")

// Tuning keys, as stored in the settings table and exchanged over the API.
const (
	KeySmoothing       = "smoothing"
	KeyPinchRatio      = "pinch_ratio"
	KeyDeadzone        = "deadzone"
	KeyScrollStep      = "scroll_step"
	KeyScrollGain      = "scroll_gain"
	KeyScrollLooseness = "scroll_looseness"
)

// Capture defaults.
const (
	DefaultFrameWidth  = 640
	DefaultFrameHeight = 360
	DefaultActiveFPS   = 15
	DefaultIdleFPS     = 5
)

// Tuning holds the parameters of the control loop.
type Tuning struct {
	Smoothing       int     `json:"smoothing"`
	PinchRatio      float64 `json:"pinch_ratio"`
	Deadzone        float64 `json:"deadzone"`
	ScrollStep      int     `json:"scroll_step"`
	ScrollGain      float64 `json:"scroll_gain"`
	ScrollLooseness float64 `json:"scroll_looseness"`
}

// Config is the complete runtime configuration.
type Config struct {
	CameraID        int
	FrameWidth      int
	FrameHeight     int
	ActiveFPS       int
	IdleFPS         int
	MotionThreshold float64

	// SurfaceWidth and SurfaceHeight override the detected display size when non-zero.
	SurfaceWidth  int
	SurfaceHeight int

	Tuning Tuning
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	g := gesture.DefaultConfig()
	return Config{
		CameraID:        0,
		FrameWidth:      DefaultFrameWidth,
		FrameHeight:     DefaultFrameHeight,
		ActiveFPS:       DefaultActiveFPS,
		IdleFPS:         DefaultIdleFPS,
		MotionThreshold: 1.0,
		Tuning: Tuning{
			Smoothing:       tracking.DefaultSmoothing,
			PinchRatio:      g.PinchRatio,
			Deadzone:        tracking.DefaultDeadzone,
			ScrollStep:      g.ScrollStep,
			ScrollGain:      g.ScrollGain,
			ScrollLooseness: g.ScrollLooseness,
		},
	}
}

// Validate checks that every value is usable.
func (c Config) Validate() error {
	switch {
	case c.FrameWidth <= 0 || c.FrameHeight <= 0:
		return fmt.Errorf("%w: frame size %dx%d", ErrInvalidConfig, c.FrameWidth, c.FrameHeight)
	case c.ActiveFPS <= 0 || c.IdleFPS <= 0:
		return fmt.Errorf("%w: fps %d/%d", ErrInvalidConfig, c.ActiveFPS, c.IdleFPS)
	case c.SurfaceWidth < 0 || c.SurfaceHeight < 0:
		return fmt.Errorf("%w: surface size %dx%d", ErrInvalidConfig, c.SurfaceWidth, c.SurfaceHeight)
	}
	return c.Tuning.Validate()
}

// Upper bounds on tuning values. Larger values make the loop unusable or
// overflow the scroll amount.
const (
	MaxSmoothing       = 60
	MaxScrollStep      = 1000
	MaxScrollGain      = 100
	MaxScrollLooseness = 10
)

// Validate checks the tuning ranges. Non-finite floats are rejected.
func (t Tuning) Validate() error {
	for _, f := range []struct {
		key string
		v   float64
	}{
		{KeyPinchRatio, t.PinchRatio},
		{KeyDeadzone, t.Deadzone},
		{KeyScrollGain, t.ScrollGain},
		{KeyScrollLooseness, t.ScrollLooseness},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s must be finite, got %g", ErrInvalidConfig, f.key, f.v)
		}
	}

	switch {
	case t.Smoothing < 1 || t.Smoothing > MaxSmoothing:
		return fmt.Errorf("%w: %s must be in [1,%d], got %d", ErrInvalidConfig, KeySmoothing, MaxSmoothing, t.Smoothing)
	case t.PinchRatio <= 0 || t.PinchRatio >= 1:
		return fmt.Errorf("%w: %s must be in (0,1), got %g", ErrInvalidConfig, KeyPinchRatio, t.PinchRatio)
	case t.Deadzone < 0 || t.Deadzone >= 1:
		return fmt.Errorf("%w: %s must be in [0,1), got %g", ErrInvalidConfig, KeyDeadzone, t.Deadzone)
	case t.ScrollStep < 0 || t.ScrollStep > MaxScrollStep:
		return fmt.Errorf("%w: %s must be in [0,%d], got %d", ErrInvalidConfig, KeyScrollStep, MaxScrollStep, t.ScrollStep)
	case t.ScrollGain <= 0 || t.ScrollGain > MaxScrollGain:
		return fmt.Errorf("%w: %s must be in (0,%d], got %g", ErrInvalidConfig, KeyScrollGain, MaxScrollGain, t.ScrollGain)
	case t.ScrollLooseness < 1 || t.ScrollLooseness > MaxScrollLooseness:
		return fmt.Errorf("%w: %s must be in [1,%d], got %g", ErrInvalidConfig, KeyScrollLooseness, MaxScrollLooseness, t.ScrollLooseness)
	}
	return nil
}

// Values returns the tuning as string key/value pairs.
func (t Tuning) Values() map[string]string {
	return map[string]string{
		KeySmoothing:       strconv.Itoa(t.Smoothing),
		KeyPinchRatio:      strconv.FormatFloat(t.PinchRatio, 'g', -1, 64),
		KeyDeadzone:        strconv.FormatFloat(t.Deadzone, 'g', -1, 64),
		KeyScrollStep:      strconv.Itoa(t.ScrollStep),
		KeyScrollGain:      strconv.FormatFloat(t.ScrollGain, 'g', -1, 64),
		KeyScrollLooseness: strconv.FormatFloat(t.ScrollLooseness, 'g', -1, 64),
	}
}

// Apply returns a copy of t with the given values parsed over it. Unknown keys and
// unparsable values are errors; the result is validated.
func (t Tuning) Apply(values map[string]string) (Tuning, error) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := t
	for _, k := range keys {
		v := values[k]
		var err error
		switch k {
		case KeySmoothing:
			out.Smoothing, err = strconv.Atoi(v)
		case KeyPinchRatio:
			out.PinchRatio, err = strconv.ParseFloat(v, 64)
		case KeyDeadzone:
			out.Deadzone, err = strconv.ParseFloat(v, 64)
		case KeyScrollStep:
			out.ScrollStep, err = strconv.Atoi(v)
		case KeyScrollGain:
			out.ScrollGain, err = strconv.ParseFloat(v, 64)
		case KeyScrollLooseness:
			out.ScrollLooseness, err = strconv.ParseFloat(v, 64)
		default:
			return t, fmt.Errorf("%w: unknown key %q", ErrInvalidConfig, k)
		}
		if err != nil {
			return t, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, k, err)
		}
	}

	if err := out.Validate(); err != nil {
		return t, err
	}
	return out, nil
}

// Controller returns the controller configuration for a surface of the given size.
func (t Tuning) Controller(width, height int) control.Config {
	return control.Config{
		SurfaceWidth:  width,
		SurfaceHeight: height,
		Smoothing:     t.Smoothing,
		Deadzone:      t.Deadzone,
		Gesture: gesture.Config{
			PinchRatio:      t.PinchRatio,
			ScrollLooseness: t.ScrollLooseness,
			ScrollStep:      t.ScrollStep,
			ScrollGain:      t.ScrollGain,
		},
	}
}

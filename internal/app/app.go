// Package app runs the airmouse control loop: it reads observations from a
// source, feeds them to the controller and dispatches the resulting intents.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ayusman/airmouse/internal/actuator"
	"github.com/ayusman/airmouse/internal/config"
	"github.com/ayusman/airmouse/internal/control"
	"github.com/ayusman/airmouse/internal/source"
	"github.com/ayusman/airmouse/internal/store"
)

// ErrNoSurface is returned when the surface size is unknown.
var ErrNoSurface = errors.New("surface size must be positive")

// Publisher receives one event per tick that emitted intents or changed tracking.
type Publisher interface {
	Publish(v any)
}

// Config holds the collaborators of the loop.
type Config struct {
	Source   source.Source
	Actuator actuator.Actuator

	SurfaceWidth  int
	SurfaceHeight int
	Tuning        config.Tuning

	// Optional.
	Store    *store.Store
	Events    Publisher
	OnAction  func(control.Action)
	OnEnabled func(enabled bool)
}

// Status is a snapshot of the loop for the tray and the HTTP API.
type Status struct {
	Enabled  bool           `json:"enabled"`
	Tracking bool           `json:"tracking"`
	Action   control.Action `json:"action"`
	Session  string         `json:"session,omitempty"`
	FPS      float64        `json:"fps"`
	Ticks    uint64         `json:"ticks"`
	Width    int            `json:"surface_width"`
	Height   int            `json:"surface_height"`
}

// App owns the controller. The controller itself is only touched by the loop
// goroutine; the fields under mu are what other goroutines read and write.
type App struct {
	cfg Config
	now func() time.Time

	mu      sync.RWMutex
	enabled bool
	tuning  config.Tuning
	pending *config.Tuning
	status  Status
	stopCh  chan struct{}
	doneCh  chan error
	exitCh  chan struct{}
	cancel  context.CancelFunc

	// loop-owned
	controller *control.Controller
	session    *store.Session
	fps        fpsMeter
	lastAction control.Action
}

// New validates cfg and returns an enabled app ready to run.
func New(cfg Config) (*App, error) {
	if cfg.SurfaceWidth <= 0 || cfg.SurfaceHeight <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrNoSurface, cfg.SurfaceWidth, cfg.SurfaceHeight)
	}
	if err := cfg.Tuning.Validate(); err != nil {
		return nil, err
	}

	a := &App{
		cfg:     cfg,
		now:     time.Now,
		enabled: true,
		tuning:  cfg.Tuning,
	}
	a.controller = a.newController(cfg.Tuning)
	a.status = Status{
		Enabled: true,
		Action:  control.ActionIdle,
		Width:   cfg.SurfaceWidth,
		Height:  cfg.SurfaceHeight,
	}
	return a, nil
}

func (a *App) newController(t config.Tuning) *control.Controller {
	return control.New(t.Controller(a.cfg.SurfaceWidth, a.cfg.SurfaceHeight), a.cfg.Actuator)
}

// SetEnabled enables or disables pointer control. Disabling resets the
// controller at the next tick so re-enabling re-anchors. OnEnabled runs when
// the state changes.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	changed := a.enabled != enabled
	a.enabled = enabled
	a.status.Enabled = enabled
	a.mu.Unlock()

	if changed && a.cfg.OnEnabled != nil {
		a.cfg.OnEnabled(enabled)
	}
}

// Toggle flips pointer control and returns the new state.
func (a *App) Toggle() bool {
	a.mu.Lock()
	a.enabled = !a.enabled
	enabled := a.enabled
	a.status.Enabled = enabled
	a.mu.Unlock()

	if a.cfg.OnEnabled != nil {
		a.cfg.OnEnabled(enabled)
	}
	return enabled
}

// IsEnabled returns whether pointer control is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// Tuning returns the tuning in effect, or the one queued for the next tick.
func (a *App) Tuning() config.Tuning {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.pending != nil {
		return *a.pending
	}
	return a.tuning
}

// SetTuning queues new tuning. The loop rebuilds its controller at the next tick boundary.
func (a *App) SetTuning(t config.Tuning) error {
	if err := t.Validate(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending = &t
	return nil
}

// Status returns a snapshot of the loop.
func (a *App) Status() Status {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.status
}

// Start runs the loop in a goroutine until Stop is called or ctx ends.
func (a *App) Start(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return
	}
	ctx, a.cancel = context.WithCancel(ctx)
	a.stopCh = make(chan struct{})
	a.doneCh = make(chan error, 1)
	a.exitCh = make(chan struct{})

	stop, done, exit := a.stopCh, a.doneCh, a.exitCh
	go func() {
		done <- a.run(ctx, stop)
		close(exit)
	}()
}

// Done is closed when a loop started with Start returns on its own or is stopped.
// It is nil before Start.
func (a *App) Done() <-chan struct{} {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.exitCh
}

// Stop halts a loop started with Start and returns its error.
func (a *App) Stop() error {
	a.mu.Lock()
	stop, done, cancel := a.stopCh, a.doneCh, a.cancel
	a.stopCh, a.doneCh, a.cancel = nil, nil, nil
	a.mu.Unlock()

	if stop == nil {
		return nil
	}
	close(stop)
	cancel()
	return <-done
}

// Run runs the loop on the calling goroutine until ctx ends or the source is exhausted.
func (a *App) Run(ctx context.Context) error {
	return a.run(ctx, nil)
}

package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/airmouse/internal/actuator"
	"github.com/ayusman/airmouse/internal/control"
	"github.com/ayusman/airmouse/internal/store"
)

// Event is published for every tick that emitted intents or changed tracking.
type Event struct {
	Tick     uint64           `json:"tick"`
	Time     time.Time        `json:"time"`
	Session  string           `json:"session,omitempty"`
	Tracking bool             `json:"tracking"`
	Action   control.Action   `json:"action"`
	Intents  []control.Intent `json:"intents,omitempty"`
}

// run is the tick loop. It returns nil when ctx ends, stop closes or the
// source is exhausted; source and actuator errors end the loop.
func (a *App) run(ctx context.Context, stop <-chan struct{}) error {
	log.Println("Control loop started")
	defer func() {
		a.endSession(a.now())
		log.Println("Control loop stopped")
	}()

	for {
		select {
		case <-stop:
			return nil
		case <-ctx.Done():
			return nil
		default:
		}

		obs, err := a.cfg.Source.Next(ctx)
		switch {
		case errors.Is(err, io.EOF):
			log.Println("Source exhausted")
			return nil
		case ctx.Err() != nil:
			return nil
		case err != nil:
			return fmt.Errorf("read observation: %w", err)
		}

		if err := a.tick(obs); err != nil {
			return err
		}
	}
}

// tick processes one observation.
func (a *App) tick(obs control.Observation) error {
	now := a.now()
	fps := a.fps.tick(now)

	enabled := a.applyPending(now)
	if !enabled {
		if a.controller.Tracking() {
			a.controller.Reset()
			a.endSession(now)
			log.Println("Pointer control disabled, tracking reset")
		}
		a.lastAction = control.ActionIdle
		a.updateStatus(false, control.ActionIdle, fps)
		return nil
	}

	wasTracking := a.controller.Tracking()
	intents := a.controller.Tick(obs)
	tracking := a.controller.Tracking()
	action := a.controller.Action()

	switch {
	case !wasTracking && tracking:
		a.startSession(now)
	case wasTracking && !tracking:
		a.endSession(now)
	}
	a.count(intents)

	if err := actuator.Dispatch(a.cfg.Actuator, intents); err != nil {
		return err
	}

	ticks := a.updateStatus(tracking, action, fps)

	if action != control.ActionIdle && action != a.lastAction && a.cfg.OnAction != nil {
		a.cfg.OnAction(action)
	}
	a.lastAction = action

	if a.cfg.Events != nil && (len(intents) > 0 || tracking != wasTracking) {
		a.cfg.Events.Publish(Event{
			Tick:     ticks,
			Time:     now,
			Session:  a.sessionID(),
			Tracking: tracking,
			Action:   action,
			Intents:  intents,
		})
	}
	return nil
}

// applyPending swaps in queued tuning and returns whether control is enabled.
func (a *App) applyPending(now time.Time) bool {
	a.mu.Lock()
	pending := a.pending
	a.pending = nil
	if pending != nil {
		a.tuning = *pending
	}
	enabled := a.enabled
	a.mu.Unlock()

	if pending != nil {
		a.endSession(now)
		a.controller = a.newController(*pending)
		log.Printf("Tuning applied: %+v", *pending)
	}
	return enabled
}

func (a *App) updateStatus(tracking bool, action control.Action, fps float64) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.status.Ticks++
	a.status.Tracking = tracking
	a.status.Action = action
	a.status.FPS = fps
	a.status.Session = a.sessionID()
	return a.status.Ticks
}

func (a *App) startSession(now time.Time) {
	a.session = &store.Session{ID: uuid.NewString(), StartedAt: now}
	log.Printf("Hand acquired (session %s)", a.session.ID)

	if a.cfg.Store != nil {
		if err := a.cfg.Store.Sessions().Start(a.session.ID, now); err != nil {
			log.Printf("Failed to record session start: %v", err)
		}
	}
}

func (a *App) endSession(now time.Time) {
	s := a.session
	if s == nil {
		return
	}
	a.session = nil
	s.EndedAt = &now

	log.Printf("Hand lost (session %s, %d ticks, %d clicks, %d scrolls)", s.ID, s.Ticks, s.Clicks, s.Scrolls)

	if a.cfg.Store != nil {
		if err := a.cfg.Store.Sessions().End(s); err != nil {
			log.Printf("Failed to record session end: %v", err)
		}
	}
}

func (a *App) count(intents []control.Intent) {
	if a.session == nil {
		return
	}
	a.session.Ticks++
	for _, in := range intents {
		switch in.Kind {
		case control.IntentMove:
			a.session.Moves++
		case control.IntentClick:
			a.session.Clicks++
		case control.IntentScroll:
			a.session.Scrolls++
		}
	}
}

func (a *App) sessionID() string {
	if a.session == nil {
		return ""
	}
	return a.session.ID
}

// fpsMeter smooths the instantaneous tick rate.
type fpsMeter struct {
	last  time.Time
	value float64
}

func (m *fpsMeter) tick(now time.Time) float64 {
	if !m.last.IsZero() {
		if dt := now.Sub(m.last).Seconds(); dt > 0 {
			inst := 1 / dt
			if m.value == 0 {
				m.value = inst
			} else {
				m.value = 0.9*m.value + 0.1*inst
			}
		}
	}
	m.last = now
	return m.value
}

package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/brochure/internal/flip"
	"github.com/ayusman/brochure/internal/server"
)

// stateKey is the part of the state whose change is pushed to clients.
type stateKey struct {
	current   int
	animating bool
	feedback  string
	turns     int
	gestures  server.GestureState
}

func keyOf(s server.State) stateKey {
	return stateKey{
		current:   s.Brochure.Current,
		animating: s.Brochure.Animating,
		feedback:  s.Feedback,
		turns:     s.Turns,
		gestures:  s.Gestures,
	}
}

// runRenderLoop ticks the brochure at the configured frame rate until ctx is done.
func (a *App) runRenderLoop(ctx context.Context) {
	fps := a.settings.Render.FPS
	if fps <= 0 {
		fps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	last := a.config.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := a.config.Now()
			a.tick(now, now.Sub(last))
			last = now
		}
	}
}

// tick runs one render step: queued requests are dispatched first so a turn
// they start is animated in the same step. The state is stored before
// anything is broadcast, so a client reacting to a message reads it.
func (a *App) tick(now time.Time, dt time.Duration) {
	a.dispatcher.Drain()
	update, animated := a.controller.Tick(dt)

	state := a.buildState(now)
	a.stateMu.Lock()
	changed := keyOf(state) != keyOf(a.state)
	a.state = state
	a.stateMu.Unlock()

	if animated {
		if err := a.hub.Broadcast(server.MessageFrame, server.NewFrame(update)); err != nil {
			a.log.Warn("broadcast frame", zap.Error(err))
		}
	}

	if changed {
		if err := a.hub.Broadcast(server.MessageState, state); err != nil {
			a.log.Warn("broadcast state", zap.Error(err))
		}
	}
}

func (a *App) onFlipStart(page int, dir flip.Direction) {
	a.log.Debug("turn started", zap.Int("page", page), zap.Stringer("direction", dir))
}

func (a *App) onFlipComplete(page int, dir flip.Direction) {
	a.turns++
	a.log.Debug("turn settled",
		zap.Int("page", page),
		zap.Stringer("direction", dir),
		zap.Int("current", a.controller.Current()),
	)
}

func (a *App) buildState(now time.Time) server.State {
	a.mu.Lock()
	gestures := server.GestureState{
		Enabled: a.enabled,
		Status:  string(a.status),
		Hand:    a.hand,
	}
	a.mu.Unlock()

	return server.State{
		Brochure: a.controller.Snapshot(),
		Gestures: gestures,
		Feedback: a.feedback.current(now),
		Turns:    a.turns,
	}
}

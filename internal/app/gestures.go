package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"github.com/ayusman/brochure/internal/capture"
	"github.com/ayusman/brochure/internal/detector"
	"github.com/ayusman/brochure/internal/gesture"
	"github.com/ayusman/brochure/internal/nav"
	"github.com/ayusman/brochure/internal/store"
)

// SetGesturesEnabled turns gesture navigation on or off and persists the choice.
// Enabling succeeds even when the camera cannot be opened; the failure is
// reported through Status and manual navigation keeps working.
func (a *App) SetGesturesEnabled(enabled bool) error {
	if s := a.config.Store; s != nil {
		if err := s.Settings().SetBool(store.SettingGesturesEnabled, enabled); err != nil {
			return fmt.Errorf("save gesture setting: %w", err)
		}
	}

	a.mu.Lock()
	a.enabled = enabled
	a.mu.Unlock()

	if enabled {
		a.startGestures()
	} else {
		a.stopGestures()
	}
	return nil
}

// GesturesEnabled reports whether gesture navigation is switched on.
func (a *App) GesturesEnabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.enabled
}

// Status returns the availability of gesture navigation.
func (a *App) Status() gesture.Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// OnStatus registers a callback invoked whenever the gesture status changes.
func (a *App) OnStatus(fn func(gesture.Status)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onStatus = fn
}

func (a *App) setStatus(status gesture.Status) {
	a.mu.Lock()
	changed := a.status != status
	a.status = status
	if status != gesture.StatusActive {
		a.hand = false
	}
	fn := a.onStatus
	a.mu.Unlock()

	if changed {
		a.log.Info("gesture status", zap.String("status", string(status)))
		if fn != nil {
			fn(status)
		}
	}
}

// startGestures opens the camera and the detector and starts the sampler.
// It does nothing if the sampler is already running.
func (a *App) startGestures() {
	a.lifecycle.Lock()
	defer a.lifecycle.Unlock()

	a.mu.Lock()
	running := a.gestureCancel != nil
	a.mu.Unlock()
	if running {
		return
	}

	a.setStatus(gesture.StatusInitializing)

	camera := a.config.NewCamera(a.settings.Gesture.CameraID)
	if err := camera.Open(); err != nil {
		a.log.Warn("open camera", zap.Int("camera", a.settings.Gesture.CameraID), zap.Error(err))
		a.setStatus(gesture.StatusForError(err))
		return
	}

	d, err := a.config.NewDetector()
	if err != nil {
		camera.Close()
		if !errors.Is(err, detector.ErrModelUnavailable) {
			err = fmt.Errorf("%w: %v", detector.ErrModelUnavailable, err)
		}
		a.log.Warn("start hand detector", zap.Error(err))
		a.setStatus(gesture.StatusForError(err))
		return
	}

	a.tracker.Reset()
	sampler := gesture.NewSampler(camera, d, a.tracker, gesture.SamplerConfig{
		Interval: a.settings.Gesture.FrameInterval,
		Emit:     a.emitGesture,
		OnState:  a.observeHand,
		Tap:      a.publishPreview,
		Now:      a.config.Now,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	a.mu.Lock()
	a.gestureCancel = cancel
	a.gestureDone = done
	a.mu.Unlock()

	a.setStatus(gesture.StatusActive)
	a.feedback.show(FeedbackGesturesReady, a.config.Now())

	go func() {
		defer close(done)
		defer a.closeGestureDevices(camera, d)
		sampler.Run(ctx)
	}()
}

func (a *App) closeGestureDevices(camera capture.Camera, d detector.Detector) {
	if err := d.Close(); err != nil {
		a.log.Warn("close hand detector", zap.Error(err))
	}
	if err := camera.Close(); err != nil {
		a.log.Warn("close camera", zap.Error(err))
	}
}

// stopGestures stops the sampler and waits for it to release the camera.
func (a *App) stopGestures() {
	a.lifecycle.Lock()
	defer a.lifecycle.Unlock()

	a.mu.Lock()
	cancel, done := a.gestureCancel, a.gestureDone
	a.gestureCancel, a.gestureDone = nil, nil
	a.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	a.setStatus(gesture.StatusDisabled)
}

// emitGesture runs on the sampler goroutine.
func (a *App) emitGesture(intent nav.Intent) {
	switch intent {
	case nav.Advance:
		a.feedback.show(FeedbackNextGesture, a.config.Now())
	case nav.Retreat:
		a.feedback.show(FeedbackPrevGesture, a.config.Now())
	}
	a.dispatcher.Submit(nav.Request{Intent: intent, Source: nav.SourceGesture})
}

func (a *App) observeHand(state gesture.State) {
	a.mu.Lock()
	a.hand = state.HandPresent
	a.mu.Unlock()
}

func (a *App) publishPreview(frame *gocv.Mat) {
	if err := a.preview.Publish(frame); err != nil {
		a.log.Debug("publish preview", zap.Error(err))
	}
}

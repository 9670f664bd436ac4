// Package app wires the brochure together: the page-turn controller and its
// render loop, the navigation dispatcher, gesture sampling and page textures.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ayusman/brochure/internal/capture"
	"github.com/ayusman/brochure/internal/config"
	"github.com/ayusman/brochure/internal/content"
	"github.com/ayusman/brochure/internal/detector"
	"github.com/ayusman/brochure/internal/flip"
	"github.com/ayusman/brochure/internal/gesture"
	"github.com/ayusman/brochure/internal/logger"
	"github.com/ayusman/brochure/internal/nav"
	"github.com/ayusman/brochure/internal/server"
	"github.com/ayusman/brochure/internal/store"
)

// Config holds the collaborators of an App. Only Settings is required.
type Config struct {
	Settings *config.Config
	Store    *store.Store

	// NewCamera opens the gesture camera. Defaults to capture.NewCamera.
	NewCamera func(id int) capture.Camera
	// NewDetector builds the hand detector. Defaults to the MediaPipe detector.
	NewDetector func() (detector.Detector, error)
	// Painter draws page textures. Defaults to content.NewRenderer.
	Painter content.Painter
	// Now overrides the clock.
	Now func() time.Time
}

// App is the brochure application. The controller is owned by the render
// loop; everything else reaches it through the dispatcher.
type App struct {
	config     Config
	settings   *config.Config
	session    string
	controller *flip.Controller
	dispatcher *nav.Dispatcher
	hub        *server.Hub
	preview    *capture.Preview
	cache      *content.Cache
	tracker    *gesture.Tracker
	feedback   feedback
	log        *zap.Logger

	// turns counts settled turns; only the render loop touches it.
	turns int

	stateMu sync.RWMutex
	state   server.State

	// lifecycle serializes starting and stopping the sampler.
	lifecycle sync.Mutex

	mu            sync.Mutex
	enabled       bool
	status        gesture.Status
	hand          bool
	gestureCancel context.CancelFunc
	gestureDone   chan struct{}
	onStatus      func(gesture.Status)
}

// New creates an App from cfg.
func New(cfg Config) (*App, error) {
	if cfg.Settings == nil {
		return nil, errors.New("app: settings are required")
	}
	if cfg.NewCamera == nil {
		cfg.NewCamera = capture.NewCamera
	}
	if cfg.NewDetector == nil {
		settings := cfg.Settings
		cfg.NewDetector = func() (detector.Detector, error) {
			dc := detector.DefaultConfig()
			if settings.Gesture.MaxHands > 0 {
				dc.MaxHands = settings.Gesture.MaxHands
			}
			if settings.Gesture.MinConfidence > 0 {
				dc.MinConfidence = settings.Gesture.MinConfidence
			}
			return detector.NewMediaPipeDetector(dc)
		}
	}
	if cfg.Painter == nil {
		cfg.Painter = content.NewRenderer()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	controller, err := flip.New(flipOptions(cfg.Settings))
	if err != nil {
		return nil, fmt.Errorf("build brochure: %w", err)
	}

	var source content.Source
	if cfg.Store != nil {
		source = cfg.Store.Topics()
	}

	a := &App{
		config:     cfg,
		settings:   cfg.Settings,
		session:    uuid.New().String(),
		controller: controller,
		dispatcher: nav.NewDispatcher(controller, nav.DefaultInboxSize),
		preview:    capture.NewPreview(),
		cache:      content.NewCache(content.NewEngine(source, nil), cfg.Painter),
		tracker:    gesture.NewTracker(cfg.Settings.Gesture.Cooldown, cfg.Settings.Gesture.ReadyGrace),
		log:        logger.Named("app"),
		enabled:    cfg.Settings.Gesture.Enabled,
		status:     gesture.StatusDisabled,
	}
	a.hub = server.NewHub(a.dispatcher)
	a.dispatcher.OnResult(a.onResult)
	controller.OnFlipStart(a.onFlipStart)
	controller.OnFlipComplete(a.onFlipComplete)
	a.state = a.buildState(cfg.Now())

	return a, nil
}

func flipOptions(s *config.Config) flip.Options {
	opts := flip.DefaultOptions()
	opts.PageCount = s.Brochure.Pages
	if s.Brochure.Width > 0 {
		opts.Width = s.Brochure.Width
	}
	if s.Brochure.Height > 0 {
		opts.Height = s.Brochure.Height
	}
	if s.Brochure.SegmentsW > 0 {
		opts.SegmentsW = s.Brochure.SegmentsW
	}
	if s.Brochure.SegmentsH > 0 {
		opts.SegmentsH = s.Brochure.SegmentsH
	}
	if s.Brochure.FlipDuration > 0 {
		opts.Duration = s.Brochure.FlipDuration
	}
	opts.Epsilon = s.Brochure.Epsilon
	if s.Brochure.Amplitude > 0 {
		opts.Amplitude = s.Brochure.Amplitude
	}
	return opts
}

// onResult shows feedback for turns started by anything other than a
// gesture; gestures show their own message when they fire.
func (a *App) onResult(req nav.Request, started bool) {
	if !started || req.Source == nav.SourceGesture {
		return
	}
	switch req.Intent {
	case nav.Advance:
		a.feedback.show(FeedbackNext, a.config.Now())
	case nav.Retreat:
		a.feedback.show(FeedbackPrevious, a.config.Now())
	}
}

// Prepare seeds the topic table with the built-in catalog when it is empty,
// restores the persisted gesture setting and renders every page texture.
func (a *App) Prepare(ctx context.Context) error {
	if s := a.config.Store; s != nil {
		n, err := s.Topics().Seed(content.Catalog())
		if err != nil {
			return fmt.Errorf("seed topics: %w", err)
		}
		if n > 0 {
			a.log.Info("seeded topics", zap.Int("count", n))
		}

		enabled, err := s.Settings().GetBool(store.SettingGesturesEnabled, a.settings.Gesture.Enabled)
		if err != nil {
			return fmt.Errorf("load settings: %w", err)
		}
		a.mu.Lock()
		a.enabled = enabled
		a.mu.Unlock()
	}

	return a.cache.Warm(ctx, a.controller.PageCount())
}

// Run runs until ctx is cancelled: the render loop, the gesture sampler when
// enabled, and the config watcher when the settings came from a file.
// Call Prepare first.
func (a *App) Run(ctx context.Context) error {
	if path := a.settings.Path(); path != "" {
		go func() {
			err := config.Watch(ctx, path, config.DefaultWatchDebounce, a.ApplyConfig)
			if err != nil && !errors.Is(err, context.Canceled) {
				a.log.Warn("config watcher stopped", zap.Error(err))
			}
		}()
	}

	if a.GesturesEnabled() {
		a.startGestures()
	}
	defer a.stopGestures()
	defer a.hub.Close()

	a.log.Info("brochure ready",
		zap.Int("pages", a.controller.PageCount()),
		zap.String("session", a.session),
	)
	a.runRenderLoop(ctx)
	return ctx.Err()
}

// ApplyConfig applies the live-reloadable settings of cfg.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.tracker.SetCooldown(cfg.Gesture.Cooldown)
	a.log.Info("settings applied", zap.Duration("cooldown", a.tracker.Cooldown()))
}

// Session returns the id of this run.
func (a *App) Session() string {
	return a.session
}

// Dispatcher returns the navigation dispatcher.
func (a *App) Dispatcher() *nav.Dispatcher {
	return a.dispatcher
}

// Hub returns the frame hub.
func (a *App) Hub() *server.Hub {
	return a.hub
}

// Preview returns the camera preview fed by the gesture sampler.
func (a *App) Preview() *capture.Preview {
	return a.preview
}

// Textures returns the page texture cache.
func (a *App) Textures() *content.Cache {
	return a.cache
}

// PageCount returns the number of pages.
func (a *App) PageCount() int {
	return a.controller.PageCount()
}

// State returns the state published by the last render tick.
func (a *App) State() server.State {
	a.stateMu.RLock()
	defer a.stateMu.RUnlock()
	return a.state
}

package gesture

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"github.com/ayusman/brochure/internal/detector"
	"github.com/ayusman/brochure/internal/logger"
	"github.com/ayusman/brochure/internal/nav"
)

// DefaultFrameInterval is the pause between the end of one sample and the start of the next.
const DefaultFrameInterval = 16 * time.Millisecond

// FrameSource supplies video frames. The caller closes every returned frame.
type FrameSource interface {
	ReadFrame() (*gocv.Mat, error)
}

// SamplerConfig configures a Sampler.
type SamplerConfig struct {
	// Interval is waited after each completed sample. Defaults to DefaultFrameInterval.
	Interval time.Duration
	// Emit receives every fired intent.
	Emit func(nav.Intent)
	// OnState receives every frame's classification.
	OnState func(State)
	// Tap sees every successfully read frame before detection. The frame is
	// closed after Step returns.
	Tap func(*gocv.Mat)
	// Now overrides the clock.
	Now func() time.Time
}

// Sampler polls a frame source and a hand detector one frame at a time.
// The next sample is scheduled only after the previous one, including the
// detector call, has returned, so samples never overlap.
type Sampler struct {
	source   FrameSource
	detector detector.Detector
	tracker  *Tracker
	cfg      SamplerConfig
	log      *zap.Logger
}

// NewSampler creates a Sampler feeding tracker.
func NewSampler(source FrameSource, d detector.Detector, tracker *Tracker, cfg SamplerConfig) *Sampler {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultFrameInterval
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Sampler{
		source:   source,
		detector: d,
		tracker:  tracker,
		cfg:      cfg,
		log:      logger.Named("gesture"),
	}
}

// Run samples until ctx is cancelled. The first sample is taken immediately
// and the ready grace window starts with it.
func (s *Sampler) Run(ctx context.Context) error {
	s.tracker.Ready(s.cfg.Now())
	s.log.Info("gestures ready", zap.Duration("grace", s.tracker.readyGrace))

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		s.Step()
		timer.Reset(s.cfg.Interval)
	}
}

// Step takes one sample. A failed read or detection counts as a frame without a hand.
func (s *Sampler) Step() (State, []nav.Intent) {
	hands := s.detect()

	state, intents := s.tracker.Observe(hands, s.cfg.Now())
	if s.cfg.OnState != nil {
		s.cfg.OnState(state)
	}
	for _, intent := range intents {
		s.log.Info("gesture fired", zap.Stringer("intent", intent))
		if s.cfg.Emit != nil {
			s.cfg.Emit(intent)
		}
	}
	return state, intents
}

func (s *Sampler) detect() []detector.HandLandmarks {
	frame, err := s.source.ReadFrame()
	if err != nil {
		s.log.Debug("read frame", zap.Error(err))
		return nil
	}
	if frame != nil {
		defer frame.Close()
		if s.cfg.Tap != nil {
			s.cfg.Tap(frame)
		}
	}

	hands, err := s.detector.Detect(frame)
	if err != nil {
		s.log.Debug("detect hands", zap.Error(err))
		return nil
	}
	return hands
}

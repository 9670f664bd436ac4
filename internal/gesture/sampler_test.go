package gesture

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"github.com/ayusman/brochure/internal/capture"
	"github.com/ayusman/brochure/internal/detector"
	"github.com/ayusman/brochure/internal/nav"
)

// blankSource hands out no image; detection is driven by the mock detector.
type blankSource struct {
	mu    sync.Mutex
	err   error
	reads int
}

func (s *blankSource) ReadFrame() (*gocv.Mat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	return nil, s.err
}

func (s *blankSource) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

// fakeClock advances by one frame on every read.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(16 * time.Millisecond)
	return c.now
}

func TestSamplerStepEmitsOnEdge(t *testing.T) {
	det := detector.NewMockDetector()
	det.Queue(openHand(), curled(Index), curled(Index), openHand(), curled(Middle))

	var intents []nav.Intent
	var states []State
	tr := NewTracker(10*time.Millisecond, time.Millisecond)
	tr.Ready(t0)
	clock := &fakeClock{now: t0}
	s := NewSampler(&blankSource{}, det, tr, SamplerConfig{
		Emit:    func(i nav.Intent) { intents = append(intents, i) },
		OnState: func(st State) { states = append(states, st) },
		Now:     clock.Now,
	})

	for i := 0; i < 5; i++ {
		s.Step()
	}

	assert.Equal(t, []nav.Intent{nav.Advance, nav.Retreat}, intents)
	require.Len(t, states, 5)
	assert.True(t, states[1].IndexEdge)
	assert.False(t, states[2].IndexEdge)
	assert.Equal(t, 5, det.Calls())
}

func TestSamplerStepEmitsBothFingersInOrder(t *testing.T) {
	det := detector.NewMockDetector()
	det.Queue(openHand(), curled(Index, Middle))

	var intents []nav.Intent
	s := NewSampler(&blankSource{}, det, readyTracker(), SamplerConfig{
		Emit: func(i nav.Intent) { intents = append(intents, i) },
		Now:  (&fakeClock{now: t0}).Now,
	})
	s.Step()
	s.Step()

	assert.Equal(t, []nav.Intent{nav.Advance, nav.Retreat}, intents)
}

func TestSamplerDetectErrorCountsAsNoHand(t *testing.T) {
	det := detector.NewMockDetector()
	tr := readyTracker()
	s := NewSampler(&blankSource{}, det, tr, SamplerConfig{Now: func() time.Time { return t0 }})

	det.Queue(curled(Index))
	_, intents := s.Step()
	require.Equal(t, []nav.Intent{nav.Advance}, intents)

	det.SetError(errors.New("model crashed"))
	state, intents := s.Step()
	assert.Empty(t, intents)
	assert.False(t, state.HandPresent)
	assert.Equal(t, [NumFingers]bool{}, tr.prev, "memory reset on a failed frame")
}

func TestSamplerReadErrorSkipsDetection(t *testing.T) {
	det := detector.NewMockDetector()
	det.SetHands(curled(Index))
	src := &blankSource{err: capture.ErrCameraNotOpen}
	s := NewSampler(src, det, readyTracker(), SamplerConfig{Now: func() time.Time { return t0 }})

	state, intents := s.Step()
	assert.Empty(t, intents)
	assert.False(t, state.HandPresent)
	assert.Equal(t, 0, det.Calls())
	assert.Equal(t, 1, src.Reads())
}

func TestSamplerRunStopsOnCancel(t *testing.T) {
	det := detector.NewMockDetector()
	src := &blankSource{}
	s := NewSampler(src, det, NewTracker(0, 0), SamplerConfig{Interval: time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return src.Reads() >= 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestSamplerRunHonoursReadyGrace(t *testing.T) {
	det := detector.NewMockDetector()
	det.SetHands(curled(Index))

	var mu sync.Mutex
	fired := 0
	s := NewSampler(&blankSource{}, det, NewTracker(0, time.Hour), SamplerConfig{
		Interval: time.Millisecond,
		Emit: func(nav.Intent) {
			mu.Lock()
			fired++
			mu.Unlock()
		},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_ = s.Run(ctx)

	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, fired)
	assert.Positive(t, det.Calls())
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err  error
		want Status
	}{
		{nil, StatusActive},
		{capture.ErrNoCamera, StatusNoCamera},
		{capture.ErrPermissionDenied, StatusPermissionDenied},
		{detector.ErrModelUnavailable, StatusModelUnavailable},
		{errors.New("usb reset"), StatusCameraError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusForError(tt.err), "%v", tt.err)
	}
}

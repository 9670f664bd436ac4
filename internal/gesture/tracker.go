package gesture

import (
	"sync/atomic"
	"time"

	"github.com/ayusman/brochure/internal/detector"
	"github.com/ayusman/brochure/internal/nav"
)

// Default debounce windows.
const (
	DefaultCooldown   = 500 * time.Millisecond
	DefaultReadyGrace = 1500 * time.Millisecond
)

// State is the classification of one sampled frame.
type State struct {
	HandPresent bool             `json:"hand_present"`
	Curled      [NumFingers]bool `json:"curled"`
	// IndexEdge and MiddleEdge are set on the frame a finger became curled.
	IndexEdge  bool `json:"index_edge"`
	MiddleEdge bool `json:"middle_edge"`
}

// Tracker keeps the previous frame's curl memory and the global cooldown gate.
// It is not safe for concurrent use, apart from SetCooldown.
type Tracker struct {
	cooldown   atomic.Int64
	readyGrace time.Duration

	prev [NumFingers]bool
	gate time.Time
}

// NewTracker creates a Tracker. Non-positive windows select the defaults.
func NewTracker(cooldown, readyGrace time.Duration) *Tracker {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	if readyGrace <= 0 {
		readyGrace = DefaultReadyGrace
	}
	t := &Tracker{readyGrace: readyGrace}
	t.cooldown.Store(int64(cooldown))
	return t
}

// SetCooldown changes the steady-state window between two fired intents.
func (t *Tracker) SetCooldown(d time.Duration) {
	if d > 0 {
		t.cooldown.Store(int64(d))
	}
}

// Cooldown returns the steady-state window between two fired intents.
func (t *Tracker) Cooldown() time.Duration {
	return time.Duration(t.cooldown.Load())
}

// Ready opens the initial grace window: nothing fires before now+readyGrace.
func (t *Tracker) Ready(now time.Time) {
	t.gate = now.Add(t.readyGrace)
}

// Reset forgets the curl memory of the previous frame.
func (t *Tracker) Reset() {
	t.prev = [NumFingers]bool{}
}

// Observe classifies the first detected hand and returns the intents it fires.
//
// An index curl advances and a middle curl retreats; each finger fires
// independently on the frame it goes from open to curled, index first. Nothing
// fires until the cooldown gate has passed, and the curl memory is only
// updated on frames where the gate is open, so a curl that starts during the
// cooldown and is held fires once the window reopens. A frame without a hand
// clears the curl memory.
func (t *Tracker) Observe(hands []detector.HandLandmarks, now time.Time) (State, []nav.Intent) {
	if len(hands) == 0 {
		t.Reset()
		return State{}, nil
	}

	curled := Classify(&hands[0])
	state := State{
		HandPresent: true,
		Curled:      curled,
		IndexEdge:   curled[Index] && !t.prev[Index],
		MiddleEdge:  curled[Middle] && !t.prev[Middle],
	}
	if !now.After(t.gate) {
		return state, nil
	}
	t.prev = curled

	var intents []nav.Intent
	if state.IndexEdge {
		intents = append(intents, nav.Advance)
	}
	if state.MiddleEdge {
		intents = append(intents, nav.Retreat)
	}
	if len(intents) > 0 {
		t.gate = now.Add(t.Cooldown())
	}
	return state, intents
}

package app

import (
	"sync"
	"time"
)

// FeedbackDuration is how long a feedback message stays visible.
const FeedbackDuration = 1500 * time.Millisecond

// Feedback messages.
const (
	FeedbackNext          = "Next Page"
	FeedbackPrevious      = "Previous Page"
	FeedbackNextGesture   = "Next Triggered!"
	FeedbackPrevGesture   = "Prev Triggered!"
	FeedbackGesturesReady = "Gestures Ready"
)

// feedback holds the most recent transient message. A newer message
// replaces the current one and restarts its timer.
type feedback struct {
	mu      sync.Mutex
	message string
	until   time.Time
}

func (f *feedback) show(message string, now time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.message = message
	f.until = now.Add(FeedbackDuration)
}

func (f *feedback) current(now time.Time) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if now.Before(f.until) {
		return f.message
	}
	return ""
}

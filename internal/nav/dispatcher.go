package nav

import (
	"go.uber.org/zap"

	"github.com/ayusman/brochure/internal/logger"
)

// DefaultInboxSize bounds the number of requests waiting for the render loop.
const DefaultInboxSize = 16

// Flipper is the page-turn entry point shared by every intent source.
type Flipper interface {
	FlipForward() bool
	FlipBackward() bool
}

// ResultFunc observes every dispatched request and whether it started a turn.
type ResultFunc func(req Request, started bool)

// Dispatcher is the single funnel from intent sources to a Flipper.
//
// Dispatch and Drain must be called from the goroutine that owns the Flipper.
// Submit may be called from any goroutine.
type Dispatcher struct {
	flipper  Flipper
	inbox    chan Request
	onResult ResultFunc
	log      *zap.Logger
}

// NewDispatcher creates a Dispatcher in front of f. A non-positive inboxSize
// selects DefaultInboxSize.
func NewDispatcher(f Flipper, inboxSize int) *Dispatcher {
	if inboxSize <= 0 {
		inboxSize = DefaultInboxSize
	}
	return &Dispatcher{
		flipper: f,
		inbox:   make(chan Request, inboxSize),
		log:     logger.Named("nav"),
	}
}

// OnResult registers an observer for dispatched requests.
func (d *Dispatcher) OnResult(fn ResultFunc) {
	d.onResult = fn
}

// Dispatch applies req immediately and reports whether a turn started.
// A request that cannot proceed is dropped, not queued.
func (d *Dispatcher) Dispatch(req Request) bool {
	var started bool
	switch req.Intent {
	case Advance:
		started = d.flipper.FlipForward()
	case Retreat:
		started = d.flipper.FlipBackward()
	}

	if started {
		d.log.Debug("turn started", zap.Stringer("intent", req.Intent), zap.String("source", string(req.Source)))
	} else {
		d.log.Debug("request dropped", zap.Stringer("intent", req.Intent), zap.String("source", string(req.Source)))
	}

	if d.onResult != nil {
		d.onResult(req, started)
	}
	return started
}

// Submit hands req to the owning goroutine without blocking.
// It returns false when the inbox is full and the request was dropped.
func (d *Dispatcher) Submit(req Request) bool {
	select {
	case d.inbox <- req:
		return true
	default:
		d.log.Debug("inbox full, request dropped", zap.Stringer("intent", req.Intent))
		return false
	}
}

// Drain dispatches every request submitted so far and returns how many were handled.
func (d *Dispatcher) Drain() int {
	n := 0
	for {
		select {
		case req := <-d.inbox:
			d.Dispatch(req)
			n++
		default:
			return n
		}
	}
}

// Pending returns the number of submitted requests not yet drained.
func (d *Dispatcher) Pending() int {
	return len(d.inbox)
}

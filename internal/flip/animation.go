package flip

import (
	"time"

	"github.com/chewxy/math32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Direction is the way a page turns.
type Direction int

const (
	// Forward turns the current page onto the read side.
	Forward Direction = iota
	// Backward returns the last turned page to the unread side.
	Backward
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return "unknown"
	}
}

// Animation is one in-flight page turn. It is advanced only by Tick.
type Animation struct {
	Page      int
	Direction Direction
	Duration  time.Duration

	elapsed  time.Duration
	rotation float32
	target   float32
	done     bool
	tween    *gween.Tween
}

func newAnimation(page int, dir Direction, from, to float32, duration time.Duration, easing ease.TweenFunc) *Animation {
	if easing == nil {
		easing = ease.InOutQuad
	}
	return &Animation{
		Page:      page,
		Direction: dir,
		Duration:  duration,
		rotation:  from,
		target:    to,
		tween:     gween.New(from, to, float32(duration.Seconds()), easing),
	}
}

// Tick advances the rotation tween by dt and returns the new rotation and
// whether the tween has reached its end.
func (a *Animation) Tick(dt time.Duration) (float32, bool) {
	if a.done {
		return a.rotation, true
	}
	if dt < 0 {
		dt = 0
	}
	a.elapsed += dt
	a.rotation, a.done = a.tween.Update(float32(dt.Seconds()))
	if a.elapsed >= a.Duration {
		a.done = true
	}
	if a.done {
		a.rotation = a.target
	}
	return a.rotation, a.done
}

// Rotation returns the current rotation about the spine in radians.
func (a *Animation) Rotation() float32 {
	return a.rotation
}

// Elapsed returns the animation time consumed so far.
func (a *Animation) Elapsed() time.Duration {
	return a.elapsed
}

// Done reports whether the tween has finished.
func (a *Animation) Done() bool {
	return a.done
}

// Progress is the fraction of a half turn covered by the current rotation, in [0,1].
func (a *Animation) Progress() float32 {
	return progressOf(a.rotation)
}

func progressOf(rotation float32) float32 {
	p := math32.Abs(rotation) / math32.Pi
	if p > 1 {
		return 1
	}
	return p
}

// BendFactor maps turn progress to a unit bend: 0 at rest, 1 mid-turn, 0 when turned.
func BendFactor(progress float32) float32 {
	return 4 * progress * (1 - progress)
}

package flip

import (
	"errors"
	"testing"
	"time"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = 16 * time.Millisecond

func newTestController(t *testing.T, pages int) *Controller {
	t.Helper()
	opts := DefaultOptions()
	opts.PageCount = pages
	c, err := New(opts)
	require.NoError(t, err)
	return c
}

// runToCompletion ticks at a fixed frame rate until the active turn settles.
func runToCompletion(t *testing.T, c *Controller) []Update {
	t.Helper()
	var updates []Update
	for i := 0; i < 1000; i++ {
		u, ok := c.Tick(frame)
		if !ok {
			return updates
		}
		updates = append(updates, u)
		if u.Done {
			return updates
		}
	}
	t.Fatal("turn did not complete")
	return nil
}

func TestNew(t *testing.T) {
	t.Run("pages start flat and stacked", func(t *testing.T) {
		c := newTestController(t, 10)

		assert.Equal(t, 0, c.Current())
		assert.Equal(t, 10, c.PageCount())
		assert.False(t, c.IsAnimating())
		for i := 0; i < 10; i++ {
			p := c.Page(i)
			assert.Zero(t, p.Rotation)
			assert.Zero(t, p.Bend)
			assert.False(t, p.Flipped)
			assert.InDelta(t, float32(10-i)*0.005, p.Depth, 1e-6)
			assert.Equal(t, c.Geometry().Rest(), p.Positions)
		}
		assert.Nil(t, c.Page(-1))
		assert.Nil(t, c.Page(10))
	})

	t.Run("rejects bad options", func(t *testing.T) {
		opts := DefaultOptions()
		opts.PageCount = 0
		_, err := New(opts)
		assert.True(t, errors.Is(err, ErrInvalidOptions))

		opts = DefaultOptions()
		opts.Duration = 0
		_, err = New(opts)
		assert.True(t, errors.Is(err, ErrInvalidOptions))

		opts = DefaultOptions()
		opts.SegmentsW = 0
		_, err = New(opts)
		assert.Error(t, err)
	})
}

func TestBendFactor(t *testing.T) {
	tests := []struct {
		progress float32
		want     float32
	}{
		{0, 0},
		{0.25, 0.75},
		{0.5, 1},
		{0.75, 0.75},
		{1, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, BendFactor(tt.progress), 1e-6, "progress %v", tt.progress)
		assert.InDelta(t, tt.want*DefaultAmplitude, BendFactor(tt.progress)*DefaultAmplitude, 1e-6)
	}
}

func TestController_FlipForward(t *testing.T) {
	t.Run("completes after the duration", func(t *testing.T) {
		c := newTestController(t, 10)

		require.True(t, c.FlipForward())
		assert.True(t, c.IsAnimating())
		assert.Equal(t, 0, c.Current())

		u, ok := c.Tick(DefaultDuration)
		require.True(t, ok)
		assert.True(t, u.Done)

		assert.Equal(t, 1, c.Current())
		assert.False(t, c.IsAnimating())
		p := c.Page(0)
		assert.True(t, p.Flipped)
		assert.Zero(t, p.Bend)
		assert.InDelta(t, -math32.Pi+DefaultEpsilon, p.Rotation, 1e-6)
		assert.InDelta(t, 0.006+0.1, p.Depth, 1e-6)
		assert.Equal(t, c.Geometry().Rest(), p.Positions)
	})

	t.Run("second request during a turn is dropped", func(t *testing.T) {
		c := newTestController(t, 10)

		assert.True(t, c.FlipForward())
		assert.False(t, c.FlipForward())
		assert.False(t, c.FlipBackward())

		runToCompletion(t, c)
		assert.Equal(t, 1, c.Current())
		assert.False(t, c.Page(1).Flipped)
	})

	t.Run("no-op past the last page", func(t *testing.T) {
		c := newTestController(t, 2)
		for i := 0; i < 2; i++ {
			require.True(t, c.FlipForward())
			runToCompletion(t, c)
		}

		assert.Equal(t, 2, c.Current())
		assert.False(t, c.FlipForward())
		assert.False(t, c.IsAnimating())
		assert.Equal(t, 2, c.Current())
	})

	t.Run("bend peaks mid turn and ends at zero", func(t *testing.T) {
		c := newTestController(t, 10)
		require.True(t, c.FlipForward())

		updates := runToCompletion(t, c)
		require.NotEmpty(t, updates)

		var peak float32
		for _, u := range updates {
			assert.GreaterOrEqual(t, u.Bend, float32(0))
			assert.LessOrEqual(t, u.Bend, float32(DefaultAmplitude)+1e-5)
			if u.Bend > peak {
				peak = u.Bend
			}
		}
		assert.InDelta(t, DefaultAmplitude, peak, 0.05)

		last := updates[len(updates)-1]
		assert.True(t, last.Done)
		assert.Zero(t, last.Bend)
		for _, u := range updates[:len(updates)-1] {
			assert.False(t, u.Done)
		}
	})

	t.Run("rotation is monotonic", func(t *testing.T) {
		c := newTestController(t, 10)
		require.True(t, c.FlipForward())

		prev := float32(0)
		for _, u := range runToCompletion(t, c) {
			assert.LessOrEqual(t, u.Rotation, prev)
			prev = u.Rotation
		}
	})

	t.Run("free edge lifts while curling", func(t *testing.T) {
		c := newTestController(t, 10)
		require.True(t, c.FlipForward())

		u, ok := c.Tick(DefaultDuration / 2)
		require.True(t, ok)
		require.False(t, u.Done)

		edge := c.Geometry().SegmentsW
		assert.InDelta(t, u.Bend, u.Positions[edge].Z, 1e-5)
		assert.Zero(t, u.Positions[0].Z)
	})
}

func TestController_FlipBackward(t *testing.T) {
	t.Run("no-op at the first page", func(t *testing.T) {
		c := newTestController(t, 10)

		assert.False(t, c.FlipBackward())
		assert.Equal(t, 0, c.Current())
		assert.False(t, c.IsAnimating())
	})

	t.Run("decrements before animating", func(t *testing.T) {
		c := newTestController(t, 10)
		require.True(t, c.FlipForward())
		runToCompletion(t, c)

		require.True(t, c.FlipBackward())
		assert.Equal(t, 0, c.Current())
		assert.Equal(t, 0, c.Animation().Page)
		assert.Equal(t, Backward, c.Animation().Direction)
	})

	t.Run("round trip restores the page", func(t *testing.T) {
		c := newTestController(t, 10)
		before := *c.Page(0)
		before.Positions = append(before.Positions[:0:0], before.Positions...)

		require.True(t, c.FlipForward())
		runToCompletion(t, c)
		require.True(t, c.FlipBackward())
		runToCompletion(t, c)

		after := c.Page(0)
		assert.Equal(t, 0, c.Current())
		assert.Equal(t, before.Rotation, after.Rotation)
		assert.Equal(t, before.Bend, after.Bend)
		assert.Equal(t, before.Flipped, after.Flipped)
		assert.Equal(t, before.Depth, after.Depth)
		assert.Equal(t, before.Positions, after.Positions)
	})
}

func TestController_CurrentStaysInRange(t *testing.T) {
	c := newTestController(t, 3)
	moves := []bool{true, true, false, true, true, true, true, false, false, false, false, false}

	for _, forward := range moves {
		if forward {
			c.FlipForward()
		} else {
			c.FlipBackward()
		}
		runToCompletion(t, c)
		assert.GreaterOrEqual(t, c.Current(), 0)
		assert.LessOrEqual(t, c.Current(), c.PageCount())
	}
}

func TestController_Callbacks(t *testing.T) {
	c := newTestController(t, 10)

	var started, completed []Direction
	c.OnFlipStart(func(page int, dir Direction) { started = append(started, dir) })
	c.OnFlipComplete(func(page int, dir Direction) {
		assert.False(t, c.IsAnimating())
		completed = append(completed, dir)
	})

	c.FlipForward()
	c.FlipForward()
	runToCompletion(t, c)
	c.FlipBackward()
	runToCompletion(t, c)

	assert.Equal(t, []Direction{Forward, Backward}, started)
	assert.Equal(t, []Direction{Forward, Backward}, completed)
}

func TestController_TickIdle(t *testing.T) {
	c := newTestController(t, 10)

	_, ok := c.Tick(frame)
	assert.False(t, ok)
}

func TestController_Snapshot(t *testing.T) {
	c := newTestController(t, 4)

	s := c.Snapshot()
	assert.Equal(t, -1, s.Active)
	assert.False(t, s.Animating)
	assert.Len(t, s.Pages, 4)

	require.True(t, c.FlipForward())
	c.Tick(frame)

	s = c.Snapshot()
	assert.True(t, s.Animating)
	assert.Equal(t, 0, s.Active)
	assert.Equal(t, "forward", s.Direction)
	assert.Greater(t, s.Progress, float32(0))
}

func TestAnimation_LargeStepFinishes(t *testing.T) {
	a := newAnimation(0, Forward, 0, -math32.Pi+DefaultEpsilon, DefaultDuration, nil)

	rot, done := a.Tick(10 * time.Second)

	assert.True(t, done)
	assert.Equal(t, -math32.Pi+DefaultEpsilon, rot)

	rot, done = a.Tick(frame)
	assert.True(t, done)
	assert.Equal(t, -math32.Pi+DefaultEpsilon, rot)
}

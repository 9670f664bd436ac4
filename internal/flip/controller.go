// Package flip implements the brochure page stack and the page-turn animation.
//
// A Controller is not safe for concurrent use. It is owned by the render loop,
// which is the only caller of Tick and of the flip entry points.
package flip

import (
	"fmt"
	"time"

	"github.com/chewxy/math32"

	"github.com/ayusman/brochure/internal/mesh"
)

// FlipFunc is called when a page turn starts or completes.
type FlipFunc func(page int, dir Direction)

// Update describes the state of the animated page after a Tick.
type Update struct {
	Page      int
	Direction Direction
	Rotation  float32
	Bend      float32
	Depth     float32
	Flipped   bool
	Progress  float32
	Done      bool
	Positions []mesh.Vertex
}

// Controller owns the page stack, the current page and the single active animation.
type Controller struct {
	opts     Options
	geometry *mesh.Geometry
	pages    []*Page
	current  int
	anim     *Animation
	turned   float32

	onStart    FlipFunc
	onComplete FlipFunc
}

// New builds a brochure of opts.PageCount flat, unturned pages.
func New(opts Options) (*Controller, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	g, err := mesh.NewGeometry(opts.Width, opts.Height, opts.SegmentsW, opts.SegmentsH)
	if err != nil {
		return nil, fmt.Errorf("build page geometry: %w", err)
	}

	c := &Controller{
		opts:     opts,
		geometry: g,
		pages:    make([]*Page, opts.PageCount),
		turned:   -math32.Pi + opts.Epsilon,
	}
	for i := range c.pages {
		c.pages[i] = newPage(i, opts.PageCount, g)
	}
	return c, nil
}

// OnFlipStart registers a callback invoked when a turn begins.
func (c *Controller) OnFlipStart(fn FlipFunc) {
	c.onStart = fn
}

// OnFlipComplete registers a callback invoked after a turn has settled.
func (c *Controller) OnFlipComplete(fn FlipFunc) {
	c.onComplete = fn
}

// FlipForward starts turning the current page. It returns false without
// changing anything when the last page has been turned or a turn is in flight.
func (c *Controller) FlipForward() bool {
	if c.current >= len(c.pages) || c.anim != nil {
		return false
	}

	page := c.pages[c.current]
	c.anim = newAnimation(page.Index, Forward, page.Rotation, c.turned, c.opts.Duration, c.opts.Easing)
	if c.onStart != nil {
		c.onStart(page.Index, Forward)
	}
	return true
}

// FlipBackward starts returning the last turned page. It returns false
// without changing anything at the first page or while a turn is in flight.
func (c *Controller) FlipBackward() bool {
	if c.current <= 0 || c.anim != nil {
		return false
	}

	c.current--
	page := c.pages[c.current]
	c.anim = newAnimation(page.Index, Backward, page.Rotation, 0, c.opts.Duration, c.opts.Easing)
	if c.onStart != nil {
		c.onStart(page.Index, Backward)
	}
	return true
}

// Tick advances the active turn by dt. It returns false when no turn is in flight.
// The tick that finishes a turn settles the page flat and releases the busy gate.
func (c *Controller) Tick(dt time.Duration) (Update, bool) {
	if c.anim == nil {
		return Update{}, false
	}

	anim := c.anim
	page := c.pages[anim.Page]

	rotation, done := anim.Tick(dt)
	page.Rotation = rotation
	page.Bend = BendFactor(anim.Progress()) * c.opts.Amplitude
	page.deform()

	if done {
		c.complete(page, anim.Direction)
	}

	return Update{
		Page:      page.Index,
		Direction: anim.Direction,
		Rotation:  page.Rotation,
		Bend:      page.Bend,
		Depth:     page.Depth,
		Flipped:   page.Flipped,
		Progress:  anim.Progress(),
		Done:      done,
		Positions: page.Positions,
	}, true
}

func (c *Controller) complete(page *Page, dir Direction) {
	page.Bend = 0
	page.deform()

	switch dir {
	case Forward:
		page.Flipped = true
		page.Depth = turnedDepth(page.Index)
		c.current++
	case Backward:
		page.Flipped = false
		page.Depth = restDepth(page.Index, len(c.pages))
	}
	c.anim = nil

	if c.onComplete != nil {
		c.onComplete(page.Index, dir)
	}
}

// Current returns the index of the first unturned page, in [0, PageCount].
func (c *Controller) Current() int {
	return c.current
}

// PageCount returns the number of pages in the brochure.
func (c *Controller) PageCount() int {
	return len(c.pages)
}

// IsAnimating reports whether a turn is in flight.
func (c *Controller) IsAnimating() bool {
	return c.anim != nil
}

// Animation returns the active turn, or nil when idle.
func (c *Controller) Animation() *Animation {
	return c.anim
}

// Page returns page i, or nil when i is out of range.
func (c *Controller) Page(i int) *Page {
	if i < 0 || i >= len(c.pages) {
		return nil
	}
	return c.pages[i]
}

// Geometry returns the rest geometry shared by every page.
func (c *Controller) Geometry() *mesh.Geometry {
	return c.geometry
}

// Options returns the options the controller was built with.
func (c *Controller) Options() Options {
	return c.opts
}

package flip

import (
	"errors"
	"fmt"
	"time"

	"github.com/tanema/gween/ease"
)

// ErrInvalidOptions is returned by New when the brochure cannot be built from the given options.
var ErrInvalidOptions = errors.New("invalid brochure options")

// Default brochure settings.
const (
	DefaultPageCount = 10
	DefaultWidth     = 3.5
	DefaultHeight    = 4.8
	DefaultSegmentsW = 20
	DefaultSegmentsH = 1
	DefaultDuration  = 1600 * time.Millisecond
	// DefaultEpsilon keeps a turned page just short of a half turn so it never sits edge-on.
	DefaultEpsilon   = 0.05
	DefaultAmplitude = 1.5
)

// Options configures a Controller.
type Options struct {
	PageCount int
	Width     float32
	Height    float32
	SegmentsW int
	SegmentsH int

	Duration  time.Duration
	Epsilon   float32
	Amplitude float32

	// Easing shapes the rotation tween. Defaults to ease.InOutQuad.
	Easing ease.TweenFunc
}

// DefaultOptions returns the options of a ten page brochure.
func DefaultOptions() Options {
	return Options{
		PageCount: DefaultPageCount,
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		SegmentsW: DefaultSegmentsW,
		SegmentsH: DefaultSegmentsH,
		Duration:  DefaultDuration,
		Epsilon:   DefaultEpsilon,
		Amplitude: DefaultAmplitude,
		Easing:    ease.InOutQuad,
	}
}

func (o Options) validate() error {
	if o.PageCount <= 0 {
		return fmt.Errorf("%w: page count %d", ErrInvalidOptions, o.PageCount)
	}
	if o.Duration <= 0 {
		return fmt.Errorf("%w: duration %s", ErrInvalidOptions, o.Duration)
	}
	if o.Epsilon < 0 {
		return fmt.Errorf("%w: epsilon %g", ErrInvalidOptions, o.Epsilon)
	}
	return nil
}

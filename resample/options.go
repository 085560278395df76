package resample

import (
	"image/color"

	"github.com/gogpu/rasterdoc"
)

// Option configures a Resampler.
//
// Example:
//
//	r := resample.New(
//	    resample.WithRotateStrategy(rasterdoc.StrategyLanczos3),
//	    resample.WithBackground(color.NRGBA{A: 255}),
//	)
type Option func(*options)

type options struct {
	rotateStrategy rasterdoc.Strategy
	background     color.NRGBA
}

func defaultOptions() options {
	return options{
		rotateStrategy: rasterdoc.StrategyBicubic,
	}
}

// WithRotateStrategy selects the filter used for rotations that are not
// quarter turns. The default is Bicubic.
func WithRotateStrategy(s rasterdoc.Strategy) Option {
	return func(o *options) {
		o.rotateStrategy = s
	}
}

// WithBackground sets the colour that fills the corners uncovered by a
// rotation. The default is transparent black.
func WithBackground(c color.NRGBA) Option {
	return func(o *options) {
		o.background = c
	}
}

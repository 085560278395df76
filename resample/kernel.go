package resample

import (
	"fmt"
	"math"

	"golang.org/x/image/draw"

	"github.com/gogpu/rasterdoc"
)

// Filter kernels by strategy. At receives the distance from the sample
// centre and must return 0 at or beyond Support.
var (
	hermiteKernel = &draw.Kernel{Support: 1, At: func(t float64) float64 {
		t = math.Abs(t)
		if t < 1 {
			return (2*t-3)*t*t + 1
		}
		return 0
	}}

	// boxKernel uses support 1 so that a target pixel centred exactly
	// between two source pixels still has both neighbours in range.
	boxKernel = &draw.Kernel{Support: 1, At: func(t float64) float64 {
		t = math.Abs(t)
		switch {
		case t < 0.5:
			return 1
		case t == 0.5:
			return 0.5
		default:
			return 0
		}
	}}

	bellKernel = &draw.Kernel{Support: 1.5, At: func(t float64) float64 {
		t = math.Abs(t)
		switch {
		case t < 0.5:
			return 0.75 - t*t
		case t < 1.5:
			t -= 1.5
			return 0.5 * t * t
		default:
			return 0
		}
	}}

	bSplineKernel = &draw.Kernel{Support: 2, At: func(t float64) float64 {
		t = math.Abs(t)
		switch {
		case t < 1:
			return 0.5*t*t*t - t*t + 2.0/3.0
		case t < 2:
			t = 2 - t
			return t * t * t / 6
		default:
			return 0
		}
	}}

	lanczos3Kernel = &draw.Kernel{Support: 3, At: func(t float64) float64 {
		t = math.Abs(t)
		if t < 3 {
			return sinc(t) * sinc(t/3)
		}
		return 0
	}}

	mitchellKernel = &draw.Kernel{Support: 2, At: func(t float64) float64 {
		const b, c = 1.0 / 3.0, 1.0 / 3.0
		t = math.Abs(t)
		switch {
		case t < 1:
			return ((12-9*b-6*c)*t*t*t + (-18+12*b+6*c)*t*t + (6 - 2*b)) / 6
		case t < 2:
			return ((-b-6*c)*t*t*t + (6*b+30*c)*t*t + (-12*b-48*c)*t + (8*b + 24*c)) / 6
		default:
			return 0
		}
	}}
)

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	x *= math.Pi
	return math.Sin(x) / x
}

// Kernel returns the filter kernel for s.
func Kernel(s rasterdoc.Strategy) (*draw.Kernel, error) {
	switch s {
	case rasterdoc.StrategyHermite:
		return hermiteKernel, nil
	case rasterdoc.StrategyBicubic:
		return draw.CatmullRom, nil
	case rasterdoc.StrategyBox:
		return boxKernel, nil
	case rasterdoc.StrategyBilinear:
		return draw.BiLinear, nil
	case rasterdoc.StrategyBell:
		return bellKernel, nil
	case rasterdoc.StrategyBSpline:
		return bSplineKernel, nil
	case rasterdoc.StrategyLanczos3:
		return lanczos3Kernel, nil
	case rasterdoc.StrategyMitchell:
		return mitchellKernel, nil
	default:
		return nil, fmt.Errorf("%w: %d", rasterdoc.ErrUnknownStrategy, s)
	}
}

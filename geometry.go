package rasterdoc

import (
	"fmt"
	"math"
	"strings"
)

// Accepted domains for the geometry adjustments.
const (
	MinRotateDegrees = -180.0
	MaxRotateDegrees = 180.0

	MinScaleValue = 1
	MaxScaleValue = 10000
)

// Strategy selects the resampling filter used when scaling an image.
type Strategy uint8

const (
	// StrategyHermite is a cubic Hermite filter with support 1.
	StrategyHermite Strategy = iota

	// StrategyBicubic is the Catmull-Rom cubic filter.
	StrategyBicubic

	// StrategyBox averages the source pixels under each target pixel.
	StrategyBox

	// StrategyBilinear is the triangle (tent) filter.
	StrategyBilinear

	// StrategyBell is the quadratic Bell filter with support 1.5.
	StrategyBell

	// StrategyBSpline is the cubic B-spline filter (smooth, slightly blurry).
	StrategyBSpline

	// StrategyLanczos3 is the windowed sinc filter with three lobes.
	StrategyLanczos3

	// StrategyMitchell is the Mitchell-Netravali filter with B = C = 1/3.
	StrategyMitchell

	strategyCount
)

var strategyNames = [strategyCount]string{
	StrategyHermite:  "Hermite",
	StrategyBicubic:  "Bicubic",
	StrategyBox:      "Box",
	StrategyBilinear: "Bilinear",
	StrategyBell:     "Bell",
	StrategyBSpline:  "BSpline",
	StrategyLanczos3: "Lanczos3",
	StrategyMitchell: "Mitchell",
}

// String returns the canonical strategy name.
func (s Strategy) String() string {
	if s >= strategyCount {
		return "Unknown"
	}
	return strategyNames[s]
}

// IsValid reports whether s is a known strategy.
func (s Strategy) IsValid() bool {
	return s < strategyCount
}

// Strategies returns every known strategy in declaration order.
func Strategies() []Strategy {
	out := make([]Strategy, strategyCount)
	for i := range out {
		out[i] = Strategy(i)
	}
	return out
}

// ParseStrategy looks up a strategy by its exact canonical name.
func ParseStrategy(name string) (Strategy, error) {
	for i, n := range strategyNames {
		if n == name {
			return Strategy(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q (want one of %s)",
		ErrUnknownStrategy, name, strings.Join(strategyNames[:], ", "))
}

// ScaleParams is a validated request for an external resampling routine.
type ScaleParams struct {
	Width, Height int
	XRes, YRes    int
	Strategy      Strategy
}

// ScaleAdjust validates a scale request. Width, height and both
// resolutions must lie in [MinScaleValue, MaxScaleValue]; strategy must
// name a known filter. No resampling happens here.
func ScaleAdjust(width, height, xRes, yRes int, strategy string) (ScaleParams, error) {
	for _, v := range []struct {
		name  string
		value int
	}{
		{"width", width},
		{"height", height},
		{"xRes", xRes},
		{"yRes", yRes},
	} {
		if v.value < MinScaleValue || v.value > MaxScaleValue {
			return ScaleParams{}, fmt.Errorf("%w: %s %d not in [%d, %d]",
				ErrOutOfRange, v.name, v.value, MinScaleValue, MaxScaleValue)
		}
	}
	s, err := ParseStrategy(strategy)
	if err != nil {
		return ScaleParams{}, err
	}
	p := ScaleParams{Width: width, Height: height, XRes: xRes, YRes: yRes, Strategy: s}
	Logger().Debug("rasterdoc: scale adjusted", "width", width, "height", height,
		"xres", xRes, "yres", yRes, "strategy", s.String())
	return p, nil
}

// RotateAdjust converts degrees in [-180, 180] to radians for an external
// rotation routine. Anything else, NaN included, returns ErrOutOfRange.
func RotateAdjust(degrees float64) (float64, error) {
	if math.IsNaN(degrees) || degrees < MinRotateDegrees || degrees > MaxRotateDegrees {
		return 0, fmt.Errorf("%w: %v degrees not in [%v, %v]",
			ErrOutOfRange, degrees, MinRotateDegrees, MaxRotateDegrees)
	}
	return degrees * math.Pi / 180, nil
}

// ResizeDocument returns the canvas that covers canvas and the bounds of
// every layer in layers. Only the given layers are considered; their
// children are not. The fold runs in slice order.
func ResizeDocument(canvas Rect, layers []*Layer) Rect {
	u := canvas
	for _, l := range layers {
		u = u.Union(l.Bounds())
	}
	return u
}

// RotatedSize returns the size of the axis-aligned box that holds a w×h
// rectangle rotated by radians. Quarter turns swap w and h exactly.
func RotatedSize(w, h int, radians float64) (int, int) {
	c := math.Abs(math.Cos(radians))
	s := math.Abs(math.Sin(radians))
	const eps = 1e-9
	if c < eps {
		c = 0
	}
	if s < eps {
		s = 0
	}
	fw, fh := float64(w), float64(h)
	nw := int(math.Ceil(fw*c + fh*s - eps))
	nh := int(math.Ceil(fw*s + fh*c - eps))
	return max(nw, 0), max(nh, 0)
}

package resample

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"

	"github.com/gogpu/rasterdoc"
)

// quarterTurnEpsilon is how close (in radians) an angle must be to a
// multiple of π/2 to be treated as an exact quarter turn.
const quarterTurnEpsilon = 1e-9

// Resampler scales and rotates pixel buffers. The zero value is not
// usable; create one with New. A Resampler holds no mutable state and may
// be shared.
type Resampler struct {
	opts options
}

var _ rasterdoc.Resampler = (*Resampler)(nil)

// New creates a Resampler.
func New(opts ...Option) *Resampler {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Resampler{opts: o}
}

// Scale returns a new buffer of p.Width×p.Height resampled from buf with
// p.Strategy. The channel count is preserved. The target only needs to be
// at least 1×1 and allocatable; a layer scaled along with its document
// may legitimately be larger than the document's own size limit.
func (r *Resampler) Scale(buf *rasterdoc.PixelBuffer, p rasterdoc.ScaleParams) (*rasterdoc.PixelBuffer, error) {
	if p.Width < 1 || p.Height < 1 {
		return nil, fmt.Errorf("%w: target %dx%d", rasterdoc.ErrOutOfRange, p.Width, p.Height)
	}
	if err := rasterdoc.ValidateSize(p.Width, p.Height, rasterdoc.MaxChannels); err != nil {
		return nil, err
	}
	if buf.IsEmpty() {
		return nil, fmt.Errorf("%w: cannot scale empty %dx%d buffer",
			rasterdoc.ErrInvalidDimension, buf.Width(), buf.Height())
	}
	k, err := Kernel(p.Strategy)
	if err != nil {
		return nil, err
	}

	src := buf.ToNRGBA()
	dst := image.NewNRGBA(image.Rect(0, 0, p.Width, p.Height))
	k.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	rasterdoc.Logger().Debug("resample: scaled",
		"from", fmt.Sprintf("%dx%d", buf.Width(), buf.Height()),
		"to", fmt.Sprintf("%dx%d", p.Width, p.Height),
		"strategy", p.Strategy.String())
	return rasterdoc.FromImage(dst, buf.Channels())
}

// Rotate returns buf rotated by radians about its centre (clockwise on
// screen for positive angles). The result is sized to the rotated
// bounding box; uncovered corners take the background colour. Quarter
// turns are exact.
func (r *Resampler) Rotate(buf *rasterdoc.PixelBuffer, radians float64) (*rasterdoc.PixelBuffer, error) {
	if math.IsNaN(radians) || math.IsInf(radians, 0) {
		return nil, fmt.Errorf("%w: rotation %v", rasterdoc.ErrOutOfRange, radians)
	}
	if turns, ok := quarterTurns(radians); ok {
		return rotateQuarter(buf, turns)
	}
	k, err := Kernel(r.opts.rotateStrategy)
	if err != nil {
		return nil, err
	}

	nw, nh := rasterdoc.RotatedSize(buf.Width(), buf.Height(), radians)
	if err := rasterdoc.ValidateSize(nw, nh, rasterdoc.MaxChannels); err != nil {
		return nil, err
	}
	dst := image.NewNRGBA(image.Rect(0, 0, nw, nh))
	if r.opts.background.A != 0 {
		draw.Draw(dst, dst.Bounds(), image.NewUniform(r.opts.background), image.Point{}, draw.Src)
	}
	if !buf.IsEmpty() {
		src := buf.ToNRGBA()
		m := rotateAbout(radians, buf.Width(), buf.Height(), nw, nh)
		k.Transform(dst, m.aff3(), src, src.Bounds(), draw.Over, nil)
	}

	rasterdoc.Logger().Debug("resample: rotated",
		"radians", radians, "size", fmt.Sprintf("%dx%d", nw, nh))
	return rasterdoc.FromImage(dst, buf.Channels())
}

// Scale resamples buf with a default Resampler.
func Scale(buf *rasterdoc.PixelBuffer, p rasterdoc.ScaleParams) (*rasterdoc.PixelBuffer, error) {
	return New().Scale(buf, p)
}

// Rotate rotates buf with a default Resampler.
func Rotate(buf *rasterdoc.PixelBuffer, radians float64) (*rasterdoc.PixelBuffer, error) {
	return New().Rotate(buf, radians)
}

// quarterTurns reports whether radians is a whole number of clockwise
// quarter turns, returning that number modulo 4.
func quarterTurns(radians float64) (int, bool) {
	q := radians / (math.Pi / 2)
	n := math.Round(q)
	if math.Abs(q-n)*(math.Pi/2) > quarterTurnEpsilon {
		return 0, false
	}
	return ((int(n) % 4) + 4) % 4, true
}

// rotateQuarter rotates buf clockwise by turns quarter turns without
// filtering.
func rotateQuarter(buf *rasterdoc.PixelBuffer, turns int) (*rasterdoc.PixelBuffer, error) {
	w, h := buf.Width(), buf.Height()
	nw, nh := w, h
	if turns%2 == 1 {
		nw, nh = h, w
	}
	out, err := rasterdoc.NewPixelBuffer(nw, nh, buf.Channels())
	if err != nil {
		return nil, err
	}
	for y := range h {
		for x := range w {
			var dx, dy int
			switch turns {
			case 0:
				dx, dy = x, y
			case 1:
				dx, dy = h-1-y, x
			case 2:
				dx, dy = w-1-x, h-1-y
			case 3:
				dx, dy = y, w-1-x
			}
			copy(out.Pixel(dx, dy), buf.Pixel(x, y))
		}
	}
	return out, nil
}

package rasterdoc

import "fmt"

// RegionIterator walks the pixels of a rectangular region of a
// PixelBuffer in row-major order: y ascending in the outer loop, x
// ascending in the inner loop.
//
// The iterator holds a non-owning reference to its buffer; the buffer
// must outlive it. An iterator is single-use: once IsDone reports true,
// create a new one to traverse again.
//
// Typical use:
//
//	it, err := rasterdoc.NewRegionIterator(buf, 0, 0, buf.Width(), buf.Height())
//	if err != nil {
//	    return err
//	}
//	for !it.IsDone() {
//	    if err := it.InvertPixel(); err != nil {
//	        return err
//	    }
//	    it.Advance()
//	}
type RegionIterator struct {
	buf    *PixelBuffer
	region Rect
	x, y   int
	done   bool
}

// NewRegionIterator creates an iterator over the region (x0, y0, w, h)
// clipped to buf. A clipped region with no pixels yields an iterator that
// is already done. Negative w or h return ErrInvalidRegion.
func NewRegionIterator(buf *PixelBuffer, x0, y0, w, h int) (*RegionIterator, error) {
	if w < 0 || h < 0 {
		return nil, fmt.Errorf("%w: size %dx%d", ErrInvalidRegion, w, h)
	}
	region := R(x0, y0, w, h).Intersect(buf.Rect())
	it := &RegionIterator{
		buf:    buf,
		region: region,
		x:      region.X,
		y:      region.Y,
		done:   region.IsEmpty(),
	}
	Logger().Debug("rasterdoc: region iterator created",
		"requested", R(x0, y0, w, h).String(), "clipped", region.String())
	return it, nil
}

// Iterate returns an iterator over r clipped to the buffer.
func (b *PixelBuffer) Iterate(r Rect) (*RegionIterator, error) {
	return NewRegionIterator(b, r.X, r.Y, r.Width, r.Height)
}

// Region returns the clipped region being traversed.
func (it *RegionIterator) Region() Rect {
	return it.region
}

// IsDone reports whether the cursor has moved past the last pixel.
func (it *RegionIterator) IsDone() bool {
	return it.done
}

// Current returns the cursor position, or ErrIteratorExhausted once done.
func (it *RegionIterator) Current() (x, y int, err error) {
	if it.done {
		return 0, 0, ErrIteratorExhausted
	}
	return it.x, it.y, nil
}

// Advance moves to the next pixel and returns IsDone. Advancing a done
// iterator is a no-op that returns true.
func (it *RegionIterator) Advance() bool {
	if it.done {
		return true
	}
	it.x++
	if it.x >= it.region.Right() {
		it.x = it.region.X
		it.y++
		if it.y >= it.region.Bottom() {
			it.done = true
		}
	}
	return it.done
}

// Get returns channel c of the pixel under the cursor.
func (it *RegionIterator) Get(c int) (uint8, error) {
	if it.done {
		return 0, ErrIteratorExhausted
	}
	return it.buf.Get(it.x, it.y, c)
}

// Set stores value (clamped to [0, 255]) in channel c of the pixel under
// the cursor.
func (it *RegionIterator) Set(c, value int) error {
	if it.done {
		return ErrIteratorExhausted
	}
	return it.buf.Set(it.x, it.y, c, value)
}

// InvertPixel replaces every non-alpha channel v of the pixel under the
// cursor with 255-v. The alpha channel, if any, is left untouched.
// Applying it twice restores the original pixel.
func (it *RegionIterator) InvertPixel() error {
	if it.done {
		return ErrIteratorExhausted
	}
	p := it.buf.Pixel(it.x, it.y)
	n := len(p)
	if it.buf.HasAlpha() {
		n--
	}
	for c := range n {
		p[c] = 255 - p[c]
	}
	return nil
}

// InvertRegion inverts every pixel of r clipped to buf.
func InvertRegion(buf *PixelBuffer, r Rect) error {
	it, err := buf.Iterate(r)
	if err != nil {
		return err
	}
	for !it.IsDone() {
		if err := it.InvertPixel(); err != nil {
			return err
		}
		it.Advance()
	}
	return nil
}

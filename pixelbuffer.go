package rasterdoc

import (
	"fmt"
	"math"
)

// MaxChannels is the largest channel count a PixelBuffer supports.
const MaxChannels = 4

// PixelBuffer is a fixed-size grid of 8-bit channel values for one layer
// region. Pixels are stored row-major with channels interleaved, so the
// value of channel c at (x, y) lives at (y*width+x)*channels + c.
//
// A PixelBuffer never changes size after creation; resampling produces a
// new buffer. Mutation is not synchronized: at most one writer may touch a
// buffer at a time.
type PixelBuffer struct {
	width    int
	height   int
	channels int
	data     []uint8
}

// NewPixelBuffer creates a zero-filled buffer. Width and height may be
// zero, which yields an empty buffer; negative sizes or a channel count
// outside [1, MaxChannels] return ErrInvalidDimension.
func NewPixelBuffer(width, height, channels int) (*PixelBuffer, error) {
	if err := ValidateSize(width, height, channels); err != nil {
		return nil, err
	}
	Logger().Debug("rasterdoc: pixel buffer allocated",
		"width", width, "height", height, "channels", channels)
	return &PixelBuffer{
		width:    width,
		height:   height,
		channels: channels,
		data:     make([]uint8, width*height*channels),
	}, nil
}

// ValidateSize checks that a width×height buffer with the given channel
// count can be allocated: no negative size, a channel count in
// [1, MaxChannels], and a byte length that fits in an int.
func ValidateSize(width, height, channels int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimension, width, height)
	}
	if channels < 1 || channels > MaxChannels {
		return fmt.Errorf("%w: %d channels", ErrInvalidDimension, channels)
	}
	if width != 0 && height > math.MaxInt/width/channels {
		return fmt.Errorf("%w: %dx%dx%d overflows", ErrInvalidDimension, width, height, channels)
	}
	return nil
}

// Width returns the width of the buffer in pixels.
func (b *PixelBuffer) Width() int {
	return b.width
}

// Height returns the height of the buffer in pixels.
func (b *PixelBuffer) Height() int {
	return b.height
}

// Channels returns the number of channels per pixel.
func (b *PixelBuffer) Channels() int {
	return b.channels
}

// Data returns the raw channel data. Writes through the slice bypass
// clamping but are otherwise equivalent to Set.
func (b *PixelBuffer) Data() []uint8 {
	return b.data
}

// Rect returns the buffer extent as a Rect at the origin.
func (b *PixelBuffer) Rect() Rect {
	return Rect{Width: b.width, Height: b.height}
}

// IsEmpty reports whether the buffer holds no pixels.
func (b *PixelBuffer) IsEmpty() bool {
	return b.width == 0 || b.height == 0
}

// HasAlpha reports whether the last channel is an alpha channel. Buffers
// with an even channel count (gray+alpha, RGBA) carry alpha.
func (b *PixelBuffer) HasAlpha() bool {
	return b.channels%2 == 0
}

// AlphaChannel returns the index of the alpha channel, or -1.
func (b *PixelBuffer) AlphaChannel() int {
	if !b.HasAlpha() {
		return -1
	}
	return b.channels - 1
}

// offset returns the index of channel c of pixel (x, y) in data.
func (b *PixelBuffer) offset(x, y, c int) (int, error) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return 0, fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrOutOfBounds, x, y, b.width, b.height)
	}
	if c < 0 || c >= b.channels {
		return 0, fmt.Errorf("%w: channel %d of %d", ErrOutOfBounds, c, b.channels)
	}
	return (y*b.width+x)*b.channels + c, nil
}

// Get returns channel c of pixel (x, y).
func (b *PixelBuffer) Get(x, y, c int) (uint8, error) {
	i, err := b.offset(x, y, c)
	if err != nil {
		return 0, err
	}
	return b.data[i], nil
}

// Set stores value in channel c of pixel (x, y). Values outside [0, 255]
// are clamped rather than rejected.
func (b *PixelBuffer) Set(x, y, c, value int) error {
	i, err := b.offset(x, y, c)
	if err != nil {
		return err
	}
	b.data[i] = clampChannel(value)
	return nil
}

// Pixel returns the channel values of (x, y) as a slice aliasing the
// buffer. Returns nil if the coordinates are out of bounds.
func (b *PixelBuffer) Pixel(x, y int) []uint8 {
	i, err := b.offset(x, y, 0)
	if err != nil {
		return nil
	}
	return b.data[i : i+b.channels]
}

// Fill sets every pixel to values, which must hold one value per channel.
func (b *PixelBuffer) Fill(values ...uint8) error {
	if len(values) != b.channels {
		return fmt.Errorf("%w: fill with %d values for %d channels",
			ErrInvalidDimension, len(values), b.channels)
	}
	for i := 0; i < len(b.data); i += b.channels {
		copy(b.data[i:i+b.channels], values)
	}
	return nil
}

// Clone returns a deep copy of the buffer.
func (b *PixelBuffer) Clone() *PixelBuffer {
	data := make([]uint8, len(b.data))
	copy(data, b.data)
	return &PixelBuffer{
		width:    b.width,
		height:   b.height,
		channels: b.channels,
		data:     data,
	}
}

func clampChannel(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v)
	}
}

package rasterdoc

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
)

// At implements the image.Image interface. Gray buffers expand to equal
// RGB components; buffers without alpha are opaque.
func (b *PixelBuffer) At(x, y int) color.Color {
	return b.nrgbaAt(x, y)
}

// Bounds implements the image.Image interface.
func (b *PixelBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// ColorModel implements the image.Image interface.
func (b *PixelBuffer) ColorModel() color.Model {
	return color.NRGBAModel
}

func (b *PixelBuffer) nrgbaAt(x, y int) color.NRGBA {
	p := b.Pixel(x, y)
	if p == nil {
		return color.NRGBA{}
	}
	switch b.channels {
	case 1:
		return color.NRGBA{R: p[0], G: p[0], B: p[0], A: 255}
	case 2:
		return color.NRGBA{R: p[0], G: p[0], B: p[0], A: p[1]}
	case 3:
		return color.NRGBA{R: p[0], G: p[1], B: p[2], A: 255}
	default:
		return color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
	}
}

// ToNRGBA converts the buffer to a non-premultiplied image.NRGBA.
func (b *PixelBuffer) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(b.Bounds())
	if b.channels == 4 {
		copy(img.Pix, b.data)
		return img
	}
	for y := range b.height {
		for x := range b.width {
			img.SetNRGBA(x, y, b.nrgbaAt(x, y))
		}
	}
	return img
}

// FromImage creates a buffer with the given channel count from img.
// One- and two-channel buffers store luminance using the standard
// 0.299/0.587/0.114 weights.
func FromImage(img image.Image, channels int) (*PixelBuffer, error) {
	bounds := img.Bounds()
	buf, err := NewPixelBuffer(bounds.Dx(), bounds.Dy(), channels)
	if err != nil {
		return nil, err
	}
	for y := range buf.height {
		for x := range buf.width {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			buf.setNRGBA(x, y, c)
		}
	}
	return buf, nil
}

func (b *PixelBuffer) setNRGBA(x, y int, c color.NRGBA) {
	p := b.Pixel(x, y)
	if p == nil {
		return
	}
	switch b.channels {
	case 1, 2:
		p[0] = uint8((int(c.R)*299 + int(c.G)*587 + int(c.B)*114) / 1000)
		if b.channels == 2 {
			p[1] = c.A
		}
	case 3:
		p[0], p[1], p[2] = c.R, c.G, c.B
	default:
		p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
	}
}

// EncodePNG writes the buffer to w as PNG.
func (b *PixelBuffer) EncodePNG(w io.Writer) error {
	if b.IsEmpty() {
		return fmt.Errorf("%w: cannot encode empty buffer", ErrInvalidDimension)
	}
	return png.Encode(w, b.ToNRGBA())
}

// SavePNG saves the buffer to a PNG file.
func (b *PixelBuffer) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := b.EncodePNG(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// DecodePNG reads a PNG image into a buffer with the given channel count.
func DecodePNG(r io.Reader, channels int) (*PixelBuffer, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("rasterdoc: decode png: %w", err)
	}
	return FromImage(img, channels)
}

// LoadPNG loads a PNG file into a buffer with the given channel count.
func LoadPNG(path string, channels int) (*PixelBuffer, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("rasterdoc: open file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return DecodePNG(f, channels)
}

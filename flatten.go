package rasterdoc

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Flatten composites the visible layers onto a transparent canvas-sized
// buffer with the given channel count. Layers are painted bottom to top
// with source-over blending; a group's own pixels are painted before its
// children. Layer opacity multiplies down the tree.
func (d *Document) Flatten(channels int) (*PixelBuffer, error) {
	if err := ValidateSize(d.canvas.Width, d.canvas.Height, MaxChannels); err != nil {
		return nil, err
	}
	dst := image.NewNRGBA(image.Rect(0, 0, d.canvas.Width, d.canvas.Height))
	for _, l := range d.root.children {
		composite(dst, l, 1)
	}
	out, err := FromImage(dst, channels)
	if err != nil {
		return nil, err
	}
	Logger().Debug("rasterdoc: document flattened", "document", d.name,
		"layers", len(d.root.children), "channels", channels)
	return out, nil
}

func composite(dst draw.Image, l *Layer, parentOpacity float64) {
	if !l.visible {
		return
	}
	opacity := parentOpacity * l.opacity
	if l.pixels != nil && !l.pixels.IsEmpty() && opacity > 0 {
		b := l.bounds
		r := image.Rect(b.X, b.Y, b.X+min(b.Width, l.pixels.Width()), b.Y+min(b.Height, l.pixels.Height()))
		src := l.pixels.ToNRGBA()
		if opacity >= 1 {
			draw.Draw(dst, r, src, image.Point{}, draw.Over)
		} else {
			mask := image.NewUniform(color.Alpha{A: uint8(opacity*255 + 0.5)})
			draw.DrawMask(dst, r, src, image.Point{}, mask, image.Point{}, draw.Over)
		}
	}
	for _, c := range l.children {
		composite(dst, c, opacity)
	}
}

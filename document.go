package rasterdoc

import (
	"fmt"
	"math"
)

// Resampler performs the pixel work behind Document.Rotate and
// Document.Scale. The resample package provides the standard
// implementation; without one, a Document only updates geometry.
type Resampler interface {
	Scale(buf *PixelBuffer, p ScaleParams) (*PixelBuffer, error)
	Rotate(buf *PixelBuffer, radians float64) (*PixelBuffer, error)
}

// Document is a canvas plus a tree of layers. The canvas origin is always
// (0, 0); resizing to a rectangle with a different origin shifts every
// layer so that the rectangle's origin becomes the new canvas origin.
//
// Document is not safe for concurrent use.
type Document struct {
	name      string
	canvas    Rect
	root      *Layer
	xRes      int
	yRes      int
	resampler Resampler
}

// DefaultResolution is the resolution (pixels per inch) of a new document.
const DefaultResolution = 72

// NewDocument creates an empty document with a width×height canvas.
func NewDocument(name string, width, height int) (*Document, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: canvas %dx%d", ErrInvalidDimension, width, height)
	}
	return &Document{
		name:   name,
		canvas: R(0, 0, width, height),
		root:   NewLayer("root", R(0, 0, width, height)),
		xRes:   DefaultResolution,
		yRes:   DefaultResolution,
	}, nil
}

// Name returns the document name.
func (d *Document) Name() string {
	return d.name
}

// Canvas returns the canvas rectangle.
func (d *Document) Canvas() Rect {
	return d.canvas
}

// Width returns the canvas width.
func (d *Document) Width() int {
	return d.canvas.Width
}

// Height returns the canvas height.
func (d *Document) Height() int {
	return d.canvas.Height
}

// Resolution returns the horizontal and vertical resolution.
func (d *Document) Resolution() (xRes, yRes int) {
	return d.xRes, d.yRes
}

// SetResolution sets the horizontal and vertical resolution.
func (d *Document) SetResolution(xRes, yRes int) {
	d.xRes, d.yRes = xRes, yRes
}

// Root returns the parentless root layer that holds the top-level layers.
func (d *Document) Root() *Layer {
	return d.root
}

// TopLevelNodes returns the root's children in stacking order.
func (d *Document) TopLevelNodes() []*Layer {
	return d.root.Children()
}

// AddLayer adds l on top of the top-level layers.
func (d *Document) AddLayer(l *Layer) error {
	return d.root.AddChild(l)
}

// RemoveLayer removes the named top-level layer.
func (d *Document) RemoveLayer(name string) (*Layer, error) {
	return d.root.RemoveChild(name)
}

// Layer returns the named top-level layer.
func (d *Document) Layer(name string) (*Layer, error) {
	return d.root.Child(name)
}

// FindLayer searches the whole tree depth-first for a layer named name.
func (d *Document) FindLayer(name string) (*Layer, error) {
	var found *Layer
	for _, top := range d.root.children {
		top.Walk(func(l *Layer) bool {
			if found == nil && l.name == name {
				found = l
			}
			return found == nil
		})
		if found != nil {
			return found, nil
		}
	}
	return nil, fmt.Errorf("%w: layer %q in document %q", ErrNotFound, name, d.name)
}

// SetResampler installs the pixel resampler used by Rotate and Scale.
func (d *Document) SetResampler(r Resampler) {
	d.resampler = r
}

// Resize makes r the new canvas. Every layer is shifted by (-r.X, -r.Y)
// so that the canvas origin stays at (0, 0). Negative sizes are rejected.
func (d *Document) Resize(r Rect) error {
	if r.Width < 0 || r.Height < 0 {
		return fmt.Errorf("%w: canvas %v", ErrInvalidDimension, r)
	}
	dx, dy := -r.X, -r.Y
	for _, top := range d.root.children {
		top.Walk(func(l *Layer) bool {
			l.bounds = l.bounds.Translate(dx, dy)
			return true
		})
	}
	d.canvas = R(0, 0, r.Width, r.Height)
	d.root.bounds = d.canvas
	Logger().Info("rasterdoc: canvas resized", "document", d.name, "rect", r.String())
	return nil
}

// ResizeToLayers grows the canvas to cover every top-level layer and
// returns the covering rectangle in the pre-resize coordinate space.
func (d *Document) ResizeToLayers() (Rect, error) {
	r := ResizeDocument(d.canvas, d.root.children)
	if err := d.Resize(r); err != nil {
		return Rect{}, err
	}
	return r, nil
}

// layerEdit is a pending change to one layer, applied only once every
// layer of an operation has been computed.
type layerEdit struct {
	layer  *Layer
	bounds Rect
	pixels *PixelBuffer
}

// commit applies edits and makes canvas the new canvas.
func (d *Document) commit(edits []layerEdit, canvas Rect) {
	for _, e := range edits {
		e.layer.bounds = e.bounds
		if e.pixels != nil {
			e.layer.pixels = e.pixels
		}
	}
	d.canvas = canvas
	d.root.bounds = canvas
}

// editLayers calls fn for every layer below the root and collects the
// edits. It stops at the first error without touching the tree.
func (d *Document) editLayers(fn func(l *Layer) (layerEdit, error)) ([]layerEdit, error) {
	var (
		edits []layerEdit
		err   error
	)
	for _, top := range d.root.children {
		top.Walk(func(l *Layer) bool {
			if err != nil {
				return false
			}
			var e layerEdit
			if e, err = fn(l); err != nil {
				return false
			}
			edits = append(edits, e)
			return true
		})
		if err != nil {
			return nil, err
		}
	}
	return edits, nil
}

// Rotate turns the whole image by degrees (clockwise on screen, since y
// grows downwards) about the canvas centre. The canvas becomes the
// bounding box of the rotated canvas, and each layer is moved so its
// centre follows the rotation. With a resampler installed, layer pixels
// are rotated too and the layer takes the rotated buffer's size. Returns
// the rotation in radians. On error the document is left unchanged.
func (d *Document) Rotate(degrees float64) (float64, error) {
	rad, err := RotateAdjust(degrees)
	if err != nil {
		return 0, err
	}
	nw, nh := RotatedSize(d.canvas.Width, d.canvas.Height, rad)
	cx := float64(d.canvas.X) + float64(d.canvas.Width)/2
	cy := float64(d.canvas.Y) + float64(d.canvas.Height)/2
	sin, cos := math.Sincos(rad)

	edits, err := d.editLayers(func(l *Layer) (layerEdit, error) {
		b := l.bounds
		lx := float64(b.X) + float64(b.Width)/2 - cx
		ly := float64(b.Y) + float64(b.Height)/2 - cy
		ncx := lx*cos - ly*sin + float64(nw)/2
		ncy := lx*sin + ly*cos + float64(nh)/2

		e := layerEdit{layer: l}
		lw, lh := RotatedSize(b.Width, b.Height, rad)
		if l.pixels != nil && d.resampler != nil {
			buf, err := d.resampler.Rotate(l.pixels, rad)
			if err != nil {
				return e, fmt.Errorf("rasterdoc: rotate layer %q: %w", l.name, err)
			}
			e.pixels = buf
			lw, lh = buf.Width(), buf.Height()
		}
		e.bounds = R(
			int(math.Round(ncx-float64(lw)/2)),
			int(math.Round(ncy-float64(lh)/2)),
			lw, lh)
		return e, nil
	})
	if err != nil {
		return 0, err
	}
	d.commit(edits, R(0, 0, nw, nh))
	Logger().Info("rasterdoc: image rotated", "document", d.name,
		"degrees", degrees, "canvas", d.canvas.String())
	return rad, nil
}

// Scale resizes the canvas to p.Width×p.Height and sets the resolution
// to p.XRes×p.YRes. Layer bounds scale proportionally; with a resampler
// installed, layer pixels are resampled to the new layer size using
// p.Strategy. Layer sizes are derived from the request and may exceed
// MaxScaleValue. On error the document is left unchanged.
func (d *Document) Scale(p ScaleParams) error {
	if d.canvas.IsEmpty() {
		return fmt.Errorf("%w: cannot scale empty canvas %v", ErrInvalidDimension, d.canvas)
	}
	sx := float64(p.Width) / float64(d.canvas.Width)
	sy := float64(p.Height) / float64(d.canvas.Height)

	edits, err := d.editLayers(func(l *Layer) (layerEdit, error) {
		b := l.bounds
		x0 := int(math.Round(float64(b.X) * sx))
		y0 := int(math.Round(float64(b.Y) * sy))
		x1 := int(math.Round(float64(b.Right()) * sx))
		y1 := int(math.Round(float64(b.Bottom()) * sy))
		e := layerEdit{layer: l, bounds: R(x0, y0, x1-x0, y1-y0)}
		if l.pixels != nil && d.resampler != nil && !e.bounds.IsEmpty() {
			lp := p
			lp.Width, lp.Height = e.bounds.Width, e.bounds.Height
			buf, err := d.resampler.Scale(l.pixels, lp)
			if err != nil {
				return e, fmt.Errorf("rasterdoc: scale layer %q: %w", l.name, err)
			}
			e.pixels = buf
		}
		return e, nil
	})
	if err != nil {
		return err
	}
	d.commit(edits, R(0, 0, p.Width, p.Height))
	d.xRes, d.yRes = p.XRes, p.YRes
	Logger().Info("rasterdoc: image scaled", "document", d.name,
		"canvas", d.canvas.String(), "strategy", p.Strategy.String())
	return nil
}

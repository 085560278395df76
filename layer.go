package rasterdoc

import (
	"errors"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// ErrHasParent is returned when a layer that is already attached to a
// parent is added somewhere else, or when adding it would create a cycle.
var ErrHasParent = errors.New("rasterdoc: layer already attached")

// Layer is a named, rectangularly bounded unit of image content that may
// contain child layers. Children are kept in stacking order: index 0 is
// the bottom-most layer and later children are painted over earlier ones.
//
// The parent link is a plain back-reference; a layer is owned by the
// child slice of its parent.
type Layer struct {
	name     string
	bounds   Rect
	children []*Layer
	parent   *Layer
	pixels   *PixelBuffer
	visible  bool
	opacity  float64
}

// NewLayer creates a visible, fully opaque layer with no pixel data.
// Negative bounds sizes are clamped to zero.
func NewLayer(name string, bounds Rect) *Layer {
	return &Layer{
		name:    name,
		bounds:  normalizeRect(bounds),
		visible: true,
		opacity: 1,
	}
}

// NewPixelLayer creates a layer whose bounds cover buf placed at (x, y).
func NewPixelLayer(name string, x, y int, buf *PixelBuffer) *Layer {
	l := NewLayer(name, R(x, y, buf.Width(), buf.Height()))
	l.pixels = buf
	return l
}

// Name returns the layer name.
func (l *Layer) Name() string {
	return l.name
}

// Bounds returns the layer's own rectangle. Children are not included.
func (l *Layer) Bounds() Rect {
	return l.bounds
}

// SetBounds replaces the layer rectangle.
func (l *Layer) SetBounds(r Rect) {
	l.bounds = normalizeRect(r)
}

// Parent returns the parent layer, or nil for a root or detached layer.
func (l *Layer) Parent() *Layer {
	return l.parent
}

// Children returns the child layers in stacking order. The returned slice
// is a copy; reordering it does not affect the layer.
func (l *Layer) Children() []*Layer {
	out := make([]*Layer, len(l.children))
	copy(out, l.children)
	return out
}

// ChildCount returns the number of direct children.
func (l *Layer) ChildCount() int {
	return len(l.children)
}

// Pixels returns the layer's pixel data, or nil for a pure group layer.
func (l *Layer) Pixels() *PixelBuffer {
	return l.pixels
}

// SetPixels replaces the layer's pixel data. Bounds are left unchanged.
func (l *Layer) SetPixels(buf *PixelBuffer) {
	l.pixels = buf
}

// Visible reports whether the layer takes part in flattening.
func (l *Layer) Visible() bool {
	return l.visible
}

// SetVisible shows or hides the layer.
func (l *Layer) SetVisible(v bool) {
	l.visible = v
}

// Opacity returns the layer opacity in [0, 1].
func (l *Layer) Opacity() float64 {
	return l.opacity
}

// SetOpacity sets the layer opacity, clamped to [0, 1].
func (l *Layer) SetOpacity(o float64) {
	l.opacity = min(max(o, 0), 1)
}

// Child returns the direct child with the given name.
func (l *Layer) Child(name string) (*Layer, error) {
	i := l.indexOf(name)
	if i < 0 {
		return nil, fmt.Errorf("%w: layer %q in %q", ErrNotFound, name, l.name)
	}
	return l.children[i], nil
}

// AddChild appends child on top of the existing children. Names are
// compared after NFC normalization, so visually identical names collide.
func (l *Layer) AddChild(child *Layer) error {
	if child.parent != nil {
		return fmt.Errorf("%w: %q is a child of %q", ErrHasParent, child.name, child.parent.name)
	}
	for p := l; p != nil; p = p.parent {
		if p == child {
			return fmt.Errorf("%w: %q cannot contain itself", ErrHasParent, child.name)
		}
	}
	if l.indexOf(child.name) >= 0 {
		return fmt.Errorf("%w: layer %q in %q", ErrDuplicateName, child.name, l.name)
	}
	child.parent = l
	l.children = append(l.children, child)
	return nil
}

// RemoveChild detaches and returns the named child.
func (l *Layer) RemoveChild(name string) (*Layer, error) {
	i := l.indexOf(name)
	if i < 0 {
		return nil, fmt.Errorf("%w: layer %q in %q", ErrNotFound, name, l.name)
	}
	child := l.children[i]
	l.children = append(l.children[:i], l.children[i+1:]...)
	child.parent = nil
	return child, nil
}

// Walk calls fn for l and every descendant in depth-first, bottom-to-top
// order. Returning false from fn skips that layer's children.
func (l *Layer) Walk(fn func(*Layer) bool) {
	if !fn(l) {
		return
	}
	for _, c := range l.children {
		c.Walk(fn)
	}
}

func (l *Layer) indexOf(name string) int {
	key := norm.NFC.String(name)
	for i, c := range l.children {
		if norm.NFC.String(c.name) == key {
			return i
		}
	}
	return -1
}

func normalizeRect(r Rect) Rect {
	r.Width = max(r.Width, 0)
	r.Height = max(r.Height, 0)
	return r
}

package rasterdoc

import (
	"fmt"
	"math"
)

// Rect is an integer rectangle with its origin at the top-left corner.
// Width and Height are never negative for rectangles produced by this
// package; a zero Width or Height means the rectangle has no area.
type Rect struct {
	X, Y          int
	Width, Height int
}

// R is shorthand for Rect{x, y, w, h}.
func R(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// IsEmpty reports whether the rectangle covers no pixels.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Area returns Width*Height, or 0 for an empty rectangle.
func (r Rect) Area() int {
	if r.IsEmpty() {
		return 0
	}
	return r.Width * r.Height
}

// Contains reports whether the pixel (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Union returns the smallest rectangle covering both r and o.
//
// Zero-area inputs are not discarded: their origin (and any positive
// extent along the other axis) still widens the result. Union is
// commutative and Union(r, r) == r.
func (r Rect) Union(o Rect) Rect {
	x0 := min(r.X, o.X)
	y0 := min(r.Y, o.Y)
	x1 := max(r.Right(), o.Right())
	y1 := max(r.Bottom(), o.Bottom())
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Intersect returns the overlap of r and o. Disjoint rectangles yield a
// zero-size rectangle anchored at the clamped origin.
func (r Rect) Intersect(o Rect) Rect {
	x0 := max(r.X, o.X)
	y0 := max(r.Y, o.Y)
	x1 := min(edge(r.X, r.Width), edge(o.X, o.Width))
	y1 := min(edge(r.Y, r.Height), edge(o.Y, o.Height))
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// edge returns origin+extent saturated to the int range.
func edge(origin, extent int) int {
	switch {
	case extent > 0 && origin > math.MaxInt-extent:
		return math.MaxInt
	case extent < 0 && origin < math.MinInt-extent:
		return math.MinInt
	}
	return origin + extent
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// String returns "(x,y wxh)".
func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}

// UnionBounds folds Union left to right over rects. The fold order is the
// slice order, so results are deterministic. An empty slice yields the
// zero Rect.
func UnionBounds(rects ...Rect) Rect {
	if len(rects) == 0 {
		return Rect{}
	}
	u := rects[0]
	for _, r := range rects[1:] {
		u = u.Union(r)
	}
	return u
}

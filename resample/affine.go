package resample

import (
	"math"

	"golang.org/x/image/math/f64"
)

// affine is a 2D affine transformation:
//
//	| a  b  c |
//	| d  e  f |
//	| 0  0  1 |
type affine struct {
	a, b, c float64 // x' = ax + by + c
	d, e, f float64 // y' = dx + ey + f
}

func identity() affine {
	return affine{a: 1, e: 1}
}

func translate(tx, ty float64) affine {
	return affine{a: 1, c: tx, e: 1, f: ty}
}

// rotate turns by angle radians. With y pointing down, positive angles
// turn clockwise on screen.
func rotate(angle float64) affine {
	sin, cos := math.Sincos(angle)
	return affine{
		a: cos, b: -sin,
		d: sin, e: cos,
	}
}

// then returns the transform that applies m first and n second.
func (m affine) then(n affine) affine {
	return affine{
		a: n.a*m.a + n.b*m.d,
		b: n.a*m.b + n.b*m.e,
		c: n.a*m.c + n.b*m.f + n.c,
		d: n.d*m.a + n.e*m.d,
		e: n.d*m.b + n.e*m.e,
		f: n.d*m.c + n.e*m.f + n.f,
	}
}

func (m affine) apply(x, y float64) (float64, float64) {
	return m.a*x + m.b*y + m.c, m.d*x + m.e*y + m.f
}

// aff3 converts to the row-major matrix used by x/image/draw.
func (m affine) aff3() f64.Aff3 {
	return f64.Aff3{m.a, m.b, m.c, m.d, m.e, m.f}
}

// rotateAbout maps a srcW×srcH image rotated by angle about its centre
// into a dstW×dstH image with the same centre.
func rotateAbout(angle float64, srcW, srcH, dstW, dstH int) affine {
	return translate(-float64(srcW)/2, -float64(srcH)/2).
		then(rotate(angle)).
		then(translate(float64(dstW)/2, float64(dstH)/2))
}

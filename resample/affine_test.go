package resample

import (
	"math"
	"testing"
)

const epsilon = 1e-10

func TestAffineIdentity(t *testing.T) {
	x, y := identity().apply(10, 20)
	if math.Abs(x-10) > epsilon || math.Abs(y-20) > epsilon {
		t.Errorf("identity moved point to (%f, %f)", x, y)
	}
}

func TestAffineRotate(t *testing.T) {
	tests := []struct {
		name       string
		angle      float64
		inX, inY   float64
		outX, outY float64
	}{
		{"quarter turn", math.Pi / 2, 1, 0, 0, 1},
		{"half turn", math.Pi, 1, 2, -1, -2},
		{"negative quarter", -math.Pi / 2, 1, 0, 0, -1},
		{"zero", 0, 3, 4, 3, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := rotate(tt.angle).apply(tt.inX, tt.inY)
			if math.Abs(x-tt.outX) > epsilon || math.Abs(y-tt.outY) > epsilon {
				t.Errorf("rotate(%v).apply(%v, %v) = (%f, %f), want (%f, %f)",
					tt.angle, tt.inX, tt.inY, x, y, tt.outX, tt.outY)
			}
		})
	}
}

func TestAffineThen(t *testing.T) {
	// Translate first, then rotate: (1,0) -> (2,0) -> (0,2).
	m := translate(1, 0).then(rotate(math.Pi / 2))
	x, y := m.apply(1, 0)
	if math.Abs(x) > epsilon || math.Abs(y-2) > epsilon {
		t.Errorf("then() = (%f, %f), want (0, 2)", x, y)
	}
}

func TestRotateAboutKeepsCentre(t *testing.T) {
	m := rotateAbout(0.7, 10, 6, 13, 11)
	x, y := m.apply(5, 3)
	if math.Abs(x-6.5) > epsilon || math.Abs(y-5.5) > epsilon {
		t.Errorf("centre mapped to (%f, %f), want (6.5, 5.5)", x, y)
	}
	a := m.aff3()
	if a[0] != m.a || a[2] != m.c || a[4] != m.e || a[5] != m.f {
		t.Errorf("aff3() = %v does not match %+v", a, m)
	}
}

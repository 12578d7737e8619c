// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package packing

import (
	"math"
	"math/cmplx"
)

// Mobius is the map z -> (a*z + b) / (c*z + d) stored as {{a, b}, {c, d}}.
type Mobius [2][2]complex128

// View steps of the interactive viewer.
var (
	ZoomIn  = Mobius{{1.6, 0}, {0, 0.625}}
	ZoomOut = Mobius{{0.625, 0}, {0, 1.6}}

	PanRight = Translation(0.5)
	PanUp    = Translation(-0.5i)
	PanLeft  = Translation(-0.5)
	PanDown  = Translation(0.5i)
)

func Identity() Mobius {
	return Mobius{{1, 0}, {0, 1}}
}

// Translation returns z -> z + d.
func Translation(d complex128) Mobius {
	return Mobius{{1, d}, {0, 1}}
}

// Scaling returns z -> k*z, a rotation as well for non-real k.
func Scaling(k complex128) Mobius {
	return Mobius{{k, 0}, {0, 1}}
}

// Inversion returns z -> 1/z.
func Inversion() Mobius {
	return Mobius{{0, 1}, {1, 0}}
}

// Mul returns the composition m after n.
func (m Mobius) Mul(n Mobius) Mobius {
	return Mobius{
		{m[0][0]*n[0][0] + m[0][1]*n[1][0], m[0][0]*n[0][1] + m[0][1]*n[1][1]},
		{m[1][0]*n[0][0] + m[1][1]*n[1][0], m[1][0]*n[0][1] + m[1][1]*n[1][1]},
	}
}

func (m Mobius) Det() complex128 {
	return m[0][0]*m[1][1] - m[0][1]*m[1][0]
}

// Inverse returns the inverse map. The matrix is not divided by the
// determinant; Mobius maps are defined up to scale.
func (m Mobius) Inverse() Mobius {
	return Mobius{{m[1][1], -m[0][1]}, {-m[1][0], m[0][0]}}
}

// Normalize scales the matrix to determinant 1.
func (m Mobius) Normalize() Mobius {
	s := cmplx.Sqrt(m.Det())
	if s == 0 {
		return m
	}
	return Mobius{{m[0][0] / s, m[0][1] / s}, {m[1][0] / s, m[1][1] / s}}
}

// IsAffine reports whether m fixes infinity.
func (m Mobius) IsAffine() bool {
	return m[1][0] == 0
}

// Pole returns the point sent to infinity. The boolean is false for affine
// maps.
func (m Mobius) Pole() (complex128, bool) {
	if m.IsAffine() {
		return 0, false
	}
	return -m[1][1] / m[1][0], true
}

// Apply maps z, treating any infinite value as the point at infinity.
func (m Mobius) Apply(z complex128) complex128 {
	a, b, c, d := m[0][0], m[0][1], m[1][0], m[1][1]
	if cmplx.IsInf(z) {
		if c == 0 {
			return cmplx.Inf()
		}
		return a / c
	}
	den := c*z + d
	if den == 0 {
		return cmplx.Inf()
	}
	return (a*z + b) / den
}

// ApplyCircle maps a circle or line. Circles through the pole become lines.
func (m Mobius) ApplyCircle(c Circle) Circle {
	if m.IsAffine() && !c.line {
		k := m[0][0] / m[1][1]
		return Circle{Center: m.Apply(c.Center), Radius: cmplx.Abs(k) * c.Radius}
	}
	if c.line {
		return CircleThrough(m.Apply(c.Point(0)), m.Apply(c.Point(1)), m.Apply(cmplx.Inf()))
	}

	theta := 0.0
	z1 := m.Apply(c.Point(theta))
	if p, ok := m.Pole(); ok && math.Abs(cmplx.Abs(p-c.Center)-c.Radius) <= 1e-9*math.Max(1, c.Radius) {
		theta = cmplx.Phase(p - c.Center)
		z1 = cmplx.Inf()
	}
	return CircleThrough(
		z1,
		m.Apply(c.Point(theta+2*math.Pi/3)),
		m.Apply(c.Point(theta+4*math.Pi/3)),
	)
}

// Interpolate returns the fraction t of an affine map along its
// one-parameter flow, so Interpolate(1/n) applied n times equals m.
// The boolean is false when m is not affine.
func (m Mobius) Interpolate(t float64) (Mobius, bool) {
	if !m.IsAffine() || m[1][1] == 0 {
		return Mobius{}, false
	}
	a := m[0][0] / m[1][1]
	b := m[0][1] / m[1][1]
	if cmplx.Abs(a-1) < 1e-12 {
		return Translation(b * complex(t, 0)), true
	}
	at := cmplx.Exp(cmplx.Log(a) * complex(t, 0))
	// Same fixed point b / (1 - a) as m.
	return Mobius{{at, b * (at - 1) / (a - 1)}, {0, 1}}, true
}

// ApproxEqual compares m and n as maps, up to the scale of the matrix.
func (m Mobius) ApproxEqual(n Mobius, eps float64) bool {
	mn, nn := m.Normalize(), n.Normalize()
	same, flipped := true, true
	for i := range 2 {
		for j := range 2 {
			if cmplx.Abs(mn[i][j]-nn[i][j]) > eps {
				same = false
			}
			if cmplx.Abs(mn[i][j]+nn[i][j]) > eps {
				flipped = false
			}
		}
	}
	return same || flipped
}

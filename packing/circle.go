// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package packing

import (
	"fmt"
	"math"
	"math/cmplx"
)

const collinearEps = 1e-12

// Circle is a circle in the plane, or the line it degenerates to once a
// view transform moves it through infinity.
type Circle struct {
	Center complex128
	Radius float64

	// Only meaningful for lines. Base is the point of the line closest to
	// the origin and Angle its direction in [0, pi).
	Base  complex128
	Angle float64

	line bool
}

func NewCircle(center complex128, radius float64) Circle {
	return Circle{Center: center, Radius: radius}
}

func NewLine(base complex128, angle float64) Circle {
	return lineThrough(base, base+cmplx.Rect(1, angle))
}

// ContainsInfinity reports whether the circle is a line.
func (c Circle) ContainsInfinity() bool {
	return c.line
}

// Point returns the point of the circle at angle theta, or for a line the
// point at signed distance theta from Base.
func (c Circle) Point(theta float64) complex128 {
	if c.line {
		return c.Base + cmplx.Rect(theta, c.Angle)
	}
	return c.Center + cmplx.Rect(c.Radius, theta)
}

// Distance returns the distance from z to the circle.
func (c Circle) Distance(z complex128) float64 {
	if c.line {
		d := z - c.Base
		dir := cmplx.Rect(1, c.Angle)
		return math.Abs(imag(d * cmplx.Conj(dir)))
	}
	return math.Abs(cmplx.Abs(z-c.Center) - c.Radius)
}

// ApproxEqual reports whether c and o describe the same circle within eps.
func (c Circle) ApproxEqual(o Circle, eps float64) bool {
	if c.line != o.line {
		return false
	}
	if c.line {
		da := math.Abs(c.Angle - o.Angle)
		da = math.Min(da, math.Pi-da)
		return cmplx.Abs(c.Base-o.Base) <= eps && da <= eps
	}
	return cmplx.Abs(c.Center-o.Center) <= eps && math.Abs(c.Radius-o.Radius) <= eps
}

func (c Circle) String() string {
	if c.line {
		return fmt.Sprintf("line(base=%v, angle=%.6g)", c.Base, c.Angle)
	}
	return fmt.Sprintf("circle(center=%v, r=%.6g)", c.Center, c.Radius)
}

// CircleThrough returns the circle through a, b and c. Collinear points, or
// any point at infinity, give a line.
func CircleThrough(a, b, c complex128) Circle {
	switch {
	case cmplx.IsInf(a):
		return lineThrough(b, c)
	case cmplx.IsInf(b):
		return lineThrough(a, c)
	case cmplx.IsInf(c):
		return lineThrough(a, b)
	}

	ab, ac := b-a, c-a
	cross := real(ab)*imag(ac) - imag(ab)*real(ac)
	scale := math.Max(cmplx.Abs(ab), cmplx.Abs(ac))
	if math.Abs(cross) <= collinearEps*scale*scale {
		if cmplx.Abs(ab) >= cmplx.Abs(ac) {
			return lineThrough(a, b)
		}
		return lineThrough(a, c)
	}

	// Circumcenter relative to a.
	nab, nac := real(ab)*real(ab)+imag(ab)*imag(ab), real(ac)*real(ac)+imag(ac)*imag(ac)
	d := 2 * cross
	ux := (imag(ac)*nab - imag(ab)*nac) / d
	uy := (real(ab)*nac - real(ac)*nab) / d
	center := a + complex(ux, uy)
	return Circle{Center: center, Radius: math.Hypot(ux, uy)}
}

func lineThrough(p, q complex128) Circle {
	dir := q - p
	if cmplx.IsInf(p) || cmplx.IsInf(q) || dir == 0 {
		if cmplx.IsInf(p) {
			p = q
		}
		if cmplx.IsInf(p) {
			p = 0
		}
		return Circle{Base: p, line: true}
	}
	angle := math.Mod(cmplx.Phase(dir)+math.Pi, math.Pi)
	u := cmplx.Rect(1, angle)
	// Foot of the perpendicular from the origin.
	t := real(p)*real(u) + imag(p)*imag(u)
	return Circle{Base: p - complex(t, 0)*u, Angle: angle, line: true}
}

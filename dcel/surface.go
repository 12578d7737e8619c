// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package dcel

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"
	"github.com/markus-wa/quickhull-go/v2"
)

const (
	defaultEps = 1e-12
)

var ErrInvalidSurface = errors.New("dcel: invalid surface parameters")

type SurfaceOptions struct {
	Center r3.Vector
	// Tolerance passed to the convex hull of NewSphere.
	Eps float64
}

type SurfaceOption func(*SurfaceOptions) error

func WithCenter(c r3.Vector) SurfaceOption {
	return func(o *SurfaceOptions) error {
		o.Center = c
		return nil
	}
}

func WithEps(eps float64) SurfaceOption {
	return func(o *SurfaceOptions) error {
		if eps <= 0 {
			return errors.New("WithEps: eps must be positive")
		}
		o.Eps = eps
		return nil
	}
}

func newSurfaceOptions(setters []SurfaceOption) (SurfaceOptions, error) {
	opts := SurfaceOptions{
		Eps: defaultEps,
	}
	for _, set := range setters {
		if err := set(&opts); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

// NewCylinder returns an open cylinder of revolution around the z axis with
// nu samples per ring and nv rings spread over the height.
func NewCylinder(nu, nv int, radius, height float64, setters ...SurfaceOption) (*Mesh, error) {
	if nu < 3 || nv < 2 {
		return nil, fmt.Errorf("%w: cylinder needs nu >= 3 and nv >= 2, got %dx%d", ErrInvalidSurface, nu, nv)
	}
	if radius <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: cylinder radius %v and height %v must be positive", ErrInvalidSurface, radius, height)
	}
	opts, err := newSurfaceOptions(setters)
	if err != nil {
		return nil, err
	}

	pos := make([]r3.Vector, 0, nu*nv)
	for j := range nv {
		z := height*float64(j)/float64(nv-1) - height/2
		for i := range nu {
			u := 2 * math.Pi * float64(i) / float64(nu)
			p := r3.Vector{X: radius * math.Cos(u), Y: radius * math.Sin(u), Z: z}
			pos = append(pos, p.Add(opts.Center))
		}
	}
	return FromTriangles(pos, gridTriangles(nu, nv-1, nv))
}

// NewTorus returns a circular torus of revolution around the z axis.
// The tube circle has radius rMinor and its center runs at distance rMajor.
func NewTorus(nu, nv int, rMajor, rMinor float64, setters ...SurfaceOption) (*Mesh, error) {
	if nu < 3 || nv < 3 {
		return nil, fmt.Errorf("%w: torus needs nu, nv >= 3, got %dx%d", ErrInvalidSurface, nu, nv)
	}
	if rMinor <= 0 || rMajor <= rMinor {
		return nil, fmt.Errorf("%w: torus needs rMajor > rMinor > 0, got %v and %v", ErrInvalidSurface, rMajor, rMinor)
	}
	opts, err := newSurfaceOptions(setters)
	if err != nil {
		return nil, err
	}

	pos := make([]r3.Vector, 0, nu*nv)
	for j := range nv {
		v := 2 * math.Pi * float64(j) / float64(nv)
		ring := rMajor + rMinor*math.Cos(v)
		for i := range nu {
			u := 2 * math.Pi * float64(i) / float64(nu)
			p := r3.Vector{X: ring * math.Cos(u), Y: ring * math.Sin(u), Z: rMinor * math.Sin(v)}
			pos = append(pos, p.Add(opts.Center))
		}
	}
	return FromTriangles(pos, gridTriangles(nu, nv, nv))
}

// gridTriangles splits the quads of a grid periodic in u into two
// triangles each. Rows wrap modulo rows.
func gridTriangles(nu, quadRows, rows int) [][3]int {
	tris := make([][3]int, 0, 2*nu*quadRows)
	for j := range quadRows {
		jn := (j + 1) % rows
		for i := range nu {
			in := (i + 1) % nu
			a := j*nu + i
			b := j*nu + in
			c := jn*nu + in
			d := jn*nu + i
			tris = append(tris, [3]int{a, b, c}, [3]int{a, c, d})
		}
	}
	return tris
}

// NewSphere triangulates points on the unit sphere by their convex hull.
// NOTE: All points must lie on the sphere, at least 4 of them.
func NewSphere(points s2.PointVector, setters ...SurfaceOption) (*Mesh, error) {
	opts, err := newSurfaceOptions(setters)
	if err != nil {
		return nil, err
	}

	n := len(points)
	if n < 4 {
		return nil, fmt.Errorf("%w: sphere needs at least 4 points, got %d", ErrInvalidSurface, n)
	}
	numTriangles := 2 * (n - 2)

	r3points := make([]r3.Vector, n)
	for i, p := range points {
		r3points[i] = p.Vector
	}
	qh := new(quickhull.QuickHull)
	ch := qh.ConvexHull(r3points, true, true, opts.Eps)
	if len(ch.Indices) != numTriangles*3 {
		return nil, fmt.Errorf("%w: convex hull returned %d indices, want %d",
			ErrInvalidSurface, len(ch.Indices), numTriangles*3)
	}

	tris := make([][3]int, numTriangles)
	for i := range tris {
		tris[i] = [3]int{ch.Indices[3*i], ch.Indices[3*i+1], ch.Indices[3*i+2]}
		sortTriangleCCW(&tris[i], points)
	}

	pos := make([]r3.Vector, n)
	for i, p := range points {
		pos[i] = p.Vector.Add(opts.Center)
	}
	return FromTriangles(pos, tris)
}

// sortTriangleCCW orders t counter-clockwise looking from outside the sphere.
func sortTriangleCCW(t *[3]int, v s2.PointVector) {
	p0, p1, p2 := v[t[0]], v[t[1]], v[t[2]]
	norm := p1.Sub(p0.Vector).Cross(p2.Sub(p0.Vector))
	if norm.Dot(p0.Vector) < 0 {
		t[1], t[2] = t[2], t[1]
	}
}

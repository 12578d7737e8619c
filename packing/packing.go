// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package packing computes circle packings of triangulated surfaces and
// moves them around the plane by Mobius maps.
package packing

import (
	"iter"
	"math"
	"math/cmplx"
	"slices"

	"github.com/2dChan/bubblewrap/dcel"
	"github.com/jbeda/geom"
)

// Packing assigns circles in the plane to the vertices of a mesh.
type Packing struct {
	// Intrinsic radii the layout was built from. Zero for unplaced vertices.
	Radii []float64

	mesh    *dcel.Mesh
	circles []Circle
	placed  []bool
}

// New returns a packing of m with no circles placed.
func New(m *dcel.Mesh) *Packing {
	n := m.NumVertices()
	return &Packing{
		Radii:   make([]float64, n),
		mesh:    m,
		circles: make([]Circle, n),
		placed:  make([]bool, n),
	}
}

func (p *Packing) Mesh() *dcel.Mesh {
	return p.mesh
}

// Circle returns the circle of vertex v. The boolean is false when v has
// no circle or is out of range.
func (p *Packing) Circle(v int) (Circle, bool) {
	if v < 0 || v >= len(p.circles) || !p.placed[v] {
		return Circle{}, false
	}
	return p.circles[v], true
}

// SetCircle places the circle of vertex v.
func (p *Packing) SetCircle(v int, c Circle) {
	if v < 0 || v >= len(p.circles) {
		panic("SetCircle: vertex index out of range")
	}
	p.circles[v] = c
	p.placed[v] = true
}

func (p *Packing) Placed(v int) bool {
	return v >= 0 && v < len(p.placed) && p.placed[v]
}

func (p *Packing) NumPlaced() int {
	n := 0
	for _, ok := range p.placed {
		if ok {
			n++
		}
	}
	return n
}

// Circles yields the placed circles keyed by vertex.
func (p *Packing) Circles() iter.Seq2[int, Circle] {
	return func(yield func(int, Circle) bool) {
		for v, c := range p.circles {
			if p.placed[v] && !yield(v, c) {
				return
			}
		}
	}
}

// Transform applies t to every placed circle.
func (p *Packing) Transform(t Mobius) {
	for v := range p.circles {
		if p.placed[v] {
			p.circles[v] = t.ApplyCircle(p.circles[v])
		}
	}
}

// Bounds returns the bounding box of the placed circles, ignoring lines.
// The boolean is false when there is nothing to bound.
func (p *Packing) Bounds() (geom.Rect, bool) {
	var r geom.Rect
	found := false
	for _, c := range p.Circles() {
		if c.line {
			continue
		}
		cr := geom.Rect{
			Min: geom.Coord{X: real(c.Center) - c.Radius, Y: imag(c.Center) - c.Radius},
			Max: geom.Coord{X: real(c.Center) + c.Radius, Y: imag(c.Center) + c.Radius},
		}
		if !found {
			r, found = cr, true
			continue
		}
		r.ExpandToContainRect(cr)
	}
	return r, found
}

// Normalize centers the bounding box at the origin and scales its largest
// extent to 2. It returns the map applied.
func (p *Packing) Normalize() Mobius {
	r, ok := p.Bounds()
	if !ok {
		return Identity()
	}
	extent := math.Max(r.Width(), r.Height())
	if extent == 0 {
		return Identity()
	}
	center := complex((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
	k := complex(2/extent, 0)
	t := Scaling(k).Mul(Translation(-center))
	p.Transform(t)
	return t
}

// Tangent reports whether the circles of u and v touch or overlap, with
// centers at most r(u)+r(v)+slack apart. Lines are never tangent.
func (p *Packing) Tangent(u, v int, slack float64) bool {
	cu, ok1 := p.Circle(u)
	cv, ok2 := p.Circle(v)
	if !ok1 || !ok2 || cu.line || cv.line {
		return false
	}
	return cmplx.Abs(cu.Center-cv.Center) <= cu.Radius+cv.Radius+slack
}

// Clone returns a copy sharing the mesh.
func (p *Packing) Clone() *Packing {
	return &Packing{
		Radii:   slices.Clone(p.Radii),
		mesh:    p.mesh,
		circles: slices.Clone(p.circles),
		placed:  slices.Clone(p.placed),
	}
}

// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package packing

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/2dChan/bubblewrap/dcel"
)

var ErrNothingToPlace = errors.New("packing: no face with positive radii")

// Layout places tangent circles with the given radii in the plane. The
// first face with positive radii is put down with its first vertex at the
// origin and its second on the positive real axis; the rest follows by a
// breadth-first walk over faces, each new vertex placed to the left of
// the oriented edge it is reached across. Every vertex is placed at most
// once; vertices with non-positive radius stay unplaced.
func Layout(m *dcel.Mesh, radii []float64) (*Packing, error) {
	if len(radii) != m.NumVertices() {
		return nil, fmt.Errorf("%w: %d radii for %d vertices", ErrInvalidRadii, len(radii), m.NumVertices())
	}
	for v, r := range radii {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return nil, fmt.Errorf("%w: radius of vertex %d is %v", ErrInvalidRadii, v, r)
		}
	}

	p := New(m)
	copy(p.Radii, radii)

	usable := func(f int) bool {
		for _, v := range m.FaceVertices(f) {
			if radii[v] <= 0 {
				return false
			}
		}
		return true
	}

	first := -1
	for f := range m.NumFaces() {
		if usable(f) {
			first = f
			break
		}
	}
	if first < 0 {
		return nil, ErrNothingToPlace
	}

	t := m.FaceVertices(first)
	r0, r1 := radii[t[0]], radii[t[1]]
	p.SetCircle(t[0], NewCircle(0, r0))
	p.SetCircle(t[1], NewCircle(complex(r0+r1, 0), r1))
	p.SetCircle(t[2], NewCircle(thirdCenter(p.circles[t[0]], p.circles[t[1]], radii[t[2]]), radii[t[2]]))

	visited := make([]bool, m.NumFaces())
	visited[first] = true
	queue := []int{first}
	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]

		e := m.FaceEdges[f]
		for range 3 {
			g, ok := p.placeAcross(e, visited, usable)
			if ok {
				queue = append(queue, g)
			}
			e = m.Nexts[e]
		}
	}

	// Faces cut off by inconsistent ones: place the remaining vertices
	// from any face with two placed corners.
	for changed := true; changed; {
		changed = false
		for f := range m.NumFaces() {
			if visited[f] || !usable(f) {
				continue
			}
			e := m.FaceEdges[f]
			for range 3 {
				u, w, x := m.Origins[e], m.Origins[m.Nexts[e]], m.Origins[m.Nexts[m.Nexts[e]]]
				if p.placed[u] && p.placed[w] && !p.placed[x] {
					p.SetCircle(x, NewCircle(thirdCenter(p.circles[u], p.circles[w], radii[x]), radii[x]))
					visited[f] = true
					changed = true
					break
				}
				e = m.Nexts[e]
			}
		}
	}
	return p, nil
}

// placeAcross visits the face on the other side of half-edge e. It places
// the opposite vertex of that face if needed and reports the face when the
// walk may continue through it.
func (p *Packing) placeAcross(e int, visited []bool, usable func(int) bool) (int, bool) {
	m := p.mesh
	tw := m.Twins[e]
	if tw == dcel.NoEdge {
		return 0, false
	}
	g := m.Faces[tw]
	if visited[g] || !usable(g) {
		return 0, false
	}

	// tw runs u -> w inside g; x closes the triangle on its left.
	u, w := m.Origins[tw], m.Origins[m.Nexts[tw]]
	x := m.Origins[m.Nexts[m.Nexts[tw]]]
	rx := p.Radii[x]
	if !p.placed[x] {
		visited[g] = true
		p.SetCircle(x, NewCircle(thirdCenter(p.circles[u], p.circles[w], rx), rx))
		return g, true
	}
	if !p.touching(u, x) || !p.touching(w, x) {
		return 0, false
	}
	visited[g] = true
	return g, true
}

const tangencyTol = 1e-6

// touching reports whether circles u and v are externally tangent.
func (p *Packing) touching(u, v int) bool {
	cu, cv := p.circles[u], p.circles[v]
	d := cmplx.Abs(cu.Center - cv.Center)
	return math.Abs(d-(cu.Radius+cv.Radius)) <= tangencyTol*math.Max(1, cu.Radius+cv.Radius)
}

// thirdCenter returns the center of a circle of radius rx tangent to a and
// b, on the left of the direction from a to b.
func thirdCenter(a, b Circle, rx float64) complex128 {
	dua := a.Radius + rx
	duw := a.Radius + b.Radius
	dwx := b.Radius + rx
	cosAlpha := clamp((dua*dua+duw*duw-dwx*dwx)/(2*dua*duw), -1, 1)
	alpha := math.Acos(cosAlpha)

	dir := b.Center - a.Center
	if dir == 0 {
		dir = 1
	}
	dir /= complex(cmplx.Abs(dir), 0)
	return a.Center + complex(dua, 0)*dir*cmplx.Rect(1, alpha)
}

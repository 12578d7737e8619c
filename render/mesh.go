// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package render

import (
	"math"

	"github.com/2dChan/bubblewrap/dcel"
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/jbeda/geom"
)

// Camera orients the orthographic mesh view. Yaw turns the surface about
// its z axis, then Pitch tilts it about the screen x axis. Both are in
// radians; the zero camera looks down the z axis.
type Camera struct {
	Yaw, Pitch float64
}

// Project returns the screen-plane position of p, in surface units.
func (c Camera) Project(p r3.Vector) r2.Point {
	sy, cy := math.Sincos(c.Yaw)
	x := cy*p.X - sy*p.Y
	y := sy*p.X + cy*p.Y
	sp, cp := math.Sincos(c.Pitch)
	return r2.Point{X: x, Y: cp*y - sp*p.Z}
}

// BuildMesh draws the surface embedding of m: a dot per vertex and a
// segment per edge.
func BuildMesh(m *dcel.Mesh, opts Options) (Frame, error) {
	if err := opts.validate(); err != nil {
		return Frame{}, err
	}
	f := newFrame(opts)
	origin := opts.center()
	screen := make([]geom.Coord, m.NumVertices())
	for v := range m.Vertices() {
		q := opts.Camera.Project(v.Position()).Mul(opts.MeshScale)
		screen[v.Index()] = origin.Plus(geom.Coord{X: q.X, Y: q.Y})
		f.Dots = append(f.Dots, DotItem{Center: screen[v.Index()], Radius: 2, Color: Black})
	}
	for e := range m.HalfEdges() {
		u, w := e.Src().Index(), e.Dst().Index()
		// Interior edges show up twice; keep the copy going up in index.
		if _, ok := e.Twin(); ok && u > w {
			continue
		}
		f.Edges = append(f.Edges, EdgeItem{U: u, V: w, From: screen[u], To: screen[w], Color: Black})
	}
	if opts.ShowCursor {
		f.Dots = append(f.Dots, DotItem{Center: opts.Cursor, Radius: 1, Color: Black})
	}
	return f, nil
}

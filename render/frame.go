// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package render turns a scene into a frame, a flat display list in screen
// coordinates, and writes frames as SVG or PNG. It also exports the dual
// graph of a packing in DOT form.
package render

import (
	"image/color"
	"math"
	"math/cmplx"

	"github.com/2dChan/bubblewrap"
	"github.com/jbeda/geom"
)

const NoHighlight = -1

type CircleItem struct {
	Vertex int
	Center geom.Coord
	Radius float64
	Color  color.RGBA
}

// LineItem is a circle through infinity clipped to the screen.
type LineItem struct {
	Vertex   int
	From, To geom.Coord
	Color    color.RGBA
}

// EdgeItem joins the centers of two tangent circles, or two mesh vertices
// in the mesh view.
type EdgeItem struct {
	U, V     int
	From, To geom.Coord
	Color    color.RGBA
}

type DotItem struct {
	Center geom.Coord
	Radius float64
	Color  color.RGBA
}

type Frame struct {
	Width, Height int
	Background    color.RGBA

	Circles []CircleItem
	Lines   []LineItem
	Edges   []EdgeItem
	Dots    []DotItem

	// Index into Edges of the dual edge under the cursor, or NoHighlight.
	Highlight int
	// Vertices left out because their star could not be walked.
	Skipped int
}

func newFrame(opts Options) Frame {
	return Frame{
		Width:      opts.Width,
		Height:     opts.Height,
		Background: Background,
		Highlight:  NoHighlight,
	}
}

// Bounds returns the screen rectangle of the frame.
func (f Frame) Bounds() geom.Rect {
	return geom.Rect{Max: geom.Coord{X: float64(f.Width), Y: float64(f.Height)}}
}

// Build draws the packing of s. Every placed circle is drawn once, red when
// its vertex has more than ValenceLimit neighbours. With the dual graph on,
// the centers of tangent neighbours are joined and the edge nearest to the
// cursor is highlighted. A scene without circles gives an empty frame.
func Build(s *bubblewrap.Scene, opts Options) (Frame, error) {
	if err := opts.validate(); err != nil {
		return Frame{}, err
	}
	f := newFrame(opts)
	if s.Packing != nil {
		drawPacking(&f, s, opts)
	}
	if opts.ShowCursor {
		f.Highlight = highlight(&f, opts.Cursor, opts.HighlightBias)
		f.Dots = append(f.Dots, DotItem{Center: opts.Cursor, Radius: 1, Color: Black})
	}
	return f, nil
}

func drawPacking(f *Frame, s *bubblewrap.Scene, opts Options) {
	p := s.Packing
	drawn := make(map[[2]int]bool)
	for v := range s.Mesh.Vertices() {
		vi := v.Index()
		c, ok := p.Circle(vi)
		if !ok {
			continue
		}
		nbrs, err := v.Neighbors()
		if err != nil {
			f.Skipped++
			continue
		}

		col := Black
		if len(nbrs) > opts.ValenceLimit {
			col = Red
		}
		if c.ContainsInfinity() {
			from, to := lineEnds(c.Base, c.Angle, opts)
			f.Lines = append(f.Lines, LineItem{Vertex: vi, From: from, To: to, Color: col})
			continue
		}
		f.Circles = append(f.Circles, CircleItem{
			Vertex: vi,
			Center: opts.toScreen(c.Center),
			Radius: opts.Scale * c.Radius,
			Color:  col,
		})

		if !s.DualGraph {
			continue
		}
		for _, w := range nbrs {
			key := [2]int{min(vi, w), max(vi, w)}
			if drawn[key] || !p.Tangent(vi, w, opts.TangencySlack) {
				continue
			}
			cw, _ := p.Circle(w)
			drawn[key] = true
			f.Edges = append(f.Edges, EdgeItem{
				U: vi, V: w,
				From: opts.toScreen(c.Center), To: opts.toScreen(cw.Center),
				Color: Black,
			})
		}
	}
}

// lineEnds returns the ends of a line drawn through base at angle, long
// enough to cross the whole screen.
func lineEnds(base complex128, angle float64, opts Options) (geom.Coord, geom.Coord) {
	p := opts.toScreen(base)
	size := math.Max(opts.Scale*cmplx.Abs(base), float64(opts.Width+opts.Height)/2)
	d := geom.Coord{X: math.Cos(angle), Y: math.Sin(angle)}.Times(size)
	return p.Minus(d), p.Plus(d)
}

func highlight(f *Frame, cursor geom.Coord, bias float64) int {
	i, ok := NearestDualEdge(*f, cursor, bias)
	if !ok {
		return NoHighlight
	}
	f.Edges[i].Color = Red
	return i
}

// NearestDualEdge returns the index of the edge of f closest to p, if it
// lies within bias pixels.
func NearestDualEdge(f Frame, p geom.Coord, bias float64) (int, bool) {
	best, bestDist := NoHighlight, math.Inf(1)
	for i, e := range f.Edges {
		if d := segmentDistance(p, e.From, e.To); d < bias && d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, best != NoHighlight
}

func segmentDistance(p, a, b geom.Coord) float64 {
	ab, ap := b.Minus(a), p.Minus(a)
	l2 := ab.X*ab.X + ab.Y*ab.Y
	if l2 == 0 {
		return ap.Magnitude()
	}
	t := math.Max(0, math.Min(1, (ap.X*ab.X+ap.Y*ab.Y)/l2))
	return p.Minus(a.Plus(ab.Times(t))).Magnitude()
}

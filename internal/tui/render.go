// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package tui

import (
	"image/color"
	"math"

	"github.com/jbeda/geom"

	"github.com/2dChan/bubblewrap/render"
)

const (
	// Share of the shorter canvas side the packing spans.
	canvasFill = 0.9
	// Surfaces are drawn this many packing units across.
	meshExtent = 2.5

	defaultYaw   = math.Pi / 6
	defaultPitch = math.Pi / 3

	// Cap on the chords used to draw one circle.
	maxCircleSteps = 4096
)

// renderOptions sizes the frame to the canvas in micro-pixels.
func (m Model) renderOptions(w, h int) render.Options {
	ro := m.opts.Render
	ro.Width, ro.Height = w*2, h*4
	ro.Scale = float64(min(ro.Width, ro.Height)) * canvasFill / 2
	ro.MeshScale = ro.Scale / meshExtent
	ro.Camera = m.camera
	ro.Cursor, ro.ShowCursor = m.cursor, m.hovering
	return ro
}

func (m Model) frame(w, h int) (render.Frame, error) {
	ro := m.renderOptions(w, h)
	if m.showMesh {
		return render.BuildMesh(m.scene.Mesh, ro)
	}
	return render.Build(m.scene, ro)
}

// drawFrame rasterizes f onto b.
func drawFrame(b *brailleBuf, f render.Frame) {
	bounds := f.Bounds()
	for _, c := range f.Circles {
		drawCircle(b, c.Center, c.Radius, inkOf(c.Color), bounds)
	}
	for _, l := range f.Lines {
		drawSegment(b, l.From, l.To, inkOf(l.Color), bounds)
	}
	for _, e := range f.Edges {
		drawSegment(b, e.From, e.To, inkOf(e.Color), bounds)
	}
	for _, d := range f.Dots {
		b.setPixel(round(d.Center.X), round(d.Center.Y), inkOf(d.Color))
	}
}

func inkOf(c color.RGBA) ink {
	if c == render.Red {
		return inkAlert
	}
	return inkPlain
}

// drawCircle draws the visible part of a circle as chords. Circles wholly
// outside the canvas, or containing all of it, draw nothing.
func drawCircle(b *brailleBuf, center geom.Coord, r float64, k ink, bounds geom.Rect) {
	near := geom.Coord{
		X: math.Max(bounds.Min.X, math.Min(center.X, bounds.Max.X)),
		Y: math.Max(bounds.Min.Y, math.Min(center.Y, bounds.Max.Y)),
	}
	if center.Minus(near).Magnitude() > r+1 {
		return
	}
	far := 0.0
	for _, p := range []geom.Coord{bounds.Min, bounds.Max, {X: bounds.Min.X, Y: bounds.Max.Y}, {X: bounds.Max.X, Y: bounds.Min.Y}} {
		far = math.Max(far, center.Minus(p).Magnitude())
	}
	if far < r-1 {
		return
	}

	steps := int(math.Min(maxCircleSteps, math.Max(12, 2*math.Pi*r/1.5)))
	prev := center.Plus(geom.Coord{X: r})
	for i := 1; i <= steps; i++ {
		s, c := math.Sincos(2 * math.Pi * float64(i) / float64(steps))
		next := center.Plus(geom.Coord{X: c * r, Y: s * r})
		drawSegment(b, prev, next, k, bounds)
		prev = next
	}
}

func drawSegment(b *brailleBuf, p, q geom.Coord, k ink, bounds geom.Rect) {
	p, q, ok := clipSegment(p, q, bounds)
	if !ok {
		return
	}
	b.drawLineMicro(round(p.X), round(p.Y), round(q.X), round(q.Y), k)
}

// clipSegment clips pq to r (Liang-Barsky). It reports false when nothing
// of the segment is inside.
func clipSegment(p, q geom.Coord, r geom.Rect) (geom.Coord, geom.Coord, bool) {
	d := q.Minus(p)
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-d.X, p.X - r.Min.X},
		{d.X, r.Max.X - p.X},
		{-d.Y, p.Y - r.Min.Y},
		{d.Y, r.Max.Y - p.Y},
	}
	for _, e := range edges {
		den, num := e[0], e[1]
		if den == 0 {
			if num < 0 {
				return p, q, false
			}
			continue
		}
		t := num / den
		if den < 0 {
			t0 = math.Max(t0, t)
		} else {
			t1 = math.Min(t1, t)
		}
		if t0 > t1 {
			return p, q, false
		}
	}
	return p.Plus(d.Times(t0)), p.Plus(d.Times(t1)), true
}

func round(x float64) int {
	return int(math.Round(x))
}

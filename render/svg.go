// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package render

import (
	"fmt"
	"image/color"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
	"github.com/jbeda/geom"
)

// svgo takes integer coordinates; everything is drawn at svgUnits per pixel
// inside a group scaled back down.
const svgUnits = 10

func strokeStyle(c color.RGBA, width float64) string {
	return fmt.Sprintf("fill:none;stroke:rgb(%d,%d,%d);stroke-width:%g", c.R, c.G, c.B, width*svgUnits)
}

func fillStyle(c color.RGBA) string {
	return fmt.Sprintf("fill:rgb(%d,%d,%d)", c.R, c.G, c.B)
}

func svgInt(x float64) int {
	return int(math.Round(x * svgUnits))
}

// WriteSVG writes f as an SVG document.
func WriteSVG(w io.Writer, f Frame) error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidOptions, f.Width, f.Height)
	}
	canvas := svg.New(w)
	canvas.Start(f.Width, f.Height)
	canvas.Rect(0, 0, f.Width, f.Height, fillStyle(f.Background))
	canvas.Gtransform(fmt.Sprintf("scale(%g)", 1.0/svgUnits))

	line := func(a, b geom.Coord, c color.RGBA) {
		canvas.Line(svgInt(a.X), svgInt(a.Y), svgInt(b.X), svgInt(b.Y), strokeStyle(c, 1))
	}
	for _, e := range f.Edges {
		line(e.From, e.To, e.Color)
	}
	for _, l := range f.Lines {
		line(l.From, l.To, l.Color)
	}
	for _, c := range f.Circles {
		canvas.Circle(svgInt(c.Center.X), svgInt(c.Center.Y), svgInt(c.Radius), strokeStyle(c.Color, 1))
	}
	for _, d := range f.Dots {
		canvas.Circle(svgInt(d.Center.X), svgInt(d.Center.Y), svgInt(d.Radius), fillStyle(d.Color))
	}

	canvas.Gend()
	canvas.End()
	return nil
}

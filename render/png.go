// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package render

import (
	"fmt"
	"io"

	"github.com/fogleman/gg"
)

// WritePNG rasterises f with antialiasing and writes it as PNG.
func WritePNG(w io.Writer, f Frame) error {
	dc, err := Rasterize(f)
	if err != nil {
		return err
	}
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Rasterize draws f on a new gg context.
func Rasterize(f Frame) (*gg.Context, error) {
	if f.Width <= 0 || f.Height <= 0 {
		return nil, fmt.Errorf("%w: size %dx%d", ErrInvalidOptions, f.Width, f.Height)
	}
	dc := gg.NewContext(f.Width, f.Height)
	dc.SetColor(f.Background)
	dc.Clear()
	dc.SetLineWidth(1)

	for _, e := range f.Edges {
		dc.SetColor(e.Color)
		dc.DrawLine(e.From.X, e.From.Y, e.To.X, e.To.Y)
		dc.Stroke()
	}
	for _, l := range f.Lines {
		dc.SetColor(l.Color)
		dc.DrawLine(l.From.X, l.From.Y, l.To.X, l.To.Y)
		dc.Stroke()
	}
	for _, c := range f.Circles {
		dc.SetColor(c.Color)
		dc.DrawCircle(c.Center.X, c.Center.Y, c.Radius)
		dc.Stroke()
	}
	for _, d := range f.Dots {
		dc.SetColor(d.Color)
		dc.DrawCircle(d.Center.X, d.Center.Y, d.Radius)
		dc.Fill()
	}
	return dc, nil
}

// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package render

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/jbeda/geom"
)

const (
	defaultWidth         = 800
	defaultHeight        = 600
	defaultScale         = 200
	defaultMeshScale     = 10
	defaultHighlightBias = 10
	defaultTangencySlack = 0.01
	defaultValenceLimit  = 6
)

var (
	Background = color.RGBA{250, 250, 250, 255}
	Black      = color.RGBA{0, 0, 0, 255}
	Red        = color.RGBA{255, 0, 0, 255}
)

var ErrInvalidOptions = errors.New("render: invalid options")

// Options controls how a scene is turned into a frame. Distances are in
// screen pixels unless noted.
type Options struct {
	Width, Height int
	// Pixels per unit of the packing plane.
	Scale float64
	// Pixels per unit of the surface embedding in the mesh view.
	MeshScale float64
	Camera    Camera

	// Cursor is in screen coordinates; it is drawn and used for dual edge
	// highlighting only when ShowCursor is set.
	Cursor     geom.Coord
	ShowCursor bool

	HighlightBias float64
	// Slack in plane units when deciding whether two circles touch.
	TangencySlack float64
	// Circles of vertices with more neighbours than this are drawn red.
	ValenceLimit int
}

func DefaultOptions() Options {
	return Options{
		Width:         defaultWidth,
		Height:        defaultHeight,
		Scale:         defaultScale,
		MeshScale:     defaultMeshScale,
		HighlightBias: defaultHighlightBias,
		TangencySlack: defaultTangencySlack,
		ValenceLimit:  defaultValenceLimit,
	}
}

func (o Options) validate() error {
	switch {
	case o.Width <= 0 || o.Height <= 0:
		return fmt.Errorf("%w: size %dx%d", ErrInvalidOptions, o.Width, o.Height)
	case o.Scale <= 0 || o.MeshScale <= 0:
		return fmt.Errorf("%w: scale %v, mesh scale %v", ErrInvalidOptions, o.Scale, o.MeshScale)
	case o.HighlightBias < 0 || o.TangencySlack < 0:
		return fmt.Errorf("%w: negative tolerance", ErrInvalidOptions)
	}
	return nil
}

// center returns the screen position of the plane origin.
func (o Options) center() geom.Coord {
	return geom.Coord{X: float64(o.Width) / 2, Y: float64(o.Height) / 2}
}

// toScreen maps a point of the packing plane to the screen. Screen y grows
// downwards together with the imaginary part.
func (o Options) toScreen(z complex128) geom.Coord {
	return o.center().Plus(geom.Coord{X: real(z), Y: imag(z)}.Times(o.Scale))
}

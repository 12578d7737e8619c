// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/2dChan/bubblewrap"
	"github.com/goccy/go-graphviz"
)

var ErrNoPacking = errors.New("render: scene has no packing")

// DOTScale is the number of inches per plane unit in DOT node positions.
const DOTScale = 5.0

// DualGraphDOT writes the tangency graph of the packing of s as an
// undirected DOT graph for the neato engine. Nodes carry the circle centers
// as pinned positions, sized by the circle radius, and edges join tangent
// neighbours. The y axis is flipped so the layout reads like the SVG frame.
func DualGraphDOT(s *bubblewrap.Scene, slack float64) (string, error) {
	if !s.HasPacking() {
		return "", ErrNoPacking
	}
	p := s.Packing

	var buf bytes.Buffer
	buf.WriteString("graph dual {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, fixedsize=true, width=0.3, fontsize=8];\n")
	buf.WriteString("\n")

	for v, c := range p.Circles() {
		if c.ContainsInfinity() {
			fmt.Fprintf(&buf, "  %d [style=dashed];\n", v)
			continue
		}
		fmt.Fprintf(&buf, "  %d [pos=\"%.4f,%.4f!\", width=%.4f];\n",
			v, DOTScale*real(c.Center), -DOTScale*imag(c.Center), 2*DOTScale*c.Radius)
	}

	buf.WriteString("\n")
	skipped := 0
	for v := range s.Mesh.Vertices() {
		nbrs, err := v.Neighbors()
		if err != nil {
			skipped++
			continue
		}
		for _, w := range nbrs {
			if v.Index() < w && p.Tangent(v.Index(), w, slack) {
				fmt.Fprintf(&buf, "  %d -- %d;\n", v.Index(), w)
			}
		}
	}
	if skipped > 0 {
		fmt.Fprintf(&buf, "  // %d vertices with a broken star\n", skipped)
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

// RenderDOT lays out a DOT graph with the Graphviz neato engine, which keeps
// pinned node positions, and returns SVG bytes.
func RenderDOT(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

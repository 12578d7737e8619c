// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package dcel

import (
	"fmt"
	"slices"

	"github.com/golang/geo/r3"
)

type directedEdge struct {
	src, dst int
}

// FromTriangles builds a Mesh from vertex positions and counter-clockwise
// triangles. It fails on out of range or degenerate triangles, on a
// directed edge used twice (non-manifold or inconsistently oriented input),
// on unused vertices and on vertices whose fan is not a single cycle or
// chain.
func FromTriangles(positions []r3.Vector, triangles [][3]int) (*Mesh, error) {
	if len(triangles) == 0 {
		return nil, ErrEmptyMesh
	}
	nv := len(positions)
	nh := 3 * len(triangles)
	m := &Mesh{
		Positions:   slices.Clone(positions),
		Origins:     make([]int, nh),
		Twins:       make([]int, nh),
		Nexts:       make([]int, nh),
		Faces:       make([]int, nh),
		VertexEdges: make([]int, nv),
		FaceEdges:   make([]int, len(triangles)),
	}
	for i := range m.VertexEdges {
		m.VertexEdges[i] = NoEdge
	}

	edges := make(map[directedEdge]int, nh)
	for f, t := range triangles {
		for _, v := range t {
			if v < 0 || v >= nv {
				return nil, fmt.Errorf("FromTriangles: %w: triangle %d vertex %d", ErrIndexOutRange, f, v)
			}
		}
		if t[0] == t[1] || t[1] == t[2] || t[2] == t[0] {
			return nil, fmt.Errorf("%w: triangle %d is degenerate %v", ErrInvalidMesh, f, t)
		}

		base := 3 * f
		m.FaceEdges[f] = base
		for j := range 3 {
			e := base + j
			m.Origins[e] = t[j]
			m.Nexts[e] = base + (j+1)%3
			m.Faces[e] = f
			m.Twins[e] = NoEdge

			de := directedEdge{src: t[j], dst: t[(j+1)%3]}
			if _, ok := edges[de]; ok {
				return nil, fmt.Errorf("%w: directed edge %d->%d used twice", ErrNonManifold, de.src, de.dst)
			}
			edges[de] = e
		}
	}

	for de, e := range edges {
		if t, ok := edges[directedEdge{src: de.dst, dst: de.src}]; ok {
			m.Twins[e] = t
		}
	}

	// Prefer the twinless outgoing half-edge for boundary vertices.
	for e, o := range m.Origins {
		if m.VertexEdges[o] == NoEdge || m.Twins[e] == NoEdge {
			m.VertexEdges[o] = e
		}
	}
	for v, e := range m.VertexEdges {
		if e == NoEdge {
			return nil, fmt.Errorf("%w: vertex %d is not used by any triangle", ErrInvalidMesh, v)
		}
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

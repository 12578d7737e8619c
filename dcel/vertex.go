// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package dcel

import (
	"fmt"
	"iter"

	"github.com/golang/geo/r3"
)

// Vertex is a view structure for accessing a vertex of a Mesh.
type Vertex struct {
	idx int
	m   *Mesh
}

// Index returns the index of the vertex in the Mesh.
func (v Vertex) Index() int {
	return v.idx
}

// Position returns the embedding of the vertex.
func (v Vertex) Position() r3.Vector {
	return v.m.Positions[v.idx]
}

// IsBoundary reports whether the vertex lies on a boundary loop.
func (v Vertex) IsBoundary() bool {
	e := v.m.VertexEdges[v.idx]
	return e != NoEdge && v.m.Twins[e] == NoEdge
}

// Star yields the outgoing half-edges of the vertex in counter-clockwise
// order. For boundary vertices it starts at the outgoing boundary half-edge.
// A broken star ends early; use Edges to detect that.
func (v Vertex) Star() iter.Seq[HalfEdge] {
	return func(yield func(HalfEdge) bool) {
		start := v.m.VertexEdges[v.idx]
		if start == NoEdge {
			return
		}
		e := start
		for range v.m.NumHalfEdges() {
			if v.m.Origins[e] != v.idx || !yield(HalfEdge{idx: e, m: v.m}) {
				return
			}
			t := v.m.Twins[v.m.prev(e)]
			if t == NoEdge || t == start {
				return
			}
			e = t
		}
	}
}

// Edges returns the star of the vertex as a slice.
// It returns an error if the fan around the vertex does not close or does
// not end on a boundary.
func (v Vertex) Edges() ([]HalfEdge, error) {
	start := v.m.VertexEdges[v.idx]
	if start == NoEdge {
		return nil, fmt.Errorf("%w: vertex %d has no outgoing half-edge", ErrBrokenStar, v.idx)
	}
	boundary := v.m.Twins[start] == NoEdge

	var star []HalfEdge
	e := start
	for {
		if v.m.Origins[e] != v.idx {
			return nil, fmt.Errorf("%w: half-edge %d in star of %d leaves vertex %d",
				ErrBrokenStar, e, v.idx, v.m.Origins[e])
		}
		star = append(star, HalfEdge{idx: e, m: v.m})
		if len(star) > v.m.NumHalfEdges() {
			return nil, fmt.Errorf("%w: star of vertex %d does not close", ErrBrokenStar, v.idx)
		}
		t := v.m.Twins[v.m.prev(e)]
		switch {
		case t == NoEdge && boundary:
			return star, nil
		case t == NoEdge:
			return nil, fmt.Errorf("%w: star of interior vertex %d hits a boundary", ErrBrokenStar, v.idx)
		case t == start && !boundary:
			return star, nil
		case t == start:
			return nil, fmt.Errorf("%w: star of boundary vertex %d closes", ErrBrokenStar, v.idx)
		}
		e = t
	}
}

// Neighbors returns the adjacent vertices in counter-clockwise order.
// It returns an error if the star of the vertex is broken.
func (v Vertex) Neighbors() ([]int, error) {
	star, err := v.Edges()
	if err != nil {
		return nil, err
	}
	nbrs := make([]int, 0, len(star)+1)
	for _, e := range star {
		nbrs = append(nbrs, e.Dst().idx)
	}
	if v.IsBoundary() {
		nbrs = append(nbrs, star[len(star)-1].Prev().Src().idx)
	}
	return nbrs, nil
}

// Valence returns the number of edges incident to the vertex, or 0 when
// its star is broken.
func (v Vertex) Valence() int {
	nbrs, err := v.Neighbors()
	if err != nil {
		return 0
	}
	return len(nbrs)
}

// HalfEdge is a view structure for accessing a half-edge of a Mesh.
type HalfEdge struct {
	idx int
	m   *Mesh
}

// Index returns the index of the half-edge in the Mesh.
func (e HalfEdge) Index() int {
	return e.idx
}

// Src returns the origin vertex.
func (e HalfEdge) Src() Vertex {
	return Vertex{idx: e.m.Origins[e.idx], m: e.m}
}

// Dst returns the vertex the half-edge points to.
func (e HalfEdge) Dst() Vertex {
	return e.Next().Src()
}

func (e HalfEdge) Next() HalfEdge {
	return HalfEdge{idx: e.m.Nexts[e.idx], m: e.m}
}

func (e HalfEdge) Prev() HalfEdge {
	return HalfEdge{idx: e.m.prev(e.idx), m: e.m}
}

// Twin returns the opposite half-edge. The boolean is false on a boundary.
func (e HalfEdge) Twin() (HalfEdge, bool) {
	t := e.m.Twins[e.idx]
	if t == NoEdge {
		return HalfEdge{}, false
	}
	return HalfEdge{idx: t, m: e.m}, true
}

// Face returns the index of the face on the left of the half-edge.
func (e HalfEdge) Face() int {
	return e.m.Faces[e.idx]
}

func (e HalfEdge) IsBoundary() bool {
	return e.m.Twins[e.idx] == NoEdge
}

// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package dcel implements triangulated surfaces as an index-based
// doubly-connected edge list.
package dcel

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/golang/geo/r3"
)

// NoEdge marks a missing half-edge, e.g. the twin of a boundary half-edge.
const NoEdge = -1

var (
	ErrEmptyMesh     = errors.New("dcel: mesh has no faces")
	ErrInvalidMesh   = errors.New("dcel: invalid mesh")
	ErrNonManifold   = errors.New("dcel: non-manifold mesh")
	ErrBrokenStar    = errors.New("dcel: broken vertex star")
	ErrIndexOutRange = errors.New("dcel: index out of range")
)

// Mesh is a triangulated surface. Half-edge e of face f is stored at
// 3*f+j, so Nexts cycles within a face.
type Mesh struct {
	// Embedding in 3-space, one position per vertex.
	Positions []r3.Vector

	// Per half-edge.
	Origins []int
	// NOTE: NoEdge for half-edges on a boundary.
	Twins []int
	Nexts []int
	Faces []int

	// NOTE: For boundary vertices the stored half-edge is the outgoing one
	// without a twin, so Star starts at the boundary.
	VertexEdges []int
	FaceEdges   []int
}

func (m *Mesh) NumVertices() int {
	return len(m.Positions)
}

func (m *Mesh) NumHalfEdges() int {
	return len(m.Origins)
}

// NumEdges returns the number of undirected edges.
func (m *Mesh) NumEdges() int {
	n := 0
	for e, t := range m.Twins {
		if t == NoEdge || e < t {
			n++
		}
	}
	return n
}

func (m *Mesh) NumFaces() int {
	return len(m.FaceEdges)
}

// Vertex returns a view of the i-th vertex.
// It returns an error if the index is out of range.
func (m *Mesh) Vertex(i int) (Vertex, error) {
	if i < 0 || i >= m.NumVertices() {
		return Vertex{}, fmt.Errorf("Vertex: %w: %d not in [0 %d)", ErrIndexOutRange, i, m.NumVertices())
	}
	return Vertex{idx: i, m: m}, nil
}

// HalfEdge returns a view of the i-th half-edge.
// It returns an error if the index is out of range.
func (m *Mesh) HalfEdge(i int) (HalfEdge, error) {
	if i < 0 || i >= m.NumHalfEdges() {
		return HalfEdge{}, fmt.Errorf("HalfEdge: %w: %d not in [0 %d)", ErrIndexOutRange, i, m.NumHalfEdges())
	}
	return HalfEdge{idx: i, m: m}, nil
}

// Vertices yields every vertex in index order.
func (m *Mesh) Vertices() iter.Seq[Vertex] {
	return func(yield func(Vertex) bool) {
		for i := range m.NumVertices() {
			if !yield(Vertex{idx: i, m: m}) {
				return
			}
		}
	}
}

// HalfEdges yields every half-edge in index order.
func (m *Mesh) HalfEdges() iter.Seq[HalfEdge] {
	return func(yield func(HalfEdge) bool) {
		for i := range m.NumHalfEdges() {
			if !yield(HalfEdge{idx: i, m: m}) {
				return
			}
		}
	}
}

// FaceVertices returns the vertices of face f in counter-clockwise order.
func (m *Mesh) FaceVertices(f int) [3]int {
	if f < 0 || f >= m.NumFaces() {
		panic("FaceVertices: face index out of range")
	}
	e := m.FaceEdges[f]
	return [3]int{m.Origins[e], m.Origins[m.Nexts[e]], m.Origins[m.Nexts[m.Nexts[e]]]}
}

// Triangles returns the face list, one counter-clockwise triple per face.
func (m *Mesh) Triangles() [][3]int {
	tris := make([][3]int, m.NumFaces())
	for f := range tris {
		tris[f] = m.FaceVertices(f)
	}
	return tris
}

// Clone returns a deep copy of m.
func (m *Mesh) Clone() *Mesh {
	return &Mesh{
		Positions:   slices.Clone(m.Positions),
		Origins:     slices.Clone(m.Origins),
		Twins:       slices.Clone(m.Twins),
		Nexts:       slices.Clone(m.Nexts),
		Faces:       slices.Clone(m.Faces),
		VertexEdges: slices.Clone(m.VertexEdges),
		FaceEdges:   slices.Clone(m.FaceEdges),
	}
}

// EulerCharacteristic returns V - E + F.
func (m *Mesh) EulerCharacteristic() int {
	return m.NumVertices() - m.NumEdges() + m.NumFaces()
}

// BoundaryLoops returns the boundary components as vertex loops, each
// following the boundary half-edges.
func (m *Mesh) BoundaryLoops() [][]int {
	seen := make([]bool, m.NumHalfEdges())
	var loops [][]int
	for e, t := range m.Twins {
		if t != NoEdge || seen[e] {
			continue
		}
		var loop []int
		for cur := e; !seen[cur]; {
			seen[cur] = true
			loop = append(loop, m.Origins[cur])
			cur = m.VertexEdges[m.Origins[m.Nexts[cur]]]
			if m.Twins[cur] != NoEdge {
				break
			}
		}
		loops = append(loops, loop)
	}
	return loops
}

func (m *Mesh) NumBoundaryComponents() int {
	return len(m.BoundaryLoops())
}

// Genus returns the genus of the orientable surface, from
// chi = 2 - 2g - b.
func (m *Mesh) Genus() int {
	return (2 - m.EulerCharacteristic() - m.NumBoundaryComponents()) / 2
}

// ValenceHistogram maps a valence to the number of vertices having it.
// Vertices with a broken star are counted under valence 0.
func (m *Mesh) ValenceHistogram() map[int]int {
	h := make(map[int]int)
	for v := range m.Vertices() {
		h[v.Valence()]++
	}
	return h
}

// Valences returns the sorted distinct valences present in the mesh.
func (m *Mesh) Valences() []int {
	return slices.Sorted(maps.Keys(m.ValenceHistogram()))
}

func (m *Mesh) prev(e int) int {
	return m.Nexts[m.Nexts[e]]
}

// Validate checks the half-edge invariants: twins are involutions between
// opposite half-edges, every face is a 3-cycle and every vertex has a
// closed or boundary-bounded star.
func (m *Mesh) Validate() error {
	nh := m.NumHalfEdges()
	if len(m.Twins) != nh || len(m.Nexts) != nh || len(m.Faces) != nh {
		return fmt.Errorf("%w: half-edge arrays differ in length", ErrInvalidMesh)
	}
	if nh != 3*m.NumFaces() {
		return fmt.Errorf("%w: %d half-edges for %d triangles", ErrInvalidMesh, nh, m.NumFaces())
	}
	if len(m.VertexEdges) != m.NumVertices() {
		return fmt.Errorf("%w: %d vertex edges for %d vertices", ErrInvalidMesh, len(m.VertexEdges), m.NumVertices())
	}

	for e := range nh {
		n := m.Nexts[e]
		if n < 0 || n >= nh {
			return fmt.Errorf("%w: next of half-edge %d out of range", ErrInvalidMesh, e)
		}
		if m.Nexts[m.Nexts[n]] != e {
			return fmt.Errorf("%w: face cycle at half-edge %d is not a triangle", ErrInvalidMesh, e)
		}
		if m.Faces[n] != m.Faces[e] {
			return fmt.Errorf("%w: half-edges %d and %d disagree on face", ErrInvalidMesh, e, n)
		}
		if o := m.Origins[e]; o < 0 || o >= m.NumVertices() {
			return fmt.Errorf("%w: origin of half-edge %d out of range", ErrInvalidMesh, e)
		}
		t := m.Twins[e]
		if t == NoEdge {
			continue
		}
		if t < 0 || t >= nh || t == e {
			return fmt.Errorf("%w: twin of half-edge %d out of range", ErrInvalidMesh, e)
		}
		if m.Twins[t] != e {
			return fmt.Errorf("%w: twin of twin of half-edge %d is %d", ErrInvalidMesh, e, m.Twins[t])
		}
		if m.Origins[t] != m.Origins[n] {
			return fmt.Errorf("%w: half-edge %d and its twin are not opposite", ErrInvalidMesh, e)
		}
	}

	for f, e := range m.FaceEdges {
		if e < 0 || e >= nh || m.Faces[e] != f {
			return fmt.Errorf("%w: face %d edge mismatch", ErrInvalidMesh, f)
		}
	}

	outgoing := make([]int, m.NumVertices())
	for _, o := range m.Origins {
		outgoing[o]++
	}
	for v := range m.Vertices() {
		e := m.VertexEdges[v.idx]
		if e < 0 || e >= nh || m.Origins[e] != v.idx {
			return fmt.Errorf("%w: vertex %d has no outgoing half-edge", ErrInvalidMesh, v.idx)
		}
		star, err := v.Edges()
		if err != nil {
			return err
		}
		if len(star) != outgoing[v.idx] {
			return fmt.Errorf("%w: vertex %d star covers %d of %d half-edges",
				ErrNonManifold, v.idx, len(star), outgoing[v.idx])
		}
	}
	return nil
}

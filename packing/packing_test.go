// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package packing

import (
	"context"
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/2dChan/bubblewrap/dcel"
	"github.com/2dChan/bubblewrap/utils"
)

func TestLayout_Flower(t *testing.T) {
	const petals = 7
	m := mustNewFlower(t, petals)
	res, err := Relax(context.Background(), m, WithBoundaryRadius(1))
	if err != nil {
		t.Fatalf("Relax(flower) error = %v, want nil", err)
	}
	p := mustLayout(t, m, res.Radii)

	if got := p.NumPlaced(); got != petals+1 {
		t.Fatalf("Layout(flower).NumPlaced() = %d, want %d", got, petals+1)
	}
	c0, _ := p.Circle(0)
	if cmplx.Abs(c0.Center) > eps {
		t.Errorf("Layout(flower) first circle center = %v, want 0", c0.Center)
	}
	for v := 1; v <= petals; v++ {
		next := v%petals + 1
		if !p.touching(0, v) {
			t.Errorf("Layout(flower) center and petal %d are not tangent", v)
		}
		// One of these pairs closes the flower and is never laid out directly.
		if !p.touching(v, next) {
			t.Errorf("Layout(flower) petals %d and %d are not tangent", v, next)
		}
	}
}

func TestLayout_FirstFaceOrientation(t *testing.T) {
	m := mustNewTorus(t, 4, 4)
	radii := make([]float64, m.NumVertices())
	for i := range radii {
		radii[i] = 1
	}
	p := mustLayout(t, m, radii)

	tri := m.FaceVertices(0)
	a, _ := p.Circle(tri[0])
	b, _ := p.Circle(tri[1])
	c, _ := p.Circle(tri[2])
	if a.Center != 0 {
		t.Errorf("first vertex center = %v, want 0", a.Center)
	}
	if math.Abs(imag(b.Center)) > eps || real(b.Center) <= 0 {
		t.Errorf("second vertex center = %v, want on the positive real axis", b.Center)
	}
	if imag(c.Center) <= 0 {
		t.Errorf("third vertex center = %v, want left of the first edge", c.Center)
	}
}

func TestLayout_TorusPlacesEveryVertex(t *testing.T) {
	m := mustNewTorus(t, 10, 10)
	res, err := Relax(context.Background(), m)
	if err != nil {
		t.Fatalf("Relax(torus) error = %v, want nil", err)
	}
	p := mustLayout(t, m, res.Radii)
	if got := p.NumPlaced(); got != m.NumVertices() {
		t.Fatalf("Layout(torus).NumPlaced() = %d, want %d", got, m.NumVertices())
	}

	tangent := 0
	for e := range m.HalfEdges() {
		u, w := e.Src().Index(), e.Dst().Index()
		if u < w && p.touching(u, w) {
			tangent++
		}
	}
	// At least a spanning tree of the edges is realised by tangencies.
	if tangent < m.NumVertices()-1 {
		t.Errorf("Layout(torus) tangent edges = %d, want >= %d", tangent, m.NumVertices()-1)
	}
}

func TestLayout_SkipsPuncture(t *testing.T) {
	m, err := dcel.NewSphere(utils.GenerateFibonacciPoints(30))
	if err != nil {
		t.Fatalf("NewSphere(...) error = %v, want nil", err)
	}
	res, err := Relax(context.Background(), m, WithTolerance(1e-4))
	if err != nil && !errors.Is(err, ErrNotConverged) {
		t.Fatalf("Relax(sphere) error = %v", err)
	}
	p := mustLayout(t, m, res.Radii)
	if got := p.NumPlaced(); got != m.NumVertices()-1 {
		t.Errorf("Layout(sphere).NumPlaced() = %d, want %d", got, m.NumVertices()-1)
	}
	if p.Placed(res.Puncture) {
		t.Errorf("Layout(sphere) placed puncture %d", res.Puncture)
	}
}

func TestLayout_Errors(t *testing.T) {
	m := mustNewFlower(t, 4)
	tests := []struct {
		name  string
		radii []float64
		want  error
	}{
		{"short", []float64{1, 1}, ErrInvalidRadii},
		{"NaN", []float64{1, 1, math.NaN(), 1, 1}, ErrInvalidRadii},
		{"infinite", []float64{1, 1, 1, math.Inf(1), 1}, ErrInvalidRadii},
		{"all zero", []float64{0, 0, 0, 0, 0}, ErrNothingToPlace},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Layout(m, tt.radii); !errors.Is(err, tt.want) {
				t.Errorf("Layout(%v) error = %v, want %v", tt.radii, err, tt.want)
			}
		})
	}
}

func TestPacking_Normalize(t *testing.T) {
	m := mustNewFlower(t, 5)
	p := mustLayout(t, m, []float64{0.5, 1, 1, 1, 1, 1})
	p.Transform(Translation(10 - 4i))

	tr := p.Normalize()
	r, ok := p.Bounds()
	if !ok {
		t.Fatalf("p.Bounds() ok = false, want true")
	}
	if cx, cy := (r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2; math.Hypot(cx, cy) > eps {
		t.Errorf("normalized bounds center = (%v, %v), want (0, 0)", cx, cy)
	}
	if got := math.Max(r.Width(), r.Height()); math.Abs(got-2) > eps {
		t.Errorf("normalized bounds extent = %v, want 2", got)
	}
	if !tr.IsAffine() {
		t.Errorf("p.Normalize() = %v, want an affine map", tr)
	}

	empty := New(m)
	if got := empty.Normalize(); got != Identity() {
		t.Errorf("New(m).Normalize() = %v, want identity", got)
	}
}

func TestPacking_TransformAndTangent(t *testing.T) {
	m := mustNewFlower(t, 6)
	p := mustLayout(t, m, []float64{1, 1, 1, 1, 1, 1, 1})
	before, _ := p.Circle(3)

	p.Transform(Translation(1 + 1i))
	after, _ := p.Circle(3)
	if cmplx.Abs(after.Center-before.Center-(1+1i)) > eps || after.Radius != before.Radius {
		t.Errorf("Transform(Translation(1+1i)) moved %v to %v", before, after)
	}
	if !p.Tangent(0, 3, 0.01) {
		t.Errorf("p.Tangent(0, 3, 0.01) = false, want true")
	}
	if p.Tangent(1, 4, 0.01) {
		t.Errorf("p.Tangent(1, 4, 0.01) = true, want false")
	}

	// Inverting in the center circle pulls the petals inside it.
	p.Transform(Translation(-(1 + 1i)))
	p.Transform(Inversion())
	c, _ := p.Circle(1)
	if c.ContainsInfinity() {
		t.Fatalf("inverted petal %v contains infinity, want a circle", c)
	}
	if got := cmplx.Abs(c.Center) + c.Radius; math.Abs(got-1) > eps {
		t.Errorf("inverted petal %v reaches %v from the origin, want 1", c, got)
	}
	if !p.Tangent(0, 1, 0.01) {
		t.Errorf("p.Tangent(0, 1, 0.01) = false after inversion, want true")
	}
}

func TestPacking_CircleAndClone(t *testing.T) {
	m := mustNewFlower(t, 4)
	p := New(m)
	if _, ok := p.Circle(0); ok {
		t.Errorf("New(m).Circle(0) ok = true, want false")
	}
	if _, ok := p.Circle(-1); ok {
		t.Errorf("New(m).Circle(-1) ok = true, want false")
	}
	p.SetCircle(2, NewCircle(1, 2))

	c := p.Clone()
	c.SetCircle(2, NewCircle(5, 5))
	c.SetCircle(3, NewCircle(0, 1))
	if got, _ := p.Circle(2); got != NewCircle(1, 2) {
		t.Errorf("p.Circle(2) = %v after clone mutation, want %v", got, NewCircle(1, 2))
	}
	if p.NumPlaced() != 1 || c.NumPlaced() != 2 {
		t.Errorf("NumPlaced() = %d, %d, want 1, 2", p.NumPlaced(), c.NumPlaced())
	}
	n := 0
	for v, circle := range c.Circles() {
		if !c.Placed(v) || circle.Radius <= 0 {
			t.Errorf("c.Circles() yielded %d, %v", v, circle)
		}
		n++
	}
	if n != 2 {
		t.Errorf("c.Circles() yielded %d circles, want 2", n)
	}
}

func BenchmarkLayout(b *testing.B) {
	m, err := dcel.NewTorus(50, 50, 1, 0.5)
	if err != nil {
		b.Fatalf("NewTorus(50, 50, 1, 0.5) error = %v, want nil", err)
	}
	radii := make([]float64, m.NumVertices())
	for i := range radii {
		radii[i] = 1
	}
	b.ReportAllocs()
	for b.Loop() {
		if _, err := Layout(m, radii); err != nil {
			b.Fatalf("Layout(...) error = %v, want nil", err)
		}
	}
}

func mustLayout(t *testing.T, m *dcel.Mesh, radii []float64) *Packing {
	t.Helper()
	p, err := Layout(m, radii)
	if err != nil {
		t.Fatalf("Layout(...) error = %v, want nil", err)
	}
	return p
}

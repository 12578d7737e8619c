// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package packing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/2dChan/bubblewrap/dcel"
	"github.com/2dChan/bubblewrap/utils"
	"github.com/golang/geo/r3"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestRelax_Options(t *testing.T) {
	tests := []struct {
		name string
		opt  RelaxOption
	}{
		{"tolerance zero", WithTolerance(0)},
		{"iterations zero", WithMaxIterations(0)},
		{"boundary radius negative", WithBoundaryRadius(-1)},
		{"boundary angle zero", WithBoundaryAngle(0)},
		{"boundary angle too large", WithBoundaryAngle(7)},
		{"puncture negative", WithPuncture(-2)},
		{"initial radius zero", WithInitialRadii([]float64{1, 0})},
		{"initial radius NaN", WithInitialRadii([]float64{math.NaN()})},
	}
	m := mustNewTorus(t, 4, 4)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Relax(context.Background(), m, tt.opt); err == nil {
				t.Errorf("Relax(...) error = nil, want non-nil")
			}
		})
	}
}

func TestRelax_InvalidInput(t *testing.T) {
	m := mustNewTorus(t, 4, 4)
	tests := []struct {
		name string
		opts []RelaxOption
		want error
	}{
		{"radius and angle", []RelaxOption{WithBoundaryRadius(1), WithBoundaryAngle(1)}, nil},
		{"puncture out of range", []RelaxOption{WithPuncture(16)}, dcel.ErrIndexOutRange},
		{"initial radii length", []RelaxOption{WithInitialRadii([]float64{1, 1})}, ErrInvalidRadii},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Relax(context.Background(), m, tt.opts...)
			if err == nil {
				t.Fatalf("Relax(...) error = nil, want non-nil")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("Relax(...) error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRelax_TorusUniform(t *testing.T) {
	m := mustNewTorus(t, 10, 10)
	res, err := Relax(context.Background(), m)
	if err != nil {
		t.Fatalf("Relax(torus) error = %v, want nil", err)
	}
	if !res.Converged || res.Iterations != 1 || res.Puncture != NoPuncture {
		t.Errorf("Relax(torus) = {converged %v, iterations %d, puncture %d}, want {true 1 %d}",
			res.Converged, res.Iterations, res.Puncture, NoPuncture)
	}
	want := make([]float64, m.NumVertices())
	for i := range want {
		want[i] = 1
	}
	if diff := cmp.Diff(want, res.Radii, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("Relax(torus) radii mismatch (-want +got):\n%s", diff)
	}
}

func TestRelax_TorusFromPerturbedRadii(t *testing.T) {
	m := mustNewTorus(t, 6, 6)
	//nolint:gosec
	random := rand.New(rand.NewSource(1))
	initial := make([]float64, m.NumVertices())
	for i := range initial {
		initial[i] = 0.5 + random.Float64()
	}

	res, err := Relax(context.Background(), m, WithInitialRadii(initial), WithTolerance(1e-8))
	if err != nil {
		t.Fatalf("Relax(torus, perturbed) error = %v, want nil", err)
	}
	for v := range m.NumVertices() {
		got, err := AngleSum(m, res.Radii, v)
		if err != nil {
			t.Fatalf("AngleSum(torus, %d) error = %v, want nil", v, err)
		}
		if math.Abs(got-2*math.Pi) > 1e-6 {
			t.Errorf("AngleSum(torus, %d) = %v, want 2pi", v, got)
		}
	}
	// The regular torus packs with equal circles only.
	for v, r := range res.Radii {
		if math.Abs(r-1) > 1e-3 {
			t.Errorf("Relax(torus, perturbed) radius %d = %v, want 1", v, r)
		}
	}
}

func TestRelax_CylinderFlatBoundary(t *testing.T) {
	m, err := dcel.NewCylinder(8, 5, 1, 2)
	if err != nil {
		t.Fatalf("NewCylinder(8, 5, 1, 2) error = %v, want nil", err)
	}
	res, err := Relax(context.Background(), m)
	if err != nil {
		t.Fatalf("Relax(cylinder) error = %v, want nil", err)
	}
	for v := range m.Vertices() {
		want := 2 * math.Pi
		if v.IsBoundary() {
			want = math.Pi
		}
		got, _ := AngleSum(m, res.Radii, v.Index())
		if math.Abs(got-want) > 1e-6 {
			t.Errorf("AngleSum(cylinder, %d) = %v, want %v", v.Index(), got, want)
		}
	}
}

func TestRelax_FlowerBoundaryRadius(t *testing.T) {
	for _, petals := range []int{3, 5, 8} {
		t.Run(fmt.Sprintf("petals %d", petals), func(t *testing.T) {
			m := mustNewFlower(t, petals)
			res, err := Relax(context.Background(), m, WithBoundaryRadius(1))
			if err != nil {
				t.Fatalf("Relax(flower) error = %v, want nil", err)
			}
			want := 1/math.Sin(math.Pi/float64(petals)) - 1
			if math.Abs(res.Radii[0]-want) > 1e-9 {
				t.Errorf("Relax(flower) center radius = %v, want %v", res.Radii[0], want)
			}
			for v := 1; v <= petals; v++ {
				if res.Radii[v] != 1 {
					t.Errorf("Relax(flower) petal %d radius = %v, want 1", v, res.Radii[v])
				}
			}
		})
	}
}

func TestRelax_SpherePunctured(t *testing.T) {
	m, err := dcel.NewSphere(utils.GenerateFibonacciPoints(40))
	if err != nil {
		t.Fatalf("NewSphere(...) error = %v, want nil", err)
	}
	res, err := Relax(context.Background(), m, WithTolerance(1e-6), WithMaxIterations(20000))
	if err != nil && !errors.Is(err, ErrNotConverged) {
		t.Fatalf("Relax(sphere) error = %v, want nil or %v", err, ErrNotConverged)
	}
	if res.Puncture != 0 || res.Radii[0] != 0 {
		t.Errorf("Relax(sphere) puncture = %d with radius %v, want 0 with radius 0", res.Puncture, res.Radii[0])
	}
	for v, r := range res.Radii[1:] {
		if !(r > 0) || math.IsInf(r, 0) {
			t.Errorf("Relax(sphere) radius %d = %v, want positive", v+1, r)
		}
	}
}

func TestRelax_NotConverged(t *testing.T) {
	m := mustNewFlower(t, 5)
	res, err := Relax(context.Background(), m, WithBoundaryRadius(1), WithMaxIterations(1))
	if !errors.Is(err, ErrNotConverged) {
		t.Fatalf("Relax(..., WithMaxIterations(1)) error = %v, want %v", err, ErrNotConverged)
	}
	if res.Converged || res.Iterations != 1 || len(res.Radii) != m.NumVertices() {
		t.Errorf("Relax(..., WithMaxIterations(1)) = {converged %v, iterations %d, radii %d}, want {false 1 %d}",
			res.Converged, res.Iterations, len(res.Radii), m.NumVertices())
	}
}

func TestRelax_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Relax(ctx, mustNewTorus(t, 4, 4)); !errors.Is(err, context.Canceled) {
		t.Errorf("Relax(canceled) error = %v, want %v", err, context.Canceled)
	}
}

func TestRelax_Progress(t *testing.T) {
	m := mustNewFlower(t, 6)
	calls := 0
	progress := func(iter int, maxErr float64) {
		calls++
		if iter != calls {
			t.Errorf("progress iter = %d, want %d", iter, calls)
		}
	}
	res, err := Relax(context.Background(), m, WithBoundaryRadius(2), WithProgress(progress))
	if err != nil {
		t.Fatalf("Relax(...) error = %v, want nil", err)
	}
	if calls != res.Iterations {
		t.Errorf("progress called %d times, want %d", calls, res.Iterations)
	}
}

func TestAngleSum(t *testing.T) {
	m := mustNewFlower(t, 6)
	radii := []float64{1, 1, 1, 1, 1, 1, 1}
	tests := []struct {
		v    int
		want float64
	}{
		{0, 2 * math.Pi},
		{1, 2 * math.Pi / 3},
	}
	for _, tt := range tests {
		got, err := AngleSum(m, radii, tt.v)
		if err != nil {
			t.Fatalf("AngleSum(flower, %d) error = %v, want nil", tt.v, err)
		}
		if math.Abs(got-tt.want) > eps {
			t.Errorf("AngleSum(flower, %d) = %v, want %v", tt.v, got, tt.want)
		}
	}

	// A zero radius drops the faces around it.
	radii[1] = 0
	if got, _ := AngleSum(m, radii, 0); math.Abs(got-4*math.Pi/3) > eps {
		t.Errorf("AngleSum(flower, 0) with petal removed = %v, want 4pi/3", got)
	}

	if _, err := AngleSum(m, radii[:3], 0); !errors.Is(err, ErrInvalidRadii) {
		t.Errorf("AngleSum(short radii) error = %v, want %v", err, ErrInvalidRadii)
	}
	if _, err := AngleSum(m, radii, 7); !errors.Is(err, dcel.ErrIndexOutRange) {
		t.Errorf("AngleSum(..., 7) error = %v, want %v", err, dcel.ErrIndexOutRange)
	}
}

func BenchmarkRelax(b *testing.B) {
	sizes := []int{10, 30}
	for _, n := range sizes {
		b.Run(fmt.Sprintf("N%d", n), func(b *testing.B) {
			m, err := dcel.NewCylinder(n, n, 1, 2)
			if err != nil {
				b.Fatalf("NewCylinder(%d, %d, 1, 2) error = %v, want nil", n, n, err)
			}
			initial := make([]float64, m.NumVertices())
			for i := range initial {
				initial[i] = 1 + float64(i%3)/10
			}

			b.ReportAllocs()
			for b.Loop() {
				_, _ = Relax(context.Background(), m, WithInitialRadii(initial))
			}
		})
	}
}

// Helpers

func mustNewTorus(t *testing.T, nu, nv int) *dcel.Mesh {
	t.Helper()
	m, err := dcel.NewTorus(nu, nv, 1, 0.5)
	if err != nil {
		t.Fatalf("NewTorus(%d, %d, 1, 0.5) error = %v, want nil", nu, nv, err)
	}
	return m
}

// mustNewFlower returns a center vertex 0 surrounded by petals 1..n.
func mustNewFlower(t *testing.T, n int) *dcel.Mesh {
	t.Helper()
	pos := []r3.Vector{{}}
	tris := make([][3]int, 0, n)
	for i := range n {
		a := 2 * math.Pi * float64(i) / float64(n)
		pos = append(pos, r3.Vector{X: math.Cos(a), Y: math.Sin(a)})
		tris = append(tris, [3]int{0, i + 1, (i+1)%n + 1})
	}
	m, err := dcel.FromTriangles(pos, tris)
	if err != nil {
		t.Fatalf("FromTriangles(flower %d) error = %v, want nil", n, err)
	}
	return m
}

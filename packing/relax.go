// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package packing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/2dChan/bubblewrap/dcel"
)

const (
	defaultTolerance     = 1e-7
	defaultMaxIterations = 5000

	// NoPuncture disables puncturing.
	NoPuncture = -1

	clampEps = 1e-12
)

var (
	ErrNotConverged        = errors.New("packing: relaxation did not converge")
	ErrUnsupportedTopology = errors.New("packing: unsupported topology")
	ErrInvalidRadii        = errors.New("packing: invalid radii")
)

type RelaxOptions struct {
	Tolerance     float64
	MaxIterations int
	// Fixed radius for boundary vertices. Zero selects angle targets.
	BoundaryRadius float64
	// Angle sum target for boundary vertices. Zero selects the flat
	// default given by Gauss-Bonnet.
	BoundaryAngle float64
	// Vertex removed from closed surfaces of positive Euler
	// characteristic. NoPuncture picks vertex 0 when one is needed.
	Puncture     int
	InitialRadii []float64
	Progress     func(iter int, maxErr float64)
}

type RelaxOption func(*RelaxOptions) error

func WithTolerance(tol float64) RelaxOption {
	return func(o *RelaxOptions) error {
		if tol <= 0 {
			return errors.New("WithTolerance: tolerance must be positive")
		}
		o.Tolerance = tol
		return nil
	}
}

func WithMaxIterations(n int) RelaxOption {
	return func(o *RelaxOptions) error {
		if n <= 0 {
			return errors.New("WithMaxIterations: iterations must be positive")
		}
		o.MaxIterations = n
		return nil
	}
}

func WithBoundaryRadius(r float64) RelaxOption {
	return func(o *RelaxOptions) error {
		if r <= 0 {
			return errors.New("WithBoundaryRadius: radius must be positive")
		}
		o.BoundaryRadius = r
		return nil
	}
}

func WithBoundaryAngle(theta float64) RelaxOption {
	return func(o *RelaxOptions) error {
		if theta <= 0 || theta > 2*math.Pi {
			return errors.New("WithBoundaryAngle: angle must be in (0, 2pi]")
		}
		o.BoundaryAngle = theta
		return nil
	}
}

func WithPuncture(v int) RelaxOption {
	return func(o *RelaxOptions) error {
		if v < 0 {
			return errors.New("WithPuncture: vertex must be non-negative")
		}
		o.Puncture = v
		return nil
	}
}

func WithInitialRadii(radii []float64) RelaxOption {
	return func(o *RelaxOptions) error {
		for i, r := range radii {
			if !(r > 0) || math.IsInf(r, 0) {
				return fmt.Errorf("WithInitialRadii: radius %d is %v", i, r)
			}
		}
		o.InitialRadii = slices.Clone(radii)
		return nil
	}
}

func WithProgress(fn func(iter int, maxErr float64)) RelaxOption {
	return func(o *RelaxOptions) error {
		o.Progress = fn
		return nil
	}
}

// Result of Relax.
type Result struct {
	// Radii per vertex. The puncture, if any, has radius 0.
	Radii      []float64 `json:"radii"`
	Iterations int       `json:"iterations"`
	MaxError   float64   `json:"max_error"`
	Converged  bool      `json:"converged"`
	Puncture   int       `json:"puncture"`
}

// corner is the pair of neighbours closing one face angle at a vertex.
type corner struct {
	u, w int
}

type problem struct {
	corners   [][]corner
	target    []float64
	free      []bool
	scaleFree bool
}

// Relax computes circle radii whose angle sums meet their targets:
// 2*pi at interior vertices and the boundary condition at boundary vertices.
// It runs the Collins-Stephenson iteration until the largest angle error is
// below the tolerance. If the iteration limit is hit first, it returns the
// last radii along with ErrNotConverged.
func Relax(ctx context.Context, m *dcel.Mesh, setters ...RelaxOption) (Result, error) {
	opts := RelaxOptions{
		Tolerance:     defaultTolerance,
		MaxIterations: defaultMaxIterations,
		Puncture:      NoPuncture,
	}
	for _, set := range setters {
		if err := set(&opts); err != nil {
			return Result{}, err
		}
	}
	if opts.BoundaryRadius > 0 && opts.BoundaryAngle > 0 {
		return Result{}, errors.New("packing: boundary radius and boundary angle are mutually exclusive")
	}

	n := m.NumVertices()
	if n == 0 {
		return Result{}, dcel.ErrEmptyMesh
	}
	if opts.Puncture >= n {
		return Result{}, fmt.Errorf("packing: %w: puncture %d not in [0 %d)", dcel.ErrIndexOutRange, opts.Puncture, n)
	}
	if opts.InitialRadii != nil && len(opts.InitialRadii) != n {
		return Result{}, fmt.Errorf("%w: %d initial radii for %d vertices", ErrInvalidRadii, len(opts.InitialRadii), n)
	}

	chi := m.EulerCharacteristic()
	closed := m.NumBoundaryComponents() == 0
	if closed && opts.Puncture == NoPuncture {
		switch {
		case chi > 0:
			opts.Puncture = 0
		case chi < 0:
			return Result{}, fmt.Errorf("%w: closed surface of genus %d", ErrUnsupportedTopology, m.Genus())
		}
	}

	pr := newProblem(m, &opts)

	radii := make([]float64, n)
	for v := range radii {
		switch {
		case opts.InitialRadii != nil:
			radii[v] = opts.InitialRadii[v]
		case !pr.free[v] && opts.BoundaryRadius > 0:
			radii[v] = opts.BoundaryRadius
		default:
			radii[v] = 1
		}
	}
	if opts.Puncture != NoPuncture {
		radii[opts.Puncture] = 0
	}

	res := Result{Radii: radii, Puncture: opts.Puncture, MaxError: math.Inf(1)}
	for res.Iterations < opts.MaxIterations {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		maxErr := 0.0
		for v, free := range pr.free {
			if !free {
				continue
			}
			k := len(pr.corners[v])
			theta := cornerSum(radii, v, pr.corners[v])
			maxErr = math.Max(maxErr, math.Abs(theta-pr.target[v]))
			radii[v] = collinsStephenson(radii[v], theta, pr.target[v], k)
		}
		if pr.scaleFree {
			normalizeRadii(radii)
		}

		res.Iterations++
		res.MaxError = maxErr
		if opts.Progress != nil {
			opts.Progress(res.Iterations, maxErr)
		}
		if maxErr < opts.Tolerance {
			res.Converged = true
			return res, nil
		}
	}
	return res, fmt.Errorf("%w: max angle error %.3g after %d iterations",
		ErrNotConverged, res.MaxError, res.Iterations)
}

func newProblem(m *dcel.Mesh, opts *RelaxOptions) *problem {
	n := m.NumVertices()
	pr := &problem{
		corners:   make([][]corner, n),
		target:    make([]float64, n),
		free:      make([]bool, n),
		scaleFree: opts.BoundaryRadius == 0,
	}

	boundary := make([]bool, n)
	for v := range m.Vertices() {
		boundary[v.Index()] = v.IsBoundary()
	}
	for f := range m.NumFaces() {
		t := m.FaceVertices(f)
		if slices.Contains(t[:], opts.Puncture) {
			for _, v := range t {
				boundary[v] = true
			}
			continue
		}
		for j, v := range t {
			pr.corners[v] = append(pr.corners[v], corner{u: t[(j+1)%3], w: t[(j+2)%3]})
		}
	}

	// Discrete Gauss-Bonnet: the boundary of a flat surface turns by
	// 2*pi*chi in total.
	chi := m.EulerCharacteristic()
	if opts.Puncture != NoPuncture {
		chi--
	}
	nb := 0
	for v, b := range boundary {
		if b && v != opts.Puncture {
			nb++
		}
	}
	boundaryAngle := opts.BoundaryAngle
	if boundaryAngle == 0 && nb > 0 {
		boundaryAngle = math.Pi - 2*math.Pi*float64(chi)/float64(nb)
	}

	for v := range n {
		switch {
		case v == opts.Puncture || len(pr.corners[v]) == 0:
		case !boundary[v]:
			pr.free[v] = true
			pr.target[v] = 2 * math.Pi
		case opts.BoundaryRadius == 0:
			pr.free[v] = true
			pr.target[v] = boundaryAngle
		}
	}
	return pr
}

// AngleSum returns the sum of the face angles at v of the triangles formed
// by tangent circles with the given radii. Faces touching a vertex of
// non-positive radius are skipped.
func AngleSum(m *dcel.Mesh, radii []float64, v int) (float64, error) {
	vtx, err := m.Vertex(v)
	if err != nil {
		return 0, err
	}
	if len(radii) != m.NumVertices() {
		return 0, fmt.Errorf("%w: %d radii for %d vertices", ErrInvalidRadii, len(radii), m.NumVertices())
	}
	star, err := vtx.Edges()
	if err != nil {
		return 0, err
	}
	corners := make([]corner, 0, len(star))
	for _, e := range star {
		corners = append(corners, corner{u: e.Dst().Index(), w: e.Prev().Src().Index()})
	}
	return cornerSum(radii, v, corners), nil
}

func cornerSum(radii []float64, v int, corners []corner) float64 {
	r := radii[v]
	if r <= 0 {
		return 0
	}
	sum := 0.0
	for _, c := range corners {
		ru, rw := radii[c.u], radii[c.w]
		if ru <= 0 || rw <= 0 {
			continue
		}
		sum += 2 * math.Asin(math.Sqrt(ru*rw/((r+ru)*(r+rw))))
	}
	return sum
}

// collinsStephenson updates r so that k equal neighbours around a circle of
// angle sum theta would give the target angle sum.
func collinsStephenson(r, theta, target float64, k int) float64 {
	if k == 0 {
		return r
	}
	fk := float64(2 * k)
	beta := clamp(math.Sin(theta/fk), clampEps, 1-clampEps)
	delta := clamp(math.Sin(target/fk), clampEps, 1-clampEps)
	rhat := r * beta / (1 - beta)
	return rhat * (1 - delta) / delta
}

func clamp(x, lo, hi float64) float64 {
	return math.Min(math.Max(x, lo), hi)
}

// normalizeRadii scales the positive radii to geometric mean 1.
func normalizeRadii(radii []float64) {
	sum, cnt := 0.0, 0
	for _, r := range radii {
		if r > 0 {
			sum += math.Log(r)
			cnt++
		}
	}
	if cnt == 0 {
		return
	}
	k := math.Exp(-sum / float64(cnt))
	for i := range radii {
		radii[i] *= k
	}
}

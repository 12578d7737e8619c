// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package bubblewrap builds circle packings on discretized surfaces and
// holds the state of a packing scene: the surface mesh, its circles in the
// plane and the accumulated view transform.
package bubblewrap

import (
	"context"
	"errors"
	"iter"
	"time"

	"github.com/2dChan/bubblewrap/dcel"
	bwerrors "github.com/2dChan/bubblewrap/errors"
	"github.com/2dChan/bubblewrap/packing"
	"github.com/google/uuid"
)

const (
	SchemaName    = "cpj"
	SchemaVersion = "0.2"

	// TimestampLayout is UTC with microseconds and a literal Z.
	TimestampLayout = "2006-01-02T15:04:05.000000Z"
)

// Metadata identifies a saved scene.
type Metadata struct {
	SchemaVersion string `json:"schema_version"`
	Schema        string `json:"schema"`
	Timestamp     string `json:"timestamp"`
	ID            string `json:"id,omitempty"`
	Generator     string `json:"generator,omitempty"`
}

func NewMetadata(now time.Time, generator string) Metadata {
	return Metadata{
		SchemaVersion: SchemaVersion,
		Schema:        SchemaName,
		Timestamp:     now.UTC().Format(TimestampLayout),
		ID:            uuid.NewString(),
		Generator:     generator,
	}
}

// Scene owns everything a view of a packing needs. Renderers and the viewer
// read it; only its methods change it.
type Scene struct {
	Metadata Metadata
	Surface  SurfaceSpec
	Mesh     *dcel.Mesh
	// Nil until the circles are computed or loaded.
	Packing *packing.Packing
	// Composition of every view transform applied since the last layout.
	View      packing.Mobius
	DualGraph bool

	opts SceneOptions
}

// NewScene builds the surface described by spec with no circles.
func NewScene(spec SurfaceSpec, setters ...SceneOption) (*Scene, error) {
	opts, err := newSceneOptions(setters)
	if err != nil {
		return nil, bwerrors.Wrap(bwerrors.ErrCodeInvalidInput, err, "scene options")
	}
	s := &Scene{opts: opts}
	if err := s.Reset(spec); err != nil {
		return nil, err
	}
	return s, nil
}

// Restore assembles a scene from saved parts. p may be nil.
func Restore(meta Metadata, spec SurfaceSpec, m *dcel.Mesh, p *packing.Packing, view packing.Mobius,
	dualGraph bool, setters ...SceneOption,
) (*Scene, error) {
	opts, err := newSceneOptions(setters)
	if err != nil {
		return nil, bwerrors.Wrap(bwerrors.ErrCodeInvalidInput, err, "scene options")
	}
	if m == nil {
		return nil, bwerrors.New(bwerrors.ErrCodeInvalidMesh, "scene has no mesh")
	}
	if p != nil && p.Mesh() != m {
		return nil, bwerrors.New(bwerrors.ErrCodeInvalidInput, "packing belongs to another mesh")
	}
	if view == (packing.Mobius{}) {
		view = packing.Identity()
	}
	return &Scene{
		Metadata:  meta,
		Surface:   spec,
		Mesh:      m,
		Packing:   p,
		View:      view,
		DualGraph: dualGraph,
		opts:      opts,
	}, nil
}

// Reset rebuilds the surface, drops the circles and the view, and stamps
// fresh metadata.
func (s *Scene) Reset(spec SurfaceSpec) error {
	m, err := spec.Build()
	if err != nil {
		return err
	}
	s.Surface = spec
	s.Mesh = m
	s.Packing = nil
	s.View = packing.Identity()
	s.Metadata = NewMetadata(s.opts.Clock(), s.opts.Generator)
	return nil
}

// Relax computes the packing of the mesh, lays it out fitted to the unit
// frame and re-applies the current view. When the solver stops short of the
// tolerance the best packing found is kept and a NOT_CONVERGED error is
// returned with the result.
func (s *Scene) Relax(ctx context.Context, opts ...packing.RelaxOption) (packing.Result, error) {
	res, err := packing.Relax(ctx, s.Mesh, opts...)
	return res, s.ApplyResult(res, err)
}

// ApplyResult lays out the radii of a relaxation of s.Mesh run elsewhere,
// for example on a clone in the background. err is the error the solver
// returned with res; it is translated to a coded error.
func (s *Scene) ApplyResult(res packing.Result, err error) error {
	notConverged := errors.Is(err, packing.ErrNotConverged)
	switch {
	case err == nil || notConverged:
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		return bwerrors.Wrap(bwerrors.ErrCodeCanceled, err, "relaxation canceled")
	case errors.Is(err, packing.ErrUnsupportedTopology):
		return bwerrors.Wrap(bwerrors.ErrCodeUnsupported, err, "cannot pack this surface")
	default:
		return bwerrors.Wrap(bwerrors.ErrCodeInvalidInput, err, "relax")
	}

	if lerr := s.SetRadii(res.Radii); lerr != nil {
		return lerr
	}
	if notConverged {
		return bwerrors.Wrap(bwerrors.ErrCodeNotConverged, err, "packing did not converge")
	}
	return nil
}

// SetRadii lays out circles with the given radii, replacing the packing.
func (s *Scene) SetRadii(radii []float64) error {
	p, err := packing.Layout(s.Mesh, radii)
	if err != nil {
		return bwerrors.Wrap(bwerrors.ErrCodeInvalidInput, err, "layout")
	}
	p.Normalize()
	p.Transform(s.View)
	s.Packing = p
	s.Touch()
	return nil
}

// Transform applies t to every circle and composes it into the view.
func (s *Scene) Transform(t packing.Mobius) {
	if s.Packing != nil {
		s.Packing.Transform(t)
	}
	s.View = t.Mul(s.View).Normalize()
}

func (s *Scene) Pan(d Direction) {
	s.Transform(d.Mobius())
}

func (s *Scene) ZoomIn() {
	s.Transform(packing.ZoomIn)
}

func (s *Scene) ZoomOut() {
	s.Transform(packing.ZoomOut)
}

// Invert swaps zero and infinity.
func (s *Scene) Invert() {
	s.Transform(packing.Inversion())
}

// ResetView undoes every view transform.
func (s *Scene) ResetView() {
	if s.Packing != nil {
		s.Packing.Transform(s.View.Inverse())
	}
	s.View = packing.Identity()
}

// Animate splits t into frames equal steps to pass to Transform one by one.
// A map that cannot be interpolated is yielded whole.
func (s *Scene) Animate(t packing.Mobius, frames int) iter.Seq[packing.Mobius] {
	return func(yield func(packing.Mobius) bool) {
		step, ok := t.Interpolate(1 / float64(max(frames, 1)))
		if !ok || frames <= 1 {
			yield(t)
			return
		}
		for range frames {
			if !yield(step) {
				return
			}
		}
	}
}

func (s *Scene) SetDualGraph(on bool) {
	s.DualGraph = on
}

// Touch updates the metadata timestamp.
func (s *Scene) Touch() {
	s.Metadata.Timestamp = s.opts.Clock().UTC().Format(TimestampLayout)
}

func (s *Scene) HasPacking() bool {
	return s.Packing != nil && s.Packing.NumPlaced() > 0
}

// Circles yields the placed circles keyed by vertex.
func (s *Scene) Circles() iter.Seq2[int, packing.Circle] {
	if s.Packing == nil {
		return func(func(int, packing.Circle) bool) {}
	}
	return s.Packing.Circles()
}

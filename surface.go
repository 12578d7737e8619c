// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package bubblewrap

import (
	"strings"

	"github.com/2dChan/bubblewrap/dcel"
	bwerrors "github.com/2dChan/bubblewrap/errors"
	"github.com/2dChan/bubblewrap/utils"
)

// SurfaceKind names a surface the scene can be built on.
type SurfaceKind string

const (
	SurfaceCylinder SurfaceKind = "cylinder"
	SurfaceTorus    SurfaceKind = "torus"
	SurfaceSphere   SurfaceKind = "sphere"
	SurfaceGenus2   SurfaceKind = "genus2"
)

// SurfaceKinds lists the kinds in menu order.
var SurfaceKinds = []SurfaceKind{SurfaceCylinder, SurfaceTorus, SurfaceSphere, SurfaceGenus2}

// ParseSurfaceKind accepts a kind name case-insensitively, with or without
// spaces and dashes.
func ParseSurfaceKind(s string) (SurfaceKind, error) {
	norm := strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(s))
	switch norm {
	case "cylinder":
		return SurfaceCylinder, nil
	case "torus":
		return SurfaceTorus, nil
	case "sphere":
		return SurfaceSphere, nil
	case "genus2", "genus2surface":
		return SurfaceGenus2, nil
	}
	return "", bwerrors.New(bwerrors.ErrCodeInvalidSurface, "unknown surface %q", s)
}

// Title returns the menu label of the kind.
func (k SurfaceKind) Title() string {
	switch k {
	case SurfaceCylinder:
		return "Cylinder"
	case SurfaceTorus:
		return "Torus"
	case SurfaceSphere:
		return "Sphere"
	case SurfaceGenus2:
		return "Genus 2 Surface"
	}
	return string(k)
}

// SurfaceSpec holds everything needed to rebuild a surface mesh.
type SurfaceSpec struct {
	Kind SurfaceKind `json:"kind" toml:"kind"`
	NU   int         `json:"nu,omitempty" toml:"nu"`
	NV   int         `json:"nv,omitempty" toml:"nv"`

	// Cylinder
	Radius float64 `json:"radius,omitempty" toml:"radius"`
	Height float64 `json:"height,omitempty" toml:"height"`

	// Torus
	MajorRadius float64 `json:"major_radius,omitempty" toml:"major_radius"`
	MinorRadius float64 `json:"minor_radius,omitempty" toml:"minor_radius"`

	// Sphere
	Points    int   `json:"points,omitempty" toml:"points"`
	Seed      int64 `json:"seed,omitempty" toml:"seed"`
	Fibonacci bool  `json:"fibonacci,omitempty" toml:"fibonacci"`
}

// DefaultSurfaceSpec returns the parameters the "New" action uses for kind.
func DefaultSurfaceSpec(kind SurfaceKind) SurfaceSpec {
	switch kind {
	case SurfaceCylinder:
		return SurfaceSpec{Kind: kind, NU: 10, NV: 10, Radius: 1, Height: 2}
	case SurfaceTorus:
		return SurfaceSpec{Kind: kind, NU: 10, NV: 10, MajorRadius: 1, MinorRadius: 0.5}
	case SurfaceSphere:
		return SurfaceSpec{Kind: kind, Points: 100, Fibonacci: true}
	}
	return SurfaceSpec{Kind: kind}
}

// StartupSurfaceSpec returns the small torus a fresh scene opens with.
func StartupSurfaceSpec() SurfaceSpec {
	return SurfaceSpec{Kind: SurfaceTorus, NU: 4, NV: 4, MajorRadius: 1, MinorRadius: 0.5}
}

// Build constructs the mesh described by s.
func (s SurfaceSpec) Build() (*dcel.Mesh, error) {
	var (
		m   *dcel.Mesh
		err error
	)
	switch s.Kind {
	case SurfaceCylinder:
		m, err = dcel.NewCylinder(s.NU, s.NV, s.Radius, s.Height)
	case SurfaceTorus:
		m, err = dcel.NewTorus(s.NU, s.NV, s.MajorRadius, s.MinorRadius)
	case SurfaceSphere:
		pts := utils.GenerateRandomPoints(s.Points, s.Seed)
		if s.Fibonacci {
			pts = utils.GenerateFibonacciPoints(s.Points)
		}
		m, err = dcel.NewSphere(pts)
	case SurfaceGenus2:
		return nil, bwerrors.New(bwerrors.ErrCodeUnsupported, "currently unable to create a genus 2 surface")
	default:
		return nil, bwerrors.New(bwerrors.ErrCodeInvalidSurface, "unknown surface %q", s.Kind)
	}
	if err != nil {
		return nil, bwerrors.Wrap(bwerrors.ErrCodeInvalidSurface, err, "build %s", s.Kind)
	}
	return m, nil
}

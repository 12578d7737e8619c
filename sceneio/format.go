// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package sceneio reads and writes scenes as cpj JSON files.
//
// A file holds the scene metadata, the surface parameters, the mesh as
// vertex positions and triangles, the packing radii and placed circles,
// the view transform and the dual graph switch:
//
//	{
//	  "metadata": {"schema_version": "0.2", "schema": "cpj", "timestamp": "..."},
//	  "surface": {"kind": "torus", "nu": 4, "nv": 4, ...},
//	  "mesh": {"vertices": [[x, y, z], ...], "faces": [[0, 1, 5], ...]},
//	  "packing": {
//	    "radii": [0.5, ...],
//	    "circles": [{"vertex": 0, "center": [0, 0], "radius": 0.5},
//	                {"vertex": 3, "base": [0, 1.2], "angle": 0.3}]
//	  },
//	  "view": [[1, 0], [0, 0], [0, 0], [1, 0]],
//	  "dual_graph": false
//	}
//
// Complex numbers are written as [re, im] pairs; a circle with a base
// instead of a center is a line.
package sceneio

import (
	"github.com/2dChan/bubblewrap"
)

// SupportedVersions lists the schema versions ReadJSON accepts.
var SupportedVersions = []string{"0.1", bubblewrap.SchemaVersion}

type pair [2]float64

func toPair(z complex128) pair {
	return pair{real(z), imag(z)}
}

func (p pair) complex() complex128 {
	return complex(p[0], p[1])
}

type file struct {
	Metadata  bubblewrap.Metadata     `json:"metadata"`
	Surface   *bubblewrap.SurfaceSpec `json:"surface,omitempty"`
	Mesh      meshData                `json:"mesh"`
	Packing   *packingData            `json:"packing,omitempty"`
	View      *[4]pair                `json:"view,omitempty"`
	DualGraph bool                    `json:"dual_graph"`
}

type meshData struct {
	Vertices [][3]float64 `json:"vertices"`
	Faces    [][3]int     `json:"faces"`
}

type packingData struct {
	Radii   []float64    `json:"radii"`
	Circles []circleData `json:"circles"`
}

type circleData struct {
	Vertex int     `json:"vertex"`
	Center *pair   `json:"center,omitempty"`
	Radius float64 `json:"radius,omitempty"`
	Base   *pair   `json:"base,omitempty"`
	Angle  float64 `json:"angle,omitempty"`
}

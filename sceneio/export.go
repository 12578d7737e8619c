// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package sceneio

import (
	"encoding/json"
	"io"
	"os"

	"github.com/2dChan/bubblewrap"
	bwerrors "github.com/2dChan/bubblewrap/errors"
)

// WriteJSON encodes s as a cpj document and writes it to w. The metadata is
// written at the current schema version.
func WriteJSON(s *bubblewrap.Scene, w io.Writer) error {
	out := file{
		Metadata:  s.Metadata,
		Mesh:      encodeMesh(s),
		DualGraph: s.DualGraph,
	}
	out.Metadata.Schema = bubblewrap.SchemaName
	out.Metadata.SchemaVersion = bubblewrap.SchemaVersion
	if s.Surface.Kind != "" {
		spec := s.Surface
		out.Surface = &spec
	}
	if s.Packing != nil {
		out.Packing = encodePacking(s)
	}
	view := [4]pair{toPair(s.View[0][0]), toPair(s.View[0][1]), toPair(s.View[1][0]), toPair(s.View[1][1])}
	out.View = &view

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return bwerrors.Wrap(bwerrors.ErrCodeInternal, err, "encode scene")
	}
	return nil
}

// ExportJSON writes s to a cpj file at path.
func ExportJSON(s *bubblewrap.Scene, path string) (err error) {
	if err := bwerrors.ValidateScenePath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return bwerrors.Wrap(bwerrors.ErrCodeInvalidPath, err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = bwerrors.Wrap(bwerrors.ErrCodeInternal, cerr, "close %s", path)
		}
	}()
	return WriteJSON(s, f)
}

func encodeMesh(s *bubblewrap.Scene) meshData {
	m := s.Mesh
	md := meshData{
		Vertices: make([][3]float64, m.NumVertices()),
		Faces:    m.Triangles(),
	}
	for i, p := range m.Positions {
		md.Vertices[i] = [3]float64{p.X, p.Y, p.Z}
	}
	return md
}

func encodePacking(s *bubblewrap.Scene) *packingData {
	pd := &packingData{
		Radii:   s.Packing.Radii,
		Circles: make([]circleData, 0, s.Packing.NumPlaced()),
	}
	for v, c := range s.Packing.Circles() {
		cd := circleData{Vertex: v}
		if c.ContainsInfinity() {
			base := toPair(c.Base)
			cd.Base, cd.Angle = &base, c.Angle
		} else {
			center := toPair(c.Center)
			cd.Center, cd.Radius = &center, c.Radius
		}
		pd.Circles = append(pd.Circles, cd)
	}
	return pd
}

// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package sceneio

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"math"
	"os"
	"slices"
	"time"

	"github.com/2dChan/bubblewrap"
	"github.com/2dChan/bubblewrap/dcel"
	bwerrors "github.com/2dChan/bubblewrap/errors"
	"github.com/2dChan/bubblewrap/packing"
	"github.com/golang/geo/r3"
)

// ReadJSON decodes a cpj document from r into a scene.
//
// ReadJSON returns a coded error if:
//   - the JSON is malformed (INVALID_FORMAT)
//   - the schema is not cpj or its version is unknown (INVALID_SCHEMA)
//   - the mesh is not a valid triangulation (INVALID_MESH)
//   - the radii or circles do not match the mesh (INVALID_FORMAT)
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader, opts ...bubblewrap.SceneOption) (*bubblewrap.Scene, error) {
	var data file
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, bwerrors.Wrap(bwerrors.ErrCodeInvalidFormat, err, "decode scene")
	}
	if err := checkMetadata(data.Metadata); err != nil {
		return nil, err
	}

	m, err := decodeMesh(data.Mesh)
	if err != nil {
		return nil, err
	}

	var p *packing.Packing
	if data.Packing != nil {
		if p, err = decodePacking(m, *data.Packing); err != nil {
			return nil, err
		}
	}

	view := packing.Identity()
	if data.View != nil {
		v := data.View
		view = packing.Mobius{{v[0].complex(), v[1].complex()}, {v[2].complex(), v[3].complex()}}
		if view.Det() == 0 {
			return nil, bwerrors.New(bwerrors.ErrCodeInvalidFormat, "view transform is singular")
		}
	}

	var spec bubblewrap.SurfaceSpec
	if data.Surface != nil {
		spec = *data.Surface
	}
	return bubblewrap.Restore(data.Metadata, spec, m, p, view, data.DualGraph, opts...)
}

// ImportJSON reads the cpj file at path.
func ImportJSON(path string, opts ...bubblewrap.SceneOption) (*bubblewrap.Scene, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, bwerrors.Wrap(bwerrors.ErrCodeFileNotFound, err, "scene file %s not found", path)
	}
	if err != nil {
		return nil, bwerrors.Wrap(bwerrors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f, opts...)
}

func checkMetadata(md bubblewrap.Metadata) error {
	if md.Schema != bubblewrap.SchemaName {
		return bwerrors.New(bwerrors.ErrCodeInvalidSchema, "schema %q is not %q", md.Schema, bubblewrap.SchemaName)
	}
	if !slices.Contains(SupportedVersions, md.SchemaVersion) {
		return bwerrors.New(bwerrors.ErrCodeInvalidSchema, "unsupported schema version %q", md.SchemaVersion)
	}
	if md.Timestamp == "" {
		return nil
	}
	if _, err := time.Parse(bubblewrap.TimestampLayout, md.Timestamp); err == nil {
		return nil
	}
	if _, err := time.Parse(time.RFC3339Nano, md.Timestamp); err != nil {
		return bwerrors.Wrap(bwerrors.ErrCodeInvalidFormat, err, "timestamp %q", md.Timestamp)
	}
	return nil
}

func decodeMesh(md meshData) (*dcel.Mesh, error) {
	pos := make([]r3.Vector, len(md.Vertices))
	for i, v := range md.Vertices {
		pos[i] = r3.Vector{X: v[0], Y: v[1], Z: v[2]}
	}
	m, err := dcel.FromTriangles(pos, md.Faces)
	if err != nil {
		return nil, bwerrors.Wrap(bwerrors.ErrCodeInvalidMesh, err, "mesh")
	}
	return m, nil
}

func decodePacking(m *dcel.Mesh, pd packingData) (*packing.Packing, error) {
	n := m.NumVertices()
	if len(pd.Radii) != n {
		return nil, bwerrors.New(bwerrors.ErrCodeInvalidFormat, "%d radii for %d vertices", len(pd.Radii), n)
	}
	if len(pd.Circles) > n {
		return nil, bwerrors.New(bwerrors.ErrCodeInvalidFormat, "%d circles for %d vertices", len(pd.Circles), n)
	}

	p := packing.New(m)
	copy(p.Radii, pd.Radii)
	for i, cd := range pd.Circles {
		if cd.Vertex < 0 || cd.Vertex >= n {
			return nil, bwerrors.New(bwerrors.ErrCodeInvalidFormat, "circle %d: vertex %d out of range", i, cd.Vertex)
		}
		if p.Placed(cd.Vertex) {
			return nil, bwerrors.New(bwerrors.ErrCodeInvalidFormat, "circle %d: vertex %d has two circles", i, cd.Vertex)
		}
		c, err := decodeCircle(cd)
		if err != nil {
			return nil, bwerrors.Wrap(bwerrors.ErrCodeInvalidFormat, err, "circle %d", i)
		}
		p.SetCircle(cd.Vertex, c)
	}
	return p, nil
}

var errBadCircle = errors.New("circle needs either a center and a positive radius or a base")

func decodeCircle(cd circleData) (packing.Circle, error) {
	switch {
	case cd.Center != nil && cd.Base == nil:
		if !(cd.Radius > 0) || math.IsInf(cd.Radius, 0) {
			return packing.Circle{}, errBadCircle
		}
		return packing.NewCircle(cd.Center.complex(), cd.Radius), nil
	case cd.Base != nil && cd.Center == nil:
		return packing.NewLine(cd.Base.complex(), cd.Angle), nil
	}
	return packing.Circle{}, errBadCircle
}

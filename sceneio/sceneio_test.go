// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package sceneio

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/2dChan/bubblewrap"
	bwerrors "github.com/2dChan/bubblewrap/errors"
	"github.com/2dChan/bubblewrap/packing"
	"github.com/google/go-cmp/cmp"
)

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		spec bubblewrap.SurfaceSpec
		view func(*bubblewrap.Scene)
	}{
		{"torus", bubblewrap.StartupSurfaceSpec(), func(*bubblewrap.Scene) {}},
		{"cylinder zoomed", bubblewrap.DefaultSurfaceSpec(bubblewrap.SurfaceCylinder), func(s *bubblewrap.Scene) {
			s.ZoomIn()
			s.Pan(bubblewrap.DirLeft)
		}},
		{"sphere inverted", bubblewrap.SurfaceSpec{Kind: bubblewrap.SurfaceSphere, Points: 20, Fibonacci: true}, func(s *bubblewrap.Scene) {
			s.Pan(bubblewrap.DirUp)
			s.Invert()
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustRelaxedScene(t, tt.spec)
			tt.view(s)
			s.SetDualGraph(true)

			var buf bytes.Buffer
			if err := WriteJSON(s, &buf); err != nil {
				t.Fatalf("WriteJSON() error = %v, want nil", err)
			}
			got, err := ReadJSON(&buf)
			if err != nil {
				t.Fatalf("ReadJSON() error = %v, want nil", err)
			}

			if diff := cmp.Diff(s.Metadata, got.Metadata); diff != "" {
				t.Errorf("Metadata mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(s.Surface, got.Surface); diff != "" {
				t.Errorf("Surface mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(s.Mesh.Triangles(), got.Mesh.Triangles()); diff != "" {
				t.Errorf("mesh faces mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(s.Packing.Radii, got.Packing.Radii); diff != "" {
				t.Errorf("radii mismatch (-want +got):\n%s", diff)
			}
			if got.View != s.View || !got.DualGraph {
				t.Errorf("view = %v dual = %v, want %v true", got.View, got.DualGraph, s.View)
			}
			if got.Packing.NumPlaced() != s.Packing.NumPlaced() {
				t.Fatalf("NumPlaced() = %d, want %d", got.Packing.NumPlaced(), s.Packing.NumPlaced())
			}
			for v, want := range s.Circles() {
				c, ok := got.Packing.Circle(v)
				if !ok || !c.ApproxEqual(want, 1e-9) {
					t.Errorf("circle %d = %v, want %v", v, c, want)
				}
			}
		})
	}
}

func TestWriteJSON_NoPacking(t *testing.T) {
	s, err := bubblewrap.NewScene(bubblewrap.StartupSurfaceSpec())
	if err != nil {
		t.Fatalf("NewScene() error = %v, want nil", err)
	}
	var buf bytes.Buffer
	if err := WriteJSON(s, &buf); err != nil {
		t.Fatalf("WriteJSON() error = %v, want nil", err)
	}
	if strings.Contains(buf.String(), `"packing"`) {
		t.Errorf("WriteJSON() wrote a packing for a scene without circles")
	}
	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON() error = %v, want nil", err)
	}
	if got.HasPacking() {
		t.Errorf("ReadJSON().HasPacking() = true, want false")
	}
}

func TestReadJSON_Errors(t *testing.T) {
	valid := func() map[string]any {
		return map[string]any{
			"metadata": map[string]any{"schema_version": "0.1", "schema": "cpj", "timestamp": "2024-01-02T03:04:05.000006Z"},
			"mesh": map[string]any{
				"vertices": [][3]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
				"faces":    [][3]int{{0, 1, 2}},
			},
			"packing": map[string]any{
				"radii":   []float64{0.5, 0.5, 0.5},
				"circles": []map[string]any{{"vertex": 0, "center": []float64{0, 0}, "radius": 0.5}},
			},
		}
	}
	tests := []struct {
		name   string
		mutate func(map[string]any)
		want   bwerrors.Code
	}{
		{"valid 0.1", func(map[string]any) {}, ""},
		{"wrong schema", func(d map[string]any) { d["metadata"].(map[string]any)["schema"] = "svg" }, bwerrors.ErrCodeInvalidSchema},
		{"future version", func(d map[string]any) { d["metadata"].(map[string]any)["schema_version"] = "9.0" }, bwerrors.ErrCodeInvalidSchema},
		{"bad timestamp", func(d map[string]any) { d["metadata"].(map[string]any)["timestamp"] = "yesterday" }, bwerrors.ErrCodeInvalidFormat},
		{"degenerate face", func(d map[string]any) { d["mesh"].(map[string]any)["faces"] = [][3]int{{0, 1, 1}} }, bwerrors.ErrCodeInvalidMesh},
		{"face out of range", func(d map[string]any) { d["mesh"].(map[string]any)["faces"] = [][3]int{{0, 1, 7}} }, bwerrors.ErrCodeInvalidMesh},
		{"short radii", func(d map[string]any) { d["packing"].(map[string]any)["radii"] = []float64{1} }, bwerrors.ErrCodeInvalidFormat},
		{"circle vertex out of range", func(d map[string]any) {
			d["packing"].(map[string]any)["circles"] = []map[string]any{{"vertex": 5, "center": []float64{0, 0}, "radius": 1}}
		}, bwerrors.ErrCodeInvalidFormat},
		{"two circles on a vertex", func(d map[string]any) {
			c := map[string]any{"vertex": 1, "center": []float64{0, 0}, "radius": 1}
			d["packing"].(map[string]any)["circles"] = []map[string]any{c, c}
		}, bwerrors.ErrCodeInvalidFormat},
		{"zero radius", func(d map[string]any) {
			d["packing"].(map[string]any)["circles"] = []map[string]any{{"vertex": 1, "center": []float64{0, 0}}}
		}, bwerrors.ErrCodeInvalidFormat},
		{"center and base", func(d map[string]any) {
			d["packing"].(map[string]any)["circles"] = []map[string]any{{"vertex": 1, "center": []float64{0, 0}, "radius": 1, "base": []float64{1, 0}}}
		}, bwerrors.ErrCodeInvalidFormat},
		{"singular view", func(d map[string]any) { d["view"] = [4][2]float64{{1, 0}, {1, 0}, {1, 0}, {1, 0}} }, bwerrors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid()
			tt.mutate(d)
			raw, err := json.Marshal(d)
			if err != nil {
				t.Fatalf("json.Marshal() error = %v", err)
			}
			s, err := ReadJSON(bytes.NewReader(raw))
			if tt.want == "" {
				if err != nil {
					t.Fatalf("ReadJSON() error = %v, want nil", err)
				}
				if s.View != packing.Identity() || s.Packing.NumPlaced() != 1 {
					t.Errorf("ReadJSON() view = %v placed = %d, want identity and 1", s.View, s.Packing.NumPlaced())
				}
				return
			}
			if !bwerrors.Is(err, tt.want) {
				t.Errorf("ReadJSON() error = %v, want code %s", err, tt.want)
			}
		})
	}

	if _, err := ReadJSON(strings.NewReader("{not json")); !bwerrors.Is(err, bwerrors.ErrCodeInvalidFormat) {
		t.Errorf("ReadJSON(garbage) error = %v, want INVALID_FORMAT", err)
	}
}

func TestExportImportJSON(t *testing.T) {
	dir := t.TempDir()
	s := mustRelaxedScene(t, bubblewrap.StartupSurfaceSpec())

	path := filepath.Join(dir, "scene.cpj")
	if err := ExportJSON(s, path); err != nil {
		t.Fatalf("ExportJSON(%q) error = %v, want nil", path, err)
	}
	got, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON(%q) error = %v, want nil", path, err)
	}
	if got.Metadata.ID != s.Metadata.ID || got.Packing.NumPlaced() != s.Packing.NumPlaced() {
		t.Errorf("ImportJSON() = id %q placed %d, want %q %d",
			got.Metadata.ID, got.Packing.NumPlaced(), s.Metadata.ID, s.Packing.NumPlaced())
	}

	if _, err := ImportJSON(filepath.Join(dir, "missing.cpj")); !bwerrors.Is(err, bwerrors.ErrCodeFileNotFound) {
		t.Errorf("ImportJSON(missing) error = %v, want FILE_NOT_FOUND", err)
	}
	if err := ExportJSON(s, filepath.Join(dir, "scene.png")); !bwerrors.Is(err, bwerrors.ErrCodeInvalidPath) {
		t.Errorf("ExportJSON(.png) error = %v, want INVALID_PATH", err)
	}

	bad := filepath.Join(dir, "bad.cpj")
	if err := os.WriteFile(bad, []byte(`{"metadata": {"schema": "cpj", "schema_version": "0.3"}}`), 0o644); err != nil {
		t.Fatalf("os.WriteFile() error = %v", err)
	}
	if _, err := ImportJSON(bad); !bwerrors.Is(err, bwerrors.ErrCodeInvalidSchema) {
		t.Errorf("ImportJSON(0.3) error = %v, want INVALID_SCHEMA", err)
	}
}

func mustRelaxedScene(t *testing.T, spec bubblewrap.SurfaceSpec) *bubblewrap.Scene {
	t.Helper()
	s, err := bubblewrap.NewScene(spec)
	if err != nil {
		t.Fatalf("NewScene(%v) error = %v, want nil", spec.Kind, err)
	}
	if _, err := s.Relax(context.Background(), packing.WithTolerance(1e-5)); err != nil && !bwerrors.Is(err, bwerrors.ErrCodeNotConverged) {
		t.Fatalf("s.Relax() error = %v, want nil", err)
	}
	return s
}

// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/2dChan/bubblewrap/dcel"
	"github.com/2dChan/bubblewrap/packing"
)

// RelaxKeyOpts are the solver settings that change the relaxed radii.
type RelaxKeyOpts struct {
	Tolerance      float64 `json:"tolerance"`
	MaxIterations  int     `json:"max_iterations"`
	BoundaryRadius float64 `json:"boundary_radius,omitempty"`
	BoundaryAngle  float64 `json:"boundary_angle,omitempty"`
	Puncture       int     `json:"puncture"`
}

// RadiiKey identifies the radii of m under opts. Radii depend only on the
// combinatorics, so vertex positions are left out.
func RadiiKey(m *dcel.Mesh, opts RelaxKeyOpts) string {
	return hashKey("radii", m.Triangles(), opts)
}

// GetResult loads a converged relaxation stored under key.
func GetResult(ctx context.Context, c Cache, key string) (packing.Result, bool, error) {
	data, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return packing.Result{}, false, err
	}
	var res packing.Result
	if err := json.Unmarshal(data, &res); err != nil {
		_ = c.Delete(ctx, key)
		return packing.Result{}, false, nil
	}
	return res, true, nil
}

// SetResult stores res under key. Unconverged results are not stored.
func SetResult(ctx context.Context, c Cache, key string, res packing.Result, ttl time.Duration) error {
	if !res.Converged {
		return nil
	}
	data, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, ttl)
}

// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/2dChan/bubblewrap"
	"github.com/2dChan/bubblewrap/dcel"
	bwerrors "github.com/2dChan/bubblewrap/errors"
	"github.com/2dChan/bubblewrap/internal/cache"
	"github.com/2dChan/bubblewrap/packing"
	"github.com/2dChan/bubblewrap/sceneio"
)

// progressEvery is how many solver iterations pass between debug lines.
const progressEvery = 100

// relaxOpts holds the flags of the relax command.
type relaxOpts struct {
	output  string
	noCache bool
	relax   RelaxConfig
}

func newRelaxCmd() *cobra.Command {
	var opts relaxOpts

	cmd := &cobra.Command{
		Use:   "relax [scene]",
		Short: "Compute the circle packing of a scene",
		Long: `Compute the circle packing of a scene and lay it out in the plane.

The current view transform is re-applied to the new circles. Converged
radii are cached by surface combinatorics and solver settings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromContext(cmd.Context())
			rc := cfg.Relax
			f := cmd.Flags()
			if f.Changed("tolerance") {
				rc.Tolerance = opts.relax.Tolerance
			}
			if f.Changed("max-iter") {
				rc.MaxIterations = opts.relax.MaxIterations
			}
			if f.Changed("boundary-radius") {
				rc.BoundaryRadius = opts.relax.BoundaryRadius
			}
			if f.Changed("boundary-angle") {
				rc.BoundaryAngle = opts.relax.BoundaryAngle
			}
			if rc.Tolerance <= 0 || rc.MaxIterations <= 0 {
				return bwerrors.New(bwerrors.ErrCodeInvalidInput, "tolerance and max-iter must be positive")
			}
			opts.relax = rc
			return runRelax(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output scene file (default: overwrite the input)")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the radii cache")
	f.Float64Var(&opts.relax.Tolerance, "tolerance", 0, "stop when every angle sum is this close to its target")
	f.IntVar(&opts.relax.MaxIterations, "max-iter", 0, "iteration limit")
	f.Float64Var(&opts.relax.BoundaryRadius, "boundary-radius", 0, "fix boundary radii to this value")
	f.Float64Var(&opts.relax.BoundaryAngle, "boundary-angle", 0, "boundary angle sum target in degrees")

	return cmd
}

func runRelax(cmd *cobra.Command, path string, opts relaxOpts) error {
	s, err := loadScene(path)
	if err != nil {
		return err
	}
	relaxErr := relaxScene(cmd, s, opts.relax, opts.noCache)
	if relaxErr != nil && !bwerrors.Is(relaxErr, bwerrors.ErrCodeNotConverged) {
		return relaxErr
	}

	// An unconverged packing is still saved so it can be inspected.
	out := outputPath(path, opts.output)
	if err := sceneio.ExportJSON(s, out); err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	printSuccess(w, "Packed %d circles", s.Packing.NumPlaced())
	printFile(w, out)
	return relaxErr
}

// relaxScene packs s, using the radii cache when it holds a converged
// result for the same combinatorics and settings.
func relaxScene(cmd *cobra.Command, s *bubblewrap.Scene, rc RelaxConfig, noCache bool) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	w := cmd.OutOrStdout()

	c, ttl, err := openCache(configFromContext(ctx), noCache)
	if err != nil {
		return err
	}
	defer c.Close()

	prog := newProgress(logger)
	res, cached, err := cachedRelax(ctx, logger, c, ttl, rc, s.Mesh)
	err = s.ApplyResult(res, err)
	if err != nil && !bwerrors.Is(err, bwerrors.ErrCodeNotConverged) {
		return err
	}
	if !cached {
		prog.done("Relaxed " + pluralize(len(res.Radii), "radius", "radii"))
	}
	printRelaxStats(w, res.Iterations, res.MaxError, cached)
	if err != nil {
		logger.Warn("packing did not converge", "iterations", res.Iterations, "max_error", res.MaxError)
	}
	return err
}

// openCache opens the radii cache unless caching is off.
func openCache(cfg *Config, noCache bool) (cache.Cache, time.Duration, error) {
	ttl, err := cfg.Cache.ttl()
	if err != nil {
		return nil, 0, err
	}
	c, err := newCache(noCache || cfg.Cache.Disabled)
	if err != nil {
		return nil, 0, bwerrors.Wrap(bwerrors.ErrCodeInternal, err, "open cache")
	}
	return c, ttl, nil
}

// cachedRelax relaxes m, or returns the converged result cached for its
// combinatorics and rc. Fresh converged results are stored with ttl.
func cachedRelax(ctx context.Context, logger *log.Logger, c cache.Cache, ttl time.Duration,
	rc RelaxConfig, m *dcel.Mesh,
) (packing.Result, bool, error) {
	key := cache.RadiiKey(m, cache.RelaxKeyOpts{
		Tolerance:      rc.Tolerance,
		MaxIterations:  rc.MaxIterations,
		BoundaryRadius: rc.BoundaryRadius,
		BoundaryAngle:  rc.BoundaryAngle,
		Puncture:       packing.NoPuncture,
	})
	res, hit, err := cache.GetResult(ctx, c, key)
	if err != nil {
		logger.Warn("cache read failed", "error", err)
	}
	if hit && len(res.Radii) == m.NumVertices() {
		logger.Debug("radii from cache", "key", key)
		return res, true, nil
	}

	opts := append(rc.relaxOptions(), packing.WithProgress(func(iter int, maxErr float64) {
		if iter%progressEvery == 0 {
			logger.Debug("relaxing", "iteration", iter, "max_error", maxErr)
		}
	}))
	res, err = packing.Relax(ctx, m, opts...)
	if err != nil {
		return res, false, err
	}
	if err := cache.SetResult(ctx, c, key, res, ttl); err != nil {
		logger.Warn("cache write failed", "error", err)
	}
	return res, false, nil
}

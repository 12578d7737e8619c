// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/2dChan/bubblewrap"
	bwerrors "github.com/2dChan/bubblewrap/errors"
	"github.com/2dChan/bubblewrap/sceneio"
)

// newOpts holds the flags of the new command.
type newOpts struct {
	output string
	relax  bool
	spec   bubblewrap.SurfaceSpec
}

// newNewCmd creates a scene file for a surface. Parameters come from the
// [surface] section of the config when its kind matches, else from the
// surface defaults, and flags override either.
func newNewCmd() *cobra.Command {
	var opts newOpts

	kinds := make([]string, len(bubblewrap.SurfaceKinds))
	for i, k := range bubblewrap.SurfaceKinds {
		kinds[i] = string(k)
	}

	cmd := &cobra.Command{
		Use:   "new [kind]",
		Short: "Create a scene for a surface",
		Long: fmt.Sprintf(`Create a scene file for a triangulated surface.

Kinds: %s. Without a kind the configured surface is used.`, strings.Join(kinds, ", ")),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromContext(cmd.Context())
			spec, err := surfaceSpec(args, cfg.Surface)
			if err != nil {
				return err
			}
			opts.spec = applySurfaceFlags(cmd.Flags(), spec, opts.spec)
			if opts.output == "" {
				opts.output = string(opts.spec.Kind) + ".cpj"
			}
			return runNew(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output scene file (default <kind>.cpj)")
	f.BoolVar(&opts.relax, "relax", false, "compute the packing right away")
	f.IntVar(&opts.spec.NU, "nu", 0, "segments around the surface")
	f.IntVar(&opts.spec.NV, "nv", 0, "segments along the surface")
	f.Float64Var(&opts.spec.Radius, "radius", 0, "cylinder radius")
	f.Float64Var(&opts.spec.Height, "height", 0, "cylinder height")
	f.Float64Var(&opts.spec.MajorRadius, "major-radius", 0, "torus major radius")
	f.Float64Var(&opts.spec.MinorRadius, "minor-radius", 0, "torus minor radius")
	f.IntVar(&opts.spec.Points, "points", 0, "sphere point count")
	f.Int64Var(&opts.spec.Seed, "seed", 0, "seed for random sphere points")
	f.BoolVar(&opts.spec.Fibonacci, "fibonacci", false, "place sphere points on a Fibonacci lattice")

	return cmd
}

func surfaceSpec(args []string, configured bubblewrap.SurfaceSpec) (bubblewrap.SurfaceSpec, error) {
	if len(args) == 0 {
		return configured, nil
	}
	kind, err := bubblewrap.ParseSurfaceKind(args[0])
	if err != nil {
		return bubblewrap.SurfaceSpec{}, err
	}
	if kind == configured.Kind {
		return configured, nil
	}
	return bubblewrap.DefaultSurfaceSpec(kind), nil
}

// applySurfaceFlags copies the flags the user set from flagged into spec.
func applySurfaceFlags(fs *pflag.FlagSet, spec, flagged bubblewrap.SurfaceSpec) bubblewrap.SurfaceSpec {
	set := func(name string, apply func()) {
		if fs.Changed(name) {
			apply()
		}
	}
	set("nu", func() { spec.NU = flagged.NU })
	set("nv", func() { spec.NV = flagged.NV })
	set("radius", func() { spec.Radius = flagged.Radius })
	set("height", func() { spec.Height = flagged.Height })
	set("major-radius", func() { spec.MajorRadius = flagged.MajorRadius })
	set("minor-radius", func() { spec.MinorRadius = flagged.MinorRadius })
	set("points", func() { spec.Points = flagged.Points })
	set("seed", func() { spec.Seed = flagged.Seed })
	set("fibonacci", func() { spec.Fibonacci = flagged.Fibonacci })
	return spec
}

func runNew(cmd *cobra.Command, opts newOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	out := cmd.OutOrStdout()

	s, err := bubblewrap.NewScene(opts.spec, sceneOptions()...)
	if err != nil {
		return err
	}
	logger.Debug("surface built", "kind", opts.spec.Kind,
		"vertices", s.Mesh.NumVertices(), "faces", s.Mesh.NumFaces())

	var relaxErr error
	if opts.relax {
		cfg := configFromContext(ctx)
		relaxErr = relaxScene(cmd, s, cfg.Relax, false)
		// An unconverged packing is still saved so it can be inspected.
		if relaxErr != nil && !bwerrors.Is(relaxErr, bwerrors.ErrCodeNotConverged) {
			return relaxErr
		}
	}

	if err := sceneio.ExportJSON(s, opts.output); err != nil {
		return err
	}
	printSuccess(out, "Created %s", opts.spec.Kind.Title())
	printFile(out, opts.output)
	return relaxErr
}

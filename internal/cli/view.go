// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/2dChan/bubblewrap"
	"github.com/2dChan/bubblewrap/dcel"
	"github.com/2dChan/bubblewrap/internal/tui"
	"github.com/2dChan/bubblewrap/packing"
)

func newViewCmd() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "view [scene]",
		Short: "Open a scene in the terminal viewer",
		Long: `Open a scene in the terminal viewer, or a small torus without one.

Keys: arrows pan, + and - zoom, i inverts, 0 resets the view, d toggles
the dual graph, m the mesh view, r relaxes, n creates a surface, o opens
and s saves a scene, h toggles help and q quits. Hovering the mouse
highlights the nearest dual edge.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configFromContext(ctx)

			var (
				s    *bubblewrap.Scene
				path string
				err  error
			)
			if len(args) == 1 {
				path = args[0]
				s, err = loadScene(path)
			} else {
				s, err = bubblewrap.NewScene(bubblewrap.StartupSurfaceSpec(), sceneOptions()...)
			}
			if err != nil {
				return err
			}
			if cfg.View.DualGraph {
				s.SetDualGraph(true)
			}

			c, ttl, err := openCache(cfg, noCache)
			if err != nil {
				return err
			}
			defer c.Close()

			// The viewer owns the terminal; solver logs would tear it.
			quiet := log.New(io.Discard)
			opts := tui.Options{
				Path:   path,
				Frames: cfg.View.AnimationFrames,
				Render: cfg.Render.options(),
				Relax: func(ctx context.Context, m *dcel.Mesh) (packing.Result, error) {
					res, _, err := cachedRelax(ctx, quiet, c, ttl, cfg.Relax, m)
					return res, err
				},
				SceneOptions: sceneOptions(),
			}
			final, err := tui.Run(ctx, tui.New(s, opts))
			if err != nil {
				return err
			}
			loggerFromContext(ctx).Debug("viewer closed", "surface", final.Scene().Surface.Kind)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the radii cache")
	return cmd
}

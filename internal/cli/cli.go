// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package cli implements the bubblewrap command-line interface.
//
// Every command works on scene files (.cpj): new creates one, relax packs
// it, transform moves the view, render draws it and view opens it in the
// terminal viewer.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/2dChan/bubblewrap"
	bwerrors "github.com/2dChan/bubblewrap/errors"
	"github.com/2dChan/bubblewrap/internal/buildinfo"
	"github.com/2dChan/bubblewrap/internal/cache"
	"github.com/2dChan/bubblewrap/sceneio"
)

const appName = "bubblewrap"

// Execute runs the bubblewrap CLI.
//
// Logging goes to stderr at info level, or debug level with --verbose.
// The logger and the loaded configuration are attached to the command
// context.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	var (
		verbose    bool
		configFile string
	)

	root := &cobra.Command{
		Use:           appName,
		Short:         "Bubblewrap packs circles on triangulated surfaces",
		Long:          `Bubblewrap builds a triangulated surface, computes the circle packing of its combinatorics and lets you move, render and inspect the packing in the plane.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			logger := newLogger(cmd.ErrOrStderr(), level)

			explicit := configFile != ""
			path := configFile
			if !explicit {
				var err error
				if path, err = configPath(); err != nil {
					logger.Debug("no config directory", "error", err)
				}
			}
			cfg := DefaultConfig()
			if path != "" {
				var err error
				if cfg, err = loadConfig(path, explicit); err != nil {
					return err
				}
				logger.Debug("config", "path", path)
			}

			ctx := withLogger(cmd.Context(), logger)
			ctx = withConfig(ctx, &cfg)
			cmd.SetContext(ctx)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default $XDG_CONFIG_HOME/bubblewrap/config.toml)")

	root.AddCommand(newNewCmd())
	root.AddCommand(newRelaxCmd())
	root.AddCommand(newTransformCmd())
	root.AddCommand(newRenderCmd())
	root.AddCommand(newInfoCmd())
	root.AddCommand(newViewCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newCacheCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\ncommit: %s\nbuilt: %s\n",
				appName, buildinfo.Version, buildinfo.Commit, buildinfo.Date)
		},
	}
}

// newCache opens the radii cache, or a null cache when caching is off or
// no cache directory is available.
func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG (~/.cache/bubblewrap/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

func sceneOptions() []bubblewrap.SceneOption {
	return []bubblewrap.SceneOption{bubblewrap.WithGenerator(buildinfo.Generator())}
}

func loadScene(path string) (*bubblewrap.Scene, error) {
	if err := bwerrors.ValidateScenePath(path); err != nil {
		return nil, err
	}
	return sceneio.ImportJSON(path, sceneOptions()...)
}

// outputPath returns out, or in when out is empty.
func outputPath(in, out string) string {
	if out != "" {
		return out
	}
	return in
}

// basePath strips the extension of path.
func basePath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

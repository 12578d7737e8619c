// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/2dChan/bubblewrap"
	bwerrors "github.com/2dChan/bubblewrap/errors"
	"github.com/2dChan/bubblewrap/packing"
	"github.com/2dChan/bubblewrap/render"
)

// Config is the TOML configuration file. Flags override it; it overrides
// the built-in defaults.
type Config struct {
	Surface bubblewrap.SurfaceSpec `toml:"surface"`
	Relax   RelaxConfig            `toml:"relax"`
	Render  RenderConfig           `toml:"render"`
	View    ViewConfig             `toml:"view"`
	Cache   CacheConfig            `toml:"cache"`
}

type RelaxConfig struct {
	Tolerance      float64 `toml:"tolerance"`
	MaxIterations  int     `toml:"max_iterations"`
	BoundaryRadius float64 `toml:"boundary_radius"`
	// Degrees; 0 keeps the angle implied by the topology.
	BoundaryAngle float64 `toml:"boundary_angle"`
}

type RenderConfig struct {
	Width         int      `toml:"width"`
	Height        int      `toml:"height"`
	Scale         float64  `toml:"scale"`
	MeshScale     float64  `toml:"mesh_scale"`
	ValenceLimit  int      `toml:"valence_limit"`
	TangencySlack float64  `toml:"tangency_slack"`
	Formats       []string `toml:"formats"`
}

type ViewConfig struct {
	DualGraph       bool `toml:"dual_graph"`
	AnimationFrames int  `toml:"animation_frames"`
}

type CacheConfig struct {
	Disabled bool `toml:"disabled"`
	// Go duration, e.g. "720h"; empty never expires.
	TTL string `toml:"ttl"`
}

func DefaultConfig() Config {
	ro := render.DefaultOptions()
	return Config{
		Surface: bubblewrap.DefaultSurfaceSpec(bubblewrap.SurfaceTorus),
		Relax: RelaxConfig{
			Tolerance:     1e-7,
			MaxIterations: 5000,
		},
		Render: RenderConfig{
			Width:         ro.Width,
			Height:        ro.Height,
			Scale:         ro.Scale,
			MeshScale:     ro.MeshScale,
			ValenceLimit:  ro.ValenceLimit,
			TangencySlack: ro.TangencySlack,
			Formats:       []string{formatSVG},
		},
		View: ViewConfig{AnimationFrames: 8},
		Cache: CacheConfig{
			TTL: "720h",
		},
	}
}

// loadConfig reads path over the defaults. A missing file at the default
// location is not an error; a missing file named on the command line is.
func loadConfig(path string, explicit bool) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return cfg, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, bwerrors.Wrap(bwerrors.ErrCodeFileNotFound, err, "config file %s not found", path)
	}
	if err != nil {
		return cfg, bwerrors.Wrap(bwerrors.ErrCodeInvalidPath, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, bwerrors.Wrap(bwerrors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Relax.Tolerance <= 0 || c.Relax.MaxIterations <= 0 {
		return bwerrors.New(bwerrors.ErrCodeInvalidInput, "relax tolerance and max_iterations must be positive")
	}
	if err := bwerrors.ValidateDimensions(c.Render.Width, c.Render.Height); err != nil {
		return err
	}
	if err := validateFormats(c.Render.Formats); err != nil {
		return err
	}
	if _, err := c.Cache.ttl(); err != nil {
		return err
	}
	return nil
}

func (c CacheConfig) ttl() (time.Duration, error) {
	if c.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		return 0, bwerrors.Wrap(bwerrors.ErrCodeInvalidInput, err, "cache ttl %q", c.TTL)
	}
	return d, nil
}

// relaxOptions turns the relax section into solver options.
func (c RelaxConfig) relaxOptions() []packing.RelaxOption {
	opts := []packing.RelaxOption{
		packing.WithTolerance(c.Tolerance),
		packing.WithMaxIterations(c.MaxIterations),
	}
	if c.BoundaryRadius > 0 {
		opts = append(opts, packing.WithBoundaryRadius(c.BoundaryRadius))
	}
	if c.BoundaryAngle > 0 {
		opts = append(opts, packing.WithBoundaryAngle(c.BoundaryAngle*math.Pi/180))
	}
	return opts
}

func (c RenderConfig) options() render.Options {
	opts := render.DefaultOptions()
	opts.Width, opts.Height = c.Width, c.Height
	if c.Scale > 0 {
		opts.Scale = c.Scale
	}
	if c.MeshScale > 0 {
		opts.MeshScale = c.MeshScale
	}
	if c.ValenceLimit > 0 {
		opts.ValenceLimit = c.ValenceLimit
	}
	if c.TangencySlack > 0 {
		opts.TangencySlack = c.TangencySlack
	}
	return opts
}

func writeConfig(w io.Writer, cfg Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return bwerrors.Wrap(bwerrors.ErrCodeInternal, err, "encode config")
	}
	return nil
}

// configPath returns the config file location using XDG
// (~/.config/bubblewrap/config.toml).
func configPath() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// newConfigCmd prints the effective configuration as TOML.
func newConfigCmd() *cobra.Command {
	var showPath bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showPath {
				path, err := configPath()
				if err != nil {
					return fmt.Errorf("get config path: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			}
			return writeConfig(cmd.OutOrStdout(), *configFromContext(cmd.Context()))
		},
	}
	cmd.Flags().BoolVar(&showPath, "path", false, "print the default config file path instead")
	return cmd
}

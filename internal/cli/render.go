// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package cli

import (
	"bytes"
	"context"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/jbeda/geom"
	"github.com/spf13/cobra"

	"github.com/2dChan/bubblewrap"
	bwerrors "github.com/2dChan/bubblewrap/errors"
	"github.com/2dChan/bubblewrap/render"
)

const (
	formatSVG      = "svg"
	formatPNG      = "png"
	formatDOT      = "dot"
	formatGraphviz = "graphviz"
)

var validFormats = []string{formatSVG, formatPNG, formatDOT, formatGraphviz}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string   // base path; the format picks the extension
	formats []string // svg, png, dot, graphviz
	dual    bool     // draw the dual graph
	mesh    bool     // draw the surface embedding instead of the packing
	yaw     float64  // mesh camera, degrees
	pitch   float64  // mesh camera, degrees
	cursor  string   // "x,y" in pixels; highlights the nearest dual edge
	render  RenderConfig
}

func newRenderCmd() *cobra.Command {
	var (
		opts       renderOpts
		formatsStr string
	)

	cmd := &cobra.Command{
		Use:   "render [scene]",
		Short: "Render a scene to SVG, PNG or DOT",
		Long: `Render the packing of a scene, or its surface with --mesh.

Formats: svg and png draw the frame, dot writes the dual graph in
Graphviz syntax and graphviz lays the dual graph out as SVG.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromContext(cmd.Context())
			rc := cfg.Render
			f := cmd.Flags()
			if f.Changed("width") {
				rc.Width = opts.render.Width
			}
			if f.Changed("height") {
				rc.Height = opts.render.Height
			}
			if f.Changed("scale") {
				rc.Scale = opts.render.Scale
			}
			if f.Changed("format") {
				rc.Formats = parseFormats(formatsStr)
			}
			if !f.Changed("dual") {
				opts.dual = cfg.View.DualGraph
			}
			opts.render = rc
			opts.formats = rc.Formats
			if opts.output == "" {
				opts.output = basePath(args[0])
			}
			if err := validateRenderOpts(opts); err != nil {
				return err
			}
			return runRender(cmd.Context(), cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output base path (default: scene path without extension)")
	f.StringVarP(&formatsStr, "format", "f", "", "output formats: svg, png, dot, graphviz (comma-separated)")
	f.IntVar(&opts.render.Width, "width", 0, "image width in pixels")
	f.IntVar(&opts.render.Height, "height", 0, "image height in pixels")
	f.Float64Var(&opts.render.Scale, "scale", 0, "pixels per plane unit")
	f.BoolVar(&opts.dual, "dual", false, "draw the dual graph of tangencies")
	f.BoolVar(&opts.mesh, "mesh", false, "draw the surface mesh instead of the packing")
	f.Float64Var(&opts.yaw, "yaw", 30, "mesh view yaw in degrees")
	f.Float64Var(&opts.pitch, "pitch", 60, "mesh view pitch in degrees")
	f.StringVar(&opts.cursor, "cursor", "", "cursor position \"x,y\" in pixels")

	return cmd
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{formatSVG}
	}
	var out []string
	for f := range strings.SplitSeq(s, ",") {
		out = append(out, strings.ToLower(strings.TrimSpace(f)))
	}
	return out
}

func validateFormats(formats []string) error {
	if len(formats) == 0 {
		return bwerrors.New(bwerrors.ErrCodeInvalidInput, "no output format")
	}
	for _, f := range formats {
		if !slices.Contains(validFormats, f) {
			return bwerrors.New(bwerrors.ErrCodeInvalidInput,
				"invalid format %q: must be one of %s", f, strings.Join(validFormats, ", "))
		}
	}
	return nil
}

func validateRenderOpts(opts renderOpts) error {
	if err := bwerrors.ValidateDimensions(opts.render.Width, opts.render.Height); err != nil {
		return err
	}
	if err := validateFormats(opts.formats); err != nil {
		return err
	}
	if opts.mesh && (slices.Contains(opts.formats, formatDOT) || slices.Contains(opts.formats, formatGraphviz)) {
		return bwerrors.New(bwerrors.ErrCodeInvalidInput, "dot and graphviz need a packing, not --mesh")
	}
	if opts.cursor != "" {
		if _, err := parseCursor(opts.cursor); err != nil {
			return err
		}
	}
	return nil
}

func parseCursor(s string) (geom.Coord, error) {
	xs, ys, ok := strings.Cut(s, ",")
	x, errX := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if !ok || errX != nil || errY != nil {
		return geom.Coord{}, bwerrors.New(bwerrors.ErrCodeInvalidInput, "cursor %q must be \"x,y\"", s)
	}
	return geom.Coord{X: x, Y: y}, nil
}

func runRender(ctx context.Context, cmd *cobra.Command, path string, opts renderOpts) error {
	logger := loggerFromContext(ctx)
	w := cmd.OutOrStdout()

	s, err := loadScene(path)
	if err != nil {
		return err
	}
	if !opts.mesh && !s.HasPacking() {
		return bwerrors.New(bwerrors.ErrCodeNoPacking, "%s has no packing; run bubblewrap relax first", path)
	}
	s.SetDualGraph(opts.dual)

	ro := opts.render.options()
	ro.Camera = render.Camera{Yaw: opts.yaw * math.Pi / 180, Pitch: opts.pitch * math.Pi / 180}
	if opts.cursor != "" {
		ro.Cursor, _ = parseCursor(opts.cursor)
		ro.ShowCursor = true
	}

	prog := newProgress(logger)
	var written []string
	for _, format := range opts.formats {
		data, ext, err := renderFormat(ctx, s, ro, opts.mesh, format)
		if err != nil {
			return err
		}
		out := opts.output + ext
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return bwerrors.Wrap(bwerrors.ErrCodeInvalidPath, err, "write %s", out)
		}
		logger.Debug("wrote", "format", format, "path", out, "bytes", len(data))
		written = append(written, out)
	}
	prog.done("Rendered " + pluralize(len(written), "file", "files"))

	printSuccess(w, "Rendered %s", path)
	for _, out := range written {
		printFile(w, out)
	}
	return nil
}

// renderFormat returns the encoded output and its file extension.
func renderFormat(ctx context.Context, s *bubblewrap.Scene, ro render.Options, mesh bool, format string) ([]byte, string, error) {
	switch format {
	case formatDOT:
		dot, err := render.DualGraphDOT(s, ro.TangencySlack)
		if err != nil {
			return nil, "", bwerrors.Wrap(bwerrors.ErrCodeNoPacking, err, "dual graph")
		}
		return []byte(dot), ".dot", nil
	case formatGraphviz:
		dot, err := render.DualGraphDOT(s, ro.TangencySlack)
		if err != nil {
			return nil, "", bwerrors.Wrap(bwerrors.ErrCodeNoPacking, err, "dual graph")
		}
		data, err := render.RenderDOT(ctx, dot)
		if err != nil {
			return nil, "", bwerrors.Wrap(bwerrors.ErrCodeInternal, err, "graphviz")
		}
		return data, ".dual.svg", nil
	}

	frame, err := buildFrame(s, ro, mesh)
	if err != nil {
		return nil, "", err
	}
	if frame.Skipped > 0 {
		loggerFromContext(ctx).Debug("skipped vertices", "count", frame.Skipped)
	}
	var buf bytes.Buffer
	switch format {
	case formatPNG:
		err = render.WritePNG(&buf, frame)
	default:
		err = render.WriteSVG(&buf, frame)
	}
	if err != nil {
		return nil, "", bwerrors.Wrap(bwerrors.ErrCodeInternal, err, "encode %s", format)
	}
	return buf.Bytes(), "." + format, nil
}

func buildFrame(s *bubblewrap.Scene, ro render.Options, mesh bool) (render.Frame, error) {
	var (
		frame render.Frame
		err   error
	)
	if mesh {
		frame, err = render.BuildMesh(s.Mesh, ro)
	} else {
		frame, err = render.Build(s, ro)
	}
	if err != nil {
		return render.Frame{}, bwerrors.Wrap(bwerrors.ErrCodeInvalidInput, err, "build frame")
	}
	return frame, nil
}

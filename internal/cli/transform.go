// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/2dChan/bubblewrap"
	bwerrors "github.com/2dChan/bubblewrap/errors"
	"github.com/2dChan/bubblewrap/sceneio"
)

const (
	opZoomIn  = "in"
	opZoomOut = "out"
	opInvert  = "invert"
	opReset   = "reset"
)

// parseViewOp returns the scene method for a view operation name.
func parseViewOp(name string) (func(*bubblewrap.Scene), error) {
	switch strings.ToLower(name) {
	case opZoomIn, "+":
		return (*bubblewrap.Scene).ZoomIn, nil
	case opZoomOut, "-":
		return (*bubblewrap.Scene).ZoomOut, nil
	case opInvert, "i":
		return (*bubblewrap.Scene).Invert, nil
	case opReset, "0":
		return (*bubblewrap.Scene).ResetView, nil
	}
	d, err := bubblewrap.ParseDirection(name)
	if err != nil {
		return nil, bwerrors.New(bwerrors.ErrCodeInvalidInput,
			"unknown view operation %q (want right, up, left, down, in, out, invert or reset)", name)
	}
	return func(s *bubblewrap.Scene) { s.Pan(d) }, nil
}

func newTransformCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "transform [scene] [op...]",
		Short: "Move the view of a saved scene",
		Long: `Apply view operations to a scene in order.

Operations: right, up, left, down (pan by half a unit), in, out (zoom by
1.6 in each direction), invert (swap zero and infinity) and reset (undo
every view transform).`,
		Example: `  bubblewrap transform torus.cpj in in right
  bubblewrap transform sphere.cpj invert -o inverted.cpj`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ops := make([]func(*bubblewrap.Scene), 0, len(args)-1)
			for _, name := range args[1:] {
				op, err := parseViewOp(name)
				if err != nil {
					return err
				}
				ops = append(ops, op)
			}

			s, err := loadScene(args[0])
			if err != nil {
				return err
			}
			for _, op := range ops {
				op(s)
			}
			s.Touch()

			out := outputPath(args[0], output)
			if err := sceneio.ExportJSON(s, out); err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			printSuccess(w, "Applied %s", pluralize(len(ops), "operation", "operations"))
			printFile(w, out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output scene file (default: overwrite the input)")
	return cmd
}

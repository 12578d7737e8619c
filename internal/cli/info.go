// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package cli

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/2dChan/bubblewrap"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info [scene]",
		Short: "Show surface and packing statistics of a scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadScene(args[0])
			if err != nil {
				return err
			}
			cfg := configFromContext(cmd.Context())
			printSceneInfo(cmd.OutOrStdout(), s, cfg.Render.ValenceLimit)
			return nil
		},
	}
}

func printSceneInfo(w io.Writer, s *bubblewrap.Scene, valenceLimit int) {
	m := s.Mesh
	fmt.Fprintln(w, StyleTitle.Render(s.Surface.Kind.Title()))
	printKeyValue(w, "id", s.Metadata.ID)
	printKeyValue(w, "saved", s.Metadata.Timestamp)
	if s.Metadata.Generator != "" {
		printKeyValue(w, "generator", s.Metadata.Generator)
	}
	printKeyValue(w, "schema", s.Metadata.Schema+" "+s.Metadata.SchemaVersion)
	fmt.Fprintln(w)

	printKeyValue(w, "vertices", strconv.Itoa(m.NumVertices()))
	printKeyValue(w, "edges", strconv.Itoa(m.NumEdges()))
	printKeyValue(w, "faces", strconv.Itoa(m.NumFaces()))
	printKeyValue(w, "euler", strconv.Itoa(m.EulerCharacteristic()))
	printKeyValue(w, "genus", strconv.Itoa(m.Genus()))
	printKeyValue(w, "boundaries", strconv.Itoa(m.NumBoundaryComponents()))

	if s.HasPacking() {
		lines := 0
		for _, c := range s.Circles() {
			if c.ContainsInfinity() {
				lines++
			}
		}
		printKeyValue(w, "circles", fmt.Sprintf("%d placed, %d lines", s.Packing.NumPlaced(), lines))
	} else {
		printKeyValue(w, "circles", StyleDim.Render("not packed"))
	}
	printKeyValue(w, "dual graph", strconv.FormatBool(s.DualGraph))
	fmt.Fprintln(w)

	fmt.Fprintln(w, valenceTable(m.ValenceHistogram(), valenceLimit))
}

// valenceTable tabulates vertex counts by valence. Valences above limit
// are drawn red in the packing and are highlighted here too.
func valenceTable(hist map[int]int, limit int) string {
	valences := slices.Sorted(maps.Keys(hist))
	rows := make([][]string, len(valences))
	for i, k := range valences {
		rows[i] = []string{strconv.Itoa(k), strconv.Itoa(hist[k])}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Valence", "Vertices").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			if row < len(valences) && valences[row] > limit {
				return cell.Foreground(colorRed)
			}
			if col == 1 {
				return cell.Foreground(colorCyan)
			}
			return cell
		})
	return t.Render()
}

// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/2dChan/bubblewrap/render"
)

const (
	headerHeight = 1
	footerHeight = 2
)

// canvasSize returns the drawing area in cells.
func (m Model) canvasSize() (int, int) {
	return max(10, m.width), max(4, m.height-headerHeight-footerHeight)
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	w, h := m.canvasSize()

	title := " bubblewrap ─ " + m.scene.Surface.Kind.Title() + " "
	name := "<unsaved>"
	if m.path != "" {
		name = filepath.Base(m.path)
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, titleStyle.Render(title), dimStyle.Render(name))
	header = lipgloss.NewStyle().Width(w).Render(header)

	status := m.status
	var body string
	switch {
	case m.picking:
		body = m.l.View()
	case m.prompt != promptNone:
		label := "Open scene"
		if m.prompt == promptSave {
			label = "Save scene as"
		}
		body = boxStyle.Render(titleStyle.Render(label) + "\n" + m.ta.View())
	default:
		f, err := m.frame(w, h)
		if err != nil {
			body = alertStyle.Render(err.Error())
			break
		}
		body = m.canvas(f, w, h)
		if f.Highlight != render.NoHighlight {
			e := f.Edges[f.Highlight]
			status = fmt.Sprintf("edge %d–%d", e.U, e.V)
		}
		if f.Skipped > 0 {
			status += fmt.Sprintf(" (%d vertices skipped)", f.Skipped)
		}
	}
	body = lipgloss.NewStyle().Width(w).Height(h).MaxHeight(h).Render(body)

	footer := lipgloss.JoinVertical(lipgloss.Left,
		dimStyle.Render(" "+status+" "),
		m.renderHelp())
	footer = lipgloss.NewStyle().Width(w).Render(footer)

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(w).Height(m.height).Render(ui)
}

// canvas draws f and the cursor.
func (m Model) canvas(f render.Frame, w, h int) string {
	b := newBrailleBuf(w, h)
	drawFrame(b, f)
	if m.hovering {
		x, y := round(m.cursor.X), round(m.cursor.Y)
		for _, d := range [][2]int{{0, 0}, {-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
			b.setPixel(x+d[0], y+d[1], inkCursor)
		}
	}
	return b.String()
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"↑↓←→ pan",
		"+/- zoom",
		"i invert",
		"0 reset",
		"d dual",
		"m mesh",
		"r relax",
		"n new",
		"o open",
		"s save",
		"h help",
		"q quit",
	}
	if m.showMesh {
		keys[0] = "↑↓←→ rotate"
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}

// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows m full screen until the user quits or ctx is done, and returns
// the final model.
func Run(ctx context.Context, m Model) (Model, error) {
	m.ctx = ctx
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.stopRelax()
		m = fm
	}
	return m, err
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

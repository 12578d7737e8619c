// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package tui

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jbeda/geom"

	"github.com/2dChan/bubblewrap"
	bwerrors "github.com/2dChan/bubblewrap/errors"
	"github.com/2dChan/bubblewrap/packing"
	"github.com/2dChan/bubblewrap/sceneio"
)

const (
	frameInterval = 16 * time.Millisecond
	rotateStep    = math.Pi / 12
)

type relaxDoneMsg struct {
	generation int
	res        packing.Result
	err        error
}

type animTickMsg struct{}

func animTick() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return animTickMsg{} })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w, h := m.canvasSize()
		m.l.SetSize(min(40, w), h)
		m.ta.SetWidth(max(10, w-4))
	case relaxDoneMsg:
		return m.finishRelax(msg), nil
	case animTickMsg:
		return m.stepAnimation()
	case tea.MouseMsg:
		m.hover(msg.X, msg.Y)
	case tea.KeyMsg:
		if m.picking {
			return m.updatePicker(msg)
		}
		if m.prompt != promptNone {
			return m.updatePrompt(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "ctrl+c", "q":
		m.stopRelax()
		return m, tea.Quit
	case "up", "down", "left", "right":
		if m.showMesh {
			m.rotate(key)
			return m, nil
		}
		d, _ := bubblewrap.ParseDirection(key)
		return m.animate(d.Mobius(), "pan "+d.String())
	case "+", "=":
		return m.animate(packing.ZoomIn, "zoom in")
	case "-", "_":
		return m.animate(packing.ZoomOut, "zoom out")
	case "i":
		return m.animate(packing.Inversion(), "invert")
	case "0":
		m.flushAnimation()
		m.scene.ResetView()
		m.camera.Yaw, m.camera.Pitch = defaultYaw, defaultPitch
		m.status = "view reset"
	case "d":
		m.scene.SetDualGraph(!m.scene.DualGraph)
		m.status = fmt.Sprintf("dual graph: %v", m.scene.DualGraph)
	case "m":
		m.showMesh = !m.showMesh
		m.status = "packing view"
		if m.showMesh {
			m.status = "mesh view"
		}
	case "r":
		return m.startRelax()
	case "esc":
		if m.relaxing {
			m.stopRelax()
			m.status = "canceling relaxation"
		}
	case "n":
		m.picking = true
		m.status = "new surface"
	case "o":
		return m.openPrompt(promptOpen)
	case "s":
		if m.path == "" {
			return m.openPrompt(promptSave)
		}
		m.save(m.path)
	case "h":
		m.helpVisible = !m.helpVisible
	}
	return m, nil
}

// animate splits t into animation steps. Steps left over from an earlier
// animation are applied at once first.
func (m Model) animate(t packing.Mobius, label string) (tea.Model, tea.Cmd) {
	m.flushAnimation()
	m.status = label
	steps := slices.Collect(m.scene.Animate(t, m.opts.Frames))
	m.scene.Transform(steps[0])
	m.pending = steps[1:]
	if len(m.pending) == 0 {
		return m, nil
	}
	return m, animTick()
}

func (m Model) stepAnimation() (tea.Model, tea.Cmd) {
	if len(m.pending) == 0 {
		return m, nil
	}
	m.scene.Transform(m.pending[0])
	m.pending = m.pending[1:]
	if len(m.pending) == 0 {
		return m, nil
	}
	return m, animTick()
}

func (m *Model) flushAnimation() {
	for _, t := range m.pending {
		m.scene.Transform(t)
	}
	m.pending = nil
}

// rotate turns the mesh camera.
func (m *Model) rotate(key string) {
	switch key {
	case "left":
		m.camera.Yaw -= rotateStep
	case "right":
		m.camera.Yaw += rotateStep
	case "up":
		m.camera.Pitch -= rotateStep
	case "down":
		m.camera.Pitch += rotateStep
	}
	m.status = fmt.Sprintf("camera: yaw %.0f°, pitch %.0f°", m.camera.Yaw*180/math.Pi, m.camera.Pitch*180/math.Pi)
}

func (m Model) startRelax() (tea.Model, tea.Cmd) {
	if m.relaxing {
		m.status = "already relaxing"
		return m, nil
	}
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel
	m.relaxing = true
	m.status = "relaxing..."

	mesh := m.scene.Mesh.Clone()
	gen := m.generation
	relax := m.opts.Relax
	return m, func() tea.Msg {
		res, err := relax(ctx, mesh)
		return relaxDoneMsg{generation: gen, res: res, err: err}
	}
}

func (m *Model) stopRelax() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m Model) finishRelax(msg relaxDoneMsg) Model {
	if msg.generation != m.generation {
		return m
	}
	m.relaxing = false
	m.stopRelax()
	m.flushAnimation()
	if err := m.scene.ApplyResult(msg.res, msg.err); err != nil {
		m.status = bwerrors.UserMessage(err)
		return m
	}
	m.status = fmt.Sprintf("packed %d circles in %d iterations", m.scene.Packing.NumPlaced(), msg.res.Iterations)
	return m
}

// replaced forgets everything tied to the previous mesh.
func (m *Model) replaced() {
	m.stopRelax()
	m.relaxing = false
	m.generation++
	m.pending = nil
}

func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.picking = false
		m.status = "new surface canceled"
		return m, nil
	case "enter":
		m.picking = false
		if it, ok := m.l.SelectedItem().(surfaceItem); ok {
			m.newSurface(it.kind)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.l, cmd = m.l.Update(msg)
	return m, cmd
}

func (m *Model) newSurface(kind bubblewrap.SurfaceKind) {
	if err := m.scene.Reset(bubblewrap.DefaultSurfaceSpec(kind)); err != nil {
		m.status = bwerrors.UserMessage(err)
		return
	}
	m.replaced()
	m.path = ""
	m.status = fmt.Sprintf("created %s; press r to relax", kind.Title())
}

func (m Model) openPrompt(mode promptMode) (tea.Model, tea.Cmd) {
	m.prompt = mode
	m.ta.Reset()
	m.ta.Placeholder = "scene.cpj"
	if mode == promptSave && m.path != "" {
		m.ta.SetValue(m.path)
	}
	m.status = "enter a path; Enter to confirm, Esc to cancel"
	return m, m.ta.Focus()
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.prompt = promptNone
		m.ta.Blur()
		m.status = "canceled"
		return m, nil
	case "enter":
		mode := m.prompt
		path := strings.TrimSpace(m.ta.Value())
		m.prompt = promptNone
		m.ta.Blur()
		if path == "" {
			m.status = "no path given"
			return m, nil
		}
		if mode == promptOpen {
			m.open(path)
		} else {
			m.save(path)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return m, cmd
}

func (m *Model) open(path string) {
	s, err := sceneio.ImportJSON(path, m.opts.SceneOptions...)
	if err != nil {
		m.status = "open: " + bwerrors.UserMessage(err)
		return
	}
	m.replaced()
	m.scene = s
	m.path = path
	m.status = "opened " + filepath.Base(path)
}

func (m *Model) save(path string) {
	m.flushAnimation()
	if err := sceneio.ExportJSON(m.scene, path); err != nil {
		m.status = "save: " + bwerrors.UserMessage(err)
		return
	}
	m.path = path
	m.status = "saved " + filepath.Base(path)
}

// hover tracks the mouse over the canvas.
func (m *Model) hover(x, y int) {
	w, h := m.canvasSize()
	cy := y - headerHeight
	if x < 0 || x >= w || cy < 0 || cy >= h {
		m.hovering = false
		return
	}
	m.hovering = true
	m.cursor = geom.Coord{X: float64(x*2 + 1), Y: float64(cy*4 + 2)}
}

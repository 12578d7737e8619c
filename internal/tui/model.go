// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package tui is the interactive terminal viewer of a packing scene.
package tui

import (
	"context"

	list "github.com/charmbracelet/bubbles/list"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jbeda/geom"

	"github.com/2dChan/bubblewrap"
	"github.com/2dChan/bubblewrap/dcel"
	"github.com/2dChan/bubblewrap/packing"
	"github.com/2dChan/bubblewrap/render"
)

// RelaxFunc computes radii for a mesh. It runs off the update loop on a
// clone of the scene mesh.
type RelaxFunc func(ctx context.Context, m *dcel.Mesh) (packing.Result, error)

type Options struct {
	// Path the scene is saved to. Empty asks on first save.
	Path string
	// View transforms are split into this many animation steps.
	Frames int
	Render render.Options
	Relax  RelaxFunc
	// Passed to scenes created or opened in the viewer.
	SceneOptions []bubblewrap.SceneOption
}

func DefaultOptions() Options {
	return Options{
		Frames: 8,
		Render: render.DefaultOptions(),
		Relax: func(ctx context.Context, m *dcel.Mesh) (packing.Result, error) {
			return packing.Relax(ctx, m)
		},
	}
}

type promptMode int

const (
	promptNone promptMode = iota
	promptOpen
	promptSave
)

type Model struct {
	width  int
	height int

	ctx   context.Context
	opts  Options
	scene *bubblewrap.Scene
	path  string

	helpVisible bool
	showMesh    bool
	camera      render.Camera
	status      string

	// hover state, in canvas micro-pixels
	hovering bool
	cursor   geom.Coord

	// relaxation running in the background
	relaxing bool
	cancel   context.CancelFunc
	// bumped whenever the mesh is replaced so stale results are dropped
	generation int

	// remaining animation steps
	pending []packing.Mobius

	// surface picker
	picking bool
	l       list.Model

	// open/save path prompt
	prompt promptMode
	ta     textarea.Model
}

// surfaceItem is a row of the surface picker.
type surfaceItem struct {
	kind bubblewrap.SurfaceKind
}

func (s surfaceItem) Title() string       { return s.kind.Title() }
func (s surfaceItem) Description() string { return string(s.kind) }
func (s surfaceItem) FilterValue() string { return s.kind.Title() }

func New(scene *bubblewrap.Scene, opts Options) Model {
	def := DefaultOptions()
	if opts.Relax == nil {
		opts.Relax = def.Relax
	}
	if opts.Render == (render.Options{}) {
		opts.Render = def.Render
	}
	opts.Frames = max(opts.Frames, 1)
	m := Model{
		ctx:         context.Background(),
		opts:        opts,
		scene:       scene,
		path:        opts.Path,
		helpVisible: true,
		camera:      render.Camera{Yaw: defaultYaw, Pitch: defaultPitch},
		status:      "bubblewrap ready",
	}

	items := make([]list.Item, len(bubblewrap.SurfaceKinds))
	for i, k := range bubblewrap.SurfaceKinds {
		items[i] = surfaceItem{kind: k}
	}
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(items, d, 0, 0)
	m.l.Title = "Select a surface to create"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(false)

	m.ta = textarea.New()
	m.ta.CharLimit = 0
	m.ta.ShowLineNumbers = false
	m.ta.SetWidth(50)
	m.ta.SetHeight(1)
	return m
}

// Scene returns the scene shown by the viewer.
func (m Model) Scene() *bubblewrap.Scene {
	return m.scene
}

func (m Model) Init() tea.Cmd { return nil }

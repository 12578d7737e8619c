// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ink is the colour of a terminal cell. A cell takes the strongest ink of
// the pixels set in it.
type ink uint8

const (
	inkNone ink = iota
	inkPlain
	inkCursor
	inkAlert
)

// brailleBuf is a canvas of 2x4 micro-pixels per terminal cell.
type brailleBuf struct {
	w, h int       // in cells
	m    [][]uint8 // per-cell 8-bit mask
	ink  [][]ink
}

func newBrailleBuf(w, h int) *brailleBuf {
	m := make([][]uint8, h)
	c := make([][]ink, h)
	for i := range m {
		m[i] = make([]uint8, w)
		c[i] = make([]ink, w)
	}
	return &brailleBuf{w: w, h: h, m: m, ink: c}
}

// dotBits maps a micro-pixel within its cell to the braille dot bit.
var dotBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// setPixel sets a micro-pixel at micro coords (2x4 per cell)
func (b *brailleBuf) setPixel(mx, my int, k ink) {
	if mx < 0 || my < 0 {
		return
	}
	cx, rx := mx/2, mx%2
	cy, ry := my/4, my%4
	if cy >= b.h || cx >= b.w {
		return
	}
	b.m[cy][cx] |= dotBits[rx][ry]
	b.ink[cy][cx] = max(b.ink[cy][cx], k)
}

// drawLineMicro draws a line on the microgrid using Bresenham
func (b *brailleBuf) drawLineMicro(x0, y0, x1, y1 int, k ink) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		b.setPixel(x0, y0, k)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// toLines returns the rows of the canvas without colour.
func (b *brailleBuf) toLines() []string {
	out := make([]string, b.h)
	for y := range b.h {
		row := make([]rune, b.w)
		for x := range b.w {
			row[x] = cellRune(b.m[y][x])
		}
		out[y] = string(row)
	}
	return out
}

// String renders the canvas, styling runs of cells that share an ink.
func (b *brailleBuf) String() string {
	var sb strings.Builder
	for y := range b.h {
		if y > 0 {
			sb.WriteByte('\n')
		}
		start := 0
		for x := 1; x <= b.w; x++ {
			if x < b.w && b.ink[y][x] == b.ink[y][start] {
				continue
			}
			run := make([]rune, 0, x-start)
			for i := start; i < x; i++ {
				run = append(run, cellRune(b.m[y][i]))
			}
			sb.WriteString(inkStyle(b.ink[y][start]).Render(string(run)))
			start = x
		}
	}
	return sb.String()
}

func cellRune(mask uint8) rune {
	if mask == 0 {
		return ' '
	}
	return rune(0x2800 + int(mask))
}

func inkStyle(k ink) lipgloss.Style {
	switch k {
	case inkAlert:
		return alertStyle
	case inkCursor:
		return cursorStyle
	}
	return canvasStyle
}

// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package tui

import (
	"math"
	"strings"
	"testing"

	"github.com/jbeda/geom"
)

func TestBrailleBuf_SetPixel(t *testing.T) {
	b := newBrailleBuf(2, 1)
	b.setPixel(0, 0, inkPlain)
	b.setPixel(1, 3, inkAlert)
	b.setPixel(2, 0, inkPlain)

	if got, want := b.m[0][0], dotBits[0][0]|dotBits[1][3]; got != want {
		t.Errorf("cell 0 mask = %#x, want %#x", got, want)
	}
	if got := b.ink[0][0]; got != inkAlert {
		t.Errorf("cell 0 ink = %d, want the strongest ink %d", got, inkAlert)
	}
	if got := b.m[0][1]; got != dotBits[0][0] {
		t.Errorf("cell 1 mask = %#x, want %#x", got, dotBits[0][0])
	}

	// Out of range pixels are dropped.
	b.setPixel(-1, 0, inkPlain)
	b.setPixel(4, 0, inkPlain)
	b.setPixel(0, 4, inkPlain)
	if got := b.toLines(); len(got) != 1 || len([]rune(got[0])) != 2 {
		t.Errorf("toLines() = %q, want one row of two cells", got)
	}
}

func TestBrailleBuf_ToLines(t *testing.T) {
	b := newBrailleBuf(3, 2)
	for y := range 4 {
		b.setPixel(0, y, inkPlain)
		b.setPixel(1, y, inkPlain)
	}

	lines := b.toLines()
	if len(lines) != 2 {
		t.Fatalf("toLines() returned %d rows, want 2", len(lines))
	}
	if got := []rune(lines[0]); got[0] != '⣿' || got[1] != ' ' || got[2] != ' ' {
		t.Errorf("row 0 = %q, want a full cell then blanks", lines[0])
	}
	if strings.TrimSpace(lines[1]) != "" {
		t.Errorf("row 1 = %q, want blank", lines[1])
	}
}

func TestBrailleBuf_DrawLineMicro(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
		want           int
	}{
		{"horizontal", 0, 0, 7, 0, 8},
		{"vertical", 0, 0, 0, 7, 8},
		{"diagonal", 0, 0, 5, 5, 6},
		{"reversed", 5, 5, 0, 0, 6},
		{"point", 3, 3, 3, 3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBrailleBuf(4, 2)
			b.drawLineMicro(tt.x0, tt.y0, tt.x1, tt.y1, inkPlain)
			if got := countDots(b); got != tt.want {
				t.Errorf("drawLineMicro set %d dots, want %d", got, tt.want)
			}
		})
	}
}

func TestBrailleBuf_String(t *testing.T) {
	b := newBrailleBuf(4, 2)
	b.drawLineMicro(0, 0, 7, 7, inkPlain)
	b.setPixel(7, 0, inkAlert)

	got := b.String()
	if n := strings.Count(got, "\n"); n != 1 {
		t.Errorf("String() has %d newlines, want 1", n)
	}
	dots := strings.ContainsFunc(got, func(r rune) bool { return r > 0x2800 && r <= 0x28FF })
	if !dots {
		t.Errorf("String() = %q, want braille dots", got)
	}
}

func TestClipSegment(t *testing.T) {
	r := geom.Rect{Min: geom.Coord{X: 0, Y: 0}, Max: geom.Coord{X: 10, Y: 10}}

	tests := []struct {
		name   string
		p, q   geom.Coord
		wantOK bool
		wantP  geom.Coord
		wantQ  geom.Coord
	}{
		{"inside", geom.Coord{X: 1, Y: 1}, geom.Coord{X: 9, Y: 9}, true, geom.Coord{X: 1, Y: 1}, geom.Coord{X: 9, Y: 9}},
		{"crossing", geom.Coord{X: -5, Y: 5}, geom.Coord{X: 15, Y: 5}, true, geom.Coord{X: 0, Y: 5}, geom.Coord{X: 10, Y: 5}},
		{"one end out", geom.Coord{X: 5, Y: 5}, geom.Coord{X: 5, Y: 20}, true, geom.Coord{X: 5, Y: 5}, geom.Coord{X: 5, Y: 10}},
		{"diagonal", geom.Coord{X: -10, Y: -10}, geom.Coord{X: 20, Y: 20}, true, geom.Coord{X: 0, Y: 0}, geom.Coord{X: 10, Y: 10}},
		{"outside parallel", geom.Coord{X: -5, Y: -1}, geom.Coord{X: 15, Y: -1}, false, geom.Coord{}, geom.Coord{}},
		{"outside diagonal", geom.Coord{X: 11, Y: -5}, geom.Coord{X: 20, Y: 3}, false, geom.Coord{}, geom.Coord{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, q, ok := clipSegment(tt.p, tt.q, r)
			if ok != tt.wantOK {
				t.Fatalf("clipSegment() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if !near(p, tt.wantP) || !near(q, tt.wantQ) {
				t.Errorf("clipSegment() = %v, %v, want %v, %v", p, q, tt.wantP, tt.wantQ)
			}
		})
	}
}

func TestDrawCircle(t *testing.T) {
	bounds := geom.Rect{Min: geom.Coord{}, Max: geom.Coord{X: 40, Y: 40}}

	tests := []struct {
		name    string
		center  geom.Coord
		r       float64
		wantInk bool
	}{
		{"visible", geom.Coord{X: 20, Y: 20}, 10, true},
		{"partly visible", geom.Coord{X: 45, Y: 20}, 10, true},
		{"outside", geom.Coord{X: 100, Y: 100}, 10, false},
		{"contains canvas", geom.Coord{X: 20, Y: 20}, 1000, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBrailleBuf(20, 10)
			drawCircle(b, tt.center, tt.r, inkPlain, bounds)
			if got := countDots(b) > 0; got != tt.wantInk {
				t.Errorf("drawCircle drew = %v, want %v", got, tt.wantInk)
			}
		})
	}
}

func countDots(b *brailleBuf) int {
	n := 0
	for _, row := range b.m {
		for _, mask := range row {
			for ; mask != 0; mask &= mask - 1 {
				n++
			}
		}
	}
	return n
}

func near(a, b geom.Coord) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

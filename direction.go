// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package bubblewrap

import (
	"strings"

	bwerrors "github.com/2dChan/bubblewrap/errors"
	"github.com/2dChan/bubblewrap/packing"
)

// Direction is a pan step of the view. Screen y grows downwards, so
// DirUp moves the circles towards negative imaginary values.
type Direction int

const (
	DirRight Direction = iota + 1
	DirUp
	DirLeft
	DirDown
)

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "right", "r":
		return DirRight, nil
	case "up", "u":
		return DirUp, nil
	case "left", "l":
		return DirLeft, nil
	case "down", "d":
		return DirDown, nil
	}
	return 0, bwerrors.New(bwerrors.ErrCodeInvalidInput, "unknown direction %q", s)
}

func (d Direction) String() string {
	switch d {
	case DirRight:
		return "right"
	case DirUp:
		return "up"
	case DirLeft:
		return "left"
	case DirDown:
		return "down"
	}
	return "none"
}

// Mobius returns the translation of one pan step.
func (d Direction) Mobius() packing.Mobius {
	switch d {
	case DirRight:
		return packing.PanRight
	case DirUp:
		return packing.PanUp
	case DirLeft:
		return packing.PanLeft
	case DirDown:
		return packing.PanDown
	}
	return packing.Identity()
}

// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package errors

import (
	"path/filepath"
	"slices"
	"strings"
	"unicode"
)

// SceneExtensions are the file extensions accepted for scene files.
var SceneExtensions = []string{".cpj", ".json"}

// ValidateScenePath checks that path names a scene file: not empty, free of
// control characters and ending in one of SceneExtensions.
func ValidateScenePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "scene path cannot be empty")
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "scene path contains invalid control characters")
		}
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !slices.Contains(SceneExtensions, ext) {
		return New(ErrCodeInvalidPath, "scene file %q must end in one of %s",
			filepath.Base(path), strings.Join(SceneExtensions, ", "))
	}
	return nil
}

// ValidateDimensions checks output image dimensions.
func ValidateDimensions(width, height int) error {
	const maxSide = 16384
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidInput, "image size %dx%d must be positive", width, height)
	}
	if width > maxSide || height > maxSide {
		return New(ErrCodeInvalidInput, "image size %dx%d exceeds %d pixels per side", width, height, maxSide)
	}
	return nil
}

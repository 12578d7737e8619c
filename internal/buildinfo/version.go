// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/2dChan/bubblewrap/internal/buildinfo.Version=v0.3.0 \
//	    -X github.com/2dChan/bubblewrap/internal/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/2dChan/bubblewrap/internal/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Generator names this build in scene metadata.
func Generator() string {
	return "bubblewrap " + Version
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}

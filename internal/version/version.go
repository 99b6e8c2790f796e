// Copyright (c) 2026 Shop API Authors
// SPDX-License-Identifier: MIT

// Package version provides build-time version information.
package version

import "fmt"

// Populated at build time via -ldflags.
var (
	Version   = "dev"     // Semantic version from git tags (e.g., "v1.2.3")
	GitCommit = "unknown" // Short git commit hash
	BuildTime = "unknown" // Build timestamp in RFC3339 format
)

// String returns a human-readable one-line version description.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime)
}

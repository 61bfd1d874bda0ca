// Package version provides build-time version information.
package version

// Set at build time via -ldflags.
var (
	// Version is the semantic version.
	Version = "0.1.0"

	// BuildTime is the UTC build timestamp.
	BuildTime = "unknown"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"
)

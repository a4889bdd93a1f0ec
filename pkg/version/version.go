// Package version exposes build-time version information.
package version

// Version is set at build time via -ldflags.
var Version = "dev"

// GitCommit is set at build time via -ldflags.
var GitCommit = "unknown"

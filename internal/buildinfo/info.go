// Package buildinfo carries version metadata injected at build time.
package buildinfo

// Set via -ldflags at release build time; the defaults mark a dev build.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

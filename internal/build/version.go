// Package build provides version and build information for gitchanges.
// This package intentionally has no dependencies on other internal packages
// to avoid import cycles.
package build

import (
	"fmt"
	"runtime"
)

var (
	// Version information - set via ldflags during build:
	//   go build -ldflags "-X github.com/ariel-frischer/gitchanges/internal/build.Version=1.2.0"
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// IsDevBuild returns true if running a development build (not a release).
func IsDevBuild() bool {
	return Version == "dev"
}

// Info returns the one-line version string printed by `gitchanges version`.
func Info() string {
	return fmt.Sprintf("gitchanges %s (commit %s, built %s)", Version, Commit, BuildDate)
}

// Details returns "key: value" lines describing the toolchain and platform
// the binary was built for.
func Details() []string {
	return []string{
		"go: " + runtime.Version(),
		fmt.Sprintf("platform: %s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

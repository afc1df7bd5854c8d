// Package version carries build metadata stamped in via -ldflags.
package version

import "fmt"

var (
	// Version is the release version.
	Version = "dev"
	// GitSHA is the git commit the binary was built from.
	GitSHA = "unknown"
)

// String returns a one-line description of the build.
func String() string {
	return fmt.Sprintf("relocperf %s (%s)", Version, GitSHA)
}

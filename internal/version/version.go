// Package version holds the build information of the prebuild binary.
package version

import "fmt"

// Build information set by ldflags:
//
//	-X github.com/eppisapiafsl/expo-cli/internal/version.Version=1.2.3
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String renders the build information on one line
func String() string {
	return fmt.Sprintf("prebuild %s (commit %s, built %s)", Version, Commit, Date)
}

// Package version holds build-time version information injected via ldflags.
package version

import "fmt"

// These variables are set at build time via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns the one-line form printed by the version command.
func String() string {
	return fmt.Sprintf("gamewatch %s (commit %s, built %s)", Version, Commit, Date)
}

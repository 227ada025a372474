// Package version carries build metadata, overridden at link time via
// -ldflags "-X ...".
package version

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func String() string {
	return fmt.Sprintf("mint %s (commit %s, built %s)", Version, Commit, Date)
}

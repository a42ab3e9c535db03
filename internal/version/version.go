// Package version carries the build metadata stamped into the hops binary.
package version

import "fmt"

// Overridden through -ldflags at release time, e.g.
//
//	-X github.com/logicalclocks/hopsworks-go/internal/version.Version=v0.3.0
var (
	Version = "dev"
	Commit  = "none"
	BuiltAt = "unknown"
)

// String renders the one-line form printed by "hops version".
func String() string {
	return fmt.Sprintf("hops %s (commit %s, built %s)", Version, Commit, BuiltAt)
}

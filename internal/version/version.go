// Package version exposes build metadata injected at link time, e.g.
// -ldflags "-X github.com/krancour/drone-logs/internal/version.version=v0.1.0".
package version

var (
	version = "devel"
	commit  = "unknown"
)

// Version returns the semantic version of the build.
func Version() string {
	return version
}

// Commit returns the git commit the build was made from.
func Commit() string {
	return commit
}

package buildconfig

import "fmt"

// Injected via -ldflags "-X github.com/Harshitk-cp/currency/internal/buildconfig.version=..."
var (
	version = "dev"
	commit  = "unknown"
)

func Version() string {
	return version
}

func Commit() string {
	return commit
}

// VersionInfo is the version payload reported by the health endpoint.
func VersionInfo() map[string]string {
	return map[string]string{
		"version": version,
		"commit":  commit,
	}
}

// String renders the build as "version (commit)".
func String() string {
	return fmt.Sprintf("%s (%s)", version, commit)
}

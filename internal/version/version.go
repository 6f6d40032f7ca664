package version

import "fmt"

var (
	// Version is the current application version
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// Info returns a single-line build description for startup logs.
func Info() string {
	return fmt.Sprintf("%s (sha %s, built %s)", Version, GitSHA, BuildTime)
}

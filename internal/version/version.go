package version

import (
	"fmt"
	"os/exec"
	"strings"
)

var (
	// These will be set at build time via ldflags
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// GetVersion returns the version string, falling back to git describe
// for development builds.
func GetVersion() string {
	if Version != "dev" {
		return Version
	}

	out, err := exec.Command("git", "describe", "--tags", "--always", "--dirty").Output()
	if err != nil {
		return "dev"
	}

	described := strings.TrimSpace(string(out))
	if described == "" {
		return "dev"
	}

	return described
}

// GetFullVersion returns version with commit and build info.
func GetFullVersion() string {
	v := GetVersion()

	if Commit != "unknown" && Date != "unknown" {
		return fmt.Sprintf("%s (commit %s, built %s)", v, Commit, Date)
	}

	return v
}

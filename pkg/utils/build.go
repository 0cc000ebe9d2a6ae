// Build information set through ldflags, e.g.
// go build -ldflags "-X github.com/nobletooth/dlist/pkg/utils.Version=v1.2.3" ./cmd/dlistd
// CAUTION: This file shouldn't be removed or else flags wouldn't be set properly.

package utils

import (
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/mod/semver"
)

// devVersion is reported when the binary was built without a version.
const devVersion = "v0.0.0-dev"

var (
	TestMode   string // Should be true when running tests.
	IsTestMode bool
	Version    string
	Commit     string
	BuildTime  string
	StartTime  time.Time
)

func init() {
	StartTime = time.Now()

	// If build info is not set, make that clear.
	if Version == "" {
		Version = devVersion
	}
	if Commit == "" {
		Commit = "unknown"
	}
	if BuildTime == "" {
		BuildTime = "unknown"
	}
	if len(TestMode) > 0 {
		if isTestMode, err := strconv.ParseBool(TestMode); err == nil {
			IsTestMode = isTestMode
		} else {
			slog.Warn("Failed to parse TestMode build flag, defaulting to false", "error", err)
		}
	}
	if !semver.IsValid(Version) {
		slog.Warn("Version is not a valid semantic version.", "version", Version)
	}
}

// IsDevBuild reports whether the binary was built without a release version.
func IsDevBuild() bool {
	return Version == devVersion || semver.Prerelease(Version) != ""
}

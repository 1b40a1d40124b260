// Package version exposes the build version of pricefetch.
package version

import (
	"github.com/Masterminds/semver/v3"
)

// fallbackVersion is reported when no usable version was injected at build time.
const fallbackVersion = "0.0.0-dev"

// version is overridden at build time:
//
//	go build -ldflags "-X github.com/rshade/pricefetch/pkg/version.version=1.2.3"
//
//nolint:gochecknoglobals // Set via ldflags.
var version = ""

// GetVersion returns the normalized semantic version of the binary.
// A missing or malformed build version yields "0.0.0-dev".
func GetVersion() string {
	return normalize(version)
}

// normalize parses raw as a semantic version, tolerating a leading "v".
func normalize(raw string) string {
	if raw == "" {
		return fallbackVersion
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return fallbackVersion
	}
	return v.String()
}

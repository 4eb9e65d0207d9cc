package domain

import (
	"strings"

	"go.trai.ch/zerr"
	"golang.org/x/mod/semver"
)

// ParseVersion validates an application version string and returns it
// trimmed. Versions are semantic versions; a missing leading "v" is
// tolerated on input and the stored form keeps the caller's spelling.
func ParseVersion(raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if v == "" || !semver.IsValid(canonicalVersion(v)) {
		return "", zerr.With(ErrInvalidVersion, "version", raw)
	}
	return v, nil
}

// CompareVersions orders two validated versions. Negative means a is older
// than b. Prereleases order before their release per semver.
func CompareVersions(a, b string) int {
	return semver.Compare(canonicalVersion(a), canonicalVersion(b))
}

// IsPrerelease reports whether a validated version carries a prerelease
// segment, e.g. "1.0.0-alpha.1".
func IsPrerelease(v string) bool {
	return semver.Prerelease(canonicalVersion(v)) != ""
}

func canonicalVersion(v string) string {
	if !strings.HasPrefix(v, "v") {
		return "v" + v
	}
	return v
}

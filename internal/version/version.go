// Package version wraps semantic-version parsing for user specs and catalog entries.
package version

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/conn-castle/nodeup/internal/messages"
)

var coercePattern = regexp.MustCompile(`(\d+)(?:\.(\d+))?(?:\.(\d+))?`)

// clean strips surrounding whitespace and the leading "=" / "v" decorations users
// commonly type in front of an exact version.
func clean(raw string) string {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimLeft(trimmed, "=")
	trimmed = strings.TrimSpace(trimmed)
	trimmed = strings.TrimPrefix(trimmed, "v")
	return strings.TrimPrefix(trimmed, "V")
}

// IsExact reports whether spec names a single, fully specified version
// (e.g. "16.2.0" or "v16.2.0") rather than a range.
func IsExact(spec string) bool {
	_, err := semver.StrictNewVersion(clean(spec))
	return err == nil
}

// Normalize returns the canonical X.Y.Z[-pre][+meta] form of an exact version.
func Normalize(raw string) (string, error) {
	v, err := semver.StrictNewVersion(clean(raw))
	if err != nil {
		return "", fmt.Errorf(messages.VersionInvalidFmt, raw)
	}
	return v.String(), nil
}

// Coerce extracts the first major[.minor[.patch]] run from raw and returns it as a
// release version. Prerelease and build suffixes are dropped, so "v12.0.0-rc.1" and
// "12.0.0" coerce to the same version.
func Coerce(raw string) (*semver.Version, error) {
	m := coercePattern.FindStringSubmatch(raw)
	if m == nil {
		return nil, fmt.Errorf(messages.VersionCoerceFailedFmt, raw)
	}
	parts := [3]uint64{}
	for i := 0; i < 3; i++ {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.ParseUint(m[i+1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf(messages.VersionCoerceFailedFmt, raw)
		}
		parts[i] = n
	}
	return semver.New(parts[0], parts[1], parts[2], "", ""), nil
}

// Range is a parsed version spec.
type Range struct {
	raw         string
	constraints *semver.Constraints
}

// ParseRange parses spec using npm-style range syntax (^, ~, x-ranges, hyphen
// ranges, "||" unions). An exact version is a valid range matching only itself.
func ParseRange(spec string) (*Range, error) {
	c, err := semver.NewConstraint(strings.TrimSpace(spec))
	if err != nil {
		return nil, fmt.Errorf(messages.VersionInvalidRangeFmt, spec, err)
	}
	return &Range{raw: spec, constraints: c}, nil
}

// Contains reports whether v satisfies the range.
func (r *Range) Contains(v *semver.Version) bool {
	return r.constraints.Check(v)
}

func (r *Range) String() string {
	return r.raw
}

// Satisfies reports whether the coerced form of raw satisfies spec.
func Satisfies(raw string, spec string) (bool, error) {
	r, err := ParseRange(spec)
	if err != nil {
		return false, err
	}
	v, err := Coerce(raw)
	if err != nil {
		return false, err
	}
	return r.Contains(v), nil
}

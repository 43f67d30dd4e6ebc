package catalog

import (
	"io"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/fatih/color"

	"github.com/conn-castle/nodeup/internal/messages"
	"github.com/conn-castle/nodeup/internal/version"
)

// Aliases accepted in place of a range.
const (
	AliasLatest  = "latest"
	AliasCurrent = "current"
	AliasNode    = "node"
	aliasLTS     = "lts/"
)

// IsAlias reports whether spec is a named alias rather than a version range.
func IsAlias(spec string) bool {
	s := strings.ToLower(strings.TrimSpace(spec))
	switch s {
	case AliasLatest, AliasCurrent, AliasNode:
		return true
	}
	return strings.HasPrefix(s, aliasLTS) && len(s) > len(aliasLTS)
}

// Sort orders entries ascending by coerced version, with equal versions ordered by
// release date ascending. Entries whose versions fail to coerce sort below every
// coercible entry, ordered by release date among themselves. The input slice is not
// modified.
func Sort(entries []Entry) []Entry {
	keyed := make([]sortKey, len(entries))
	for i, e := range entries {
		v, _ := version.Coerce(e.Version)
		keyed[i] = sortKey{entry: e, version: v}
	}
	sort.SliceStable(keyed, func(i, j int) bool {
		return keyed[i].less(keyed[j])
	})
	sorted := make([]Entry, len(keyed))
	for i, k := range keyed {
		sorted[i] = k.entry
	}
	return sorted
}

type sortKey struct {
	entry   Entry
	version *semver.Version
}

func (k sortKey) less(o sortKey) bool {
	switch {
	case k.version == nil && o.version != nil:
		return true
	case k.version != nil && o.version == nil:
		return false
	case k.version != nil && o.version != nil:
		if c := k.version.Compare(o.version); c != 0 {
			return c < 0
		}
	}
	return k.entry.ReleaseDate.Before(o.entry.ReleaseDate)
}

// Match returns the raw version string of the highest entry whose coerced version
// satisfies spec, or "" when none does. Entries that fail to coerce are reported to
// warn and skipped.
func Match(entries []Entry, spec string, warn io.Writer) (string, error) {
	matches, err := satisfying(entries, spec, warn, 1)
	if err != nil || len(matches) == 0 {
		return "", err
	}
	return matches[0].Version, nil
}

// Satisfying returns every entry that satisfies spec, highest first.
func Satisfying(entries []Entry, spec string, warn io.Writer) ([]Entry, error) {
	return satisfying(entries, spec, warn, 0)
}

func satisfying(entries []Entry, spec string, warn io.Writer, limit int) ([]Entry, error) {
	if warn == nil {
		warn = io.Discard
	}
	candidates, rangeSpec := expandAlias(entries, spec)
	r, err := version.ParseRange(rangeSpec)
	if err != nil {
		return nil, err
	}

	warnColor := color.New(color.FgYellow)
	sorted := Sort(candidates)
	for _, e := range sorted {
		if _, err := version.Coerce(e.Version); err != nil {
			_, _ = warnColor.Fprintf(warn, messages.CatalogSkipUncoercibleFmt, e.Version)
		}
	}
	var out []Entry
	for i := len(sorted) - 1; i >= 0; i-- {
		v, err := version.Coerce(sorted[i].Version)
		if err != nil {
			continue
		}
		if !r.Contains(v) {
			continue
		}
		out = append(out, sorted[i])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// expandAlias narrows entries for LTS aliases and turns any alias into the
// unbounded range. Non-alias specs pass through unchanged.
func expandAlias(entries []Entry, spec string) ([]Entry, string) {
	if !IsAlias(spec) {
		return entries, spec
	}
	s := strings.ToLower(strings.TrimSpace(spec))
	if !strings.HasPrefix(s, aliasLTS) {
		return entries, "*"
	}
	codename := strings.TrimPrefix(s, aliasLTS)
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.LTS == "" {
			continue
		}
		if codename == "*" || strings.EqualFold(e.LTS, codename) {
			out = append(out, e)
		}
	}
	return out, "*"
}

// Package toolcache stores installed tool trees on disk keyed by
// (tool, version, arch).
//
// Layout:
//
//	<root>/<tool>/<version>/<arch>/           installed tree
//	<root>/<tool>/<version>/<arch>.complete   written last; entries without it are ignored
//	<root>/<tool>/<version>/<arch>.lock       serializes inserts across processes
package toolcache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/conn-castle/nodeup/internal/messages"
	"github.com/conn-castle/nodeup/internal/version"
)

var (
	osRename    = os.Rename
	osRemoveAll = os.RemoveAll
)

// Cache is a tool cache rooted at a directory.
type Cache struct {
	root string
}

// New returns a Cache rooted at root.
func New(root string) *Cache {
	return &Cache{root: root}
}

// Root returns the cache root directory.
func (c *Cache) Root() string {
	return c.root
}

func (c *Cache) entryDir(tool, ver, arch string) string {
	return filepath.Join(c.root, tool, ver, arch)
}

func (c *Cache) markerPath(tool, ver, arch string) string {
	return filepath.Join(c.root, tool, ver, arch+".complete")
}

// Find returns the installed path for tool matching spec on arch. An exact spec is
// looked up directly; a range is evaluated against the locally cached versions and
// the highest satisfying one wins. Specs that are neither (aliases) never match.
func (c *Cache) Find(tool string, spec string, arch string) (string, bool, error) {
	if strings.TrimSpace(tool) == "" || strings.TrimSpace(spec) == "" || strings.TrimSpace(arch) == "" {
		return "", false, errors.New(messages.CacheKeyRequired)
	}

	ver := ""
	if version.IsExact(spec) {
		normalized, err := version.Normalize(spec)
		if err != nil {
			return "", false, err
		}
		ver = normalized
	} else {
		r, err := version.ParseRange(spec)
		if err != nil {
			return "", false, nil //nolint:nilerr // Unparsable specs (aliases) cannot be evaluated locally.
		}
		versions, err := c.Versions(tool, arch)
		if err != nil {
			return "", false, err
		}
		for i := len(versions) - 1; i >= 0; i-- {
			v, err := semver.StrictNewVersion(versions[i])
			if err != nil {
				continue
			}
			if r.Contains(v) {
				ver = versions[i]
				break
			}
		}
		if ver == "" {
			return "", false, nil
		}
	}

	ok, err := c.complete(tool, ver, arch)
	if err != nil || !ok {
		return "", false, err
	}
	return c.entryDir(tool, ver, arch), true, nil
}

// complete reports whether the entry directory and its marker both exist.
func (c *Cache) complete(tool, ver, arch string) (bool, error) {
	for _, p := range []string{c.markerPath(tool, ver, arch), c.entryDir(tool, ver, arch)} {
		if _, err := os.Stat(p); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return false, nil
			}
			return false, fmt.Errorf(messages.CacheCheckEntryFmt, p, err)
		}
	}
	return true, nil
}

// Versions lists the complete cached versions of tool for arch, ascending.
func (c *Cache) Versions(tool string, arch string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(c.root, tool))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf(messages.CacheListFmt, tool, err)
	}

	var parsed []*semver.Version
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		v, err := semver.StrictNewVersion(e.Name())
		if err != nil {
			continue
		}
		ok, err := c.complete(tool, e.Name(), arch)
		if err != nil {
			return nil, err
		}
		if ok {
			parsed = append(parsed, v)
		}
	}
	sort.Sort(semver.Collection(parsed))

	out := make([]string, 0, len(parsed))
	for _, v := range parsed {
		out = append(out, v.String())
	}
	return out, nil
}

// CacheDir installs the directory tree at src as (tool, version, arch) and returns the
// installed path. An existing entry for the same key is replaced. src is moved when
// possible and copied otherwise.
func (c *Cache) CacheDir(src string, tool string, ver string, arch string) (string, error) {
	info, err := os.Stat(src)
	if err != nil {
		return "", fmt.Errorf(messages.CacheSourceFmt, src, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf(messages.CacheSourceNotDirFmt, src)
	}
	normalized, err := version.Normalize(ver)
	if err != nil {
		return "", err
	}

	dest := c.entryDir(tool, normalized, arch)
	marker := c.markerPath(tool, normalized, arch)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf(messages.CacheCreateDirFmt, filepath.Dir(dest), err)
	}

	err = c.withEntryLock(tool, normalized, arch, func() error {
		if err := os.Remove(marker); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf(messages.CacheRemoveMarkerFmt, marker, err)
		}
		if err := osRemoveAll(dest); err != nil {
			return fmt.Errorf(messages.CacheRemoveEntryFmt, dest, err)
		}
		if err := osRename(src, dest); err != nil {
			if err := copyTree(src, dest); err != nil {
				return err
			}
		}
		if err := os.WriteFile(marker, nil, 0o644); err != nil {
			return fmt.Errorf(messages.CacheWriteMarkerFmt, marker, err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return dest, nil
}

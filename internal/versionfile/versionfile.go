// Package versionfile reads a version spec from .nvmrc / .node-version style files.
package versionfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/conn-castle/nodeup/internal/messages"
)

var (
	osReadFile = os.ReadFile
	osStat     = os.Stat
)

// Read returns the version spec stored in path along with warnings about content that
// was ignored. The spec is the first non-blank line that is not a "#" comment, trimmed,
// with a leading "v" dropped. A file with more than one such line is rejected.
func Read(path string) (string, []string, error) {
	data, err := osReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf(messages.VersionFileReadFmt, path, err)
	}
	return Parse(string(data), path)
}

// Parse extracts the version spec from file content. source is used in messages.
func Parse(content string, source string) (string, []string, error) {
	content = strings.TrimPrefix(content, "\ufeff")
	var (
		spec     string
		warnings []string
	)
	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if idx := strings.Index(line, "#"); idx > 0 {
			warnings = append(warnings, fmt.Sprintf(messages.VersionFileInlineCommentFmt, source, i+1, strings.TrimSpace(line[idx:])))
			line = strings.TrimSpace(line[:idx])
		}
		line = strings.TrimPrefix(strings.TrimPrefix(line, "v"), "V")
		if spec != "" {
			return "", warnings, fmt.Errorf(messages.VersionFileMultipleFmt, source, spec, line)
		}
		spec = line
	}
	if spec == "" {
		return "", warnings, fmt.Errorf(messages.VersionFileEmptyFmt, source)
	}
	return spec, warnings, nil
}

// Names lists the version file names Find looks for, in priority order.
var Names = []string{".nvmrc", ".node-version"}

// Find searches start and its parents for the nearest version file. It reports found=false
// when none exists up to the filesystem root.
func Find(start string) (string, bool, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false, fmt.Errorf(messages.VersionFileResolveStartFmt, start, err)
	}
	for {
		for _, name := range Names {
			candidate := filepath.Join(dir, name)
			info, err := osStat(candidate)
			if err == nil {
				if info.IsDir() {
					return "", false, fmt.Errorf(messages.VersionFileIsDirFmt, candidate)
				}
				return candidate, true, nil
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return "", false, fmt.Errorf(messages.VersionFileStatFmt, candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

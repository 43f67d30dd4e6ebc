package install

import (
	"strings"

	"github.com/conn-castle/nodeup/internal/platform"
	"github.com/conn-castle/nodeup/internal/version"
)

// LegacyFile is one loose file published by a legacy layout.
// Remote is the file name on the mirror; Local is its name in the installed tree.
type LegacyFile struct {
	Remote string
	Local  string
}

// LegacyLayout describes releases that ship loose files instead of an archive.
//
// Bases are URL templates tried in order; each may use {mirror}, {version},
// {os} (distribution OS token) and {arch}. A base is abandoned only when one of
// its files answers 404; any other failure ends the attempt.
type LegacyLayout struct {
	Name string
	// OS restricts the layout to one platform family; empty matches all.
	OS string
	// Constraint is a version range the layout applies to; empty matches all.
	Constraint string
	Files      []LegacyFile
	Bases      []string
}

// DefaultLayouts returns the built-in legacy layouts.
func DefaultLayouts() []LegacyLayout {
	return []LegacyLayout{
		{
			Name: "windows-loose-binaries",
			OS:   platform.Windows,
			Files: []LegacyFile{
				{Remote: "node.exe", Local: "node.exe"},
				{Remote: "node.lib", Local: "node.lib"},
			},
			Bases: []string{
				"{mirror}/v{version}/{os}-{arch}",
				"{mirror}/v{version}",
			},
		},
	}
}

// Applies reports whether the layout covers version ver on p.
func (l LegacyLayout) Applies(p platform.Info, ver string) bool {
	if l.OS != "" && l.OS != p.OS {
		return false
	}
	if strings.TrimSpace(l.Constraint) == "" {
		return true
	}
	ok, err := version.Satisfies(ver, l.Constraint)
	return err == nil && ok
}

// baseURLs expands the layout's base templates in order.
func (l LegacyLayout) baseURLs(mirror string, ver string, p platform.Info) []string {
	r := strings.NewReplacer(
		"{mirror}", strings.TrimRight(mirror, "/"),
		"{version}", ver,
		"{os}", p.DistName(),
		"{arch}", p.Arch,
	)
	out := make([]string, 0, len(l.Bases))
	for _, b := range l.Bases {
		out = append(out, r.Replace(b))
	}
	return out
}

// Package platform derives the host platform key used to filter catalog
// entries and build download URLs.
package platform

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/conn-castle/nodeup/internal/messages"
)

// OS families recognized by the distribution layout.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// UnsupportedPlatformError reports a host OS outside the recognized families.
type UnsupportedPlatformError struct {
	OS string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf(messages.PlatformUnsupportedOSFmt, e.OS)
}

// Info is the immutable platform key for one process.
// OS is one of Windows, Darwin, or Linux; Arch uses distribution naming (x64, x86, arm64, ...).
type Info struct {
	OS   string
	Arch string
}

// Current detects the running platform, honoring archOverride when non-empty.
func Current(archOverride string) (Info, error) {
	return Detect(runtime.GOOS, runtime.GOARCH, archOverride)
}

// Detect maps a Go OS/architecture pair onto distribution naming.
func Detect(goos string, goarch string, archOverride string) (Info, error) {
	switch goos {
	case Windows, Darwin, Linux:
	default:
		return Info{}, &UnsupportedPlatformError{OS: goos}
	}

	arch := strings.ToLower(strings.TrimSpace(archOverride))
	if arch == "" {
		arch = distArch(goarch)
	}
	if arch == "" {
		return Info{}, fmt.Errorf(messages.PlatformUnsupportedArchFmt, goarch)
	}
	return Info{OS: goos, Arch: arch}, nil
}

// distArch translates GOARCH into the architecture token used by published assets.
// It returns "" for architectures that are never published.
func distArch(goarch string) string {
	switch goarch {
	case "amd64":
		return "x64"
	case "386":
		return "x86"
	case "arm64":
		return "arm64"
	case "arm":
		return "armv7l"
	case "ppc64le", "s390x", "ppc64", "loong64", "riscv64":
		return goarch
	default:
		return ""
	}
}

// DistName returns the OS token used in archive file names.
func (p Info) DistName() string {
	if p.OS == Windows {
		return "win"
	}
	return p.OS
}

// AssetID returns the identifier the catalog lists in an entry's files when
// a build exists for this platform.
func (p Info) AssetID() string {
	switch p.OS {
	case Windows:
		return fmt.Sprintf("win-%s-7z", p.Arch)
	case Darwin:
		return fmt.Sprintf("osx-%s-tar", p.Arch)
	default:
		return fmt.Sprintf("%s-%s", p.OS, p.Arch)
	}
}

// ArchiveExt returns the primary archive extension without the leading dot.
func (p Info) ArchiveExt() string {
	if p.OS == Windows {
		return "7z"
	}
	return "tar.gz"
}

// ExecDir returns the directory holding executables inside an installed root.
func (p Info) ExecDir(root string) string {
	if p.OS == Windows {
		return root
	}
	return filepath.Join(root, "bin")
}

func (p Info) String() string {
	return p.OS + "-" + p.Arch
}

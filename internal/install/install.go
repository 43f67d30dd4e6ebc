// Package install acquires a release: it downloads the primary archive, extracts it and
// inserts the tree into the tool cache, falling back to legacy loose-file layouts when
// the archive does not exist.
package install

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/conn-castle/nodeup/internal/messages"
	"github.com/conn-castle/nodeup/internal/platform"
	"github.com/conn-castle/nodeup/internal/transport"
	"github.com/conn-castle/nodeup/internal/version"
)

// ToolName is the cache key tool name.
const ToolName = "node"

var (
	osMkdirTemp = os.MkdirTemp
	osChmod     = os.Chmod
)

// Downloader fetches a URL into a temporary file.
type Downloader interface {
	Download(ctx context.Context, url string, dir string) transport.Result
}

// Extractor unpacks archives.
type Extractor interface {
	ExtractTarGz(ctx context.Context, file string, dest string) (string, error)
	Extract7z(ctx context.Context, file string, dest string, sevenZip string) (string, error)
}

// Cache inserts installed trees.
type Cache interface {
	CacheDir(src string, tool string, version string, arch string) (string, error)
}

// Options configures an Installer.
type Options struct {
	Platform   platform.Info
	Mirror     string
	Downloader Downloader
	Extractor  Extractor
	Cache      Cache
	// SevenZip is the 7-Zip binary used for .7z archives; empty searches PATH.
	SevenZip string
	// TempDir holds downloads and extraction trees; empty uses os.TempDir.
	TempDir string
	// Layouts are consulted, in order, when the primary archive is missing.
	// Nil uses DefaultLayouts.
	Layouts []LegacyLayout
	Out     io.Writer
}

// Installer acquires releases for one platform.
type Installer struct {
	platform   platform.Info
	mirror     string
	downloader Downloader
	extractor  Extractor
	cache      Cache
	sevenZip   string
	tempDir    string
	layouts    []LegacyLayout
	out        io.Writer
}

// New returns an Installer for opts.
func New(opts Options) *Installer {
	layouts := opts.Layouts
	if layouts == nil {
		layouts = DefaultLayouts()
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	return &Installer{
		platform:   opts.Platform,
		mirror:     strings.TrimRight(opts.Mirror, "/"),
		downloader: opts.Downloader,
		extractor:  opts.Extractor,
		cache:      opts.Cache,
		sevenZip:   opts.SevenZip,
		tempDir:    opts.TempDir,
		layouts:    layouts,
		out:        out,
	}
}

// FileName returns the archive stem for ver, which is also the archive's top-level directory.
func (i *Installer) FileName(ver string) string {
	return fmt.Sprintf("node-v%s-%s-%s", ver, i.platform.DistName(), i.platform.Arch)
}

// ArchiveURL returns the primary archive location for ver.
func (i *Installer) ArchiveURL(ver string) string {
	return fmt.Sprintf("%s/v%s/%s.%s", i.mirror, ver, i.FileName(ver), i.platform.ArchiveExt())
}

// Acquire downloads, extracts and caches ver, returning the installed root.
// A missing primary archive hands off to the legacy layouts.
func (i *Installer) Acquire(ctx context.Context, ver string) (string, error) {
	normalized, err := version.Normalize(ver)
	if err != nil {
		return "", err
	}

	url := i.ArchiveURL(normalized)
	_, _ = fmt.Fprintf(i.out, messages.InstallDownloadingFmt, url)
	res := i.downloader.Download(ctx, url, i.tempDir)
	switch res.Status {
	case transport.StatusOK:
	case transport.StatusNotFound:
		_, _ = fmt.Fprintf(i.out, messages.InstallArchiveMissingFmt, normalized)
		return i.acquireLegacy(ctx, normalized, res.Err)
	default:
		return "", res.Err
	}
	defer func() { _ = os.Remove(res.Path) }()

	extractDir, err := osMkdirTemp(i.tempDir, "node-extract-*")
	if err != nil {
		return "", fmt.Errorf(messages.InstallCreateTempDirFmt, err)
	}
	defer func(dir string) { _ = os.RemoveAll(dir) }(extractDir)
	_, _ = fmt.Fprintf(i.out, messages.InstallExtractingFmt, normalized)
	if i.platform.OS == platform.Windows {
		extractDir, err = i.extractor.Extract7z(ctx, res.Path, extractDir, i.sevenZip)
	} else {
		extractDir, err = i.extractor.ExtractTarGz(ctx, res.Path, extractDir)
	}
	if err != nil {
		return "", err
	}

	root := filepath.Join(extractDir, i.FileName(normalized))
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return "", fmt.Errorf(messages.InstallArchiveLayoutFmt, i.FileName(normalized), extractDir)
	}
	_, _ = fmt.Fprintf(i.out, messages.InstallCachingFmt, normalized)
	return i.cache.CacheDir(root, ToolName, normalized, i.platform.Arch)
}

// layoutFor returns the first legacy layout covering ver on this platform.
func (i *Installer) layoutFor(ver string) (LegacyLayout, bool) {
	for _, l := range i.layouts {
		if l.Applies(i.platform, ver) {
			return l, true
		}
	}
	return LegacyLayout{}, false
}

// acquireLegacy installs ver from loose files. notFound is the primary archive's
// 404 and is returned unchanged when no layout applies.
func (i *Installer) acquireLegacy(ctx context.Context, ver string, notFound error) (string, error) {
	layout, ok := i.layoutFor(ver)
	if !ok {
		return "", notFound
	}

	workDir, err := osMkdirTemp(i.tempDir, "node-legacy-*")
	if err != nil {
		return "", fmt.Errorf(messages.InstallCreateTempDirFmt, err)
	}
	defer func() { _ = os.RemoveAll(workDir) }()
	// MkdirTemp creates 0700; cached entries are world-readable like extracted archives.
	if err := osChmod(workDir, 0o755); err != nil {
		return "", fmt.Errorf(messages.InstallChmodFmt, workDir, err)
	}

	var downloaded []string
	lastErr := notFound
	for _, base := range layout.baseURLs(i.mirror, ver, i.platform) {
		paths, res := i.downloadFiles(ctx, base, layout.Files)
		if res.Status == transport.StatusOK {
			downloaded = paths
			break
		}
		if !res.NotFound() {
			return "", res.Err
		}
		lastErr = res.Err
	}
	if downloaded == nil {
		return "", lastErr
	}

	for idx, f := range layout.Files {
		err := copyFile(downloaded[idx], filepath.Join(workDir, f.Local))
		_ = os.Remove(downloaded[idx])
		if err != nil {
			return "", err
		}
	}
	_, _ = fmt.Fprintf(i.out, messages.InstallCachingFmt, ver)
	return i.cache.CacheDir(workDir, ToolName, ver, i.platform.Arch)
}

// downloadFiles fetches every file under base. On the first failure the files already
// fetched are removed and that failure is returned.
func (i *Installer) downloadFiles(ctx context.Context, base string, files []LegacyFile) ([]string, transport.Result) {
	paths := make([]string, 0, len(files))
	for _, f := range files {
		url := base + "/" + f.Remote
		_, _ = fmt.Fprintf(i.out, messages.InstallDownloadingFmt, url)
		res := i.downloader.Download(ctx, url, i.tempDir)
		if res.Status != transport.StatusOK {
			for _, p := range paths {
				_ = os.Remove(p)
			}
			return nil, res
		}
		paths = append(paths, res.Path)
	}
	return paths, transport.Result{Status: transport.StatusOK}
}

func copyFile(src string, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf(messages.InstallCopyFileFmt, src, err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o755)
	if err != nil {
		return fmt.Errorf(messages.InstallCopyFileFmt, src, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf(messages.InstallCopyFileFmt, src, err)
	}
	return out.Close()
}

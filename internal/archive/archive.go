// Package archive unpacks downloaded distributions.
package archive

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/conn-castle/nodeup/internal/messages"
)

var (
	lookPath    = exec.LookPath
	osMkdirTemp = os.MkdirTemp
)

// sevenZipCandidates are tried on PATH when no explicit 7-Zip binary is configured.
var sevenZipCandidates = []string{"7z", "7zr", "7za"}

// Extractor unpacks tar.gz archives in-process and 7z archives through an
// external 7-Zip binary.
type Extractor struct {
	runner Runner
	out    io.Writer
}

// New returns an Extractor. out receives 7-Zip progress output and may be nil.
func New(runner Runner, out io.Writer) *Extractor {
	if runner == nil {
		runner = CmdRunner{}
	}
	return &Extractor{runner: runner, out: out}
}

// targetDir returns dest, or a fresh temporary directory when dest is empty.
func targetDir(dest string) (string, error) {
	if dest != "" {
		if err := os.MkdirAll(dest, 0o755); err != nil {
			return "", fmt.Errorf(messages.ArchiveCreateDirFmt, dest, err)
		}
		return dest, nil
	}
	dir, err := osMkdirTemp("", "nodeup-extract-*")
	if err != nil {
		return "", fmt.Errorf(messages.ArchiveCreateDirFmt, "temp", err)
	}
	return dir, nil
}

// ExtractTarGz unpacks a gzip-compressed tarball into dest (a new temporary
// directory when empty) and returns the directory.
func (e *Extractor) ExtractTarGz(_ context.Context, file string, dest string) (string, error) {
	dir, err := targetDir(dest)
	if err != nil {
		return "", err
	}

	f, err := os.Open(file)
	if err != nil {
		return "", fmt.Errorf(messages.ArchiveOpenFmt, file, err)
	}
	defer func() { _ = f.Close() }()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return "", fmt.Errorf(messages.ArchiveReadFmt, file, err)
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf(messages.ArchiveReadFmt, file, err)
		}
		if err := writeEntry(dir, hdr, tr); err != nil {
			return "", err
		}
	}
	return dir, nil
}

// writeEntry materializes one tar header under root.
func writeEntry(root string, hdr *tar.Header, r io.Reader) error {
	target, err := within(root, hdr.Name)
	if err != nil {
		return err
	}
	mode := os.FileMode(hdr.Mode).Perm()

	switch hdr.Typeflag {
	case tar.TypeDir:
		return os.MkdirAll(target, 0o755)
	case tar.TypeReg:
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf(messages.ArchiveCreateDirFmt, filepath.Dir(target), err)
		}
		out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode|0o200)
		if err != nil {
			return fmt.Errorf(messages.ArchiveWriteFmt, target, err)
		}
		if _, err := io.Copy(out, r); err != nil {
			_ = out.Close()
			return fmt.Errorf(messages.ArchiveWriteFmt, target, err)
		}
		return out.Close()
	case tar.TypeSymlink:
		if filepath.IsAbs(hdr.Linkname) {
			return fmt.Errorf(messages.ArchiveUnsafeLinkFmt, hdr.Name, hdr.Linkname)
		}
		if _, err := within(root, filepath.Join(filepath.Dir(hdr.Name), hdr.Linkname)); err != nil {
			return fmt.Errorf(messages.ArchiveUnsafeLinkFmt, hdr.Name, hdr.Linkname)
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf(messages.ArchiveCreateDirFmt, filepath.Dir(target), err)
		}
		_ = os.Remove(target)
		return os.Symlink(hdr.Linkname, target)
	case tar.TypeLink:
		source, err := within(root, hdr.Linkname)
		if err != nil {
			return fmt.Errorf(messages.ArchiveUnsafeLinkFmt, hdr.Name, hdr.Linkname)
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf(messages.ArchiveCreateDirFmt, filepath.Dir(target), err)
		}
		_ = os.Remove(target)
		return os.Link(source, target)
	default:
		return nil
	}
}

// within joins name onto root and rejects results that escape root.
func within(root string, name string) (string, error) {
	target := filepath.Join(root, filepath.FromSlash(name))
	rel, err := filepath.Rel(root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf(messages.ArchiveUnsafePathFmt, name)
	}
	return target, nil
}

// Extract7z unpacks a 7z archive into dest (a new temporary directory when empty)
// using the 7-Zip binary at sevenZip, or the first 7-Zip found on PATH when empty.
func (e *Extractor) Extract7z(ctx context.Context, file string, dest string, sevenZip string) (string, error) {
	bin, err := SevenZipPath(sevenZip)
	if err != nil {
		return "", err
	}
	dir, err := targetDir(dest)
	if err != nil {
		return "", err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	args := []string{"x", "-bb1", "-bd", "-sccUTF-8", "-y", "-o" + dir, file}
	res, err := e.runner.Run(ctx, bin, args, e.out)
	if err != nil {
		return "", fmt.Errorf(messages.Archive7zFailedFmt, file, err, strings.TrimSpace(string(res.Stderr)))
	}
	return dir, nil
}

// SevenZipPath returns configured when set, otherwise the first 7-Zip binary on PATH.
func SevenZipPath(configured string) (string, error) {
	if strings.TrimSpace(configured) != "" {
		return configured, nil
	}
	for _, name := range sevenZipCandidates {
		if p, err := lookPath(name); err == nil {
			return p, nil
		}
	}
	return "", errors.New(messages.Archive7zNotFound)
}

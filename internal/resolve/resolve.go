// Package resolve turns a version spec into an installed executable directory.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/conn-castle/nodeup/internal/catalog"
	"github.com/conn-castle/nodeup/internal/install"
	"github.com/conn-castle/nodeup/internal/messages"
	"github.com/conn-castle/nodeup/internal/platform"
	"github.com/conn-castle/nodeup/internal/version"
)

// NotFoundError reports that no published version satisfies the spec on this platform.
type NotFoundError struct {
	Spec string
	OS   string
	Arch string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf(messages.ResolveNotFoundFmt, e.Spec, e.OS, e.Arch)
}

// Cache looks up installed versions.
type Cache interface {
	Find(tool string, spec string, arch string) (string, bool, error)
}

// Catalog lists the releases published for the current platform.
type Catalog interface {
	Available(ctx context.Context) ([]catalog.Entry, error)
}

// Acquirer installs an exact version and returns its root.
type Acquirer interface {
	Acquire(ctx context.Context, version string) (string, error)
}

// Options configures a Resolver.
type Options struct {
	Platform  platform.Info
	Cache     Cache
	Catalog   Catalog
	Installer Acquirer
	// CheckLatest skips the initial cache lookup for non-exact specs.
	CheckLatest bool
	Out         io.Writer
	Warn        io.Writer
}

// Resolver orchestrates cache lookup, catalog matching and acquisition.
type Resolver struct {
	platform    platform.Info
	cache       Cache
	catalog     Catalog
	installer   Acquirer
	checkLatest bool
	out         io.Writer
	warn        io.Writer
}

// Result describes a resolved installation.
type Result struct {
	// Version is the exact version installed, or the literal spec on a first-lookup cache hit.
	Version string
	Root    string
	ExecDir string
	Cached  bool
}

// New returns a Resolver for opts.
func New(opts Options) *Resolver {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	warn := opts.Warn
	if warn == nil {
		warn = io.Discard
	}
	return &Resolver{
		platform:    opts.Platform,
		cache:       opts.Cache,
		catalog:     opts.Catalog,
		installer:   opts.Installer,
		checkLatest: opts.CheckLatest,
		out:         out,
		warn:        warn,
	}
}

// Resolve returns the executable directory of an installation satisfying spec,
// installing it first when needed.
func (r *Resolver) Resolve(ctx context.Context, spec string) (string, error) {
	res, err := r.ResolveDetailed(ctx, spec)
	if err != nil {
		return "", err
	}
	return res.ExecDir, nil
}

// ResolveDetailed is Resolve with the resolved version and install root.
func (r *Resolver) ResolveDetailed(ctx context.Context, spec string) (Result, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Result{}, errors.New(messages.ResolveSpecRequired)
	}
	exact := version.IsExact(spec)
	arch := r.platform.Arch

	if exact || !r.checkLatest {
		root, ok, err := r.cache.Find(install.ToolName, spec, arch)
		if err != nil {
			return Result{}, err
		}
		if ok {
			_, _ = fmt.Fprintf(r.out, messages.ResolveFoundInCacheFmt, root)
			return r.result(spec, root, true), nil
		}
	}

	target := spec
	if !exact {
		matched, err := r.match(ctx, spec)
		if err != nil {
			return Result{}, err
		}
		target = matched
	}

	normalized, err := canonical(target)
	if err != nil {
		return Result{}, err
	}
	if normalized != spec {
		root, ok, err := r.cache.Find(install.ToolName, normalized, arch)
		if err != nil {
			return Result{}, err
		}
		if ok {
			_, _ = fmt.Fprintf(r.out, messages.ResolveFoundInCacheFmt, root)
			return r.result(normalized, root, true), nil
		}
	}

	_, _ = fmt.Fprintf(r.out, messages.ResolveAcquiringFmt, normalized, r.platform)
	root, err := r.installer.Acquire(ctx, normalized)
	if err != nil {
		return Result{}, err
	}
	return r.result(normalized, root, false), nil
}

// match queries the catalog and selects the best version for spec.
func (r *Resolver) match(ctx context.Context, spec string) (string, error) {
	_, _ = fmt.Fprintf(r.out, messages.ResolveQueryingCatalogFmt, spec)
	entries, err := r.catalog.Available(ctx)
	if err != nil {
		return "", err
	}
	matched, err := catalog.Match(entries, spec, r.warn)
	if err != nil {
		return "", err
	}
	if matched == "" {
		return "", &NotFoundError{Spec: spec, OS: r.platform.OS, Arch: r.platform.Arch}
	}
	_, _ = fmt.Fprintf(r.out, messages.ResolveMatchedFmt, spec, matched)
	return matched, nil
}

func (r *Resolver) result(ver, root string, cached bool) Result {
	return Result{Version: ver, Root: root, ExecDir: r.platform.ExecDir(root), Cached: cached}
}

// canonical normalizes an exact version, falling back to coercion for loosely
// formatted catalog strings.
func canonical(raw string) (string, error) {
	if normalized, err := version.Normalize(raw); err == nil {
		return normalized, nil
	}
	v, err := version.Coerce(raw)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

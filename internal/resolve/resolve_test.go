package resolve

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/conn-castle/nodeup/internal/catalog"
	"github.com/conn-castle/nodeup/internal/platform"
	"github.com/conn-castle/nodeup/internal/toolcache"
)

var linuxX64 = platform.Info{OS: platform.Linux, Arch: "x64"}

// recordingCache is an in-memory exact-key cache that records every call.
type recordingCache struct {
	entries map[string]string
	finds   []string
	inserts []string
	err     error
}

func newRecordingCache() *recordingCache {
	return &recordingCache{entries: map[string]string{}}
}

func (c *recordingCache) Find(tool, spec, arch string) (string, bool, error) {
	c.finds = append(c.finds, spec)
	if c.err != nil {
		return "", false, c.err
	}
	p, ok := c.entries[tool+"/"+spec+"/"+arch]
	return p, ok, nil
}

func (c *recordingCache) insert(tool, ver, arch string) string {
	c.inserts = append(c.inserts, ver)
	p := filepath.Join("/cache", tool, ver, arch)
	c.entries[tool+"/"+ver+"/"+arch] = p
	return p
}

type fakeCatalog struct {
	entries []catalog.Entry
	err     error
	calls   int
}

func (f *fakeCatalog) Available(context.Context) ([]catalog.Entry, error) {
	f.calls++
	return f.entries, f.err
}

type fakeInstaller struct {
	cache *recordingCache
	arch  string
	calls []string
	err   error
}

func (f *fakeInstaller) Acquire(_ context.Context, ver string) (string, error) {
	f.calls = append(f.calls, ver)
	if f.err != nil {
		return "", f.err
	}
	return f.cache.insert("node", ver, f.arch), nil
}

func entry(v, date string) catalog.Entry {
	d, _ := time.Parse("2006-01-02", date)
	return catalog.Entry{Version: v, ReleaseDate: d, Files: []string{"linux-x64"}}
}

func newResolver(p platform.Info, cache *recordingCache, cat *fakeCatalog, inst *fakeInstaller, checkLatest bool) *Resolver {
	return New(Options{Platform: p, Cache: cache, Catalog: cat, Installer: inst, CheckLatest: checkLatest})
}

func TestResolveExactNeverFetchesCatalog(t *testing.T) {
	cache := newRecordingCache()
	cat := &fakeCatalog{}
	inst := &fakeInstaller{cache: cache, arch: "x64"}
	r := newResolver(linuxX64, cache, cat, inst, false)

	dir, err := r.Resolve(context.Background(), "16.2.0")
	require.NoError(t, err)
	require.Equal(t, filepath.Join("/cache", "node", "16.2.0", "x64", "bin"), dir)
	require.Zero(t, cat.calls)
	require.Equal(t, []string{"16.2.0"}, inst.calls)
}

func TestResolveTwiceAcquiresOnce(t *testing.T) {
	cache := newRecordingCache()
	cat := &fakeCatalog{}
	inst := &fakeInstaller{cache: cache, arch: "x64"}
	r := newResolver(linuxX64, cache, cat, inst, false)

	first, err := r.Resolve(context.Background(), "16.2.0")
	require.NoError(t, err)
	second, err := r.Resolve(context.Background(), "16.2.0")
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Len(t, inst.calls, 1)
	require.Equal(t, []string{"16.2.0"}, cache.inserts)
	require.Equal(t, []string{"16.2.0", "16.2.0"}, cache.finds)
}

func TestResolveRangeUsesCatalog(t *testing.T) {
	cache := newRecordingCache()
	cat := &fakeCatalog{entries: []catalog.Entry{
		entry("v12.0.0", "2020-01-01"),
		entry("v12.1.0", "2019-06-01"),
	}}
	inst := &fakeInstaller{cache: cache, arch: "x64"}
	r := newResolver(linuxX64, cache, cat, inst, false)

	res, err := r.ResolveDetailed(context.Background(), "^12.0.0")
	require.NoError(t, err)
	require.Equal(t, "12.1.0", res.Version)
	require.False(t, res.Cached)
	require.Equal(t, []string{"12.1.0"}, inst.calls)
	require.Equal(t, []string{"^12.0.0", "12.1.0"}, cache.finds)
}

func TestResolveRangeHitsCacheByResolvedVersion(t *testing.T) {
	cache := newRecordingCache()
	cache.entries["node/12.1.0/x64"] = "/cache/node/12.1.0/x64"
	cat := &fakeCatalog{entries: []catalog.Entry{entry("v12.1.0", "2019-06-01")}}
	inst := &fakeInstaller{cache: cache, arch: "x64"}
	r := newResolver(linuxX64, cache, cat, inst, false)

	res, err := r.ResolveDetailed(context.Background(), "12.x")
	require.NoError(t, err)
	require.True(t, res.Cached)
	require.Equal(t, "/cache/node/12.1.0/x64", res.Root)
	require.Empty(t, inst.calls)
}

func TestResolveLiteralCacheHitSkipsEverything(t *testing.T) {
	cache := newRecordingCache()
	cache.entries["node/14/x64"] = "/cache/node/14.17.0/x64"
	cat := &fakeCatalog{}
	inst := &fakeInstaller{cache: cache, arch: "x64"}
	r := newResolver(linuxX64, cache, cat, inst, false)

	dir, err := r.Resolve(context.Background(), "14")
	require.NoError(t, err)
	require.Equal(t, filepath.Join("/cache/node/14.17.0/x64", "bin"), dir)
	require.Zero(t, cat.calls)
	require.Empty(t, inst.calls)
}

func TestResolveCheckLatestSkipsLiteralLookup(t *testing.T) {
	cache := newRecordingCache()
	cache.entries["node/14/x64"] = "/cache/node/14.16.0/x64"
	cat := &fakeCatalog{entries: []catalog.Entry{entry("v14.17.0", "2021-05-11")}}
	inst := &fakeInstaller{cache: cache, arch: "x64"}
	r := newResolver(linuxX64, cache, cat, inst, true)

	res, err := r.ResolveDetailed(context.Background(), "14")
	require.NoError(t, err)
	require.Equal(t, "14.17.0", res.Version)
	require.Equal(t, 1, cat.calls)
	require.Equal(t, []string{"14.17.0"}, cache.finds)
}

func TestResolveNotFound(t *testing.T) {
	cache := newRecordingCache()
	cat := &fakeCatalog{entries: []catalog.Entry{entry("v14.16.0", "2021-02-23")}}
	inst := &fakeInstaller{cache: cache, arch: "x64"}
	r := newResolver(linuxX64, cache, cat, inst, false)

	_, err := r.Resolve(context.Background(), "14.17.x")
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf), "expected NotFoundError, got %v", err)
	for _, want := range []string{"14.17.x", "linux", "x64"} {
		require.True(t, strings.Contains(err.Error(), want), "error %q missing %q", err, want)
	}
	require.Empty(t, inst.calls)
}

func TestResolveWindowsExecDirIsRoot(t *testing.T) {
	win := platform.Info{OS: platform.Windows, Arch: "x64"}
	cache := newRecordingCache()
	inst := &fakeInstaller{cache: cache, arch: "x64"}
	r := newResolver(win, cache, &fakeCatalog{}, inst, false)

	dir, err := r.Resolve(context.Background(), "v8.0.0")
	require.NoError(t, err)
	require.Equal(t, filepath.Join("/cache", "node", "8.0.0", "x64"), dir)
	require.Equal(t, []string{"8.0.0"}, inst.calls)
}

func TestResolvePropagatesErrors(t *testing.T) {
	t.Run("cache", func(t *testing.T) {
		cache := newRecordingCache()
		cache.err = errors.New("permission denied")
		r := newResolver(linuxX64, cache, &fakeCatalog{}, &fakeInstaller{cache: cache}, false)
		_, err := r.Resolve(context.Background(), "16.2.0")
		require.ErrorContains(t, err, "permission denied")
	})
	t.Run("catalog", func(t *testing.T) {
		cache := newRecordingCache()
		r := newResolver(linuxX64, cache, &fakeCatalog{err: errors.New("offline")}, &fakeInstaller{cache: cache}, false)
		_, err := r.Resolve(context.Background(), "^16")
		require.ErrorContains(t, err, "offline")
	})
	t.Run("installer", func(t *testing.T) {
		cache := newRecordingCache()
		r := newResolver(linuxX64, cache, &fakeCatalog{}, &fakeInstaller{cache: cache, err: errors.New("disk full")}, false)
		_, err := r.Resolve(context.Background(), "16.2.0")
		require.ErrorContains(t, err, "disk full")
	})
	t.Run("empty spec", func(t *testing.T) {
		cache := newRecordingCache()
		r := newResolver(linuxX64, cache, &fakeCatalog{}, &fakeInstaller{cache: cache}, false)
		_, err := r.Resolve(context.Background(), "  ")
		require.Error(t, err)
	})
}

func TestResolveWithRealToolCache(t *testing.T) {
	cache := toolcache.New(t.TempDir())
	cat := &fakeCatalog{}
	acquired := 0
	inst := acquirerFunc(func(_ context.Context, ver string) (string, error) {
		acquired++
		return cache.CacheDir(t.TempDir(), "node", ver, "x64")
	})
	r := New(Options{Platform: linuxX64, Cache: cache, Catalog: cat, Installer: inst})

	for i := 0; i < 2; i++ {
		dir, err := r.Resolve(context.Background(), "v16.2.0")
		require.NoError(t, err)
		require.Equal(t, filepath.Join(cache.Root(), "node", "16.2.0", "x64", "bin"), dir)
	}
	require.Equal(t, 1, acquired)
	require.Zero(t, cat.calls)
}

type acquirerFunc func(ctx context.Context, ver string) (string, error)

func (f acquirerFunc) Acquire(ctx context.Context, ver string) (string, error) {
	return f(ctx, ver)
}

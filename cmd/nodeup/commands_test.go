package main

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/conn-castle/nodeup/internal/platform"
	"github.com/conn-castle/nodeup/internal/testutil"
	"github.com/conn-castle/nodeup/internal/toolcache"
)

type fakePathSystem struct {
	env map[string]string
}

func (s *fakePathSystem) Getenv(key string) string { return s.env[key] }

func (s *fakePathSystem) Setenv(key string, value string) error {
	s.env[key] = value
	return nil
}

func (s *fakePathSystem) AppendFile(string, []byte) error { return nil }

// cliEnv isolates a command run from the host config, environment and PATH.
type cliEnv struct {
	cacheDir   string
	configPath string
	path       *fakePathSystem
	platform   platform.Info
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	origGetenv, origPath := getenv, pathSystem
	t.Cleanup(func() {
		getenv = origGetenv
		pathSystem = origPath
	})
	getenv = func(string) string { return "" }
	fake := &fakePathSystem{env: map[string]string{}}
	pathSystem = fake

	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, nil, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	p, err := platform.Current("x64")
	if err != nil {
		t.Skipf("host platform unsupported: %v", err)
	}
	return &cliEnv{cacheDir: t.TempDir(), configPath: configPath, path: fake, platform: p}
}

func (e *cliEnv) run(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	full := append([]string{"nodeup"}, args...)
	full = append(full, "--config", e.configPath, "--cache-dir", e.cacheDir, "--arch", "x64")
	err := execute(full, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func (e *cliEnv) seed(t *testing.T, ver string) string {
	t.Helper()
	src := t.TempDir()
	if err := os.MkdirAll(filepath.Join(src, "bin"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	root, err := toolcache.New(e.cacheDir).CacheDir(src, "node", ver, "x64")
	if err != nil {
		t.Fatalf("seed cache: %v", err)
	}
	return root
}

func TestInstallFromCache(t *testing.T) {
	env := newCLIEnv(t)
	root := env.seed(t, "16.2.0")

	stdout, stderr, err := env.run("install", "16.2.0")
	require.NoError(t, err)
	require.Equal(t, env.platform.ExecDir(root)+"\n", stdout)
	require.Contains(t, stderr, "Found in cache")
	require.True(t, strings.HasPrefix(env.path.env["PATH"], env.platform.ExecDir(root)))
}

func TestInstallQuietAndNoPath(t *testing.T) {
	env := newCLIEnv(t)
	env.seed(t, "16.2.0")

	_, stderr, err := env.run("install", "v16.2.0", "--quiet", "--no-path")
	require.NoError(t, err)
	require.Empty(t, stderr)
	require.Empty(t, env.path.env["PATH"])
}

func TestInstallFromVersionFile(t *testing.T) {
	env := newCLIEnv(t)
	root := env.seed(t, "18.12.1")
	file := filepath.Join(t.TempDir(), ".nvmrc")
	require.NoError(t, os.WriteFile(file, []byte("v18.12.1 # hydrogen\n"), 0o644))

	stdout, stderr, err := env.run("install", "--version-file", file)
	require.NoError(t, err)
	require.Equal(t, env.platform.ExecDir(root)+"\n", stdout)
	require.Contains(t, stderr, "ignoring trailing comment")
}

func TestInstallSpecErrors(t *testing.T) {
	env := newCLIEnv(t)

	_, _, err := env.run("install", "16", "--version-file", "x")
	require.ErrorContains(t, err, "mutually exclusive")
}

func TestInstallInvalidMirrorFlag(t *testing.T) {
	env := newCLIEnv(t)
	_, _, err := env.run("install", "16.2.0", "--mirror", "file:///tmp/dist")
	require.ErrorContains(t, err, "node.mirror must be")
}

func TestInstallRangeNotFound(t *testing.T) {
	env := newCLIEnv(t)
	server := catalogServer(t, env.platform, `{"version":"v14.16.0","date":"2021-02-23","files":[%q],"lts":"Fermium"}`)

	_, _, err := env.run("install", "14.17.x", "--mirror", server.URL)
	require.Error(t, err)
	require.Contains(t, err.Error(), "14.17.x")
	require.Contains(t, err.Error(), env.platform.OS)
	require.Contains(t, err.Error(), "x64")
}

func TestLs(t *testing.T) {
	env := newCLIEnv(t)

	stdout, _, err := env.run("ls")
	require.NoError(t, err)
	require.Contains(t, stdout, "no versions cached")

	env.seed(t, "18.0.0")
	env.seed(t, "16.2.0")
	stdout, _, err = env.run("ls")
	require.NoError(t, err)
	require.Equal(t, "16.2.0\n18.0.0\n", stdout)
}

func TestLsRemote(t *testing.T) {
	env := newCLIEnv(t)
	server := catalogServer(t, env.platform,
		`{"version":"v16.2.0","date":"2021-05-19","files":[%q],"lts":false}`,
		`{"version":"v18.0.0","date":"2022-04-19","files":[%q],"lts":"Hydrogen"}`,
		`{"version":"v17.0.0","date":"2021-10-19","files":["aix-ppc64"],"lts":false}`,
	)

	stdout, _, err := env.run("ls-remote", "--mirror", server.URL)
	require.NoError(t, err)
	require.Equal(t, "v18.0.0 (LTS: Hydrogen)\nv16.2.0\n", stdout)

	stdout, _, err = env.run("ls-remote", "16", "--mirror", server.URL)
	require.NoError(t, err)
	require.Equal(t, "v16.2.0\n", stdout)

	_, _, err = env.run("ls-remote", "20", "--mirror", server.URL)
	require.ErrorContains(t, err, "no published version")
}

// catalogServer serves index.json built from entry templates; each %q receives the
// platform's asset id.
func catalogServer(t *testing.T, p platform.Info, entries ...string) *httptest.Server {
	t.Helper()
	rendered := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(e, "%q") {
			e = fmt.Sprintf(e, p.AssetID())
		}
		rendered = append(rendered, e)
	}
	body := "[" + strings.Join(rendered, ",") + "]"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/index.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestInstallDiscoversVersionFile(t *testing.T) {
	env := newCLIEnv(t)
	root := env.seed(t, "20.1.0")
	project := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(project, ".nvmrc"), []byte("20.1.0\n"), 0o644))
	sub := filepath.Join(project, "src")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	var (
		stdout, stderr string
		err            error
	)
	testutil.WithWorkingDir(t, sub, func() {
		stdout, stderr, err = env.run("install")
	})
	require.NoError(t, err)
	require.Equal(t, env.platform.ExecDir(root)+"\n", stdout)
	require.Contains(t, stderr, "Using version file")
}

func TestInstallWithoutSpecOrVersionFile(t *testing.T) {
	env := newCLIEnv(t)
	orig := getwd
	t.Cleanup(func() { getwd = orig })
	dir := t.TempDir()
	getwd = func() (string, error) { return dir, nil }

	_, _, err := env.run("install")
	require.ErrorContains(t, err, "no version spec given")
}

func TestInstallGetwdError(t *testing.T) {
	env := newCLIEnv(t)
	orig := getwd
	t.Cleanup(func() { getwd = orig })
	getwd = func() (string, error) { return "", errors.New("getwd failed") }

	_, _, err := env.run("install")
	require.ErrorContains(t, err, "getwd failed")
}

func TestInstallDownloadsFromMirror(t *testing.T) {
	env := newCLIEnv(t)
	if env.platform.OS == platform.Windows {
		t.Skip("windows releases are 7z archives")
	}
	stem := fmt.Sprintf("node-v18.0.0-%s-x64", env.platform.DistName())
	tarball := testutil.TarGz(t, []testutil.TarEntry{
		{Name: stem + "/bin/node", Body: "#!/bin/sh\n", Mode: 0o755},
	})
	index := fmt.Sprintf(`[{"version":"v18.0.0","date":"2022-04-19","files":[%q],"lts":false},`+
		`{"version":"v17.9.0","date":"2022-04-07","files":[%q],"lts":false}]`, env.platform.AssetID(), env.platform.AssetID())
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/index.json":
			_, _ = w.Write([]byte(index))
		case "/v18.0.0/" + stem + ".tar.gz":
			_, _ = w.Write(tarball)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	stdout, stderr, err := env.run("install", ">=17", "--mirror", server.URL)
	require.NoError(t, err)
	root := filepath.Join(env.cacheDir, "node", "18.0.0", "x64")
	require.Equal(t, env.platform.ExecDir(root)+"\n", stdout)
	require.Contains(t, stderr, "Resolved >=17 to v18.0.0")
	require.FileExists(t, filepath.Join(root, "bin", "node"))

	stdout, _, err = env.run("ls")
	require.NoError(t, err)
	require.Equal(t, "18.0.0\n", stdout)
}

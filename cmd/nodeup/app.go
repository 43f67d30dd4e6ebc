package main

import (
	"io"
	"os"
	"strings"

	"github.com/conn-castle/nodeup/internal/archive"
	"github.com/conn-castle/nodeup/internal/catalog"
	"github.com/conn-castle/nodeup/internal/config"
	"github.com/conn-castle/nodeup/internal/install"
	"github.com/conn-castle/nodeup/internal/messages"
	"github.com/conn-castle/nodeup/internal/pathenv"
	"github.com/conn-castle/nodeup/internal/platform"
	"github.com/conn-castle/nodeup/internal/resolve"
	"github.com/conn-castle/nodeup/internal/toolcache"
	"github.com/conn-castle/nodeup/internal/transport"
)

var (
	getenv                    = os.Getenv
	pathSystem pathenv.System = pathenv.RealSystem{}
)

// app wires the resolution pipeline from config, environment and flags.
type app struct {
	cfg       *config.Config
	platform  platform.Info
	cache     *toolcache.Cache
	catalog   *catalog.Client
	installer *install.Installer
	out       io.Writer
	warn      io.Writer
}

func newApp(opts *rootOptions, stderr io.Writer) (*app, error) {
	cfg, err := config.Load(opts.configPath, getenv)
	if err != nil {
		return nil, err
	}
	if err := applyFlags(cfg, opts); err != nil {
		return nil, err
	}

	p, err := platform.Current(cfg.Node.Arch)
	if err != nil {
		return nil, err
	}
	cacheDir, err := cfg.CacheDir()
	if err != nil {
		return nil, err
	}

	out := stderr
	if opts.quiet {
		out = io.Discard
	}
	client := transport.New(transport.Options{
		Timeout:  cfg.DownloadTimeout(),
		MaxBytes: cfg.Download.MaxBytes,
		Token:    cfg.Node.MirrorToken,
	})
	cache := toolcache.New(cacheDir)
	return &app{
		cfg:      cfg,
		platform: p,
		cache:    cache,
		catalog:  catalog.NewClient(cfg.Node.Mirror, client, p),
		installer: install.New(install.Options{
			Platform:   p,
			Mirror:     cfg.Node.Mirror,
			Downloader: client,
			Extractor:  archive.New(archive.CmdRunner{}, out),
			Cache:      cache,
			SevenZip:   cfg.Extract.SevenZip,
			Out:        out,
		}),
		out:  out,
		warn: stderr,
	}, nil
}

// applyFlags overlays explicitly set flags onto cfg and revalidates it.
func applyFlags(cfg *config.Config, opts *rootOptions) error {
	if v := strings.TrimSpace(opts.mirror); v != "" {
		cfg.Node.Mirror = v
	}
	if v := strings.TrimSpace(opts.arch); v != "" {
		cfg.Node.Arch = v
	}
	if v := strings.TrimSpace(opts.cacheDir); v != "" {
		cfg.Cache.Dir = v
	}
	if opts.checkLatest {
		cfg.Node.CheckLatest = true
	}
	return cfg.Validate(messages.ConfigFlagsSource)
}

func (a *app) resolver() *resolve.Resolver {
	return resolve.New(resolve.Options{
		Platform:    a.platform,
		Cache:       a.cache,
		Catalog:     a.catalog,
		Installer:   a.installer,
		CheckLatest: a.cfg.Node.CheckLatest,
		Out:         a.out,
		Warn:        a.warn,
	})
}

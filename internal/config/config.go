// Package config loads nodeup settings from a TOML file with environment overrides.
package config

import (
	"time"
)

const (
	// DefaultMirror is the release mirror used when none is configured.
	DefaultMirror = "https://nodejs.org/dist"
	// DefaultTimeout is the transport timeout used when none is configured.
	DefaultTimeout = "10m"
)

// Environment variables that override config file values.
const (
	EnvMirror      = "NODEUP_MIRROR"
	EnvMirrorToken = "NODEUP_MIRROR_TOKEN"
	EnvArch        = "NODEUP_ARCH"
	EnvCacheDir    = "NODEUP_CACHE_DIR"
	EnvCheckLatest = "NODEUP_CHECK_LATEST"
)

// Config is the parsed config.toml.
type Config struct {
	Node     NodeConfig     `toml:"node"`
	Cache    CacheConfig    `toml:"cache"`
	Download DownloadConfig `toml:"download"`
	Extract  ExtractConfig  `toml:"extract"`
}

// NodeConfig controls where releases come from and which platform they target.
type NodeConfig struct {
	Mirror      string `toml:"mirror"`
	MirrorToken string `toml:"mirror_token"`
	Arch        string `toml:"arch"`
	CheckLatest bool   `toml:"check_latest"`
}

// CacheConfig controls the on-disk tool cache.
type CacheConfig struct {
	Dir string `toml:"dir"`
}

// DownloadConfig controls the transport.
type DownloadConfig struct {
	Timeout  string `toml:"timeout"`
	MaxBytes int64  `toml:"max_bytes"`
}

// ExtractConfig controls archive extraction.
type ExtractConfig struct {
	SevenZip string `toml:"seven_zip"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Node:     NodeConfig{Mirror: DefaultMirror},
		Download: DownloadConfig{Timeout: DefaultTimeout},
	}
}

// DownloadTimeout returns the parsed transport timeout. Call Validate first.
func (c *Config) DownloadTimeout() time.Duration {
	d, err := time.ParseDuration(c.Download.Timeout)
	if err != nil {
		return 0
	}
	return d
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/conn-castle/nodeup/internal/messages"
)

const appDir = "nodeup"

var (
	userConfigDir = os.UserConfigDir
	userCacheDir  = os.UserCacheDir
	expandHome    = homedir.Expand
)

// DefaultPath returns <UserConfigDir>/nodeup/config.toml.
func DefaultPath() (string, error) {
	dir, err := userConfigDir()
	if err != nil {
		return "", fmt.Errorf(messages.ConfigResolveDirFmt, err)
	}
	return filepath.Join(dir, appDir, "config.toml"), nil
}

// ExpandPath expands a leading "~" in path.
func ExpandPath(path string) (string, error) {
	expanded, err := expandHome(path)
	if err != nil {
		return "", fmt.Errorf(messages.ConfigExpandPathFmt, path, err)
	}
	return expanded, nil
}

// CacheDir returns the configured tool cache root, defaulting to <UserCacheDir>/nodeup.
func (c *Config) CacheDir() (string, error) {
	if dir := strings.TrimSpace(c.Cache.Dir); dir != "" {
		return ExpandPath(dir)
	}
	base, err := userCacheDir()
	if err != nil {
		return "", fmt.Errorf(messages.ConfigResolveCacheDirFmt, err)
	}
	return filepath.Join(base, appDir), nil
}

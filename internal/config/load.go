package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/conn-castle/nodeup/internal/messages"
)

// ErrConfigValidation is a sentinel that wraps config validation failures
// (as opposed to TOML syntax or filesystem errors).
var ErrConfigValidation = errors.New("config validation failed")

var osReadFile = os.ReadFile

// Load reads the config file at path, applies environment overrides from env and
// validates the result. An empty path selects DefaultPath, which may be absent.
// A nil env disables environment overrides.
func Load(path string, env func(string) string) (*Config, error) {
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	data, err := osReadFile(path)
	switch {
	case err == nil:
		cfg, err = parse(data, path)
		if err != nil {
			return nil, err
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf(messages.ConfigReadFileFmt, path, err)
	}

	if env != nil {
		if err := cfg.ApplyEnv(env); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfigValidation, err)
		}
	}
	if err := cfg.Validate(path); err != nil {
		return nil, fmt.Errorf("%w: %w "+messages.ConfigValidationGuidance, ErrConfigValidation, err)
	}
	return cfg, nil
}

// Parse decodes config TOML data on top of the defaults and validates it.
// source is used in error messages.
func Parse(data []byte, source string) (*Config, error) {
	cfg, err := parse(data, source)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(source); err != nil {
		return nil, fmt.Errorf("%w: %w "+messages.ConfigValidationGuidance, ErrConfigValidation, err)
	}
	return cfg, nil
}

func parse(data []byte, source string) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf(messages.ConfigInvalidConfigFmt, source, err)
	}
	if err := decodeStrict(data); err != nil {
		return nil, fmt.Errorf("%w: "+messages.ConfigUnrecognizedKeysFmt+" "+messages.ConfigValidationGuidance, ErrConfigValidation, source, err)
	}
	return cfg, nil
}

// decodeStrict re-decodes the TOML data with strict unknown-field rejection.
func decodeStrict(data []byte) error {
	var cfg Config
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	return decoder.Decode(&cfg)
}

// ApplyEnv overlays non-empty NODEUP_* variables onto c.
func (c *Config) ApplyEnv(env func(string) string) error {
	if v := strings.TrimSpace(env(EnvMirror)); v != "" {
		c.Node.Mirror = v
	}
	if v := strings.TrimSpace(env(EnvMirrorToken)); v != "" {
		c.Node.MirrorToken = v
	}
	if v := strings.TrimSpace(env(EnvArch)); v != "" {
		c.Node.Arch = v
	}
	if v := strings.TrimSpace(env(EnvCacheDir)); v != "" {
		c.Cache.Dir = v
	}
	if v := strings.TrimSpace(env(EnvCheckLatest)); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf(messages.ConfigEnvBoolInvalidFmt, EnvCheckLatest, v)
		}
		c.Node.CheckLatest = parsed
	}
	return nil
}

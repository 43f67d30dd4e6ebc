package messages

// Config messages for configuration loading and validation.
const (
	// ConfigReadFileFmt formats config file read errors.
	ConfigReadFileFmt         = "read config file %s: %w"
	ConfigInvalidConfigFmt    = "invalid config %s: %w"
	ConfigUnrecognizedKeysFmt = "%s: unrecognized config keys: %w"
	ConfigResolveDirFmt       = "resolve user config dir: %w"
	ConfigResolveCacheDirFmt  = "resolve cache dir: %w"
	ConfigExpandPathFmt       = "expand %s: %w"

	ConfigMirrorRequiredFmt  = "%s: node.mirror is required"
	ConfigMirrorInvalidFmt   = "%s: node.mirror must be an http or https URL (got %q)"
	ConfigTimeoutInvalidFmt  = "%s: download.timeout must be a positive duration such as \"10m\" (got %q)"
	ConfigMaxBytesInvalidFmt = "%s: download.max_bytes must not be negative (got %d)"
	ConfigEnvBoolInvalidFmt  = "%s must be true or false (got %q)"

	// ConfigFlagsSource names command-line flags as a config source in validation errors.
	ConfigFlagsSource = "command-line flags"
	// ConfigValidationGuidance is appended to validation errors.
	ConfigValidationGuidance = "(edit the config file or pass --config to use another one)"
)

package messages

// CLI messages for user-facing commands and flags.
const (
	// RootUse is the CLI command name.
	RootUse = "nodeup"
	// RootShort is the short description for the root command.
	RootShort       = "Resolve, download and cache Node.js runtimes"
	RootVersionFlag = "Print version and exit"

	// VersionCommitFmt formats the commit hash for version display.
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
	VersionTemplate  = "{{.Version}}\n"

	FlagConfigUsage      = "path to config.toml (default <user config dir>/nodeup/config.toml)"
	FlagMirrorUsage      = "release mirror URL (overrides node.mirror)"
	FlagArchUsage        = "target architecture such as x64, x86 or arm64 (overrides node.arch)"
	FlagCacheDirUsage    = "tool cache directory (overrides cache.dir)"
	FlagQuietUsage       = "suppress progress output"
	FlagCheckLatestUsage = "always consult the version catalog for ranges instead of reusing a cached match"
	FlagVersionFileUsage = "read the version spec from a file such as .nvmrc"
	FlagNoPathUsage      = "do not add the install directory to PATH or $GITHUB_PATH"

	// InstallUse is the install command usage.
	InstallUse                   = "install [spec]"
	InstallShort                 = "Install a Node.js version matching spec and print its executable directory"
	InstallNoSpecFmt             = "no version spec given and no .nvmrc or .node-version found in %s or its parents; pass a spec or --version-file"
	InstallUsingVersionFileFmt   = "Using version file %s\n"
	InstallSpecAndVersionFile    = "a version spec and --version-file are mutually exclusive"
	InstallVersionFileWarningFmt = "warning: %s\n"
	InstallResolvedFmt           = "Installed node %s at %s\n"

	// LsRemoteUse is the ls-remote command usage.
	LsRemoteUse      = "ls-remote [spec]"
	LsRemoteShort    = "List published versions available for this platform"
	LsRemoteEntryFmt = "%s\n"
	LsRemoteLTSFmt   = "%s (LTS: %s)\n"
	LsRemoteNoneFmt  = "no published version matches %q for %s"

	// LsUse is the ls command usage.
	LsUse      = "ls"
	LsShort    = "List versions present in the local cache"
	LsEntryFmt = "%s\n"
	LsEmptyFmt = "no versions cached in %s\n"
)

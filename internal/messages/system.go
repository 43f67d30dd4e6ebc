package messages

// System messages for platform detection, version parsing and the resolution pipeline.
const (
	// PlatformUnsupportedOSFmt formats unsupported operating system errors.
	PlatformUnsupportedOSFmt   = "unsupported OS %q"
	PlatformUnsupportedArchFmt = "unsupported architecture %q"

	// VersionInvalidFmt formats errors for strings that are not exact versions.
	VersionInvalidFmt      = "invalid version %q: expected X.Y.Z or vX.Y.Z"
	VersionCoerceFailedFmt = "cannot coerce %q to a version"
	VersionInvalidRangeFmt = "invalid version range %q: %w"

	TransportNotFoundFmt         = "download %s: not found (HTTP 404)"
	TransportCreateRequestFmt    = "create request %s: %w"
	TransportTimeoutFmt          = "download %s: request timed out\n\nRemediation:\n  - Check your internet connection\n  - If behind a proxy, ensure HTTP_PROXY/HTTPS_PROXY are set\n  - Raise [download].timeout in the config file"
	TransportRequestFailedFmt    = "download %s: %w"
	TransportUnexpectedStatusFmt = "download %s: unexpected status %s"
	TransportCreateTempFileFmt   = "create temp file: %w"
	TransportTooLargeFmt         = "download %s: response exceeds limit of %d bytes"
	TransportCloseTempFileFmt    = "close temp file: %w"
	TransportDecodeJSONFmt       = "decode %s: %w"

	// CatalogFetchFailedFmt wraps catalog retrieval failures.
	CatalogFetchFailedFmt     = "fetch version catalog: %w"
	CatalogSkipUncoercibleFmt = "warning: skipping catalog entry %q: not a recognizable version\n"

	ArchiveCreateDirFmt  = "create directory %s: %w"
	ArchiveOpenFmt       = "open archive %s: %w"
	ArchiveReadFmt       = "read archive %s: %w"
	ArchiveWriteFmt      = "write %s: %w"
	ArchiveUnsafeLinkFmt = "archive entry %s: unsafe link target %q"
	ArchiveUnsafePathFmt = "archive entry %q resolves outside the destination"
	Archive7zFailedFmt   = "extract %s: %w: %s"
	// Archive7zNotFound is returned when no 7-Zip executable is available.
	Archive7zNotFound = "7-Zip not found: install 7z or 7zr, or set [extract].seven_zip in the config file"

	CacheKeyRequired     = "tool, version and arch are required"
	CacheCheckEntryFmt   = "check cache entry %s: %w"
	CacheListFmt         = "list cached versions of %s: %w"
	CacheSourceFmt       = "cache source %s: %w"
	CacheSourceNotDirFmt = "cache source %s is not a directory"
	CacheCreateDirFmt    = "create cache dir %s: %w"
	CacheRemoveMarkerFmt = "remove completion marker %s: %w"
	CacheRemoveEntryFmt  = "remove stale cache entry %s: %w"
	CacheWriteMarkerFmt  = "write completion marker %s: %w"
	CacheCopyFmt         = "copy %s into cache: %w"
	CacheOpenLockFmt     = "open cache lock %s: %w"
	CacheLockFmt         = "lock %s: %w"
	CacheLockTimeoutFmt  = "timed out after %s waiting for cache lock"

	// InstallDownloadingFmt reports a download in progress.
	InstallDownloadingFmt    = "Downloading %s\n"
	InstallArchiveMissingFmt = "No archive published for %s; trying legacy layouts\n"
	InstallCreateTempDirFmt  = "create temp dir: %w"
	InstallExtractingFmt     = "Extracting %s\n"
	InstallArchiveLayoutFmt  = "archive did not contain %s (extracted to %s)"
	InstallCachingFmt        = "Adding %s to the cache\n"
	InstallCopyFileFmt       = "copy %s: %w"
	InstallChmodFmt          = "set permissions on %s: %w"

	// ResolveNotFoundFmt reports that no release satisfies a spec on a platform.
	ResolveNotFoundFmt        = "unable to find Node version %q for platform %s and architecture %s"
	ResolveSpecRequired       = "version spec is required"
	ResolveFoundInCacheFmt    = "Found in cache @ %s\n"
	ResolveAcquiringFmt       = "Attempting to download %s for %s...\n"
	ResolveQueryingCatalogFmt = "Resolving %s from the version catalog\n"
	ResolveMatchedFmt         = "Resolved %s to %s\n"

	PathEnvSystemRequired = "path environment system is required"
	PathEnvDirRequired    = "directory to add to PATH is required"
	PathEnvSetFmt         = "set PATH: %w"
	PathEnvOpenGitHubFmt  = "open %s: %w"
	PathEnvWriteGitHubFmt = "write %s: %w"
	PathEnvAddedFmt       = "Added %s to the path\n"

	// VersionFileReadFmt wraps version file read failures.
	VersionFileReadFmt          = "read version file %s: %w"
	VersionFileEmptyFmt         = "version file %s does not contain a version"
	VersionFileMultipleFmt      = "version file %s contains more than one version (%q and %q)"
	VersionFileInlineCommentFmt = "%s:%d: ignoring trailing comment %q"
	VersionFileResolveStartFmt  = "resolve %s: %w"
	VersionFileIsDirFmt         = "version file %s is a directory"
	VersionFileStatFmt          = "check version file %s: %w"
)

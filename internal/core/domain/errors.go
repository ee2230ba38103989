package domain

import "go.trai.ch/zerr"

var (
	// ErrInputNotFound is returned when the input root does not exist.
	ErrInputNotFound = zerr.New("input directory not found")

	// ErrInputNotDirectory is returned when the input root is not a directory.
	ErrInputNotDirectory = zerr.New("input path is not a directory")

	// ErrPathOutsideRoot is returned when a path cannot be re-rooted because it is not below the input root.
	ErrPathOutsideRoot = zerr.New("path is outside the input root")

	// ErrUnsupportedAsset is returned when a transform is asked to handle a file with an unknown extension.
	ErrUnsupportedAsset = zerr.New("unsupported asset type")

	// ErrBuildExecutionFailed is returned when one or more files failed to build.
	ErrBuildExecutionFailed = zerr.New("build execution failed")

	// ErrWatcherDisconnected is returned when the filesystem event source closes unexpectedly.
	ErrWatcherDisconnected = zerr.New("watcher disconnected")

	// ErrWatcherStartFailed is returned when the filesystem watcher cannot be started.
	ErrWatcherStartFailed = zerr.New("failed to start watcher")

	// ErrCacheReadFailed is returned when the cache sidecar cannot be read.
	ErrCacheReadFailed = zerr.New("failed to read build cache")

	// ErrCacheUnmarshalFailed is returned when the cache sidecar cannot be decoded.
	ErrCacheUnmarshalFailed = zerr.New("failed to unmarshal build cache")

	// ErrCacheVersionMismatch is returned when the cache sidecar was written with another schema version.
	ErrCacheVersionMismatch = zerr.New("build cache schema version mismatch")

	// ErrCacheCreateFailed is returned when the cache directory cannot be created.
	ErrCacheCreateFailed = zerr.New("failed to create build cache directory")

	// ErrCacheMarshalFailed is returned when the cache cannot be encoded.
	ErrCacheMarshalFailed = zerr.New("failed to marshal build cache")

	// ErrCacheWriteFailed is returned when the cache sidecar cannot be written.
	ErrCacheWriteFailed = zerr.New("failed to write build cache")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigExists is returned by init when a config file is already present.
	ErrConfigExists = zerr.New("config file already exists")

	// ErrUnknownPreset is returned when the requested preset is neither built in nor configured.
	ErrUnknownPreset = zerr.New("unknown preset")

	// ErrInvalidJobCount is returned when a negative job count is configured.
	ErrInvalidJobCount = zerr.New("job count must not be negative")

	// ErrInvalidWatchSettings is returned when a watch duration is negative or the retention is shorter than the debounce window.
	ErrInvalidWatchSettings = zerr.New("invalid watch settings")

	// ErrConfigWriteFailed is returned when init cannot write the config file.
	ErrConfigWriteFailed = zerr.New("failed to write config file")

	// ErrFileOpenFailed is returned when a file cannot be opened.
	ErrFileOpenFailed = zerr.New("failed to open file")

	// ErrFileHashFailed is returned when hashing a file fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")

	// ErrPathStatFailed is returned when stating a path fails.
	ErrPathStatFailed = zerr.New("failed to stat path")

	// ErrConfigHashFailed is returned when a configuration cannot be serialized for hashing.
	ErrConfigHashFailed = zerr.New("failed to hash configuration")

	// ErrTransformFailed is returned when a transform cannot produce its output.
	ErrTransformFailed = zerr.New("transform failed")

	// ErrEmptyCommand is returned when a command transform rule has no command.
	ErrEmptyCommand = zerr.New("transform command is empty")

	// ErrUnknownOutputMode is returned when --output-mode names no known renderer.
	ErrUnknownOutputMode = zerr.New("unknown output mode")

	// ErrFailedToCleanOutput is returned when removing a cache or output directory fails.
	ErrFailedToCleanOutput = zerr.New("failed to clean output")
)

package domain

import "path/filepath"

const (
	// CacheDirName is the default name of the cache directory inside the output root.
	CacheDirName = ".cache"

	// CacheFileName is the name of the cache sidecar file.
	CacheFileName = "cache.json"

	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "forge.yaml"

	// HiddenConfigFileName is the dotted alternative to ConfigFileName.
	HiddenConfigFileName = ".forge.yaml"

	// DefaultSourceDir is the input root used when neither flags nor config name one.
	DefaultSourceDir = "assets"

	// DefaultOutputDir is the output root used when neither flags nor config name one.
	DefaultOutputDir = "build/assets"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// IsVCSDir reports whether name is a version control directory.
// Neither the build walk nor the watcher descends into one.
func IsVCSDir(name string) bool {
	return name == ".git" || name == ".jj"
}

// ConfigFileNames lists the accepted config file names in lookup order.
func ConfigFileNames() []string {
	return []string{ConfigFileName, HiddenConfigFileName}
}

// DefaultCachePath returns the cache directory for the given output root.
// It joins output and .cache.
func DefaultCachePath(output string) string {
	return filepath.Join(output, CacheDirName)
}

// CacheFilePath returns the sidecar path inside a cache directory.
func CacheFilePath(cacheDir string) string {
	return filepath.Join(cacheDir, CacheFileName)
}

// ResolveCacheDir returns dir when absolute, dir joined to output when relative,
// and the default cache path when dir is empty.
func ResolveCacheDir(output, dir string) string {
	switch {
	case dir == "":
		return DefaultCachePath(output)
	case filepath.IsAbs(dir):
		return dir
	default:
		return filepath.Join(output, dir)
	}
}

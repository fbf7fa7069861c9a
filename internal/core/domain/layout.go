package domain

import "path/filepath"

const (
	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "shadercache.yaml"

	// CacheDirName is the default name of the cache root directory.
	CacheDirName = "ShaderCache"

	// DebugDirName is the cache subdirectory for debug-mode artifacts.
	DebugDirName = "Debug"

	// ReleaseDirName is the cache subdirectory for release-mode artifacts.
	ReleaseDirName = "Release"

	// ArtifactExt is the file extension of a cached artifact.
	ArtifactExt = ".cache"

	// HashExt is appended to the artifact file name to form the hash record name.
	HashExt = ".hash"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultCachePath returns the default cache root relative to the project root.
func DefaultCachePath() string {
	return CacheDirName
}

// ModeCachePath returns the directory holding entries of the given mode under root.
// It joins root and the mode directory name.
func ModeCachePath(root string, mode Mode) string {
	return filepath.Join(root, mode.DirName())
}

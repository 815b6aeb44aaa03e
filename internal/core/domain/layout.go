package domain

import "path/filepath"

const (
	// RulerDirName is the name of the internal state directory.
	RulerDirName = ".ruler"

	// CacheDirName is the name of the content-addressed cache directory
	// inside the state directory.
	CacheDirName = "cache"

	// MemoryFileName is the name of the production-record manifest inside
	// the state directory.
	MemoryFileName = "memory.json"

	// RulesFileName is the default name of the rules file.
	RulesFileName = "build.rules"

	// SettingsFileName is the name of the optional workspace settings file.
	SettingsFileName = ".ruler.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// CachePath returns the cache directory under the given state directory.
func CachePath(dir string) string {
	return filepath.Join(dir, CacheDirName)
}

// MemoryPath returns the manifest file path under the given state directory.
func MemoryPath(dir string) string {
	return filepath.Join(dir, MemoryFileName)
}

package types

import (
	"path/filepath"

	"github.com/spaolacci/murmur3"
)

// TableID identifies one heap file. It is a hash of the file's canonical path,
// so the same file yields the same id across restarts.
type TableID int32

// CanonicalPath makes path absolute and resolves symlinks when the file exists.
func CanonicalPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	// not created yet: resolve the directory so the id is stable once it is
	if dir, err := filepath.EvalSymlinks(filepath.Dir(abs)); err == nil {
		return filepath.Join(dir, filepath.Base(abs))
	}
	return abs
}

func NewTableIDFromPath(path string) TableID {
	return TableID(murmur3.Sum32([]byte(CanonicalPath(path))))
}

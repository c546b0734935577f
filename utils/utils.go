package utils

import (
	"os"
	"path/filepath"
)

// FindUp walks from dir towards the filesystem root and returns the first
// path whose base name is one of names. Names are tried in order at each level.
func FindUp(dir string, names ...string) (string, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}

	for {
		for _, name := range names {
			candidate := filepath.Join(dir, name)
			if Exists(candidate) {
				return candidate, true
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// FindRoot returns the directory holding the nearest marker, or fallback.
func FindRoot(dir, fallback string, markers ...string) string {
	if found, ok := FindUp(dir, markers...); ok {
		return filepath.Dir(found)
	}
	return fallback
}

func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}


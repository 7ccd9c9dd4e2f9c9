package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandHomePath makes path absolute, replacing a leading ~ with the home
// directory. An empty path stays empty.
func ExpandHomePath(path string) (string, error) {
	return expandHomePath(path, os.UserHomeDir)
}

func expandHomePath(path string, home func() (string, error)) (string, error) {
	if path == "" {
		return "", nil
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		dir, err := home()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}

		path = filepath.Join(dir, strings.TrimPrefix(path, "~"))
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to make %s absolute: %w", path, err)
	}

	return absPath, nil
}

// Resolve joins rel onto base unless rel is already absolute.
func Resolve(base, rel string) string {
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}

	return filepath.Join(base, rel)
}

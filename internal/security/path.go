package security

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidateDatabasePath validates that a database file path is safe to open.
// Absolute paths are allowed; traversal components and NUL bytes are not.
func ValidateDatabasePath(path string) error {
	if path == "" {
		return fmt.Errorf("database path cannot be empty")
	}

	if strings.ContainsRune(path, '\x00') {
		return fmt.Errorf("database path contains NUL byte")
	}

	cleanPath := filepath.Clean(path)
	for _, part := range strings.Split(cleanPath, string(filepath.Separator)) {
		if part == ".." {
			return fmt.Errorf("database path contains directory traversal: %s", path)
		}
	}

	return nil
}

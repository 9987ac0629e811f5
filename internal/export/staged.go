package export

import (
	"errors"
	"fmt"
	"path/filepath"
)

// ErrNotStaged is returned when the output file is missing from the commit.
var ErrNotStaged = errors.New("not staged for commit")

// IsStaged reports whether outputPath is among the staged filenames.
// Paths are compared after cleaning.
func IsStaged(outputPath string, staged []string) bool {
	want := filepath.Clean(outputPath)
	for _, s := range staged {
		if filepath.Clean(s) == want {
			return true
		}
	}
	return false
}

// RequireStaged returns an error wrapping ErrNotStaged when outputPath is not
// among the staged filenames.
func RequireStaged(outputPath string, staged []string) error {
	if IsStaged(outputPath, staged) {
		return nil
	}
	return fmt.Errorf("%s is %w", outputPath, ErrNotStaged)
}

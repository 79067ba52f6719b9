//go:build unix

package update

import (
	"fmt"
	"os"
)

// directReplacer renames the new binary over the running executable.
// Unix permits unlinking an in-use file, so the swap is a single atomic
// rename at the same path.
type directReplacer struct {
	currentPath string
}

// NewReplacer returns the replacement capability for this platform.
func NewReplacer(currentPath string) Replacer {
	return &directReplacer{currentPath: currentPath}
}

func (r *directReplacer) Replace(newBinary string) error {
	if err := os.Chmod(newBinary, 0o755); err != nil {
		return fmt.Errorf("failed to set permissions on new binary: %w", err)
	}

	// The new binary must sit on the same filesystem for the rename to be
	// atomic; stage it next to the target first.
	staged := r.currentPath + ".new"
	if err := copyFile(newBinary, staged, 0o755); err != nil {
		return err
	}

	if err := os.Rename(staged, r.currentPath); err != nil {
		os.Remove(staged)
		return fmt.Errorf("failed to replace binary: %w", err)
	}
	return nil
}

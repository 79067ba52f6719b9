//go:build windows

package update

import (
	"fmt"
	"os"
)

// renameAsideReplacer works around the Windows lock on executing files:
// the running binary is renamed aside, the new one is written at the
// original path, and the old file is left for cleanup on a later run
// because it may still be mapped into this process.
type renameAsideReplacer struct {
	currentPath string
}

// NewReplacer returns the replacement capability for this platform.
func NewReplacer(currentPath string) Replacer {
	return &renameAsideReplacer{currentPath: currentPath}
}

func (r *renameAsideReplacer) Replace(newBinary string) error {
	oldPath := r.currentPath + ".old"
	os.Remove(oldPath)

	if err := os.Rename(r.currentPath, oldPath); err != nil {
		return fmt.Errorf("failed to move running binary aside: %w", err)
	}

	if err := copyFile(newBinary, r.currentPath, 0o755); err != nil {
		// Put the original back; nothing was lost.
		if restoreErr := os.Rename(oldPath, r.currentPath); restoreErr != nil {
			return fmt.Errorf("%w (and restoring the original failed: %v; it is at %s)", err, restoreErr, oldPath)
		}
		return err
	}

	return nil
}

package update

import (
	"fmt"
	"io"
	"os"
)

// copyFile copies src to dst with the given mode, removing a partial dst
// on failure.
func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	_, copyErr := io.Copy(out, in)
	closeErr := out.Close()

	if copyErr != nil {
		os.Remove(dst)
		return fmt.Errorf("failed to write %s: %w", dst, copyErr)
	}
	if closeErr != nil {
		os.Remove(dst)
		return fmt.Errorf("failed to write %s: %w", dst, closeErr)
	}
	return nil
}

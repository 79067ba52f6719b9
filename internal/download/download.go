// Package download provides streaming HTTP downloads with SHA256
// verification. Files land at a staging path supplied by the caller and
// are removed on any failure.
package download

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrChecksumMismatch indicates a downloaded file's digest did not match
// the manifest's expected value.
var ErrChecksumMismatch = errors.New("checksum mismatch")

// requestTimeout bounds a single artifact download.
const requestTimeout = 5 * time.Minute

// Downloader performs verified downloads.
type Downloader struct {
	client *http.Client
}

// New creates a downloader with the default timeout.
func New() *Downloader {
	return &Downloader{
		client: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Fetch streams the content at url into dest, computing the SHA256 digest
// incrementally. The digest is compared case-insensitively against
// expectedSHA256; on mismatch dest is removed and ErrChecksumMismatch is
// returned. On any failure no file is left at dest.
func (d *Downloader) Fetch(url, dest, expectedSHA256 string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create download directory: %w", err)
	}

	resp, err := d.client.Get(url)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download %s: HTTP %d", url, resp.StatusCode)
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}

	hasher := sha256.New()
	_, copyErr := io.Copy(io.MultiWriter(out, hasher), resp.Body)
	closeErr := out.Close()

	if copyErr != nil {
		os.Remove(dest)
		return fmt.Errorf("failed to write %s: %w", dest, copyErr)
	}
	if closeErr != nil {
		os.Remove(dest)
		return fmt.Errorf("failed to close %s: %w", dest, closeErr)
	}

	actual := hex.EncodeToString(hasher.Sum(nil))
	if !strings.EqualFold(actual, expectedSHA256) {
		os.Remove(dest)
		return fmt.Errorf("%w for %s: expected %s, got %s", ErrChecksumMismatch, url, strings.ToLower(expectedSHA256), actual)
	}

	return nil
}

// VerifyFile recomputes the SHA256 digest of an existing file and compares
// it case-insensitively against expected.
func VerifyFile(path, expected string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	actual := hex.EncodeToString(hasher.Sum(nil))
	if !strings.EqualFold(actual, expected) {
		return fmt.Errorf("%w for %s: expected %s, got %s", ErrChecksumMismatch, path, strings.ToLower(expected), actual)
	}
	return nil
}

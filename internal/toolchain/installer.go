package toolchain

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/0xGeorgii/inference/internal/download"
	"github.com/0xGeorgii/inference/internal/manifest"
)

// InstallResult reports the outcome of an install. AlreadyInstalled is an
// informational success, not an error: no download happened and the
// registry entry (including its timestamp) is untouched.
type InstallResult struct {
	Toolchain        InstalledToolchain
	AlreadyInstalled bool
}

// Installer performs checksummed, atomic toolchain installs.
type Installer struct {
	paths      *Paths
	registry   *Registry
	downloader *download.Downloader
}

// NewInstaller creates an installer over the given home layout and
// registry.
func NewInstaller(paths *Paths, registry *Registry) *Installer {
	return &Installer{
		paths:      paths,
		registry:   registry,
		downloader: download.New(),
	}
}

// Install downloads, verifies, and materializes one toolchain version.
//
// The artifact is streamed to a staging path outside the final install
// directory while its digest is computed, verified against the manifest
// checksum, extracted into a staging directory, and renamed into place so
// the version directory either does not exist or exists complete. Any
// failure removes all staged state before returning. An advisory lock
// scoped to the version serializes concurrent installs of the same
// version; installs of different versions do not contend.
func (i *Installer) Install(artifact manifest.ArtifactRef, version string) (*InstallResult, error) {
	if tc, err := i.registry.Get(version); err == nil {
		return &InstallResult{Toolchain: *tc, AlreadyInstalled: true}, nil
	} else if !errors.Is(err, ErrNotInstalled) {
		return nil, err
	}

	if err := i.paths.EnsureDirectories(); err != nil {
		return nil, err
	}

	lock, err := acquireVersionLock(i.paths, version, true)
	if err != nil {
		return nil, err
	}
	defer lock.release()

	// A concurrent invocation may have finished while we waited.
	if tc, err := i.registry.Get(version); err == nil {
		return &InstallResult{Toolchain: *tc, AlreadyInstalled: true}, nil
	} else if !errors.Is(err, ErrNotInstalled) {
		return nil, err
	}

	filename := manifest.ArtifactFilename(artifact.URL)
	archivePath := i.paths.StagingArchive(version, filename)
	unpackDir := i.paths.StagingUnpackDir(version)

	// Discard leftovers from an externally killed install; partial byte
	// ranges are never resumed.
	i.discardStaging(archivePath, unpackDir)
	defer i.discardStaging(archivePath, unpackDir)

	if err := i.downloader.Fetch(artifact.URL, archivePath, artifact.SHA256); err != nil {
		return nil, err
	}

	if err := ExtractArchive(archivePath, unpackDir); err != nil {
		return nil, err
	}

	if err := markBinariesExecutable(filepath.Join(unpackDir, "bin")); err != nil {
		return nil, err
	}

	installDir := i.paths.ToolchainDir(version)
	if err := os.Rename(unpackDir, installDir); err != nil {
		return nil, fmt.Errorf("failed to install toolchain %s: %w", version, err)
	}

	tc := InstalledToolchain{
		Version:     version,
		Path:        installDir,
		InstalledAt: time.Now().UTC(),
		SHA256:      strings.ToLower(artifact.SHA256),
	}
	if err := i.registry.Add(tc); err != nil {
		if errors.Is(err, ErrAlreadyRegistered) {
			// Lost a race we should have been protected from; the directory
			// that won stays, ours made it first, either way one entry exists.
			existing, getErr := i.registry.Get(version)
			if getErr == nil {
				return &InstallResult{Toolchain: *existing, AlreadyInstalled: true}, nil
			}
		}
		os.RemoveAll(installDir)
		return nil, err
	}

	return &InstallResult{Toolchain: tc}, nil
}

// Uninstall removes a version: registry entry first (repointing the
// default if needed), directory second, so no reader ever observes a
// default pointing at a partially removed install.
func (i *Installer) Uninstall(version string) (promoted string, err error) {
	lock, err := acquireVersionLock(i.paths, version, true)
	if err != nil {
		return "", err
	}
	defer lock.release()

	promoted, err = i.registry.Remove(version)
	if err != nil {
		return "", err
	}

	if err := os.RemoveAll(i.paths.ToolchainDir(version)); err != nil {
		return promoted, fmt.Errorf("failed to remove toolchain directory: %w", err)
	}
	return promoted, nil
}

// discardStaging removes staged artifacts; best effort.
func (i *Installer) discardStaging(archivePath, unpackDir string) {
	os.Remove(archivePath)
	os.RemoveAll(unpackDir)
}

// markBinariesExecutable restores the executable bit on extracted
// binaries. Zip archives in particular do not carry it reliably.
func markBinariesExecutable(binDir string) error {
	if runtime.GOOS == "windows" {
		return nil
	}

	entries, err := os.ReadDir(binDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", binDir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(binDir, entry.Name())
		if err := os.Chmod(path, 0o755); err != nil {
			return fmt.Errorf("failed to set permissions on %s: %w", path, err)
		}
	}
	return nil
}

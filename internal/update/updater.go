package update

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/0xGeorgii/inference/internal/download"
	"github.com/0xGeorgii/inference/internal/manifest"
	"github.com/0xGeorgii/inference/internal/toolchain"
)

// Outcome classifies a self-update run.
type Outcome int

const (
	// AlreadyLatest means the running binary is current; nothing was
	// downloaded.
	AlreadyLatest Outcome = iota
	// Updated means the running executable was replaced.
	Updated
)

// Result reports what a self-update run did.
type Result struct {
	Outcome Outcome
	Version string
}

// Run checks for, downloads, verifies, and applies a manager update. The
// download is verified exactly like a toolchain install; replacement goes
// through the platform Replacer.
func Run(client *manifest.Client, currentVersion string) (*Result, error) {
	platform, err := manifest.Detect()
	if err != nil {
		return nil, err
	}

	m, err := client.Fetch()
	if err != nil {
		return nil, err
	}

	info, err := Check(m, platform, currentVersion)
	if err != nil {
		return nil, err
	}
	if !info.Available {
		return &Result{Outcome: AlreadyLatest, Version: info.CurrentVersion}, nil
	}

	tmpDir, err := os.MkdirTemp("", "infs-update-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	archivePath := filepath.Join(tmpDir, manifest.ArtifactFilename(info.Artifact.URL))
	if err := download.New().Fetch(info.Artifact.URL, archivePath, info.Artifact.SHA256); err != nil {
		return nil, err
	}

	unpackDir := filepath.Join(tmpDir, "unpack")
	if err := toolchain.ExtractArchive(archivePath, unpackDir); err != nil {
		return nil, err
	}

	newBinary, err := locateManagerBinary(unpackDir)
	if err != nil {
		return nil, err
	}

	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to locate running executable: %w", err)
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable path: %w", err)
	}

	if err := NewReplacer(exe).Replace(newBinary); err != nil {
		return nil, err
	}

	return &Result{Outcome: Updated, Version: info.LatestVersion}, nil
}

// locateManagerBinary finds the infs binary inside an unpacked release
// artifact. Releases ship it either at the archive root or under bin/.
func locateManagerBinary(unpackDir string) (string, error) {
	name := "infs"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}

	for _, candidate := range []string{
		filepath.Join(unpackDir, name),
		filepath.Join(unpackDir, "bin", name),
	} {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("release artifact does not contain an %s binary", name)
}

// CleanupOld removes the renamed-aside binary a previous self-update left
// next to the executable. Best effort; errors are ignored because the old
// binary may still be mapped by another running process.
func CleanupOld() {
	exe, err := os.Executable()
	if err != nil {
		return
	}
	os.Remove(exe + ".old")
}

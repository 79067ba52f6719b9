// Package toolchain manages installed Inference toolchains: the on-disk
// registry, checksummed installs, and compiler resolution.
package toolchain

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
)

// HomeEnv overrides the root directory holding the registry and all
// installed toolchains.
const HomeEnv = "INFERENCE_HOME"

// defaultHomeDir is the directory under $HOME used when HomeEnv is unset.
const defaultHomeDir = ".inference"

// registryFileName is the registry metadata record under the root.
const registryFileName = "registry.toml"

// Paths resolves every location under the manager's home directory.
//
// Layout:
//
//	<root>/
//	  registry.toml        installed versions and the default pointer
//	  toolchains/<ver>/    one complete toolchain per version
//	    bin/infc, bin/inf-llc, bin/rust-lld
//	  staging/             in-flight downloads and unpack dirs
//	  locks/               per-version advisory lock files
type Paths struct {
	Root       string
	Toolchains string
	Staging    string
	Locks      string
}

// NewPaths resolves the manager home from the environment or the user's
// home directory.
func NewPaths() (*Paths, error) {
	if override := os.Getenv(HomeEnv); override != "" {
		return WithRoot(override), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("cannot determine home directory (set %s): %w", HomeEnv, err)
	}
	return WithRoot(filepath.Join(home, defaultHomeDir)), nil
}

// WithRoot builds Paths rooted at a specific directory.
func WithRoot(root string) *Paths {
	return &Paths{
		Root:       root,
		Toolchains: filepath.Join(root, "toolchains"),
		Staging:    filepath.Join(root, "staging"),
		Locks:      filepath.Join(root, "locks"),
	}
}

// EnsureDirectories creates the home layout if it does not exist.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.Root, p.Toolchains, p.Staging, p.Locks} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// RegistryPath returns the registry metadata file path.
func (p *Paths) RegistryPath() string {
	return filepath.Join(p.Root, registryFileName)
}

// ToolchainDir returns the install directory for a version.
func (p *Paths) ToolchainDir(version string) string {
	return filepath.Join(p.Toolchains, version)
}

// BinDir returns the bin directory inside an installed version.
func (p *Paths) BinDir(version string) string {
	return filepath.Join(p.ToolchainDir(version), "bin")
}

// BinaryPath returns the path of a named binary inside a version's bin
// directory.
func (p *Paths) BinaryPath(version, name string) string {
	return filepath.Join(p.BinDir(version), name)
}

// LockPath returns the advisory lock file for a version.
func (p *Paths) LockPath(version string) string {
	return filepath.Join(p.Locks, version+".lock")
}

// StagingArchive returns the staging path for a downloaded artifact.
func (p *Paths) StagingArchive(version, filename string) string {
	return filepath.Join(p.Staging, version+"-"+filename)
}

// StagingUnpackDir returns the staging directory an artifact is extracted
// into before the final rename.
func (p *Paths) StagingUnpackDir(version string) string {
	return filepath.Join(p.Staging, version+".unpack")
}

// ScanInstalledDirs lists version directories present under toolchains/,
// regardless of what the registry records. Used for degraded reads when
// the registry is corrupt, and by doctor.
func (p *Paths) ScanInstalledDirs() ([]string, error) {
	entries, err := os.ReadDir(p.Toolchains)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", p.Toolchains, err)
	}

	var versions []string
	for _, entry := range entries {
		if entry.IsDir() {
			versions = append(versions, entry.Name())
		}
	}
	sort.Strings(versions)
	return versions, nil
}

// CompanionBinaries returns the binaries every complete toolchain must
// carry in its bin directory, with the platform executable suffix.
func CompanionBinaries() []string {
	suffix := ""
	if runtime.GOOS == "windows" {
		suffix = ".exe"
	}
	return []string{
		"infc" + suffix,
		"inf-llc" + suffix,
		"rust-lld" + suffix,
	}
}

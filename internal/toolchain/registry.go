package toolchain

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/pelletier/go-toml/v2"
)

var (
	// ErrNotInstalled indicates the version has no registry entry.
	ErrNotInstalled = errors.New("toolchain not installed")
	// ErrCorruptMetadata indicates the registry file exists but cannot be
	// parsed. It is never silently repaired; the operator decides.
	ErrCorruptMetadata = errors.New("corrupt registry metadata")
	// ErrAlreadyRegistered indicates a duplicate entry for a version.
	ErrAlreadyRegistered = errors.New("version already registered")
)

// casRetries bounds how often a mutation retries after losing a race with
// a concurrent writer.
const casRetries = 5

// InstalledToolchain is the durable record of one installed version.
type InstalledToolchain struct {
	Version     string    `toml:"version"`
	Path        string    `toml:"path"`
	InstalledAt time.Time `toml:"installed_at"`
	SHA256      string    `toml:"sha256"`
}

// registryFile is the persisted shape of the registry record. Generation
// is bumped on every successful mutation and serves as the compare-and-swap
// stamp between concurrent manager invocations.
type registryFile struct {
	Generation int64                `toml:"generation"`
	Default    string               `toml:"default,omitempty"`
	Toolchains []InstalledToolchain `toml:"toolchains,omitempty"`
}

// Registry is the durable record of installed toolchain versions and the
// default pointer. All access goes through load-modify-atomic-replace; call
// sites never touch the persisted file directly.
type Registry struct {
	paths *Paths
}

// NewRegistry creates a registry over the given home layout.
func NewRegistry(paths *Paths) *Registry {
	return &Registry{paths: paths}
}

// load reads the persisted registry. A missing file is an empty registry;
// an unparseable file is ErrCorruptMetadata.
func (r *Registry) load() (*registryFile, error) {
	data, err := os.ReadFile(r.paths.RegistryPath())
	if err != nil {
		if os.IsNotExist(err) {
			return &registryFile{}, nil
		}
		return nil, fmt.Errorf("failed to read registry: %w", err)
	}

	var state registryFile
	if err := toml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptMetadata, r.paths.RegistryPath(), err)
	}
	return &state, nil
}

// write persists the registry atomically: marshal to a temp file in the
// same directory, then rename over the old record.
func (r *Registry) write(state *registryFile) error {
	data, err := toml.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode registry: %w", err)
	}

	dir := filepath.Dir(r.paths.RegistryPath())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, registryFileName+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp registry file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write registry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write registry: %w", err)
	}

	if err := os.Rename(tmpName, r.paths.RegistryPath()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace registry: %w", err)
	}
	return nil
}

// mutate applies a change under compare-and-swap semantics: load, apply in
// memory, re-read to confirm no concurrent writer advanced the generation,
// then atomically replace. A lost race retries from a fresh load.
func (r *Registry) mutate(apply func(*registryFile) error) error {
	for attempt := 0; attempt < casRetries; attempt++ {
		state, err := r.load()
		if err != nil {
			return err
		}
		loadedGen := state.Generation

		if err := apply(state); err != nil {
			return err
		}

		current, err := r.load()
		if err != nil {
			return err
		}
		if current.Generation != loadedGen {
			continue
		}

		state.Generation = loadedGen + 1
		return r.write(state)
	}
	return fmt.Errorf("registry busy: gave up after %d concurrent writes", casRetries)
}

// List returns all installed toolchains recorded in the registry.
func (r *Registry) List() ([]InstalledToolchain, error) {
	state, err := r.load()
	if err != nil {
		return nil, err
	}
	return state.Toolchains, nil
}

// Get returns the entry for a version, or ErrNotInstalled.
func (r *Registry) Get(version string) (*InstalledToolchain, error) {
	state, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range state.Toolchains {
		if state.Toolchains[i].Version == version {
			return &state.Toolchains[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotInstalled, version)
}

// Default returns the default version, or empty when unset.
func (r *Registry) Default() (string, error) {
	state, err := r.load()
	if err != nil {
		return "", err
	}
	return state.Default, nil
}

// Add registers a newly installed toolchain. When no default is set the
// new version becomes the default.
func (r *Registry) Add(tc InstalledToolchain) error {
	return r.mutate(func(state *registryFile) error {
		for _, existing := range state.Toolchains {
			if existing.Version == tc.Version {
				return fmt.Errorf("%w: %s", ErrAlreadyRegistered, tc.Version)
			}
		}
		state.Toolchains = append(state.Toolchains, tc)
		if state.Default == "" {
			state.Default = tc.Version
		}
		return nil
	})
}

// SetDefault points the default at an installed version.
func (r *Registry) SetDefault(version string) error {
	return r.mutate(func(state *registryFile) error {
		for _, tc := range state.Toolchains {
			if tc.Version == version {
				state.Default = version
				return nil
			}
		}
		return fmt.Errorf("%w: %s", ErrNotInstalled, version)
	})
}

// Remove deletes a version's entry. Removing the current default promotes
// the highest remaining version, or clears the default when none remain.
// The promoted version (or "") is returned.
func (r *Registry) Remove(version string) (promoted string, err error) {
	err = r.mutate(func(state *registryFile) error {
		idx := -1
		for i, tc := range state.Toolchains {
			if tc.Version == version {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrNotInstalled, version)
		}

		state.Toolchains = append(state.Toolchains[:idx], state.Toolchains[idx+1:]...)

		if state.Default == version {
			state.Default = highestVersion(state.Toolchains)
			promoted = state.Default
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return promoted, nil
}

// highestVersion returns the highest semantic version among the entries,
// or "" for an empty list. This is the documented deterministic tie-break
// for default promotion.
func highestVersion(toolchains []InstalledToolchain) string {
	var best string
	var bestVer *semver.Version
	for _, tc := range toolchains {
		ver, err := semver.NewVersion(tc.Version)
		if err != nil {
			continue
		}
		if bestVer == nil || ver.GreaterThan(bestVer) {
			best = tc.Version
			bestVer = ver
		}
	}
	return best
}

package toolchain

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrBusy indicates another manager invocation holds the lock for the
// same version.
var ErrBusy = errors.New("another install for this version is in progress")

// versionLock is an advisory exclusive lock scoped to one version's
// staging and install paths. The OS releases it on process death, so a
// killed install never wedges later ones.
type versionLock struct {
	f *os.File
}

// acquireVersionLock takes the exclusive lock for a version. With block
// set it waits for a concurrent holder; otherwise it fails fast with
// ErrBusy.
func acquireVersionLock(paths *Paths, version string, block bool) (*versionLock, error) {
	path := paths.LockPath(version)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file %s: %w", path, err)
	}

	if err := lockFile(f, block); err != nil {
		f.Close()
		return nil, err
	}
	return &versionLock{f: f}, nil
}

// release drops the lock. Safe to call on every exit path.
func (l *versionLock) release() {
	if l == nil || l.f == nil {
		return
	}
	unlockFile(l.f)
	l.f.Close()
	l.f = nil
}

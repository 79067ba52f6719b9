// Package update replaces the running infs binary with the latest stable
// release from the distribution server.
package update

import "github.com/0xGeorgii/inference/internal/manifest"

// Info describes the result of an update check.
type Info struct {
	Available      bool
	CurrentVersion string
	LatestVersion  string
	Artifact       manifest.ArtifactRef
}

// Replacer swaps the running executable for a new binary. The two
// implementations cover the platform split: Unix permits renaming over an
// executing file; Windows locks it, so the old binary is renamed aside
// first and cleaned up on a later run.
type Replacer interface {
	// Replace installs the verified binary at newBinary over the running
	// executable path. Any failure before the final rename leaves the
	// original binary intact and runnable.
	Replace(newBinary string) error
}

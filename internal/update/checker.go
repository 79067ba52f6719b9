package update

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/0xGeorgii/inference/internal/manifest"
)

// Check compares the running manager version against the manifest's
// latest stable release that ships a manager binary for this platform.
func Check(m manifest.ReleaseManifest, platform manifest.Platform, currentVersion string) (*Info, error) {
	current, err := semver.NewVersion(strings.TrimPrefix(currentVersion, "v"))
	if err != nil {
		return nil, fmt.Errorf("cannot parse running version %q: %w (development builds cannot self-update)", currentVersion, err)
	}

	entry, artifact, err := latestManagerRelease(m, platform)
	if err != nil {
		return nil, err
	}

	latest, err := semver.NewVersion(entry.Version)
	if err != nil {
		return nil, fmt.Errorf("cannot parse manifest version %q: %w", entry.Version, err)
	}

	return &Info{
		Available:      latest.GreaterThan(current),
		CurrentVersion: current.String(),
		LatestVersion:  latest.String(),
		Artifact:       artifact,
	}, nil
}

// latestManagerRelease finds the highest stable release carrying an infs
// artifact for the platform. Releases without one are skipped; toolchain
// releases do not always ship a new manager.
func latestManagerRelease(m manifest.ReleaseManifest, platform manifest.Platform) (*manifest.ReleaseEntry, manifest.ArtifactRef, error) {
	var best *manifest.ReleaseEntry
	var bestArtifact manifest.ArtifactRef
	var bestVer *semver.Version

	for i := range m {
		if !m[i].Stable {
			continue
		}
		artifact, err := manifest.SelectArtifact(&m[i], manifest.ToolManager, platform)
		if err != nil {
			continue
		}
		ver, err := semver.NewVersion(m[i].Version)
		if err != nil {
			continue
		}
		if bestVer == nil || ver.GreaterThan(bestVer) {
			best = &m[i]
			bestArtifact = artifact
			bestVer = ver
		}
	}

	if best == nil {
		return nil, manifest.ArtifactRef{}, fmt.Errorf("%w: no stable release ships an infs binary for %s",
			manifest.ErrUnsupportedPlatform, platform)
	}
	return best, bestArtifact, nil
}

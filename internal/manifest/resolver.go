package manifest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var (
	// ErrVersionNotFound indicates the requested version is not in the
	// manifest.
	ErrVersionNotFound = errors.New("version not found")
	// ErrNoStableRelease indicates the manifest contains no stable entry
	// to resolve "latest" against.
	ErrNoStableRelease = errors.New("no stable release available")
	// ErrUnsupportedPlatform indicates a release has no artifact for the
	// running platform.
	ErrUnsupportedPlatform = errors.New("no artifact for this platform")
)

// Resolve selects a release entry from the manifest. An empty requested
// string selects the highest stable version; otherwise the version must
// match an entry exactly (no range syntax).
func Resolve(m ReleaseManifest, requested string) (*ReleaseEntry, error) {
	requested = strings.TrimSpace(requested)
	if requested == "" || requested == "latest" {
		return latestStable(m)
	}

	for i := range m {
		if m[i].Version == requested {
			return &m[i], nil
		}
	}

	known := m.Versions()
	if len(known) == 0 {
		return nil, fmt.Errorf("%w: %s (manifest lists no versions)", ErrVersionNotFound, requested)
	}
	return nil, fmt.Errorf("%w: %s (known versions: %s)", ErrVersionNotFound, requested, strings.Join(known, ", "))
}

// latestStable returns the entry with the highest semantic version among
// stable releases.
func latestStable(m ReleaseManifest) (*ReleaseEntry, error) {
	var best *ReleaseEntry
	var bestVer *semver.Version

	for i := range m {
		if !m[i].Stable {
			continue
		}
		ver, err := semver.NewVersion(m[i].Version)
		if err != nil {
			// Versions are validated at fetch time.
			continue
		}
		if bestVer == nil || ver.GreaterThan(bestVer) {
			best = &m[i]
			bestVer = ver
		}
	}

	if best == nil {
		return nil, ErrNoStableRelease
	}
	return best, nil
}

// SelectArtifact picks the artifact of the given tool for the given
// platform from a release entry.
func SelectArtifact(entry *ReleaseEntry, tool Tool, platform Platform) (ArtifactRef, error) {
	for _, file := range entry.Files {
		id, ok := file.Identify()
		if !ok {
			continue
		}
		if id.Tool == tool && id.Platform == platform {
			return file, nil
		}
	}
	return ArtifactRef{}, fmt.Errorf("%w: version %s has no %s artifact for %s",
		ErrUnsupportedPlatform, entry.Version, tool, platform)
}

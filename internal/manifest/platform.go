package manifest

import (
	"fmt"
	"net/url"
	"path"
	"runtime"
	"strings"
)

// Platform identifies an OS/architecture pair in distribution naming,
// e.g. "linux-x64".
type Platform string

const (
	PlatformLinuxX64   Platform = "linux-x64"
	PlatformMacOSARM64 Platform = "macos-arm64"
	PlatformWindowsX64 Platform = "windows-x64"
)

// Tool identifies which binary an artifact carries, derived from the
// filename prefix.
type Tool string

const (
	// ToolCompiler is the toolchain bundle (infc and companions).
	ToolCompiler Tool = "infc"
	// ToolManager is the infs manager binary itself.
	ToolManager Tool = "infs"
)

// archiveExtensions lists the recognized artifact archive suffixes.
var archiveExtensions = []string{".tar.gz", ".tar.xz", ".zip"}

// Detect returns the distribution platform for the running process.
func Detect() (Platform, error) {
	switch runtime.GOOS + "/" + runtime.GOARCH {
	case "linux/amd64":
		return PlatformLinuxX64, nil
	case "darwin/arm64":
		return PlatformMacOSARM64, nil
	case "windows/amd64":
		return PlatformWindowsX64, nil
	default:
		return "", fmt.Errorf("unsupported platform: %s/%s", runtime.GOOS, runtime.GOARCH)
	}
}

// String returns the platform identifier.
func (p Platform) String() string {
	return string(p)
}

// ExeSuffix returns the executable filename suffix for the platform.
func (p Platform) ExeSuffix() string {
	if p == PlatformWindowsX64 {
		return ".exe"
	}
	return ""
}

// ArtifactIdentity is the (tool, platform) pair derived from an artifact
// filename.
type ArtifactIdentity struct {
	Tool     Tool
	Platform Platform
}

// ParseArtifactName derives the tool and platform from an artifact
// filename such as "infc-linux-x64.tar.gz". It returns ok=false when the
// name does not follow the distribution naming convention.
func ParseArtifactName(filename string) (ArtifactIdentity, bool) {
	base := filename
	stripped := false
	for _, ext := range archiveExtensions {
		if strings.HasSuffix(base, ext) {
			base = strings.TrimSuffix(base, ext)
			stripped = true
			break
		}
	}
	if !stripped {
		return ArtifactIdentity{}, false
	}

	var tool Tool
	switch {
	case strings.HasPrefix(base, string(ToolCompiler)+"-"):
		tool = ToolCompiler
	case strings.HasPrefix(base, string(ToolManager)+"-"):
		tool = ToolManager
	default:
		return ArtifactIdentity{}, false
	}

	platformPart := strings.TrimPrefix(base, string(tool)+"-")
	switch platformPart {
	case "linux-x64":
		return ArtifactIdentity{Tool: tool, Platform: PlatformLinuxX64}, true
	case "windows-x64":
		return ArtifactIdentity{Tool: tool, Platform: PlatformWindowsX64}, true
	case "macos-arm64", "macos-apple-silicon":
		// The apple-silicon spelling appeared in early releases.
		return ArtifactIdentity{Tool: tool, Platform: PlatformMacOSARM64}, true
	default:
		return ArtifactIdentity{}, false
	}
}

// ArtifactFilename extracts the filename component from an artifact URL.
func ArtifactFilename(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return path.Base(rawURL)
}

// Identify derives the tool and platform for an artifact from its URL.
func (a ArtifactRef) Identify() (ArtifactIdentity, bool) {
	return ParseArtifactName(ArtifactFilename(a.URL))
}

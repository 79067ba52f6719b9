package manifest

import (
	"errors"
	"testing"
)

func testManifest() ReleaseManifest {
	return ReleaseManifest{
		{Version: "0.1.0", Stable: true, Files: []ArtifactRef{
			{URL: "https://example.com/infc-linux-x64.tar.gz", SHA256: goodDigest},
		}},
		{Version: "0.3.0", Stable: false, Files: []ArtifactRef{
			{URL: "https://example.com/infc-linux-x64.tar.gz", SHA256: goodDigest},
		}},
		{Version: "0.2.0", Stable: true, Files: []ArtifactRef{
			{URL: "https://example.com/infc-linux-x64.tar.gz", SHA256: goodDigest},
			{URL: "https://example.com/infs-linux-x64.tar.gz", SHA256: goodDigest},
			{URL: "https://example.com/infc-windows-x64.zip", SHA256: goodDigest},
		}},
	}
}

func TestResolveLatestStable(t *testing.T) {
	// 0.3.0 is newer but unstable; latest must skip it.
	for _, requested := range []string{"", "latest", "  "} {
		entry, err := Resolve(testManifest(), requested)
		if err != nil {
			t.Fatalf("Resolve(%q) error = %v", requested, err)
		}
		if entry.Version != "0.2.0" {
			t.Errorf("Resolve(%q) = %s, want 0.2.0", requested, entry.Version)
		}
	}
}

func TestResolveExact(t *testing.T) {
	entry, err := Resolve(testManifest(), "0.1.0")
	if err != nil {
		t.Fatalf("Resolve(0.1.0) error = %v", err)
	}
	if entry.Version != "0.1.0" {
		t.Errorf("version = %s, want 0.1.0", entry.Version)
	}

	// Unstable versions are reachable by exact request.
	entry, err = Resolve(testManifest(), "0.3.0")
	if err != nil {
		t.Fatalf("Resolve(0.3.0) error = %v", err)
	}
	if entry.Version != "0.3.0" {
		t.Errorf("version = %s, want 0.3.0", entry.Version)
	}
}

func TestResolveNotFound(t *testing.T) {
	_, err := Resolve(testManifest(), "9.9.9")
	if !errors.Is(err, ErrVersionNotFound) {
		t.Errorf("Resolve(9.9.9) error = %v, want ErrVersionNotFound", err)
	}
}

func TestResolveNoStable(t *testing.T) {
	m := ReleaseManifest{{Version: "0.1.0", Stable: false}}
	_, err := Resolve(m, "")
	if !errors.Is(err, ErrNoStableRelease) {
		t.Errorf("Resolve() error = %v, want ErrNoStableRelease", err)
	}
}

func TestSelectArtifact(t *testing.T) {
	m := testManifest()
	entry := &m[2]

	artifact, err := SelectArtifact(entry, ToolCompiler, PlatformLinuxX64)
	if err != nil {
		t.Fatalf("SelectArtifact() error = %v", err)
	}
	if artifact.URL != "https://example.com/infc-linux-x64.tar.gz" {
		t.Errorf("url = %s, want infc-linux-x64.tar.gz", artifact.URL)
	}

	artifact, err = SelectArtifact(entry, ToolManager, PlatformLinuxX64)
	if err != nil {
		t.Fatalf("SelectArtifact(manager) error = %v", err)
	}
	if artifact.URL != "https://example.com/infs-linux-x64.tar.gz" {
		t.Errorf("url = %s, want infs-linux-x64.tar.gz", artifact.URL)
	}

	_, err = SelectArtifact(entry, ToolCompiler, PlatformMacOSARM64)
	if !errors.Is(err, ErrUnsupportedPlatform) {
		t.Errorf("SelectArtifact(macos) error = %v, want ErrUnsupportedPlatform", err)
	}
}

// Package manifest fetches and interprets the remote release manifest that
// lists downloadable Inference toolchain versions.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

// DistServerEnv overrides the distribution server base URL. An empty or
// whitespace-only value is treated as unset.
const DistServerEnv = "INFS_DIST_SERVER"

// DefaultDistServer is the built-in distribution server base URL.
const DefaultDistServer = "https://inference-lang.org/releases"

// manifestPath is appended to the base URL to locate the manifest document.
const manifestPath = "/manifest.json"

var (
	// ErrMalformed indicates the manifest document could not be parsed or
	// is missing required fields. The manifest is all-or-nothing.
	ErrMalformed = errors.New("malformed manifest")
)

// ArtifactRef is a downloadable file belonging to a release. Platform and
// tool identity are derived from the URL's filename, not stored separately.
type ArtifactRef struct {
	URL    string `json:"url"`
	SHA256 string `json:"sha256"`
}

// ReleaseEntry describes one published toolchain release.
type ReleaseEntry struct {
	Version string        `json:"version"`
	Stable  bool          `json:"stable"`
	Files   []ArtifactRef `json:"files"`
}

// ReleaseManifest is the ordered list of releases published by the
// distribution server. It is immutable once fetched.
type ReleaseManifest []ReleaseEntry

// Versions returns the version strings of every release in the manifest.
func (m ReleaseManifest) Versions() []string {
	versions := make([]string, 0, len(m))
	for _, entry := range m {
		versions = append(versions, entry.Version)
	}
	return versions
}

// ServerBaseURL resolves the distribution server base URL. The environment
// override is used only when it is non-empty after trimming whitespace.
func ServerBaseURL() string {
	if override := strings.TrimSpace(os.Getenv(DistServerEnv)); override != "" {
		return strings.TrimRight(override, "/")
	}
	return DefaultDistServer
}

// Client fetches release manifests from a distribution server.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a manifest client for the resolved distribution server.
func NewClient() *Client {
	return NewClientWithBaseURL(ServerBaseURL())
}

// NewClientWithBaseURL creates a manifest client for a specific server.
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// BaseURL returns the base URL this client fetches from.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Fetch retrieves and validates the release manifest. The result is
// all-or-nothing: any entry missing required fields fails the whole fetch.
// Retry policy belongs to the caller, not this layer.
func (c *Client) Fetch() (ReleaseManifest, error) {
	url := c.baseURL + manifestPath

	resp, err := c.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch manifest from %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch manifest: HTTP %d from %s", resp.StatusCode, url)
	}

	var m ReleaseManifest
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if err := validate(m); err != nil {
		return nil, err
	}

	return m, nil
}

// validate enforces the required fields of the wire format.
func validate(m ReleaseManifest) error {
	seen := make(map[string]bool, len(m))
	for i, entry := range m {
		if entry.Version == "" {
			return fmt.Errorf("%w: entry %d has no version", ErrMalformed, i)
		}
		if _, err := semver.NewVersion(entry.Version); err != nil {
			return fmt.Errorf("%w: entry %d has invalid version %q", ErrMalformed, i, entry.Version)
		}
		if seen[entry.Version] {
			return fmt.Errorf("%w: duplicate version %q", ErrMalformed, entry.Version)
		}
		seen[entry.Version] = true

		for j, file := range entry.Files {
			if file.URL == "" {
				return fmt.Errorf("%w: version %s file %d has no url", ErrMalformed, entry.Version, j)
			}
			if !isHexDigest(file.SHA256) {
				return fmt.Errorf("%w: version %s file %d has invalid sha256 %q", ErrMalformed, entry.Version, j, file.SHA256)
			}
		}
	}
	return nil
}

// isHexDigest reports whether s is a 64-character hex SHA256 digest.
func isHexDigest(s string) bool {
	if len(s) != 64 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

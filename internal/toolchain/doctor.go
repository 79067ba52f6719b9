package toolchain

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/0xGeorgii/inference/internal/manifest"
)

// CheckStatus classifies a doctor finding.
type CheckStatus int

const (
	StatusOK CheckStatus = iota
	StatusWarning
	StatusError
)

// Check is one read-only diagnostic finding.
type Check struct {
	Name    string      `json:"name" yaml:"name"`
	Status  CheckStatus `json:"status" yaml:"status"`
	Message string      `json:"message" yaml:"message"`
}

// String renders the status for text output.
func (s CheckStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusWarning:
		return "warning"
	default:
		return "error"
	}
}

// MarshalJSON encodes the status as its string form.
func (s CheckStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// MarshalYAML encodes the status as its string form.
func (s CheckStatus) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// RunChecks performs the read-only consistency checks over the home
// layout, registry, and default toolchain. Nothing is mutated; findings
// carry remediation hints.
func RunChecks(paths *Paths, registry *Registry) []Check {
	var checks []Check

	checks = append(checks, checkPlatform())
	checks = append(checks, checkHome(paths))

	regCheck, state := checkRegistry(registry)
	checks = append(checks, regCheck)

	if state != nil {
		checks = append(checks, checkDefault(paths, state)...)
	}

	checks = append(checks, checkStaging(paths))
	checks = append(checks, checkUpdateRemnant())

	return checks
}

func checkPlatform() Check {
	platform, err := manifest.Detect()
	if err != nil {
		return Check{
			Name:    "platform",
			Status:  StatusError,
			Message: err.Error() + " (no prebuilt toolchains available)",
		}
	}
	return Check{Name: "platform", Status: StatusOK, Message: platform.String()}
}

func checkHome(paths *Paths) Check {
	if _, err := os.Stat(paths.Root); os.IsNotExist(err) {
		return Check{
			Name:    "home",
			Status:  StatusWarning,
			Message: fmt.Sprintf("%s does not exist yet; run 'infs install'", paths.Root),
		}
	}
	return Check{Name: "home", Status: StatusOK, Message: paths.Root}
}

// checkRegistry parses the registry. Corruption is surfaced, never
// repaired: rebuilding silently could mask data loss.
func checkRegistry(registry *Registry) (Check, *registryFile) {
	state, err := registry.load()
	if err != nil {
		if errors.Is(err, ErrCorruptMetadata) {
			return Check{
				Name:    "registry",
				Status:  StatusError,
				Message: err.Error() + "; reinstall or restore the file to recover",
			}, nil
		}
		return Check{Name: "registry", Status: StatusError, Message: err.Error()}, nil
	}
	return Check{
		Name:    "registry",
		Status:  StatusOK,
		Message: fmt.Sprintf("%d toolchain(s) recorded", len(state.Toolchains)),
	}, state
}

func checkDefault(paths *Paths, state *registryFile) []Check {
	if state.Default == "" {
		if len(state.Toolchains) == 0 {
			return []Check{{
				Name:    "default",
				Status:  StatusWarning,
				Message: "no toolchain installed; run 'infs install'",
			}}
		}
		return []Check{{
			Name:    "default",
			Status:  StatusWarning,
			Message: "no default set; run 'infs default <version>'",
		}}
	}

	found := false
	for _, tc := range state.Toolchains {
		if tc.Version == state.Default {
			found = true
			break
		}
	}
	if !found {
		return []Check{{
			Name:    "default",
			Status:  StatusError,
			Message: fmt.Sprintf("default %s is not an installed version", state.Default),
		}}
	}

	checks := []Check{{Name: "default", Status: StatusOK, Message: state.Default}}
	for _, name := range CompanionBinaries() {
		path := paths.BinaryPath(state.Default, name)
		if err := checkExecutable(path); err != nil {
			checks = append(checks, Check{
				Name:    name,
				Status:  StatusError,
				Message: fmt.Sprintf("%s: %v; reinstall with 'infs uninstall %s && infs install %s'", path, err, state.Default, state.Default),
			})
			continue
		}
		checks = append(checks, Check{Name: name, Status: StatusOK, Message: path})
	}
	return checks
}

func checkStaging(paths *Paths) Check {
	entries, err := os.ReadDir(paths.Staging)
	if err != nil || len(entries) == 0 {
		return Check{Name: "staging", Status: StatusOK, Message: "clean"}
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return Check{
		Name:    "staging",
		Status:  StatusWarning,
		Message: fmt.Sprintf("stale staging artifacts (%s); the next install will discard them", strings.Join(names, ", ")),
	}
}

// checkUpdateRemnant looks for the renamed-aside binary a Windows-style
// self-update leaves behind.
func checkUpdateRemnant() Check {
	exe, err := os.Executable()
	if err != nil {
		return Check{Name: "self-update", Status: StatusOK, Message: "clean"}
	}
	old := exe + ".old"
	if _, err := os.Stat(old); err == nil {
		return Check{
			Name:    "self-update",
			Status:  StatusWarning,
			Message: fmt.Sprintf("previous binary left at %s; it is removed automatically on a later run", old),
		}
	}
	return Check{Name: "self-update", Status: StatusOK, Message: "clean"}
}

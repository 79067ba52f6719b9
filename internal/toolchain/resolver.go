package toolchain

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// CompilerOverrideEnv points at an exact compiler executable and takes
// precedence over all automatic resolution.
const CompilerOverrideEnv = "INFC_PATH"

// compilerName is the compiler binary looked up on PATH and inside
// managed toolchains.
const compilerName = "infc"

var (
	// ErrNoToolchainFound indicates no usable compiler exists at any
	// resolution tier. Distinct from a version missing in the manifest.
	ErrNoToolchainFound = errors.New("no toolchain found")
	// ErrMalformedOverride indicates the override is set but does not
	// point at an existing executable. An explicit override signals
	// deliberate intent, so resolution does not fall through.
	ErrMalformedOverride = errors.New("invalid compiler override")
)

// Source reports which resolution tier produced a compiler path.
type Source string

const (
	SourceOverride   Source = "override"
	SourceSystemPath Source = "system-path"
	SourceManaged    Source = "managed"
)

// CompilerLocation is the resolved compiler handed to build and run. It
// is recomputed per invocation and never persisted.
type CompilerLocation struct {
	Path   string
	Source Source
}

// ResolveCompiler finds the compiler binary by priority: the explicit
// override, then the system search path, then the registry's default
// toolchain.
func ResolveCompiler(paths *Paths, registry *Registry) (*CompilerLocation, error) {
	if override := strings.TrimSpace(os.Getenv(CompilerOverrideEnv)); override != "" {
		if err := checkExecutable(override); err != nil {
			return nil, fmt.Errorf("%w: %s=%s: %v", ErrMalformedOverride, CompilerOverrideEnv, override, err)
		}
		return &CompilerLocation{Path: override, Source: SourceOverride}, nil
	}

	if path, err := exec.LookPath(compilerName + exeSuffix()); err == nil {
		return &CompilerLocation{Path: path, Source: SourceSystemPath}, nil
	}

	defaultVersion, err := registry.Default()
	if err != nil {
		return nil, err
	}
	if defaultVersion != "" {
		path := paths.BinaryPath(defaultVersion, compilerName+exeSuffix())
		if err := checkExecutable(path); err == nil {
			return &CompilerLocation{Path: path, Source: SourceManaged}, nil
		}
	}

	return nil, fmt.Errorf("%w: run 'infs install' to install a toolchain, or set %s to an existing compiler",
		ErrNoToolchainFound, CompilerOverrideEnv)
}

// checkExecutable verifies the path exists, is a regular file, and is
// executable.
func checkExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.New("file does not exist")
		}
		return err
	}
	if info.IsDir() {
		return errors.New("path is a directory")
	}
	if runtime.GOOS != "windows" && info.Mode().Perm()&0o111 == 0 {
		return errors.New("file is not executable")
	}
	return nil
}

func exeSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}

package toolchain

import (
	"os"
	"path/filepath"
	"testing"
)

func findCheck(t *testing.T, checks []Check, name string) Check {
	t.Helper()
	for _, check := range checks {
		if check.Name == name {
			return check
		}
	}
	t.Fatalf("no %q check in %v", name, checks)
	return Check{}
}

func TestRunChecksFreshHome(t *testing.T) {
	paths := WithRoot(filepath.Join(t.TempDir(), "missing"))
	registry := NewRegistry(paths)

	checks := RunChecks(paths, registry)

	if got := findCheck(t, checks, "home"); got.Status != StatusWarning {
		t.Errorf("home status = %s, want warning", got.Status)
	}
	if got := findCheck(t, checks, "registry"); got.Status != StatusOK {
		t.Errorf("registry status = %s, want ok (missing file is empty)", got.Status)
	}
	if got := findCheck(t, checks, "default"); got.Status != StatusWarning {
		t.Errorf("default status = %s, want warning", got.Status)
	}
}

func TestRunChecksHealthyInstall(t *testing.T) {
	paths, registry := testRegistry(t)

	for _, name := range CompanionBinaries() {
		writeExecutable(t, paths.BinaryPath("0.1.0", name))
	}
	if err := registry.Add(entry("0.1.0")); err != nil {
		t.Fatal(err)
	}

	checks := RunChecks(paths, registry)

	if got := findCheck(t, checks, "default"); got.Status != StatusOK {
		t.Errorf("default check = %+v, want ok", got)
	}
	for _, name := range CompanionBinaries() {
		if got := findCheck(t, checks, name); got.Status != StatusOK {
			t.Errorf("%s check = %+v, want ok", name, got)
		}
	}
	if got := findCheck(t, checks, "staging"); got.Status != StatusOK {
		t.Errorf("staging check = %+v, want ok", got)
	}
}

func TestRunChecksMissingCompanion(t *testing.T) {
	paths, registry := testRegistry(t)

	// infc present, companions missing.
	writeExecutable(t, paths.BinaryPath("0.1.0", CompanionBinaries()[0]))
	if err := registry.Add(entry("0.1.0")); err != nil {
		t.Fatal(err)
	}

	checks := RunChecks(paths, registry)
	if got := findCheck(t, checks, CompanionBinaries()[1]); got.Status != StatusError {
		t.Errorf("%s check = %+v, want error", CompanionBinaries()[1], got)
	}
}

func TestRunChecksDanglingDefault(t *testing.T) {
	paths, registry := testRegistry(t)

	state := &registryFile{Default: "0.9.0", Toolchains: []InstalledToolchain{entry("0.1.0")}}
	if err := registry.write(state); err != nil {
		t.Fatal(err)
	}

	checks := RunChecks(paths, registry)
	if got := findCheck(t, checks, "default"); got.Status != StatusError {
		t.Errorf("default check = %+v, want error", got)
	}
}

func TestRunChecksCorruptRegistry(t *testing.T) {
	paths, registry := testRegistry(t)

	if err := os.WriteFile(paths.RegistryPath(), []byte("not [valid toml"), 0o644); err != nil {
		t.Fatal(err)
	}

	checks := RunChecks(paths, registry)
	if got := findCheck(t, checks, "registry"); got.Status != StatusError {
		t.Errorf("registry check = %+v, want error", got)
	}

	// Diagnostics never repair.
	data, _ := os.ReadFile(paths.RegistryPath())
	if string(data) != "not [valid toml" {
		t.Error("doctor modified the registry file")
	}
}

func TestRunChecksStaleStaging(t *testing.T) {
	paths, registry := testRegistry(t)

	if err := os.WriteFile(filepath.Join(paths.Staging, "0.1.0-infc-linux-x64.tar.gz"), []byte("partial"), 0o644); err != nil {
		t.Fatal(err)
	}

	checks := RunChecks(paths, registry)
	if got := findCheck(t, checks, "staging"); got.Status != StatusWarning {
		t.Errorf("staging check = %+v, want warning", got)
	}
}

func TestCheckStatusString(t *testing.T) {
	tests := []struct {
		status CheckStatus
		want   string
	}{
		{StatusOK, "ok"},
		{StatusWarning, "warning"},
		{StatusError, "error"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("String() = %s, want %s", got, tt.want)
		}
	}
}

package toolchain

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeExecutable(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
}

func installManagedDefault(t *testing.T, paths *Paths, registry *Registry, version string) {
	t.Helper()
	writeExecutable(t, paths.BinaryPath(version, "infc"+exeSuffix()))
	if err := registry.Add(entry(version)); err != nil {
		t.Fatal(err)
	}
}

func TestResolveCompilerOverride(t *testing.T) {
	paths, registry := testRegistry(t)

	override := filepath.Join(t.TempDir(), "custom-infc")
	writeExecutable(t, override)
	t.Setenv(CompilerOverrideEnv, override)

	loc, err := ResolveCompiler(paths, registry)
	if err != nil {
		t.Fatalf("ResolveCompiler() error = %v", err)
	}
	if loc.Source != SourceOverride {
		t.Errorf("source = %s, want override", loc.Source)
	}
	if loc.Path != override {
		t.Errorf("path = %s, want %s", loc.Path, override)
	}
}

func TestResolveCompilerMalformedOverride(t *testing.T) {
	paths, registry := testRegistry(t)

	// The override exists but resolution still must not fall through to a
	// perfectly good managed default.
	installManagedDefault(t, paths, registry, "0.1.0")
	t.Setenv(CompilerOverrideEnv, filepath.Join(t.TempDir(), "missing-infc"))

	_, err := ResolveCompiler(paths, registry)
	if !errors.Is(err, ErrMalformedOverride) {
		t.Errorf("ResolveCompiler() error = %v, want ErrMalformedOverride", err)
	}
}

func TestResolveCompilerOverrideDirectory(t *testing.T) {
	paths, registry := testRegistry(t)
	t.Setenv(CompilerOverrideEnv, t.TempDir())

	_, err := ResolveCompiler(paths, registry)
	if !errors.Is(err, ErrMalformedOverride) {
		t.Errorf("ResolveCompiler() error = %v, want ErrMalformedOverride", err)
	}
}

func TestResolveCompilerSystemPath(t *testing.T) {
	paths, registry := testRegistry(t)
	t.Setenv(CompilerOverrideEnv, "")

	binDir := t.TempDir()
	writeExecutable(t, filepath.Join(binDir, "infc"+exeSuffix()))
	t.Setenv("PATH", binDir)

	// System path wins over a managed default.
	installManagedDefault(t, paths, registry, "0.1.0")

	loc, err := ResolveCompiler(paths, registry)
	if err != nil {
		t.Fatalf("ResolveCompiler() error = %v", err)
	}
	if loc.Source != SourceSystemPath {
		t.Errorf("source = %s, want system-path", loc.Source)
	}
}

func TestResolveCompilerManagedDefault(t *testing.T) {
	paths, registry := testRegistry(t)
	t.Setenv(CompilerOverrideEnv, "")
	t.Setenv("PATH", t.TempDir())

	installManagedDefault(t, paths, registry, "0.1.0")

	loc, err := ResolveCompiler(paths, registry)
	if err != nil {
		t.Fatalf("ResolveCompiler() error = %v", err)
	}
	if loc.Source != SourceManaged {
		t.Errorf("source = %s, want managed", loc.Source)
	}
	if want := paths.BinaryPath("0.1.0", "infc"+exeSuffix()); loc.Path != want {
		t.Errorf("path = %s, want %s", loc.Path, want)
	}
}

func TestResolveCompilerNotFound(t *testing.T) {
	paths, registry := testRegistry(t)
	t.Setenv(CompilerOverrideEnv, "")
	t.Setenv("PATH", t.TempDir())

	_, err := ResolveCompiler(paths, registry)
	if !errors.Is(err, ErrNoToolchainFound) {
		t.Errorf("ResolveCompiler() error = %v, want ErrNoToolchainFound", err)
	}
}

//go:build unix

package update

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDirectReplacer(t *testing.T) {
	dir := t.TempDir()

	current := filepath.Join(dir, "infs")
	if err := os.WriteFile(current, []byte("old binary"), 0o755); err != nil {
		t.Fatal(err)
	}
	replacement := filepath.Join(dir, "downloaded-infs")
	if err := os.WriteFile(replacement, []byte("new binary"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := NewReplacer(current).Replace(replacement); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	data, err := os.ReadFile(current)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "new binary" {
		t.Errorf("binary content = %q, want new binary", data)
	}

	info, err := os.Stat(current)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm()&0o111 == 0 {
		t.Error("replaced binary is not executable")
	}

	if _, err := os.Stat(current + ".new"); !os.IsNotExist(err) {
		t.Error("staging file left behind")
	}
}

func TestDirectReplacerMissingSource(t *testing.T) {
	dir := t.TempDir()
	current := filepath.Join(dir, "infs")
	if err := os.WriteFile(current, []byte("old binary"), 0o755); err != nil {
		t.Fatal(err)
	}

	err := NewReplacer(current).Replace(filepath.Join(dir, "missing"))
	if err == nil {
		t.Fatal("Replace() expected error for missing source")
	}

	// The original binary must be untouched on failure.
	data, _ := os.ReadFile(current)
	if string(data) != "old binary" {
		t.Errorf("binary content = %q, want old binary", data)
	}
}

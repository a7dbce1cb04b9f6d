package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestNewManifestFields(t *testing.T) {
	m := New("/opt/kinectxr/libkinect_openxr_runtime.so")
	if m.FileFormatVersion != FileFormatVersion {
		t.Fatalf("unexpected format version: %s", m.FileFormatVersion)
	}
	if m.Runtime.Name != RuntimeName {
		t.Fatalf("unexpected runtime name: %s", m.Runtime.Name)
	}
	if m.Runtime.LibraryPath == "" {
		t.Fatal("expected non-empty library path")
	}
}

func TestManifestRoundTripsThroughJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "active_runtime.json")

	data, err := json.Marshal(New("/lib/libfoo.so"))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got.Runtime.LibraryPath != "/lib/libfoo.so" {
		t.Fatalf("unexpected library path: %s", got.Runtime.LibraryPath)
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := Read("/nonexistent/path/active_runtime.json"); err == nil {
		t.Fatal("expected an error reading a missing manifest")
	}
}

func TestLocatePrefersEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom_runtime.json")
	os.WriteFile(path, []byte(`{}`), 0o644)

	t.Setenv(EnvOverride, path)
	got, err := Locate()
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if got != path {
		t.Fatalf("expected %s, got %s", path, got)
	}
}

func TestLocateFailsWhenNothingExists(t *testing.T) {
	t.Setenv(EnvOverride, "")
	t.Setenv("HOME", t.TempDir())
	if _, err := Locate(); err == nil {
		t.Fatal("expected Locate to fail with no override and no default manifest present")
	}
}

func TestInstallThenLocate(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvOverride, "")

	dest, err := Install("/opt/kinectxr/libkinect_openxr_runtime.so")
	if err != nil {
		t.Fatalf("Install failed: %v", err)
	}

	got, err := Locate()
	if err != nil {
		t.Fatalf("Locate failed after Install: %v", err)
	}
	if got != dest {
		t.Fatalf("expected Locate to find the installed manifest at %s, got %s", dest, got)
	}

	m, err := Read(got)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if m.Runtime.LibraryPath != "/opt/kinectxr/libkinect_openxr_runtime.so" {
		t.Fatalf("unexpected library path: %s", m.Runtime.LibraryPath)
	}
}

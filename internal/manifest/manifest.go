// Package manifest implements the OpenXR runtime manifest JSON: the file
// the loader reads to find and load this runtime's shared object, plus
// discovery and self-installation helpers cmd/xr-diag uses.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kinectxr/runtime/internal/logging"
)

var log = logging.L("manifest")

// FileFormatVersion is the only manifest schema version this runtime
// writes or understands.
const FileFormatVersion = "1.0.0"

// RuntimeName is the human-readable name reported in the manifest.
const RuntimeName = "Kinect XR Runtime"

// EnvOverride is the standard OpenXR environment variable that, when set,
// names the manifest file to use instead of any platform default.
const EnvOverride = "XR_RUNTIME_JSON"

// Manifest mirrors the on-disk JSON schema the OpenXR loader consumes.
type Manifest struct {
	FileFormatVersion string       `json:"file_format_version"`
	Runtime           RuntimeBlock `json:"runtime"`
}

// RuntimeBlock is the nested "runtime" object.
type RuntimeBlock struct {
	Name        string `json:"name"`
	LibraryPath string `json:"library_path"`
}

// New builds a Manifest pointing at libraryPath.
func New(libraryPath string) Manifest {
	return Manifest{
		FileFormatVersion: FileFormatVersion,
		Runtime: RuntimeBlock{
			Name:        RuntimeName,
			LibraryPath: libraryPath,
		},
	}
}

// DefaultPaths returns the platform-default manifest locations, in the
// order the loader is expected to prefer them.
func DefaultPaths() []string {
	home, _ := os.UserHomeDir()
	return []string{
		filepath.Join(home, ".config", "openxr", "1", "active_runtime.json"),
		"/usr/local/share/openxr/1/active_runtime.json",
	}
}

// Locate resolves the manifest path the loader would use: EnvOverride if
// set, otherwise the first of DefaultPaths that exists.
func Locate() (string, error) {
	if p := os.Getenv(EnvOverride); p != "" {
		return p, nil
	}
	for _, p := range DefaultPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("no runtime manifest found via %s or platform defaults", EnvOverride)
}

// Read loads and parses the manifest at path.
func Read(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest: %w", err)
	}
	return m, nil
}

// Install writes a manifest pointing at libraryPath to the per-user
// default location (DefaultPaths()[0]), creating parent directories as
// needed, and returns the path it wrote to. cmd/xr-diag's "install"
// subcommand is the only caller; the manifest file itself is ordinary
// loader configuration, not something this library writes on its own
// initiative. The system-wide location (DefaultPaths()[1]) is installed
// by packaging, not by this runtime.
func Install(libraryPath string) (string, error) {
	dest := DefaultPaths()[0]
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("create manifest directory: %w", err)
	}
	data, err := json.MarshalIndent(New(libraryPath), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return "", fmt.Errorf("write manifest: %w", err)
	}
	log.Info("installed runtime manifest", "path", dest, "library_path", libraryPath)
	return dest, nil
}

// Package workdir contains the pure business logic for work directories.
// A work directory holds the decompiled source and generated patches for
// one (SDK version, DLL hash) pair.
package workdir

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Amrsatrio/WrlXaml/internal/core/sdkver"
)

const (
	// WorkDirName is the directory under the project root that holds work directories.
	WorkDirName = "Work"
	// PatchDirName is the directory under the project root that holds patch sets.
	PatchDirName = "Patches"
	// SourceDirName is the decompiled-source directory inside a work directory.
	SourceDirName = "Source"
	// PatchOutputDirName is the generated-patches directory inside a work directory.
	PatchOutputDirName = "Patches"
	// MetadataFileName is the metadata file inside a work directory.
	MetadataFileName = "metadata.json"
	// HelperScriptBase is the base name of the generated helper scripts.
	HelperScriptBase = "make-patches"
)

// Key identifies a work directory by SDK version and DLL content hash.
type Key struct {
	SdkVersion sdkver.Version
	DllHash    string
}

// ID returns the canonical identifier "<version>/<hash>".
func (k Key) ID() string {
	return k.SdkVersion.String() + "/" + k.DllHash
}

// String implements fmt.Stringer.
func (k Key) String() string {
	return k.ID()
}

// ParseKey parses a canonical "<version>/<hash>" identifier.
func ParseKey(id string) (Key, error) {
	parts := strings.Split(id, "/")
	if len(parts) != 2 {
		return Key{}, fmt.Errorf("invalid workdir ID %q: want <sdk-version>/<dll-hash>", id)
	}

	version, err := sdkver.Parse(parts[0])
	if err != nil {
		return Key{}, fmt.Errorf("invalid workdir ID %q: %w", id, err)
	}
	if parts[1] == "" {
		return Key{}, fmt.Errorf("invalid workdir ID %q: empty DLL hash", id)
	}

	return Key{SdkVersion: version, DllHash: parts[1]}, nil
}

// Layout resolves the fixed directory conventions under a project root.
// All methods are pure path arithmetic; nothing touches the filesystem.
type Layout struct {
	Root string
	// PatchBase optionally relocates the patch sets outside Root, for
	// sharing one set collection across several project roots.
	PatchBase string
}

// WorkRoot returns the directory holding all work directories.
func (l Layout) WorkRoot() string {
	return filepath.Join(l.Root, WorkDirName)
}

// PatchRoot returns the directory holding all patch sets.
func (l Layout) PatchRoot() string {
	if l.PatchBase != "" {
		return l.PatchBase
	}
	return filepath.Join(l.Root, PatchDirName)
}

// SetDir returns the directory of a named patch set.
func (l Layout) SetDir(name string) string {
	return filepath.Join(l.PatchRoot(), name)
}

// Dir returns the work directory for a key.
func (l Layout) Dir(k Key) string {
	return filepath.Join(l.WorkRoot(), k.SdkVersion.String(), k.DllHash)
}

// SourceDir returns the decompiled-source directory for a key.
func (l Layout) SourceDir(k Key) string {
	return filepath.Join(l.Dir(k), SourceDirName)
}

// PatchOutputDir returns the generated-patches directory for a key.
func (l Layout) PatchOutputDir(k Key) string {
	return filepath.Join(l.Dir(k), PatchOutputDirName)
}

// MetadataPath returns the metadata file path for a key.
func (l Layout) MetadataPath(k Key) string {
	return filepath.Join(l.Dir(k), MetadataFileName)
}

// HelperScriptPath returns the helper script path for a key and extension
// ("cmd" or "sh").
func (l Layout) HelperScriptPath(k Key, ext string) string {
	return filepath.Join(l.Dir(k), HelperScriptBase+"."+ext)
}

// Metadata describes a work directory. It is written as metadata.json at
// setup time and read back by status and rebuild commands.
type Metadata struct {
	Version     string `json:"version"`
	SdkVersion  string `json:"sdk_version"`
	SdkRoot     string `json:"sdk_root"`
	DllHash     string `json:"dll_hash"`
	DllPath     string `json:"dll_path"`
	Baseline    string `json:"baseline_commit"`
	ToolVersion string `json:"tool_version"`
	CreatedAt   string `json:"created_at"`
}

// MetadataFormatVersion is the current metadata.json format version.
const MetadataFormatVersion = "1.0"

// NewMetadata builds metadata for a freshly set up work directory.
func NewMetadata(k Key, sdkRoot, dllPath, baseline, toolVersion string) Metadata {
	return Metadata{
		Version:     MetadataFormatVersion,
		SdkVersion:  k.SdkVersion.String(),
		SdkRoot:     sdkRoot,
		DllHash:     k.DllHash,
		DllPath:     dllPath,
		Baseline:    baseline,
		ToolVersion: toolVersion,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
}

// Key returns the work directory key recorded in the metadata.
func (m Metadata) Key() (Key, error) {
	version, err := sdkver.Parse(m.SdkVersion)
	if err != nil {
		return Key{}, fmt.Errorf("metadata has invalid sdk_version %q: %w", m.SdkVersion, err)
	}
	return Key{SdkVersion: version, DllHash: m.DllHash}, nil
}

// EncodeMetadata serializes metadata as indented JSON.
func EncodeMetadata(m Metadata) []byte {
	data, _ := json.MarshalIndent(m, "", "  ")
	return data
}

// DecodeMetadata parses a metadata.json payload.
func DecodeMetadata(data []byte) (Metadata, error) {
	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return Metadata{}, fmt.Errorf("failed to parse metadata: %w", err)
	}
	if m.SdkVersion == "" || m.DllHash == "" {
		return Metadata{}, fmt.Errorf("metadata is missing sdk_version or dll_hash")
	}
	return m, nil
}

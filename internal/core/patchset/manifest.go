package patchset

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ManifestFileName is the optional per-set manifest file.
const ManifestFileName = "manifest.yaml"

// Manifest carries optional patch set documentation shown by the sets
// command. Sets without a manifest are perfectly valid.
type Manifest struct {
	Description string `yaml:"description"`
	Owner       string `yaml:"owner"`
	Notes       string `yaml:"notes"`
}

// ParseManifest parses a manifest.yaml payload.
func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return m, nil
}

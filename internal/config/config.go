package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ConfigVersion is the current config file format version.
const ConfigVersion = "1.0"

// Config represents the flat wrlxaml configuration stored at
// ~/.wrlxaml/config.json. Zero-value fields fall back to defaults at
// resolution time so a hand-edited partial config keeps working.
type Config struct {
	Version       string   `json:"version"`
	GitBin        string   `json:"git_bin,omitempty"`        // default "git"
	DecompilerBin string   `json:"decompiler_bin,omitempty"` // default "ilspycmd"
	BuildBin      string   `json:"build_bin,omitempty"`      // default "dotnet"
	BuildArgs     []string `json:"build_args,omitempty"`     // default ["build"]
	Editor        string   `json:"editor,omitempty"`         // default $EDITOR, then "vi"
	SdkRoot       string   `json:"sdk_root,omitempty"`       // overrides registry lookup
	WorkRoot      string   `json:"work_root,omitempty"`      // project root when --root is not given
	PatchRoot     string   `json:"patch_root,omitempty"`     // overrides <root>/Patches
}

// Default returns a config populated with the standard tool bindings.
func Default() *Config {
	return &Config{
		Version:       ConfigVersion,
		GitBin:        "git",
		DecompilerBin: "ilspycmd",
		BuildBin:      "dotnet",
		BuildArgs:     []string{"build"},
	}
}

// Dir returns the wrlxaml state directory (~/.wrlxaml).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".wrlxaml"), nil
}

// Path returns the config file path (~/.wrlxaml/config.json).
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads config.json from the state directory. A missing file yields
// the defaults; a malformed file is an error.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads a config file from an explicit path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// Save writes the config to the state directory.
func Save(cfg *Config) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	return SaveTo(filepath.Join(dir, "config.json"), cfg)
}

// SaveTo writes the config to an explicit path.
func SaveTo(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Git returns the configured git binary.
func (c *Config) Git() string {
	if c.GitBin != "" {
		return c.GitBin
	}
	return "git"
}

// Decompiler returns the configured decompiler binary.
func (c *Config) Decompiler() string {
	if c.DecompilerBin != "" {
		return c.DecompilerBin
	}
	return "ilspycmd"
}

// Build returns the configured build tool binary and its base arguments.
func (c *Config) Build() (string, []string) {
	bin := c.BuildBin
	if bin == "" {
		bin = "dotnet"
	}
	args := c.BuildArgs
	if len(args) == 0 && bin == "dotnet" {
		args = []string{"build"}
	}
	return bin, args
}

// EditorCommand returns the editor to launch in edit sessions.
func (c *Config) EditorCommand() string {
	if c.Editor != "" {
		return c.Editor
	}
	if env := os.Getenv("EDITOR"); env != "" {
		return env
	}
	return "vi"
}

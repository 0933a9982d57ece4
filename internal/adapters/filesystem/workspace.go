// Package filesystem contains filesystem-based adapter implementations.
package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Amrsatrio/WrlXaml/internal/ports/secondary"
)

// Workspace implements secondary.Workspace over the local filesystem.
type Workspace struct{}

// NewWorkspace creates a new filesystem workspace adapter.
func NewWorkspace() *Workspace {
	return &Workspace{}
}

// EnsureDir creates a directory with all parent directories.
func (w *Workspace) EnsureDir(ctx context.Context, path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}

// RemoveDir removes a directory and all contents.
func (w *Workspace) RemoveDir(ctx context.Context, path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to remove directory: %w", err)
	}
	return nil
}

// DirExists checks if a directory exists.
func (w *Workspace) DirExists(ctx context.Context, path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check directory: %w", err)
	}
	return info.IsDir(), nil
}

// FileExists checks if a regular file exists.
func (w *Workspace) FileExists(ctx context.Context, path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check file: %w", err)
	}
	return info.Mode().IsRegular(), nil
}

// WriteFile writes a file, creating parent directories as needed.
func (w *Workspace) WriteFile(ctx context.Context, path string, data []byte, mode fs.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}
	if err := os.WriteFile(path, data, mode); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// ReadFile reads a file.
func (w *Workspace) ReadFile(ctx context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// ListDirNames returns the names of subdirectories of path, sorted.
// A missing path yields no names rather than an error.
func (w *Workspace) ListDirNames(ctx context.Context, path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// ListFilesWithExt returns the names of files in dir with the given
// extension, sorted. A missing directory yields no names.
func (w *Workspace) ListFilesWithExt(ctx context.Context, dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// Ensure Workspace implements the interface
var _ secondary.Workspace = (*Workspace)(nil)

package secondary

import (
	"context"
	"io/fs"
)

// Workspace defines the secondary port for filesystem operations on the
// project tree (Work/ and Patches/ under the project root).
type Workspace interface {
	// EnsureDir creates a directory with all parent directories.
	EnsureDir(ctx context.Context, path string) error

	// RemoveDir removes a directory and all contents.
	RemoveDir(ctx context.Context, path string) error

	// DirExists checks if a directory exists.
	DirExists(ctx context.Context, path string) (bool, error)

	// FileExists checks if a regular file exists.
	FileExists(ctx context.Context, path string) (bool, error)

	// WriteFile writes a file, creating parent directories as needed.
	WriteFile(ctx context.Context, path string, data []byte, mode fs.FileMode) error

	// ReadFile reads a file.
	ReadFile(ctx context.Context, path string) ([]byte, error)

	// ListDirNames returns the names of subdirectories of path, sorted.
	ListDirNames(ctx context.Context, path string) ([]string, error)

	// ListFilesWithExt returns the names of files in dir with the given
	// extension, sorted. Non-recursive.
	ListFilesWithExt(ctx context.Context, dir, ext string) ([]string, error)
}

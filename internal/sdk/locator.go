// Package sdk resolves installed Windows SDK locations and the build-task
// DLL inside them.
package sdk

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/Amrsatrio/WrlXaml/internal/core/sdkver"
)

const (
	// EnvSdkRoot overrides SDK root resolution when set.
	EnvSdkRoot = "WRLXAML_SDK_ROOT"
	// TaskDllName is the build-task DLL this tool operates on.
	TaskDllName = "Microsoft.Windows.UI.Xaml.Build.Tasks.dll"
)

// Locator resolves the SDK install root and its contents.
// Root resolution order: explicit override (flag or config), the
// WRLXAML_SDK_ROOT environment variable, then the Windows registry.
type Locator struct {
	Override string
}

// Root returns the SDK install root. The resolved directory must exist.
func (l Locator) Root() (string, error) {
	if l.Override != "" {
		return checkRoot(l.Override, "configured sdk root")
	}

	if env := os.Getenv(EnvSdkRoot); env != "" {
		return checkRoot(env, EnvSdkRoot)
	}

	root, err := registryKitsRoot()
	if err != nil {
		return "", fmt.Errorf("failed to locate SDK root (no --sdk-root, %s unset): %w", EnvSdkRoot, err)
	}
	return checkRoot(root, "registry KitsRoot10")
}

func checkRoot(root, source string) (string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return "", fmt.Errorf("SDK root %s (from %s) is not accessible: %w", root, source, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("SDK root %s (from %s) is not a directory", root, source)
	}
	return root, nil
}

// Installed enumerates installed SDK versions, sorted ascending. A
// registry-resolved root is listed from the registry subkeys; an explicit
// root is scanned for version-named directories under <root>/bin, which is
// also the fallback when the registry lists nothing.
func (l Locator) Installed() ([]sdkver.Version, error) {
	root, err := l.Root()
	if err != nil {
		return nil, err
	}

	var names []string
	if l.Override == "" && os.Getenv(EnvSdkRoot) == "" {
		names, _ = registryInstalledVersions()
	}
	if len(names) == 0 {
		names, err = binVersionDirs(root)
		if err != nil {
			return nil, err
		}
	}

	var versions []sdkver.Version
	for _, name := range names {
		v, err := sdkver.Parse(name)
		if err != nil {
			continue // non-version entries like "wow64" or stray files
		}
		versions = append(versions, v)
	}

	sort.Slice(versions, func(i, j int) bool { return versions[i].Compare(versions[j]) < 0 })
	return versions, nil
}

func binVersionDirs(root string) ([]string, error) {
	binDir := filepath.Join(root, "bin")
	entries, err := os.ReadDir(binDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list SDK versions under %s: %w", binDir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// FindTaskDll locates the build-task DLL for an SDK version by walking
// <root>/bin/<version>. The walk is lexical, so the first hit is stable
// across runs (x64 before x86 in practice).
func (l Locator) FindTaskDll(version sdkver.Version) (string, error) {
	root, err := l.Root()
	if err != nil {
		return "", err
	}

	versionDir := filepath.Join(root, "bin", version.String())
	if _, err := os.Stat(versionDir); err != nil {
		return "", fmt.Errorf("SDK version %s is not installed under %s: %w", version, root, err)
	}

	var found string
	err = filepath.WalkDir(versionDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == TaskDllName {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to search for %s: %w", TaskDllName, err)
	}
	if found == "" {
		return "", fmt.Errorf("%s not found under %s", TaskDllName, versionDir)
	}

	return found, nil
}

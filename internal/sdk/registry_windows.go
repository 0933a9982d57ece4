//go:build windows

package sdk

import (
	"fmt"

	"golang.org/x/sys/windows/registry"
)

const installedRootsKey = `SOFTWARE\Microsoft\Windows Kits\Installed Roots`

// registryKitsRoot reads the Windows 10 SDK install root from the registry.
func registryKitsRoot() (string, error) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, installedRootsKey, registry.QUERY_VALUE)
	if err != nil {
		return "", fmt.Errorf("failed to open registry key %s: %w", installedRootsKey, err)
	}
	defer key.Close()

	root, _, err := key.GetStringValue("KitsRoot10")
	if err != nil {
		return "", fmt.Errorf("failed to read KitsRoot10: %w", err)
	}

	return root, nil
}

// registryInstalledVersions lists SDK versions recorded as subkeys of the
// Installed Roots key.
func registryInstalledVersions() ([]string, error) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, installedRootsKey, registry.ENUMERATE_SUB_KEYS)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry key %s: %w", installedRootsKey, err)
	}
	defer key.Close()

	names, err := key.ReadSubKeyNames(-1)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate installed SDK versions: %w", err)
	}

	return names, nil
}

//go:build !windows

package sdk

import "fmt"

// The registry only exists on Windows. Non-Windows hosts rely on the
// --sdk-root flag, the WRLXAML_SDK_ROOT environment variable, or a copied
// SDK tree.

func registryKitsRoot() (string, error) {
	return "", fmt.Errorf("registry lookup requires windows; set --sdk-root or %s", EnvSdkRoot)
}

func registryInstalledVersions() ([]string, error) {
	return nil, fmt.Errorf("registry lookup requires windows")
}

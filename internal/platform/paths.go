package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigDir returns <user config dir>/<appName>, falling back to
// ~/.config/<appName> when the OS reports none.
func ConfigDir(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return filepath.Join(configDir, appName), nil
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("get config dir: %w", err)
		}
		return "", fmt.Errorf("get config dir: %w", homeErr)
	}
	return filepath.Join(homeDir, ".config", appName), nil
}

// DataDir returns override when set, otherwise the config directory.
func DataDir(appName, override string) (string, error) {
	if override != "" {
		return override, nil
	}
	return ConfigDir(appName)
}

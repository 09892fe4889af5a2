package core

import (
	"os"
	"path/filepath"
	"runtime"
)

// GetLaunchwizLocalStore returns the default install root
func GetLaunchwizLocalStore() (string, error) {
	if //goland:noinspection GoBoolExpressions
	runtime.GOOS == "linux" {
		// Prefer $XDG_DATA_HOME over the config directory
		dataHome := os.Getenv("XDG_DATA_HOME")
		if dataHome != "" {
			return filepath.Join(dataHome, "launchwiz"), nil
		}
	}
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userConfigDir, "launchwiz"), nil
}

// GetLaunchwizConfigFile returns the path of the default CLI configuration file
func GetLaunchwizConfigFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".launchwiz.toml"), nil
}

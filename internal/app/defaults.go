package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - DRIFTWATCH_CONFIG_PATH: config file location (default: ~/.config/driftwatch.toml)
//   - DRIFTWATCH_HOME: base directory for driftwatch data (default: ~/.local/share/driftwatch)
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	baseDir, err := getBaseDir()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
	}, nil
}

// getConfigPath returns the config file path, checking DRIFTWATCH_CONFIG_PATH env var first,
// then falling back to the default ~/.config/driftwatch.toml.
func getConfigPath() (string, error) {
	if path := os.Getenv("DRIFTWATCH_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "driftwatch.toml"), nil
}

// getBaseDir returns the base directory for driftwatch data, checking DRIFTWATCH_HOME env var first,
// then falling back to the XDG default ~/.local/share/driftwatch.
func getBaseDir() (string, error) {
	if path := os.Getenv("DRIFTWATCH_HOME"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "driftwatch"), nil
}

package config

import (
	"os"
	"path/filepath"
)

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/gitchanges/config.yml
// - macOS: ~/Library/Application Support/gitchanges/config.yml
// - Windows: %APPDATA%\gitchanges\config.yml
//
// If XDG_CONFIG_HOME is set, it will be respected on Linux.
func UserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "gitchanges", "config.yml"), nil
}

// ProjectConfigPath returns the path `gitchanges init` writes to,
// relative to the current directory.
func ProjectConfigPath() string {
	return ".gitchanges.yml"
}

// ProjectConfigNames lists the project config file names in lookup order.
func ProjectConfigNames() []string {
	return []string{".gitchanges.yml", ".gitchanges.yaml", ".gitchanges.json", ".gitchanges.jsonc"}
}

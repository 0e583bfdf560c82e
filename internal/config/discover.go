package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPath returns the XDG-compliant default config path.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./fetcharr.toml"
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "fetcharr", "config.toml")
}

// Discover finds the config file using the standard search order.
// Search order:
//  1. FETCHARR_CONFIG environment variable
//  2. ./fetcharr.toml (current directory)
//  3. $XDG_CONFIG_HOME/fetcharr/config.toml
//  4. /etc/fetcharr/config.toml
func Discover() (string, error) {
	// 1. Check FETCHARR_CONFIG env var
	if envPath := os.Getenv("FETCHARR_CONFIG"); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("FETCHARR_CONFIG=%s: %w", envPath, err)
		}
		return envPath, nil
	}

	// Build search paths
	paths := []string{
		"./fetcharr.toml",
		DefaultPath(),
		"/etc/fetcharr/config.toml",
	}

	// 2-4. Check each path
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("config not found, checked: %s", strings.Join(paths, ", "))
}

// LoadDiscovered loads the discovered config file, falling back to pure
// defaults when none exists. An explicit path skips discovery.
func LoadDiscovered(explicit string) (*Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	path, err := Discover()
	if err != nil {
		return Default(), nil
	}
	return Load(path)
}

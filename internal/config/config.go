// Package config handles TOML configuration loading with environment
// variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Workspace WorkspaceConfig `toml:"workspace"`
	Fetch     FetchConfig     `toml:"fetch"`
	Archive   ArchiveConfig   `toml:"archive"`
	Database  DatabaseConfig  `toml:"database"`
}

type WorkspaceConfig struct {
	Root     string `toml:"root"`
	LogLevel string `toml:"log_level"`
}

type FetchConfig struct {
	Input      string `toml:"input"`
	DelayMS    int    `toml:"delay_ms"`
	TimeoutSec int    `toml:"timeout_sec"`
	UserAgent  string `toml:"user_agent"`
}

// Delay is the pause between fetch attempts.
func (f FetchConfig) Delay() time.Duration {
	return time.Duration(f.DelayMS) * time.Millisecond
}

// Timeout is the per-request HTTP timeout.
func (f FetchConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSec) * time.Second
}

type ArchiveConfig struct {
	Enabled bool   `toml:"enabled"`
	Format  string `toml:"format"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

// Default returns the configuration used when no config file exists.
// The tool must work in a bare directory with zero setup.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Workspace.Root == "" {
		c.Workspace.Root = "."
	}
	if c.Workspace.LogLevel == "" {
		c.Workspace.LogLevel = "info"
	}
	if c.Fetch.Input == "" {
		c.Fetch.Input = "urls.json"
	}
	if c.Fetch.DelayMS == 0 {
		c.Fetch.DelayMS = 500
	}
	if c.Fetch.TimeoutSec == 0 {
		c.Fetch.TimeoutSec = 60
	}
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = "fetcharr"
	}
	if c.Archive.Format == "" {
		c.Archive.Format = "zip"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./data/fetcharr.db"
	}
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Substitute environment variables
	content, missing := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()

	cerr := &ConfigError{Path: path, Missing: missing, Errors: cfg.Validate()}
	if cerr.HasErrors() {
		return nil, cerr
	}

	return &cfg, nil
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable
// values and reports the names of referenced variables that are unset.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) (string, []string) {
	var missing []string
	result := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1] // Strip ${ and }
		if value, ok := os.LookupEnv(varName); ok {
			return value
		}
		missing = append(missing, varName)
		return match
	})
	return result, missing
}

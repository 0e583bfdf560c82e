package config

import "fmt"

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validArchiveFormats = map[string]bool{
	"zip": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if !validLogLevels[c.Workspace.LogLevel] {
		errs = append(errs, fmt.Sprintf("workspace.log_level: must be one of debug, info, warn, error; got %q", c.Workspace.LogLevel))
	}

	if c.Fetch.DelayMS < 0 {
		errs = append(errs, fmt.Sprintf("fetch.delay_ms: must not be negative, got %d", c.Fetch.DelayMS))
	}
	if c.Fetch.TimeoutSec < 0 {
		errs = append(errs, fmt.Sprintf("fetch.timeout_sec: must not be negative, got %d", c.Fetch.TimeoutSec))
	}
	if c.Fetch.Input == "" {
		errs = append(errs, "fetch.input: required")
	}

	if !validArchiveFormats[c.Archive.Format] {
		errs = append(errs, fmt.Sprintf("archive.format: must be zip; got %q", c.Archive.Format))
	}

	if c.Database.Path == "" {
		errs = append(errs, "database.path: required")
	}

	return errs
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Valid(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "fetcharr.toml")
	content := `
[workspace]
root = "` + tmp + `"
log_level = "debug"

[fetch]
delay_ms = 250
`
	os.WriteFile(cfgPath, []byte(content), 0644)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Workspace.Root != tmp {
		t.Errorf("root = %q, want %q", cfg.Workspace.Root, tmp)
	}
	if cfg.Fetch.Delay() != 250*time.Millisecond {
		t.Errorf("delay = %v, want 250ms", cfg.Fetch.Delay())
	}
	// Unset fields pick up defaults
	if cfg.Fetch.Input != "urls.json" {
		t.Errorf("input = %q, want urls.json", cfg.Fetch.Input)
	}
	if cfg.Archive.Format != "zip" {
		t.Errorf("format = %q, want zip", cfg.Archive.Format)
	}
}

func TestLoad_EnvSubstitution(t *testing.T) {
	t.Setenv("FETCHARR_TEST_DB", "/tmp/test.db")
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "fetcharr.toml")
	content := `
[database]
path = "${FETCHARR_TEST_DB}"
`
	os.WriteFile(cfgPath, []byte(content), 0644)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("path = %q, want /tmp/test.db", cfg.Database.Path)
	}
}

func TestLoad_MissingEnvVar(t *testing.T) {
	os.Unsetenv("FETCHARR_MISSING_KEY")
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "fetcharr.toml")
	content := `
[database]
path = "${FETCHARR_MISSING_KEY}"
`
	os.WriteFile(cfgPath, []byte(content), 0644)

	_, err := Load(cfgPath)
	if err == nil {
		t.Fatal("expected error for missing env var")
	}
	if !strings.Contains(err.Error(), "FETCHARR_MISSING_KEY") {
		t.Errorf("expected FETCHARR_MISSING_KEY in error, got %v", err)
	}
}

func TestLoad_ValidationError(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "fetcharr.toml")
	content := `
[workspace]
log_level = "loud"

[archive]
format = "rar"
`
	os.WriteFile(cfgPath, []byte(content), 0644)

	_, err := Load(cfgPath)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "log_level") {
		t.Errorf("expected log_level in error, got %v", err)
	}
	if !strings.Contains(err.Error(), "archive.format") {
		t.Errorf("expected archive.format in error, got %v", err)
	}
}

func TestLoad_BadTOML(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "fetcharr.toml")
	os.WriteFile(cfgPath, []byte("[workspace\nroot="), 0644)

	if _, err := Load(cfgPath); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("default config should validate, got %v", errs)
	}
	if cfg.Fetch.DelayMS != 500 {
		t.Errorf("delay_ms = %d, want 500", cfg.Fetch.DelayMS)
	}
	if cfg.Fetch.Timeout() != 60*time.Second {
		t.Errorf("timeout = %v, want 60s", cfg.Fetch.Timeout())
	}
}

func TestWriteDefault_RoundTrip(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "nested", "fetcharr.toml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Fetch.DelayMS != 500 {
		t.Errorf("delay_ms = %d, want 500", cfg.Fetch.DelayMS)
	}
	if cfg.Archive.Enabled {
		t.Error("archive.enabled should default to false")
	}
}

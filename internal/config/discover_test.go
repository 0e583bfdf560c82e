package config

import (
	"os"
	"path/filepath"
	"testing"
)

// chdir is equivalent to t.Chdir, which requires Go 1.24+.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(old) })
}

func TestDiscover_EnvVar(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "custom.toml")
	os.WriteFile(cfgPath, []byte(""), 0644)

	t.Setenv("FETCHARR_CONFIG", cfgPath)

	got, err := Discover()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != cfgPath {
		t.Errorf("path = %q, want %q", got, cfgPath)
	}
}

func TestDiscover_EnvVarMissing(t *testing.T) {
	t.Setenv("FETCHARR_CONFIG", filepath.Join(t.TempDir(), "ghost.toml"))

	if _, err := Discover(); err == nil {
		t.Fatal("expected error for nonexistent FETCHARR_CONFIG path")
	}
}

func TestDiscover_CurrentDirectory(t *testing.T) {
	t.Setenv("FETCHARR_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	tmp := t.TempDir()
	chdir(t, tmp)

	os.WriteFile(filepath.Join(tmp, "fetcharr.toml"), []byte(""), 0644)

	got, err := Discover()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "./fetcharr.toml" {
		t.Errorf("path = %q, want ./fetcharr.toml", got)
	}
}

func TestLoadDiscovered_FallsBackToDefaults(t *testing.T) {
	t.Setenv("FETCHARR_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	chdir(t, t.TempDir())

	cfg, err := LoadDiscovered("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Fetch.Input != "urls.json" {
		t.Errorf("input = %q, want urls.json", cfg.Fetch.Input)
	}
}

func TestLoadDiscovered_Explicit(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "mine.toml")
	os.WriteFile(cfgPath, []byte("[fetch]\ndelay_ms = 100\n"), 0644)

	cfg, err := LoadDiscovered(cfgPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Fetch.DelayMS != 100 {
		t.Errorf("delay_ms = %d, want 100", cfg.Fetch.DelayMS)
	}
}

func TestValidate_Defaults(t *testing.T) {
	if errs := Default().Validate(); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

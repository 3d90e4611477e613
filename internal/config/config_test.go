package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheBase_XDGSet(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/custom/cache")
	got := cacheBase()
	want := filepath.Join("/custom/cache", "rsdoclink")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCacheBase_HomeDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	got := cacheBase()
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home dir")
	}
	want := filepath.Join(home, ".cache", "rsdoclink")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCacheBase_TmpFallback(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("HOME", "")
	got := cacheBase()
	// Should use os.TempDir() when HOME is unset
	if !strings.Contains(got, "rsdoclink") {
		t.Errorf("expected rsdoclink in path, got %q", got)
	}
}

func TestDBPath(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/custom/cache")
	want := filepath.Join("/custom/cache", "rsdoclink", "links.db")
	if got := DBPath(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCacheDir_Override(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/custom/cache")

	c := &Config{}
	want := filepath.Join("/custom/cache", "rsdoclink", "payloads")
	if got := c.CacheDir(); got != want {
		t.Errorf("default: got %q, want %q", got, want)
	}

	c.Cache.Dir = "/explicit/payloads"
	if got := c.CacheDir(); got != "/explicit/payloads" {
		t.Errorf("override: got %q", got)
	}
}

func TestLoad_Defaults(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)
	t.Chdir(tmp)

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTP.Timeout.Seconds() != 60 {
		t.Errorf("timeout = %v, want 60s", cfg.HTTP.Timeout)
	}
	if cfg.HTTP.UserAgent == "" {
		t.Error("expected a default user agent")
	}
	if cfg.Std.Channel != "stable" {
		t.Errorf("channel = %q, want stable", cfg.Std.Channel)
	}
}

func TestLoad_FromFile(t *testing.T) {
	tmp := t.TempDir()
	configDir := filepath.Join(tmp, "rsdoclink")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	content := "[http]\ntimeout = \"5s\"\n\n[std]\nchannel = \"nightly\"\n"
	if err := os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("XDG_CONFIG_HOME", tmp)
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTP.Timeout.Seconds() != 5 {
		t.Errorf("timeout = %v, want 5s", cfg.HTTP.Timeout)
	}
	if cfg.Std.Channel != "nightly" {
		t.Errorf("channel = %q, want nightly", cfg.Std.Channel)
	}
}

func TestLoad_InvalidChannel(t *testing.T) {
	tmp := t.TempDir()
	configDir := filepath.Join(tmp, "rsdoclink")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.toml"), []byte("[std]\nchannel = \"unstable\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("XDG_CONFIG_HOME", tmp)
	t.Chdir(t.TempDir())

	if _, err := Load(); err == nil {
		t.Error("expected error for invalid channel")
	}
}

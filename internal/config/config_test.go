package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}

	if cfg.AppName != AppName {
		t.Errorf("AppName = %q, want %q", cfg.AppName, AppName)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, DefaultBaseURL)
	}
	if filepath.Base(cfg.CacheDir) != AppName {
		t.Errorf("CacheDir = %q, want it to end in %q", cfg.CacheDir, AppName)
	}
	if !strings.HasSuffix(cfg.DataDir, filepath.Join("Documents", AppName)) {
		t.Errorf("DataDir = %q, want it under Documents/%s", cfg.DataDir, AppName)
	}
	if cfg.Browser != "Firefox" {
		t.Errorf("Browser = %q, want Firefox", cfg.Browser)
	}
	if cfg.TokenTTL != TokenTTL {
		t.Errorf("TokenTTL = %v, want %v", cfg.TokenTTL, TokenTTL)
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
base_url = "http://localhost:8080/"
cache_dir = "` + filepath.ToSlash(filepath.Join(dir, "cache")) + `"
data_dir = "` + filepath.ToSlash(filepath.Join(dir, "data")) + `"
browser = "Chrome"
browser_path = "/opt/chrome/chrome"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.BaseURL != "http://localhost:8080" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", cfg.BaseURL)
	}
	if cfg.CacheDir != filepath.Join(dir, "cache") {
		t.Errorf("CacheDir = %q", cfg.CacheDir)
	}
	if cfg.DataDir != filepath.Join(dir, "data") {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.Browser != "Chrome" {
		t.Errorf("Browser = %q, want Chrome", cfg.Browser)
	}
	if cfg.BrowserPath != "/opt/chrome/chrome" {
		t.Errorf("BrowserPath = %q", cfg.BrowserPath)
	}
	if cfg.DriverURL != "" {
		t.Errorf("DriverURL = %q, want empty", cfg.DriverURL)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("Load() with missing explicit file expected error")
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("base_url = [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() with invalid TOML expected error")
	}
}

func TestOverrideAndEnsureDirs(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Default()
	if err != nil {
		t.Fatal(err)
	}

	if err := cfg.Override(filepath.Join(dir, "c"), filepath.Join(dir, "d")); err != nil {
		t.Fatalf("Override() error: %v", err)
	}
	if err := cfg.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs() error: %v", err)
	}

	for _, p := range []string{cfg.CacheDir, cfg.DataDir} {
		if info, err := os.Stat(p); err != nil || !info.IsDir() {
			t.Errorf("%s was not created", p)
		}
	}

	if got := cfg.AuthTokenPath(); got != filepath.Join(dir, "c", "auth-cookie.txt") {
		t.Errorf("AuthTokenPath() = %q", got)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		in   string
		want string
	}{
		{in: "~/x/y", want: filepath.Join(home, "x", "y")},
		{in: "~", want: home},
		{in: "/abs/path", want: "/abs/path"},
		{in: "relative/~/path", want: "relative/~/path"},
	}

	for _, tt := range tests {
		got, err := ExpandHome(tt.in)
		if err != nil {
			t.Fatalf("ExpandHome(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ExpandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

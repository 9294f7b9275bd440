package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	AppName        = "Gig-o-Download"
	DefaultBaseURL = "https://www.gig-o-matic.com"
	DefaultBrowser = "Firefox"

	// TokenTTL is how long a cached auth token is kept before a fresh login is required.
	TokenTTL = 3 * 24 * time.Hour

	// PassphraseEnv names the environment variable that enables token encryption.
	PassphraseEnv = "GIGO_TOKEN_PASSPHRASE"

	configFileName = "config.toml"
)

// Config holds every setting a command needs.
type Config struct {
	AppName  string
	BaseURL  string
	CacheDir string
	DataDir  string

	// Browser names the rendering browser: Chrome, ChromiumEdge or Firefox.
	Browser string
	// BrowserPath overrides the browser executable for Chrome and ChromiumEdge.
	BrowserPath string
	// DriverURL is a running WebDriver endpoint used for Firefox. Empty
	// means geckodriver is started on demand.
	DriverURL string

	TokenPassphrase string
	TokenTTL        time.Duration
}

// fileConfig mirrors the keys accepted in config.toml.
type fileConfig struct {
	BaseURL     string `toml:"base_url"`
	CacheDir    string `toml:"cache_dir"`
	DataDir     string `toml:"data_dir"`
	Browser     string `toml:"browser"`
	BrowserPath string `toml:"browser_path"`
	DriverURL   string `toml:"driver_url"`
}

// Default returns the configuration used when no file or flags override it.
func Default() (Config, error) {
	cacheRoot, err := os.UserCacheDir()
	if err != nil {
		return Config{}, fmt.Errorf("locating cache directory: %w", err)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("getting home directory: %w", err)
	}

	return Config{
		AppName:         AppName,
		BaseURL:         DefaultBaseURL,
		CacheDir:        filepath.Join(cacheRoot, AppName),
		DataDir:         filepath.Join(home, "Documents", AppName),
		Browser:         DefaultBrowser,
		TokenPassphrase: os.Getenv(PassphraseEnv),
		TokenTTL:        TokenTTL,
	}, nil
}

// DefaultPath returns the location of the optional config file.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config directory: %w", err)
	}
	return filepath.Join(dir, AppName, configFileName), nil
}

// Load builds a Config from defaults and the TOML file at path. An empty path
// means DefaultPath; a missing file at the default location is not an error,
// but an explicitly named file must exist.
func Load(path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return Config{}, err
	}

	explicit := path != ""
	if !explicit {
		path, err = DefaultPath()
		if err != nil {
			return Config{}, err
		}
	}

	resolved, err := ExpandHome(path)
	if err != nil {
		return Config{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := cfg.apply(data); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) apply(data []byte) error {
	var raw fileConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.BaseURL); v != "" {
		c.BaseURL = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(raw.CacheDir); v != "" {
		c.CacheDir = v
	}
	if v := strings.TrimSpace(raw.DataDir); v != "" {
		c.DataDir = v
	}
	if v := strings.TrimSpace(raw.Browser); v != "" {
		c.Browser = v
	}
	if v := strings.TrimSpace(raw.BrowserPath); v != "" {
		c.BrowserPath = v
	}
	if v := strings.TrimSpace(raw.DriverURL); v != "" {
		c.DriverURL = v
	}

	return c.expandDirs()
}

func (c *Config) expandDirs() error {
	var err error
	if c.CacheDir, err = ExpandHome(c.CacheDir); err != nil {
		return err
	}
	if c.DataDir, err = ExpandHome(c.DataDir); err != nil {
		return err
	}
	return nil
}

// Override replaces the cache and data directories when non-empty.
func (c *Config) Override(cacheDir, dataDir string) error {
	if cacheDir != "" {
		c.CacheDir = cacheDir
	}
	if dataDir != "" {
		c.DataDir = dataDir
	}
	return c.expandDirs()
}

// EnsureDirs creates the cache and data directories.
func (c Config) EnsureDirs() error {
	for _, dir := range []string{c.CacheDir, c.DataDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	return nil
}

// AuthTokenPath returns the cached auth token file.
func (c Config) AuthTokenPath() string {
	return filepath.Join(c.CacheDir, "auth-cookie.txt")
}

// ExpandHome expands a leading ~/ to the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path[1:], "/")), nil
	}
	return path, nil
}

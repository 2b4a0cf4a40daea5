// Package config locates and loads the portal configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment overrides
const (
	EnvAPIBaseURL      = "PORTAL_API_BASE_URL"
	EnvProjectsBaseURL = "PORTAL_PROJECTS_BASE_URL"
	EnvLocale          = "PORTAL_LOCALE"
)

// Dir returns the portal configuration directory.
// Respects XDG_CONFIG_HOME on Unix, APPDATA on Windows.
func Dir() string {
	var base string

	if runtime.GOOS == "windows" {
		base = os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	} else {
		base = os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, _ := os.UserHomeDir()
			base = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(base, "portal")
}

// InitFile returns the path to init.lua
func InitFile() string {
	return filepath.Join(Dir(), "init.lua")
}

// File returns the path to portal.yaml
func File() string {
	return filepath.Join(Dir(), "portal.yaml")
}

// Config is the complete portal configuration.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Projects ProjectsConfig `yaml:"projects"`
	Locale   string         `yaml:"locale"`
	Log      LogConfig      `yaml:"log"`
	UI       UIConfig       `yaml:"ui"`
}

// APIConfig configures the mapping item / schema API.
type APIConfig struct {
	// BaseURL of the remote API. Empty disables everything that needs it.
	BaseURL string `yaml:"base_url"`
	// Timeout per request
	Timeout time.Duration `yaml:"timeout"`
	// CacheSize is the number of cached GET responses
	CacheSize int `yaml:"cache_size"`
}

// ProjectsConfig configures the workspace projects endpoint.
type ProjectsConfig struct {
	// BaseURL defaults to the local mock server
	BaseURL string `yaml:"base_url"`
	UserID  string `yaml:"user_id"`
}

// LogConfig configures logging. See internal/logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Sink   string `yaml:"sink"`
	File   string `yaml:"file"`
}

// UIConfig configures the terminal UI.
type UIConfig struct {
	MaxVisible int  `yaml:"max_visible"`
	Width      int  `yaml:"width"`
	RoundedL   bool `yaml:"rounded_l"`
	RoundedR   bool `yaml:"rounded_r"`
	BgWhite    bool `yaml:"bg_white"`
	// DisplayPath is the JSON path used to label mapping items
	DisplayPath string `yaml:"display_path"`
	// Filter is one of contains, fold, fuzzy
	Filter string `yaml:"filter"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Timeout:   30 * time.Second,
			CacheSize: 256,
		},
		Projects: ProjectsConfig{
			BaseURL: "http://localhost:3000",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			Sink:   "file",
		},
		UI: UIConfig{
			MaxVisible:  10,
			Width:       48,
			RoundedL:    true,
			RoundedR:    true,
			DisplayPath: "resourceName.0.name",
			Filter:      "fuzzy",
		},
	}
}

// Load reads the config file at path over the defaults and applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAPIBaseURL); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv(EnvProjectsBaseURL); v != "" {
		c.Projects.BaseURL = v
	}
	if v := os.Getenv(EnvLocale); v != "" {
		c.Locale = v
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.API.BaseURL != "" {
		if err := checkURL(c.API.BaseURL); err != nil {
			return fmt.Errorf("api.base_url: %w", err)
		}
	}
	if c.Projects.BaseURL == "" {
		return fmt.Errorf("projects.base_url is required")
	}
	if err := checkURL(c.Projects.BaseURL); err != nil {
		return fmt.Errorf("projects.base_url: %w", err)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}
	if c.API.CacheSize < 0 {
		return fmt.Errorf("api.cache_size must not be negative")
	}
	switch strings.ToLower(c.UI.Filter) {
	case "", "contains", "fold", "fuzzy":
	default:
		return fmt.Errorf("ui.filter must be one of contains, fold, fuzzy (got %q)", c.UI.Filter)
	}
	return nil
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}

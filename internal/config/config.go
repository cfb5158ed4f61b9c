// ABOUTME: Practice configuration management with backend selection.
// ABOUTME: Loads a JSON config file, overlays env vars, and opens storage.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/harperreed/practice/internal/charm"
	"github.com/harperreed/practice/internal/slot"
	"github.com/harperreed/practice/internal/storage"
)

// Backend names.
const (
	BackendLocal  = "local"
	BackendSQLite = "sqlite"
	BackendCharm  = "charm"
)

// Backends lists the supported storage backends.
var Backends = []string{BackendLocal, BackendSQLite, BackendCharm}

// Config stores practice tool configuration. Environment variables take
// precedence over the config file.
type Config struct {
	// Backend selects the storage backend: "local" (default), "sqlite", or "charm".
	Backend string `json:"backend,omitempty" env:"PRACTICE_BACKEND"`

	// DataDir is the root directory for local data. The local backend keeps
	// its badger files in slot/, SQLite puts practice.db here, and logs go
	// to logs/. Supports ~ expansion. Defaults to ~/.local/share/practice.
	DataDir string `json:"data_dir,omitempty" env:"PRACTICE_DATA_DIR"`

	// Timezone is the IANA zone that decides what "today" is. Empty means
	// the system zone.
	Timezone string `json:"timezone,omitempty" env:"PRACTICE_TIMEZONE"`

	// CharmHost overrides the Charm Cloud server for the charm backend.
	CharmHost string `json:"charm_host,omitempty" env:"PRACTICE_CHARM_HOST"`

	// NoAutoSync stops the charm backend from pushing after every write;
	// run 'practice sync now' to push.
	NoAutoSync bool `json:"no_auto_sync,omitempty" env:"PRACTICE_NO_AUTO_SYNC"`

	// Debug enables debug logging to stderr.
	Debug bool `json:"debug,omitempty" env:"PRACTICE_DEBUG"`
}

// GetBackend returns the configured backend, defaulting to "local".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendLocal
	}
	return strings.ToLower(c.Backend)
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// LogDir returns where the rotating log file lives.
func (c *Config) LogDir() string {
	return filepath.Join(c.GetDataDir(), "logs")
}

// Location resolves Timezone to a *time.Location.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage creates a Repository implementation based on the configured backend.
func (c *Config) OpenStorage() (storage.Repository, error) {
	return c.OpenBackend(c.GetBackend())
}

// OpenBackend opens a specific backend using this config's paths.
func (c *Config) OpenBackend(backend string) (storage.Repository, error) {
	dataDir := c.GetDataDir()

	switch backend {
	case BackendLocal:
		return slot.Open(filepath.Join(dataDir, "slot"))
	case BackendSQLite:
		return storage.Open(filepath.Join(dataDir, "practice.db"))
	case BackendCharm:
		client, err := charm.InitClient(c.CharmHost)
		if err != nil {
			return nil, err
		}
		client.SetAutoSync(!c.NoAutoSync)
		return client, nil
	default:
		return nil, fmt.Errorf("unknown backend: %q (valid: %s)", backend, strings.Join(Backends, ", "))
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "practice", "config.json")
}

// Load reads config from disk and applies environment overrides.
func Load() (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(GetConfigPath())
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case !os.IsNotExist(err):
		return nil, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

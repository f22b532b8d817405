// Package config provides configuration management for searchsync.
// It supports YAML configuration files, environment variables, and sensible defaults.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/searchsync/searchsync/internal/model"
)

// Config represents the complete searchsync configuration.
type Config struct {
	// Store configures the persistence backend
	Store StoreConfig `yaml:"store"`

	// Export configures default export behavior
	Export ExportConfig `yaml:"export"`

	// Import configures default import behavior
	Import ImportConfig `yaml:"import"`

	// Output configures display preferences
	Output OutputConfig `yaml:"output"`

	// History configures search history retention
	History HistoryConfig `yaml:"history"`
}

// StoreConfig holds persistence settings.
type StoreConfig struct {
	// Driver selects the backend (sqlite, memory)
	Driver string `yaml:"driver"`
	// Path is the SQLite database file path
	Path string `yaml:"path"`
}

// ExportConfig holds default export settings.
type ExportConfig struct {
	// Pretty enables indented JSON output
	Pretty bool `yaml:"pretty"`
	// IncludeHistory includes search history in exports by default
	IncludeHistory bool `yaml:"include_history"`
}

// ImportConfig holds default import settings.
type ImportConfig struct {
	// DefaultMode is the default engine import mode (merge, replace)
	DefaultMode string `yaml:"default_mode"`
	// SkipValidation bypasses document validation on import
	SkipValidation bool `yaml:"skip_validation"`
}

// OutputConfig holds display preferences.
type OutputConfig struct {
	// Format is the default output format (table, json)
	Format string `yaml:"format"`
	// Color controls color output (auto, always, never)
	Color string `yaml:"color"`
	// Verbose enables verbose output
	Verbose bool `yaml:"verbose"`
}

// HistoryConfig holds search history settings.
type HistoryConfig struct {
	// Enabled records dispatched searches
	Enabled bool `yaml:"enabled"`
	// MaxItems caps the retained history
	MaxItems int `yaml:"max_items"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Driver: "sqlite",
			Path:   filepath.Join(configDir(), "searchsync.db"),
		},
		Export: ExportConfig{
			Pretty:         true,
			IncludeHistory: false,
		},
		Import: ImportConfig{
			DefaultMode:    string(model.ModeMerge),
			SkipValidation: false,
		},
		Output: OutputConfig{
			Format:  "table",
			Color:   "auto",
			Verbose: false,
		},
		History: HistoryConfig{
			Enabled:  true,
			MaxItems: 1000,
		},
	}
}

// configFileName is the name of the config file.
const configFileName = "config.yaml"

// configDir returns the searchsync configuration directory.
func configDir() string {
	if base, err := os.UserConfigDir(); err == nil {
		return filepath.Join(base, "searchsync")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".searchsync"
	}
	return filepath.Join(home, ".searchsync")
}

// FilePath returns the path to the config file.
func FilePath() string {
	return filepath.Join(configDir(), configFileName)
}

// Load loads the configuration from file, merging with defaults.
// If the config file doesn't exist, returns default configuration.
func Load() (*Config, error) {
	cfg := Default()

	configPath := FilePath()
	// #nosec G304 - configPath is constructed from trusted config directory
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvironment()
			return cfg, nil
		}
		return nil, err
	}

	// Parse YAML over defaults
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.applyEnvironment()

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	// #nosec G304 - path is provided by caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.applyEnvironment()
	return cfg, nil
}

// Save writes the configuration to the config file.
func (c *Config) Save() error {
	return c.SaveToPath(FilePath())
}

// SaveToPath writes the configuration to a specific path.
func (c *Config) SaveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	// #nosec G306 - config file should be readable by user
	return os.WriteFile(path, data, 0o644)
}

// applyEnvironment applies environment variable overrides.
// Environment variables follow the pattern SEARCHSYNC_<SECTION>_<KEY>.
func (c *Config) applyEnvironment() {
	// Store settings
	if v := os.Getenv("SEARCHSYNC_STORE_DRIVER"); v != "" {
		c.Store.Driver = v
	}
	if v := os.Getenv("SEARCHSYNC_STORE_PATH"); v != "" {
		c.Store.Path = v
	}

	// Export settings
	if v := os.Getenv("SEARCHSYNC_EXPORT_PRETTY"); v != "" {
		c.Export.Pretty = parseBool(v)
	}
	if v := os.Getenv("SEARCHSYNC_EXPORT_INCLUDE_HISTORY"); v != "" {
		c.Export.IncludeHistory = parseBool(v)
	}

	// Import settings
	if v := os.Getenv("SEARCHSYNC_IMPORT_MODE"); v != "" {
		c.Import.DefaultMode = v
	}
	if v := os.Getenv("SEARCHSYNC_IMPORT_SKIP_VALIDATION"); v != "" {
		c.Import.SkipValidation = parseBool(v)
	}

	// Output settings
	if v := os.Getenv("SEARCHSYNC_OUTPUT_FORMAT"); v != "" {
		c.Output.Format = v
	}
	if v := os.Getenv("SEARCHSYNC_OUTPUT_COLOR"); v != "" {
		c.Output.Color = v
	}
	if v := os.Getenv("SEARCHSYNC_OUTPUT_VERBOSE"); v != "" {
		c.Output.Verbose = parseBool(v)
	}

	// History settings
	if v := os.Getenv("SEARCHSYNC_HISTORY_ENABLED"); v != "" {
		c.History.Enabled = parseBool(v)
	}
	if v := os.Getenv("SEARCHSYNC_HISTORY_MAX_ITEMS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= model.MinHistoryItems && n <= model.MaxHistoryItems {
			c.History.MaxItems = n
		}
	}
}

// parseBool parses a boolean from common string representations.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// GetMode returns the default import mode from config, validating it.
func (c *Config) GetMode() model.ImportMode {
	mode := model.ImportMode(c.Import.DefaultMode)
	if mode.IsValid() {
		return mode
	}
	return model.ModeMerge
}

// Exists returns true if a config file exists.
func Exists() bool {
	_, err := os.Stat(FilePath())
	return err == nil
}

// Package config loads and validates the service configuration from a TOML
// file in the user's config directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/deckwise/deck-advisor/internal/cache"
)

// Config represents the application configuration.
type Config struct {
	// HTTP server configuration
	Server ServerConfig `toml:"server"`

	// Database configuration
	Database DatabaseConfig `toml:"database"`

	// Card catalog configuration
	Catalog CatalogConfig `toml:"catalog"`

	// Cache configuration
	Cache CacheConfig `toml:"cache"`

	// Application configuration
	App AppConfig `toml:"app"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port      int     `toml:"port"`       // Listen port
	RateLimit float64 `toml:"rate_limit"` // Requests per second per client (0 = unlimited)
	RateBurst int     `toml:"rate_burst"` // Burst allowance per client
}

// DatabaseConfig contains SQLite settings.
type DatabaseConfig struct {
	Path string `toml:"path"` // Path to the SQLite file ("" = default location)
}

// CatalogConfig contains bulk card data settings.
type CatalogConfig struct {
	Path  string `toml:"path"`  // Path to the bulk card JSON file
	Watch bool   `toml:"watch"` // Reload the catalog when the file changes
}

// CacheConfig contains recommendation cache settings.
type CacheConfig struct {
	SuggestionsTTL string `toml:"suggestions_ttl"` // TTL for suggestion lists (e.g. "2m")
	ValidationTTL  string `toml:"validation_ttl"`  // TTL for validation results
	BuildableTTL   string `toml:"buildable_ttl"`   // TTL for buildable-deck reports
	CoverageTTL    string `toml:"coverage_ttl"`    // TTL for format coverage
}

// AppConfig contains general application settings.
type AppConfig struct {
	DebugMode bool `toml:"debug_mode"` // Enable debug logging
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:      8085,
			RateLimit: 20,
			RateBurst: 40,
		},
		Database: DatabaseConfig{
			Path: "",
		},
		Catalog: CatalogConfig{
			Path:  "",
			Watch: true,
		},
		Cache: CacheConfig{
			SuggestionsTTL: "2m",
			ValidationTTL:  "2m",
			BuildableTTL:   "10m",
			CoverageTTL:    "24h",
		},
		App: AppConfig{
			DebugMode: false,
		},
	}
}

// configPath returns the path to the configuration file.
func configPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".deck-advisor")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.toml"), nil
}

// Load loads the configuration from disk. Returns default config if the
// file doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return config, nil
}

// Save saves the configuration to disk.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("rate limit cannot be negative: %v", c.Server.RateLimit)
	}
	if c.Server.RateBurst < 0 {
		return fmt.Errorf("rate burst cannot be negative: %d", c.Server.RateBurst)
	}

	for name, value := range map[string]string{
		"suggestions_ttl": c.Cache.SuggestionsTTL,
		"validation_ttl":  c.Cache.ValidationTTL,
		"buildable_ttl":   c.Cache.BuildableTTL,
		"coverage_ttl":    c.Cache.CoverageTTL,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid cache %s %q: %w", name, value, err)
		}
	}

	return nil
}

// CacheTTLs converts the configured TTL strings into the cache's strategy
// map. Call Validate first; parse errors here fall back to the defaults.
func (c *Config) CacheTTLs() map[cache.Strategy]time.Duration {
	ttls := cache.DefaultTTLs()
	for strategy, value := range map[cache.Strategy]string{
		cache.StrategySuggestions: c.Cache.SuggestionsTTL,
		cache.StrategyValidation:  c.Cache.ValidationTTL,
		cache.StrategyBuildable:   c.Cache.BuildableTTL,
		cache.StrategyCoverage:    c.Cache.CoverageTTL,
	} {
		if d, err := time.ParseDuration(value); err == nil {
			ttls[strategy] = d
		}
	}
	return ttls
}

// DatabasePath resolves the SQLite file path, defaulting to the config
// directory.
func (c *Config) DatabasePath() (string, error) {
	if c.Database.Path != "" {
		return c.Database.Path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	dataDir := filepath.Join(homeDir, ".deck-advisor")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}

	return filepath.Join(dataDir, "deck-advisor.db"), nil
}

// Package config handles global Vaultry configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v6"
)

// Config represents the global Vaultry configuration.
type Config struct {
	// DataDir is where the database and cover images live.
	// Defaults to the OS data dir (e.g. ~/.local/share/vaultry).
	DataDir string `toml:"data_dir" env:"VAULTRY_DATA_DIR"`

	// LogLevel controls log verbosity: debug, info, warn, or error.
	LogLevel string `toml:"log_level" env:"VAULTRY_LOG_LEVEL"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output.
	// Supported values are ANSI color codes ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `toml:"accent" env:"VAULTRY_ACCENT"`

	// CodeTheme sets the Glamour/Chroma theme used for rendered markdown.
	CodeTheme string `toml:"code_theme"`
}

// DatabasePath returns the SQLite database file path under the data dir.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "vaultry.db")
}

// Load loads the configuration from the default location, then applies
// environment overrides. A missing config file yields the defaults.
func Load() (*Config, error) {
	return LoadFrom(DefaultPath())
}

// LoadFrom loads the configuration from a specific path, then applies
// environment overrides.
func LoadFrom(path string) (*Config, error) {
	config := Config{
		DataDir:  DefaultDataDir(),
		LogLevel: "info",
	}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := env.Parse(&config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return &config, nil
}

// DefaultPath returns the default config file path.
// Checks ~/.config/vaultry/config.toml first (XDG style),
// then falls back to OS-specific location.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "vaultry", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "vaultry", "config.toml")
	}

	return filepath.Join(".", "config.toml")
}

// DefaultDataDir returns the default data directory.
func DefaultDataDir() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(dir, ".local", "share", "vaultry")
	}
	return filepath.Join(".", "vaultry-data")
}

// CreateDefault creates a default config file if it doesn't exist.
func CreateDefault() (string, error) {
	configPath := DefaultPath()

	if _, err := os.Stat(configPath); err == nil {
		return configPath, nil // Already exists
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	defaultConfig := `# Vaultry Configuration

# Where the database and cover images live.
# data_dir = "~/.local/share/vaultry"

# Log verbosity: debug, info, warn, or error.
# log_level = "info"

# Optional UI accent color for headers in terminal output.
# Supports ANSI color codes (0-255) or hex (#RRGGBB).
# [ui]
# accent = "39"
# code_theme = "monokai"
`

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return configPath, nil
}

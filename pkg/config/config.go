package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete DropVault configuration.
//
// This structure captures all configurable aspects of the vault:
//   - Logging configuration
//   - Vault-wide settings (root folder name, share link base)
//   - Storage selection and store-specific configuration
//   - Upload pipeline tuning
//
// Configuration sources (in order of precedence):
//  1. Environment variables (DROPVAULT_*)
//  2. Configuration file (YAML or TOML)
//  3. Default values (lowest priority)
//
// Storage Configuration Pattern:
// Each store implementation defines its own configuration type. The Config
// struct contains type-specific sections (storage.memory, storage.badger)
// and only the section matching the selected type is used.
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging"`

	// Vault contains vault-wide settings
	Vault VaultConfig `mapstructure:"vault"`

	// Storage specifies the store type and type-specific configuration
	Storage StorageConfig `mapstructure:"storage"`

	// Upload tunes the simulated upload pipeline
	Upload UploadConfig `mapstructure:"upload"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive, normalized to uppercase)
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`
}

// VaultConfig contains vault-wide settings.
type VaultConfig struct {
	// RootName is the display name used when seeding the root folder
	RootName string `mapstructure:"root_name" validate:"required"`

	// ShareLinkBase is the base URL share links are built under
	ShareLinkBase string `mapstructure:"share_link_base" validate:"required,url"`
}

// StorageConfig specifies store configuration.
//
// The Type field determines which store implementation is used.
// Only the corresponding type-specific configuration section is used.
type StorageConfig struct {
	// Type specifies which store implementation to use
	// Valid values: memory, badger
	Type string `mapstructure:"type" validate:"required,oneof=memory badger"`

	// Memory contains memory-specific configuration
	// Only used when Type = "memory"
	Memory map[string]any `mapstructure:"memory"`

	// Badger contains BadgerDB-specific configuration
	// Only used when Type = "badger"
	Badger map[string]any `mapstructure:"badger"`
}

// UploadConfig tunes the simulated upload pipeline.
type UploadConfig struct {
	// TickInterval is the delay between progress ticks
	TickInterval time.Duration `mapstructure:"tick_interval" validate:"required,gt=0"`

	// MinIncrement is the smallest per-tick progress step (percent)
	MinIncrement int `mapstructure:"min_increment" validate:"required,gt=0,lte=100"`

	// MaxIncrement is the largest per-tick progress step (percent)
	MaxIncrement int `mapstructure:"max_increment" validate:"required,gt=0,lte=100"`
}

// Load loads configuration from file, environment, and defaults.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (DROPVAULT_*)
//  2. Configuration file
//  3. Default values
//
// Parameters:
//   - configPath: Path to config file (empty string uses default location)
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: Configuration loading or validation error
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setupViper(v, configPath)

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setupViper configures viper with environment variables and config file settings.
func setupViper(v *viper.Viper, configPath string) {
	// Environment variables use the DROPVAULT_ prefix and underscores
	// Example: DROPVAULT_LOGGING_LEVEL=DEBUG
	v.SetEnvPrefix("DROPVAULT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default location: $XDG_CONFIG_HOME/dropvault/config.{yaml,toml}
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

// readConfigFile reads the configuration file if it exists.
func readConfigFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Missing config file is acceptable; defaults apply
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// getConfigDir returns the configuration directory path.
//
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config, or falls back to the
// current directory if the home directory cannot be determined.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "dropvault")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "dropvault")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

package config

import (
	"strings"
	"time"

	"github.com/seralba/dropvault/pkg/vault"
)

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// This function is called after loading configuration from file and
// environment variables to fill in any missing values with sensible defaults.
//
// Default Strategy:
//   - Zero values (0, "", false, nil) are replaced with defaults
//   - Explicit values are preserved
//   - Store-specific defaults are handled by store implementations
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyVaultDefaults(&cfg.Vault)
	applyStorageDefaults(&cfg.Storage)
	applyUploadDefaults(&cfg.Upload)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	// Normalize to uppercase for consistent internal representation
	cfg.Level = strings.ToUpper(cfg.Level)
}

// applyVaultDefaults sets vault-wide defaults.
func applyVaultDefaults(cfg *VaultConfig) {
	if cfg.RootName == "" {
		cfg.RootName = vault.DefaultRootName
	}
	if cfg.ShareLinkBase == "" {
		cfg.ShareLinkBase = "https://dropvault.local"
	}
}

// applyStorageDefaults sets store defaults.
func applyStorageDefaults(cfg *StorageConfig) {
	if cfg.Type == "" {
		cfg.Type = "memory"
	}

	if cfg.Memory == nil {
		cfg.Memory = make(map[string]any)
	}
	if cfg.Badger == nil {
		cfg.Badger = make(map[string]any)
	}
}

// applyUploadDefaults sets upload pipeline defaults.
func applyUploadDefaults(cfg *UploadConfig) {
	if cfg.TickInterval == 0 {
		cfg.TickInterval = 500 * time.Millisecond
	}
	if cfg.MinIncrement == 0 {
		cfg.MinIncrement = 5
	}
	if cfg.MaxIncrement == 0 {
		cfg.MaxIncrement = 14
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seralba/dropvault/pkg/store/badger"
	"github.com/seralba/dropvault/pkg/store/memory"
	"github.com/seralba/dropvault/pkg/vault"
)

func validConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()

	assert.Equal(t, "INFO", cfg.Logging.Level)
	assert.Equal(t, vault.DefaultRootName, cfg.Vault.RootName)
	assert.Equal(t, "https://dropvault.local", cfg.Vault.ShareLinkBase)
	assert.Equal(t, "memory", cfg.Storage.Type)
	assert.Equal(t, 500*time.Millisecond, cfg.Upload.TickInterval)
	assert.Equal(t, 5, cfg.Upload.MinIncrement)
	assert.Equal(t, 14, cfg.Upload.MaxIncrement)
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Logging: LoggingConfig{Level: "debug"},
		Vault:   VaultConfig{RootName: "Team Drive"},
		Upload:  UploadConfig{MinIncrement: 1, MaxIncrement: 2},
	}
	ApplyDefaults(cfg)

	assert.Equal(t, "DEBUG", cfg.Logging.Level, "level is normalized to uppercase")
	assert.Equal(t, "Team Drive", cfg.Vault.RootName)
	assert.Equal(t, 1, cfg.Upload.MinIncrement)
	assert.Equal(t, 2, cfg.Upload.MaxIncrement)
}

func TestValidate_DefaultsAreValid(t *testing.T) {
	require.NoError(t, Validate(validConfig()))
}

func TestValidate_RejectsBadLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "VERBOSE"
	assert.Error(t, Validate(cfg))
}

func TestValidate_RejectsBadStorageType(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.Type = "postgres"
	assert.Error(t, Validate(cfg))
}

func TestValidate_RejectsBadShareLinkBase(t *testing.T) {
	cfg := validConfig()
	cfg.Vault.ShareLinkBase = "not a url"
	assert.Error(t, Validate(cfg))
}

func TestValidate_RejectsInvertedIncrementRange(t *testing.T) {
	cfg := validConfig()
	cfg.Upload.MinIncrement = 10
	cfg.Upload.MaxIncrement = 5
	assert.Error(t, Validate(cfg))
}

func TestValidate_BadgerNeedsPathOrInMemory(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.Type = "badger"
	assert.Error(t, Validate(cfg))

	cfg.Storage.Badger["in_memory"] = true
	assert.NoError(t, Validate(cfg))

	delete(cfg.Storage.Badger, "in_memory")
	cfg.Storage.Badger["path"] = "/tmp/dropvault"
	assert.NoError(t, Validate(cfg))
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Storage.Type)
	assert.Equal(t, vault.DefaultRootName, cfg.Vault.RootName)
}

func TestLoad_ReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
logging:
  level: debug
vault:
  root_name: "Shared Drive"
storage:
  type: badger
  badger:
    in_memory: true
upload:
  tick_interval: 100ms
  min_increment: 2
  max_increment: 4
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "DEBUG", cfg.Logging.Level)
	assert.Equal(t, "Shared Drive", cfg.Vault.RootName)
	assert.Equal(t, "badger", cfg.Storage.Type)
	assert.Equal(t, 100*time.Millisecond, cfg.Upload.TickInterval)
	assert.Equal(t, 2, cfg.Upload.MinIncrement)
	assert.Equal(t, 4, cfg.Upload.MaxIncrement)
}

func TestLoad_RejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  type: postgres\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestCreateStore_Memory(t *testing.T) {
	cfg := validConfig()

	st, err := CreateStore(&cfg.Storage)
	require.NoError(t, err)
	assert.IsType(t, &memory.MemoryStore{}, st)
}

func TestCreateStore_Badger(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.Type = "badger"
	cfg.Storage.Badger["in_memory"] = true

	st, err := CreateStore(&cfg.Storage)
	require.NoError(t, err)
	assert.IsType(t, &badger.BadgerStore{}, st)
}

func TestCreateStore_UnknownType(t *testing.T) {
	_, err := CreateStore(&StorageConfig{Type: "postgres"})
	assert.Error(t, err)
}

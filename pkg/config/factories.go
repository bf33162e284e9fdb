package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/seralba/dropvault/pkg/store"
	"github.com/seralba/dropvault/pkg/store/badger"
	"github.com/seralba/dropvault/pkg/store/memory"
)

// CreateStore creates the store instance selected by the configuration.
//
// The store is constructed but not opened; the vault opens it when the
// session starts.
func CreateStore(cfg *StorageConfig) (store.Store, error) {
	switch cfg.Type {
	case "memory":
		return memory.New(), nil
	case "badger":
		return createBadgerStore(cfg)
	default:
		return nil, fmt.Errorf("unknown store type: %q", cfg.Type)
	}
}

// createBadgerStore creates a BadgerDB-backed store.
func createBadgerStore(cfg *StorageConfig) (store.Store, error) {
	// Decode BadgerDB-specific configuration
	var badgerCfg badger.Config
	if err := mapstructure.Decode(cfg.Badger, &badgerCfg); err != nil {
		return nil, fmt.Errorf("invalid badger config: %w", err)
	}

	st, err := badger.New(badgerCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create badger store: %w", err)
	}
	return st, nil
}

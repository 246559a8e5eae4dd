package repositories

import (
	"context"
	"errors"
	"fmt"

	"scrum-cards/internal/config"
)

// ErrNotFound is returned by Get when the key was never written or was removed
var ErrNotFound = errors.New("key not found")

// KeyValueStore is the synchronized key-value storage the settings record lives in.
// Set overwrites the whole value of a key in one operation; Remove of a missing key is not an error.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// NewKeyValueStore opens the backend selected in the storage configuration
func NewKeyValueStore(ctx context.Context, storageConfig *config.StorageConfig) (KeyValueStore, error) {
	switch storageConfig.Backend {
	case config.BackendFile, "":
		return NewFileStore(storageConfig.Path), nil
	case config.BackendSQLite:
		store := NewSQLiteStore(storageConfig.Path, storageConfig.Namespace)
		if err := store.Init(ctx); err != nil {
			return nil, err
		}
		return store, nil
	case config.BackendPostgres:
		store := NewPostgresStore(storageConfig.DSN, storageConfig.Namespace)
		if err := store.Init(ctx); err != nil {
			return nil, err
		}
		return store, nil
	case config.BackendKeyring:
		return NewKeyringStore(storageConfig.Namespace), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", storageConfig.Backend)
	}
}

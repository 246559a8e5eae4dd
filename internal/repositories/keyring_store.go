package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// KeyringStore keeps each key as a secret of the OS keyring under one service name
type KeyringStore struct {
	service string
}

func NewKeyringStore(service string) *KeyringStore {
	return &KeyringStore{service: service}
}

func (s *KeyringStore) Get(_ context.Context, key string) ([]byte, error) {
	value, err := keyring.Get(s.service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %q from keyring: %w", key, err)
	}
	return []byte(value), nil
}

func (s *KeyringStore) Set(_ context.Context, key string, value []byte) error {
	if err := keyring.Set(s.service, key, string(value)); err != nil {
		return fmt.Errorf("failed to store %q in keyring: %w", key, err)
	}
	return nil
}

func (s *KeyringStore) Remove(_ context.Context, key string) error {
	err := keyring.Delete(s.service, key)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete %q from keyring: %w", key, err)
	}
	return nil
}

func (s *KeyringStore) Close() error {
	return nil
}

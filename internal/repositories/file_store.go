package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"scrum-cards/internal/helpers"
)

// FileStore keeps every key in one JSON object on disk
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	values, err := s.read()
	if err != nil {
		return nil, err
	}
	value, ok := values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return value, nil
}

func (s *FileStore) Set(_ context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("value for key %q is not valid JSON", key)
	}

	values, err := s.read()
	if err != nil {
		return err
	}
	values[key] = json.RawMessage(value)

	if err := helpers.SaveJSON(values, s.path); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) Remove(_ context.Context, key string) error {
	values, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)

	if err := helpers.SaveJSON(values, s.path); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) read() (map[string]json.RawMessage, error) {
	values := make(map[string]json.RawMessage)
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return values, nil
	}
	if err := helpers.LoadJSON(s.path, &values); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	if values == nil {
		values = make(map[string]json.RawMessage)
	}
	return values, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"scrum-cards/internal/models"
	"scrum-cards/internal/repositories"
)

// Notifier shows a short user-visible message
type Notifier interface {
	ShowMessage(text string, duration time.Duration)
}

// ConfigurationStore reads and writes the single settings record
type ConfigurationStore struct {
	kv       repositories.KeyValueStore
	notifier Notifier
	log      zerolog.Logger
}

// NewConfigurationStore creates a configuration store over kv
func NewConfigurationStore(kv repositories.KeyValueStore, notifier Notifier, log zerolog.Logger) *ConfigurationStore {
	return &ConfigurationStore{
		kv:       kv,
		notifier: notifier,
		log:      log,
	}
}

// Load returns the saved record, or nil when it was never written.
// Card fields missing from an older record are filled from the defaults.
func (c *ConfigurationStore) Load(ctx context.Context) (*models.SettingsRecord, error) {
	data, err := c.kv.Get(ctx, models.SettingsKey)
	if errors.Is(err, repositories.ErrNotFound) {
		c.log.Debug().Msg("no saved settings")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	record, missing, err := models.DecodeSettingsRecord(data)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		c.log.Warn().Str("missing", strings.Join(missing, ",")).Msg("saved settings are incomplete, using defaults for missing card fields")
	}

	return &record, nil
}

// Save overwrites the saved record with record
func (c *ConfigurationStore) Save(ctx context.Context, record models.SettingsRecord) error {
	data, err := record.Encode()
	if err != nil {
		return err
	}

	if err := c.kv.Set(ctx, models.SettingsKey, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	c.log.Info().Str("project", record.JiraProject).Msg("settings saved")
	c.notifier.ShowMessage("All user options were saved.", 0)
	return nil
}

// Remove deletes the saved record
func (c *ConfigurationStore) Remove(ctx context.Context) error {
	if err := c.kv.Remove(ctx, models.SettingsKey); err != nil {
		return fmt.Errorf("failed to remove settings: %w", err)
	}

	c.log.Info().Msg("settings removed")
	c.notifier.ShowMessage("All user options were deleted.", 0)
	return nil
}

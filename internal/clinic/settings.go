// Package clinic stores the clinic-wide scheduling settings: the timezone
// all availability math runs in, the slot grid and the default
// appointment length.
package clinic

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/medagenda/scheduling-api/internal/timeutil"
)

// Settings is the clinic-wide scheduling configuration.
type Settings struct {
	Timezone               string `json:"timezone"`
	SlotGranularityMinutes int    `json:"slot_granularity_minutes"`
	DefaultDurationMinutes int    `json:"default_duration_minutes"`
}

// DefaultSettings returns the configuration used until an administrator
// saves one.
func DefaultSettings() *Settings {
	return &Settings{
		Timezone:               "America/Tegucigalpa",
		SlotGranularityMinutes: 30,
		DefaultDurationMinutes: 60,
	}
}

// Validate rejects settings the engine could not compute with.
func (s *Settings) Validate() error {
	if _, err := timeutil.LoadLocation(s.Timezone); err != nil {
		return fmt.Errorf("clinic: settings timezone: %w", err)
	}
	if s.SlotGranularityMinutes <= 0 {
		return fmt.Errorf("clinic: slot granularity must be positive, got %d", s.SlotGranularityMinutes)
	}
	if s.DefaultDurationMinutes <= 0 {
		return fmt.Errorf("clinic: default duration must be positive, got %d", s.DefaultDurationMinutes)
	}
	return nil
}

const settingsKey = "clinic:settings"

// Store persists clinic settings in Redis, falling back to defaults when
// nothing has been saved yet.
type Store struct {
	redis    *redis.Client
	fallback *Settings
}

// NewStore creates a settings store. A nil fallback means DefaultSettings.
func NewStore(client *redis.Client, fallback *Settings) *Store {
	if fallback == nil {
		fallback = DefaultSettings()
	}
	return &Store{redis: client, fallback: fallback}
}

// Get retrieves the saved settings, or the fallback when none exist.
func (s *Store) Get(ctx context.Context) (*Settings, error) {
	data, err := s.redis.Get(ctx, settingsKey).Bytes()
	if err == redis.Nil {
		copied := *s.fallback
		return &copied, nil
	}
	if err != nil {
		return nil, fmt.Errorf("clinic: get settings: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("clinic: unmarshal settings: %w", err)
	}
	return &settings, nil
}

// Set validates and saves settings.
func (s *Store) Set(ctx context.Context, settings *Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("clinic: marshal settings: %w", err)
	}
	if err := s.redis.Set(ctx, settingsKey, data, 0).Err(); err != nil {
		return fmt.Errorf("clinic: set settings: %w", err)
	}
	return nil
}

// Package settings stores user preferences that shape the calendar layout.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/tempus/internal/apperr"
	"github.com/starford/tempus/internal/storage"
)

// Key is the storage key settings are persisted under.
const Key = "settings"

// Settings holds user preferences.
type Settings struct {
	// FirstDayOfWeek aligns week boundaries, 0 (Sunday) to 6 (Saturday).
	FirstDayOfWeek time.Weekday `json:"firstDayOfWeek"`
}

// Default returns the settings used when none are stored.
func Default() Settings {
	return Settings{FirstDayOfWeek: time.Sunday}
}

// Validate validates the settings.
func (s Settings) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.FirstDayOfWeek, validation.Min(time.Sunday), validation.Max(time.Saturday)),
	)
}

// Service loads and saves settings, caching the last value read.
type Service struct {
	kv       storage.Provider
	defaults Settings

	mu     sync.Mutex
	cached *Settings
}

// NewService creates a settings service. defaults are returned until
// settings are saved.
func NewService(kv storage.Provider, defaults Settings) *Service {
	return &Service{kv: kv, defaults: defaults}
}

// GetSettings returns the current settings.
func (s *Service) GetSettings(ctx context.Context) (Settings, error) {
	if err := ctx.Err(); err != nil {
		return Settings{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil {
		return *s.cached, nil
	}

	current := s.defaults
	data, err := s.kv.Get(Key)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
	case err != nil:
		return Settings{}, fmt.Errorf("settings: load: %w", err)
	default:
		if err := json.Unmarshal(data, &current); err != nil {
			return Settings{}, fmt.Errorf("settings: decode: %w", err)
		}
		if err := current.Validate(); err != nil {
			return Settings{}, fmt.Errorf("settings: stored value: %w", err)
		}
	}

	s.cached = &current
	return current, nil
}

// SaveSettings validates and persists settings.
func (s *Service) SaveSettings(ctx context.Context, st Settings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := st.Validate(); err != nil {
		return fmt.Errorf("settings: %w: %w", apperr.ErrInvalidInput, err)
	}
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("settings: encode: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Set(Key, data); err != nil {
		return fmt.Errorf("settings: save: %w", err)
	}
	s.cached = nil
	return nil
}

// Invalidate drops the cached settings so the next read goes to storage.
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

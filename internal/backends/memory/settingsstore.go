package memory

import (
	"context"
	"sync"

	"hsforms/internal/types"
)

// SettingsStore keeps settings in memory. Used by tests and single-process setups.
type SettingsStore struct {
	mu       sync.RWMutex
	settings *types.Settings
}

func NewSettingsStore() *SettingsStore {
	return &SettingsStore{}
}

func (s *SettingsStore) GetSettings(_ context.Context) (types.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.settings == nil {
		return types.Settings{}, types.ErrNotFound
	}
	return *s.settings, nil
}

func (s *SettingsStore) PutSettings(_ context.Context, settings types.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.settings = &settings
	s.mu.Unlock()
	return nil
}

func (s *SettingsStore) ClearSettings(_ context.Context) error {
	s.mu.Lock()
	s.settings = nil
	s.mu.Unlock()
	return nil
}

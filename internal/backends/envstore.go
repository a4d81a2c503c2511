package backends

import (
	"context"
	"os"
	"strconv"

	"hsforms/internal/types"
)

// EnvSettingsStore reads the settings from HUBSPOT_* environment variables.
// It is read-only.
type EnvSettingsStore struct {
	lookup func(string) string
}

func NewEnvSettingsStore() *EnvSettingsStore {
	return &EnvSettingsStore{lookup: os.Getenv}
}

// GetSettings returns types.ErrNotFound when none of the variables is set.
func (s *EnvSettingsStore) GetSettings(_ context.Context) (types.Settings, error) {
	settings := types.Settings{
		Token:    s.lookup(TokenKey),
		PortalID: s.lookup(PortalIDKey),
	}
	var err error
	if settings.Limit, err = s.intVar(LimitKey); err != nil {
		return types.Settings{}, err
	}
	if settings.MaxPages, err = s.intVar(MaxPagesKey); err != nil {
		return types.Settings{}, err
	}
	if settings == (types.Settings{}) {
		return types.Settings{}, types.ErrNotFound
	}
	if err := settings.Validate(); err != nil {
		return types.Settings{}, err
	}
	return settings, nil
}

func (s *EnvSettingsStore) PutSettings(_ context.Context, _ types.Settings) error {
	return types.Err(types.ErrInvalidBackend, nil, "env settings are read-only")
}

func (s *EnvSettingsStore) ClearSettings(_ context.Context) error {
	return types.Err(types.ErrInvalidBackend, nil, "env settings are read-only")
}

func (s *EnvSettingsStore) intVar(key string) (int, error) {
	v := s.lookup(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, types.Err(types.ErrInvalidSettings, err, "%s must be an integer", key)
	}
	return n, nil
}

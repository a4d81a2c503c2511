package redis

import (
	"context"
	"errors"

	"hsforms/internal/types"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const (
	settingsKeyName = "_hsforms_settings"
)

type SettingsStore struct {
	cli *redis.Client
}

func NewSettingsStore(cli *redis.Client) *SettingsStore {
	return &SettingsStore{cli: cli}
}

func (s *SettingsStore) GetSettings(ctx context.Context) (types.Settings, error) {
	out := s.cli.Get(ctx, settingsKeyName)
	if out.Err() != nil {
		if errors.Is(out.Err(), redis.Nil) {
			return types.Settings{}, types.ErrNotFound
		}
		return types.Settings{}, types.Err(types.ErrDataStoreAccess, out.Err(), "")
	}
	var settings types.Settings
	if err := json.Unmarshal([]byte(out.Val()), &settings); err != nil {
		return types.Settings{}, types.Err(types.ErrDataStoreAccess, err, "invalid stored settings")
	}
	return settings, nil
}

func (s *SettingsStore) PutSettings(ctx context.Context, settings types.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	out, err := json.Marshal(settings)
	if err != nil {
		return err
	}

	outS := s.cli.Set(
		ctx,
		settingsKeyName,
		string(out),
		0,
	)
	if outS.Err() != nil {
		return types.Err(types.ErrDataStoreAccess, outS.Err(), "")
	}
	return nil
}

func (s *SettingsStore) ClearSettings(ctx context.Context) error {
	out := s.cli.Del(ctx, settingsKeyName)
	if out.Err() != nil {
		return types.Err(types.ErrDataStoreAccess, out.Err(), "")
	}
	return nil
}

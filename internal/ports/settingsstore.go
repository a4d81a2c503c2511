package ports

import (
	"context"
	"hsforms/internal/types"
)

// SettingsStore holds the plugin settings.
// Implementations SHOULD cache upstream reads where possible; callers MAY add an
// in-process TTL cache to avoid hot-path lookups.
type SettingsStore interface {
	// GetSettings returns the stored settings.
	// MUST return types.ErrNotFound if nothing was stored.
	GetSettings(ctx context.Context) (types.Settings, error)

	// PutSettings validates and stores the settings, replacing any previous value.
	PutSettings(ctx context.Context, settings types.Settings) error

	// ClearSettings removes the stored settings. Used by the CLI and in tests.
	ClearSettings(ctx context.Context) error
}

package cmds

import (
	"context"
	"errors"
	"fmt"
	"os"

	"hsforms/internal/backends"
	"hsforms/internal/hubspot"
	"hsforms/internal/types"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const LogLevelEnvKey = "LOG_LEVEL"

var ErrSettingsNotConfigured = errors.New("settings not configured")

// NewRootCommand assembles the hsforms command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "hsforms",
		Short: "HubSpot forms integration helper",
		Long: `hsforms lists the HubSpot marketing forms of an account, resolves its portal id
and checks the plugin settings.

Backends are picked from the environment:
  SETTINGS_BACKEND  env (default), memory, redis, ddb
  CACHE_BACKEND     memory (default), redis`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return configureLogging(os.Getenv(LogLevelEnvKey))
		},
	}
	root.AddCommand(
		newServeCommand(),
		newFormsCommand(),
		newPortalCommand(),
		newFormsURLCommand(),
		newCheckCommand(),
		newSettingsCommand(),
	)
	return root
}

func configureLogging(level string) error {
	if level == "" {
		return nil
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", LogLevelEnvKey, err)
	}
	log.SetLevel(lvl)
	return nil
}

// optionsFromEnv reads the service tuning variables.
func optionsFromEnv() (hubspot.Options, error) {
	timeout, err := backends.HTTPTimeoutFromEnv()
	if err != nil {
		return hubspot.Options{}, err
	}
	apiBase, appBase := backends.APIBaseFromEnv()
	return hubspot.Options{HTTPTimeout: timeout, APIBase: apiBase, AppBase: appBase}, nil
}

// loadService builds a Service from the configured settings and cache backends.
func loadService(ctx context.Context) (*hubspot.Service, error) {
	store, err := backends.SettingsBackendFromEnv()
	if err != nil {
		return nil, err
	}
	settings, err := store.GetSettings(ctx)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, ErrSettingsNotConfigured
		}
		return nil, err
	}
	cache, err := backends.CacheBackendFromEnv()
	if err != nil {
		return nil, err
	}
	opts, err := optionsFromEnv()
	if err != nil {
		return nil, err
	}
	return hubspot.NewServiceFromSettings(settings, cache, opts), nil
}

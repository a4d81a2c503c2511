package cmds

import (
	"context"
	"fmt"
	"io"
	"os"

	"hsforms/internal/backends"
	"hsforms/internal/ports"
	"hsforms/internal/types"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

func newSettingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage the stored plugin settings",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "put <file.yml>",
			Short: "Store settings read from a YAML file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := backends.SettingsBackendFromEnv()
				if err != nil {
					return err
				}
				return PutSettings(cmd.Context(), store, args[0])
			},
		},
		&cobra.Command{
			Use:   "get",
			Short: "Print the stored settings with the token redacted",
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := backends.SettingsBackendFromEnv()
				if err != nil {
					return err
				}
				return GetSettings(cmd.Context(), store, cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove the stored settings",
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := backends.SettingsBackendFromEnv()
				if err != nil {
					return err
				}
				return store.ClearSettings(cmd.Context())
			},
		},
	)
	return cmd
}

// LoadSettingsFile parses a YAML settings file. Unknown keys are rejected.
func LoadSettingsFile(path string) (types.Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Settings{}, err
	}
	var settings types.Settings
	if err := yaml.UnmarshalWithOptions(data, &settings, yaml.DisallowUnknownField()); err != nil {
		return types.Settings{}, types.Err(types.ErrInvalidSettings, err, "parse %s", path)
	}
	return settings, nil
}

// PutSettings stores the settings read from path.
func PutSettings(ctx context.Context, store ports.SettingsStore, path string) error {
	settings, err := LoadSettingsFile(path)
	if err != nil {
		return err
	}
	return store.PutSettings(ctx, settings)
}

// GetSettings prints the stored settings as YAML, token redacted.
func GetSettings(ctx context.Context, store ports.SettingsStore, w io.Writer) error {
	settings, err := store.GetSettings(ctx)
	if err != nil {
		return err
	}
	out, err := yaml.Marshal(settings.Redacted())
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, string(out))
	return err
}

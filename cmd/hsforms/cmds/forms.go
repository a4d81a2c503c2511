package cmds

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"hsforms/internal/types"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var ErrPortalUnavailable = errors.New("portal id unavailable")

func newFormsCommand() *cobra.Command {
	var refresh, asJSON bool
	cmd := &cobra.Command{
		Use:   "forms",
		Short: "List the marketing forms of the account",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService(cmd.Context())
			if err != nil {
				return err
			}
			var forms types.Forms
			if refresh {
				forms = svc.RefreshForms(cmd.Context())
			} else {
				forms = svc.ListForms(cmd.Context())
			}
			return PrintForms(cmd.OutOrStdout(), forms, asJSON)
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "drop the cached listing first")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func newPortalCommand() *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "portal",
		Short: "Resolve the HubSpot portal id",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService(cmd.Context())
			if err != nil {
				return err
			}
			id, ok := svc.PortalID(cmd.Context(), token)
			if !ok {
				return ErrPortalUnavailable
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), id)
			return err
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "token to resolve instead of the configured one")
	return cmd
}

func newFormsURLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "forms-url",
		Short: "Print the HubSpot app link to the account's forms",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), svc.FormsURL(cmd.Context()))
			return err
		},
	}
}

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that a token and a portal id are configured",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService(cmd.Context())
			if err != nil {
				return err
			}
			if !svc.HasValidSettings() {
				return fmt.Errorf("%w: token and portal id are required", types.ErrInvalidSettings)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "settings ok")
			return err
		},
	}
}

// PrintForms writes the listing as a name/id table, or as a JSON array.
func PrintForms(w io.Writer, forms types.Forms, asJSON bool) error {
	if asJSON {
		if forms == nil {
			forms = types.Forms{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(forms)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tID")
	for _, f := range forms {
		fmt.Fprintf(tw, "%s\t%s\n", f.Name, f.ID)
	}
	return tw.Flush()
}

package invitations

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/terraconstructs/cohort/cmd/cohortctl/internal/config"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete invite codes by id",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		ids, err := parseIDs(args)
		if err != nil {
			return err
		}

		if !cfg.NonInteractive {
			ok, err := pterm.DefaultInteractiveConfirm.Show(fmt.Sprintf("Delete %d invite code(s)?", len(ids)))
			if err != nil {
				return err
			}
			if !ok {
				pterm.Info.Println("Aborted")
				return nil
			}
		}

		client, _, err := cfg.ClientProvider.AuthenticatedClient(cmd.Context())
		if err != nil {
			return err
		}
		if err := client.DeleteInvitations(cmd.Context(), ids); err != nil {
			return err
		}
		pterm.Success.Printf("Deleted %d invite code(s)\n", len(ids))
		return nil
	},
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid invite code id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

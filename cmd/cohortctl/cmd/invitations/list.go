package invitations

import (
	"github.com/spf13/cobra"

	"github.com/terraconstructs/cohort/cmd/cohortctl/internal/config"
)

var createdBy int64

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List invite codes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		client, _, err := cfg.ClientProvider.AuthenticatedClient(cmd.Context())
		if err != nil {
			return err
		}

		invitations, err := client.ListInvitations(cmd.Context(), createdBy)
		if err != nil {
			return err
		}
		return render(invitations)
	},
}

func init() {
	listCmd.Flags().Int64Var(&createdBy, "user-id", 0, "Only codes created by this user")
}

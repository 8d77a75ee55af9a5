package invitations

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/terraconstructs/cohort/cmd/cohortctl/internal/config"
	"github.com/terraconstructs/cohort/pkg/sdk"
)

var (
	inviteRole  string
	inviteCount int
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Generate invite codes for a role",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		role, ok := sdk.ParseRole(inviteRole)
		if !ok {
			return fmt.Errorf("unknown role %q", inviteRole)
		}
		if inviteCount < 1 || inviteCount > 100 {
			return fmt.Errorf("--count must be between 1 and 100")
		}

		client, _, err := cfg.ClientProvider.AuthenticatedClient(cmd.Context())
		if err != nil {
			return err
		}

		created, err := client.CreateInvitations(cmd.Context(), sdk.CreateInvitationsInput{Role: role, Count: inviteCount})
		if err != nil {
			return err
		}
		pterm.Success.Printf("Created %d invite code(s) for %s\n", len(created), role)
		return render(created)
	},
}

func init() {
	createCmd.Flags().StringVar(&inviteRole, "role", string(sdk.RoleStudent), "Role granted by the codes")
	createCmd.Flags().IntVar(&inviteCount, "count", 1, "Number of codes to generate (1-100)")
}

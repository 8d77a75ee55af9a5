package invitations

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/terraconstructs/cohort/pkg/sdk"
)

// InvitationsCmd is the parent command for invite code operations
var InvitationsCmd = &cobra.Command{
	Use:   "invitations",
	Short: "Manage invite codes (admin and head only)",
}

func init() {
	InvitationsCmd.AddCommand(listCmd)
	InvitationsCmd.AddCommand(createCmd)
	InvitationsCmd.AddCommand(deleteCmd)
}

func render(invitations []sdk.Invitation) error {
	if len(invitations) == 0 {
		pterm.Info.Println("No invite codes")
		return nil
	}
	data := [][]string{{"ID", "CODE", "ROLE", "ACCEPTED", "CREATED"}}
	for _, inv := range invitations {
		data = append(data, []string{
			fmt.Sprint(inv.ID),
			inv.Code,
			inv.Role,
			fmt.Sprint(inv.IsAccepted),
			inv.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

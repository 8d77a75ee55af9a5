package members

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/terraconstructs/cohort/cmd/cohortctl/internal/config"
	"github.com/terraconstructs/cohort/pkg/sdk"
)

var (
	role     string
	username string
	filter   string
)

// MembersCmd is the parent command for tenant member operations
var MembersCmd = &cobra.Command{
	Use:   "members",
	Short: "Manage tenant members (admin and head only)",
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tenant members",
	Long: `Lists the users of the tenant. --role and --username are applied by the
server; --filter is a boolean expression evaluated locally over id, username,
first_name, last_name, email, role and has_phone, for example:

  cohortctl members list --filter 'role == "teacher" and has_phone == false'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		client, _, err := cfg.ClientProvider.AuthenticatedClient(cmd.Context())
		if err != nil {
			return err
		}

		input := sdk.ListMembersInput{Username: username}
		if role != "" {
			r, ok := sdk.ParseRole(role)
			if !ok {
				return fmt.Errorf("unknown role %q", role)
			}
			input.Role = r
		}

		members, err := client.ListMembers(cmd.Context(), input)
		if err != nil {
			return err
		}
		members, err = sdk.FilterMembers(members, filter)
		if err != nil {
			return err
		}

		if len(members) == 0 {
			pterm.Info.Println("No members found")
			return nil
		}

		data := [][]string{{"ID", "USERNAME", "NAME", "EMAIL", "ROLE", "JOINED"}}
		for _, m := range members {
			data = append(data, []string{
				fmt.Sprint(m.ID),
				m.Username,
				m.FirstName + " " + m.LastName,
				m.Email,
				m.Role,
				m.CreatedAt.Format("2006-01-02"),
			})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

func init() {
	listCmd.Flags().StringVar(&role, "role", "", "Only members with this role (student, teacher, admin, head)")
	listCmd.Flags().StringVar(&username, "username", "", "Only members whose username contains this text")
	listCmd.Flags().StringVar(&filter, "filter", "", "Boolean filter expression over member fields")
	MembersCmd.AddCommand(listCmd)
}

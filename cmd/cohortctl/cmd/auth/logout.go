package auth

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/terraconstructs/cohort/cmd/cohortctl/internal/config"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		session, err := cfg.ClientProvider.Session(cmd.Context())
		if err != nil {
			return err
		}
		session.Logout(cmd.Context())

		pterm.Success.Println("Logged out successfully")
		return nil
	},
}

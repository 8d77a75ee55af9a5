package auth

import (
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/terraconstructs/cohort/cmd/cohortctl/internal/client"
	"github.com/terraconstructs/cohort/cmd/cohortctl/internal/config"
	"github.com/terraconstructs/cohort/pkg/sdk"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display authentication status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		session, err := cfg.ClientProvider.Session(cmd.Context())
		if err != nil {
			return err
		}
		state := session.State()

		pterm.DefaultSection.Println("Authentication Status")
		pterm.Info.Printf("API: %s\n", cfg.ClientProvider.BaseURL())
		pterm.Info.Printf("Session: %s\n", state.Phase)
		if !state.IsAuthenticated {
			return client.ErrNotLoggedIn
		}

		pterm.Info.Printf("User: %s (id %d)\n", state.Identity.DisplayName, state.Identity.SubjectID)
		pterm.Info.Printf("Role: %s\n", state.Identity.Role)
		if expiresAt, err := sdk.ExpiresAt(state.Credential); err == nil {
			pterm.Info.Printf("Access credential expires at: %s\n", expiresAt.Local().Format(time.RFC1123))
		}
		return nil
	},
}

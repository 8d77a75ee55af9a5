package auth

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/terraconstructs/cohort/cmd/cohortctl/internal/client"
	"github.com/terraconstructs/cohort/cmd/cohortctl/internal/config"
	"github.com/terraconstructs/cohort/pkg/sdk"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Exchange the refresh artifact for a new access credential",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		session, err := cfg.ClientProvider.Session(cmd.Context())
		if err != nil {
			return err
		}

		outcome := session.Refresh(cmd.Context())
		if outcome != sdk.RefreshSucceeded {
			cfg.Logger.Debug("refresh did not succeed", "outcome", outcome.String())
			return client.ErrNotLoggedIn
		}

		pterm.Success.Printf("Session refreshed for %s\n", session.Identity().DisplayName)
		return nil
	},
}

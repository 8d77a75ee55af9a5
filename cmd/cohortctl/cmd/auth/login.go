package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/terraconstructs/cohort/cmd/cohortctl/internal/client"
	"github.com/terraconstructs/cohort/cmd/cohortctl/internal/config"
	"github.com/terraconstructs/cohort/pkg/sdk"
)

var refreshToken string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with a refresh artifact",
	Long: `Stores the long-lived refresh artifact issued by the dashboard and exchanges
it for an access credential.

The artifact is read from --refresh-token or COHORT_REFRESH_TOKEN. Against the
demo backend (cohortctl mock serve) use demo-admin, demo-head, demo-teacher or
demo-student.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		artifact := strings.TrimSpace(refreshToken)
		if artifact == "" {
			if ok, env := sdk.CheckEnvRefreshToken(); ok {
				pterm.Info.Println("Using refresh token from COHORT_REFRESH_TOKEN.")
				artifact = env
			}
		}
		if artifact == "" {
			return errors.New("a refresh token is required (--refresh-token or COHORT_REFRESH_TOKEN)")
		}

		store, err := cfg.ClientProvider.Store()
		if err != nil {
			return fmt.Errorf("failed to open credential store: %w", err)
		}
		// a new artifact must not be shadowed by a credential from an earlier login
		if err := store.ClearCredential(); err != nil {
			return err
		}
		if err := store.SaveRefreshArtifact(artifact); err != nil {
			return fmt.Errorf("failed to save refresh token: %w", err)
		}

		session, err := cfg.ClientProvider.Session(cmd.Context())
		if err != nil {
			return err
		}
		state := session.State()
		if !state.IsAuthenticated {
			return client.ErrNotLoggedIn
		}

		pterm.Success.Printf("Logged in as %s (%s) on %s\n",
			state.Identity.DisplayName, state.Identity.Role, cfg.ClientProvider.BaseURL())
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&refreshToken, "refresh-token", "", "Refresh artifact issued by the dashboard")
}

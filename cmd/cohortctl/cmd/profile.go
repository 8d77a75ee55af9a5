package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/terraconstructs/cohort/cmd/cohortctl/internal/config"
)

var showAnalysis bool

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the current user's profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		client, identity, err := cfg.ClientProvider.AuthenticatedClient(cmd.Context())
		if err != nil {
			return err
		}

		profile, err := client.GetProfile(cmd.Context())
		if err != nil {
			return err
		}

		pterm.DefaultSection.Printf("%s (%s)", identity.DisplayName, profile.Role)
		if err := printJSON(profile.ProfileData); err != nil {
			return err
		}

		if !showAnalysis {
			return nil
		}
		analysis, err := client.GetAnalysis(cmd.Context())
		if err != nil {
			return err
		}
		pterm.DefaultSection.Println("Analysis")
		return printJSON(analysis)
	},
}

func printJSON(raw json.RawMessage) error {
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return fmt.Errorf("failed to format response: %w", err)
	}
	fmt.Println(out.String())
	return nil
}

func init() {
	profileCmd.Flags().BoolVar(&showAnalysis, "analysis", false, "Also show the role-specific analysis")
}

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/terraconstructs/cohort/cmd/cohortctl/cmd/auth"
	"github.com/terraconstructs/cohort/cmd/cohortctl/cmd/invitations"
	"github.com/terraconstructs/cohort/cmd/cohortctl/cmd/members"
	"github.com/terraconstructs/cohort/cmd/cohortctl/cmd/mock"
	"github.com/terraconstructs/cohort/cmd/cohortctl/cmd/subscription"
	"github.com/terraconstructs/cohort/cmd/cohortctl/cmd/tenant"
	"github.com/terraconstructs/cohort/cmd/cohortctl/internal/client"
	"github.com/terraconstructs/cohort/cmd/cohortctl/internal/config"
	"github.com/terraconstructs/cohort/pkg/sdk"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "cohortctl",
	Short: "Cohort CLI - school analytics dashboard client",
	Long: `cohortctl is the command-line client for the Cohort school analytics dashboard.
It resolves the tenant from a dashboard hostname, keeps a session alive with a
refresh artifact, and shows the tabs and data the current role may see.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(configFile); err != nil {
			return err
		}
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		cfg.ClientProvider = client.NewProvider(cfg.Host, cfg.BaseURL, cfg.Logger)
		if token := strings.TrimSpace(viper.GetString("access-token")); token != "" {
			cfg.ClientProvider.SetAccessToken(sdk.Credential(token))
		}

		cmd.SetContext(config.InjectConfig(cmd.Context(), cfg))
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Config file (default ~/.cohort/config.yaml)")
	flags.String("host", config.DefaultHost, "Dashboard hostname the tenant is resolved from (env: COHORT_HOST)")
	flags.String("base-url", "", "API base URL, bypassing hostname resolution (env: COHORT_BASE_URL)")
	flags.String("access-token", "", "Use this access token instead of the stored session (env: COHORT_ACCESS_TOKEN)")
	flags.Bool("debug", false, "Enable debug logging (env: COHORT_DEBUG)")
	flags.Bool("non-interactive", false, "Disable interactive prompts (env: COHORT_NON_INTERACTIVE)")

	for _, name := range []string{"host", "base-url", "access-token", "debug", "non-interactive"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}

	rootCmd.AddCommand(auth.AuthCmd)
	rootCmd.AddCommand(tenant.TenantCmd)
	rootCmd.AddCommand(tabsCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(members.MembersCmd)
	rootCmd.AddCommand(invitations.InvitationsCmd)
	rootCmd.AddCommand(subscription.SubscriptionCmd)
	rootCmd.AddCommand(mock.MockCmd)
}

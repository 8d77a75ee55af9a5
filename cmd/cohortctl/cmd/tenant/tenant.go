package tenant

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/terraconstructs/cohort/cmd/cohortctl/internal/config"
)

// TenantCmd is the parent command for tenant operations
var TenantCmd = &cobra.Command{
	Use:   "tenant",
	Short: "Inspect the tenant behind the dashboard hostname",
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show tenant branding and organization details",
	Long: `Resolves the tenant for --host. When the lookup fails the default tenant
is shown, exactly as the dashboard would render it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		result := cfg.ClientProvider.Tenants().Lookup(cmd.Context(), cfg.ClientProvider.Host())
		if result.Fallback {
			pterm.Warning.Println("Tenant lookup failed; showing the default tenant.")
			cfg.Logger.Debug("tenant lookup error", "error", result.Err)
		}

		t := result.Tenant
		data := [][]string{
			{"FIELD", "VALUE"},
			{"Name", t.Name},
			{"Domain", t.Domain},
			{"Organization", t.TypeOfOrg},
			{"Theme", t.Theme},
			{"Style", t.Style},
			{"Active", pterm.Sprint(t.IsActive)},
			{"Plan", deref(t.PlanType)},
			{"City", deref(t.City)},
			{"Branding image", deref(t.ProfilePic)},
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func init() {
	TenantCmd.AddCommand(showCmd)
}

package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/terraconstructs/cohort/cmd/cohortctl/internal/config"
	"github.com/terraconstructs/cohort/pkg/sdk"
)

var tabsCmd = &cobra.Command{
	Use:   "tabs",
	Short: "List the dashboard tabs visible to the current role",
	Long: `Lists the dashboard tabs the current identity may open, in display order.
The first tab is the one selected when the dashboard opens. Without a session the
least privileged (student) set is shown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		session, err := cfg.ClientProvider.Session(cmd.Context())
		if err != nil {
			return err
		}
		identity := session.Identity()

		data := [][]string{{"#", "TAB", "LABEL KEY", ""}}
		for i, capability := range sdk.VisibleCapabilitiesFor(identity) {
			marker := ""
			if i == 0 {
				marker = "default"
			}
			data = append(data, []string{pterm.Sprint(i + 1), string(capability), capability.LabelKey(), marker})
		}

		if identity == nil {
			pterm.Warning.Println("Not logged in; showing the student tabs.")
		} else {
			pterm.Info.Printf("Role: %s\n", identity.Role)
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

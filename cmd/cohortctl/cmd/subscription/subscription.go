package subscription

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/terraconstructs/cohort/cmd/cohortctl/internal/config"
	"github.com/terraconstructs/cohort/pkg/sdk"
)

var (
	language     string
	planID       int64
	billingCycle string
)

// SubscriptionCmd is the parent command for subscription operations
var SubscriptionCmd = &cobra.Command{
	Use:   "subscription",
	Short: "Inspect the tenant subscription",
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active subscription and seat usage (admin and head only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		client, _, err := cfg.ClientProvider.AuthenticatedClient(cmd.Context())
		if err != nil {
			return err
		}

		sub, err := client.GetSubscription(cmd.Context())
		if err != nil {
			return err
		}
		if sub == nil {
			pterm.Info.Println("No active subscription")
			return nil
		}
		return renderSubscription(sub)
	},
}

var subscribeCmd = &cobra.Command{
	Use:   "subscribe",
	Short: "Subscribe the tenant to a plan (admin and head only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		client, _, err := cfg.ClientProvider.AuthenticatedClient(cmd.Context())
		if err != nil {
			return err
		}

		sub, err := client.CreateSubscription(cmd.Context(), sdk.CreateSubscriptionInput{
			PlanID:       planID,
			BillingCycle: billingCycle,
		})
		if err != nil {
			return err
		}
		pterm.Success.Printf("Subscribed to %s\n", sub.Plan.Name)
		return renderSubscription(sub)
	},
}

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "List available plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		client, _, err := cfg.ClientProvider.AuthenticatedClient(cmd.Context())
		if err != nil {
			return err
		}

		plans, err := client.ListPlans(cmd.Context(), language)
		if err != nil {
			return err
		}

		data := [][]string{{"ID", "NAME", "TIER", "MAX STUDENTS", "MONTHLY", "YEARLY"}}
		for _, p := range plans {
			data = append(data, []string{
				fmt.Sprint(p.ID), p.Name, fmt.Sprint(p.Tier), fmt.Sprint(p.MaxStudents), p.PriceMonthly, p.PriceYearly,
			})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

func renderSubscription(sub *sdk.Subscription) error {
	data := [][]string{
		{"FIELD", "VALUE"},
		{"Plan", sub.Plan.Name},
		{"Tier", sub.Tier.Name},
		{"Status", sub.Status},
		{"Billing", sub.BillingCycle},
		{"Period", sub.StartDate.Format("2006-01-02") + " → " + sub.EndDate.Format("2006-01-02")},
	}
	if u := sub.Usage; u != nil {
		data = append(data,
			[]string{"Students", fmt.Sprintf("%d / %d", u.CurrentStudents, u.MaxStudents)},
			[]string{"Usage", fmt.Sprintf("%.1f%%", u.UsagePercentage)},
		)
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func init() {
	plansCmd.Flags().StringVar(&language, "language", "", "Language of plan names (e.g. en, ar)")
	subscribeCmd.Flags().Int64Var(&planID, "plan", 0, "Plan id (see `subscription plans`)")
	subscribeCmd.Flags().StringVar(&billingCycle, "billing-cycle", "monthly", "monthly or yearly")
	_ = subscribeCmd.MarkFlagRequired("plan")

	SubscriptionCmd.AddCommand(showCmd)
	SubscriptionCmd.AddCommand(subscribeCmd)
	SubscriptionCmd.AddCommand(plansCmd)
}

// AngelaMos | 2026
// billing.go

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/skadri1601/TradeSignal-sub000/internal/billing"
	"github.com/skadri1601/TradeSignal-sub000/internal/guard"
)

func newBillingCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "billing",
		Short: "Manage your subscription",
	}

	cmd.AddCommand(
		newBillingStatusCmd(app),
		newBillingUsageCmd(app),
		newBillingUpgradeCmd(app),
	)

	return cmd
}

// requireSession resolves the stored session and reports the guard's
// decision when the protected operation cannot run.
func requireSession(app *App, cmd *cobra.Command, req guard.Requirements) error {
	app.Manager.Init(cmd.Context())

	decision := guard.Evaluate(app.Manager.Snapshot(), app.Resolver, req)
	switch decision.Kind {
	case guard.RenderContent:
		return nil
	case guard.RedirectLogin:
		return fmt.Errorf("not signed in, run `tradesignal login` first")
	case guard.ShowSyncError:
		return fmt.Errorf("session sync failed: %s", decision.Error.Message)
	case guard.ShowVerifyEmail:
		return fmt.Errorf("verify your email address to use this command")
	case guard.ShowAccessDenied:
		return fmt.Errorf("this command needs a support or admin account")
	case guard.ShowUpgradePrompt:
		return fmt.Errorf(
			"this command needs the %s plan or higher",
			decision.RequiredTier,
		)
	default:
		return fmt.Errorf("session not ready (%s)", decision.Kind)
	}
}

func newBillingStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current subscription",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := guard.Requirements{Location: "billing"}
			if err := requireSession(app, cmd, req); err != nil {
				return err
			}

			sub, err := billing.NewClient(app.API).Subscription(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("Plan:   %s (%s)\n", sub.Tier, sub.Status)
			if sub.CurrentPeriodEnd != nil {
				fmt.Printf("Renews: %s\n",
					sub.CurrentPeriodEnd.Format(time.DateOnly))
			}
			if sub.CancelAtPeriodEnd {
				fmt.Println("Cancels at the end of the current period.")
			}

			return nil
		},
	}
}

func newBillingUsageCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Show API usage for the current period",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := guard.Requirements{Location: "billing"}
			if err := requireSession(app, cmd, req); err != nil {
				return err
			}

			usage, err := billing.NewClient(app.API).Usage(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("API calls: %d of %d used (%d remaining)\n",
				usage.APICallsUsed,
				usage.APICallsLimit,
				usage.Remaining(),
			)
			fmt.Printf("Period ends %s\n",
				usage.PeriodEndsAt.Format(time.DateOnly))

			return nil
		},
	}
}

func newBillingUpgradeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade <tier>",
		Short: "Start a checkout for a higher plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := guard.Requirements{Location: "billing"}
			if err := requireSession(app, cmd, req); err != nil {
				return err
			}

			session, err := billing.NewClient(app.API).
				CreateCheckout(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Println("Complete your upgrade here:")
			fmt.Println("  " + session.URL)

			return nil
		},
	}
}

// AngelaMos | 2026
// dashboard.go

package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/skadri1601/TradeSignal-sub000/internal/billing"
	"github.com/skadri1601/TradeSignal-sub000/internal/market"
	"github.com/skadri1601/TradeSignal-sub000/internal/tui"
)

var defaultWatchlist = []string{"AAPL", "MSFT", "NVDA", "SPY", "TSLA"}

func newDashboardCmd(app *App) *cobra.Command {
	var symbols []string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Open the live dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Manager.Init(cmd.Context())

			pollCtx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			marketClient := market.NewClient(app.API)
			poller := market.NewPoller(
				marketClient,
				app.Config.Market,
				symbols,
				app.Logger,
			)

			dashboard := tui.NewDashboard(
				pollCtx,
				app.Manager,
				app.Resolver,
				billing.NewClient(app.API),
				marketClient,
				poller.Run(pollCtx),
			)

			program := tea.NewProgram(dashboard, tea.WithAltScreen())
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("dashboard: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringSliceVar(
		&symbols,
		"symbols",
		defaultWatchlist,
		"watchlist symbols",
	)

	return cmd
}

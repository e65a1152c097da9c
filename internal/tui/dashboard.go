// AngelaMos | 2026
// dashboard.go

package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/skadri1601/TradeSignal-sub000/internal/billing"
	"github.com/skadri1601/TradeSignal-sub000/internal/guard"
	"github.com/skadri1601/TradeSignal-sub000/internal/market"
	"github.com/skadri1601/TradeSignal-sub000/internal/session"
	"github.com/skadri1601/TradeSignal-sub000/internal/tier"
)

const retryCountdown = 10 * time.Second

type marketMsg market.Update

type usageMsg struct {
	usage *billing.UsageStats
}

type newsMsg struct {
	headlines []market.Headline
}

type syncedMsg struct{}

type countdownMsg time.Time

// Dashboard renders whatever the route guard decides for the main
// protected view: one terminal state at a time, never partial content
// next to a blocking screen.
type Dashboard struct {
	ctx      context.Context
	manager  *session.Manager
	resolver *tier.Resolver
	billing  *billing.Client
	market   *market.Client
	updates  <-chan market.Update

	styles      Styles
	spin        spinner.Model
	width       int
	height      int
	quitting    bool
	requirement guard.Requirements

	quotes          []market.Quote
	marketStatus    *market.Status
	headlines       []market.Headline
	usage           *billing.UsageStats
	bannerDismissed bool
	countdown       int
}

func NewDashboard(
	ctx context.Context,
	manager *session.Manager,
	resolver *tier.Resolver,
	billingClient *billing.Client,
	marketClient *market.Client,
	updates <-chan market.Update,
) Dashboard {
	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return Dashboard{
		ctx:      ctx,
		manager:  manager,
		resolver: resolver,
		billing:  billingClient,
		market:   marketClient,
		updates:  updates,
		styles:   DefaultStyles(),
		spin:     spin,
		requirement: guard.Requirements{
			Location:   "dashboard",
			RetryAfter: retryCountdown,
		},
		countdown: int(retryCountdown / time.Second),
	}
}

func (d Dashboard) Init() tea.Cmd {
	return tea.Batch(
		d.spin.Tick,
		d.waitForMarket(),
		d.fetchUsage(),
		d.fetchNews(),
		countdownTick(),
	)
}

func (d Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
		return d, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			d.quitting = true
			return d, tea.Quit
		case "r":
			return d, d.resync()
		case "x":
			d.bannerDismissed = true
			return d, nil
		}
		return d, nil

	case marketMsg:
		if msg.Err == nil {
			// Last fetch wins.
			d.quotes = msg.Quotes
			d.marketStatus = msg.Status
		}
		return d, d.waitForMarket()

	case usageMsg:
		d.usage = msg.usage
		return d, nil

	case newsMsg:
		d.headlines = msg.headlines
		return d, nil

	case syncedMsg:
		snap := d.manager.Snapshot()
		if snap.SyncError == nil {
			d.bannerDismissed = false
		}
		d.countdown = int(retryCountdown / time.Second)
		return d, tea.Batch(d.fetchUsage(), d.fetchNews())

	case countdownMsg:
		decision := d.decide()
		if decision.Kind == guard.ShowSyncError && decision.Retryable {
			d.countdown--
			if d.countdown <= 0 {
				d.countdown = int(retryCountdown / time.Second)
				return d, tea.Batch(countdownTick(), d.resync())
			}
		}
		return d, countdownTick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		d.spin, cmd = d.spin.Update(msg)
		return d, cmd
	}

	return d, nil
}

func (d Dashboard) decide() guard.Decision {
	return guard.Evaluate(d.manager.Snapshot(), d.resolver, d.requirement)
}

// resync goes through the session manager; views never retry network
// requests directly.
func (d Dashboard) resync() tea.Cmd {
	return func() tea.Msg {
		d.manager.Resync(d.ctx)
		return syncedMsg{}
	}
}

func (d Dashboard) waitForMarket() tea.Cmd {
	return func() tea.Msg {
		update, ok := <-d.updates
		if !ok {
			return nil
		}
		return marketMsg(update)
	}
}

func (d Dashboard) fetchUsage() tea.Cmd {
	return func() tea.Msg {
		if !d.manager.Snapshot().IsAuthenticated {
			return nil
		}
		usage, err := d.billing.Usage(d.ctx)
		if err != nil {
			return nil
		}
		return usageMsg{usage: usage}
	}
}

func (d Dashboard) fetchNews() tea.Cmd {
	return func() tea.Msg {
		if !d.manager.Snapshot().IsAuthenticated {
			return nil
		}
		headlines, err := d.market.News(d.ctx, 5)
		if err != nil {
			return nil
		}
		return newsMsg{headlines: headlines}
	}
}

func countdownTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return countdownMsg(t)
	})
}

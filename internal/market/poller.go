// AngelaMos | 2026
// poller.go

package market

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/skadri1601/TradeSignal-sub000/internal/config"
)

// Update is one poll result. Last fetch wins: consumers only ever see
// the most recent successful snapshot plus whether the last attempt
// failed.
type Update struct {
	Quotes []Quote
	Status *Status
	Err    error
	At     time.Time
}

// Poller drives the auto-refresh ticker and market-status displays.
// The limiter paces requests so a slow consumer or a tight interval
// never hammers the backend.
type Poller struct {
	client   *Client
	symbols  []string
	limiter  *rate.Limiter
	interval time.Duration
	logger   *slog.Logger
}

func NewPoller(
	client *Client,
	cfg config.MarketConfig,
	symbols []string,
	logger *slog.Logger,
) *Poller {
	burst := cfg.PollBurst
	if burst < 1 {
		burst = 1
	}

	return &Poller{
		client:   client,
		symbols:  symbols,
		limiter:  rate.NewLimiter(rate.Every(cfg.PollInterval), burst),
		interval: cfg.PollInterval,
		logger:   logger,
	}
}

// Run polls until the context is cancelled, delivering every result on
// the returned channel. The channel closes when polling stops.
func (p *Poller) Run(ctx context.Context) <-chan Update {
	updates := make(chan Update, 1)

	go func() {
		defer close(updates)

		for {
			if err := p.limiter.Wait(ctx); err != nil {
				return
			}

			update := p.fetch(ctx)

			select {
			case updates <- update:
			case <-ctx.Done():
				return
			}
		}
	}()

	return updates
}

// Fetch runs a single poll cycle, used for the manual refresh action.
func (p *Poller) Fetch(ctx context.Context) Update {
	return p.fetch(ctx)
}

func (p *Poller) fetch(ctx context.Context) Update {
	update := Update{At: time.Now()}

	quotes, err := p.client.Quotes(ctx, p.symbols)
	if err != nil {
		p.logger.Debug("quote poll failed", "error", err)
		update.Err = err
		return update
	}
	update.Quotes = quotes

	status, err := p.client.Status(ctx)
	if err != nil {
		p.logger.Debug("market status poll failed", "error", err)
		update.Err = err
		return update
	}
	update.Status = status

	return update
}

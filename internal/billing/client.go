// AngelaMos | 2026
// client.go

package billing

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/skadri1601/TradeSignal-sub000/internal/api"
)

type Subscription struct {
	Tier              string     `json:"tier"`
	Status            string     `json:"status"`
	CurrentPeriodEnd  *time.Time `json:"current_period_end"`
	CancelAtPeriodEnd bool       `json:"cancel_at_period_end"`
}

type CheckoutSession struct {
	URL string `json:"url"`
}

type UsageStats struct {
	APICallsUsed  int       `json:"api_calls_used"`
	APICallsLimit int       `json:"api_calls_limit"`
	PeriodEndsAt  time.Time `json:"period_ends_at"`
}

func (u *UsageStats) Remaining() int {
	remaining := u.APICallsLimit - u.APICallsUsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

type Client struct {
	api *api.Client
}

func NewClient(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

func (c *Client) Subscription(ctx context.Context) (*Subscription, error) {
	var sub Subscription
	err := c.api.Do(ctx, http.MethodGet, "/billing/subscription", nil, &sub)
	if err != nil {
		return nil, fmt.Errorf("fetch subscription: %w", err)
	}

	return &sub, nil
}

// CreateCheckout starts a checkout for the named tier and returns the
// hosted payment URL. The payment processor itself is the backend's
// concern.
func (c *Client) CreateCheckout(
	ctx context.Context,
	tierName string,
) (*CheckoutSession, error) {
	req := map[string]string{"tier": tierName}

	var session CheckoutSession
	err := c.api.Do(ctx, http.MethodPost, "/billing/checkout", req, &session)
	if err != nil {
		return nil, fmt.Errorf("create checkout: %w", err)
	}

	return &session, nil
}

func (c *Client) Usage(ctx context.Context) (*UsageStats, error) {
	var usage UsageStats
	if err := c.api.Do(ctx, http.MethodGet, "/billing/usage", nil, &usage); err != nil {
		return nil, fmt.Errorf("fetch usage: %w", err)
	}

	return &usage, nil
}

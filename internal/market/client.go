// AngelaMos | 2026
// client.go

package market

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/skadri1601/TradeSignal-sub000/internal/api"
)

type Quote struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	AsOf          time.Time `json:"as_of"`
}

type Status struct {
	IsOpen    bool       `json:"is_open"`
	Session   string     `json:"session"`
	NextOpen  *time.Time `json:"next_open"`
	NextClose *time.Time `json:"next_close"`
}

type Headline struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
}

type Client struct {
	api *api.Client
}

func NewClient(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

func (c *Client) Quotes(
	ctx context.Context,
	symbols []string,
) ([]Quote, error) {
	query := url.Values{}
	query.Set("symbols", strings.Join(symbols, ","))

	var quotes []Quote
	path := "/market/quotes?" + query.Encode()
	if err := c.api.Do(ctx, http.MethodGet, path, nil, &quotes); err != nil {
		return nil, fmt.Errorf("fetch quotes: %w", err)
	}

	return quotes, nil
}

func (c *Client) Status(ctx context.Context) (*Status, error) {
	var status Status
	if err := c.api.Do(ctx, http.MethodGet, "/market/status", nil, &status); err != nil {
		return nil, fmt.Errorf("fetch market status: %w", err)
	}

	return &status, nil
}

func (c *Client) News(ctx context.Context, limit int) ([]Headline, error) {
	path := fmt.Sprintf("/market/news?limit=%d", limit)

	var headlines []Headline
	if err := c.api.Do(ctx, http.MethodGet, path, nil, &headlines); err != nil {
		return nil, fmt.Errorf("fetch news: %w", err)
	}

	return headlines, nil
}

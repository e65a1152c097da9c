// AngelaMos | 2026
// client.go

package tickets

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/skadri1601/TradeSignal-sub000/internal/api"
)

type Ticket struct {
	ID        string    `json:"id"`
	Subject   string    `json:"subject"`
	Status    string    `json:"status"`
	Priority  string    `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Comment struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateTicketRequest struct {
	Subject string `json:"subject" validate:"required,min=3,max=200"`
	Body    string `json:"body"    validate:"required,min=10,max=5000"`
}

type Client struct {
	api *api.Client
}

func NewClient(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

func (c *Client) List(ctx context.Context) ([]Ticket, error) {
	var tickets []Ticket
	if err := c.api.Do(ctx, http.MethodGet, "/tickets", nil, &tickets); err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}

	return tickets, nil
}

func (c *Client) Create(
	ctx context.Context,
	req CreateTicketRequest,
) (*Ticket, error) {
	var ticket Ticket
	if err := c.api.Do(ctx, http.MethodPost, "/tickets", req, &ticket); err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}

	return &ticket, nil
}

func (c *Client) Comments(
	ctx context.Context,
	ticketID string,
) ([]Comment, error) {
	path := fmt.Sprintf("/tickets/%s/comments", ticketID)

	var comments []Comment
	if err := c.api.Do(ctx, http.MethodGet, path, nil, &comments); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	return comments, nil
}

func (c *Client) AddComment(
	ctx context.Context,
	ticketID, body string,
) (*Comment, error) {
	path := fmt.Sprintf("/tickets/%s/comments", ticketID)
	req := map[string]string{"body": body}

	var comment Comment
	if err := c.api.Do(ctx, http.MethodPost, path, req, &comment); err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}

	return &comment, nil
}

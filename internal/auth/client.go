// AngelaMos | 2026
// client.go

package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/skadri1601/TradeSignal-sub000/internal/api"
)

// Client wraps the auth endpoints of the remote collaborator. It holds
// no state; token handling belongs to the session manager.
type Client struct {
	api *api.Client
}

func NewClient(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

// Login exchanges credentials for a token pair. The collaborator
// exposes this as a form post with the email in the username field.
func (c *Client) Login(
	ctx context.Context,
	email, password string,
) (*TokenPair, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var tokens TokenPair
	if err := c.api.PostForm(ctx, "/auth/login", form, &tokens); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	return &tokens, nil
}

func (c *Client) Register(
	ctx context.Context,
	req RegisterRequest,
) (*User, error) {
	var user User
	err := c.api.Do(ctx, http.MethodPost, "/auth/register", req, &user)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	return &user, nil
}

func (c *Client) Refresh(
	ctx context.Context,
	refreshToken string,
) (*TokenPair, error) {
	req := RefreshRequest{RefreshToken: refreshToken}

	var tokens TokenPair
	err := c.api.Do(ctx, http.MethodPost, "/auth/refresh", req, &tokens)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}

	return &tokens, nil
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.api.Do(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}

	return &user, nil
}

func (c *Client) UpdateMe(
	ctx context.Context,
	req UpdateProfileRequest,
) (*User, error) {
	var user User
	err := c.api.Do(ctx, http.MethodPatch, "/auth/me", req, &user)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	return &user, nil
}

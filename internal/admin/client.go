// AngelaMos | 2026
// client.go

package admin

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/skadri1601/TradeSignal-sub000/internal/api"
	"github.com/skadri1601/TradeSignal-sub000/internal/auth"
)

// Client covers the admin console endpoints. The backend enforces the
// role check; the route guard keeps non-elevated users away from these
// views in the first place.
type Client struct {
	api *api.Client
}

func NewClient(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

type ListUsersParams struct {
	Page     int
	PageSize int
	Search   string
	Role     string
	Tier     string
}

func (p *ListUsersParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

type UserList struct {
	Users []auth.User `json:"users"`
	Total int         `json:"total"`
}

func (c *Client) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) (*UserList, error) {
	params.Normalize()

	query := url.Values{}
	query.Set("page", strconv.Itoa(params.Page))
	query.Set("page_size", strconv.Itoa(params.PageSize))
	if params.Search != "" {
		query.Set("search", params.Search)
	}
	if params.Role != "" {
		query.Set("role", params.Role)
	}
	if params.Tier != "" {
		query.Set("tier", params.Tier)
	}

	var list UserList
	path := "/admin/users?" + query.Encode()
	if err := c.api.Do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return &list, nil
}

func (c *Client) UpdateUserRole(
	ctx context.Context,
	userID, role string,
) (*auth.User, error) {
	path := fmt.Sprintf("/admin/users/%s/role", userID)
	req := map[string]string{"role": role}

	var user auth.User
	if err := c.api.Do(ctx, http.MethodPatch, path, req, &user); err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}

	return &user, nil
}

func (c *Client) UpdateUserTier(
	ctx context.Context,
	userID, tierName string,
) (*auth.User, error) {
	path := fmt.Sprintf("/admin/users/%s/tier", userID)
	req := map[string]string{"tier": tierName}

	var user auth.User
	if err := c.api.Do(ctx, http.MethodPatch, path, req, &user); err != nil {
		return nil, fmt.Errorf("update tier: %w", err)
	}

	return &user, nil
}

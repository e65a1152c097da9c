// AngelaMos | 2026
// health.go

package api

import (
	"context"
	"fmt"
	"net/http"
)

type HealthStatus struct {
	Status string `json:"status"`
}

// Health probes the backend's liveness endpoint without auth. Used by
// the status command and the degraded-mode resync to tell "backend
// down" apart from "credentials bad".
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var status HealthStatus
	if err := c.Do(ctx, http.MethodGet, "/healthz", nil, &status); err != nil {
		return nil, fmt.Errorf("health check: %w", err)
	}

	return &status, nil
}

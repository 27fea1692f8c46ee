package grafana

import (
	"context"
	"net/http"
)

// Health queries the server health endpoint.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, nil, &h); err != nil {
		return Health{}, err
	}
	return h, nil
}

package grafana

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
)

// SearchDashboards lists dashboards (type dash-db), returning at most limit entries.
func (c *Client) SearchDashboards(ctx context.Context, limit int) ([]DashboardSummary, error) {
	query := url.Values{}
	query.Set("type", "dash-db")
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var summaries []DashboardSummary
	if err := c.do(ctx, http.MethodGet, "/api/search", query, nil, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// GetDashboard fetches a full dashboard and its metadata by uid.
//
// A missing dashboard yields a [ClientError] for which [IsNotFound] is true.
func (c *Client) GetDashboard(ctx context.Context, uid string) (DashboardExport, error) {
	if uid == "" {
		return DashboardExport{}, errors.New("dashboard uid is required")
	}

	var export DashboardExport
	if err := c.do(ctx, http.MethodGet, "/api/dashboards/uid/"+url.PathEscape(uid), nil, nil, &export); err != nil {
		return DashboardExport{}, err
	}
	return export, nil
}

// SaveDashboard creates or updates a dashboard.
func (c *Client) SaveDashboard(ctx context.Context, req SaveRequest) (SaveResponse, error) {
	if req.Dashboard == nil {
		return SaveResponse{}, errors.New("dashboard is required")
	}

	var resp SaveResponse
	if err := c.do(ctx, http.MethodPost, "/api/dashboards/db", nil, req, &resp); err != nil {
		return SaveResponse{}, err
	}
	return resp, nil
}

// DeleteDashboard deletes a dashboard by uid.
func (c *Client) DeleteDashboard(ctx context.Context, uid string) error {
	if uid == "" {
		return errors.New("dashboard uid is required")
	}
	return c.do(ctx, http.MethodDelete, "/api/dashboards/uid/"+url.PathEscape(uid), nil, nil, nil)
}

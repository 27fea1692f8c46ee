package inventory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jpalmerr/grafana-import/grafana"
)

// Lister is the subset of the Grafana client the cache reads from.
type Lister interface {
	SearchDashboards(ctx context.Context, limit int) ([]grafana.DashboardSummary, error)
	Folders(ctx context.Context) ([]grafana.Folder, error)
}

// Cache holds lazily loaded dashboard and folder listings.
//
// Cache is safe for concurrent use. Returned slices are copies;
// modifications do not affect the cache.
type Cache struct {
	lister Lister
	limit  int

	mu               sync.Mutex
	dashboards       []grafana.DashboardSummary
	dashboardsLoaded bool
	folders          []grafana.Folder
	foldersLoaded    bool
}

// New creates a [Cache] reading from lister. limit is passed to the
// dashboard search; it bounds how many dashboards are visible.
func New(lister Lister, limit int) *Cache {
	return &Cache{lister: lister, limit: limit}
}

// Dashboards returns every dashboard summary, fetching them on first call.
//
// An empty result is cached like any other; only errors trigger a refetch
// on the next call.
func (c *Cache) Dashboards(ctx context.Context) ([]grafana.DashboardSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.dashboardsLoaded {
		dashboards, err := c.lister.SearchDashboards(ctx, c.limit)
		if err != nil {
			return nil, fmt.Errorf("failed to list dashboards: %w", err)
		}
		c.dashboards = dashboards
		c.dashboardsLoaded = true
	}
	return append([]grafana.DashboardSummary(nil), c.dashboards...), nil
}

// Folders returns every folder, fetching them on first call.
func (c *Cache) Folders(ctx context.Context) ([]grafana.Folder, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.loadFoldersLocked(ctx); err != nil {
		return nil, err
	}
	return append([]grafana.Folder(nil), c.folders...), nil
}

// AddFolder records a folder created during this session so later lookups
// resolve it without creating it again. The dashboard listing is untouched.
func (c *Cache) AddFolder(ctx context.Context, folder grafana.Folder) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.loadFoldersLocked(ctx); err != nil {
		return err
	}
	c.folders = append(c.folders, folder)
	return nil
}

// Reset drops both listings; the next read fetches again.
func (c *Cache) Reset() {
	c.mu.Lock()
	c.dashboards = nil
	c.dashboardsLoaded = false
	c.folders = nil
	c.foldersLoaded = false
	c.mu.Unlock()
}

func (c *Cache) loadFoldersLocked(ctx context.Context) error {
	if c.foldersLoaded {
		return nil
	}
	folders, err := c.lister.Folders(ctx)
	if err != nil {
		return fmt.Errorf("failed to list folders: %w", err)
	}
	c.folders = folders
	c.foldersLoaded = true
	return nil
}

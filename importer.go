package grafanaimport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jpalmerr/grafana-import/grafana"
	"github.com/jpalmerr/grafana-import/internal/inventory"
)

const defaultSearchLimit = 5000

// Client is the Grafana API surface an [Importer] needs.
// [*grafana.Client] implements it.
type Client interface {
	Health(ctx context.Context) (grafana.Health, error)
	SearchDashboards(ctx context.Context, limit int) ([]grafana.DashboardSummary, error)
	GetDashboard(ctx context.Context, uid string) (grafana.DashboardExport, error)
	SaveDashboard(ctx context.Context, req grafana.SaveRequest) (grafana.SaveResponse, error)
	DeleteDashboard(ctx context.Context, uid string) error
	Folders(ctx context.Context) ([]grafana.Folder, error)
	CreateFolder(ctx context.Context, title string) (grafana.Folder, error)
}

var _ Client = (*grafana.Client)(nil)

// Importer reconciles dashboards against one Grafana instance.
//
// Importer owns an inventory cache: the dashboard and folder listings are
// fetched at most once and then reused by every operation. Writes made
// through the Importer do not refresh the dashboard listing; call
// [Importer.ResetCache] to observe them.
//
// The typical lifecycle is:
//
//	client, _ := grafana.New(grafana.Config{URL: url, Token: token})
//	imp, err := grafanaimport.New(ctx, client,
//	    grafanaimport.WithFolder("Team"),
//	    grafanaimport.WithOverwrite(true),
//	)
//	if err != nil {
//	    return err // unreachable or unhealthy server
//	}
//	result, err := imp.Import(ctx, dash)
type Importer struct {
	client Client
	cache  *inventory.Cache
	folder string
	policy policy
	logger *slog.Logger
}

// New creates an [Importer] and checks the server is healthy.
//
// Returns an error if an option is invalid, if the health endpoint cannot be
// reached, or with [ErrUnhealthy] if the server's database is not "ok".
func New(ctx context.Context, client Client, opts ...Option) (*Importer, error) {
	if client == nil {
		return nil, errors.New("grafana client is required")
	}

	cfg := &importerConfig{
		folder:      RootFolderTitle,
		searchLimit: defaultSearchLimit,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	// default to slog.Default() if no logger provided
	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	health, err := client.Health(ctx)
	if err != nil {
		return nil, fmt.Errorf("grafana health check failed: %w", err)
	}
	if !health.OK() {
		return nil, fmt.Errorf("%w: database is %q", ErrUnhealthy, health.Database)
	}
	logger.Debug("grafana is healthy", "version", health.Version)

	return &Importer{
		client: client,
		cache:  inventory.New(client, cfg.searchLimit),
		folder: cfg.folder,
		policy: policy{
			overwrite: cfg.overwrite,
			allowNew:  cfg.allowNew,
			keepUID:   cfg.keepUID,
		},
		logger: logger,
	}, nil
}

// Folder returns the configured target folder title.
func (imp *Importer) Folder() string {
	return imp.folder
}

// ResetCache drops the cached dashboard and folder listings.
func (imp *Importer) ResetCache() {
	imp.cache.Reset()
}

// Import saves dash into the configured folder.
//
// The same-titled dashboard already on the server decides whether dash is
// created, updated, overwritten or copied; see [Action]. The target folder
// is created when missing. dash is modified in place.
//
// Returns an [*InputRejectedError] when the policy forbids the change, in
// which case nothing is saved.
func (imp *Importer) Import(ctx context.Context, dash grafana.Dashboard) (ImportResult, error) {
	title := dash.Title()
	if title == "" {
		return ImportResult{}, rejected("", imp.folder, ErrMissingTitle)
	}

	existing, err := imp.findDashboard(ctx, title)
	if err != nil {
		return ImportResult{}, err
	}

	folder, err := imp.ensureFolder(ctx, imp.folder)
	if err != nil {
		return ImportResult{}, err
	}

	req, action, err := reconcile(dash, folder.ID, existing, imp.policy)
	if err != nil {
		imp.logger.Warn("import rejected", "dashboard", title, "folder", folder.Title, "error", err.Error())
		return ImportResult{}, rejected(title, folder.Title, err)
	}

	resp, err := imp.client.SaveDashboard(ctx, req)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to save dashboard %q: %w", title, err)
	}

	result := ImportResult{
		Action:   action,
		Title:    title,
		Folder:   folder.Title,
		FolderID: folder.ID,
		UID:      resp.UID,
		Imported: resp.Succeeded(),
	}
	imp.logger.Info("dashboard imported",
		"dashboard", title,
		"folder", folder.Title,
		"action", action.String(),
		"uid", resp.UID,
		"imported", result.Imported,
	)
	return result, nil
}

// Export returns the full dashboard titled title, with its metadata.
//
// Returns a [*DashboardNotFoundError] when no dashboard has that title or
// when the server no longer knows the located uid.
func (imp *Importer) Export(ctx context.Context, title string) (grafana.DashboardExport, error) {
	summary, err := imp.findDashboard(ctx, title)
	if err != nil {
		return grafana.DashboardExport{}, err
	}
	if summary == nil {
		return grafana.DashboardExport{}, &DashboardNotFoundError{Dashboard: title, Folder: imp.folder}
	}

	export, err := imp.client.GetDashboard(ctx, summary.UID)
	if err != nil {
		if grafana.IsNotFound(err) {
			return grafana.DashboardExport{}, &DashboardNotFoundError{Dashboard: title, Folder: imp.folder}
		}
		return grafana.DashboardExport{}, fmt.Errorf("failed to fetch dashboard %q: %w", title, err)
	}

	imp.logger.Info("dashboard exported", "dashboard", title, "uid", summary.UID)
	return export, nil
}

// Remove deletes the dashboard titled title from the configured folder.
//
// A non-root folder must exist ([*FolderNotFoundError] otherwise). The
// located dashboard must belong to that folder: a title match elsewhere is
// refused with [ErrFoundInAnotherFolder] rather than deleted.
func (imp *Importer) Remove(ctx context.Context, title string) error {
	folder, ok, err := imp.resolveFolder(ctx, imp.folder)
	if err != nil {
		return err
	}
	if !ok {
		return &FolderNotFoundError{Folder: imp.folder}
	}

	summary, err := imp.findDashboard(ctx, title)
	if err != nil {
		return err
	}
	if summary == nil {
		return &DashboardNotFoundError{Dashboard: title, Folder: folder.Title}
	}

	if err := checkRemoval(*summary, folder); err != nil {
		return rejected(title, summary.FolderTitle, err)
	}

	if err := imp.client.DeleteDashboard(ctx, summary.UID); err != nil {
		if grafana.IsNotFound(err) {
			return &DashboardNotFoundError{Dashboard: title, Folder: folder.Title}
		}
		return fmt.Errorf("failed to delete dashboard %q: %w", title, err)
	}

	imp.logger.Info("dashboard removed", "dashboard", title, "folder", folder.Title, "uid", summary.UID)
	return nil
}

// checkRemoval verifies a located dashboard belongs to the target folder.
func checkRemoval(s grafana.DashboardSummary, folder grafana.Folder) error {
	switch {
	case folder.ID == 0 && s.HasFolder():
		return ErrFoundInAnotherFolder
	case folder.ID != 0 && !s.HasFolder():
		return ErrFoundInAnotherFolder
	case folder.ID != 0 && s.FolderID != folder.ID:
		return ErrFoundInAnotherFolder
	case s.UID == "":
		return ErrMissingUID
	}
	return nil
}

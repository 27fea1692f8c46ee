package grafanaimport

import (
	"context"

	"github.com/jpalmerr/grafana-import/grafana"
)

// match ranks how well a summary matches a lookup.
type match int

const (
	noMatch     match = iota
	titleMatch        // same title, folder differs
	folderMatch       // same title, same folder
)

// classify compares one summary against a title and a resolved folder.
//
// A summary is in the folder when its folder title equals the folder's
// title, or when it carries no folder title and the folder is the root.
func classify(s grafana.DashboardSummary, title string, folder grafana.Folder) match {
	if s.Title != title {
		return noMatch
	}
	if s.FolderTitle != "" && s.FolderTitle == folder.Title {
		return folderMatch
	}
	if s.FolderTitle == "" && folder.ID == 0 {
		return folderMatch
	}
	return titleMatch
}

// supersedes reports whether a candidate of rank next replaces the current
// best of rank cur. Only a strictly better rank wins, so among title-only
// candidates the first one seen is kept.
func supersedes(cur, next match) bool {
	return next > cur
}

// locate scans summaries once and returns the dashboard titled title,
// preferring one in folder. It stops at the first folder match. If no
// summary is in the folder, the first title-only match is returned; nil
// means no summary has that title.
func locate(summaries []grafana.DashboardSummary, title string, folder grafana.Folder) *grafana.DashboardSummary {
	var (
		best     *grafana.DashboardSummary
		bestRank = noMatch
	)
	for i := range summaries {
		rank := classify(summaries[i], title, folder)
		if !supersedes(bestRank, rank) {
			continue
		}
		best, bestRank = &summaries[i], rank
		if rank == folderMatch {
			break
		}
	}
	if best == nil {
		return nil
	}
	found := *best
	return &found
}

// findDashboard resolves the configured folder and locates title in the
// cached dashboard listing.
//
// An unknown non-root folder does not fail the lookup; matching then falls
// back to the root folder rules.
func (imp *Importer) findDashboard(ctx context.Context, title string) (*grafana.DashboardSummary, error) {
	folder, ok, err := imp.resolveFolder(ctx, imp.folder)
	if err != nil {
		return nil, err
	}
	if !ok {
		folder = rootFolder
	}

	summaries, err := imp.cache.Dashboards(ctx)
	if err != nil {
		return nil, err
	}
	return locate(summaries, title, folder), nil
}

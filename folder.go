package grafanaimport

import (
	"context"
	"fmt"
	"strings"

	"github.com/jpalmerr/grafana-import/grafana"
)

// RootFolderTitle is the display name of Grafana's root folder.
const RootFolderTitle = "General"

// rootFolder is the synthetic root; the server never lists it.
var rootFolder = grafana.Folder{ID: 0, Title: RootFolderTitle}

// IsRootFolder reports whether title names the root folder. The comparison
// ignores case; an empty title is the root too.
func IsRootFolder(title string) bool {
	title = strings.TrimSpace(title)
	return title == "" || strings.EqualFold(title, RootFolderTitle)
}

// resolveFolder maps a folder title to a folder record.
//
// The root folder resolves without consulting the server. Other titles are
// matched exactly against the cached folder list; ok is false when none
// matches.
func (imp *Importer) resolveFolder(ctx context.Context, title string) (folder grafana.Folder, ok bool, err error) {
	if IsRootFolder(title) {
		return rootFolder, true, nil
	}

	folders, err := imp.cache.Folders(ctx)
	if err != nil {
		return grafana.Folder{}, false, err
	}
	for _, f := range folders {
		if f.Title == title {
			return f, true, nil
		}
	}
	return grafana.Folder{}, false, nil
}

// ensureFolder resolves title, creating the folder when it does not exist.
func (imp *Importer) ensureFolder(ctx context.Context, title string) (grafana.Folder, error) {
	folder, ok, err := imp.resolveFolder(ctx, title)
	if err != nil || ok {
		return folder, err
	}

	created, err := imp.client.CreateFolder(ctx, title)
	if err != nil {
		return grafana.Folder{}, fmt.Errorf("grafana folder %q creation failed: %w", title, err)
	}
	if err := imp.cache.AddFolder(ctx, created); err != nil {
		return grafana.Folder{}, err
	}
	imp.logger.Info("folder created", "folder", created.Title, "folder_id", created.ID)
	return created, nil
}

package grafanaimport

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jpalmerr/grafana-import/grafana"
)

// fakeClient is an in-memory [Client] that counts calls.
type fakeClient struct {
	mu sync.Mutex

	health     grafana.Health
	healthErr  error
	summaries  []grafana.DashboardSummary
	exports    map[string]grafana.DashboardExport
	folders    []grafana.Folder
	saveStatus interface{}
	saveErr    error
	createErr  error

	searchCalls int
	folderCalls int
	createCalls int
	saved       []grafana.SaveRequest
	deleted     []string
	nextID      int64
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		health:     grafana.Health{Database: "ok"},
		exports:    make(map[string]grafana.DashboardExport),
		saveStatus: "success",
		nextID:     1000,
	}
}

func (f *fakeClient) withDashboard(id int64, uid, title string, folder *grafana.Folder) *fakeClient {
	s := grafana.DashboardSummary{ID: id, UID: uid, Title: title}
	meta := grafana.DashboardMeta{}
	if folder != nil {
		s.FolderID, s.FolderUID, s.FolderTitle = folder.ID, folder.UID, folder.Title
		meta.FolderID, meta.FolderTitle = folder.ID, folder.Title
	}
	f.summaries = append(f.summaries, s)
	f.exports[uid] = grafana.DashboardExport{
		Dashboard: grafana.Dashboard{"id": id, "uid": uid, "title": title},
		Meta:      meta,
	}
	return f
}

func (f *fakeClient) withFolder(folder grafana.Folder) *fakeClient {
	f.folders = append(f.folders, folder)
	return f
}

func (f *fakeClient) Health(context.Context) (grafana.Health, error) {
	return f.health, f.healthErr
}

func (f *fakeClient) SearchDashboards(context.Context, int) ([]grafana.DashboardSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls++
	return append([]grafana.DashboardSummary(nil), f.summaries...), nil
}

func (f *fakeClient) GetDashboard(_ context.Context, uid string) (grafana.DashboardExport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	export, ok := f.exports[uid]
	if !ok {
		return grafana.DashboardExport{}, &grafana.ClientError{StatusCode: 404, Message: "Dashboard not found"}
	}
	return export, nil
}

func (f *fakeClient) SaveDashboard(_ context.Context, req grafana.SaveRequest) (grafana.SaveResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return grafana.SaveResponse{}, f.saveErr
	}
	f.saved = append(f.saved, req)
	uid := req.Dashboard.UID()
	if uid == "" {
		uid = "generated"
	}
	return grafana.SaveResponse{UID: uid, Status: f.saveStatus}, nil
}

func (f *fakeClient) DeleteDashboard(_ context.Context, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.exports[uid]; !ok {
		return &grafana.ClientError{StatusCode: 404}
	}
	delete(f.exports, uid)
	f.deleted = append(f.deleted, uid)
	return nil
}

func (f *fakeClient) Folders(context.Context) ([]grafana.Folder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.folderCalls++
	return append([]grafana.Folder(nil), f.folders...), nil
}

func (f *fakeClient) CreateFolder(_ context.Context, title string) (grafana.Folder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return grafana.Folder{}, f.createErr
	}
	for _, existing := range f.folders {
		if existing.Title == title {
			return grafana.Folder{}, errors.New("folder already exists")
		}
	}
	f.nextID++
	folder := grafana.Folder{ID: f.nextID, UID: fmt.Sprintf("f%d", f.nextID), Title: title}
	f.folders = append(f.folders, folder)
	return folder, nil
}

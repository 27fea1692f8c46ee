package grafana_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jpalmerr/grafana-import/grafana"
	"github.com/jpalmerr/grafana-import/internal/grafanatest"
)

func newClient(t *testing.T, url string) *grafana.Client {
	t.Helper()
	client, err := grafana.New(grafana.Config{URL: url, Token: grafanatest.Token})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(client.Close)
	return client
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     grafana.Config
		wantErr string
	}{
		{"missing url", grafana.Config{Token: "t"}, "url is required"},
		{"bad scheme", grafana.Config{URL: "ftp://grafana", Token: "t"}, "scheme must be http or https"},
		{"no host", grafana.Config{URL: "http://", Token: "t"}, "has no host"},
		{"no credentials", grafana.Config{URL: "http://grafana:3000"}, "API token is required"},
		{"user without password", grafana.Config{URL: "http://admin@grafana:3000"}, "password is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := grafana.New(tt.cfg)
			if err == nil {
				t.Fatalf("New() error = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("New() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestClient_BasicAuthFromURL(t *testing.T) {
	var gotUser, gotPass string
	var gotOK bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, gotOK = r.BasicAuth()
		_, _ = w.Write([]byte(`{"database":"ok"}`))
	}))
	defer server.Close()

	url := strings.Replace(server.URL, "http://", "http://admin:secret@", 1)
	client, err := grafana.New(grafana.Config{URL: url})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if strings.Contains(client.URL(), "secret") {
		t.Errorf("URL() = %q, must not carry credentials", client.URL())
	}

	if _, err := client.Health(context.Background()); err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if !gotOK || gotUser != "admin" || gotPass != "secret" {
		t.Errorf("basic auth = (%q, %q, %v), want (admin, secret, true)", gotUser, gotPass, gotOK)
	}
}

func TestClient_Health(t *testing.T) {
	server := grafanatest.NewServer(grafanatest.WithRequiredToken())
	defer server.Close()

	h, err := newClient(t, server.URL).Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if !h.OK() {
		t.Errorf("Health().OK() = false, database = %q", h.Database)
	}
}

func TestClient_SearchDashboards(t *testing.T) {
	folder := grafana.Folder{ID: 7, UID: "f7", Title: "Ops"}
	server := grafanatest.NewServer(
		grafanatest.WithFolders(folder),
		grafanatest.WithDashboard(grafanatest.Dashboard(1, "a", "Alpha", nil)),
		grafanatest.WithDashboard(grafanatest.Dashboard(2, "b", "Beta", &folder)),
	)
	defer server.Close()

	got, err := newClient(t, server.URL).SearchDashboards(context.Background(), 5000)
	if err != nil {
		t.Fatalf("SearchDashboards() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("SearchDashboards() returned %d summaries, want 2", len(got))
	}
	if got[0].HasFolder() {
		t.Errorf("root dashboard HasFolder() = true")
	}
	if got[1].FolderID != 7 || got[1].FolderTitle != "Ops" {
		t.Errorf("summary folder = (%d, %q), want (7, Ops)", got[1].FolderID, got[1].FolderTitle)
	}

	limited, err := newClient(t, server.URL).SearchDashboards(context.Background(), 1)
	if err != nil {
		t.Fatalf("SearchDashboards() error = %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("SearchDashboards(limit 1) returned %d summaries", len(limited))
	}
}

func TestClient_GetDashboard_NotFound(t *testing.T) {
	server := grafanatest.NewServer()
	defer server.Close()

	_, err := newClient(t, server.URL).GetDashboard(context.Background(), "missing")
	if !grafana.IsNotFound(err) {
		t.Fatalf("GetDashboard() error = %v, want not found", err)
	}

	var ce *grafana.ClientError
	if !errors.As(err, &ce) {
		t.Fatalf("error is %T, want *ClientError", err)
	}
	if ce.Message != "Dashboard not found" {
		t.Errorf("ClientError.Message = %q", ce.Message)
	}
}

func TestClient_GetDashboard_PreservesNumbers(t *testing.T) {
	server := grafanatest.NewServer(
		grafanatest.WithDashboard(grafanatest.Dashboard(9007199254740993, "big", "Big", nil)),
	)
	defer server.Close()

	export, err := newClient(t, server.URL).GetDashboard(context.Background(), "big")
	if err != nil {
		t.Fatalf("GetDashboard() error = %v", err)
	}
	id, ok := export.Dashboard.ID()
	if !ok || id != 9007199254740993 {
		t.Errorf("ID() = (%d, %v), want (9007199254740993, true)", id, ok)
	}
}

func TestClient_SaveDashboard(t *testing.T) {
	server := grafanatest.NewServer()
	defer server.Close()

	dash := grafana.Dashboard{"title": "New", "uid": nil, "id": nil}
	resp, err := newClient(t, server.URL).SaveDashboard(context.Background(), grafana.SaveRequest{
		Dashboard: dash,
		FolderID:  3,
		Message:   "test",
	})
	if err != nil {
		t.Fatalf("SaveDashboard() error = %v", err)
	}
	if !resp.Succeeded() {
		t.Errorf("Succeeded() = false, status = %v", resp.Status)
	}

	saved := server.Saved()
	if len(saved) != 1 {
		t.Fatalf("server received %d saves, want 1", len(saved))
	}
	if saved[0].FolderID != 3 || saved[0].Overwrite || saved[0].Message != "test" {
		t.Errorf("saved request = %+v", saved[0])
	}
}

func TestClient_DeleteDashboard(t *testing.T) {
	server := grafanatest.NewServer(
		grafanatest.WithDashboard(grafanatest.Dashboard(1, "a", "Alpha", nil)),
	)
	defer server.Close()

	client := newClient(t, server.URL)
	if err := client.DeleteDashboard(context.Background(), "a"); err != nil {
		t.Fatalf("DeleteDashboard() error = %v", err)
	}
	if err := client.DeleteDashboard(context.Background(), "a"); !grafana.IsNotFound(err) {
		t.Errorf("second DeleteDashboard() error = %v, want not found", err)
	}
	if err := client.DeleteDashboard(context.Background(), ""); err == nil {
		t.Errorf("DeleteDashboard(\"\") error = nil")
	}
}

func TestClient_Folders(t *testing.T) {
	server := grafanatest.NewServer(grafanatest.WithFolders(grafana.Folder{ID: 4, UID: "f4", Title: "Team"}))
	defer server.Close()

	client := newClient(t, server.URL)
	created, err := client.CreateFolder(context.Background(), "Infra")
	if err != nil {
		t.Fatalf("CreateFolder() error = %v", err)
	}
	if created.ID == 0 || created.Title != "Infra" {
		t.Errorf("CreateFolder() = %+v", created)
	}

	folders, err := client.Folders(context.Background())
	if err != nil {
		t.Fatalf("Folders() error = %v", err)
	}
	if len(folders) != 2 {
		t.Errorf("Folders() returned %d folders, want 2", len(folders))
	}

	if _, err := client.CreateFolder(context.Background(), "Infra"); err == nil {
		t.Errorf("CreateFolder() duplicate error = nil")
	}
}

func TestClient_ErrorStatus(t *testing.T) {
	server := grafanatest.NewServer(grafanatest.WithFailure(grafanatest.RouteFolders, http.StatusInternalServerError))
	defer server.Close()

	_, err := newClient(t, server.URL).Folders(context.Background())
	var ce *grafana.ClientError
	if !errors.As(err, &ce) {
		t.Fatalf("Folders() error = %v, want *ClientError", err)
	}
	if ce.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", ce.StatusCode)
	}
	if grafana.IsNotFound(err) {
		t.Errorf("IsNotFound() = true for 500")
	}
}

func TestClient_Unauthorized(t *testing.T) {
	server := grafanatest.NewServer(grafanatest.WithRequiredToken())
	defer server.Close()

	client, err := grafana.New(grafana.Config{URL: server.URL, Token: "wrong"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	_, err = client.Health(context.Background())
	var ce *grafana.ClientError
	if !errors.As(err, &ce) || ce.StatusCode != http.StatusUnauthorized {
		t.Errorf("Health() error = %v, want 401 ClientError", err)
	}
}

func TestClient_Close(t *testing.T) {
	client, err := grafana.New(grafana.Config{URL: "http://localhost:3000", Token: "t"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	client.Close()
	client.Close()

	var nilClient *grafana.Client
	nilClient.Close()
}

// Package grafanatest provides an in-process fake of the Grafana HTTP API.
//
// The fake keeps dashboards and folders in memory, counts calls per route
// and records every save and delete so tests can assert on the exact
// requests a reconciliation produced.
package grafanatest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/jpalmerr/grafana-import/grafana"
)

// Route names used as keys for [Server.Calls].
const (
	RouteHealth          = "health"
	RouteSearch          = "search"
	RouteGetDashboard    = "get_dashboard"
	RouteSaveDashboard   = "save_dashboard"
	RouteDeleteDashboard = "delete_dashboard"
	RouteFolders         = "folders"
	RouteCreateFolder    = "create_folder"
)

// Token is the bearer token the fake accepts when RequireToken is set.
const Token = "grafanatest-token"

// Server is a fake Grafana backed by [httptest.Server].
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	database   string
	summaries  []grafana.DashboardSummary
	dashboards map[string]grafana.DashboardExport
	folders    []grafana.Folder
	nextID     int64
	calls      map[string]int
	saved      []grafana.SaveRequest
	deleted    []string
	saveStatus interface{}
	failures   map[string]int
	requireTok bool
}

// Option configures a [Server].
type Option func(*Server)

// WithDatabase sets the database field reported by /api/health.
func WithDatabase(state string) Option {
	return func(s *Server) { s.database = state }
}

// WithFolders seeds the folder list.
func WithFolders(folders ...grafana.Folder) Option {
	return func(s *Server) { s.folders = append(s.folders, folders...) }
}

// WithDashboard seeds a dashboard. The summary is derived from the export.
func WithDashboard(export grafana.DashboardExport) Option {
	return func(s *Server) {
		id, _ := export.Dashboard.ID()
		s.summaries = append(s.summaries, grafana.DashboardSummary{
			ID:          id,
			UID:         export.Dashboard.UID(),
			Title:       export.Dashboard.Title(),
			Type:        "dash-db",
			FolderID:    export.Meta.FolderID,
			FolderUID:   export.Meta.FolderUID,
			FolderTitle: export.Meta.FolderTitle,
		})
		s.dashboards[export.Dashboard.UID()] = export
	}
}

// WithSaveStatus overrides the status field returned by dashboard saves.
func WithSaveStatus(status interface{}) Option {
	return func(s *Server) { s.saveStatus = status }
}

// WithFailure makes route answer with the given HTTP status.
func WithFailure(route string, status int) Option {
	return func(s *Server) { s.failures[route] = status }
}

// WithRequiredToken rejects requests that do not carry [Token].
func WithRequiredToken() Option {
	return func(s *Server) { s.requireTok = true }
}

// NewServer starts a fake Grafana. Callers must Close it.
func NewServer(opts ...Option) *Server {
	s := &Server{
		database:   "ok",
		dashboards: make(map[string]grafana.DashboardExport),
		nextID:     100,
		calls:      make(map[string]int),
		saveStatus: "success",
		failures:   make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handle(RouteHealth, s.health))
	mux.HandleFunc("GET /api/search", s.handle(RouteSearch, s.search))
	mux.HandleFunc("GET /api/dashboards/uid/{uid}", s.handle(RouteGetDashboard, s.getDashboard))
	mux.HandleFunc("DELETE /api/dashboards/uid/{uid}", s.handle(RouteDeleteDashboard, s.deleteDashboard))
	mux.HandleFunc("POST /api/dashboards/db", s.handle(RouteSaveDashboard, s.saveDashboard))
	mux.HandleFunc("GET /api/folders", s.handle(RouteFolders, s.listFolders))
	mux.HandleFunc("POST /api/folders", s.handle(RouteCreateFolder, s.createFolder))

	s.Server = httptest.NewServer(mux)
	return s
}

// handle counts the call, applies auth and injected failures, then
// runs fn under the server lock.
func (s *Server) handle(route string, fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.calls[route]++

		if s.requireTok && r.Header.Get("Authorization") != "Bearer "+Token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
			return
		}
		if status, ok := s.failures[route]; ok {
			writeJSON(w, status, map[string]string{"message": http.StatusText(status)})
			return
		}
		fn(w, r)
	}
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, grafana.Health{Database: s.database, Version: "10.4.0"})
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	results := s.summaries
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit >= 0 && limit < len(results) {
		results = results[:limit]
	}
	if results == nil {
		results = []grafana.DashboardSummary{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) getDashboard(w http.ResponseWriter, r *http.Request) {
	export, ok := s.dashboards[r.PathValue("uid")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Dashboard not found"})
		return
	}
	writeJSON(w, http.StatusOK, export)
}

func (s *Server) deleteDashboard(w http.ResponseWriter, r *http.Request) {
	uid := r.PathValue("uid")
	export, ok := s.dashboards[uid]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Dashboard not found"})
		return
	}
	delete(s.dashboards, uid)
	for i, summary := range s.summaries {
		if summary.UID == uid {
			s.summaries = append(s.summaries[:i], s.summaries[i+1:]...)
			break
		}
	}
	s.deleted = append(s.deleted, uid)
	writeJSON(w, http.StatusOK, map[string]string{
		"title":   export.Dashboard.Title(),
		"message": fmt.Sprintf("Dashboard %s deleted", export.Dashboard.Title()),
	})
}

func (s *Server) saveDashboard(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var req grafana.SaveRequest
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}
	s.saved = append(s.saved, req)

	uid := req.Dashboard.UID()
	if uid == "" {
		uid = fmt.Sprintf("gen-%d", s.nextID)
	}
	id, ok := req.Dashboard.ID()
	if !ok {
		s.nextID++
		id = s.nextID
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":      id,
		"uid":     uid,
		"url":     "/d/" + uid,
		"version": 1,
		"status":  s.saveStatus,
	})
}

func (s *Server) listFolders(w http.ResponseWriter, _ *http.Request) {
	folders := s.folders
	if folders == nil {
		folders = []grafana.Folder{}
	}
	writeJSON(w, http.StatusOK, folders)
}

func (s *Server) createFolder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "title is required"})
		return
	}
	for _, f := range s.folders {
		if f.Title == body.Title {
			writeJSON(w, http.StatusConflict, map[string]string{"message": "a folder with the same name already exists"})
			return
		}
	}
	s.nextID++
	folder := grafana.Folder{
		ID:    s.nextID,
		UID:   fmt.Sprintf("folder-%d", s.nextID),
		Title: body.Title,
	}
	s.folders = append(s.folders, folder)
	writeJSON(w, http.StatusOK, folder)
}

// Calls returns how many times route was hit.
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// Saved returns a copy of every save request received, in order.
func (s *Server) Saved() []grafana.SaveRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]grafana.SaveRequest(nil), s.saved...)
}

// Deleted returns the uids deleted so far, in order.
func (s *Server) Deleted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deleted...)
}

// Folders returns the current folder list.
func (s *Server) Folders() []grafana.Folder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]grafana.Folder(nil), s.folders...)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Dashboard builds a seedable export. A nil folder places it in the root folder.
func Dashboard(id int64, uid, title string, folder *grafana.Folder) grafana.DashboardExport {
	export := grafana.DashboardExport{
		Dashboard: grafana.Dashboard{
			"id":            id,
			"uid":           uid,
			"title":         title,
			"schemaVersion": 39,
			"panels":        []interface{}{},
		},
		Meta: grafana.DashboardMeta{Type: "db", Slug: uid},
	}
	if folder != nil {
		export.Meta.FolderID = folder.ID
		export.Meta.FolderUID = folder.UID
		export.Meta.FolderTitle = folder.Title
	}
	return export
}

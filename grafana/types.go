package grafana

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Dashboard is a dashboard model as exchanged with the Grafana API.
//
// The document is open: only title, uid, id and version are interpreted,
// every other field is carried through untouched. Numbers decoded through
// [DecodeDashboard] are kept as [json.Number] so large ids survive a
// round trip.
type Dashboard map[string]interface{}

// DecodeDashboard parses a JSON object into a [Dashboard].
func DecodeDashboard(data []byte) (Dashboard, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var d Dashboard
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("failed to decode dashboard: %w", err)
	}
	if d == nil {
		return nil, fmt.Errorf("failed to decode dashboard: document is not a JSON object")
	}
	return d, nil
}

// Title returns the dashboard title, or "" when absent.
func (d Dashboard) Title() string {
	s, _ := d["title"].(string)
	return s
}

// UID returns the dashboard uid, or "" when absent or null.
func (d Dashboard) UID() string {
	s, _ := d["uid"].(string)
	return s
}

// ID returns the numeric dashboard id. The second value is false when
// the id is absent, null or not a number.
func (d Dashboard) ID() (int64, bool) {
	return toInt64(d["id"])
}

// SetUID sets the uid field.
func (d Dashboard) SetUID(uid string) {
	d["uid"] = uid
}

// SetID sets the id field.
func (d Dashboard) SetID(id int64) {
	d["id"] = id
}

// ClearUID sets the uid field to null.
func (d Dashboard) ClearUID() {
	d["uid"] = nil
}

// ClearID sets the id field to null.
func (d Dashboard) ClearID() {
	d["id"] = nil
}

// ClearIdentity sets both uid and id to null, letting the server assign new ones.
func (d Dashboard) ClearIdentity() {
	d.ClearUID()
	d.ClearID()
}

// SetVersion sets the version field.
func (d Dashboard) SetVersion(v int) {
	d["version"] = v
}

func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return i, true
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

// DashboardSummary is one entry of a dashboard search result.
//
// Dashboards in the root folder carry no folder fields; FolderID is then 0
// and FolderTitle is empty.
type DashboardSummary struct {
	ID          int64    `json:"id,omitempty"`
	UID         string   `json:"uid"`
	Title       string   `json:"title"`
	URI         string   `json:"uri,omitempty"`
	URL         string   `json:"url,omitempty"`
	Type        string   `json:"type,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	FolderID    int64    `json:"folderId,omitempty"`
	FolderUID   string   `json:"folderUid,omitempty"`
	FolderTitle string   `json:"folderTitle,omitempty"`
}

// HasFolder reports whether the summary links the dashboard to a non-root folder.
func (s DashboardSummary) HasFolder() bool {
	return s.FolderID != 0
}

// Folder is a Grafana dashboard folder. The root folder has ID 0 and is
// never returned by the folders endpoint.
type Folder struct {
	ID    int64  `json:"id"`
	UID   string `json:"uid,omitempty"`
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
}

// DashboardMeta is the metadata block returned alongside a full dashboard.
type DashboardMeta struct {
	Type        string `json:"type,omitempty"`
	Slug        string `json:"slug,omitempty"`
	URL         string `json:"url,omitempty"`
	Version     int    `json:"version,omitempty"`
	FolderID    int64  `json:"folderId,omitempty"`
	FolderUID   string `json:"folderUid,omitempty"`
	FolderTitle string `json:"folderTitle,omitempty"`
	FolderURL   string `json:"folderUrl,omitempty"`
	Created     string `json:"created,omitempty"`
	Updated     string `json:"updated,omitempty"`
}

// DashboardExport is a full dashboard as returned by GET /api/dashboards/uid/{uid}.
type DashboardExport struct {
	Dashboard Dashboard     `json:"dashboard"`
	Meta      DashboardMeta `json:"meta"`
}

// SaveRequest is the body of POST /api/dashboards/db.
type SaveRequest struct {
	Dashboard Dashboard `json:"dashboard"`
	Overwrite bool      `json:"overwrite"`
	FolderID  int64     `json:"folderId"`
	Message   string    `json:"message,omitempty"`
}

// SaveResponse is the server reply to a dashboard save.
type SaveResponse struct {
	ID      int64       `json:"id,omitempty"`
	UID     string      `json:"uid,omitempty"`
	URL     string      `json:"url,omitempty"`
	Slug    string      `json:"slug,omitempty"`
	Version int         `json:"version,omitempty"`
	Status  interface{} `json:"status"`
}

// Succeeded normalises the loosely typed status field into a boolean.
//
// Grafana answers "success", older proxies answer true; an empty string,
// false, zero or a missing field count as failure.
func (r SaveResponse) Succeeded() bool {
	switch v := r.Status.(type) {
	case bool:
		return v
	case string:
		return v != ""
	case json.Number:
		f, err := v.Float64()
		return err == nil && f != 0
	case float64:
		return v != 0
	default:
		return false
	}
}

// Health is the reply of GET /api/health.
type Health struct {
	Database string `json:"database"`
	Version  string `json:"version,omitempty"`
	Commit   string `json:"commit,omitempty"`
}

// OK reports whether the server's database is reachable.
func (h Health) OK() bool {
	return h.Database == "ok"
}

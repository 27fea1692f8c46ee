package main

import (
	"github.com/jpalmerr/grafana-import/grafana"
	"github.com/jpalmerr/grafana-import/internal/grafanatest"
)

// demoFolder is seeded so imports have a non-root folder to land in.
var demoFolder = grafana.Folder{ID: 7, UID: "demo", Title: "Demo"}

// StartMockGrafana runs an in-memory Grafana seeded with one folder and two
// dashboards: "Service Overview" in the root folder and "Latency" in Demo.
// The caller must Close the returned server.
func StartMockGrafana() *grafanatest.Server {
	return grafanatest.NewServer(
		grafanatest.WithFolders(demoFolder),
		grafanatest.WithDashboard(grafanatest.Dashboard(1, "svc-overview", "Service Overview", nil)),
		grafanatest.WithDashboard(grafanatest.Dashboard(2, "latency", "Latency", &demoFolder)),
	)
}

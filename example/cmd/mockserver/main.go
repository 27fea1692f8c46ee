// Standalone mock Grafana for trying the CLI.
//
// Usage:
//
//	go run ./example/cmd/mockserver
//
// Then in another terminal, using the URL it prints:
//
//	GRAFANA_URL=http://127.0.0.1:PORT GRAFANA_TOKEN=grafanatest-token \
//	    go run ./cmd/grafana-import export -d "Latency" -f Demo
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/jpalmerr/grafana-import/grafana"
	"github.com/jpalmerr/grafana-import/internal/grafanatest"
)

func main() {
	demo := grafana.Folder{ID: 7, UID: "demo", Title: "Demo"}
	server := grafanatest.NewServer(
		grafanatest.WithRequiredToken(),
		grafanatest.WithFolders(demo),
		grafanatest.WithDashboard(grafanatest.Dashboard(1, "svc-overview", "Service Overview", nil)),
		grafanatest.WithDashboard(grafanatest.Dashboard(2, "latency", "Latency", &demo)),
	)
	defer server.Close()

	fmt.Printf("Mock Grafana listening on %s\n", server.URL)
	fmt.Printf("Token: %s\n", grafanatest.Token)
	fmt.Println("Dashboards: \"Service Overview\" (General), \"Latency\" (Demo)")
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	slog.Info("mock grafana stopped",
		"saves", server.Calls(grafanatest.RouteSaveDashboard),
		"deletes", server.Calls(grafanatest.RouteDeleteDashboard),
	)
}

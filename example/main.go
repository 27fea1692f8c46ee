package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	grafanaimport "github.com/jpalmerr/grafana-import"
	"github.com/jpalmerr/grafana-import/grafana"
)

func main() {
	// start mock Grafana (see mock_server.go)
	server := StartMockGrafana()
	defer server.Close()

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	client, err := grafana.New(grafana.Config{URL: server.URL, Token: "demo"})
	if err != nil {
		slog.Error("failed to create grafana client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	// the importer checks /api/health before anything else
	imp, err := grafanaimport.New(ctx, client,
		grafanaimport.WithFolder(demoFolder.Title),
		grafanaimport.WithOverwrite(true),
		grafanaimport.WithLogger(logger),
	)
	if err != nil {
		slog.Error("failed to create importer", "error", err)
		os.Exit(1)
	}

	// "Latency" already lives in Demo under another uid: overwrite adopts it
	result, err := imp.Import(ctx, grafana.Dashboard{
		"title":  "Latency",
		"uid":    "latency-v2",
		"panels": []interface{}{},
	})
	if err != nil {
		slog.Error("import failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("imported %q into %q: %s (uid %s)\n", result.Title, result.Folder, result.Action, result.UID)

	// "Service Overview" is in the root folder; copying it into Demo needs allow-new
	_, err = imp.Import(ctx, grafana.Dashboard{"title": "Service Overview"})
	var rejected *grafanaimport.InputRejectedError
	if errors.As(err, &rejected) {
		fmt.Printf("not imported: %v\n", rejected.Err)
	}

	export, err := imp.Export(ctx, "Latency")
	if err != nil {
		slog.Error("export failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("exported %q from folder %q\n", export.Dashboard.Title(), export.Meta.FolderTitle)

	if err := imp.Remove(ctx, "Latency"); err != nil {
		slog.Error("remove failed", "error", err)
		os.Exit(1)
	}
	fmt.Println("removed \"Latency\"")
}

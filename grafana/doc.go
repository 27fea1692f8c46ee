// Package grafana is a small client for the Grafana HTTP API.
//
// It covers the calls needed to reconcile dashboards: health, dashboard
// search, fetch, save and delete, and folder listing and creation.
// Non-2xx replies surface as [*ClientError] carrying the status code.
//
//	client, err := grafana.New(grafana.Config{
//	    URL:   "http://localhost:3000",
//	    Token: os.Getenv("GRAFANA_TOKEN"),
//	})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	summaries, err := client.SearchDashboards(ctx, 5000)
package grafana

// Package grafanaimport imports, exports and removes Grafana dashboards by
// title, reconciling local dashboard documents against what already exists
// on the server.
//
// # Quick Start
//
// Build a [grafana.Client], wrap it in an [Importer] and import a document:
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
//	imp, err := grafanaimport.New(ctx, client, grafanaimport.WithFolder("Team"))
//	if err != nil {
//	    return err
//	}
//
//	dash, _ := grafana.DecodeDashboard(data)
//	result, err := imp.Import(ctx, dash)
//
// [New] checks the server's health before returning, so a misconfigured URL
// or token fails immediately.
//
// # Reconciliation
//
// Dashboards are identified by title. Before saving, the importer looks up
// a dashboard with the same title, preferring one in the target folder, and
// decides:
//
//   - [ActionCreate]: nothing matches; the server assigns a new identity.
//   - [ActionUpdate]: same folder, same or no uid; saved in place.
//   - [ActionOverwrite]: same folder, another uid, [WithOverwrite] enabled.
//   - [ActionCopy]: another folder, [WithAllowNew] enabled; a sibling is created.
//
// Every other combination is refused with an [*InputRejectedError] and
// nothing is written.
//
// # Folders
//
// Folders are addressed by title. "General" (any casing) is the root folder
// and never requires a server call. Import creates a missing target folder;
// Remove fails with [*FolderNotFoundError] instead.
//
// # Caching
//
// Dashboard and folder listings are fetched once per [Importer] and reused.
// They are not refreshed after writes; [Importer.ResetCache] forces a refetch.
//
// # Errors
//
// Errors are typed so callers can branch with [errors.As]:
// [*DashboardNotFoundError], [*FolderNotFoundError], [*InputRejectedError]
// and [*grafana.ClientError] for transport failures.
package grafanaimport

package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	grafanaimport "github.com/jpalmerr/grafana-import"
	"github.com/jpalmerr/grafana-import/internal/exportfile"
)

// now is replaced in tests.
var now = time.Now

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export a dashboard to a file",
		Long: `Export the dashboard titled --dashboard-name to general.exports_path.

The file is named after the dashboard, prefixed with its folder when it is
not in the root folder and suffixed with general.export_suffix, a strftime
pattern. Use --pretty for indented JSON.

Example:
  grafana-import export -d "My Dashboard"
  grafana-import export -d "My Dashboard" -f Team --pretty`,
		Args: cobra.NoArgs,
		RunE: runExport,
	}
}

func runExport(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	name, err := s.dashboardName()
	if err != nil {
		return err
	}

	export, err := s.importer.Export(cmd.Context(), name)
	if err != nil {
		var notFound *grafanaimport.DashboardNotFoundError
		if errors.As(err, &notFound) {
			fmt.Fprintf(s.out, "KO: Dashboard name not found: %s\n", name)
		} else {
			fmt.Fprintf(s.out, "KO: Exporting dashboard failed: %s. Reason: %v\n", name, err)
		}
		return errReported
	}

	fileName, err := exportfile.Name(name, export.Meta, s.settings.ExportSuffix, now())
	if err != nil {
		fmt.Fprintf(s.out, "KO: %v\n", err)
		return errReported
	}
	path, err := exportfile.Write(s.settings.ExportDir, fileName, export.Dashboard, s.settings.Pretty)
	if err != nil {
		fmt.Fprintf(s.out, "KO: Exporting dashboard failed: %s. Reason: %v\n", name, err)
		return errReported
	}

	s.logger.Debug("export written", "dashboard", name, "path", path)
	fmt.Fprintf(s.out, "OK: Dashboard '%s' exported to: %s\n", name, path)
	return nil
}

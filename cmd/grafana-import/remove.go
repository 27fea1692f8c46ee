package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	grafanaimport "github.com/jpalmerr/grafana-import"
)

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove",
		Short: "Remove a dashboard from Grafana",
		Long: `Remove the dashboard titled --dashboard-name from the target folder.

The dashboard must live in the target folder: a same-titled dashboard in
another folder is never deleted.

Example:
  grafana-import remove -d "My Dashboard"
  grafana-import remove -d "My Dashboard" -f Team`,
		Args: cobra.NoArgs,
		RunE: runRemove,
	}
}

func runRemove(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	name, err := s.dashboardName()
	if err != nil {
		return err
	}

	err = s.importer.Remove(cmd.Context(), name)
	if err == nil {
		fmt.Fprintf(s.out, "OK: Dashboard removed: %s\n", name)
		return nil
	}

	var (
		notFound       *grafanaimport.DashboardNotFoundError
		folderNotFound *grafanaimport.FolderNotFoundError
		rejectedErr    *grafanaimport.InputRejectedError
	)
	switch {
	case errors.As(err, &folderNotFound):
		fmt.Fprintf(s.out, "KO: Folder not found: %s\n", folderNotFound.Folder)
	case errors.As(err, &notFound):
		fmt.Fprintf(s.out, "KO: Dashboard name not found: %s\n", name)
	case errors.As(err, &rejectedErr):
		fmt.Fprintf(s.out, "KO: Removing dashboard failed: %s. Reason: %v\n", name, rejectedErr.Err)
	default:
		fmt.Fprintf(s.out, "KO: Removing dashboard failed: %s. Reason: %v\n", name, err)
	}
	return errReported
}

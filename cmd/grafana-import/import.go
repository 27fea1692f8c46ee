package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	grafanaimport "github.com/jpalmerr/grafana-import"
	"github.com/jpalmerr/grafana-import/internal/source"
	"github.com/jpalmerr/grafana-import/internal/watch"
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [file...]",
		Short: "Import dashboard files into Grafana",
		Long: `Import one or more dashboard files into the target folder.

A file is literal JSON, a *.jsonnet template, a *.py builder or any other
executable printing dashboard JSON. Bare names are looked up under
general.import_path; a directory imports every file it contains.

Every file is attempted even when an earlier one fails; the command exits 1
if any file failed. With --reload the process keeps running and re-imports
a file each time it changes, until interrupted.

Example:
  grafana-import import -i dashboard.json -f Team
  grafana-import import dashboards/ --overwrite
  grafana-import import -i board.jsonnet --reload`,
		RunE: runImport,
	}

	cmd.Flags().StringP("dashboard-file", "i", "", "dashboard file or directory to import")
	cmd.Flags().BoolP("reload", "r", false, "watch the files and re-import them on change")
	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	inputs := args
	if file, _ := cmd.Flags().GetString("dashboard-file"); file != "" {
		inputs = append([]string{file}, args...)
	}
	if len(inputs) == 0 {
		return errors.New("no dashboard file given, use --dashboard-file or a positional argument")
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	var files []string
	failed := false
	for _, in := range inputs {
		resolved, err := source.Resolve(s.settings.ImportDir, in)
		if err != nil {
			fmt.Fprintf(s.out, "KO: %v\n", err)
			failed = true
			continue
		}
		files = append(files, resolved...)
	}

	reader := source.Reader{}
	for _, file := range files {
		if err := s.importFile(cmd.Context(), reader, file); err != nil {
			failed = true
		}
	}

	if reload, _ := cmd.Flags().GetBool("reload"); reload && len(files) > 0 {
		return s.watchFiles(cmd.Context(), reader, files)
	}
	if failed {
		return errReported
	}
	return nil
}

// importFile reads and imports one file, printing its outcome.
func (s *session) importFile(ctx context.Context, reader source.Reader, file string) error {
	fmt.Fprintf(s.out, "Processing file: %s\n", file)

	dash, err := reader.Read(ctx, file)
	if err != nil {
		fmt.Fprintf(s.out, "KO: Failed to process file %s. Reason: %v\n", file, err)
		return err
	}

	result, err := s.importer.Import(ctx, dash)
	if err != nil {
		var rejectedErr *grafanaimport.InputRejectedError
		if errors.As(err, &rejectedErr) {
			fmt.Fprintf(s.out, "KO: Dashboard '%s' not imported into folder '%s'. Reason: %v\n",
				rejectedErr.Dashboard, rejectedErr.Folder, rejectedErr.Err)
		} else {
			fmt.Fprintf(s.out, "KO: Failed to process file %s. Reason: %v\n", file, err)
		}
		return err
	}

	if !result.Imported {
		fmt.Fprintf(s.out, "KO: Failed to import dashboard into Grafana. title=%s, folder=%s\n",
			result.Title, result.Folder)
		return fmt.Errorf("grafana did not accept dashboard %q", result.Title)
	}

	fmt.Fprintf(s.out, "OK: Dashboard '%s' imported into folder '%s'\n", result.Title, result.Folder)
	return nil
}

// watchFiles re-imports files on change until SIGINT or SIGTERM.
func (s *session) watchFiles(ctx context.Context, reader source.Reader, files []string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w, err := watch.New(files, func(ctx context.Context, path string) error {
		// earlier imports may have created dashboards the inventory never saw
		s.importer.ResetCache()
		return s.importFile(ctx, reader, path)
	}, s.logger)
	if err != nil {
		fmt.Fprintf(s.out, "KO: %v\n", err)
		return errReported
	}

	fmt.Fprintf(s.out, "Watching %d file(s) for changes, press Ctrl+C to stop\n", len(files))
	if err := w.Run(ctx); err != nil {
		fmt.Fprintf(s.out, "KO: %v\n", err)
		return errReported
	}
	s.logger.Info("reload stopped")
	return nil
}

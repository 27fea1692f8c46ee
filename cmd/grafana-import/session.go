package main

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	grafanaimport "github.com/jpalmerr/grafana-import"
	"github.com/jpalmerr/grafana-import/config"
	"github.com/jpalmerr/grafana-import/grafana"
)

// session is what every Grafana-facing command needs: resolved settings,
// a connected importer and the outcome writer.
type session struct {
	settings config.Settings
	importer *grafanaimport.Importer
	client   *grafana.Client
	logger   *slog.Logger
	out      io.Writer
}

// newLogger creates a JSON logger for CLI use, tagged with a run id.
func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})).With("run_id", uuid.NewString())
}

// loadSettings reads the optional config file and merges the flags.
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	flags := cmd.Flags()
	basePath, _ := flags.GetString("base-path")
	configFile, _ := flags.GetString("config-file")

	var cfg *config.Config
	if configFile != "" {
		if basePath != "" && !filepath.IsAbs(configFile) {
			configFile = filepath.Join(basePath, configFile)
		}
		loaded, err := config.Load(configFile)
		if err != nil {
			return config.Settings{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	o := config.Overrides{BasePath: basePath}
	o.URL, _ = flags.GetString("grafana-url")
	o.Label, _ = flags.GetString("grafana-label")
	o.Folder, _ = flags.GetString("grafana-folder")
	o.DashboardName, _ = flags.GetString("dashboard-name")
	o.Verbose, _ = flags.GetBool("verbose")
	o.Overwrite, _ = flags.GetBool("overwrite")
	o.AllowNew, _ = flags.GetBool("allow-new")
	o.KeepUID, _ = flags.GetBool("keep-uid")
	o.Pretty, _ = flags.GetBool("pretty")

	return config.Resolve(cfg, o, nil)
}

// openSession resolves settings and connects to Grafana. Setup failures
// are printed as a KO line and returned as errReported.
func openSession(cmd *cobra.Command) (*session, error) {
	out := cmd.OutOrStdout()

	settings, err := loadSettings(cmd)
	if err != nil {
		fmt.Fprintf(out, "KO: %v\n", err)
		return nil, errReported
	}
	logger := newLogger(cmd.ErrOrStderr(), settings.Debug)

	client, err := grafana.New(settings.ClientConfig())
	if err != nil {
		fmt.Fprintf(out, "KO: %v\n", err)
		return nil, errReported
	}

	imp, err := grafanaimport.New(cmd.Context(), client, settings.ImporterOptions(logger)...)
	if err != nil {
		client.Close()
		fmt.Fprintf(out, "KO: %v\n", err)
		return nil, errReported
	}

	logger.Debug("connected to grafana",
		"url", client.URL(),
		"label", settings.Label,
		"folder", imp.Folder(),
	)
	return &session{
		settings: settings,
		importer: imp,
		client:   client,
		logger:   logger,
		out:      out,
	}, nil
}

func (s *session) Close() {
	s.client.Close()
}

// dashboardName returns the --dashboard-name value, falling back to the
// config file. Export and remove cannot run without one.
func (s *session) dashboardName() (string, error) {
	if s.settings.DashboardName == "" {
		fmt.Fprintln(s.out, "KO: no dashboard name given, use --dashboard-name")
		return "", errReported
	}
	return s.settings.DashboardName, nil
}

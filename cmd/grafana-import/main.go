// Package main is the entry point for the grafana-import CLI.
//
// grafana-import imports dashboard files into Grafana, exports dashboards
// to files, and removes dashboards, addressing them by title.
//
// Usage:
//
//	grafana-import import -i dashboard.json -f Team   # Import into folder Team
//	grafana-import export -d "My Dashboard" -p        # Export, pretty-printed
//	grafana-import remove -d "My Dashboard"           # Remove from the root folder
//	grafana-import validate -c grafana-import.yml     # Validate configuration
//	grafana-import version                            # Show version info
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// errReported marks a failure whose KO line was already printed.
var errReported = errors.New("command failed")

// newRootCmd builds the command tree. A fresh tree per call keeps flag
// state from leaking between runs in tests.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "grafana-import",
		Short: "Import, export and remove Grafana dashboards",
		Long: `grafana-import manages Grafana dashboards by title.

Dashboards are matched by title, preferring the configured folder. Imports
create, update or overwrite the matching dashboard depending on the
--overwrite and --allow-new policies; nothing is written when the policy
forbids the change.

Connection settings come from a profile in the configuration file and can
be overridden with --grafana-url, then with $GRAFANA_URL and $GRAFANA_TOKEN.

Example config (grafana-import.yml):
  general:
    import_path: imports
    exports_path: exports
  grafana:
    default:
      host: localhost
      port: 3000
      token: ${GRAFANA_TOKEN}`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// accept the historical underscore spellings (--dashboard_name)
	root.SetGlobalNormalizationFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	flags := root.PersistentFlags()
	flags.StringP("base-path", "b", "", "base directory for config, import and export paths (default: current directory)")
	flags.StringP("config-file", "c", "", "path to config file, relative to the base path")
	flags.StringP("grafana-url", "u", "", "Grafana URL, overrides the config profile")
	flags.StringP("grafana-label", "g", "", "config profile label (default: general.grafana_label or \"default\")")
	flags.StringP("grafana-folder", "f", "", "target folder title (default: General)")
	flags.StringP("dashboard-name", "d", "", "dashboard title for export and remove")
	flags.BoolP("pretty", "p", false, "pretty-print exported JSON")
	flags.BoolP("overwrite", "o", false, "overwrite a same-titled dashboard with another uid in the target folder")
	flags.BoolP("allow-new", "a", false, "create a sibling when a same-titled dashboard lives in another folder")
	flags.BoolP("keep-uid", "k", false, "keep the uid defined in the dashboard file")
	flags.BoolP("verbose", "v", false, "enable debug logging")

	root.AddCommand(newImportCmd(), newExportCmd(), newRemoveCmd(), newValidateCmd(), newVersionCmd())
	return root
}

// newVersionCmd prints version information.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, and build date of this grafana-import binary.`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "grafana-import %s\n", version)
			fmt.Fprintf(out, "  commit: %s\n", commit)
			fmt.Fprintf(out, "  built:  %s\n", date)
		},
	}
}

// Execute runs the root command and exits 1 on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func main() {
	Execute()
}

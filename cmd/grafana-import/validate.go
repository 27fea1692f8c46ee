package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/grafana-import/config"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate a config file",
		Long: `Validate a grafana-import configuration file without contacting Grafana.

This command parses the file, expands environment variables, and validates
all fields. It's useful for CI/CD pipelines or pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  grafana-import validate -c grafana-import.yml
  grafana-import validate --config-file /etc/grafana-import/config.json`,
		Args: cobra.NoArgs,
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config-file")
	if configFile == "" {
		return errors.New("validate requires --config-file")
	}
	if basePath, _ := cmd.Flags().GetString("base-path"); basePath != "" && !filepath.IsAbs(configFile) {
		configFile = filepath.Join(basePath, configFile)
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config is valid!\n")
	fmt.Fprintf(out, "  Default label:  %s\n", cfg.General.GrafanaLabel)
	fmt.Fprintf(out, "  Default folder: %s\n", cfg.General.GrafanaFolder)
	fmt.Fprintf(out, "  Profiles:       %d\n", len(cfg.Grafana))
	for _, label := range cfg.Labels() {
		p := cfg.Grafana[label]
		token := "set"
		if p.Token == "" {
			token = "missing"
		}
		fmt.Fprintf(out, "    %s: %s (token %s)\n", label, p.BaseURL(), token)
	}
	return nil
}

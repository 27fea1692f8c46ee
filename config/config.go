// Package config loads grafana-import configuration files and resolves the
// effective settings of a run.
//
// Configuration files are YAML, or JSON with // and /* */ comments when the
// file name ends in .json or .jsonc. Example:
//
//	general:
//	  debug: false
//	  import_path: imports
//	  exports_path: exports
//	  export_suffix: "_%Y%m%d%H%M%S"
//	  grafana_folder: General
//
//	grafana:
//	  default:
//	    protocol: http
//	    host: localhost
//	    port: 3000
//	    token: ${GRAFANA_TOKEN}
//	    search_api_limit: 5000
//	    verify_ssl: true
//
// Profiles under grafana are selected by label; see [Resolve].
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jpalmerr/grafana-import/internal/exportfile"
)

// Defaults applied by [Parse] and [Resolve].
const (
	DefaultLabel          = "default"
	DefaultProtocol       = "http"
	DefaultHost           = "localhost"
	DefaultPort           = 3000
	DefaultSearchAPILimit = 5000
	DefaultFolder         = "General"
	DefaultTimeout        = 30 * time.Second
)

// Config is the root configuration structure.
//
// It maps directly to the configuration file. Use [Load] or [Parse] to
// create a Config.
type Config struct {
	// General holds application settings.
	General GeneralConfig `yaml:"general"`

	// Grafana maps profile labels to connection profiles.
	Grafana map[string]ProfileConfig `yaml:"grafana"`
}

// GeneralConfig holds settings that are not tied to a Grafana instance.
type GeneralConfig struct {
	// Debug enables debug logging, like --verbose.
	Debug bool `yaml:"debug"`

	// ImportPath is the directory, relative to the base path, in which
	// bare dashboard file names are looked up.
	ImportPath string `yaml:"import_path"`

	// ExportsPath is the directory, relative to the base path unless
	// absolute, that receives exported dashboards.
	ExportsPath string `yaml:"exports_path"`

	// ExportSuffix is a strftime pattern appended to exported file names.
	// Defaults to "_%Y%m%d%H%M%S".
	ExportSuffix string `yaml:"export_suffix"`

	// DashboardName is the default dashboard title for export and remove.
	DashboardName string `yaml:"dashboard_name"`

	// GrafanaFolder is the default target folder. Defaults to "General".
	GrafanaFolder string `yaml:"grafana_folder"`

	// GrafanaLabel selects the default profile. Defaults to "default".
	GrafanaLabel string `yaml:"grafana_label"`
}

// ProfileConfig is one Grafana connection profile.
type ProfileConfig struct {
	// URL is the full base URL. When set it takes precedence over
	// Protocol, Host and Port.
	URL string `yaml:"url"`

	// Protocol is http or https. Defaults to http.
	Protocol string `yaml:"protocol"`

	// Host is the server host name. Defaults to localhost.
	Host string `yaml:"host"`

	// Port is the server port. Defaults to 3000.
	Port int `yaml:"port"`

	// Token is the API token. Supports ${VAR} substitution.
	Token string `yaml:"token"`

	// VerifySSL enables TLS verification. Defaults to true.
	VerifySSL *bool `yaml:"verify_ssl"`

	// SearchAPILimit caps the dashboard search. Defaults to 5000.
	SearchAPILimit int `yaml:"search_api_limit"`

	// Timeout bounds each API request. Defaults to 30s.
	Timeout Duration `yaml:"timeout"`
}

// BaseURL returns the profile's Grafana base URL.
func (p ProfileConfig) BaseURL() string {
	if p.URL != "" {
		return p.URL
	}
	return fmt.Sprintf("%s://%s:%d", p.Protocol, p.Host, p.Port)
}

// Verify reports whether TLS certificates are verified.
func (p ProfileConfig) Verify() bool {
	return p.VerifySSL == nil || *p.VerifySSL
}

// Labels returns the profile labels, sorted.
func (c *Config) Labels() []string {
	labels := make([]string, 0, len(c.Grafana))
	for label := range c.Grafana {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
//
// Both duration strings ("10s") and plain integers (seconds) are accepted.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	if secs, err := strconv.Atoi(s); err == nil {
		*d = Duration(time.Duration(secs) * time.Second)
		return nil
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a configuration file.
//
// Files ending in .json or .jsonc have their comments stripped first.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Reason: "failed to read config file", Err: err}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		data = StripComments(data)
	}
	return Parse(data)
}

// Parse parses configuration data.
//
// Environment variables are expanded in tokens, hosts, URLs and general
// paths. Defaults are applied and every profile is validated.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &Error{Reason: "failed to parse YAML", Err: err}
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, &Error{Reason: "invalid configuration", Err: err}
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	_ = cfg.expandAndValidate()
	return cfg
}

// expandAndValidate expands environment variables, applies defaults and
// validates the config.
func (c *Config) expandAndValidate() error {
	g := &c.General
	for name, field := range map[string]*string{
		"import_path":    &g.ImportPath,
		"exports_path":   &g.ExportsPath,
		"dashboard_name": &g.DashboardName,
		"grafana_folder": &g.GrafanaFolder,
	} {
		expanded, err := expandEnvVars(*field)
		if err != nil {
			return fmt.Errorf("general.%s: %w", name, err)
		}
		*field = expanded
	}

	if g.ExportSuffix == "" {
		g.ExportSuffix = exportfile.DefaultSuffix
	}
	if err := exportfile.ValidateSuffix(g.ExportSuffix); err != nil {
		return fmt.Errorf("general.export_suffix: %w", err)
	}
	if g.GrafanaFolder == "" {
		g.GrafanaFolder = DefaultFolder
	}
	if g.GrafanaLabel == "" {
		g.GrafanaLabel = DefaultLabel
	}

	for _, label := range c.Labels() {
		p := c.Grafana[label]
		if err := p.expandAndValidate(); err != nil {
			return fmt.Errorf("grafana[%s]: %w", label, err)
		}
		c.Grafana[label] = p
	}
	return nil
}

func (p *ProfileConfig) expandAndValidate() error {
	for name, field := range map[string]*string{
		"url":   &p.URL,
		"host":  &p.Host,
		"token": &p.Token,
	} {
		expanded, err := expandEnvVars(*field)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*field = expanded
	}

	if p.Protocol == "" {
		p.Protocol = DefaultProtocol
	}
	if p.Host == "" {
		p.Host = DefaultHost
	}
	if p.Port == 0 {
		p.Port = DefaultPort
	}
	if p.SearchAPILimit == 0 {
		p.SearchAPILimit = DefaultSearchAPILimit
	}
	if p.Timeout == 0 {
		p.Timeout = Duration(DefaultTimeout)
	}

	if p.Protocol != "http" && p.Protocol != "https" {
		return fmt.Errorf("protocol must be http or https, got %q", p.Protocol)
	}
	if p.Port < 1 || p.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", p.Port)
	}
	if p.SearchAPILimit < 0 {
		return fmt.Errorf("search_api_limit must be positive, got %d", p.SearchAPILimit)
	}
	if p.Timeout.Duration() < 0 {
		return fmt.Errorf("timeout cannot be negative, got %s", p.Timeout.Duration())
	}
	if p.URL != "" {
		if err := validateURL(p.URL); err != nil {
			return fmt.Errorf("url: %w", err)
		}
	}
	return nil
}

func validateURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("url %q has no host", raw)
	}
	return nil
}

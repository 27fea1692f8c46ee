package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	grafanaimport "github.com/jpalmerr/grafana-import"
	"github.com/jpalmerr/grafana-import/grafana"
)

// Environment variables that override file and flag settings.
const (
	EnvURL   = "GRAFANA_URL"
	EnvToken = "GRAFANA_TOKEN"
)

// LookupEnv reads an environment variable; [os.LookupEnv] in production.
type LookupEnv func(key string) (string, bool)

// Overrides are the values given explicitly on the command line. Empty
// strings mean "not given".
type Overrides struct {
	BasePath      string
	URL           string
	Label         string
	Folder        string
	DashboardName string

	Verbose   bool
	Overwrite bool
	AllowNew  bool
	KeepUID   bool
	Pretty    bool
}

// Settings are the effective settings of one run, resolved once before the
// Grafana client and importer are built.
type Settings struct {
	// Label is the profile that was selected, if any.
	Label string

	URL         string
	Token       string
	VerifySSL   bool
	Timeout     time.Duration
	SearchLimit int

	Folder        string
	DashboardName string

	Debug     bool
	Overwrite bool
	AllowNew  bool
	KeepUID   bool
	Pretty    bool

	ImportDir    string
	ExportDir    string
	ExportSuffix string
}

// Resolve merges cfg, explicit overrides and the environment.
//
// Precedence for the connection is environment ($GRAFANA_URL,
// $GRAFANA_TOKEN), then explicit flags, then the selected profile.
// Other settings take the flag when given and fall back to the file.
//
// The profile label defaults to general.grafana_label, then "default". A
// missing profile is an error when the label was given explicitly or when
// nothing else supplies a URL.
func Resolve(cfg *Config, o Overrides, lookup LookupEnv) (Settings, error) {
	if cfg == nil {
		cfg = Default()
	}
	if lookup == nil {
		lookup = os.LookupEnv
	}

	envURL, hasEnvURL := lookup(EnvURL)
	envToken, hasEnvToken := lookup(EnvToken)

	label := o.Label
	if label == "" {
		label = cfg.General.GrafanaLabel
	}

	s := Settings{
		VerifySSL:     true,
		Timeout:       DefaultTimeout,
		SearchLimit:   DefaultSearchAPILimit,
		Folder:        cfg.General.GrafanaFolder,
		DashboardName: cfg.General.DashboardName,
		Debug:         cfg.General.Debug || o.Verbose,
		Overwrite:     o.Overwrite,
		AllowNew:      o.AllowNew,
		KeepUID:       o.KeepUID,
		Pretty:        o.Pretty,
		ExportSuffix:  cfg.General.ExportSuffix,
	}

	profile, ok := cfg.Grafana[label]
	switch {
	case ok:
		s.Label = label
		s.URL = profile.BaseURL()
		s.Token = profile.Token
		s.VerifySSL = profile.Verify()
		s.Timeout = profile.Timeout.Duration()
		s.SearchLimit = profile.SearchAPILimit
	case o.Label != "":
		return Settings{}, &Error{Reason: fmt.Sprintf("invalid Grafana configuration label: %s", o.Label)}
	case o.URL == "" && (!hasEnvURL || envURL == ""):
		return Settings{}, &Error{Reason: fmt.Sprintf("invalid Grafana configuration label: %s", label)}
	}

	if o.URL != "" {
		s.URL = o.URL
	}
	if hasEnvURL && envURL != "" {
		s.URL = envURL
	}
	if hasEnvToken && envToken != "" {
		s.Token = envToken
	}

	if err := validateURL(s.URL); err != nil {
		return Settings{}, &Error{Reason: "invalid Grafana url", Err: err}
	}
	if s.Token == "" && !hasUserinfo(s.URL) {
		where := label
		if s.Label == "" {
			where = s.URL
		}
		return Settings{}, &Error{Reason: fmt.Sprintf("authentication token missing in Grafana configuration at: %s", where)}
	}

	if o.Folder != "" {
		s.Folder = o.Folder
	}
	if s.Folder == "" {
		s.Folder = DefaultFolder
	}
	if o.DashboardName != "" {
		s.DashboardName = o.DashboardName
	}

	base := o.BasePath
	if base == "" {
		base = "."
	}
	s.ImportDir = underBase(base, cfg.General.ImportPath)
	s.ExportDir = underBase(base, cfg.General.ExportsPath)

	return s, nil
}

func hasUserinfo(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.User != nil
}

// underBase joins a relative dir with base; absolute dirs are kept.
func underBase(base, dir string) string {
	if dir == "" {
		return base
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(base, dir)
}

// ClientConfig converts the settings into a Grafana client configuration.
func (s Settings) ClientConfig() grafana.Config {
	return grafana.Config{
		URL:                s.URL,
		Token:              s.Token,
		InsecureSkipVerify: !s.VerifySSL,
		Timeout:            s.Timeout,
	}
}

// ImporterOptions converts the settings into importer options.
func (s Settings) ImporterOptions(logger *slog.Logger) []grafanaimport.Option {
	opts := []grafanaimport.Option{
		grafanaimport.WithFolder(s.Folder),
		grafanaimport.WithOverwrite(s.Overwrite),
		grafanaimport.WithAllowNew(s.AllowNew),
		grafanaimport.WithKeepUID(s.KeepUID),
	}
	if s.SearchLimit > 0 {
		opts = append(opts, grafanaimport.WithSearchLimit(s.SearchLimit))
	}
	if logger != nil {
		opts = append(opts, grafanaimport.WithLogger(logger))
	}
	return opts
}

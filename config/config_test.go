package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParse_MinimalConfig(t *testing.T) {
	yaml := `
grafana:
  default:
    token: abc
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	p := cfg.Grafana["default"]
	if p.BaseURL() != "http://localhost:3000" {
		t.Errorf("BaseURL() = %q, want http://localhost:3000", p.BaseURL())
	}
	if !p.Verify() {
		t.Errorf("Verify() = false, want true by default")
	}
	if p.SearchAPILimit != DefaultSearchAPILimit {
		t.Errorf("SearchAPILimit = %d, want %d", p.SearchAPILimit, DefaultSearchAPILimit)
	}
	if p.Timeout.Duration() != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", p.Timeout.Duration(), DefaultTimeout)
	}
	if cfg.General.ExportSuffix != "_%Y%m%d%H%M%S" {
		t.Errorf("ExportSuffix = %q", cfg.General.ExportSuffix)
	}
	if cfg.General.GrafanaFolder != "General" {
		t.Errorf("GrafanaFolder = %q, want General", cfg.General.GrafanaFolder)
	}
	if cfg.General.GrafanaLabel != "default" {
		t.Errorf("GrafanaLabel = %q, want default", cfg.General.GrafanaLabel)
	}
}

func TestParse_FullConfig(t *testing.T) {
	yaml := `
general:
  debug: true
  import_path: imports
  exports_path: /var/exports
  export_suffix: "-%Y"
  dashboard_name: Board
  grafana_folder: Ops
  grafana_label: prod
grafana:
  prod:
    protocol: https
    host: grafana.example.com
    port: 443
    token: tok
    verify_ssl: false
    search_api_limit: 100
    timeout: 5s
  local:
    url: http://127.0.0.1:3000
    token: other
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if !cfg.General.Debug || cfg.General.ImportPath != "imports" || cfg.General.ExportSuffix != "-%Y" {
		t.Errorf("General = %+v", cfg.General)
	}
	prod := cfg.Grafana["prod"]
	if prod.BaseURL() != "https://grafana.example.com:443" {
		t.Errorf("prod BaseURL() = %q", prod.BaseURL())
	}
	if prod.Verify() {
		t.Errorf("prod Verify() = true, want false")
	}
	if prod.SearchAPILimit != 100 || prod.Timeout.Duration() != 5*time.Second {
		t.Errorf("prod = %+v", prod)
	}
	if cfg.Grafana["local"].BaseURL() != "http://127.0.0.1:3000" {
		t.Errorf("local BaseURL() = %q", cfg.Grafana["local"].BaseURL())
	}
	if got := strings.Join(cfg.Labels(), ","); got != "local,prod" {
		t.Errorf("Labels() = %s, want local,prod", got)
	}
}

func TestParse_EnvVarSubstitution(t *testing.T) {
	t.Setenv("TEST_GRAFANA_HOST", "grafana.test.com")
	t.Setenv("TEST_GRAFANA_TOKEN", "secret123")

	yaml := `
grafana:
  default:
    host: ${TEST_GRAFANA_HOST}
    token: "${TEST_GRAFANA_TOKEN}"
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	p := cfg.Grafana["default"]
	if p.Host != "grafana.test.com" {
		t.Errorf("Host = %q, want grafana.test.com", p.Host)
	}
	if p.Token != "secret123" {
		t.Errorf("Token = %q, want secret123", p.Token)
	}
}

func TestParse_EnvVarDefault(t *testing.T) {
	yaml := `
general:
  exports_path: ${UNSET_EXPORTS:-exports}
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.General.ExportsPath != "exports" {
		t.Errorf("ExportsPath = %q, want exports", cfg.General.ExportsPath)
	}
}

func TestParse_EnvVarMissing(t *testing.T) {
	yaml := `
grafana:
  default:
    token: ${MISSING_VAR}
`
	_, err := Parse([]byte(yaml))
	if err == nil {
		t.Fatal("Parse() expected error for missing env var, got nil")
	}
	if !strings.Contains(err.Error(), "MISSING_VAR") {
		t.Errorf("error should mention MISSING_VAR: %v", err)
	}
	if !strings.Contains(err.Error(), "grafana[default]: token") {
		t.Errorf("error should locate the field: %v", err)
	}
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "bad protocol",
			yaml: `
grafana:
  default:
    protocol: ftp
`,
			wantErr: "protocol must be http or https",
		},
		{
			name: "port out of range",
			yaml: `
grafana:
  default:
    port: 70000
`,
			wantErr: "port must be between 1 and 65535",
		},
		{
			name: "negative search limit",
			yaml: `
grafana:
  default:
    search_api_limit: -1
`,
			wantErr: "search_api_limit must be positive",
		},
		{
			name: "url without scheme",
			yaml: `
grafana:
  default:
    url: grafana.example.com
`,
			wantErr: "url scheme must be http or https",
		},
		{
			name: "invalid timeout",
			yaml: `
grafana:
  default:
    timeout: soon
`,
			wantErr: "invalid duration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatalf("Parse() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse() error = %v, want containing %q", err, tt.wantErr)
			}
			var cfgErr *Error
			if !errors.As(err, &cfgErr) {
				t.Errorf("Parse() error is %T, want *Error", err)
			}
		})
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("general: [unclosed"))
	if err == nil {
		t.Fatal("Parse() expected error for invalid YAML, got nil")
	}
	if !strings.Contains(err.Error(), "failed to parse YAML") {
		t.Errorf("Parse() error = %v", err)
	}
}

func TestDuration_UnmarshalYAML(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"seconds", "10s", 10 * time.Second, false},
		{"plain integer is seconds", "45", 45 * time.Second, false},
		{"minutes", "2m", 2 * time.Minute, false},
		{"combined", "1m30s", 90 * time.Second, false},
		{"invalid", "not-a-duration", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			yaml := `
grafana:
  default:
    timeout: ` + tt.input

			cfg, err := Parse([]byte(yaml))
			if tt.wantErr {
				if err == nil {
					t.Fatal("Parse() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if got := cfg.Grafana["default"].Timeout.Duration(); got != tt.want {
				t.Errorf("Timeout = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_VAR", "value")
	t.Setenv("EMPTY_VAR", "")

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"no vars", "plain text", "plain text", false},
		{"simple var", "${TEST_VAR}", "value", false},
		{"var in text", "prefix ${TEST_VAR} suffix", "prefix value suffix", false},
		{"with default (var set)", "${TEST_VAR:-default}", "value", false},
		{"with default (var unset)", "${UNSET:-default}", "default", false},
		{"missing required", "${MISSING}", "", true},
		{"empty default (var unset)", "${UNSET:-}", "", false},
		{"set but empty with default", "${EMPTY_VAR:-fallback}", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandEnvVars(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expandEnvVars() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("expandEnvVars() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("expandEnvVars() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grafana-import.yml")
	content := `
grafana:
  default:
    token: abc
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Grafana["default"].Token != "abc" {
		t.Errorf("Token = %q, want abc", cfg.Grafana["default"].Token)
	}
}

func TestLoad_CommentedJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grafana-import.json")
	content := `{
	// connection profiles
	"grafana": {
		"default": {
			"url": "https://grafana.example.com", /* trailing comment */
			"token": "abc"
		}
	},
	/*
	 * application settings
	 */
	"general": {"exports_path": "out"}
}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := cfg.Grafana["default"].BaseURL(); got != "https://grafana.example.com" {
		t.Errorf("BaseURL() = %q, want https://grafana.example.com", got)
	}
	if cfg.General.ExportsPath != "out" {
		t.Errorf("ExportsPath = %q, want out", cfg.General.ExportsPath)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err == nil || !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("Load() error = %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error should wrap os.ErrNotExist: %v", err)
	}
}

func TestStripComments(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"line comment", "{\"a\": 1} // note", "{\"a\": 1} "},
		{"block comment", "{/* x */\"a\": 1}", "{\"a\": 1}"},
		{"url in string", `{"u": "http://x"}`, `{"u": "http://x"}`},
		{"escaped quote", `{"s": "a\"//b"}`, `{"s": "a\"//b"}`},
		{"newline kept", "{\n// c\n}", "{\n\n}"},
		{"tabs replaced", "{\t\"a\": 1}", "{ \"a\": 1}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(StripComments([]byte(tt.in))); got != tt.want {
				t.Errorf("StripComments() = %q, want %q", got, tt.want)
			}
		})
	}
}

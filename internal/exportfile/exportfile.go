// Package exportfile names and writes exported dashboards.
//
// An export is written to <dir>/<name>.json where name is the dashboard
// name, prefixed with "<folder>_" for dashboards outside the root folder
// and suffixed with a strftime-formatted timestamp. Accents are stripped
// and runs of whitespace become a single underscore.
package exportfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/lestrrat-go/strftime"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jpalmerr/grafana-import/grafana"
)

// DefaultSuffix is the default timestamp suffix pattern.
const DefaultSuffix = "_%Y%m%d%H%M%S"

var whitespace = regexp.MustCompile(`\s+`)

// ValidateSuffix reports whether pattern is a usable strftime pattern.
func ValidateSuffix(pattern string) error {
	if _, err := strftime.New(pattern); err != nil {
		return fmt.Errorf("invalid export suffix %q: %w", pattern, err)
	}
	return nil
}

// Name builds the file name (without directory) for an export.
//
// name is the requested dashboard name; meta decides the folder prefix;
// suffix is a strftime pattern formatted at now.
func Name(name string, meta grafana.DashboardMeta, suffix string, now time.Time) (string, error) {
	stamp := ""
	if suffix != "" {
		f, err := strftime.New(suffix)
		if err != nil {
			return "", fmt.Errorf("invalid export suffix %q: %w", suffix, err)
		}
		stamp = f.FormatString(now)
	}

	base := name + stamp
	if meta.FolderID != 0 && meta.FolderTitle != "" {
		base = meta.FolderTitle + "_" + base
	}
	return Normalize(base) + ".json", nil
}

// Normalize strips diacritics and collapses whitespace runs to "_".
func Normalize(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return whitespace.ReplaceAllString(strings.TrimSpace(stripped), "_")
}

// Encode renders the dashboard body. Pretty output is indented by two
// spaces; map keys are always sorted.
func Encode(dash grafana.Dashboard, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(dash); err != nil {
		return nil, fmt.Errorf("failed to encode dashboard: %w", err)
	}
	return buf.Bytes(), nil
}

// Write encodes dash into dir/fileName, creating dir when missing, and
// returns the full path.
func Write(dir, fileName string, dash grafana.Dashboard, pretty bool) (string, error) {
	data, err := Encode(dash, pretty)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(dir, fileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}

package grafanaimport

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// importerConfig holds mutable state during Importer construction.
type importerConfig struct {
	folder      string
	overwrite   bool
	allowNew    bool
	keepUID     bool
	searchLimit int
	logger      *slog.Logger
}

// Option is a function that configures an [Importer] during construction.
//
// Options return an error if validation fails.
//
// Built-in options: [WithFolder], [WithOverwrite], [WithAllowNew],
// [WithKeepUID], [WithSearchLimit], [WithLogger].
type Option func(*importerConfig) error

// WithFolder sets the target folder by title.
//
// An empty title or any casing of "General" selects the root folder.
// Defaults to the root folder.
func WithFolder(title string) Option {
	return func(cfg *importerConfig) error {
		title = strings.TrimSpace(title)
		if title == "" {
			title = RootFolderTitle
		}
		cfg.folder = title
		return nil
	}
}

// WithOverwrite allows an import to adopt the uid of a same-titled dashboard
// in the target folder and overwrite it. Defaults to false.
func WithOverwrite(enabled bool) Option {
	return func(cfg *importerConfig) error {
		cfg.overwrite = enabled
		return nil
	}
}

// WithAllowNew allows an import to create a sibling dashboard when one with
// the same title lives in another folder. Defaults to false.
func WithAllowNew(enabled bool) Option {
	return func(cfg *importerConfig) error {
		cfg.allowNew = enabled
		return nil
	}
}

// WithKeepUID keeps the uid supplied in the imported document instead of
// clearing it on create or replacing it on overwrite. Defaults to false.
func WithKeepUID(enabled bool) Option {
	return func(cfg *importerConfig) error {
		cfg.keepUID = enabled
		return nil
	}
}

// WithSearchLimit caps the number of dashboards returned by the inventory
// search. Dashboards beyond the cap are invisible to title lookups.
// Defaults to 5000.
//
// Returns an error if n is zero or negative.
func WithSearchLimit(n int) Option {
	return func(cfg *importerConfig) error {
		if n <= 0 {
			return fmt.Errorf("search limit must be positive, got %d", n)
		}
		cfg.searchLimit = n
		return nil
	}
}

// WithLogger sets the logger used for reconciliation events.
// Defaults to [slog.Default].
//
// Returns an error if logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *importerConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

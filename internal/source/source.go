// Package source reads dashboard documents from disk.
//
// A dashboard file is either literal JSON or a builder whose standard
// output is JSON:
//
//   - *.json is read as is
//   - *.jsonnet is rendered with `jsonnet --jpath <dir>/vendor <file>`
//   - *.py is run with the Python interpreter
//   - any other executable file is run directly
//
// Anything else fails with [*UnsupportedError].
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jpalmerr/grafana-import/grafana"
)

// UnsupportedError is returned for files that are neither JSON, a known
// builder type, nor executable.
type UnsupportedError struct {
	Name string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("decoding file type not implemented, or file is not executable: %s", e.Name)
}

// Reader decodes dashboard files. The zero value uses "jsonnet" and
// "python3" from PATH.
type Reader struct {
	// Jsonnet is the jsonnet binary. Defaults to "jsonnet".
	Jsonnet string

	// Python is the interpreter for *.py builders. Defaults to "python3".
	Python string
}

// Read decodes the dashboard at path.
func (r Reader) Read(ctx context.Context, path string) (grafana.Dashboard, error) {
	payload, err := r.payload(ctx, path)
	if err != nil {
		return nil, err
	}
	dash, err := grafana.DecodeDashboard(payload)
	if err != nil {
		return nil, fmt.Errorf("decoding JSON output from file %s failed: %w", path, err)
	}
	return dash, nil
}

func (r Reader) payload(ctx context.Context, path string) ([]byte, error) {
	switch filepath.Ext(path) {
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading file %s failed: %w", path, err)
		}
		return data, nil
	case ".jsonnet":
		jsonnet := r.Jsonnet
		if jsonnet == "" {
			jsonnet = "jsonnet"
		}
		return run(ctx, jsonnet, "--jpath", filepath.Join(filepath.Dir(path), "vendor"), path)
	case ".py":
		python := r.Python
		if python == "" {
			python = "python3"
		}
		return run(ctx, python, path)
	}

	if isExecutable(path) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, err
		}
		return run(ctx, abs)
	}
	return nil, &UnsupportedError{Name: filepath.Base(path)}
}

// run executes a builder and returns its standard output.
func run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("running %s failed: %w: %s", name, err, msg)
		}
		return nil, fmt.Errorf("running %s failed: %w", name, err)
	}
	return stdout.Bytes(), nil
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	return info.Mode().Perm()&0o111 != 0
}

// Resolve expands a dashboard file argument into the files to import.
//
// A bare relative name is looked up under importDir; a path that is
// absolute or starts with "./" or "../" is used as given. A directory
// expands to the regular files it contains, sorted, without recursion.
func Resolve(importDir, arg string) ([]string, error) {
	if arg == "" {
		return nil, errors.New("dashboard file is required")
	}

	path := arg
	if !isExplicit(arg) {
		path = filepath.Join(importDir, arg)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("dashboard file %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", path, err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, filepath.Join(path, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func isExplicit(path string) bool {
	if filepath.IsAbs(path) {
		return true
	}
	sep := string(filepath.Separator)
	return strings.HasPrefix(path, "."+sep) || strings.HasPrefix(path, ".."+sep) ||
		strings.HasPrefix(path, "./") || strings.HasPrefix(path, "../")
}

// Package watch re-runs an action whenever one of a set of files changes.
//
// It backs the import command's reload mode: after the initial import the
// process keeps running and re-imports a dashboard file each time it is
// written. Actions run serially on the watcher goroutine; a failing or
// panicking action is logged and watching continues.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
)

// Action is invoked with the path of the file that changed.
type Action func(ctx context.Context, path string) error

// Watcher watches files and runs an [Action] on modification.
//
// Directories containing the files are watched rather than the files
// themselves so editors that replace files on save are still observed.
type Watcher struct {
	files  map[string]struct{}
	dirs   map[string]struct{}
	action Action
	logger *slog.Logger

	mu        sync.Mutex
	started   bool
	stopped   bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	fsWatcher *fsnotify.Watcher
}

// New creates a [Watcher] for paths. It does not start watching; call
// [Watcher.Start].
func New(paths []string, action Action, logger *slog.Logger) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, errors.New("at least one file to watch is required")
	}
	if action == nil {
		return nil, errors.New("watch action is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	w := &Watcher{
		files:  make(map[string]struct{}, len(paths)),
		dirs:   make(map[string]struct{}),
		action: action,
		logger: logger,
	}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		w.files[abs] = struct{}{}
		w.dirs[filepath.Dir(abs)] = struct{}{}
	}
	return w, nil
}

// Start begins watching in a background goroutine.
//
// Start is idempotent; calling it after [Watcher.Stop] is a no-op.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started || w.stopped {
		return nil
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	for dir := range w.dirs {
		if err := fsWatcher.Add(dir); err != nil {
			_ = fsWatcher.Close()
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	w.started = true
	w.fsWatcher = fsWatcher
	watchCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.loop(watchCtx, fsWatcher)
	}()

	w.logger.Info("watching for changes", "files", len(w.files))
	return nil
}

// Run starts the watcher and blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	w.Stop()
	return nil
}

// Stop halts watching and waits for an in-flight action to finish.
//
// Stop is idempotent and safe to call before Start.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	if w.cancel != nil {
		w.cancel()
	}
	fsWatcher := w.fsWatcher
	w.mu.Unlock()

	w.wg.Wait()
	if fsWatcher != nil {
		_ = fsWatcher.Close()
	}
}

func (w *Watcher) loop(ctx context.Context, fsWatcher *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fsWatcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if _, watched := w.files[filepath.Clean(event.Name)]; !watched {
				continue
			}
			w.invoke(ctx, event.Name)
		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", "error", err.Error())
		}
	}
}

// invoke runs the action with panic recovery; failures never stop the loop.
func (w *Watcher) invoke(ctx context.Context, path string) {
	reloadID := uuid.NewString()
	logger := w.logger.With("file", path, "reload_id", reloadID)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("reload panicked",
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
		}
	}()

	logger.Info("file changed, reloading")
	if err := w.action(ctx, path); err != nil {
		logger.Error("reload failed", "error", err.Error())
	}
}

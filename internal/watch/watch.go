// Package watch reloads state when a file changes on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last event before reloading.
const DefaultDebounce = 250 * time.Millisecond

// ReloadFunc is called once per burst of changes.
type ReloadFunc func(ctx context.Context) error

// File watches one file and calls reload after it changes.
// The parent directory is watched because spreadsheet editors save by
// writing a temporary file and renaming it over the original.
type File struct {
	path     string
	reload   ReloadFunc
	logger   *slog.Logger
	debounce time.Duration
}

// NewFile creates a watcher for path.
func NewFile(path string, reload ReloadFunc, logger *slog.Logger) *File {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &File{path: path, reload: reload, logger: logger, debounce: DefaultDebounce}
}

// WithDebounce sets the quiet period.
func (w *File) WithDebounce(d time.Duration) *File {
	w.debounce = d
	return w
}

// Run blocks until ctx is cancelled, reloading on every debounced change.
// Reload errors are logged and do not stop the watcher.
func (w *File) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	abs, err := filepath.Abs(w.path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	w.logger.Debug("watching file", slog.String("path", abs))

	var (
		mu    sync.Mutex
		timer *time.Timer
		wg    sync.WaitGroup
	)
	defer func() {
		mu.Lock()
		if timer != nil && timer.Stop() {
			wg.Done()
		}
		mu.Unlock()
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			mu.Lock()
			if timer != nil && timer.Stop() {
				wg.Done()
			}
			wg.Add(1)
			timer = time.AfterFunc(w.debounce, func() {
				defer wg.Done()
				w.logger.Info("file changed, reloading", slog.String("path", abs))
				if err := w.reload(ctx); err != nil {
					w.logger.Error("reload failed", slog.String("path", abs), slog.Any("error", err))
				}
			})
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", slog.Any("error", err))
		}
	}
}

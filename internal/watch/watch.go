// Package watch re-runs a callback when documents appear in or change under a
// library directory.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"clawbot/internal/logging"
)

const defaultDebounce = 750 * time.Millisecond

// Watcher monitors a directory tree with fsnotify.
type Watcher struct {
	watcher    *fsnotify.Watcher
	extensions []string
	debounce   time.Duration
	logger     *slog.Logger
}

// NewWatcher creates a watcher for files with the given extensions. A
// non-positive debounce uses the default quiet period.
func NewWatcher(logger *slog.Logger, extensions []string, debounce time.Duration) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	normalized := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized = append(normalized, ext)
	}
	return &Watcher{
		watcher:    w,
		extensions: normalized,
		debounce:   debounce,
		logger:     logging.NewComponentLogger(logger, "watch"),
	}, nil
}

// Run watches dir until ctx is done, calling fn once per burst of relevant
// events. fn errors are logged and watching continues.
func (w *Watcher) Run(ctx context.Context, dir string, fn func(context.Context) error) error {
	logger := logging.WithContext(ctx, w.logger)
	if err := w.addTree(dir); err != nil {
		return err
	}
	logger.Info("watching library", logging.String("dir", dir), logging.Duration("debounce", w.debounce))

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create == fsnotify.Create {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						logging.WarnWithContext(logger, "failed to watch new directory", "watch_add_failed",
							logging.String("dir", event.Name),
							logging.Error(err),
							logging.String(logging.FieldErrorHint, "check inotify limits (fs.inotify.max_user_watches)"),
							logging.String(logging.FieldImpact, "documents in this directory will not trigger organize runs"),
						)
					}
					timer.Reset(w.debounce)
					continue
				}
			}
			if !w.relevant(event) {
				continue
			}
			logger.Debug("library change detected", logging.String("path", event.Name), logging.String("op", event.Op.String()))
			timer.Reset(w.debounce)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logging.WarnWithContext(logger, "watcher error", "watch_error",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "events may have been dropped; the next change will trigger a fresh run"),
				logging.String(logging.FieldImpact, "a library change may be missed"),
			)
		case <-timer.C:
			if err := fn(ctx); err != nil {
				logging.WarnWithContext(logger, "watch callback failed", "watch_run_failed",
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "inspect the error above; watching continues"),
					logging.String(logging.FieldImpact, "library not organized for this change"),
				)
			}
		}
	}
}

// Close stops the underlying watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	for _, candidate := range w.extensions {
		if ext == candidate {
			return true
		}
	}
	return false
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			if errors.Is(err, fs.ErrPermission) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		return w.watcher.Add(path)
	})
}

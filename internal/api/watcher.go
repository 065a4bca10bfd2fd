package api

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// reloadDebounce collapses the burst of filesystem events an atomic
// temp-and-rename write produces into one reload.
const reloadDebounce = 500 * time.Millisecond

// RegistryWatcher observes the registry file and triggers the same
// invalidate-and-reload path as the manual reload endpoint. The parent
// directory is watched rather than the file itself so rename-based
// replacement keeps working.
type RegistryWatcher struct {
	path     string
	onChange func()
	logger   *zap.Logger
}

// NewRegistryWatcher creates a watcher for path; onChange fires after the
// debounce window whenever the file is written, created or renamed.
func NewRegistryWatcher(path string, onChange func(), logger *zap.Logger) *RegistryWatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistryWatcher{
		path:     path,
		onChange: onChange,
		logger:   logger.Named("watcher"),
	}
}

// Run watches until the context is cancelled. Watcher setup failures are
// logged, not fatal; the manual reload endpoint still works without it.
func (w *RegistryWatcher) Run(ctx context.Context) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Warn("registry watcher unavailable", zap.Error(err))
		return
	}
	defer watcher.Close()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		w.logger.Warn("failed to watch registry directory",
			zap.String("dir", dir), zap.Error(err))
		return
	}
	w.logger.Info("watching registry file", zap.String("path", w.path))

	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-watcher.Errors:
			if err != nil {
				w.logger.Warn("registry watcher error", zap.Error(err))
			}
		case event := <-watcher.Events:
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(reloadDebounce)
		case <-timerChan(timer):
			timer = nil
			w.logger.Info("registry file changed, reloading")
			w.onChange()
		}
	}
}

func timerChan(timer *time.Timer) <-chan time.Time {
	if timer == nil {
		return nil
	}
	return timer.C
}

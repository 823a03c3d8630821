package render

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// watch calls fn with changed files (subset of files) until ctx is done.
// Directories are watched rather than files since editors often replace
// files on save. Changes are collected until nothing happens for delay.
func watch(ctx context.Context, files []string, delay time.Duration, fn func([]string), log *zap.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("unable to create file watcher: %w", err)
	}
	defer watcher.Close()

	wanted := make(map[string]bool, len(files))
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return fmt.Errorf("unable to watch %s: %w", f, err)
		}
		wanted[abs] = true

		dir := filepath.Dir(abs)
		if slices.Contains(watcher.WatchList(), dir) {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("unable to watch %s: %w", dir, err)
		}
	}

	// armed by the first change only
	debounce := time.NewTimer(time.Hour)
	debounce.Stop()
	defer debounce.Stop()

	pending := make(map[string]bool)

	log.Info("Watching for changes", zap.Int("files", len(wanted)), zap.Duration("delay", delay))
	for {
		select {
		case <-ctx.Done():
			log.Info("Watching stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || !wanted[name] {
				continue
			}
			log.Debug("File changed", zap.String("file", name), zap.Stringer("op", event.Op))
			pending[name] = true
			debounce.Reset(delay)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("File watcher problem", zap.Error(err))

		case <-debounce.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for _, f := range files {
				if abs, _ := filepath.Abs(f); pending[abs] {
					changed = append(changed, f)
				}
			}
			clear(pending)
			fn(changed)
		}
	}
}

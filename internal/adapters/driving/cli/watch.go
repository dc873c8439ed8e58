package cli

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hedgehq/sitenodes/internal/logger"
)

// debounceDelay coalesces editor write bursts into one re-run.
const debounceDelay = 500 * time.Millisecond

// watchAndRun re-runs fn whenever the config file changes, until ctx
// is cancelled. The parent directory is watched because editors often
// replace the file instead of writing it in place.
func watchAndRun(ctx context.Context, path string, fn func(context.Context)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return err
	}

	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case <-timerCh:
			logger.Info("config changed, re-running pass")
			fn(ctx)

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || abs != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceDelay)
				timerCh = timer.C
			} else {
				timer.Reset(debounceDelay)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error: %v", err)
		}
	}
}

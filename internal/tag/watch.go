package tag

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// WatchDebounce is how long the watcher waits for a burst of file events to
// settle before reloading.
const WatchDebounce = 100 * time.Millisecond

// Watch keeps the store's mirror in step with edits made to the tags file
// by other processes (an operator repairing it, a restore from backup).
// It watches the containing directory, creating it if needed, since atomic
// writes replace the file.
// Watch blocks until ctx is done.
func Watch(ctx context.Context, s *Store, log *zap.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(s.Path())
	base := filepath.Base(s.Path())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating tags directory: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	log.Debug("watching tags file", zap.String("path", s.Path()))

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(WatchDebounce)
			} else {
				timer.Reset(WatchDebounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := s.Refresh(); err != nil {
				if IsCorrupt(err) {
					log.Error("tags file is corrupt, keeping previous mirror",
						zap.String("path", s.Path()), zap.Error(err))
				} else {
					log.Warn("reloading tags file", zap.Error(err))
				}
				continue
			}
			log.Debug("reloaded tags file", zap.Int("tags", len(s.MirrorNames())))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("tags file watcher error", zap.Error(err))
		}
	}
}

package daemon

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"wallshift/internal/logging"
)

const watchDebounce = 500 * time.Millisecond

// WatchConfig reloads the daemon when its config file changes on disk. The
// watch is on the parent directory because editors typically replace the
// file by rename, which would silently drop a watch on the file itself.
func (d *Daemon) WatchConfig(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := filepath.Dir(d.configPath)
	if err := watcher.Add(dir); err != nil {
		return err
	}

	logger := logging.WithComponent(d.logger, "watcher")
	logger.Info("watching config file", logging.String("path", d.configPath))

	var debounce *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(d.configPath) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(watchDebounce)
			} else {
				debounce.Reset(watchDebounce)
			}
			fire = debounce.C
		case <-fire:
			fire = nil
			logger.Info("config file changed, reloading")
			if err := d.Reload(ctx); err != nil {
				logger.Error("automatic reload failed", logging.Error(err))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watch error", logging.Error(err))
		}
	}
}

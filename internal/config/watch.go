package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"forecast-api/pkg/logging"
)

// ReloadFunc receives either the reloaded Config or the error that stopped it.
type ReloadFunc func(cfg *Config, err error)

// Watch monitors path and calls onReload each time the file is written or
// replaced. It runs until ctx is cancelled.
//
// The parent directory is watched rather than the file, so saves that rename
// a new file over path keep being seen.
//
// A reload that fails to parse or validate is logged and reported with a nil
// Config; the previous config stays active.
func Watch(ctx context.Context, path string, logger *logging.StructuredLogger, onReload ReloadFunc) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("failed to watch config %s: %w", path, err)
	}

	target := filepath.Clean(path)
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return err
	}

	logger.Info(ctx, "[CONFIG_WATCH] Watching config for changes", logging.Fields{
		"path": path,
	})

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			// A rename over path arrives as Create.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			cfg, err := Load(path)
			if err == nil {
				err = cfg.Validate()
			}
			if err != nil {
				logger.Error(ctx, "[CONFIG_RELOAD_ERROR] Reload failed, keeping previous config", logging.Fields{
					"path": path,
				}, err)
				onReload(nil, err)
				continue
			}

			logger.Info(ctx, "[CONFIG_RELOAD] Config reloaded", logging.Fields{
				"path": path,
			})
			onReload(cfg, nil)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error(ctx, "[CONFIG_WATCH_ERROR] Watcher error", logging.Fields{}, err)
		}
	}
}

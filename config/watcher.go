package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch reloads path whenever it is written and hands the new configuration
// to onChange. Invalid files are logged and skipped. Watch blocks until ctx
// is done.
func Watch(ctx context.Context, path string, onChange func(*Config), logger *zap.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	// Editors often replace the file, so watch the directory instead.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			next, err := Load(path)
			if err != nil {
				logger.Warn("config reload failed", zap.String("path", path), zap.Error(err))
				continue
			}
			logger.Info("config reloaded", zap.String("path", path))
			onChange(next)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watcher error", zap.Error(err))
		}
	}
}

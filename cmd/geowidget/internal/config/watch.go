package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceDelay = 100 * time.Millisecond

// Watch reloads path whenever it changes and passes every valid result to
// onChange. The directory is watched so editors that replace the file are
// followed. Watching stops when ctx is done.
func Watch(ctx context.Context, path string, log *slog.Logger, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	go func() {
		defer watcher.Close()

		debounce := time.NewTimer(0)
		<-debounce.C // drain initial timer

		for {
			select {
			case <-ctx.Done():
				debounce.Stop()
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				debounce.Reset(debounceDelay)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn("config: watcher error", "err", err)

			case <-debounce.C:
				cfg, err := Load(abs)
				if err == nil {
					err = cfg.Validate()
				}
				if err != nil {
					log.Warn("config: reload rejected", "path", abs, "err", err)
					continue
				}
				log.Info("config: reloaded", "path", abs)
				onChange(cfg)
			}
		}
	}()
	return nil
}

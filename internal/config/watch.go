package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/ayusman/brochure/internal/logger"
)

// DefaultWatchDebounce collapses the burst of events an editor save produces.
const DefaultWatchDebounce = 200 * time.Millisecond

// Watch reloads the config file at path whenever it changes and passes the
// result to onChange. Files that fail to load or validate are logged and
// skipped. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, debounce time.Duration, onChange func(*Config)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	log := logger.Named("config")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file instead of writing it.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch config dir: %w", err)
	}
	log.Info("watching config", zap.String("path", abs))

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
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if name, _ := filepath.Abs(event.Name); name != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			cfg, err := LoadFile(abs)
			if err != nil {
				log.Warn("config reload failed", zap.Error(err))
				continue
			}
			log.Info("config reloaded", zap.String("path", abs))
			onChange(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("config watcher error", zap.Error(err))
		}
	}
}

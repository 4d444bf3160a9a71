package server

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/sparqlviz/sparqlviz/internal/rdf"
)

// DefaultDebounce is how long Watch waits for writes to settle before
// reloading.
const DefaultDebounce = 300 * time.Millisecond

// Watch reloads path whenever it changes, until ctx is cancelled. The
// parent directory is watched so editors that replace the file on save are
// followed. Reload errors are logged and the previous view is kept.
func (s *Server) Watch(ctx context.Context, path string, format rdf.Format, debounce time.Duration) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	s.logger.Info("watching input", zap.String("path", abs))

	// Debounce timer to avoid multiple rapid reloads
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			s.logger.Debug("input changed",
				zap.String("file", event.Name),
				zap.String("operation", event.Op.String()))

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounce, func() {
				if err := s.LoadFile(abs, format); err != nil {
					s.logger.Warn("reload failed, keeping previous graph",
						zap.String("path", abs), zap.Error(err))
					return
				}
				s.logger.Info("input reloaded", zap.String("path", abs))
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("file watcher error", zap.Error(err))

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

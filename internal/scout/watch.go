package prowl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// WatchEvent represents a filesystem event type.
type WatchEvent string

const (
	EventCreate WatchEvent = "create"
	EventModify WatchEvent = "modify"
	EventDelete WatchEvent = "delete"
)

// WatchOptions configures a watch session. The same pattern semantics as the
// traversal apply; events on non-matching names are dropped.
type WatchOptions struct {
	Pattern   string
	Recursive bool
	LogLevel  LogLevel

	// Timeout stops the watch after the given duration. Zero means watch
	// until the context is canceled.
	Timeout time.Duration

	Logger *zap.Logger
}

// WatchResult is delivered to the handler once per matching event.
type WatchResult struct {
	Path  string
	Name  string
	Event WatchEvent
	Error error
}

// WatchHandler processes watch events.
type WatchHandler func(ctx context.Context, result WatchResult) error

func defaultWatchHandler() WatchHandler {
	return func(ctx context.Context, result WatchResult) error {
		if result.Error != nil {
			return result.Error
		}
		fmt.Printf("%s: %s\n", result.Event, result.Path)
		return nil
	}
}

// Watch reports files that appear, change or disappear under root and whose
// base name matches the pattern. It is sequential and uses no worker pool;
// it runs until the context is canceled or the timeout elapses.
func Watch(ctx context.Context, root string, opts WatchOptions, handler WatchHandler) error {
	if handler == nil {
		handler = defaultWatchHandler()
	}
	logger := opts.Logger
	if logger == nil {
		logger = createLogger(opts.LogLevel)
		defer logger.Sync()
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(root); err != nil {
		return fmt.Errorf("error watching directory %s: %w", root, err)
	}

	// In recursive mode every existing subdirectory is watched too; failures
	// on individual subdirectories are logged and skipped.
	if opts.Recursive {
		err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				logger.Error("could not access path while arming watch",
					zap.String("path", path), zap.Error(err))
				return nil
			}
			if info.IsDir() && path != root {
				if err := watcher.Add(path); err != nil {
					logger.Error("error watching directory",
						zap.String("path", path), zap.Error(err))
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("error walking directory tree: %w", err)
		}
	}

	logger.Info("watching", zap.String("root", root), zap.String("pattern", opts.Pattern))

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			var eventType WatchEvent
			switch {
			case event.Has(fsnotify.Create):
				eventType = EventCreate
			case event.Has(fsnotify.Write):
				eventType = EventModify
			case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
				eventType = EventDelete
			default:
				continue
			}

			// A directory appearing under a recursive watch extends the watch.
			if eventType == EventCreate && opts.Recursive {
				if info, err := os.Lstat(event.Name); err == nil && info.IsDir() {
					if err := watcher.Add(event.Name); err != nil {
						logger.Error("error watching new directory",
							zap.String("path", event.Name), zap.Error(err))
					}
					continue
				}
			}

			if opts.Pattern != "" {
				matched, err := Glob(opts.Pattern, filepath.Base(event.Name))
				if err != nil || !matched {
					continue
				}
			}

			if err := handler(ctx, WatchResult{
				Path:  event.Name,
				Name:  filepath.Base(event.Name),
				Event: eventType,
			}); err != nil {
				return err
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", zap.Error(err))

		case <-ctx.Done():
			return nil
		}
	}
}

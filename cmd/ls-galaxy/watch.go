package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/litescript/ls-galaxy/internal/catalog"
	"github.com/litescript/ls-galaxy/internal/logging"
)

// watchDebounce coalesces the burst of events an editor save produces.
const watchDebounce = 250 * time.Millisecond

// watchFile calls reload whenever the catalog file at source is written,
// created or renamed into place. Only local files can be watched.
func watchFile(ctx context.Context, source string, log *logging.Logger, reload func(reason string)) (stop func(), err error) {
	if !watchable(source) {
		return nil, fmt.Errorf("catalog %q is not a local file", source)
	}

	path, err := filepath.Abs(source)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", source, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory: editors often replace the file instead of
	// writing it in place, which drops a watch on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	done := make(chan struct{})
	go func() {
		var timer *time.Timer
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != path {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				log.Debug("%s: %s", event.Op, event.Name)
				if timer != nil {
					timer.Stop()
				}
				reason := event.Op.String()
				timer = time.AfterFunc(watchDebounce, func() {
					log.Info("Catalog changed (%s), reloading", strings.ToLower(reason))
					reload(reason)
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn("Watcher error: %v", err)
			}
		}
	}()

	log.Debug("Watching %s", path)
	return func() {
		close(done)
		watcher.Close()
	}, nil
}

func watchable(source string) bool {
	switch {
	case source == "", source == catalog.SourceBuiltin, source == catalog.SourceStdin:
		return false
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return false
	}
	return true
}

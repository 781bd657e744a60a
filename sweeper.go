package main

import (
	"context"
	"path/filepath"
	"strings"

	"workboard/pkg/policy"

	"github.com/fsnotify/fsnotify"
)

// startStorageSweeper watches the template bucket for out-of-band changes
// (files replaced or removed directly on disk) and publishes template
// invalidation events so connected clients refetch the list. Runs until
// ctx is cancelled.
func startStorageSweeper(ctx context.Context, h *hub) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	dir := filepath.Join(storageBase, templateBucket)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if strings.HasPrefix(filepath.Base(event.Name), "thumb_") {
					continue
				}
				if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				logger.Infow("storage change detected", "file", event.Name, "op", event.Op.String())
				h.publish(ctx, ChangeEvent{Table: string(policy.TableTemplates), Action: "updated"})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warnw("storage watcher error", "error", err)
			}
		}
	}()
	return nil
}

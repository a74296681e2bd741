// Copyright (C) 2025 Daleel AI (engineering@daleel.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/daleel-ai/daleel/services/answers/engine"
)

// debounceWindow coalesces the burst of filesystem events an editor or
// deploy produces into one reload.
const debounceWindow = 500 * time.Millisecond

// Watch reloads the store whenever a YAML file in dir changes.
//
// Description:
//
//	Blocks until ctx is cancelled. Events are debounced, and a reload that
//	fails validation is logged and counted but leaves the previous snapshot
//	serving, so a bad edit can never take the corpus down.
//
// Inputs:
//
//	ctx - Cancellation context; Watch returns ctx.Err() when it fires.
//	dir - The records directory to watch. Must be non-empty.
//	catalog - Catalogs to validate reloaded records against.
func (s *Store) Watch(ctx context.Context, dir string, catalog *engine.Catalog) error {
	if dir == "" {
		return fmt.Errorf("store: Watch requires a records directory")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("store: creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("store: watching %s: %w", dir, err)
	}
	s.logger.Info("watching answer corpus", slog.String("dir", dir))

	var timer *time.Timer
	var timerC <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
				timerC = timer.C
			} else {
				timer.Reset(debounceWindow)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("corpus watcher error", slog.String("error", err.Error()))

		case <-timerC:
			timer = nil
			timerC = nil
			if err := s.Reload(ctx, dir, catalog); err != nil {
				reloadFailures.Inc()
				s.logger.Error("corpus reload rejected, previous snapshot stays live",
					slog.String("error", err.Error()))
			}
		}
	}
}

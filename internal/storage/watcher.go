package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event kinds reported by Watch.
const (
	KindCreated = "created"
	KindUpdated = "updated"
	KindDeleted = "deleted"
)

// EventCallback is called when a key changes on disk.
type EventCallback func(kind string, key string)

// Watch observes the FS provider's root for keys changed by other processes
// and calls cb until ctx is cancelled. Writes that leave a key's content
// unchanged are not reported.
//
// Rename events and new directories trigger a rescan, delayed by debounce,
// that reports keys which disappeared or appeared in the meantime.
func Watch(ctx context.Context, store *FS, debounce time.Duration, logger *slog.Logger, cb EventCallback) error {
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, store.Root()); err != nil {
		return err
	}

	known := snapshot(store, logger)
	logger.Info("watcher: started", slog.String("root", store.Root()), slog.Int("keys", len(known)))

	emit := func(kind, key string) {
		logger.Debug("watcher: change", slog.String("key", key), slog.String("op", kind))
		if cb != nil {
			cb(kind, key)
		}
	}

	// refresh re-reads key and reports it if its content changed.
	refresh := func(key string) {
		data, readErr := store.Get(key)
		if readErr != nil {
			logger.Warn("watcher: read failed", slog.String("key", key), slog.String("error", readErr.Error()))
			return
		}
		sum := checksum(data)
		prev, seen := known[key]
		if seen && prev == sum {
			return
		}
		known[key] = sum
		if seen {
			emit(KindUpdated, key)
		} else {
			emit(KindCreated, key)
		}
	}

	var rescanTimer *time.Timer
	var rescanCh <-chan time.Time

	scheduleRescan := func() {
		if rescanTimer == nil {
			rescanTimer = time.NewTimer(debounce)
			rescanCh = rescanTimer.C
		} else {
			rescanTimer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if rescanTimer != nil {
				rescanTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-rescanCh:
			current := snapshot(store, logger)
			for key := range known {
				if _, ok := current[key]; !ok {
					delete(known, key)
					emit(KindDeleted, key)
				}
			}
			for key := range current {
				refresh(key)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
					scheduleRescan()
					continue
				}
			}

			key, isKey := store.KeyForPath(ev.Name)
			if !isKey {
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				refresh(key)

			case ev.Op&fsnotify.Remove != 0:
				if _, seen := known[key]; seen {
					delete(known, key)
					emit(KindDeleted, key)
				}

			case ev.Op&fsnotify.Rename != 0:
				// The new name, if any, arrives as a separate Create.
				scheduleRescan()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// snapshot returns the checksum of every key currently stored.
func snapshot(store *FS, logger *slog.Logger) map[string]string {
	out := make(map[string]string)
	keys, err := store.Keys("")
	if err != nil {
		logger.Warn("watcher: list failed", slog.String("error", err.Error()))
		return out
	}
	for _, key := range keys {
		data, err := store.Get(key)
		if err != nil {
			continue
		}
		out[key] = checksum(data)
	}
	return out
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}

func checksum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

package index

import (
	"context"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/starford/skald/internal/storage"
)

// EventCallback is called after a watcher-driven index change.
// kind is one of "created", "updated", "deleted".
type EventCallback func(kind string, id string)

// Watch starts an fsnotify watcher on the library directory and processes
// file change events until ctx is cancelled. It calls cb (if non-nil) after
// each successful index mutation.
//
// The library is flat, so only the root itself is watched. Rename events
// trigger a reconciliation pass that removes stale index entries whose files
// no longer exist on disk; editors that save via rename (as the atomic
// writer here does) surface as Create events for the final path.
func Watch(ctx context.Context, db *DB, store storage.Provider, libraryRoot string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(libraryRoot); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", libraryRoot))

	// reconcileTimer is used to debounce rename reconciliation.
	var reconcileTimer *time.Timer
	var reconcileCh <-chan time.Time

	scheduleReconcile := func() {
		if reconcileTimer == nil {
			reconcileTimer = time.NewTimer(200 * time.Millisecond)
			reconcileCh = reconcileTimer.C
		} else {
			reconcileTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reconcileTimer != nil {
				reconcileTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reconcileCh:
			reconcileAfterRename(db, store, logger, cb)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			// Temp files and non-deck files never reach the index.
			id := storage.DeckID(ev.Name)
			if id == "" {
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				data, readErr := store.Read(id)
				if readErr != nil {
					logger.Warn("watcher: read failed", slog.String("id", id), slog.String("error", readErr.Error()))
					continue
				}
				if idxErr := IndexDocument(db, id, data); idxErr != nil {
					logger.Warn("watcher: index failed", slog.String("id", id), slog.String("error", idxErr.Error()))
					continue
				}
				kind := "updated"
				if ev.Op&fsnotify.Create != 0 {
					kind = "created"
				}
				logger.Debug("watcher: indexed", slog.String("id", id), slog.String("op", kind))
				if cb != nil {
					cb(kind, id)
				}

			case ev.Op&fsnotify.Remove != 0:
				if delErr := db.DeleteDeck(id); delErr != nil {
					logger.Warn("watcher: delete failed", slog.String("id", id), slog.String("error", delErr.Error()))
					continue
				}
				logger.Debug("watcher: deleted", slog.String("id", id))
				if cb != nil {
					cb("deleted", id)
				}

			case ev.Op&fsnotify.Rename != 0:
				// fsnotify fires Rename on the OLD path only. The new
				// path arrives as a separate Create event. Delete the
				// old entry immediately and schedule a short
				// reconciliation pass to catch any stragglers.
				if delErr := db.DeleteDeck(id); delErr != nil {
					logger.Warn("watcher: rename delete failed", slog.String("id", id), slog.String("error", delErr.Error()))
				} else {
					logger.Debug("watcher: rename old deleted", slog.String("id", id))
					if cb != nil {
						cb("deleted", id)
					}
				}
				scheduleReconcile()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// reconcileAfterRename does a lightweight sync using batch lookups:
// finds index entries without a corresponding file on disk and removes them,
// and finds on-disk decks that are not indexed and indexes them.
func reconcileAfterRename(db *DB, store storage.Provider, logger *slog.Logger, cb EventCallback) {
	checksums, err := db.AllChecksums()
	if err != nil {
		logger.Warn("reconcile: all checksums failed", slog.String("error", err.Error()))
		return
	}

	metas, err := store.List()
	if err != nil {
		logger.Warn("reconcile: list failed", slog.String("error", err.Error()))
		return
	}

	disk := make(map[string]string, len(metas))
	for _, m := range metas {
		disk[m.ID] = m.Checksum
	}

	for id := range checksums {
		if _, ok := disk[id]; !ok {
			if delErr := db.DeleteDeck(id); delErr == nil {
				logger.Debug("reconcile: removed stale", slog.String("id", id))
				if cb != nil {
					cb("deleted", id)
				}
			}
		}
	}

	for id, cs := range disk {
		if checksums[id] == cs {
			continue
		}
		data, readErr := store.Read(id)
		if readErr != nil {
			continue
		}
		if idxErr := IndexDocument(db, id, data); idxErr == nil {
			logger.Debug("reconcile: indexed new", slog.String("id", id))
			if cb != nil {
				cb("created", id)
			}
		}
	}
}

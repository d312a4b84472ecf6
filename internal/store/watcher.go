package store

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/openstrand/strandkit/internal/checksum"
	"github.com/openstrand/strandkit/internal/document"
	"github.com/openstrand/strandkit/internal/workspace"
)

// EventCallback is called after a watcher-driven store change.
// event is one of "created", "updated", "deleted".
type EventCallback func(event string, id string)

// Watch starts an fsnotify watcher on the workspace root and processes file
// change events until ctx is cancelled. It calls cb (if non-nil) after each
// successful store mutation.
//
// New directories created at runtime are automatically added to the watch
// list. Rename events trigger a reconciliation pass that removes stale
// records whose files no longer exist on disk.
func Watch(ctx context.Context, db *DB, ws workspace.Provider, parser *document.Parser, root string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

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
			reconcileAfterRename(db, ws, parser, logger, cb)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			absPath := ev.Name

			// New directories: add to the watch list and import anything
			// already inside them.
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(absPath); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, absPath); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", absPath),
							slog.String("error", addErr.Error()))
					} else {
						logger.Debug("watcher: watching new dir", slog.String("path", absPath))
					}
					importNewDir(db, ws, parser, root, absPath, logger, cb)
					continue
				}
			}

			// Only schema files from here on.
			if !workspace.IsSchemaFile(absPath) {
				continue
			}

			rel, relErr := filepath.Rel(root, absPath)
			if relErr != nil {
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				data, readErr := ws.Read(rel)
				if readErr != nil {
					logger.Warn("watcher: read failed", slog.String("path", rel), slog.String("error", readErr.Error()))
					continue
				}
				known, _ := db.hasTrackedFile(rel)
				if impErr := importFile(db, parser, rel, checksum.Sum(data), data); impErr != nil {
					logger.Warn("watcher: import failed", slog.String("path", rel), slog.String("error", impErr.Error()))
					continue
				}
				event := "updated"
				if !known {
					event = "created"
				}
				logger.Debug("watcher: imported", slog.String("path", rel), slog.String("op", event))
				if cb != nil {
					cb(event, rel)
				}

			case ev.Op&fsnotify.Remove != 0:
				if delErr := db.forgetFile(rel); delErr != nil {
					logger.Warn("watcher: delete failed", slog.String("path", rel), slog.String("error", delErr.Error()))
					continue
				}
				logger.Debug("watcher: deleted", slog.String("path", rel))
				if cb != nil {
					cb("deleted", rel)
				}

			case ev.Op&fsnotify.Rename != 0:
				// fsnotify fires Rename on the OLD path only. The new path
				// arrives as a separate Create event (if it stays within a
				// watched dir). Drop the old record now and schedule a short
				// reconciliation pass to catch stragglers.
				if delErr := db.forgetFile(rel); delErr != nil {
					logger.Warn("watcher: rename delete failed", slog.String("path", rel), slog.String("error", delErr.Error()))
				} else {
					logger.Debug("watcher: rename old deleted", slog.String("path", rel))
					if cb != nil {
						cb("deleted", rel)
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

// reconcileAfterRename does a lightweight sync using batch lookups: tracked
// paths without a file on disk are forgotten, and on-disk files that changed
// or appeared are re-imported.
func reconcileAfterRename(db *DB, ws workspace.Provider, parser *document.Parser, logger *slog.Logger, cb EventCallback) {
	tracked, err := db.allFileChecksums()
	if err != nil {
		logger.Warn("reconcile: file checksums failed", slog.String("error", err.Error()))
		return
	}

	metas, err := ws.List("")
	if err != nil {
		logger.Warn("reconcile: list failed", slog.String("error", err.Error()))
		return
	}

	disk := make(map[string]string, len(metas))
	for _, m := range metas {
		disk[m.Path] = m.Checksum
	}

	for p := range tracked {
		if _, ok := disk[p]; !ok {
			if delErr := db.forgetFile(p); delErr == nil {
				logger.Debug("reconcile: removed stale", slog.String("path", p))
				if cb != nil {
					cb("deleted", p)
				}
			}
		}
	}

	for p, cs := range disk {
		if tracked[p] == cs {
			continue
		}
		data, readErr := ws.Read(p)
		if readErr != nil {
			continue
		}
		if impErr := importFile(db, parser, p, cs, data); impErr == nil {
			logger.Debug("reconcile: imported", slog.String("path", p))
			if cb != nil {
				cb("created", p)
			}
		}
	}
}

// importNewDir imports any schema files found in a newly created directory.
func importNewDir(db *DB, ws workspace.Provider, parser *document.Parser, root, dirPath string, logger *slog.Logger, cb EventCallback) {
	_ = filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !workspace.IsSchemaFile(path) {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		data, readErr := ws.Read(rel)
		if readErr != nil {
			return nil
		}
		if impErr := importFile(db, parser, rel, checksum.Sum(data), data); impErr == nil {
			logger.Debug("watcher: imported from new dir", slog.String("path", rel))
			if cb != nil {
				cb("created", rel)
			}
		}
		return nil
	})
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

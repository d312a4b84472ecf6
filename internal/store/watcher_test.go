package store

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/openstrand/strandkit/internal/apperr"
	"github.com/openstrand/strandkit/internal/document"
	"github.com/openstrand/strandkit/internal/icons"
	"github.com/openstrand/strandkit/internal/workspace"
)

const strandDoc = "---\nkind: Strand\ntitle: Watched\n---\nBody\n"

// watcherTestEnv sets up a workspace dir, provider, parser, and DB for
// watcher tests.
func watcherTestEnv(t *testing.T) (string, workspace.Provider, *document.Parser, *DB) {
	t.Helper()
	root := t.TempDir()
	ws, err := workspace.NewFS(root)
	if err != nil {
		t.Fatal(err)
	}
	dbFile, err := os.CreateTemp("", "strandkit-watcher-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })
	db, err := Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return root, ws, document.NewParser(icons.Default()), db
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func hasRecord(db *DB, id string) bool {
	_, err := db.Get(id)
	return err == nil
}

func TestWatcher_NewFileImported(t *testing.T) {
	root, ws, parser, db := watcherTestEnv(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var events []string

	go Watch(ctx, db, ws, parser, root, quietLogger(), func(event, id string) {
		mu.Lock()
		events = append(events, event+":"+id)
		mu.Unlock()
	})

	time.Sleep(100 * time.Millisecond)

	_ = os.WriteFile(filepath.Join(root, "new.md"), []byte(strandDoc), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return hasRecord(db, "new.md")
	}, "new file not imported by watcher")

	eventually(t, 2*time.Second, 50*time.Millisecond, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, e := range events {
			if e == "created:new.md" {
				return true
			}
		}
		return false
	}, "expected created:new.md callback")
}

func TestWatcher_NewDirWatched(t *testing.T) {
	root, ws, parser, db := watcherTestEnv(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go Watch(ctx, db, ws, parser, root, quietLogger(), nil)

	time.Sleep(100 * time.Millisecond)

	subDir := filepath.Join(root, "subdir")
	_ = os.MkdirAll(subDir, 0o755)
	time.Sleep(100 * time.Millisecond)

	_ = os.WriteFile(filepath.Join(subDir, "deep.md"), []byte(strandDoc), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return hasRecord(db, filepath.Join("subdir", "deep.md"))
	}, "file in new subdir not imported by watcher")
}

func TestWatcher_DeleteRemovesRecord(t *testing.T) {
	root, ws, parser, db := watcherTestEnv(t)

	_ = os.WriteFile(filepath.Join(root, "del.md"), []byte(strandDoc), 0o644)
	if err := Sync(db, ws, parser, quietLogger()); err != nil {
		t.Fatal(err)
	}
	if !hasRecord(db, "del.md") {
		t.Fatal("precondition: file should be imported")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go Watch(ctx, db, ws, parser, root, quietLogger(), nil)
	time.Sleep(100 * time.Millisecond)

	_ = os.Remove(filepath.Join(root, "del.md"))

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		_, err := db.Get("del.md")
		return errors.Is(err, apperr.ErrNotFound)
	}, "deleted file still in store")
}

func TestWatcher_RenameReconciles(t *testing.T) {
	root, ws, parser, db := watcherTestEnv(t)

	_ = os.WriteFile(filepath.Join(root, "old.md"), []byte(strandDoc), 0o644)
	if err := Sync(db, ws, parser, quietLogger()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go Watch(ctx, db, ws, parser, root, quietLogger(), nil)
	time.Sleep(100 * time.Millisecond)

	_ = os.Rename(filepath.Join(root, "old.md"), filepath.Join(root, "renamed.md"))

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return !hasRecord(db, "old.md") && hasRecord(db, "renamed.md")
	}, "rename reconciliation failed: old record should be removed and new path imported")
}

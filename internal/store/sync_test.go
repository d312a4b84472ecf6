package store

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/openstrand/strandkit/internal/apperr"
	"github.com/openstrand/strandkit/internal/document"
	"github.com/openstrand/strandkit/internal/icons"
	"github.com/openstrand/strandkit/internal/schema"
	"github.com/openstrand/strandkit/internal/workspace"
)

func testSyncEnv(t *testing.T) (*DB, workspace.Provider, *document.Parser, *slog.Logger) {
	t.Helper()
	db := testDB(t)
	ws, err := workspace.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	parser := document.NewParser(icons.Default())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return db, ws, parser, logger
}

func TestSync_ImportsFiles(t *testing.T) {
	db, ws, parser, logger := testSyncEnv(t)

	ws.Write("loom.yaml", []byte("kind: Loom\nmetadata:\n  name: Synced\n"))
	ws.Write("topics/intro.md", []byte("---\nkind: Strand\ntitle: Intro\n---\nBody\n"))

	if err := Sync(db, ws, parser, logger); err != nil {
		t.Fatalf("sync: %v", err)
	}

	rec, err := db.Get("loom.yaml")
	if err != nil {
		t.Fatalf("get loom: %v", err)
	}
	if rec.Meta.State != StateDraft {
		t.Errorf("state = %q, want draft", rec.Meta.State)
	}
	if rec.Schema.(*schema.Loom).Metadata.Name != "Synced" {
		t.Errorf("schema = %+v", rec.Schema)
	}

	if _, err := db.Get("topics/intro.md"); err != nil {
		t.Fatalf("get strand: %v", err)
	}
}

func TestSync_SkipsBrokenFiles(t *testing.T) {
	db, ws, parser, logger := testSyncEnv(t)

	ws.Write("good.yaml", []byte("kind: Loom\nmetadata:\n  name: Good\n"))
	ws.Write("bad.yaml", []byte("kind: Loom\n")) // missing metadata.name

	if err := Sync(db, ws, parser, logger); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if _, err := db.Get("good.yaml"); err != nil {
		t.Errorf("good file not imported: %v", err)
	}
	if _, err := db.Get("bad.yaml"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("broken file must be skipped, got %v", err)
	}
}

func TestSync_RemovesStaleRecords(t *testing.T) {
	db, ws, parser, logger := testSyncEnv(t)

	ws.Write("loom.yaml", []byte("kind: Loom\nmetadata:\n  name: X\n"))
	if err := Sync(db, ws, parser, logger); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Get("loom.yaml"); err != nil {
		t.Fatal(err)
	}

	ws.Delete("loom.yaml")
	if err := Sync(db, ws, parser, logger); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Get("loom.yaml"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("stale record must be removed, got %v", err)
	}
}

func TestSync_SkipsUnchangedFiles(t *testing.T) {
	db, ws, parser, logger := testSyncEnv(t)

	ws.Write("loom.yaml", []byte("kind: Loom\nmetadata:\n  name: X\n"))
	if err := Sync(db, ws, parser, logger); err != nil {
		t.Fatal(err)
	}

	// Promote the record; an unchanged file must not demote it to draft.
	if _, err := db.MarkPublished("loom.yaml"); err != nil {
		t.Fatal(err)
	}
	if err := Sync(db, ws, parser, logger); err != nil {
		t.Fatal(err)
	}
	rec, err := db.Get("loom.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Meta.State != StatePublished {
		t.Errorf("state = %q, unchanged file must be skipped", rec.Meta.State)
	}

	// A changed file re-imports as draft.
	ws.Write("loom.yaml", []byte("kind: Loom\nmetadata:\n  name: Edited\n"))
	if err := Sync(db, ws, parser, logger); err != nil {
		t.Fatal(err)
	}
	rec, _ = db.Get("loom.yaml")
	if rec.Meta.State != StateDraft {
		t.Errorf("state = %q, want draft after file change", rec.Meta.State)
	}
}

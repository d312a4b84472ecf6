package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/openstrand/strandkit/internal/apperr"
	"github.com/openstrand/strandkit/internal/checksum"
	"github.com/openstrand/strandkit/internal/codec"
	"github.com/openstrand/strandkit/internal/document"
	"github.com/openstrand/strandkit/internal/schema"
)

// Save inserts or updates a record. The checksum is recomputed from the
// schema on every write; original and published_at are never touched here.
// An empty id gets a generated one. Same-id writes are serialised by SQLite
// row locking: the last write physically committed wins, with no merge.
func (db *DB) Save(id string, s schema.Schema, opts SaveOptions) (*Record, error) {
	if s == nil {
		return nil, fmt.Errorf("store: save: schema is nil")
	}
	if id == "" {
		id = uuid.NewString()
	}

	doc, err := document.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("store: save %s: %w", id, err)
	}

	state := StateSaved
	switch {
	case opts.Draft:
		state = StateDraft
	case opts.Pending:
		state = StatePending
	}

	_, err = db.conn.Exec(`
		INSERT INTO records (id, kind, state, name, checksum, saved_at, doc)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind     = excluded.kind,
			state    = excluded.state,
			name     = excluded.name,
			checksum = excluded.checksum,
			saved_at = excluded.saved_at,
			doc      = excluded.doc
	`, id, string(s.SchemaKind()), string(state), displayName(s),
		checksum.Sum(doc), time.Now().UTC(), string(doc))
	if err != nil {
		return nil, fmt.Errorf("store: save %s: %w", id, err)
	}
	return db.Get(id)
}

// Get returns the record for id, or apperr.ErrNotFound.
func (db *DB) Get(id string) (*Record, error) {
	row := db.conn.QueryRow(`
		SELECT id, kind, state, checksum, saved_at, published_at, doc, original
		FROM records WHERE id = ?
	`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get %s: %w", id, err)
	}
	return rec, nil
}

// Delete removes the record for id, or returns apperr.ErrNotFound.
func (db *DB) Delete(id string) error {
	res, err := db.conn.Exec(`DELETE FROM records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Clear removes every record.
func (db *DB) Clear() error {
	if _, err := db.conn.Exec(`DELETE FROM records`); err != nil {
		return fmt.Errorf("store: clear: %w", err)
	}
	return nil
}

// ListByKind returns all records of kind k in insertion order.
func (db *DB) ListByKind(k schema.Kind) ([]*Record, error) {
	return db.queryRecords(`
		SELECT id, kind, state, checksum, saved_at, published_at, doc, original
		FROM records WHERE kind = ? ORDER BY rowid
	`, string(k))
}

// ListPending returns all records queued for publication, in insertion order.
func (db *DB) ListPending() ([]*Record, error) {
	return db.queryRecords(`
		SELECT id, kind, state, checksum, saved_at, published_at, doc, original
		FROM records WHERE state = ? ORDER BY rowid
	`, string(StatePending))
}

// SearchByName returns records whose display name contains query.
func (db *DB) SearchByName(query string, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = 50
	}
	return db.queryRecords(`
		SELECT id, kind, state, checksum, saved_at, published_at, doc, original
		FROM records WHERE name LIKE ? ORDER BY rowid LIMIT ?
	`, "%"+query+"%", limit)
}

// MarkPublished moves the record to published, snapshots the current schema
// into original, and stamps published_at. This is the only operation that
// writes original. The store does not verify the remote write actually
// happened; that invariant belongs to the sync collaborator.
func (db *DB) MarkPublished(id string) (*Record, error) {
	res, err := db.conn.Exec(`
		UPDATE records
		SET state = ?, published_at = ?, original = doc
		WHERE id = ?
	`, string(StatePublished), time.Now().UTC(), id)
	if err != nil {
		return nil, fmt.Errorf("store: mark published %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, apperr.ErrNotFound
	}
	return db.Get(id)
}

// MarkConflict flags the record for caller reconciliation. It changes only
// the state: schema, original, and timestamps stay as they are. The way out
// of conflict is a fresh save.
func (db *DB) MarkConflict(id string) (*Record, error) {
	res, err := db.conn.Exec(`UPDATE records SET state = ? WHERE id = ?`,
		string(StateConflict), id)
	if err != nil {
		return nil, fmt.Errorf("store: mark conflict %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, apperr.ErrNotFound
	}
	return db.Get(id)
}

// HasUnsavedChanges reports whether the record has local edits not yet
// queued: true exactly when its state is pending or draft.
func (db *DB) HasUnsavedChanges(id string) (bool, error) {
	var state string
	err := db.conn.QueryRow(`SELECT state FROM records WHERE id = ?`, id).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return false, apperr.ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("store: unsaved changes %s: %w", id, err)
	}
	return State(state) == StatePending || State(state) == StateDraft, nil
}

// HasUnpublishedChanges reports whether the record diverges from its
// last-known-published snapshot: true when no snapshot exists yet, or when
// the schema's checksum differs from the snapshot's. This is the only place
// checksums are compared, and both sides go through checksum.Object.
func (db *DB) HasUnpublishedChanges(id string) (bool, error) {
	rec, err := db.Get(id)
	if err != nil {
		return false, err
	}
	if rec.Original == nil {
		return true, nil
	}
	current, err := checksum.Object(rec.Schema)
	if err != nil {
		return false, fmt.Errorf("store: unpublished changes %s: %w", id, err)
	}
	published, err := checksum.Object(rec.Original)
	if err != nil {
		return false, fmt.Errorf("store: unpublished changes %s: %w", id, err)
	}
	return current != published, nil
}

func (db *DB) queryRecords(query string, args ...any) ([]*Record, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: query records: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var (
		id, kind, state, cs, doc string
		savedAt                  time.Time
		publishedAt              sql.NullTime
		original                 sql.NullString
	)
	if err := row.Scan(&id, &kind, &state, &cs, &savedAt, &publishedAt, &doc, &original); err != nil {
		return nil, err
	}

	s, err := decodeDoc(schema.Kind(kind), doc)
	if err != nil {
		return nil, err
	}
	rec := &Record{
		Schema: s,
		Meta: Meta{
			ID:       id,
			Kind:     schema.Kind(kind),
			State:    State(state),
			SavedAt:  savedAt,
			Checksum: cs,
		},
	}
	if publishedAt.Valid {
		t := publishedAt.Time
		rec.Meta.PublishedAt = &t
	}
	if original.Valid && original.String != "" {
		orig, err := decodeDoc(schema.Kind(kind), original.String)
		if err != nil {
			return nil, err
		}
		rec.Original = orig
	}
	return rec, nil
}

// decodeDoc turns a stored canonical document back into its typed shape.
func decodeDoc(k schema.Kind, doc string) (schema.Schema, error) {
	tree, err := codec.Decode([]byte(doc))
	if err != nil {
		return nil, err
	}
	return schema.Decode(k, tree)
}

// displayName extracts the user-facing name used by the name index.
func displayName(s schema.Schema) string {
	switch v := s.(type) {
	case *schema.Loom:
		return v.Metadata.Name
	case *schema.Weave:
		return v.Metadata.Name
	case *schema.Strand:
		return v.Title
	}
	return ""
}

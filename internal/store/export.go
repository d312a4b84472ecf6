package store

import (
	"database/sql"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/openstrand/strandkit/internal/codec"
)

// ExportFormatVersion identifies the export document layout.
const ExportFormatVersion = "1.0"

// exportRecord carries one record verbatim: lifecycle metadata plus the
// stored canonical documents, untouched.
type exportRecord struct {
	ID          string     `yaml:"id"`
	Kind        string     `yaml:"kind"`
	State       string     `yaml:"state"`
	Name        string     `yaml:"name,omitempty"`
	Checksum    string     `yaml:"checksum"`
	SavedAt     time.Time  `yaml:"savedAt"`
	PublishedAt *time.Time `yaml:"publishedAt,omitempty"`
	Doc         string     `yaml:"doc"`
	Original    string     `yaml:"original,omitempty"`
}

type exportDocument struct {
	Version    string         `yaml:"version"`
	ExportedAt time.Time      `yaml:"exportedAt"`
	Records    []exportRecord `yaml:"records"`
}

// Export produces a single YAML document containing every record verbatim,
// stamped with the export time and format version.
func (db *DB) Export() ([]byte, error) {
	rows, err := db.conn.Query(`
		SELECT id, kind, state, name, checksum, saved_at, published_at, doc, original
		FROM records ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("store: export: %w", err)
	}
	defer rows.Close()

	out := exportDocument{
		Version:    ExportFormatVersion,
		ExportedAt: time.Now().UTC(),
		Records:    []exportRecord{},
	}
	for rows.Next() {
		var (
			rec         exportRecord
			publishedAt sql.NullTime
			original    sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.Kind, &rec.State, &rec.Name,
			&rec.Checksum, &rec.SavedAt, &publishedAt, &rec.Doc, &original); err != nil {
			return nil, fmt.Errorf("store: export scan: %w", err)
		}
		if publishedAt.Valid {
			t := publishedAt.Time
			rec.PublishedAt = &t
		}
		if original.Valid {
			rec.Original = original.String
		}
		out.Records = append(out.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: export: %w", err)
	}
	return codec.Encode(out)
}

// Import upserts every record of an export document by id and returns the
// number of records written. An unrecognized top-level shape fails the whole
// operation before any write; a storage failure partway leaves earlier
// writes committed (imports are per-record, not atomic as a whole).
func (db *DB) Import(data []byte) (int, error) {
	var doc exportDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return 0, fmt.Errorf("store: import: %w", err)
	}
	if doc.Version == "" || doc.Records == nil {
		return 0, fmt.Errorf("store: import: unrecognized export document")
	}

	count := 0
	for _, rec := range doc.Records {
		if rec.ID == "" {
			return count, fmt.Errorf("store: import: record %d has no id", count)
		}
		var original any
		if rec.Original != "" {
			original = rec.Original
		}
		_, err := db.conn.Exec(`
			INSERT INTO records (id, kind, state, name, checksum, saved_at, published_at, doc, original)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				kind         = excluded.kind,
				state        = excluded.state,
				name         = excluded.name,
				checksum     = excluded.checksum,
				saved_at     = excluded.saved_at,
				published_at = excluded.published_at,
				doc          = excluded.doc,
				original     = excluded.original
		`, rec.ID, rec.Kind, rec.State, rec.Name, rec.Checksum,
			rec.SavedAt, rec.PublishedAt, rec.Doc, original)
		if err != nil {
			return count, fmt.Errorf("store: import %s: %w", rec.ID, err)
		}
		count++
	}
	return count, nil
}

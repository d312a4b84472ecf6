package store

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/openstrand/strandkit/internal/apperr"
	"github.com/openstrand/strandkit/internal/document"
	"github.com/openstrand/strandkit/internal/schema"
	"github.com/openstrand/strandkit/internal/workspace"
)

// Sync walks the workspace and brings the store up to date:
//   - new/changed schema files are parsed and saved as draft records keyed
//     by their relative path (unchanged files are skipped by file checksum)
//   - records whose source file disappeared are removed
//
// Files that fail to parse or validate are logged and skipped; a broken file
// on disk must not take the whole reconcile down.
func Sync(db *DB, ws workspace.Provider, parser *document.Parser, logger *slog.Logger) error {
	metas, err := ws.List("")
	if err != nil {
		return err
	}

	tracked, err := db.allFileChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if tracked[m.Path] == m.Checksum {
			continue
		}

		data, err := ws.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := importFile(db, parser, m.Path, m.Checksum, data); err != nil {
			logger.Warn("sync: import failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: imported", slog.String("path", m.Path))
		}
	}

	// Remove records whose file is gone.
	for p := range tracked {
		if _, ok := disk[p]; !ok {
			if err := db.forgetFile(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// importFile parses a workspace file by its detected kind and saves the
// result as a draft record keyed by path.
func importFile(db *DB, parser *document.Parser, path, fileChecksum string, data []byte) error {
	kind, ok := document.DetectKind(path, data)
	if !ok {
		return fmt.Errorf("store: cannot detect kind for %s", path)
	}

	text := string(data)
	var (
		res *document.ParseResult
		err error
	)
	switch kind {
	case schema.KindLoom:
		res, err = parser.ParseLoom(text)
	case schema.KindWeave:
		res, err = parser.ParseWeave(text)
	default:
		res, err = parser.ParseStrand(text)
	}
	if err != nil {
		return err
	}
	if !res.OK() {
		return fmt.Errorf("store: %s: %d validation error(s), first: %s",
			path, len(res.Errors), res.Errors[0])
	}

	if _, err := db.Save(path, res.Schema, SaveOptions{Draft: true}); err != nil {
		return err
	}
	return db.trackFile(path, fileChecksum)
}

// forgetFile drops both the file-tracking row and the record it fed.
func (db *DB) forgetFile(path string) error {
	if _, err := db.conn.Exec(`DELETE FROM files WHERE path = ?`, path); err != nil {
		return fmt.Errorf("store: forget file %s: %w", path, err)
	}
	if err := db.Delete(path); err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return err
	}
	return nil
}

// trackFile records the raw-file checksum used for skip-unchanged sync.
func (db *DB) trackFile(path, cs string) error {
	_, err := db.conn.Exec(`
		INSERT INTO files (path, checksum) VALUES (?, ?)
		ON CONFLICT(path) DO UPDATE SET checksum = excluded.checksum
	`, path, cs)
	if err != nil {
		return fmt.Errorf("store: track file %s: %w", path, err)
	}
	return nil
}

// allFileChecksums returns the tracked raw-file checksum for every synced path.
func (db *DB) allFileChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM files`)
	if err != nil {
		return nil, fmt.Errorf("store: file checksums: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

// hasTrackedFile reports whether path has been synced before.
func (db *DB) hasTrackedFile(path string) (bool, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT count(*) FROM files WHERE path = ?`, path).Scan(&n); err != nil {
		return false, fmt.Errorf("store: tracked file %s: %w", path, err)
	}
	return n > 0, nil
}

// Package schemaservice coordinates the document facade and the persistence
// store for the API and MCP surfaces.
package schemaservice

import (
	"context"
	"fmt"

	"github.com/openstrand/strandkit/internal/document"
	"github.com/openstrand/strandkit/internal/schema"
	"github.com/openstrand/strandkit/internal/store"
)

// Notify is called after a successful lifecycle mutation.
// event is one of "saved", "published", "conflict", "deleted".
type Notify func(event string, id string)

// Service wires parsing and persistence together.
type Service struct {
	db     *store.DB
	parser *document.Parser
	notify Notify
}

// NewService creates a new schema service. notify may be nil.
func NewService(db *store.DB, parser *document.Parser, notify Notify) *Service {
	return &Service{db: db, parser: parser, notify: notify}
}

func (s *Service) emit(event, id string) {
	if s.notify != nil {
		s.notify(event, id)
	}
}

// Validate parses content (any kind) and returns the full diagnostic result.
func (s *Service) Validate(_ context.Context, content string) (*document.ParseResult, error) {
	return s.parser.ParseAny(content)
}

// Save parses content and persists it under id. On validation failure the
// parse result carries the complete error list and nothing is written.
func (s *Service) Save(_ context.Context, id, content string, opts store.SaveOptions) (*store.Record, *document.ParseResult, error) {
	res, err := s.parser.ParseAny(content)
	if err != nil {
		return nil, res, err
	}
	if !res.OK() {
		return nil, res, nil
	}
	rec, err := s.db.Save(id, res.Schema, opts)
	if err != nil {
		return nil, res, err
	}
	s.emit("saved", rec.Meta.ID)
	return rec, res, nil
}

// Get returns the stored record for id.
func (s *Service) Get(_ context.Context, id string) (*store.Record, error) {
	return s.db.Get(id)
}

// Render serializes the stored record behind the wrapper envelope.
func (s *Service) Render(_ context.Context, id string) ([]byte, error) {
	rec, err := s.db.Get(id)
	if err != nil {
		return nil, err
	}
	return document.Serialize(rec.Schema)
}

// List returns all records of a kind in insertion order.
func (s *Service) List(_ context.Context, k schema.Kind) ([]*store.Record, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("schemaservice: unknown kind %q", k)
	}
	return s.db.ListByKind(k)
}

// Pending returns all records queued for publication.
func (s *Service) Pending(_ context.Context) ([]*store.Record, error) {
	return s.db.ListPending()
}

// Search returns records whose display name contains query.
func (s *Service) Search(_ context.Context, query string, limit int) ([]*store.Record, error) {
	return s.db.SearchByName(query, limit)
}

// Delete removes the record for id.
func (s *Service) Delete(_ context.Context, id string) error {
	if err := s.db.Delete(id); err != nil {
		return err
	}
	s.emit("deleted", id)
	return nil
}

// Publish marks the record published; called by the sync collaborator after
// a successful server write.
func (s *Service) Publish(_ context.Context, id string) (*store.Record, error) {
	rec, err := s.db.MarkPublished(id)
	if err != nil {
		return nil, err
	}
	s.emit("published", id)
	return rec, nil
}

// Conflict flags the record; called by the sync collaborator when the
// server-side version diverged.
func (s *Service) Conflict(_ context.Context, id string) (*store.Record, error) {
	rec, err := s.db.MarkConflict(id)
	if err != nil {
		return nil, err
	}
	s.emit("conflict", id)
	return rec, nil
}

// Changes probes both change-detection surfaces for id.
func (s *Service) Changes(_ context.Context, id string) (unsaved, unpublished bool, err error) {
	unsaved, err = s.db.HasUnsavedChanges(id)
	if err != nil {
		return false, false, err
	}
	unpublished, err = s.db.HasUnpublishedChanges(id)
	if err != nil {
		return false, false, err
	}
	return unsaved, unpublished, nil
}

// Export produces the full export document.
func (s *Service) Export(_ context.Context) ([]byte, error) {
	return s.db.Export()
}

// Import upserts every record of an export document, returning the count.
func (s *Service) Import(_ context.Context, data []byte) (int, error) {
	return s.db.Import(data)
}

package api

import (
	"time"

	"github.com/openstrand/strandkit/internal/document"
	"github.com/openstrand/strandkit/internal/store"
	"github.com/openstrand/strandkit/internal/validate"
)

// ValidateRequest is the request body for validating a document.
type ValidateRequest struct {
	Content string `json:"content"`
}

// SaveRequest is the request body for saving a document.
type SaveRequest struct {
	Content string `json:"content"`
	Pending bool   `json:"pending,omitempty"`
	Draft   bool   `json:"draft,omitempty"`
}

// TransitionRequest names the record a lifecycle transition applies to.
type TransitionRequest struct {
	ID string `json:"id"`
}

// ValidationResponse carries the complete diagnostic list for one document.
type ValidationResponse struct {
	Valid    bool            `json:"valid"`
	Errors   []validate.Note `json:"errors"`
	Warnings []validate.Note `json:"warnings"`
}

func validationResponse(res *document.ParseResult) ValidationResponse {
	return ValidationResponse{
		Valid:    res.OK(),
		Errors:   nonNilNotes(res.Errors),
		Warnings: nonNilNotes(res.Warnings),
	}
}

// RecordResponse is one stored record with its lifecycle metadata.
type RecordResponse struct {
	ID          string     `json:"id"`
	Kind        string     `json:"kind"`
	State       string     `json:"state"`
	Checksum    string     `json:"checksum"`
	SavedAt     time.Time  `json:"saved_at"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Schema      any        `json:"schema"`
	HasOriginal bool       `json:"has_original"`
}

func recordResponse(rec *store.Record) RecordResponse {
	return RecordResponse{
		ID:          rec.Meta.ID,
		Kind:        string(rec.Meta.Kind),
		State:       string(rec.Meta.State),
		Checksum:    rec.Meta.Checksum,
		SavedAt:     rec.Meta.SavedAt,
		PublishedAt: rec.Meta.PublishedAt,
		Schema:      rec.Schema,
		HasOriginal: rec.Original != nil,
	}
}

// ListResponse wraps record listings.
type ListResponse struct {
	Schemas []RecordResponse `json:"schemas"`
	Total   int              `json:"total"`
}

func listResponse(recs []*store.Record) ListResponse {
	out := ListResponse{Schemas: make([]RecordResponse, len(recs)), Total: len(recs)}
	for i, rec := range recs {
		out.Schemas[i] = recordResponse(rec)
	}
	return out
}

// ChangesResponse carries both change-detection answers for one record.
type ChangesResponse struct {
	ID          string `json:"id"`
	Unsaved     bool   `json:"unsaved"`
	Unpublished bool   `json:"unpublished"`
}

// ImportResponse reports how many records an import wrote.
type ImportResponse struct {
	Imported int `json:"imported"`
}

func nonNilNotes(notes []validate.Note) []validate.Note {
	if notes == nil {
		return []validate.Note{}
	}
	return notes
}

package store

import (
	"time"

	"github.com/openstrand/strandkit/internal/schema"
)

// State is the lifecycle state of a stored record. States only move forward
// via the explicit transition operations; nothing here reverses a conflict
// automatically.
type State string

const (
	StateDraft     State = "draft"
	StateSaved     State = "saved"
	StatePending   State = "pending"
	StatePublished State = "published"
	StateConflict  State = "conflict"
)

// Valid reports whether s is a known lifecycle state.
func (s State) Valid() bool {
	switch s {
	case StateDraft, StateSaved, StatePending, StatePublished, StateConflict:
		return true
	}
	return false
}

// Meta is the lifecycle metadata of a stored record.
type Meta struct {
	ID          string      `json:"id"`
	Kind        schema.Kind `json:"kind"`
	State       State       `json:"state"`
	SavedAt     time.Time   `json:"saved_at"`
	PublishedAt *time.Time  `json:"published_at,omitempty"`
	Checksum    string      `json:"checksum"`
}

// Record is one persisted entry: the current typed object, its metadata, and
// (after the first publish) the last-known-published snapshot for diffing.
type Record struct {
	Schema   schema.Schema `json:"-"`
	Meta     Meta          `json:"meta"`
	Original schema.Schema `json:"-"`
}

// SaveOptions selects the state a save lands in. The default is saved;
// Pending queues the record for publication; Draft marks a deliberately
// not-yet-submittable scratch edit.
type SaveOptions struct {
	Draft   bool
	Pending bool
}

// SchemaStore is the persistence contract. Consumers should depend on this
// interface rather than the concrete *DB type to facilitate testing with
// mocks.
type SchemaStore interface {
	Save(id string, s schema.Schema, opts SaveOptions) (*Record, error)
	Get(id string) (*Record, error)
	Delete(id string) error
	Clear() error
	ListByKind(k schema.Kind) ([]*Record, error)
	ListPending() ([]*Record, error)
	SearchByName(query string, limit int) ([]*Record, error)
	MarkPublished(id string) (*Record, error)
	MarkConflict(id string) (*Record, error)
	HasUnsavedChanges(id string) (bool, error)
	HasUnpublishedChanges(id string) (bool, error)
	Export() ([]byte, error)
	Import(data []byte) (int, error)
	Close() error
}

// Verify *DB satisfies SchemaStore at compile time.
var _ SchemaStore = (*DB)(nil)

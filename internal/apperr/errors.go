package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrAlreadyExists = errors.New("already exists")

	// ErrKindMismatch is returned when a document validates cleanly but its
	// kind discriminator is not the one the caller asked for.
	ErrKindMismatch = errors.New("kind mismatch")

	// ErrNoFrontmatter is returned when a document that must carry a
	// frontmatter block has none.
	ErrNoFrontmatter = errors.New("no frontmatter found")
)

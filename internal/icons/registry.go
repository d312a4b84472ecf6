// Package icons provides the icon registry the validator consults. An
// unknown icon id is a warning, not an error: consumers fall back to a
// default glyph.
package icons

// Registry answers whether an icon id exists.
type Registry interface {
	Has(id string) bool
}

// DefaultIcon is the fallback id consumers use when a referenced icon is
// missing from the registry.
const DefaultIcon = "file"

var builtin = []string{
	"file", "folder", "book", "bookmark", "brain", "bulb", "compass",
	"database", "flask", "globe", "graph", "layers", "link", "map",
	"pencil", "puzzle", "rocket", "star", "tag", "target", "telescope",
}

// Set is an in-memory Registry.
type Set struct {
	ids map[string]struct{}
}

// Default returns a Set seeded with the built-in icon ids plus any extras.
func Default(extra ...string) *Set {
	s := &Set{ids: make(map[string]struct{}, len(builtin)+len(extra))}
	for _, id := range builtin {
		s.ids[id] = struct{}{}
	}
	for _, id := range extra {
		if id != "" {
			s.ids[id] = struct{}{}
		}
	}
	return s
}

// Has reports whether id is registered.
func (s *Set) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

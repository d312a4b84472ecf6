// Package schema defines the typed domain model: a closed union of three
// document kinds (Loom, Weave, Strand) sharing a version/kind envelope.
package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Version is the current schema format version literal.
const Version = "1.0"

// EnvelopeKey is the wrapper key under which a document may nest its fields
// one level deeper.
const EnvelopeKey = "openstrand"

// Kind discriminates the three document shapes.
type Kind string

const (
	KindLoom   Kind = "Loom"
	KindWeave  Kind = "Weave"
	KindStrand Kind = "Strand"
)

// Kinds returns every known kind tag.
func Kinds() []Kind {
	return []Kind{KindLoom, KindWeave, KindStrand}
}

// Valid reports whether k is one of the known kind tags.
func (k Kind) Valid() bool {
	switch k {
	case KindLoom, KindWeave, KindStrand:
		return true
	}
	return false
}

// Schema is the closed union over the three document kinds. The only
// implementations are *Loom, *Weave, and *Strand; the unexported marker
// keeps it that way.
type Schema interface {
	SchemaKind() Kind
	sealed()
}

// Loom is a named grouping of content (a collection).
type Loom struct {
	Version       string           `yaml:"version,omitempty" json:"version,omitempty"`
	Kind          Kind             `yaml:"kind" json:"kind"`
	Metadata      LoomMetadata     `yaml:"metadata" json:"metadata"`
	Style         *StyleProperties `yaml:"style,omitempty" json:"style,omitempty"`
	Scope         *LoomScope       `yaml:"scope,omitempty" json:"scope,omitempty"`
	Content       *ContentRules    `yaml:"content,omitempty" json:"content,omitempty"`
	Tags          []string         `yaml:"tags,omitempty" json:"tags,omitempty"`
	Collaborators []string         `yaml:"collaborators,omitempty" json:"collaborators,omitempty"`
}

func (*Loom) SchemaKind() Kind { return KindLoom }
func (*Loom) sealed()          {}

// LoomMetadata carries the identifying fields of a collection.
type LoomMetadata struct {
	Name        string `yaml:"name" json:"name"`
	Slug        string `yaml:"slug,omitempty" json:"slug,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Icon        string `yaml:"icon,omitempty" json:"icon,omitempty"`
	UseCase     string `yaml:"useCase,omitempty" json:"useCase,omitempty"`
}

// LoomScope describes the organizational boundary of a collection.
type LoomScope struct {
	Type        string `yaml:"type,omitempty" json:"type,omitempty"`
	Visibility  string `yaml:"visibility,omitempty" json:"visibility,omitempty"`
	AutoApprove *bool  `yaml:"autoApprove,omitempty" json:"autoApprove,omitempty"`
}

// ContentRules lists inclusion/exclusion globs for collection membership.
type ContentRules struct {
	Include []string `yaml:"include,omitempty" json:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty" json:"exclude,omitempty"`
}

// Weave is a named graph view over content.
type Weave struct {
	Version      string           `yaml:"version,omitempty" json:"version,omitempty"`
	Kind         Kind             `yaml:"kind" json:"kind"`
	Metadata     WeaveMetadata    `yaml:"metadata" json:"metadata"`
	Style        *StyleProperties `yaml:"style,omitempty" json:"style,omitempty"`
	Graph        *GraphConfig     `yaml:"graph,omitempty" json:"graph,omitempty"`
	Nodes        *NodeDisplay     `yaml:"nodes,omitempty" json:"nodes,omitempty"`
	Edges        *EdgeDisplay     `yaml:"edges,omitempty" json:"edges,omitempty"`
	Visibility   string           `yaml:"visibility,omitempty" json:"visibility,omitempty"`
	Contributors []string         `yaml:"contributors,omitempty" json:"contributors,omitempty"`
}

func (*Weave) SchemaKind() Kind { return KindWeave }
func (*Weave) sealed()          {}

// WeaveMetadata carries the identifying fields of a graph view.
type WeaveMetadata struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Domain      string `yaml:"domain,omitempty" json:"domain,omitempty"`
	Icon        string `yaml:"icon,omitempty" json:"icon,omitempty"`
}

// GraphConfig selects the layout algorithm and simulation parameters.
type GraphConfig struct {
	Layout     string         `yaml:"layout,omitempty" json:"layout,omitempty"`
	Physics    *PhysicsConfig `yaml:"physics,omitempty" json:"physics,omitempty"`
	Clustering string         `yaml:"clustering,omitempty" json:"clustering,omitempty"`
}

// PhysicsConfig tunes the force simulation.
type PhysicsConfig struct {
	Gravity      *float64 `yaml:"gravity,omitempty" json:"gravity,omitempty"`
	Repulsion    *float64 `yaml:"repulsion,omitempty" json:"repulsion,omitempty"`
	LinkDistance *float64 `yaml:"linkDistance,omitempty" json:"linkDistance,omitempty"`
	Damping      *float64 `yaml:"damping,omitempty" json:"damping,omitempty"`
}

// NodeDisplay controls node sizing and labelling.
type NodeDisplay struct {
	Size   string `yaml:"size,omitempty" json:"size,omitempty"`
	Labels string `yaml:"labels,omitempty" json:"labels,omitempty"`
}

// EdgeDisplay controls edge width, arrows, and curve style.
type EdgeDisplay struct {
	Width  string `yaml:"width,omitempty" json:"width,omitempty"`
	Arrows *bool  `yaml:"arrows,omitempty" json:"arrows,omitempty"`
	Curve  string `yaml:"curve,omitempty" json:"curve,omitempty"`
}

// Strand is the per-document frontmatter of a content item.
type Strand struct {
	Version        string       `yaml:"version,omitempty" json:"version,omitempty"`
	Kind           Kind         `yaml:"kind" json:"kind"`
	Title          string       `yaml:"title" json:"title"`
	Type           string       `yaml:"type,omitempty" json:"type,omitempty"`
	Classification string       `yaml:"classification,omitempty" json:"classification,omitempty"`
	Parent         string       `yaml:"parent,omitempty" json:"parent,omitempty"`
	Order          *int         `yaml:"order,omitempty" json:"order,omitempty"`
	Tags           []string     `yaml:"tags,omitempty" json:"tags,omitempty"`
	Difficulty     *int         `yaml:"difficulty,omitempty" json:"difficulty,omitempty"`
	Duration       *int         `yaml:"duration,omitempty" json:"duration,omitempty"`
	Phase          string       `yaml:"phase,omitempty" json:"phase,omitempty"`
	Prerequisites  []string     `yaml:"prerequisites,omitempty" json:"prerequisites,omitempty"`
	Style          *StrandStyle `yaml:"style,omitempty" json:"style,omitempty"`
}

func (*Strand) SchemaKind() Kind { return KindStrand }
func (*Strand) sealed()          {}

// StrandStyle is the per-item style subset.
type StrandStyle struct {
	Icon        string `yaml:"icon,omitempty" json:"icon,omitempty"`
	AccentColor string `yaml:"accentColor,omitempty" json:"accentColor,omitempty"`
}

// Decode maps an already-validated generic value tree into the typed shape
// for k. It goes through a YAML round trip so field mapping stays in one
// place (the struct tags). Unknown fields are ignored.
func Decode(k Kind, m map[string]any) (Schema, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("schema: encode tree: %w", err)
	}
	var s Schema
	switch k {
	case KindLoom:
		s = &Loom{}
	case KindWeave:
		s = &Weave{}
	case KindStrand:
		s = &Strand{}
	default:
		return nil, fmt.Errorf("schema: unknown kind %q", k)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("schema: decode %s: %w", k, err)
	}
	return s, nil
}

// Package document composes the frontmatter splitter, codec, migrator, and
// validator into single-call parse and serialize operations per kind.
package document

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/openstrand/strandkit/internal/apperr"
	"github.com/openstrand/strandkit/internal/codec"
	"github.com/openstrand/strandkit/internal/frontmatter"
	"github.com/openstrand/strandkit/internal/icons"
	"github.com/openstrand/strandkit/internal/migrate"
	"github.com/openstrand/strandkit/internal/schema"
	"github.com/openstrand/strandkit/internal/validate"
)

// ParseResult is the outcome of parsing one document. Body carries the
// Markdown text after the frontmatter block (byte-for-byte) and is populated
// even when parsing fails, so callers never lose the document.
type ParseResult struct {
	Schema   schema.Schema   `json:"-"`
	Errors   []validate.Note `json:"errors,omitempty"`
	Warnings []validate.Note `json:"warnings,omitempty"`
	Body     string          `json:"body,omitempty"`
}

// OK reports whether a typed object was produced.
func (r *ParseResult) OK() bool { return r != nil && r.Schema != nil }

// Parser parses and serializes schema documents. It is pure and safe for
// concurrent use.
type Parser struct {
	validator *validate.Validator
}

// NewParser returns a Parser whose validator consults reg for icon lookups.
func NewParser(reg icons.Registry) *Parser {
	return &Parser{validator: validate.New(reg)}
}

// ParseLoom parses text (bare YAML or a frontmattered document) as a Loom.
func (p *Parser) ParseLoom(text string) (*ParseResult, error) {
	return p.parse(text, schema.KindLoom, false)
}

// ParseWeave parses text as a Weave.
func (p *Parser) ParseWeave(text string) (*ParseResult, error) {
	return p.parse(text, schema.KindWeave, false)
}

// ParseStrand parses a Markdown document as a Strand. Frontmatter is
// mandatory here: a bare document fails with apperr.ErrNoFrontmatter, with
// the body still returned alongside the error.
func (p *Parser) ParseStrand(text string) (*ParseResult, error) {
	return p.parse(text, schema.KindStrand, true)
}

// ParseAny parses text accepting whatever kind the document declares.
func (p *Parser) ParseAny(text string) (*ParseResult, error) {
	return p.parse(text, "", false)
}

func (p *Parser) parse(text string, want schema.Kind, needFrontmatter bool) (*ParseResult, error) {
	var metaText, body string
	if frontmatter.Has(text) {
		metaText, body, _ = frontmatter.Split(text)
	} else if needFrontmatter {
		return &ParseResult{Body: text}, fmt.Errorf("document: %w", apperr.ErrNoFrontmatter)
	} else {
		metaText = text
	}

	tree, err := codec.Decode([]byte(metaText))
	if err != nil {
		return &ParseResult{Body: body}, fmt.Errorf("document: %w", err)
	}
	tree = unwrap(tree)
	tree = migrate.Apply(tree)

	res := p.validator.Validate(tree)
	pr := &ParseResult{Errors: res.Errors, Warnings: res.Warnings, Body: body}
	if !res.OK() {
		return pr, nil
	}
	if want != "" && res.Schema.SchemaKind() != want {
		return pr, fmt.Errorf("document: expected kind %s, got %s: %w",
			want, res.Schema.SchemaKind(), apperr.ErrKindMismatch)
	}
	pr.Schema = res.Schema
	return pr, nil
}

// unwrap reads through the envelope that nests the document one level deeper
// under the literal wrapper key.
func unwrap(m map[string]any) map[string]any {
	if inner, ok := m[schema.EnvelopeKey].(map[string]any); ok {
		return inner
	}
	return m
}

// Marshal encodes s as a bare YAML document, injecting the current version
// string when the object carries none.
func Marshal(s schema.Schema) ([]byte, error) {
	return codec.Encode(withVersion(s))
}

// Serialize encodes s behind the envelope key, the strict inverse of the
// wrapped parse form.
func Serialize(s schema.Schema) ([]byte, error) {
	return codec.Encode(map[string]any{schema.EnvelopeKey: withVersion(s)})
}

// Compose builds a full Markdown document: serialized frontmatter, then the
// body unchanged, separated by a blank line.
func Compose(s schema.Schema, body string) ([]byte, error) {
	meta, err := Marshal(s)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	b.WriteString(frontmatter.Delimiter + "\n")
	b.Write(meta)
	b.WriteString(frontmatter.Delimiter + "\n")
	if body != "" {
		b.WriteString("\n")
		b.WriteString(body)
	}
	return []byte(b.String()), nil
}

// withVersion returns a copy of s with the version literal filled in.
func withVersion(s schema.Schema) schema.Schema {
	switch v := s.(type) {
	case *schema.Loom:
		if v.Version == "" {
			cp := *v
			cp.Version = schema.Version
			return &cp
		}
	case *schema.Weave:
		if v.Version == "" {
			cp := *v
			cp.Version = schema.Version
			return &cp
		}
	case *schema.Strand:
		if v.Version == "" {
			cp := *v
			cp.Version = schema.Version
			return &cp
		}
	}
	return s
}

// DetectKind resolves the kind for a file: loom.yaml/yml and weave.yaml/yml
// are fixed names, .md/.mdx defaults to Strand, and anything else is sniffed
// from the document's own kind tag (reading through the envelope).
func DetectKind(filename string, data []byte) (schema.Kind, bool) {
	base := strings.ToLower(filepath.Base(filename))
	switch base {
	case "loom.yaml", "loom.yml":
		return schema.KindLoom, true
	case "weave.yaml", "weave.yml":
		return schema.KindWeave, true
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case ".md", ".mdx":
		return schema.KindStrand, true
	}

	text := string(data)
	metaText := text
	if frontmatter.Has(text) {
		metaText, _, _ = frontmatter.Split(text)
	}
	tree, err := codec.Decode([]byte(metaText))
	if err != nil {
		return "", false
	}
	tree = migrate.Apply(unwrap(tree))
	if k, ok := tree["kind"].(string); ok {
		kind := schema.Kind(k)
		if kind.Valid() {
			return kind, true
		}
	}
	return "", false
}

package document

import (
	"errors"
	"strings"
	"testing"

	"github.com/openstrand/strandkit/internal/apperr"
	"github.com/openstrand/strandkit/internal/icons"
	"github.com/openstrand/strandkit/internal/schema"
)

func newTestParser() *Parser {
	return NewParser(icons.Default())
}

func TestParseLoom_BareYAML(t *testing.T) {
	res, err := newTestParser().ParseLoom("version: \"1.0\"\nkind: Loom\nmetadata:\n  name: My Collection\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.OK() {
		t.Fatalf("errors = %v", res.Errors)
	}
	loom := res.Schema.(*schema.Loom)
	if loom.Metadata.Name != "My Collection" {
		t.Errorf("name = %q", loom.Metadata.Name)
	}
}

func TestParseLoom_Enveloped(t *testing.T) {
	text := "openstrand:\n  version: \"1.0\"\n  kind: Loom\n  metadata:\n    name: Wrapped\n"
	res, err := newTestParser().ParseLoom(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.OK() {
		t.Fatalf("errors = %v", res.Errors)
	}
	if res.Schema.(*schema.Loom).Metadata.Name != "Wrapped" {
		t.Errorf("envelope not unwrapped: %+v", res.Schema)
	}
}

func TestParseLoom_LegacyShape(t *testing.T) {
	res, err := newTestParser().ParseLoom("type: loom\nname: Old Style\ncolor: \"#ff0000\"\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.OK() {
		t.Fatalf("errors = %v", res.Errors)
	}
	loom := res.Schema.(*schema.Loom)
	if loom.Metadata.Name != "Old Style" {
		t.Errorf("name = %q", loom.Metadata.Name)
	}
	if loom.Style == nil || loom.Style.AccentColor != "#ff0000" {
		t.Errorf("style = %+v", loom.Style)
	}
}

func TestParseLoom_KindMismatch(t *testing.T) {
	_, err := newTestParser().ParseLoom("kind: Weave\nmetadata:\n  name: X\n")
	if !errors.Is(err, apperr.ErrKindMismatch) {
		t.Fatalf("err = %v, want ErrKindMismatch", err)
	}
}

func TestParseStrand_Frontmatter(t *testing.T) {
	text := "---\nkind: Strand\ntitle: Intro\ndifficulty: 2\n---\n# Intro\n\nBody stays intact.\n"
	res, err := newTestParser().ParseStrand(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.OK() {
		t.Fatalf("errors = %v", res.Errors)
	}
	strand := res.Schema.(*schema.Strand)
	if strand.Title != "Intro" {
		t.Errorf("title = %q", strand.Title)
	}
	if res.Body != "# Intro\n\nBody stays intact.\n" {
		t.Errorf("body = %q", res.Body)
	}
}

func TestParseStrand_NoFrontmatter(t *testing.T) {
	res, err := newTestParser().ParseStrand("# Just markdown\n")
	if !errors.Is(err, apperr.ErrNoFrontmatter) {
		t.Fatalf("err = %v, want ErrNoFrontmatter", err)
	}
	if res == nil || res.Body != "# Just markdown\n" {
		t.Errorf("body must survive the error, got %+v", res)
	}
}

func TestParseAny_DispatchesOnKind(t *testing.T) {
	res, err := newTestParser().ParseAny("kind: Weave\nmetadata:\n  name: Any\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.OK() {
		t.Fatalf("errors = %v", res.Errors)
	}
	if res.Schema.SchemaKind() != schema.KindWeave {
		t.Errorf("kind = %v, want Weave", res.Schema.SchemaKind())
	}
}

func TestParse_MalformedYAML(t *testing.T) {
	res, err := newTestParser().ParseAny(": bad: {{{")
	if err == nil {
		t.Fatal("expected decode error")
	}
	if res == nil {
		t.Fatal("result must be returned alongside the error")
	}
}

func TestParse_InvalidDocumentKeepsDiagnostics(t *testing.T) {
	res, err := newTestParser().ParseLoom("kind: Loom\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.OK() {
		t.Fatal("expected validation failure")
	}
	if len(res.Errors) == 0 {
		t.Error("expected errors in result")
	}
}

func TestMarshal_InjectsVersion(t *testing.T) {
	data, err := Marshal(&schema.Loom{
		Kind:     schema.KindLoom,
		Metadata: schema.LoomMetadata{Name: "X"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(data), "version: \"1.0\"") {
		t.Errorf("marshal output missing version:\n%s", data)
	}
}

func TestSerialize_RoundTrip(t *testing.T) {
	orig := &schema.Weave{
		Kind:     schema.KindWeave,
		Metadata: schema.WeaveMetadata{Name: "Round Trip"},
		Graph:    &schema.GraphConfig{Layout: "force"},
	}
	data, err := Serialize(orig)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if !strings.HasPrefix(string(data), schema.EnvelopeKey+":") {
		t.Fatalf("serialized form not enveloped:\n%s", data)
	}
	res, err := newTestParser().ParseWeave(string(data))
	if err != nil {
		t.Fatalf("parse back: %v", err)
	}
	if !res.OK() {
		t.Fatalf("errors = %v", res.Errors)
	}
	back := res.Schema.(*schema.Weave)
	if back.Metadata.Name != "Round Trip" || back.Graph == nil || back.Graph.Layout != "force" {
		t.Errorf("round trip lost data: %+v", back)
	}
}

func TestCompose_RoundTrip(t *testing.T) {
	strand := &schema.Strand{
		Kind:  schema.KindStrand,
		Title: "Composed",
	}
	body := "# Composed\n\nParagraph.\n"
	data, err := Compose(strand, body)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	res, err := newTestParser().ParseStrand(string(data))
	if err != nil {
		t.Fatalf("parse back: %v", err)
	}
	if !res.OK() {
		t.Fatalf("errors = %v", res.Errors)
	}
	if res.Schema.(*schema.Strand).Title != "Composed" {
		t.Errorf("title lost: %+v", res.Schema)
	}
	if res.Body != "\n"+body {
		t.Errorf("body = %q", res.Body)
	}
}

func TestDetectKind(t *testing.T) {
	cases := []struct {
		file string
		data string
		want schema.Kind
		ok   bool
	}{
		{"loom.yaml", "", schema.KindLoom, true},
		{"sub/dir/loom.yml", "", schema.KindLoom, true},
		{"weave.yaml", "", schema.KindWeave, true},
		{"topics/intro.md", "", schema.KindStrand, true},
		{"topics/intro.mdx", "", schema.KindStrand, true},
		{"other.yaml", "kind: Weave\n", schema.KindWeave, true},
		{"other.yaml", "openstrand:\n  kind: Loom\n", schema.KindLoom, true},
		{"legacy.yaml", "type: loom\nname: X\n", schema.KindLoom, true},
		{"other.yaml", "plain: data\n", "", false},
		{"other.yaml", ": bad {{{", "", false},
	}
	for _, tc := range cases {
		got, ok := DetectKind(tc.file, []byte(tc.data))
		if got != tc.want || ok != tc.ok {
			t.Errorf("DetectKind(%q, %q) = (%v, %v), want (%v, %v)",
				tc.file, tc.data, got, ok, tc.want, tc.ok)
		}
	}
}

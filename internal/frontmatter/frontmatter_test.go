package frontmatter

import (
	"errors"
	"testing"

	"github.com/openstrand/strandkit/internal/apperr"
)

func TestSplit_Basic(t *testing.T) {
	fm, body, err := Split("---\ntitle: Hello\n---\n# Hello\nBody text.\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fm != "title: Hello\n" {
		t.Errorf("fm = %q", fm)
	}
	if body != "# Hello\nBody text.\n" {
		t.Errorf("body = %q", body)
	}
}

func TestSplit_BodyPreserved(t *testing.T) {
	// Leading blank lines and trailing whitespace in the body survive.
	_, body, err := Split("---\nkind: Strand\n---\n\n\n  indented\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body != "\n\n  indented\n" {
		t.Errorf("body = %q", body)
	}
}

func TestSplit_NoFrontmatter(t *testing.T) {
	fm, body, err := Split("# Just a heading\nSome text.\n")
	if !errors.Is(err, apperr.ErrNoFrontmatter) {
		t.Fatalf("err = %v, want ErrNoFrontmatter", err)
	}
	if fm != "" {
		t.Errorf("fm = %q, want empty", fm)
	}
	if body != "# Just a heading\nSome text.\n" {
		t.Errorf("body = %q, want full text", body)
	}
}

func TestSplit_UnterminatedBlock(t *testing.T) {
	_, body, err := Split("---\ntitle: Dangling\nno closing fence\n")
	if !errors.Is(err, apperr.ErrNoFrontmatter) {
		t.Fatalf("err = %v, want ErrNoFrontmatter", err)
	}
	if body != "---\ntitle: Dangling\nno closing fence\n" {
		t.Errorf("body = %q, want full text", body)
	}
}

func TestSplit_DelimiterMustBeExact(t *testing.T) {
	// A ruler line ("----") is not a frontmatter fence.
	_, _, err := Split("----\ntitle: nope\n----\nbody\n")
	if !errors.Is(err, apperr.ErrNoFrontmatter) {
		t.Fatalf("err = %v, want ErrNoFrontmatter", err)
	}
}

func TestSplit_CRLF(t *testing.T) {
	fm, body, err := Split("---\r\ntitle: Win\r\n---\r\nbody\r\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fm != "title: Win\r\n" {
		t.Errorf("fm = %q", fm)
	}
	if body != "body\r\n" {
		t.Errorf("body = %q", body)
	}
}

func TestSplit_EmptyBody(t *testing.T) {
	_, body, err := Split("---\ntitle: Meta only\n---")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body != "" {
		t.Errorf("body = %q, want empty", body)
	}
}

func TestHas(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"---\ntitle: x\n---\nbody", true},
		{"---\ntitle: x\n---", true},
		{"no frontmatter here", false},
		{"---\nnever closed", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := Has(tc.text); got != tc.want {
			t.Errorf("Has(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

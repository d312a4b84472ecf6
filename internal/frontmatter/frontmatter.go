// Package frontmatter extracts a delimited YAML metadata block from the head
// of a Markdown document.
package frontmatter

import (
	"strings"

	"github.com/openstrand/strandkit/internal/apperr"
)

// Delimiter is the fence line that opens and closes a frontmatter block.
const Delimiter = "---"

// Split separates the frontmatter block from the document body. The opening
// line must contain exactly the delimiter, and a later line must contain
// exactly the delimiter again; everything after that closing line is the
// body, byte-for-byte unchanged (leading blank lines included). When no
// leading delimiter pair exists, Split returns apperr.ErrNoFrontmatter and
// the full text as body so callers keep the document.
func Split(text string) (fm string, body string, err error) {
	open, rest, ok := openingBlock(text)
	if !ok {
		return "", text, apperr.ErrNoFrontmatter
	}
	_ = open

	idx := closingIndex(rest)
	if idx < 0 {
		return "", text, apperr.ErrNoFrontmatter
	}

	fm = rest[:idx]
	after := rest[idx:]
	// Skip the closing delimiter line itself.
	if nl := strings.IndexByte(after, '\n'); nl >= 0 {
		body = after[nl+1:]
	} else {
		body = ""
	}
	return fm, body, nil
}

// Has reports whether text begins with a complete frontmatter block. It does
// not allocate the split.
func Has(text string) bool {
	_, rest, ok := openingBlock(text)
	if !ok {
		return false
	}
	return closingIndex(rest) >= 0
}

// openingBlock checks the first line is exactly the delimiter and returns
// the remainder after it.
func openingBlock(text string) (line string, rest string, ok bool) {
	nl := strings.IndexByte(text, '\n')
	if nl < 0 {
		return "", "", false
	}
	first := strings.TrimRight(text[:nl], "\r")
	if first != Delimiter {
		return "", "", false
	}
	return first, text[nl+1:], true
}

// closingIndex returns the offset in rest where a line containing exactly
// the delimiter starts, or -1.
func closingIndex(rest string) int {
	offset := 0
	for offset <= len(rest) {
		end := strings.IndexByte(rest[offset:], '\n')
		var line string
		if end < 0 {
			line = rest[offset:]
			end = len(rest) - offset
		} else {
			line = rest[offset : offset+end]
		}
		if strings.TrimRight(line, "\r") == Delimiter {
			return offset
		}
		offset += end + 1
	}
	return -1
}

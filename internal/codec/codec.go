// Package codec converts between YAML text and a generic value tree
// (maps, slices, scalars). It has no knowledge of the schema kinds.
package codec

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Decode parses YAML text into a generic map. Malformed syntax yields a
// single descriptive error and no partial result. An empty document decodes
// to an empty map rather than nil so callers can probe keys safely.
func Decode(data []byte) (map[string]any, error) {
	var out map[string]any
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("codec: decode: %w", err)
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

// Encode renders v as YAML with two-space indentation. Encoding is
// deterministic: yaml.v3 sorts plain map keys and walks struct fields in
// declaration order, so repeated calls on the same value produce identical
// bytes.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("codec: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("codec: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Package migrate rewrites legacy, un-versioned document shapes into the
// current versioned, kind-tagged shape before validation.
package migrate

import (
	"strings"

	"github.com/openstrand/strandkit/internal/schema"
)

// Apply migrates a generic value tree in place of validation, never instead
// of it. Documents already carrying a version string or a kind tag pass
// through untouched, which makes Apply idempotent. A legacy flat map with a
// lowercase type field of "loom" or "weave" is rewritten; any other
// un-versioned shape passes through unchanged and will fail validation with
// a missing-kind error rather than having a kind invented for it.
func Apply(m map[string]any) map[string]any {
	if m == nil {
		return m
	}
	if _, ok := m["version"].(string); ok {
		return m
	}
	if _, ok := m["kind"]; ok {
		return m
	}
	legacyType, _ := m["type"].(string)
	switch strings.ToLower(legacyType) {
	case "loom":
		return legacyLoom(m)
	case "weave":
		return legacyWeave(m)
	}
	return m
}

// legacyLoom maps the flat pre-versioning collection shape:
// name/slug/description/icon move under metadata, color becomes the accent
// color, visibility moves under scope.
func legacyLoom(m map[string]any) map[string]any {
	out := map[string]any{
		"version": schema.Version,
		"kind":    string(schema.KindLoom),
	}

	meta := map[string]any{}
	copyKeys(m, meta, "name", "slug", "description", "icon")
	if v, ok := m["use_case"]; ok {
		meta["useCase"] = v
	}
	if len(meta) > 0 {
		out["metadata"] = meta
	}

	if v, ok := m["color"]; ok {
		out["style"] = map[string]any{"accentColor": v}
	}
	if v, ok := m["visibility"]; ok {
		out["scope"] = map[string]any{"visibility": v}
	}
	if v, ok := m["tags"]; ok {
		out["tags"] = v
	}
	return out
}

// legacyWeave maps the flat pre-versioning graph shape: name/description/icon
// move under metadata, layout under graph, node/edge colors under style.
func legacyWeave(m map[string]any) map[string]any {
	out := map[string]any{
		"version": schema.Version,
		"kind":    string(schema.KindWeave),
	}

	meta := map[string]any{}
	copyKeys(m, meta, "name", "description", "icon")
	if v, ok := m["domain"]; ok {
		meta["domain"] = v
	}
	if len(meta) > 0 {
		out["metadata"] = meta
	}

	graph := map[string]any{}
	copyKeys(m, graph, "layout", "physics", "clustering")
	if len(graph) > 0 {
		out["graph"] = graph
	}

	style := map[string]any{}
	if v, ok := m["node_color"]; ok {
		style["nodeColor"] = v
	}
	if v, ok := m["edge_color"]; ok {
		style["edgeColor"] = v
	}
	if len(style) > 0 {
		out["style"] = style
	}
	return out
}

func copyKeys(src, dst map[string]any, keys ...string) {
	for _, k := range keys {
		if v, ok := src[k]; ok {
			dst[k] = v
		}
	}
}

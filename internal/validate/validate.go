// Package validate checks a generic value tree against the schema rules and
// produces either a typed object or a list of path-qualified problems.
package validate

import (
	"strings"

	"github.com/openstrand/strandkit/internal/icons"
	"github.com/openstrand/strandkit/internal/schema"
)

// Note is a single path-qualified diagnostic. The same shape serves errors
// and warnings; only the list it lands in differs.
type Note struct {
	Path    string `json:"path"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

func (n Note) String() string {
	if n.Path == "" {
		return n.Message
	}
	return n.Path + ": " + n.Message
}

// Result is the outcome of a validation pass. Schema is non-nil exactly when
// Errors is empty; Warnings never block success.
type Result struct {
	Schema   schema.Schema `json:"-"`
	Errors   []Note        `json:"errors,omitempty"`
	Warnings []Note        `json:"warnings,omitempty"`
}

// OK reports whether validation produced a typed object.
func (r *Result) OK() bool { return len(r.Errors) == 0 }

// Validator validates generic value trees. The icon registry is the only
// external collaborator; a missing icon id degrades to a warning.
type Validator struct {
	icons icons.Registry
}

// New returns a Validator consulting reg for icon lookups. A nil registry
// disables icon warnings.
func New(reg icons.Registry) *Validator {
	return &Validator{icons: reg}
}

// Validate resolves the kind discriminator, dispatches to the kind-specific
// routine, and accumulates every applicable error and warning before
// returning. Without a resolved kind no per-kind validation is attempted.
func (v *Validator) Validate(m map[string]any) *Result {
	res := &Result{}
	c := &collector{res: res, icons: v.icons}

	kindRaw, ok := m["kind"]
	if !ok {
		c.err("kind", nil, "is required")
		return res
	}
	kindStr, ok := kindRaw.(string)
	kind := schema.Kind(kindStr)
	if !ok || !kind.Valid() {
		c.err("kind", kindRaw, "%s", "must be one of: "+joinKinds())
		return res
	}

	if raw, present := m["version"]; present {
		if ver, isStr := raw.(string); !isStr {
			c.err("version", raw, "must be a string")
		} else if ver != schema.Version {
			c.err("version", raw, "unsupported version; supported: %s", schema.Version)
		}
	}

	switch kind {
	case schema.KindLoom:
		validateLoom(c, m)
	case schema.KindWeave:
		validateWeave(c, m)
	case schema.KindStrand:
		validateStrand(c, m)
	}

	if !res.OK() {
		return res
	}
	typed, err := schema.Decode(kind, m)
	if err != nil {
		c.err("", nil, "%s", err.Error())
		return res
	}
	res.Schema = typed
	return res
}

func joinKinds() string {
	ks := schema.Kinds()
	ss := make([]string, len(ks))
	for i, k := range ks {
		ss[i] = string(k)
	}
	return strings.Join(ss, ", ")
}

package validate

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/openstrand/strandkit/internal/schema"
)

// validateLoom checks the collection shape. metadata.name is the only
// required field; when it is missing the rest of the metadata group is
// skipped so the caller is not buried under follow-on errors.
func validateLoom(c *collector, m map[string]any) {
	if _, present := m["metadata"]; !present {
		c.err("metadata.name", nil, "is required")
	} else if meta, ok := c.subMap(m, "", "metadata"); ok {
		if name, ok := c.requiredStr(meta, "metadata", "name"); ok {
			c.rule("metadata.name", name, validation.Length(1, 255))
			c.str(meta, "metadata", "slug")
			c.str(meta, "metadata", "description")
			c.icon(meta, "metadata", "icon")
			if uc, ok := c.str(meta, "metadata", "useCase"); ok {
				c.enum("metadata.useCase", uc, schema.UseCases)
			}
		}
	}

	c.style(m, "style")

	if scope, ok := c.subMap(m, "", "scope"); ok {
		if st, ok := c.str(scope, "scope", "type"); ok {
			c.enum("scope.type", st, schema.ScopeTypes)
		}
		if vis, ok := c.str(scope, "scope", "visibility"); ok {
			c.enum("scope.visibility", vis, schema.Visibilities)
		}
		c.boolVal(scope, "scope", "autoApprove")
	}

	if content, ok := c.subMap(m, "", "content"); ok {
		c.strSlice(content, "content", "include")
		c.strSlice(content, "content", "exclude")
	}

	c.strSlice(m, "", "tags")
	c.strSlice(m, "", "collaborators")
}

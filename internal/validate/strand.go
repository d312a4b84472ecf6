package validate

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/openstrand/strandkit/internal/schema"
)

// validateStrand checks item frontmatter. Unlike the other kinds the fields
// live at the top level of the document.
func validateStrand(c *collector, m map[string]any) {
	if title, ok := c.requiredStr(m, "", "title"); ok {
		c.rule("title", title, validation.Length(1, 255))
	}

	if st, ok := c.str(m, "", "type"); ok {
		c.enum("type", st, schema.StrandTypes)
	}
	if cls, ok := c.str(m, "", "classification"); ok {
		c.enum("classification", cls, schema.Classifications)
	}
	c.str(m, "", "parent")

	if order, ok := c.intVal(m, "", "order"); ok {
		c.rule("order", order, validation.Min(0).Error("must not be negative"))
	}

	c.strSlice(m, "", "tags")

	if difficulty, ok := c.intVal(m, "", "difficulty"); ok {
		// validation.Min treats 0 as an empty value and skips it, so the
		// lower bound needs Required as well.
		c.rule("difficulty", difficulty,
			validation.Required.Error("must be between 1 and 5"),
			validation.Min(1).Error("must be between 1 and 5"),
			validation.Max(5).Error("must be between 1 and 5"))
	}
	if duration, ok := c.intVal(m, "", "duration"); ok {
		c.rule("duration", duration, validation.Min(0).Error("must not be negative"))
	}
	if phase, ok := c.str(m, "", "phase"); ok {
		c.enum("phase", phase, schema.Phases)
	}
	c.strSlice(m, "", "prerequisites")

	if style, ok := c.subMap(m, "", "style"); ok {
		c.icon(style, "style", "icon")
		c.color(style, "style", "accentColor")
	}
}

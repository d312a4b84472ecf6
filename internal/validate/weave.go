package validate

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/openstrand/strandkit/internal/schema"
)

// validateWeave checks the graph-view shape.
func validateWeave(c *collector, m map[string]any) {
	if _, present := m["metadata"]; !present {
		c.err("metadata.name", nil, "is required")
	} else if meta, ok := c.subMap(m, "", "metadata"); ok {
		if name, ok := c.requiredStr(meta, "metadata", "name"); ok {
			c.rule("metadata.name", name, validation.Length(1, 255))
			c.str(meta, "metadata", "description")
			c.str(meta, "metadata", "domain")
			c.icon(meta, "metadata", "icon")
		}
	}

	c.style(m, "style")

	if graph, ok := c.subMap(m, "", "graph"); ok {
		if layout, ok := c.str(graph, "graph", "layout"); ok {
			c.enum("graph.layout", layout, schema.Layouts)
		}
		if physics, ok := c.subMap(graph, "graph", "physics"); ok {
			c.num(physics, "graph.physics", "gravity")
			if repulsion, ok := c.num(physics, "graph.physics", "repulsion"); ok {
				c.rule("graph.physics.repulsion", repulsion,
					validation.Min(0.0).Error("must not be negative"))
			}
			if dist, ok := c.num(physics, "graph.physics", "linkDistance"); ok {
				c.rule("graph.physics.linkDistance", dist,
					validation.Min(0.0).Error("must not be negative"))
			}
			if damping, ok := c.num(physics, "graph.physics", "damping"); ok {
				c.rule("graph.physics.damping", damping,
					validation.Min(0.0).Error("must be between 0 and 1"),
					validation.Max(1.0).Error("must be between 0 and 1"))
			}
		}
		if clustering, ok := c.str(graph, "graph", "clustering"); ok {
			c.enum("graph.clustering", clustering, schema.Clusterings)
		}
	}

	if nodes, ok := c.subMap(m, "", "nodes"); ok {
		if size, ok := c.str(nodes, "nodes", "size"); ok {
			c.enum("nodes.size", size, schema.NodeSizes)
		}
		if labels, ok := c.str(nodes, "nodes", "labels"); ok {
			c.enum("nodes.labels", labels, schema.NodeLabels)
		}
	}

	if edges, ok := c.subMap(m, "", "edges"); ok {
		if width, ok := c.str(edges, "edges", "width"); ok {
			c.enum("edges.width", width, schema.EdgeWidths)
		}
		c.boolVal(edges, "edges", "arrows")
		if curve, ok := c.str(edges, "edges", "curve"); ok {
			c.enum("edges.curve", curve, schema.EdgeCurves)
		}
	}

	if vis, ok := c.str(m, "", "visibility"); ok {
		c.enum("visibility", vis, schema.Visibilities)
	}
	c.strSlice(m, "", "contributors")
}

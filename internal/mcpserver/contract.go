package mcpserver

// SchemaFormatContract describes the canonical schema document format that
// LLM consumers should follow when creating or updating schemas.
const SchemaFormatContract = `# Schema Format Contract

Every schema document MUST be versioned, kind-tagged YAML. Three kinds
exist: Loom (a collection), Weave (a graph view), and Strand (a content
node). Strands live in Markdown frontmatter; Looms and Weaves are plain
YAML files.

## Envelope

When a document is exchanged over an API it is wrapped under a single
top-level key:

` + "```" + `yaml
openstrand:
  version: "1.0"
  kind: Loom
  ...
` + "```" + `

Bare (unwrapped) documents are also accepted on input.

## Loom

` + "```" + `yaml
version: "1.0"
kind: Loom
metadata:
  name: My Collection          # REQUIRED, 1..255 characters
  slug: my-collection
  description: What this holds
  icon: book
  useCase: knowledge-base      # knowledge-base | documentation | learning | research | project
style:
  accentColor: "#7c5cff"       # hex, rgb()/rgba(), hsl()/hsla(), or a named color
scope:
  type: personal               # personal | team | organization
  visibility: private          # private | team | organization | public
  autoApprove: false
content:
  include: ["topics/**"]
  exclude: ["drafts/**"]
tags: [go, notes]
collaborators: [alice]
` + "```" + `

## Weave

` + "```" + `yaml
version: "1.0"
kind: Weave
metadata:
  name: Concept Map            # REQUIRED, 1..255 characters
graph:
  layout: force                # force | hierarchical | radial | circular | grid
  physics:
    gravity: 0.4
    repulsion: 120             # >= 0
    linkDistance: 80           # >= 0
    damping: 0.6               # 0..1
  clustering: louvain          # louvain | label-propagation | modularity
nodes:
  size: degree                 # fixed | degree | centrality
  labels: always               # always | hover | never
edges:
  width: fixed                 # fixed | weight
  arrows: true
  curve: arc                   # straight | curved | bezier | arc
visibility: team               # private | team | organization | public
contributors: [bob]
` + "```" + `

## Strand (Markdown frontmatter)

` + "```" + `markdown
---
version: "1.0"
kind: Strand
title: Introduction            # REQUIRED, 1..255 characters
type: concept                  # concept | tutorial | reference | exercise | assessment
classification: topic          # domain | area | topic | subtopic
parent: topics/basics
order: 1                       # >= 0
tags: [intro]
difficulty: 2                  # 1..5
duration: 15                   # minutes, >= 0
phase: learn                   # discover | learn | practice | master
prerequisites: [topics/setup]
style:
  icon: bulb
  accentColor: teal
---

Body text in standard Markdown. The body is never validated and is
preserved byte for byte.
` + "```" + `

## Rules

1. **version** is the literal string "1.0". Unversioned legacy documents
   (flat shape with a lowercase ` + "`" + `type: loom|weave` + "`" + ` field) are migrated
   automatically on read.
2. **kind** is required and must be exactly ` + "`" + `Loom` + "`" + `, ` + "`" + `Weave` + "`" + `, or ` + "`" + `Strand` + "`" + `.
3. **Colors** accept hex (#rgb, #rrggbb, #rrggbbaa), rgb()/rgba(),
   hsl()/hsla(), and a small set of named colors.
4. **Unknown icons** produce a warning, not an error; the default icon
   is substituted at render time.
5. **Strand frontmatter is mandatory.** The ` + "`" + `---` + "`" + ` fences must open the
   file; a Strand without frontmatter is rejected.
6. Field names are camelCase. Unknown fields are ignored.
7. **Encoding** is UTF-8.
`

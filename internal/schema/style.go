package schema

// StyleProperties is the style contract shared with the rendering layer.
// The validator checks shapes and ranges; it never interprets the values.
type StyleProperties struct {
	BackgroundColor string   `yaml:"backgroundColor,omitempty" json:"backgroundColor,omitempty"`
	AccentColor     string   `yaml:"accentColor,omitempty" json:"accentColor,omitempty"`
	TextColor       string   `yaml:"textColor,omitempty" json:"textColor,omitempty"`
	BorderColor     string   `yaml:"borderColor,omitempty" json:"borderColor,omitempty"`
	NodeColor       string   `yaml:"nodeColor,omitempty" json:"nodeColor,omitempty"`
	EdgeColor       string   `yaml:"edgeColor,omitempty" json:"edgeColor,omitempty"`
	ThumbnailURL    string   `yaml:"thumbnailUrl,omitempty" json:"thumbnailUrl,omitempty"`
	CoverURL        string   `yaml:"coverUrl,omitempty" json:"coverUrl,omitempty"`
	BackgroundImage string   `yaml:"backgroundImage,omitempty" json:"backgroundImage,omitempty"`
	BorderRadius    string   `yaml:"borderRadius,omitempty" json:"borderRadius,omitempty"`
	Opacity         *float64 `yaml:"opacity,omitempty" json:"opacity,omitempty"`
	Blur            *float64 `yaml:"blur,omitempty" json:"blur,omitempty"`
	Gradient        string   `yaml:"gradient,omitempty" json:"gradient,omitempty"`
}

// Allowed enum values. Error messages list these sets verbatim, so keep
// them in one place.
var (
	UseCases        = []string{"knowledge-base", "documentation", "learning", "research", "project"}
	ScopeTypes      = []string{"personal", "team", "organization"}
	Visibilities    = []string{"private", "team", "organization", "public"}
	Layouts         = []string{"force", "hierarchical", "radial", "circular", "grid"}
	Clusterings     = []string{"louvain", "label-propagation", "modularity"}
	NodeSizes       = []string{"fixed", "degree", "centrality"}
	NodeLabels      = []string{"always", "hover", "never"}
	EdgeWidths      = []string{"fixed", "weight"}
	EdgeCurves      = []string{"straight", "curved", "bezier", "arc"}
	StrandTypes     = []string{"concept", "tutorial", "reference", "exercise", "assessment"}
	Classifications = []string{"domain", "area", "topic", "subtopic"}
	Phases          = []string{"discover", "learn", "practice", "master"}
)

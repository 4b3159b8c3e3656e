package loam

// NodeMetadata is the frontmatter header of a node document.
// It uses "mapstructure" tags to match the frontmatter/YAML keys.
type NodeMetadata struct {
	// ID overrides the filename-derived identifier.
	ID string `json:"id,omitempty" mapstructure:"id"`

	// Kind is "question" or "leaf". When empty it is inferred from the
	// presence of options.
	Kind string `json:"kind,omitempty" mapstructure:"kind"`

	// Root marks this node as the graph entry point.
	Root bool `json:"root,omitempty" mapstructure:"root"`

	// Options are the outgoing labeled edges, in authoring order.
	Options []OptionMeta `json:"options,omitempty" mapstructure:"options"`
}

// OptionMeta is a single frontmatter option entry.
type OptionMeta struct {
	Label string `json:"label" mapstructure:"label"`
	To    string `json:"to" mapstructure:"to"`
}

package domain

// Kind classifies the control flow behavior of a node.
type Kind string

const (
	// KindQuestion displays a prompt and halts waiting for a choice (hard step).
	KindQuestion Kind = "question"
	// KindLeaf carries a recommendation and terminates the walk (sink state).
	KindLeaf Kind = "leaf"
)

// Valid reports whether the kind is one of the known values.
func (k Kind) Valid() bool {
	return k == KindQuestion || k == KindLeaf
}

// Node represents a logical unit in the graph.
// A question node carries a prompt and at least one option; a leaf node
// carries a recommendation and no options.
type Node struct {
	ID   string `json:"id" yaml:"id"`
	Kind Kind   `json:"kind" yaml:"kind"`

	// Prompt is the text shown when a question node is visited.
	Prompt string `json:"prompt,omitempty" yaml:"prompt,omitempty"`

	// Recommendation is the terminal payload of a leaf node.
	Recommendation string `json:"recommendation,omitempty" yaml:"recommendation,omitempty"`

	// Options defines the outgoing edges, in display order.
	Options []Option `json:"options,omitempty" yaml:"options,omitempty"`
}

// Terminal reports whether the node ends a walk.
func (n Node) Terminal() bool {
	return n.Kind == KindLeaf
}

// clone returns a copy whose Options slice shares no backing array with
// the receiver. Empty slices normalize to nil so equality does not hinge
// on how a caller spelled "no options".
func (n Node) clone() Node {
	if len(n.Options) == 0 {
		n.Options = nil
		return n
	}
	n.Options = append([]Option(nil), n.Options...)
	return n
}

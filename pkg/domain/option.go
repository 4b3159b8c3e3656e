package domain

// Option is a labeled directed edge from a question node to another node.
// The label is plain display text; it carries no conditional semantics.
type Option struct {
	Label    string `json:"label" yaml:"label"`
	TargetID string `json:"targetId" yaml:"targetId"`
}

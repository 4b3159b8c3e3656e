package dsl

import (
	"github.com/aretw0/espalier/pkg/domain"
)

// NodeBuilder configures a single node. Its chaining methods either
// extend the current node (Option) or hand the chain to the parent
// builder, so whole graphs can be declared in one expression.
type NodeBuilder struct {
	node    domain.Node
	builder *Builder
}

// Option appends a labeled edge from this node to the target node.
// The target does not need to exist yet; declare it later with Ask
// or Recommend.
func (nb *NodeBuilder) Option(label, target string) *NodeBuilder {
	nb.node.Options = append(nb.node.Options, domain.Option{
		Label:    label,
		TargetID: target,
	})
	return nb
}

// Ask declares the next question node on the parent builder.
func (nb *NodeBuilder) Ask(id, prompt string) *NodeBuilder {
	return nb.builder.Ask(id, prompt)
}

// Recommend declares the next leaf node on the parent builder.
func (nb *NodeBuilder) Recommend(id, text string) *NodeBuilder {
	return nb.builder.Recommend(id, text)
}

// Root overrides the graph's starting node.
func (nb *NodeBuilder) Root(id string) *NodeBuilder {
	nb.builder.Root(id)
	return nb
}

// Build finishes the chain and assembles the graph.
func (nb *NodeBuilder) Build() (*domain.Graph, error) {
	return nb.builder.Build()
}

// Node returns a copy of the node as declared so far.
func (nb *NodeBuilder) Node() domain.Node {
	return nb.node
}

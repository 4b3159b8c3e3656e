package dsl

import (
	"github.com/aretw0/espalier/pkg/domain"
)

// Builder manages the graph construction.
type Builder struct {
	rootID string
	order  []string
	nodes  map[string]*NodeBuilder
}

// New creates a new graph builder.
func New() *Builder {
	return &Builder{
		nodes: make(map[string]*NodeBuilder),
	}
}

// Root overrides which node the walk starts at. Without it, the first
// node added to the builder is the root.
func (b *Builder) Root(id string) *Builder {
	b.rootID = id
	return b
}

// Ask declares a question node with the given prompt.
// If the node was already declared (e.g. as a forward reference), the
// existing declaration is updated in place.
func (b *Builder) Ask(id, prompt string) *NodeBuilder {
	nb := b.node(id)
	nb.node.Kind = domain.KindQuestion
	nb.node.Prompt = prompt
	return nb
}

// Recommend declares a leaf node carrying the given recommendation.
func (b *Builder) Recommend(id, text string) *NodeBuilder {
	nb := b.node(id)
	nb.node.Kind = domain.KindLeaf
	nb.node.Recommendation = text
	return nb
}

// Build assembles the declared nodes into a graph, in declaration order.
// It surfaces construction errors only (empty or duplicate ids);
// structural validation belongs to the engine, which runs it eagerly.
func (b *Builder) Build() (*domain.Graph, error) {
	nodes := make([]domain.Node, 0, len(b.order))
	for _, id := range b.order {
		nodes = append(nodes, b.nodes[id].node)
	}
	return domain.New(b.rootID, nodes)
}

func (b *Builder) node(id string) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{
		node:    domain.Node{ID: id},
		builder: b,
	}
	b.nodes[id] = nb
	b.order = append(b.order, id)
	if b.rootID == "" {
		b.rootID = id
	}
	return nb
}

package domain

import "fmt"

// Graph is a directed decision graph: a set of uniquely identified nodes
// plus a designated root. It is immutable after construction; every
// accessor returns copies, so no caller can reach into live state.
//
// Construction only enforces what the data model cannot represent at all
// (empty ids, duplicate ids, unknown kinds). Structural soundness, such
// as dangling references or cycles, is the validator's concern.
type Graph struct {
	rootID string
	nodes  map[string]Node
	order  []string
}

// New builds a graph from the given nodes. The declared root does not
// need to exist among the nodes; the validator reports a missing root as
// a structural defect rather than a construction failure.
func New(rootID string, nodes []Node) (*Graph, error) {
	g := &Graph{
		rootID: rootID,
		nodes:  make(map[string]Node, len(nodes)),
		order:  make([]string, 0, len(nodes)),
	}
	for i, n := range nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("node at index %d has an empty id: %w", i, ErrInvalidGraph)
		}
		if _, exists := g.nodes[n.ID]; exists {
			return nil, fmt.Errorf("duplicate node id %q: %w", n.ID, ErrInvalidGraph)
		}
		if !n.Kind.Valid() {
			return nil, fmt.Errorf("node %q has unknown kind %q: %w", n.ID, n.Kind, ErrInvalidGraph)
		}
		g.nodes[n.ID] = n.clone()
		g.order = append(g.order, n.ID)
	}
	return g, nil
}

// RootID returns the declared root identifier.
func (g *Graph) RootID() string {
	return g.rootID
}

// Root returns the root node, if it exists.
func (g *Graph) Root() (Node, bool) {
	return g.Node(g.rootID)
}

// Node returns a copy of the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return n.clone(), true
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// IDs returns the node identifiers in insertion order.
func (g *Graph) IDs() []string {
	return append([]string(nil), g.order...)
}

// Nodes returns copies of all nodes in insertion order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id].clone())
	}
	return out
}

// Package memory provides in-memory implementations of the engine's
// ports, for tests, embedded graphs, and ephemeral sessions.
package memory

import (
	"context"

	"github.com/aretw0/espalier/pkg/domain"
)

// Source implements ports.GraphSource over a graph held in memory.
type Source struct {
	graph *domain.Graph
}

// NewSource wraps an existing graph.
func NewSource(g *domain.Graph) *Source {
	return &Source{graph: g}
}

// NewSourceFromNodes builds the graph from nodes for clean, type-safe
// construction in tests and embedded scenarios.
func NewSourceFromNodes(rootID string, nodes ...domain.Node) (*Source, error) {
	g, err := domain.New(rootID, nodes)
	if err != nil {
		return nil, err
	}
	return &Source{graph: g}, nil
}

// Load returns the wrapped graph. The graph is immutable, so handing
// out the same instance is safe.
func (s *Source) Load(ctx context.Context) (*domain.Graph, error) {
	return s.graph, nil
}

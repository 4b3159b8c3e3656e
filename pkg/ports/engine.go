package ports

import (
	"github.com/aretw0/espalier/pkg/domain"
)

// Engine defines the traversal surface for cores that hold no session
// state of their own. This is the primary interface used by adapters
// (e.g., HTTP, MCP) that manage sessions externally or per-request.
type Engine interface {
	// Start creates a fresh session at the graph root.
	Start() *domain.Session

	// View projects a session for rendering without advancing it.
	View(s *domain.Session) (domain.View, error)

	// Choose takes the option at the given index and returns the
	// advanced session, leaving the argument intact.
	Choose(s *domain.Session, option int) (*domain.Session, error)

	// Back undoes the most recent choice.
	Back(s *domain.Session) (*domain.Session, error)

	// Reset returns a fresh session at the root.
	Reset(s *domain.Session) *domain.Session

	// Graph exposes the underlying graph for introspection.
	Graph() *domain.Graph
}

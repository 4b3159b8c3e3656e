package ports

import (
	"context"

	"github.com/aretw0/espalier/pkg/domain"
)

// GraphSource defines how the engine obtains a graph.
// This allows the authoring layer (document file, Loam directory, memory)
// to be decoupled from traversal.
type GraphSource interface {
	// Load produces the full graph. Implementations report malformed
	// input as errors; structural validation is the engine's concern.
	Load(ctx context.Context) (*domain.Graph, error)
}

// Watchable defines an interface for sources that can notify about
// backend changes. This is typically used for re-lint or dev-mode
// functionality.
type Watchable interface {
	// Watch returns a channel that is signaled when the underlying
	// source changes. It abstracts away the specific event details,
	// signaling only that a reload is required.
	Watch(ctx context.Context) (<-chan struct{}, error)
}

package ports

import (
	"context"

	"github.com/aretw0/espalier/pkg/domain"
)

// SessionStore defines the interface for persisting walk sessions.
// This allows durable walks, enabling "stop & resume" questionnaires.
type SessionStore interface {
	// Save persists the session under the given ID, overwriting any
	// previous snapshot.
	Save(ctx context.Context, sessionID string, s *domain.Session) error

	// Load retrieves the session for a given ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Session, error)

	// Delete removes the session for a given ID. Deleting an unknown
	// ID is not an error.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all stored sessions.
	List(ctx context.Context) ([]string, error)
}

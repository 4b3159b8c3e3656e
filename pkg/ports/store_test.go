package ports_test

import (
	"context"
	"testing"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

// mockStore is a minimal in-memory SessionStore used to verify the
// contract suite itself. Adapters run the same suite against real
// backends.
type mockStore struct {
	data map[string]*domain.Session
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]*domain.Session)}
}

func (m *mockStore) Save(ctx context.Context, sessionID string, s *domain.Session) error {
	m.data[sessionID] = s.Clone()
	return nil
}

func (m *mockStore) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	s, ok := m.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return s.Clone(), nil
}

func (m *mockStore) Delete(ctx context.Context, sessionID string) error {
	delete(m.data, sessionID)
	return nil
}

func (m *mockStore) List(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	return ids, nil
}

func TestSessionStoreContract_Mock(t *testing.T) {
	ports.RunSessionStoreContract(t, newMockStore())
}

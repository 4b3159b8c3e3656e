package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/espalier/pkg/domain"
)

// RunSessionStoreContract runs a suite of tests to verify that a
// SessionStore implementation adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		s := &domain.Session{CurrentID: "b", Path: []string{"root", "b"}}

		err := store.Save(ctx, sessionID, s)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, s.CurrentID, loaded.CurrentID)
		assert.Equal(t, s.Path, loaded.Path)
	})

	t.Run("Save Is A Snapshot", func(t *testing.T) {
		s := &domain.Session{CurrentID: "b", Path: []string{"root", "b"}}
		require.NoError(t, store.Save(ctx, sessionID, s))

		// Mutations after Save must not leak into the stored copy.
		s.CurrentID = "tampered"
		s.Path[0] = "tampered"

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "b", loaded.CurrentID)
		assert.Equal(t, []string{"root", "b"}, loaded.Path)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, domain.NewSession("root")))
		require.NoError(t, store.Save(ctx, sessionID, &domain.Session{CurrentID: "c", Path: []string{"root", "b", "c"}}))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "c", loaded.CurrentID)
		assert.Len(t, loaded.Path, 3)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, domain.NewSession("root")))

		err := store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("Delete Is Idempotent", func(t *testing.T) {
		assert.NoError(t, store.Delete(ctx, "never-existed-"+sessionID))
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewSession("root"))
		_ = store.Save(ctx, id2, domain.NewSession("root"))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}

// RunGraphSourceContract verifies that a GraphSource produces the
// expected graph, stably across repeated loads.
func RunGraphSourceContract(t *testing.T, source GraphSource, want *domain.Graph) {
	ctx := context.Background()

	t.Run("Load", func(t *testing.T) {
		got, err := source.Load(ctx)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, want.RootID(), got.RootID())
		assert.ElementsMatch(t, want.Nodes(), got.Nodes())
	})

	t.Run("Load Is Stable", func(t *testing.T) {
		first, err := source.Load(ctx)
		require.NoError(t, err)
		second, err := source.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, first.RootID(), second.RootID())
		assert.ElementsMatch(t, first.Nodes(), second.Nodes())
	})
}

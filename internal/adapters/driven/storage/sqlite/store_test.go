package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hedgehq/sitenodes/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func mustNode(t *testing.T, typ domain.NodeType, key string, fields map[string]any) *domain.Node {
	t.Helper()
	node, err := domain.NewNode(typ, key, fields)
	require.NoError(t, err)
	return node
}

func TestNewStore(t *testing.T) {
	t.Run("creates database in data directory", func(t *testing.T) {
		dir := t.TempDir()

		store, err := NewStore(dir)
		require.NoError(t, err)
		defer store.Close()

		assert.Equal(t, filepath.Join(dir, "nodes.db"), store.Path())
		assert.FileExists(t, store.Path())
	})

	t.Run("reopening an existing database succeeds", func(t *testing.T) {
		dir := t.TempDir()

		store, err := NewStore(dir)
		require.NoError(t, err)
		require.NoError(t, store.Close())

		store, err = NewStore(dir)
		require.NoError(t, err)
		store.Close()
	})
}

func TestStore_SaveNode(t *testing.T) {
	ctx := context.Background()

	t.Run("first save creates", func(t *testing.T) {
		store := newTestStore(t)
		node := mustNode(t, domain.TypeIssue, "Docs search is broken", map[string]any{"number": 12})

		outcome, err := store.SaveNode(ctx, node)
		require.NoError(t, err)
		assert.Equal(t, domain.SaveCreated, outcome)
	})

	t.Run("identical save is unchanged", func(t *testing.T) {
		store := newTestStore(t)
		node := mustNode(t, domain.TypeIssue, "Docs search is broken", map[string]any{"number": 12})

		_, err := store.SaveNode(ctx, node)
		require.NoError(t, err)

		outcome, err := store.SaveNode(ctx, node)
		require.NoError(t, err)
		assert.Equal(t, domain.SaveUnchanged, outcome)
	})

	t.Run("different digest updates", func(t *testing.T) {
		store := newTestStore(t)
		before := mustNode(t, domain.TypeIssue, "Docs search is broken", map[string]any{"comments": 4})
		after := mustNode(t, domain.TypeIssue, "Docs search is broken", map[string]any{"comments": 5})

		_, err := store.SaveNode(ctx, before)
		require.NoError(t, err)

		outcome, err := store.SaveNode(ctx, after)
		require.NoError(t, err)
		assert.Equal(t, domain.SaveUpdated, outcome)

		stored, err := store.GetNode(ctx, after.ID)
		require.NoError(t, err)
		assert.Equal(t, after.Digest, stored.Digest)
		assert.EqualValues(t, 5, stored.Fields["comments"])
	})
}

func TestStore_GetNode(t *testing.T) {
	ctx := context.Background()

	t.Run("round-trips fields", func(t *testing.T) {
		store := newTestStore(t)
		node := mustNode(t, domain.TypeIntegration, "stripe", map[string]any{
			"name": "stripe",
			"url":  "/integrations/stripe",
		})

		_, err := store.SaveNode(ctx, node)
		require.NoError(t, err)

		stored, err := store.GetNode(ctx, node.ID)
		require.NoError(t, err)

		assert.Equal(t, node.ID, stored.ID)
		assert.Equal(t, domain.TypeIntegration, stored.Type)
		assert.Equal(t, "stripe", stored.NaturalKey)
		assert.Equal(t, "stripe", stored.Fields["name"])
		assert.Equal(t, "/integrations/stripe", stored.Fields["url"])
	})

	t.Run("missing node returns not found", func(t *testing.T) {
		store := newTestStore(t)

		_, err := store.GetNode(ctx, "does-not-exist")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestStore_GetNodeByKey(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	node := mustNode(t, domain.TypePlugin, "s3-export", map[string]any{"name": "s3-export"})
	_, err := store.SaveNode(ctx, node)
	require.NoError(t, err)

	stored, err := store.GetNodeByKey(ctx, domain.TypePlugin, "s3-export")
	require.NoError(t, err)
	assert.Equal(t, node.ID, stored.ID)

	_, err = store.GetNodeByKey(ctx, domain.TypeIntegration, "s3-export")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_ListNodes(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, key := range []string{"zapier", "stripe", "hubspot"} {
		node := mustNode(t, domain.TypeIntegration, key, map[string]any{"name": key})
		_, err := store.SaveNode(ctx, node)
		require.NoError(t, err)
	}
	other := mustNode(t, domain.TypePlugin, "s3-export", map[string]any{"name": "s3-export"})
	_, err := store.SaveNode(ctx, other)
	require.NoError(t, err)

	nodes, err := store.ListNodes(ctx, domain.TypeIntegration)
	require.NoError(t, err)

	require.Len(t, nodes, 3)
	assert.Equal(t, "hubspot", nodes[0].NaturalKey)
	assert.Equal(t, "stripe", nodes[1].NaturalKey)
	assert.Equal(t, "zapier", nodes[2].NaturalKey)
}

func TestStore_DeleteNode(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	node := mustNode(t, domain.TypeIssue, "Docs search is broken", map[string]any{"number": 12})
	_, err := store.SaveNode(ctx, node)
	require.NoError(t, err)

	require.NoError(t, store.DeleteNode(ctx, node.ID))

	_, err = store.GetNode(ctx, node.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Deleting an absent node is not an error.
	assert.NoError(t, store.DeleteNode(ctx, node.ID))
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)

	node := mustNode(t, domain.TypeEndpointGroup, "event", map[string]any{
		"name": "event",
		"url":  "/docs/api/event",
	})
	_, err = store.SaveNode(ctx, node)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	outcome, err := store.SaveNode(ctx, node)
	require.NoError(t, err)
	assert.Equal(t, domain.SaveUnchanged, outcome)
}

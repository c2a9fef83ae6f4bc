package geo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryIndexRadiusQuery(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	idx := NewMemoryIndex()

	// ~0, ~2 and ~20 km from the query origin.
	require.NoError(t, idx.Index(ctx, "origin", 43.238949, 76.889709))
	require.NoError(t, idx.Index(ctx, "near", 43.256949, 76.889709))
	require.NoError(t, idx.Index(ctx, "far", 43.418949, 76.889709))

	ids, err := idx.RadiusQuery(ctx, 43.238949, 76.889709, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"near", "origin"}, ids)

	ids, err = idx.RadiusQuery(ctx, 43.238949, 76.889709, 50)
	require.NoError(t, err)
	assert.Equal(t, []string{"far", "near", "origin"}, ids)
}

func TestMemoryIndexReindexMoves(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	idx := NewMemoryIndex()

	require.NoError(t, idx.Index(ctx, "u1", 43.238949, 76.889709))
	// Re-indexing the same member replaces its position.
	require.NoError(t, idx.Index(ctx, "u1", 51.169392, 71.449074))

	ids, err := idx.RadiusQuery(ctx, 43.238949, 76.889709, 5)
	require.NoError(t, err)
	assert.Empty(t, ids)

	ids, err = idx.RadiusQuery(ctx, 51.169392, 71.449074, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, ids)
}

func TestMemoryIndexRemove(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	idx := NewMemoryIndex()

	require.NoError(t, idx.Index(ctx, "u1", 43.238949, 76.889709))
	require.NoError(t, idx.Remove(ctx, "u1"))
	// Removing an absent member is a no-op.
	require.NoError(t, idx.Remove(ctx, "ghost"))

	ids, err := idx.RadiusQuery(ctx, 43.238949, 76.889709, 5)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "a", "1"))
	require.NoError(t, s.Set(ctx, "a", "2"))

	v, ok, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2", v)

	require.NoError(t, s.Delete(ctx, "a"))
	require.NoError(t, s.Delete(ctx, "a"))
	_, ok, err = s.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreListKeys(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, "codes:active:aaa", "x"))
	require.NoError(t, s.Set(ctx, "codes:active:bbb", "y"))
	require.NoError(t, s.Set(ctx, "codes:history:ccc", "z"))

	keys, err := s.ListKeys(ctx, "codes:active:")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"codes:active:aaa", "codes:active:bbb"}, keys)

	keys, err = s.ListKeys(ctx, "nope:")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

package databases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codedrop/codedrop-api/storage"
)

func TestDirectoryAddRemove(t *testing.T) {
	ctx := context.Background()
	dir := NewTeacherDirectory(storage.NewMemoryStore())

	added, err := dir.Add(ctx, "teacher-b")
	require.NoError(t, err)
	assert.True(t, added)

	// duplicate add reports false without error
	added, err = dir.Add(ctx, "teacher-b")
	require.NoError(t, err)
	assert.False(t, added)

	added, err = dir.Add(ctx, "teacher-a")
	require.NoError(t, err)
	assert.True(t, added)

	ids, err := dir.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"teacher-a", "teacher-b"}, ids)

	removed, err := dir.Remove(ctx, "teacher-b")
	require.NoError(t, err)
	assert.True(t, removed)

	// removing an absent id reports false without error
	removed, err = dir.Remove(ctx, "teacher-b")
	require.NoError(t, err)
	assert.False(t, removed)

	ok, err := dir.Contains(ctx, "teacher-a")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = dir.Contains(ctx, "teacher-b")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDirectoryRejectsBlankID(t *testing.T) {
	ctx := context.Background()
	dir := NewTeacherDirectory(storage.NewMemoryStore())

	_, err := dir.Add(ctx, "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

package databases

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codedrop/codedrop-api/models"
	"github.com/codedrop/codedrop-api/storage"
)

func newTestHistoryDB() HistoryDatabase {
	clock := &fixedClock{now: time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)}
	return NewHistoryDatabase(storage.NewMemoryStore(), clock)
}

func TestHistoryNewestFirst(t *testing.T) {
	ctx := context.Background()
	db := newTestHistoryDB()

	for i := 0; i < 3; i++ {
		err := db.Append(ctx, "teacher", "t-1", models.HistoryEvent{
			Type: fmt.Sprintf("event-%d", i),
		})
		require.NoError(t, err)
	}

	events, err := db.List(ctx, "teacher", "t-1", 0)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "event-2", events[0].Type)
	assert.Equal(t, "event-0", events[2].Type)
	assert.NotEmpty(t, events[0].At)
}

func TestHistoryLimit(t *testing.T) {
	ctx := context.Background()
	db := newTestHistoryDB()

	for i := 0; i < 5; i++ {
		require.NoError(t, db.Append(ctx, "file", "f-1", models.HistoryEvent{Type: "file.uploaded"}))
	}

	events, err := db.List(ctx, "file", "f-1", 2)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestHistoryIsolatedPerEntity(t *testing.T) {
	ctx := context.Background()
	db := newTestHistoryDB()

	require.NoError(t, db.Append(ctx, "teacher", "t-1", models.HistoryEvent{Type: "teacher.created"}))
	require.NoError(t, db.Append(ctx, "file", "t-1", models.HistoryEvent{Type: "file.uploaded"}))

	events, err := db.List(ctx, "teacher", "t-1", 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "teacher.created", events[0].Type)
}

func TestHistoryRejectsBlankIdentifiers(t *testing.T) {
	ctx := context.Background()
	db := newTestHistoryDB()

	err := db.Append(ctx, "", "t-1", models.HistoryEvent{Type: "x"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	err = db.Append(ctx, "teacher", "", models.HistoryEvent{Type: "x"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestHistoryEmptyLog(t *testing.T) {
	ctx := context.Background()
	db := newTestHistoryDB()

	events, err := db.List(ctx, "teacher", "never-seen", 0)
	require.NoError(t, err)
	assert.Empty(t, events)
}

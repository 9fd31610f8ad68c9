package databases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codedrop/codedrop-api/codes"
	"github.com/codedrop/codedrop-api/storage"
)

func TestSweepMovesOverdueAndPurgesOld(t *testing.T) {
	ctx := context.Background()
	clock := &fixedClock{now: time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)}
	store := storage.NewMemoryStore()
	db := NewCodeDatabase(store, clock, codes.NewAccessCodeGenerator(1))
	sweeper := NewExpiryManager(store, clock)

	stale, err := db.Store(ctx, "stale", time.Hour, "")
	require.NoError(t, err)
	fresh, err := db.Store(ctx, "fresh", 48*time.Hour, "")
	require.NoError(t, err)

	clock.now = clock.now.Add(2 * time.Hour)
	result, err := sweeper.Sweep(ctx, clock.now)
	require.NoError(t, err)
	assert.Equal(t, 1, result.MovedToHistory)
	assert.Equal(t, 0, result.PurgedFromHistory)

	active, err := db.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, fresh.AccessCode, active[0].AccessCode)

	history, err := db.ListHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, stale.AccessCode, history[0].AccessCode)

	// past the retention window both history entries are purged; fresh went
	// overdue during the jump and is demoted then purged in the same pass
	clock.now = clock.now.Add(HistoryRetention + time.Hour)
	result, err = sweeper.Sweep(ctx, clock.now)
	require.NoError(t, err)
	assert.Equal(t, 1, result.MovedToHistory)
	assert.Equal(t, 2, result.PurgedFromHistory)
}

func TestSweepIsIdempotent(t *testing.T) {
	ctx := context.Background()
	clock := &fixedClock{now: time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)}
	store := storage.NewMemoryStore()
	db := NewCodeDatabase(store, clock, codes.NewAccessCodeGenerator(1))
	sweeper := NewExpiryManager(store, clock)

	_, err := db.Store(ctx, "payload", time.Hour, "")
	require.NoError(t, err)

	clock.now = clock.now.Add(2 * time.Hour)
	first, err := sweeper.Sweep(ctx, clock.now)
	require.NoError(t, err)
	assert.Equal(t, 1, first.MovedToHistory)

	second, err := sweeper.Sweep(ctx, clock.now)
	require.NoError(t, err)
	assert.Equal(t, 0, second.MovedToHistory)
	assert.Equal(t, 0, second.PurgedFromHistory)
}

func TestSweepEmptyStore(t *testing.T) {
	ctx := context.Background()
	clock := &fixedClock{now: time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)}
	sweeper := NewExpiryManager(storage.NewMemoryStore(), clock)

	result, err := sweeper.Sweep(ctx, clock.now)
	require.NoError(t, err)
	assert.Zero(t, result.MovedToHistory)
	assert.Zero(t, result.PurgedFromHistory)
}

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

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

func newTestCodeDB(t *testing.T) (CodeDatabase, *fixedClock, storage.KeyValueStore) {
	t.Helper()
	clock := &fixedClock{now: time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)}
	store := storage.NewMemoryStore()
	return NewCodeDatabase(store, clock, codes.NewAccessCodeGenerator(1)), clock, store
}

func TestStoreAndRetrieve(t *testing.T) {
	ctx := context.Background()
	db, clock, _ := newTestCodeDB(t)

	record, err := db.Store(ctx, "  fmt.Println(\"hi\")  ", time.Hour, "teacher-1")
	require.NoError(t, err)
	assert.Len(t, record.AccessCode, codes.AccessCodeLength)
	assert.Equal(t, "fmt.Println(\"hi\")", record.Code)
	assert.Equal(t, clock.now.UnixMilli(), record.CreatedAt)
	assert.Equal(t, clock.now.Add(time.Hour).UnixMilli(), record.ExpiresAt)
	assert.False(t, record.Extended)
	assert.Equal(t, "teacher-1", record.TeacherID)

	got, err := db.Retrieve(ctx, record.AccessCode)
	require.NoError(t, err)
	assert.Equal(t, record.Code, got.Code)
}

func TestStoreRejectsBlankPayload(t *testing.T) {
	ctx := context.Background()
	db, _, _ := newTestCodeDB(t)

	_, err := db.Store(ctx, "   \n\t  ", time.Hour, "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = db.Store(ctx, "code", 0, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRetrieveUnknownCode(t *testing.T) {
	ctx := context.Background()
	db, _, _ := newTestCodeDB(t)

	_, err := db.Retrieve(ctx, "AAAAAAAAAAAA")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRetrieveLazilyExpires(t *testing.T) {
	ctx := context.Background()
	db, clock, _ := newTestCodeDB(t)

	record, err := db.Store(ctx, "payload", time.Hour, "")
	require.NoError(t, err)

	// one millisecond past expiry
	clock.now = clock.now.Add(time.Hour + time.Millisecond)

	_, err = db.Retrieve(ctx, record.AccessCode)
	assert.ErrorIs(t, err, ErrNotFound)

	active, err := db.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	history, err := db.ListHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, record.AccessCode, history[0].AccessCode)
	assert.True(t, history[0].Expired)
}

func TestRetrieveAtBoundaryTimes(t *testing.T) {
	ctx := context.Background()
	db, clock, _ := newTestCodeDB(t)
	stored := clock.now

	record, err := db.Store(ctx, "payload", time.Hour, "")
	require.NoError(t, err)

	// one second in, still retrievable
	clock.now = stored.Add(time.Second)
	_, err = db.Retrieve(ctx, record.AccessCode)
	require.NoError(t, err)

	// exactly at expiry the record is gone
	clock.now = stored.Add(time.Hour)
	_, err = db.Retrieve(ctx, record.AccessCode)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExtendOnce(t *testing.T) {
	ctx := context.Background()
	db, clock, _ := newTestCodeDB(t)

	record, err := db.Store(ctx, "payload", time.Hour, "")
	require.NoError(t, err)

	clock.now = clock.now.Add(30 * time.Minute)
	extended, err := db.ExtendOnce(ctx, record.AccessCode, 24*time.Hour)
	require.NoError(t, err)
	assert.True(t, extended.Extended)
	assert.Equal(t, clock.now.Add(24*time.Hour).UnixMilli(), extended.ExpiresAt)

	_, err = db.ExtendOnce(ctx, record.AccessCode, 24*time.Hour)
	assert.ErrorIs(t, err, ErrAlreadyExtended)
}

func TestExtendUnknownCode(t *testing.T) {
	ctx := context.Background()
	db, _, _ := newTestCodeDB(t)

	_, err := db.ExtendOnce(ctx, "AAAAAAAAAAAA", 24*time.Hour)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExpireManually(t *testing.T) {
	ctx := context.Background()
	db, _, _ := newTestCodeDB(t)

	record, err := db.Store(ctx, "payload", time.Hour, "")
	require.NoError(t, err)

	moved, err := db.ExpireManually(ctx, record.AccessCode)
	require.NoError(t, err)
	assert.True(t, moved)

	// second call is a no-op
	moved, err = db.ExpireManually(ctx, record.AccessCode)
	require.NoError(t, err)
	assert.False(t, moved)

	history, err := db.ListHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].Expired)
}

func TestMoveToHistoryKeepsNamespacesDisjoint(t *testing.T) {
	ctx := context.Background()
	db, _, store := newTestCodeDB(t)

	record, err := db.Store(ctx, "payload", time.Hour, "")
	require.NoError(t, err)

	_, err = db.ExpireManually(ctx, record.AccessCode)
	require.NoError(t, err)

	_, ok, err := store.Get(ctx, activeCodeKey(record.AccessCode))
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = store.Get(ctx, historyCodeKey(record.AccessCode))
	require.NoError(t, err)
	assert.True(t, ok)
}

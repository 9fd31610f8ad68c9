package databases

import (
	"context"
	"time"

	"github.com/codedrop/codedrop-api/models"
	"github.com/codedrop/codedrop-api/storage"
)

// HistoryRetention bounds how long expired records stay visible in history
const HistoryRetention = 30 * 24 * time.Hour

// ExpiryManager demotes overdue active records into history and purges
// history entries past the retention window. Sweep works record-by-record,
// is idempotent, and is safe to run alongside reads and writes of unrelated
// keys.
type ExpiryManager struct {
	codes *codeDatabase
}

// NewExpiryManager initializes a sweeper over the provided store
func NewExpiryManager(store storage.KeyValueStore, clock Clock) *ExpiryManager {
	return &ExpiryManager{codes: &codeDatabase{store: store, clock: clock}}
}

// Sweep runs one pass at the given time and reports what it moved and purged
func (m *ExpiryManager) Sweep(ctx context.Context, now time.Time) (models.SweepResult, error) {
	var result models.SweepResult
	nowMillis := now.UnixMilli()

	activeKeys, err := m.codes.store.ListKeys(ctx, activeCodePrefix)
	if err != nil {
		return result, err
	}
	for _, key := range activeKeys {
		record, err := m.codes.get(ctx, key)
		if err != nil {
			return result, err
		}
		if record == nil {
			continue
		}
		if record.ExpiresAt < nowMillis {
			if err := m.codes.moveToHistory(ctx, record); err != nil {
				return result, err
			}
			result.MovedToHistory++
		}
	}

	cutoff := now.Add(-HistoryRetention).UnixMilli()
	historyKeys, err := m.codes.store.ListKeys(ctx, historyCodePrefix)
	if err != nil {
		return result, err
	}
	for _, key := range historyKeys {
		record, err := m.codes.get(ctx, key)
		if err != nil {
			return result, err
		}
		if record == nil {
			continue
		}
		if record.CreatedAt < cutoff {
			if err := m.codes.store.Delete(ctx, key); err != nil {
				return result, err
			}
			result.PurgedFromHistory++
		}
	}

	return result, nil
}

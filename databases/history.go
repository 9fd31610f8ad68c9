package databases

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/codedrop/codedrop-api/models"
	"github.com/codedrop/codedrop-api/storage"
)

// maxHistoryEvents caps the per-entity event log; oldest entries fall off
const maxHistoryEvents = 500

// HistoryDatabase is an append-only event log per (entity, id) pair, newest
// first. Best-effort bookkeeping, not an audit trail.
type HistoryDatabase interface {
	Append(ctx context.Context, entity, id string, event models.HistoryEvent) error
	List(ctx context.Context, entity, id string, limit int) ([]models.HistoryEvent, error)
}

type historyDatabase struct {
	store storage.KeyValueStore
	clock Clock
}

// NewHistoryDatabase initializes an event log over the provided store
func NewHistoryDatabase(store storage.KeyValueStore, clock Clock) HistoryDatabase {
	return &historyDatabase{store: store, clock: clock}
}

func (h *historyDatabase) Append(ctx context.Context, entity, id string, event models.HistoryEvent) error {
	if entity == "" || id == "" {
		return fmt.Errorf("%w: entity and id are required", ErrInvalidInput)
	}
	if event.At == "" {
		event.At = h.clock.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00")
	}

	events, err := h.load(ctx, entity, id)
	if err != nil {
		return err
	}
	events = append([]models.HistoryEvent{event}, events...)
	if len(events) > maxHistoryEvents {
		events = events[:maxHistoryEvents]
	}

	b, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("%w: marshal history: %v", ErrStorageUnavailable, err)
	}
	return h.store.Set(ctx, historyLogKey(entity, id), string(b))
}

func (h *historyDatabase) List(ctx context.Context, entity, id string, limit int) ([]models.HistoryEvent, error) {
	events, err := h.load(ctx, entity, id)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

func (h *historyDatabase) load(ctx context.Context, entity, id string) ([]models.HistoryEvent, error) {
	raw, ok, err := h.store.Get(ctx, historyLogKey(entity, id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.HistoryEvent{}, nil
	}
	var events []models.HistoryEvent
	if err := json.Unmarshal([]byte(raw), &events); err != nil {
		return nil, fmt.Errorf("%w: corrupt history log %s:%s: %v", ErrStorageUnavailable, entity, id, err)
	}
	return events, nil
}

package databases

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/codedrop/codedrop-api/codes"
	"github.com/codedrop/codedrop-api/models"
	"github.com/codedrop/codedrop-api/storage"
)

// maxGenerateRetries bounds access-code generation against the (practically
// impossible) case of the 62^12 space running dry
const maxGenerateRetries = 1000

// CodeDatabase owns the lifecycle of stored snippet records. A record lives
// in exactly one of two key prefixes at a time, active or history, and every
// mutation is persisted before the call returns.
type CodeDatabase interface {
	Store(ctx context.Context, payload string, ttl time.Duration, teacherID string) (*models.StoredCode, error)
	Retrieve(ctx context.Context, accessCode string) (*models.StoredCode, error)
	ExtendOnce(ctx context.Context, accessCode string, ttl time.Duration) (*models.StoredCode, error)
	ExpireManually(ctx context.Context, accessCode string) (bool, error)
	ListActive(ctx context.Context) ([]models.StoredCode, error)
	ListHistory(ctx context.Context) ([]models.StoredCode, error)
}

type codeDatabase struct {
	store storage.KeyValueStore
	clock Clock
	gen   *codes.AccessCodeGenerator
}

// NewCodeDatabase initializes a code database over the provided store
func NewCodeDatabase(store storage.KeyValueStore, clock Clock, gen *codes.AccessCodeGenerator) CodeDatabase {
	return &codeDatabase{store: store, clock: clock, gen: gen}
}

func (c *codeDatabase) Store(ctx context.Context, payload string, ttl time.Duration, teacherID string) (*models.StoredCode, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, fmt.Errorf("%w: payload must be a non-empty string", ErrInvalidInput)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("%w: ttl must be positive", ErrInvalidInput)
	}

	accessCode, err := c.generateUnused(ctx)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now().UnixMilli()
	record := &models.StoredCode{
		AccessCode: accessCode,
		Code:       payload,
		CreatedAt:  now,
		ExpiresAt:  now + ttl.Milliseconds(),
		Extended:   false,
		TeacherID:  teacherID,
	}
	if err := c.put(ctx, activeCodeKey(accessCode), record); err != nil {
		return nil, err
	}
	return record, nil
}

func (c *codeDatabase) Retrieve(ctx context.Context, accessCode string) (*models.StoredCode, error) {
	record, err := c.get(ctx, activeCodeKey(accessCode))
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("%w: access code %q", ErrNotFound, accessCode)
	}

	if record.ExpiresAt <= c.clock.Now().UnixMilli() {
		// lazy expiry on read
		if err := c.moveToHistory(ctx, record); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: access code %q has expired", ErrNotFound, accessCode)
	}
	return record, nil
}

func (c *codeDatabase) ExtendOnce(ctx context.Context, accessCode string, ttl time.Duration) (*models.StoredCode, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("%w: ttl must be positive", ErrInvalidInput)
	}
	record, err := c.get(ctx, activeCodeKey(accessCode))
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("%w: access code %q", ErrNotFound, accessCode)
	}
	if record.Extended {
		return nil, fmt.Errorf("%w: access code %q", ErrAlreadyExtended, accessCode)
	}

	record.ExpiresAt = c.clock.Now().UnixMilli() + ttl.Milliseconds()
	record.Extended = true
	if err := c.put(ctx, activeCodeKey(accessCode), record); err != nil {
		return nil, err
	}
	return record, nil
}

func (c *codeDatabase) ExpireManually(ctx context.Context, accessCode string) (bool, error) {
	record, err := c.get(ctx, activeCodeKey(accessCode))
	if err != nil {
		return false, err
	}
	if record == nil {
		// idempotent no-op
		return false, nil
	}
	if err := c.moveToHistory(ctx, record); err != nil {
		return false, err
	}
	return true, nil
}

func (c *codeDatabase) ListActive(ctx context.Context) ([]models.StoredCode, error) {
	return c.list(ctx, activeCodePrefix)
}

func (c *codeDatabase) ListHistory(ctx context.Context) ([]models.StoredCode, error) {
	return c.list(ctx, historyCodePrefix)
}

// moveToHistory writes the history copy before deleting the active key, so
// a crash in between leaves a harmless duplicate rather than a lost record
func (c *codeDatabase) moveToHistory(ctx context.Context, record *models.StoredCode) error {
	record.Expired = true
	if err := c.put(ctx, historyCodeKey(record.AccessCode), record); err != nil {
		return err
	}
	return c.store.Delete(ctx, activeCodeKey(record.AccessCode))
}

func (c *codeDatabase) generateUnused(ctx context.Context) (string, error) {
	for i := 0; i < maxGenerateRetries; i++ {
		candidate := c.gen.Generate()
		_, exists, err := c.store.Get(ctx, activeCodeKey(candidate))
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", ErrExhaustedRetries
}

func (c *codeDatabase) get(ctx context.Context, key string) (*models.StoredCode, error) {
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var record models.StoredCode
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, fmt.Errorf("%w: corrupt record at %s: %v", ErrStorageUnavailable, key, err)
	}
	return &record, nil
}

func (c *codeDatabase) put(ctx context.Context, key string, record *models.StoredCode) error {
	b, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("%w: marshal record: %v", ErrStorageUnavailable, err)
	}
	return c.store.Set(ctx, key, string(b))
}

func (c *codeDatabase) list(ctx context.Context, prefix string) ([]models.StoredCode, error) {
	keys, err := c.store.ListKeys(ctx, prefix)
	if err != nil {
		return nil, err
	}
	records := make([]models.StoredCode, 0, len(keys))
	for _, key := range keys {
		record, err := c.get(ctx, key)
		if err != nil {
			return nil, err
		}
		if record != nil {
			records = append(records, *record)
		}
	}
	return records, nil
}

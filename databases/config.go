package databases

import (
	"context"
	"fmt"
	"strings"

	"github.com/codedrop/codedrop-api/storage"
)

// ConfigDatabase is a tiny runtime key-value collection for operator-tweaked
// values (the welcome greeting and similar), separate from process config.
type ConfigDatabase interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

type configDatabase struct {
	store storage.KeyValueStore
}

// NewConfigDatabase initializes a runtime config collection over the provided store
func NewConfigDatabase(store storage.KeyValueStore) ConfigDatabase {
	return &configDatabase{store: store}
}

func (c *configDatabase) Get(ctx context.Context, key string) (string, bool, error) {
	if strings.TrimSpace(key) == "" {
		return "", false, fmt.Errorf("%w: config key must be non-empty", ErrInvalidInput)
	}
	return c.store.Get(ctx, configKey(key))
}

func (c *configDatabase) Set(ctx context.Context, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: config key must be non-empty", ErrInvalidInput)
	}
	return c.store.Set(ctx, configKey(key), value)
}

package storage

import (
	"context"
	"errors"
)

// ErrUnavailable indicates the backing store could not service the request.
// Callers treat it as a server-side fault; every other condition is modeled
// as a plain not-found.
var ErrUnavailable = errors.New("storage unavailable")

// KeyValueStore is the single capability interface the repositories are
// written against. Implementations must make Get/Set/Delete of a single key
// atomic; no cross-key transactions are offered.
type KeyValueStore interface {
	// Get returns the value for key and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// ListKeys returns all keys that start with prefix, in no meaningful order.
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}

package api

import (
	"context"
	"time"
)

// QueryTimeout is the default timeout for storage operations
const QueryTimeout = 5 * time.Second

// WithQueryTimeout creates a context with the storage query timeout
func WithQueryTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, QueryTimeout)
}

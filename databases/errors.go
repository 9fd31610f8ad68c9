package databases

import (
	"errors"

	"github.com/codedrop/codedrop-api/storage"
)

// The full error taxonomy for the snippet lifecycle. Handlers map each kind
// to a status code; only ErrStorageUnavailable is treated as a server fault,
// the rest are expected client-correctable conditions.
var (
	// ErrInvalidInput flags an empty or malformed payload or identifier
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound flags an unknown or already-expired access code
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExtended flags a second extension attempt on a record
	ErrAlreadyExtended = errors.New("already extended")
	// ErrUnauthorized flags an extension-code mismatch
	ErrUnauthorized = errors.New("unauthorized")
	// ErrExhaustedRetries flags access-code generation giving up on
	// collisions; with a 62^12 space this is practically unreachable
	ErrExhaustedRetries = errors.New("exhausted code generation retries")
	// ErrStorageUnavailable flags backing store I/O failure
	ErrStorageUnavailable = storage.ErrUnavailable
)

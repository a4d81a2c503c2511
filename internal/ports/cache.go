package ports

import (
	"context"
	"time"
)

// Compute produces a fresh value on a cache miss.
type Compute func(ctx context.Context) ([]byte, error)

// Cache is a shared key/value store with get-or-compute semantics.
// Implementations MUST compute at most once per key across concurrent callers of the
// same process where the backend allows it, and MUST NOT store a value when compute fails.
type Cache interface {
	// GetOrSet returns the stored value for key, or runs compute, stores its result
	// for ttl and returns it.
	GetOrSet(ctx context.Context, key string, ttl time.Duration, compute Compute) ([]byte, error)

	// Delete drops key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

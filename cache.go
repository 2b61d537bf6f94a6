package fraiseql

import (
	"context"
	"time"
)

// Backend is the interface a pluggable cache storage implements. The
// dependency-tracked result cache (package cache) is storage-agnostic:
// it keeps the dependency index and coherency bookkeeping in-process and
// delegates byte storage to a Backend, which may be in-memory, Redis, or
// anything else. A Backend failing is never fatal to a request: callers
// must fail open (treat an error as a miss) per spec §5.
type Backend interface {
	// Get retrieves a value. Returns (nil, nil) on a miss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with an optional TTL; ttl == 0 means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a single key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every value the backend holds.
	Clear(ctx context.Context) error
}

// Fingerprint is the cache key derived from an operation's source text,
// its canonicalised variables, and any tenant/role scoping the calling
// layer supplies (spec §6.6). It is opaque to everything except the
// hashing function that produces it.
type Fingerprint string

// EntityKey identifies a single entity for cascade-driven invalidation
// (spec §3 Cascade, §4.7). ID == "*" means "every entity of Type".
type EntityKey struct {
	Type string
	ID   string
}

// String renders the canonical "type:id" form used as the reverse-index
// wildcard/specific dependency key.
func (k EntityKey) String() string {
	return k.Type + ":" + k.ID
}

// Wildcard returns the EntityKey meaning "every entity of this type".
func Wildcard(typeName string) EntityKey {
	return EntityKey{Type: typeName, ID: "*"}
}

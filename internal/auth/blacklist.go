package auth

import (
	"context"
	"time"
)

// Blacklist is the durable set of revoked-but-unexpired token ids, shared by
// the gate and the sweep task. Implementations must be safe for concurrent
// revoke/lookup/sweep, and a lookup started after a revoke returned must
// observe it.
type Blacklist interface {
	// Revoke inserts the token id. Inserting an already-present id is a no-op.
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	// IsRevoked is a point lookup.
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	// Sweep deletes every record whose expiry is before now and reports how
	// many were removed.
	Sweep(ctx context.Context, now time.Time) (int64, error)
}

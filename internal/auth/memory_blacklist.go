package auth

import (
	"context"
	"sync"
	"time"
)

// MemoryBlacklist is an in-process Blacklist for single-instance deployments
// and tests. The mutex gives per-key linearizability: a lookup started after
// Revoke returned always observes the entry.
type MemoryBlacklist struct {
	mu      sync.RWMutex
	entries map[string]time.Time
}

func NewMemoryBlacklist() *MemoryBlacklist {
	return &MemoryBlacklist{entries: make(map[string]time.Time)}
}

func (b *MemoryBlacklist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.entries[tokenID]; !exists {
		b.entries[tokenID] = expiresAt
	}
	return nil
}

func (b *MemoryBlacklist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, revoked := b.entries[tokenID]
	return revoked, nil
}

func (b *MemoryBlacklist) Sweep(ctx context.Context, now time.Time) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var removed int64
	for tokenID, expiresAt := range b.entries {
		if expiresAt.Before(now) {
			delete(b.entries, tokenID)
			removed++
		}
	}
	return removed, nil
}

package auth

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMemoryBlacklist(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Now()

	t.Run("revoked until swept past expiry", func(t *testing.T) {
		blacklist := NewMemoryBlacklist()
		expiry := now.Add(time.Hour)

		if err := blacklist.Revoke(ctx, "jti-1", expiry); err != nil {
			t.Fatalf("revoke: %v", err)
		}

		revoked, err := blacklist.IsRevoked(ctx, "jti-1")
		if err != nil {
			t.Fatalf("isRevoked: %v", err)
		}
		if !revoked {
			t.Error("token should be revoked after Revoke returned")
		}

		// Sweep before expiry keeps the entry.
		if _, err := blacklist.Sweep(ctx, now); err != nil {
			t.Fatalf("sweep: %v", err)
		}
		if revoked, _ := blacklist.IsRevoked(ctx, "jti-1"); !revoked {
			t.Error("sweep before expiry must not remove the entry")
		}

		removed, err := blacklist.Sweep(ctx, expiry.Add(time.Second))
		if err != nil {
			t.Fatalf("sweep: %v", err)
		}
		if removed != 1 {
			t.Errorf("removed = %d, want 1", removed)
		}
		if revoked, _ := blacklist.IsRevoked(ctx, "jti-1"); revoked {
			t.Error("physically expired entry should be gone")
		}
	})

	t.Run("no false positives", func(t *testing.T) {
		blacklist := NewMemoryBlacklist()
		blacklist.Revoke(ctx, "jti-1", now.Add(time.Hour))

		if revoked, _ := blacklist.IsRevoked(ctx, "jti-2"); revoked {
			t.Error("unrevoked token reported revoked")
		}
	})

	t.Run("revoke is idempotent", func(t *testing.T) {
		blacklist := NewMemoryBlacklist()
		expiry := now.Add(time.Hour)

		blacklist.Revoke(ctx, "jti-1", expiry)
		blacklist.Revoke(ctx, "jti-1", expiry.Add(time.Hour))

		// The original expiry wins; a later sweep at the first expiry clears it.
		removed, _ := blacklist.Sweep(ctx, expiry.Add(time.Second))
		if removed != 1 {
			t.Errorf("removed = %d, want 1", removed)
		}
	})

	t.Run("concurrent revoke lookup sweep", func(t *testing.T) {
		blacklist := NewMemoryBlacklist()
		expiry := now.Add(time.Hour)

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				blacklist.Revoke(ctx, "jti-shared", expiry)
				blacklist.IsRevoked(ctx, "jti-shared")
				blacklist.Sweep(ctx, now)
			}()
		}
		wg.Wait()

		if revoked, _ := blacklist.IsRevoked(ctx, "jti-shared"); !revoked {
			t.Error("entry lost under concurrent access")
		}
	})
}

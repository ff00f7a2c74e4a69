package inventory

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestPoolLocksOverlappingScopesDoNotDeadlock(t *testing.T) {
	t.Parallel()
	locks := newPoolLocks()

	// Two scopes sharing keys, requested in opposite orders many times over.
	// Sorted acquisition means neither ordering can wedge the other.
	const rounds = 200
	var wg sync.WaitGroup
	for i := 0; i < rounds; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			release, err := locks.acquire(context.Background(), []string{"event:a", "package:b"})
			if err != nil {
				t.Errorf("acquire: %v", err)
				return
			}
			release()
		}()
		go func() {
			defer wg.Done()
			release, err := locks.acquire(context.Background(), []string{"package:b", "event:a"})
			if err != nil {
				t.Errorf("acquire: %v", err)
				return
			}
			release()
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("lock acquisition deadlocked")
	}
}

func TestPoolLocksDuplicateKeys(t *testing.T) {
	t.Parallel()
	locks := newPoolLocks()

	release, err := locks.acquire(context.Background(), []string{"event:a", "event:a"})
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	release()

	// The slot must be free again afterwards.
	release, err = locks.acquire(context.Background(), []string{"event:a"})
	if err != nil {
		t.Fatalf("reacquire: %v", err)
	}
	release()
}

func TestPoolLocksCancelReleasesPartialHold(t *testing.T) {
	t.Parallel()
	locks := newPoolLocks()

	// Hold one key of a two-key scope so the scope's acquire blocks midway.
	blocker, err := locks.acquire(context.Background(), []string{"package:b"})
	if err != nil {
		t.Fatalf("acquire blocker: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Millisecond)
	defer cancel()
	if _, err := locks.acquire(ctx, []string{"event:a", "package:b"}); err == nil {
		t.Fatal("expected acquire to fail while package:b is held")
	}

	blocker()

	// The cancelled attempt must have let go of event:a on its way out.
	release, err := locks.acquire(context.Background(), []string{"event:a", "package:b"})
	if err != nil {
		t.Fatalf("acquire after cancel: %v", err)
	}
	release()
}

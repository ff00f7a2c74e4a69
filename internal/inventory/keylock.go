package inventory

import (
	"context"
	"sort"
	"sync"
)

// poolLocks hands out one exclusive slot per capacity pool key.
type poolLocks struct {
	mu    sync.Mutex
	pools map[string]chan struct{}
}

func newPoolLocks() *poolLocks {
	return &poolLocks{pools: make(map[string]chan struct{})}
}

func (l *poolLocks) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.pools[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.pools[key] = ch
	}
	return ch
}

// acquire takes every key's slot or none. Keys are deduplicated and taken in
// sorted order so overlapping scopes cannot deadlock against each other.
func (l *poolLocks) acquire(ctx context.Context, keys []string) (release func(), err error) {
	sorted := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	held := make([]chan struct{}, 0, len(sorted))
	release = func() {
		for i := len(held) - 1; i >= 0; i-- {
			<-held[i]
		}
	}

	for _, key := range sorted {
		ch := l.slot(key)
		select {
		case ch <- struct{}{}:
			held = append(held, ch)
		case <-ctx.Done():
			release()
			return nil, ctx.Err()
		}
	}
	return release, nil
}

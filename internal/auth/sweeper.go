package auth

import (
	"context"
	"log"
	"time"
)

const DefaultSweepInterval = time.Hour

// Sweeper periodically deletes expired blacklist entries. It runs on its own
// schedule, independent of request traffic, and tolerates skipped rounds.
type Sweeper struct {
	blacklist Blacklist
	interval  time.Duration
}

func NewSweeper(blacklist Blacklist, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{blacklist: blacklist, interval: interval}
}

// Run blocks until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.blacklist.Sweep(ctx, time.Now())
			if err != nil {
				log.Printf("token sweep failed: %v", err)
				continue
			}
			if removed > 0 {
				log.Printf("token sweep removed %d expired entries", removed)
			}
		}
	}
}

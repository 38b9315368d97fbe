// Package ratelimit provides an in-process keyed token bucket limiter. It
// throttles login attempts when no Redis instance is configured.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Keyed hands out one token bucket per key.
type Keyed struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

// New creates an empty keyed limiter.
func New() *Keyed {
	return &Keyed{entries: make(map[string]*entry), now: time.Now}
}

// Allow reports whether another event for key fits inside limit events per
// window. The bucket refills continuously, so a blocked key recovers one
// attempt every window/limit.
func (k *Keyed) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 || window <= 0 {
		return true, nil
	}
	now := k.now()
	lim := k.limiter(key, rate.Every(window/time.Duration(limit)), limit, now)
	return lim.AllowN(now, 1), nil
}

// Wait blocks until key may proceed at rps with the given burst.
func (k *Keyed) Wait(ctx context.Context, key string, rps float64, burst int) error {
	if rps <= 0 {
		return nil
	}
	return k.limiter(key, rate.Limit(rps), burst, k.now()).Wait(ctx)
}

// Prune drops buckets unused for longer than idle and returns how many went.
func (k *Keyed) Prune(idle time.Duration) int {
	cutoff := k.now().Add(-idle)
	k.mu.Lock()
	defer k.mu.Unlock()
	removed := 0
	for key, e := range k.entries {
		if e.lastSeen.Before(cutoff) {
			delete(k.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of live buckets.
func (k *Keyed) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}

func (k *Keyed) limiter(key string, limit rate.Limit, burst int, now time.Time) *rate.Limiter {
	if burst < 1 {
		burst = 1
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	e, ok := k.entries[key]
	if !ok || e.limiter.Limit() != limit || e.limiter.Burst() != burst {
		e = &entry{limiter: rate.NewLimiter(limit, burst)}
		k.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter
}

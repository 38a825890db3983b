// Package ratelimit throttles anonymous traffic to the public invoice routes.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter decides whether one more request for key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter shares a token bucket per key across replicas.
type RedisLimiter struct {
	bucket *TokenBucket
	prefix string
	rate   float64
	burst  int
}

func NewRedisLimiter(bucket *TokenBucket, prefix string, perSecond float64, burst int) *RedisLimiter {
	return &RedisLimiter{bucket: bucket, prefix: prefix, rate: perSecond, burst: burst}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	res, err := l.bucket.Allow(ctx, l.prefix+key, l.rate, l.burst)
	if err != nil {
		return false, err
	}
	return res.Allowed, nil
}

type localEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LocalLimiter keeps one in-process token bucket per key. Buckets unused
// for idleTTL are evicted on a later call.
type LocalLimiter struct {
	mu        sync.Mutex
	entries   map[string]*localEntry
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewLocalLimiter(perSecond float64, burst int, idleTTL time.Duration) *LocalLimiter {
	return newLocalLimiter(perSecond, burst, idleTTL, time.Now)
}

func newLocalLimiter(perSecond float64, burst int, idleTTL time.Duration, now func() time.Time) *LocalLimiter {
	if idleTTL <= 0 {
		idleTTL = 10 * time.Minute
	}
	return &LocalLimiter{
		entries:   make(map[string]*localEntry),
		limit:     rate.Limit(perSecond),
		burst:     burst,
		idleTTL:   idleTTL,
		lastSweep: now(),
		now:       now,
	}
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.idleTTL {
		for k, entry := range l.entries {
			if now.Sub(entry.lastSeen) >= l.idleTTL {
				delete(l.entries, k)
			}
		}
		l.lastSweep = now
	}

	entry, ok := l.entries[key]
	if !ok {
		entry = &localEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1), nil
}

func (l *LocalLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

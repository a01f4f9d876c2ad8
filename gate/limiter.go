package gate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kbukum/voicekit/redis"
)

// Window is the rate-limit period. Limits are requests per Window.
const Window = time.Minute

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter counts requests per key.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int) (Decision, error)
}

// MemoryLimiter is an in-process sliding window. Counts are lost on
// restart and not shared between replicas.
type MemoryLimiter struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	calls  int
	window time.Duration
	now    func() time.Time
}

const sweepEvery = 1024

// NewMemoryLimiter creates a limiter with the one-minute window.
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{hits: make(map[string][]time.Time), window: Window, now: time.Now}
}

// Allow records a hit for key unless limit hits already fall inside the window.
func (l *MemoryLimiter) Allow(_ context.Context, key string, limit int) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	l.calls++
	if l.calls%sweepEvery == 0 {
		l.sweep(cutoff)
	}

	valid := after(l.hits[key], cutoff)
	if len(valid) >= limit {
		l.hits[key] = valid
		retry := l.window
		if len(valid) > 0 {
			retry = valid[0].Add(l.window).Sub(now)
		}
		return Decision{Limit: limit, RetryAfter: retry}, nil
	}
	l.hits[key] = append(valid, now)
	return Decision{Allowed: true, Limit: limit, Remaining: limit - len(valid) - 1}, nil
}

func (l *MemoryLimiter) sweep(cutoff time.Time) {
	for key, times := range l.hits {
		if valid := after(times, cutoff); len(valid) == 0 {
			delete(l.hits, key)
		} else {
			l.hits[key] = valid
		}
	}
}

// after returns the suffix of ascending times later than cutoff.
func after(times []time.Time, cutoff time.Time) []time.Time {
	for i, t := range times {
		if t.After(cutoff) {
			return times[i:]
		}
	}
	return nil
}

// HitCounter is a fixed-window counter shared between replicas.
// *redis.Client implements it.
type HitCounter interface {
	Hit(ctx context.Context, name string, window time.Duration) (redis.Counter, error)
}

// RedisLimiter is a fixed window shared by every replica. Counters live
// under "rate_limit:" inside the client's key namespace.
type RedisLimiter struct {
	counter HitCounter
	window  time.Duration
}

// NewRedisLimiter creates a limiter over counter.
func NewRedisLimiter(counter HitCounter) *RedisLimiter {
	return &RedisLimiter{counter: counter, window: Window}
}

// Allow counts a hit for key; hits past limit are refused until the
// window resets.
func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int) (Decision, error) {
	c, err := l.counter.Hit(ctx, "rate_limit:"+key, l.window)
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit: %w", err)
	}
	d := Decision{Limit: limit, Allowed: c.Count <= int64(limit)}
	if d.Allowed {
		d.Remaining = limit - int(c.Count)
	} else {
		d.RetryAfter = c.TTL
	}
	return d, nil
}

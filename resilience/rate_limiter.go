package resilience

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterConfig paces calls to one provider, e.g. to stay under a free
// tier's requests-per-minute quota.
type RateLimiterConfig struct {
	Name string `yaml:"-" mapstructure:"-"`
	// Rate is requests per second. Default 10.
	Rate float64 `yaml:"rate" mapstructure:"rate"`
	// Burst defaults to Rate rounded down, and at least 1.
	Burst int `yaml:"burst" mapstructure:"burst"`
}

// RateLimiter is a token bucket in front of outbound provider calls.
type RateLimiter struct {
	lim *rate.Limiter
	now func() time.Time
}

func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	if cfg.Rate <= 0 {
		cfg.Rate = 10
	}
	if cfg.Burst <= 0 {
		cfg.Burst = max(int(cfg.Rate), 1)
	}
	return &RateLimiter{lim: rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Burst), now: time.Now}
}

// Allow takes a token without waiting.
func (rl *RateLimiter) Allow() bool {
	return rl.lim.AllowN(rl.now(), 1)
}

// Wait blocks until a token is free. It fails at once when ctx is done or
// its deadline would pass first.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	return rl.lim.Wait(ctx)
}

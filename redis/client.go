package redis

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/voicekit/logger"
)

// Client is a go-redis client bound to a key namespace.
type Client struct {
	rdb    *goredis.Client
	prefix string
	closed atomic.Bool
}

// New creates a client without dialing; Ping verifies the server.
func New(cfg Config, log *logger.Logger) (*Client, error) {
	cfg.ApplyDefaults()
	if !cfg.Enabled {
		return nil, fmt.Errorf("redis is disabled")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("redis config: %w", err)
	}
	opts := &goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	log.Debug("Redis client created", logger.Fields("addr", cfg.Addr, "db", cfg.DB, "prefix", cfg.KeyPrefix))
	return &Client{rdb: goredis.NewClient(opts), prefix: cfg.KeyPrefix}, nil
}

// Key prefixes name with the configured namespace.
func (c *Client) Key(name string) string { return c.prefix + name }

// Counter is the state of a fixed-window counter after a hit.
type Counter struct {
	Count int64
	// TTL is the time left until the window resets.
	TTL time.Duration
}

// Hit increments the counter name and reports the time left in its
// window. The window starts on the first hit; a counter found without an
// expiry, for instance after a lost PEXPIRE, gets a fresh one.
func (c *Client) Hit(ctx context.Context, name string, window time.Duration) (Counter, error) {
	key := c.Key(name)
	var (
		incr *goredis.IntCmd
		pttl *goredis.DurationCmd
	)
	if _, err := c.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		incr = p.Incr(ctx, key)
		pttl = p.PTTL(ctx, key)
		return nil
	}); err != nil {
		return Counter{}, fmt.Errorf("redis hit %s: %w", key, err)
	}

	out := Counter{Count: incr.Val(), TTL: pttl.Val()}
	if out.TTL < 0 {
		if err := c.rdb.PExpire(ctx, key, window).Err(); err != nil {
			return Counter{}, fmt.Errorf("redis expire %s: %w", key, err)
		}
		out.TTL = window
	}
	return out, nil
}

func (c *Client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping %s: %w", c.rdb.Options().Addr, err)
	}
	return nil
}

// Close closes the pool. Later calls are no-ops.
func (c *Client) Close() error {
	if c == nil || !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.rdb.Close()
}

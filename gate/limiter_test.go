package gate

import (
	"context"
	"testing"
	"time"

	redistest "github.com/kbukum/voicekit/redis/testutil"
)

func TestMemoryLimiter_SlidingWindow(t *testing.T) {
	l := NewMemoryLimiter()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, _ := l.Allow(ctx, "user:1", 3)
		if !d.Allowed || d.Remaining != 2-i {
			t.Fatalf("hit %d: unexpected decision %+v", i, d)
		}
		now = now.Add(10 * time.Second)
	}

	d, _ := l.Allow(ctx, "user:1", 3)
	if d.Allowed {
		t.Fatal("fourth hit inside the window must be blocked")
	}
	// first hit was at 12:00:00, now is 12:00:30
	if d.RetryAfter != 30*time.Second {
		t.Errorf("expected 30s retry, got %v", d.RetryAfter)
	}

	if d, _ := l.Allow(ctx, "user:2", 3); !d.Allowed {
		t.Error("keys must be independent")
	}

	now = now.Add(31 * time.Second)
	if d, _ := l.Allow(ctx, "user:1", 3); !d.Allowed {
		t.Error("oldest hit left the window, request must pass")
	}
}

func TestMemoryLimiter_ZeroLimitBlocks(t *testing.T) {
	l := NewMemoryLimiter()
	d, err := l.Allow(context.Background(), "user:1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if d.Allowed || d.RetryAfter != Window {
		t.Errorf("expected a blocked decision with a full window retry, got %+v", d)
	}
}

func TestMemoryLimiter_Sweep(t *testing.T) {
	l := NewMemoryLimiter()
	now := time.Now()
	l.now = func() time.Time { return now }
	_, _ = l.Allow(context.Background(), "stale", 5)

	now = now.Add(2 * Window)
	l.sweep(now.Add(-Window))
	if _, ok := l.hits["stale"]; ok {
		t.Error("expected stale key to be swept")
	}
}

func TestRedisLimiter_FixedWindow(t *testing.T) {
	client, mini := redistest.NewClient(t, "vk:")
	l := NewRedisLimiter(client)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		d, err := l.Allow(ctx, "user:1", 2)
		if err != nil {
			t.Fatal(err)
		}
		if !d.Allowed || d.Remaining != 1-i {
			t.Fatalf("hit %d: unexpected decision %+v", i, d)
		}
	}
	if ttl := mini.TTL("vk:rate_limit:user:1"); ttl != Window {
		t.Errorf("expected %v expiry, got %v", Window, ttl)
	}

	mini.FastForward(20 * time.Second)
	d, err := l.Allow(ctx, "user:1", 2)
	if err != nil {
		t.Fatal(err)
	}
	if d.Allowed || d.Remaining != 0 {
		t.Fatalf("third hit must be blocked, got %+v", d)
	}
	if d.RetryAfter != 40*time.Second {
		t.Errorf("expected 40s retry, got %v", d.RetryAfter)
	}

	mini.FastForward(41 * time.Second)
	if d, _ := l.Allow(ctx, "user:1", 2); !d.Allowed {
		t.Error("new window must allow again")
	}
}

func TestRedisLimiter_RepairsMissingExpiry(t *testing.T) {
	client, mini := redistest.NewClient(t, "vk:")
	if err := mini.Set("vk:rate_limit:ip:10.0.0.1", "4"); err != nil {
		t.Fatal(err)
	}
	d, err := NewRedisLimiter(client).Allow(context.Background(), "ip:10.0.0.1", 5)
	if err != nil {
		t.Fatal(err)
	}
	if !d.Allowed || d.Remaining != 0 {
		t.Errorf("unexpected decision %+v", d)
	}
	if ttl := mini.TTL("vk:rate_limit:ip:10.0.0.1"); ttl != Window {
		t.Errorf("expected repaired %v expiry, got %v", Window, ttl)
	}
}

func TestRedisLimiter_Error(t *testing.T) {
	client, mini := redistest.NewClient(t, "vk:")
	mini.Close()
	if _, err := NewRedisLimiter(client).Allow(context.Background(), "user:1", 2); err == nil {
		t.Fatal("expected error when redis is down")
	}
}

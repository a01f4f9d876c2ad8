package resilience

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
}

func newTestBreaker(cfg CircuitBreakerConfig) (*CircuitBreaker, *fakeClock) {
	clk := newClock()
	cb := NewCircuitBreaker(cfg)
	cb.now = clk.now
	return cb, clk
}

var errUpstream = errors.New("deepgram: 503 service unavailable")

func fail() error { return errUpstream }
func ok() error   { return nil }

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	cb, _ := newTestBreaker(CircuitBreakerConfig{Name: "deepgram", MaxFailures: 3})

	_ = cb.Execute(fail)
	_ = cb.Execute(fail)
	_ = cb.Execute(ok)
	_ = cb.Execute(fail)
	_ = cb.Execute(fail)
	if cb.State() != StateClosed {
		t.Fatalf("a success must reset the streak, got %s", cb.State())
	}
	if err := cb.Execute(fail); !errors.Is(err, errUpstream) {
		t.Fatalf("expected the provider error, got %v", err)
	}
	if cb.State() != StateOpen {
		t.Fatalf("expected open, got %s", cb.State())
	}

	called := false
	if err := cb.Execute(func() error { called = true; return nil }); !errors.Is(err, ErrCircuitOpen) || called {
		t.Errorf("open circuit must fail fast, got %v called=%v", err, called)
	}
}

func TestCircuitBreaker_ProbeCycle(t *testing.T) {
	var transitions []string
	cb, clk := newTestBreaker(CircuitBreakerConfig{
		Name: "groq", MaxFailures: 1, Timeout: 10 * time.Second, HalfOpenMaxCalls: 2,
		OnStateChange: func(name string, from, to State) {
			transitions = append(transitions, name+":"+from.String()+">"+to.String())
		},
	})

	_ = cb.Execute(fail)
	clk.advance(9 * time.Second)
	if cb.State() != StateOpen {
		t.Fatal("circuit must stay open until the timeout passes")
	}
	clk.advance(time.Second)

	// Two probes are admitted; a third concurrent one is refused.
	var refused error
	_ = cb.Execute(func() error {
		_ = cb.Execute(func() error {
			refused = cb.Execute(ok)
			return nil
		})
		return nil
	})
	if !errors.Is(refused, ErrCircuitOpen) {
		t.Errorf("expected the third probe to be refused, got %v", refused)
	}
	if cb.State() != StateClosed {
		t.Fatalf("expected closed after two good probes, got %s", cb.State())
	}

	want := "groq:closed>open groq:open>half-open groq:half-open>closed"
	if got := strings.Join(transitions, " "); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestCircuitBreaker_FailedProbeReopens(t *testing.T) {
	cb, clk := newTestBreaker(CircuitBreakerConfig{MaxFailures: 1, Timeout: time.Second})
	_ = cb.Execute(fail)
	clk.advance(time.Second)
	_ = cb.Execute(fail)
	if cb.State() != StateOpen {
		t.Fatalf("expected open after failed probe, got %s", cb.State())
	}
	clk.advance(500 * time.Millisecond)
	if cb.State() != StateOpen {
		t.Error("reopening must restart the timeout")
	}
}

func TestCircuitBreaker_IsFailureFilter(t *testing.T) {
	badAudio := errors.New("400 unsupported audio")
	cb, _ := newTestBreaker(CircuitBreakerConfig{
		MaxFailures: 1,
		IsFailure:   func(err error) bool { return !errors.Is(err, badAudio) },
	})

	for range 5 {
		_ = cb.Execute(func() error { return badAudio })
	}
	if cb.State() != StateClosed {
		t.Errorf("client errors must not open the circuit, got %s", cb.State())
	}
	_ = cb.Execute(fail)
	if cb.State() != StateOpen {
		t.Errorf("expected open after a provider failure, got %s", cb.State())
	}
}

func TestState_String(t *testing.T) {
	if StateHalfOpen.String() != "half-open" || State(9).String() != "unknown" {
		t.Errorf("unexpected names %q %q", StateHalfOpen, State(9))
	}
}

func TestRateLimiter_BurstThenRefill(t *testing.T) {
	clk := newClock()
	rl := NewRateLimiter(RateLimiterConfig{Rate: 2, Burst: 2})
	rl.now = clk.now

	if !rl.Allow() || !rl.Allow() {
		t.Fatal("expected a burst of 2")
	}
	if rl.Allow() {
		t.Fatal("third call must be limited")
	}
	clk.advance(500 * time.Millisecond)
	if !rl.Allow() {
		t.Error("expected one token after 500ms at 2/s")
	}
}

func TestRateLimiter_WaitHonoursContext(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 0.001, Burst: 1})
	if err := rl.Wait(context.Background()); err != nil {
		t.Fatalf("first wait must pass: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := rl.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}

	ctx, cancel = context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := rl.Wait(ctx); err == nil {
		t.Error("a wait longer than the deadline must fail")
	}
}

func TestRateLimiter_Defaults(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 0.25})
	if rl.lim.Burst() != 1 {
		t.Errorf("expected burst 1 for sub-1 rates, got %d", rl.lim.Burst())
	}
	if rl = NewRateLimiter(RateLimiterConfig{}); rl.lim.Limit() != 10 || rl.lim.Burst() != 10 {
		t.Errorf("unexpected defaults %v/%d", rl.lim.Limit(), rl.lim.Burst())
	}
}

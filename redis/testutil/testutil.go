// Package testutil runs Client against an in-memory Redis for tests.
package testutil

import (
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/kbukum/voicekit/logger"
	"github.com/kbukum/voicekit/redis"
)

// NewClient starts miniredis and connects a Client using prefix as the
// key namespace. Both are closed when the test ends; the server is
// returned so tests can inspect keys and FastForward time.
func NewClient(t testing.TB, prefix string) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mini := miniredis.RunT(t)
	client, err := redis.New(redis.Config{Enabled: true, Addr: mini.Addr(), KeyPrefix: prefix}, logger.NewNop())
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client, mini
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type mockRedisEvaler struct {
	lastScript string
	lastKeys   []string
	lastArgs   []interface{}
	result     int64
	err        error
}

func (m *mockRedisEvaler) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	m.lastScript = script
	m.lastKeys = keys
	m.lastArgs = args
	cmd := redis.NewCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	cmd.SetVal(m.result)
	return cmd
}

func TestMemoryGenerationLimiter(t *testing.T) {
	l := NewGenerationLimiter(time.Hour, 2).(*memoryGenerationLimiter)
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	if !l.Allow("u1") || !l.Allow("u1") {
		t.Fatalf("expected first two requests allowed")
	}
	if l.Allow("u1") {
		t.Fatalf("expected third request denied")
	}
	if !l.Allow("u2") {
		t.Fatalf("keys must be independent")
	}

	now = now.Add(61 * time.Minute)
	if !l.Allow("u1") {
		t.Fatalf("expected window to slide")
	}
	if l.Allow("  ") {
		t.Fatalf("expected empty key rejected")
	}
}

func TestRedisGenerationLimiterAllow(t *testing.T) {
	t.Run("nil receiver fail-open", func(t *testing.T) {
		var l *redisGenerationLimiter
		if !l.Allow("u1") {
			t.Fatalf("expected fail-open for nil limiter")
		}
	})

	t.Run("empty key rejected", func(t *testing.T) {
		l := &redisGenerationLimiter{
			client: &mockRedisEvaler{result: 1},
			window: time.Hour,
			max:    3,
			prefix: "reco:rl:",
		}
		if l.Allow("   ") {
			t.Fatalf("expected empty key to be rejected")
		}
	})

	t.Run("allow when count within max", func(t *testing.T) {
		mock := &mockRedisEvaler{result: 3}
		l := &redisGenerationLimiter{
			client: mock,
			window: 2 * time.Hour,
			max:    3,
			prefix: "reco:rl:",
		}
		if !l.Allow(" u1 ") {
			t.Fatalf("expected allow")
		}
		if len(mock.lastKeys) != 1 || mock.lastKeys[0] != "reco:rl:u1" {
			t.Fatalf("unexpected keys: %v", mock.lastKeys)
		}
		if len(mock.lastArgs) != 1 || mock.lastArgs[0] != 7200 {
			t.Fatalf("unexpected args: %v", mock.lastArgs)
		}
		if mock.lastScript != redisGenerationAllowScript {
			t.Fatalf("unexpected script")
		}
	})

	t.Run("deny when count exceeds max", func(t *testing.T) {
		l := &redisGenerationLimiter{
			client: &mockRedisEvaler{result: 4},
			window: time.Hour,
			max:    3,
			prefix: "reco:rl:",
		}
		if l.Allow("u1") {
			t.Fatalf("expected deny")
		}
	})

	t.Run("redis error fail-open", func(t *testing.T) {
		l := &redisGenerationLimiter{
			client: &mockRedisEvaler{err: errors.New("redis down")},
			window: time.Hour,
			max:    3,
			prefix: "reco:rl:",
		}
		if !l.Allow("u1") {
			t.Fatalf("expected fail-open on redis error")
		}
	})
}

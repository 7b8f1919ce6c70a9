package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeRedis struct {
	data        map[string]string
	counters    map[string]int64
	expireCalls []expireCall
}

type expireCall struct {
	key string
	ttl time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, counters: map[string]int64{}}
}

func (f *fakeRedis) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	f.data[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if v, ok := f.data[key]; ok {
		return redis.NewStringResult(v, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (f *fakeRedis) SetNX(ctx context.Context, key string, value any, ttl time.Duration) *redis.BoolCmd {
	if _, exists := f.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	f.data[key] = fmt.Sprint(value)
	return redis.NewBoolResult(true, nil)
}

func (f *fakeRedis) Incr(ctx context.Context, key string) *redis.IntCmd {
	f.counters[key]++
	return redis.NewIntResult(f.counters[key], nil)
}

func (f *fakeRedis) Expire(ctx context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	f.expireCalls = append(f.expireCalls, expireCall{key: key, ttl: ttl})
	return redis.NewBoolResult(true, nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(f.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func TestFixedWindowAllow(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	client := &Client{store: fake}

	steps := []struct {
		wantAllowed bool
		wantCount   int64
	}{
		{true, 1},
		{true, 2},
		{false, 3},
	}
	for i, step := range steps {
		allowed, count, err := client.FixedWindowAllow(ctx, "login", 2, time.Second)
		if err != nil {
			t.Fatalf("call %d: unexpected error: %v", i+1, err)
		}
		if allowed != step.wantAllowed || count != step.wantCount {
			t.Fatalf("call %d: allowed=%v count=%d, want allowed=%v count=%d",
				i+1, allowed, count, step.wantAllowed, step.wantCount)
		}
	}

	// TTL is stamped once, when the window key is created.
	if len(fake.expireCalls) != 1 {
		t.Fatalf("expected a single expire call, got %d", len(fake.expireCalls))
	}
	if fake.expireCalls[0].ttl != time.Second {
		t.Fatalf("unexpected window ttl %v", fake.expireCalls[0].ttl)
	}
}

func TestIdempotencyValueLifecycle(t *testing.T) {
	ctx := context.Background()
	client := &Client{store: newFakeRedis()}

	key := client.IdempotencyKey("checkout", "abc")
	if ok, err := client.SetNX(ctx, key, "pending", time.Minute); err != nil || !ok {
		t.Fatalf("first SetNX should win: ok=%v err=%v", ok, err)
	}
	if ok, err := client.SetNX(ctx, key, "pending", time.Minute); err != nil || ok {
		t.Fatalf("second SetNX should lose: ok=%v err=%v", ok, err)
	}

	if err := client.Del(ctx, key); err != nil {
		t.Fatalf("del failed: %v", err)
	}
	if _, err := client.Get(ctx, key); err != redis.Nil {
		t.Fatalf("expected redis.Nil after delete, got %v", err)
	}
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	if got := client.IdempotencyKey("scope", "id"); got != "nx:idempotency:scope:id" {
		t.Fatalf("unexpected idempotency key %s", got)
	}
	if got := client.RateLimitKey("scope"); got != "nx:rate_limit:scope" {
		t.Fatalf("unexpected rate limit key %s", got)
	}
	if got := client.IdempotencyKey("", "id"); got != "nx:idempotency:id" {
		t.Fatalf("blank scope should be dropped, got %s", got)
	}
}

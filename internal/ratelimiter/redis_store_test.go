package ratelimiter

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func testRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("Skipping integration test: Redis not available (%v)", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRedisStore_Integration(t *testing.T) {
	client := testRedisClient(t)
	store := NewRedisStore(client, time.Second)
	ctx := context.Background()

	key := fmt.Sprintf("it_test:%d", time.Now().UnixNano())

	count, err := store.IncrementAndExpire(ctx, key, time.Minute)
	if err != nil {
		t.Fatalf("first increment failed: %v", err)
	}
	if count != 1 {
		t.Errorf("first increment = %d, want 1", count)
	}

	count, err = store.IncrementAndExpire(ctx, key, time.Minute)
	if err != nil {
		t.Fatalf("second increment failed: %v", err)
	}
	if count != 2 {
		t.Errorf("second increment = %d, want 2", count)
	}

	// The TTL must be set in the same atomic unit as the increment.
	ttl, err := client.TTL(ctx, key).Result()
	if err != nil {
		t.Fatalf("TTL failed: %v", err)
	}
	if ttl <= 0 || ttl > time.Minute {
		t.Errorf("TTL = %s, want within (0,1m]", ttl)
	}

	client.Del(ctx, key)
}

func TestRedisStore_Probe(t *testing.T) {
	client := testRedisClient(t)
	store := NewRedisStore(client, time.Second)

	if !store.Probe(context.Background()) {
		t.Error("probe should report healthy against a reachable Redis")
	}
}

func TestRedisStore_Probe_Unreachable(t *testing.T) {
	// A port nothing listens on: the probe must report false, not error.
	client := redis.NewClient(&redis.Options{
		Addr:        "localhost:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	store := NewRedisStore(client, 200*time.Millisecond)
	if store.Probe(context.Background()) {
		t.Error("probe should report unhealthy against an unreachable Redis")
	}
}

func TestRedisStore_IncrementUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "localhost:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	store := NewRedisStore(client, 200*time.Millisecond)
	_, err := store.IncrementAndExpire(context.Background(), "unreachable", time.Minute)
	if err == nil {
		t.Fatal("expected an error against an unreachable Redis")
	}
	if !IsBackendUnavailable(err) {
		t.Errorf("expected BackendUnavailable, got %v", err)
	}
}

func TestCounterKey(t *testing.T) {
	got := CounterKey("rate", "203.0.113.7", 1700000040000)
	want := "rate:203.0.113.7:1700000040000"
	if got != want {
		t.Errorf("CounterKey = %q, want %q", got, want)
	}
}

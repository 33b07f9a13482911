package ratelimiter

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is the primary counter store. It wraps a shared *redis.Client
// (connections are dialed lazily by go-redis on first use); the client is
// owned by the caller and must be closed exactly once at shutdown.
type RedisStore struct {
	client       *redis.Client
	probeTimeout time.Duration
}

// NewRedisStore wraps an existing client. probeTimeout bounds the liveness
// ping so a hung Redis reads as unhealthy instead of stalling every check.
func NewRedisStore(client *redis.Client, probeTimeout time.Duration) *RedisStore {
	if probeTimeout <= 0 {
		probeTimeout = 500 * time.Millisecond
	}
	return &RedisStore{client: client, probeTimeout: probeTimeout}
}

// Probe reports liveness via PING. Never returns an error: any failure,
// including timeout, reads as unhealthy.
func (s *RedisStore) Probe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, s.probeTimeout)
	defer cancel()
	return s.client.Ping(ctx).Err() == nil
}

// IncrementAndExpire runs INCR and EXPIRE in one MULTI/EXEC batch so the
// counter is never observed incremented but unexpiring. The EXPIRE is
// idempotent: re-setting the TTL on later increments in the same window is
// harmless because every caller derives the same window size.
func (s *RedisStore) IncrementAndExpire(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return 0, backendUnavailable(err, "redis txpipeline")
	}
	if incr == nil {
		return 0, ErrPipelineIntegrity
	}
	count, err := incr.Result()
	if err != nil {
		return 0, backendUnavailable(err, "redis incr")
	}
	return count, nil
}

// CounterKey builds the primary-store key for one identifier and window:
// {namespace}:{identifier}:{bucketStartMs}.
func CounterKey(namespace, identifier string, bucketStart int64) string {
	return namespace + ":" + identifier + ":" + strconv.FormatInt(bucketStart, 10)
}

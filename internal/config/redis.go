package config

import (
	"github.com/redis/go-redis/v9"
)

// NewRedisClient constructs the shared primary-store client. go-redis dials
// lazily on first command, so construction succeeds even while Redis is
// down — the limiter's health probe decides per check whether the primary
// is usable. The caller owns the client and closes it once at shutdown.
func NewRedisClient(cfg Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
	})
}

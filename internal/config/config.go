package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"failoverlimit/internal/ratelimiter"
)

// Config holds everything the server and gateway binaries need, resolved
// from the environment (with .env support for local development).
type Config struct {
	Port        string
	UpstreamURL string

	RedisAddr    string
	RedisPass    string
	DatabaseURL  string
	ProbeTimeout time.Duration

	RateLimit    int64
	WindowSize   time.Duration
	KeyNamespace string

	// FailPolicy is production-driven: APP_ENV=production fails closed,
	// everything else fails open.
	FailPolicy ratelimiter.FailPolicy
}

// Load reads the environment. A missing .env is fine; env vars may come
// from Docker or the OS.
func Load() Config {
	godotenv.Load()

	cfg := Config{
		Port:         getenv("PORT", "8080"),
		UpstreamURL:  os.Getenv("UPSTREAM_URL"),
		RedisAddr:    getenv("REDIS_ADDR", "localhost:6379"),
		RedisPass:    os.Getenv("REDIS_PASSWORD"),
		DatabaseURL:  getenv("DATABASE_URL", "postgres://localhost:5432/ratelimit?sslmode=disable"),
		ProbeTimeout: time.Duration(getenvInt("PROBE_TIMEOUT_MS", 500)) * time.Millisecond,
		RateLimit:    getenvInt("RATE_LIMIT", 100),
		WindowSize:   time.Duration(getenvInt("WINDOW_MS", 60000)) * time.Millisecond,
		KeyNamespace: getenv("KEY_NAMESPACE", "rate"),
		FailPolicy:   ratelimiter.FailOpen,
	}
	if os.Getenv("APP_ENV") == "production" {
		cfg.FailPolicy = ratelimiter.FailClosed
	}
	return cfg
}

// LimiterConfig returns the per-check policy derived from the environment.
func (c Config) LimiterConfig() ratelimiter.Config {
	return ratelimiter.Config{
		WindowSize:   c.WindowSize,
		MaxRequests:  c.RateLimit,
		KeyNamespace: c.KeyNamespace,
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if x, err := strconv.ParseInt(v, 10, 64); err == nil {
			return x
		}
	}
	return fallback
}

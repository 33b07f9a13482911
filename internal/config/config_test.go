package config

import (
	"testing"
	"time"

	"failoverlimit/internal/ratelimiter"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "RATE_LIMIT", "WINDOW_MS", "APP_ENV"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.RateLimit != 100 {
		t.Errorf("RateLimit = %d, want 100", cfg.RateLimit)
	}
	if cfg.WindowSize != time.Minute {
		t.Errorf("WindowSize = %s, want 1m", cfg.WindowSize)
	}
	if cfg.FailPolicy != ratelimiter.FailOpen {
		t.Error("non-production deployments must fail open")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("RATE_LIMIT", "7")
	t.Setenv("WINDOW_MS", "15000")
	t.Setenv("APP_ENV", "production")
	t.Setenv("KEY_NAMESPACE", "edge")

	cfg := Load()

	if cfg.RateLimit != 7 {
		t.Errorf("RateLimit = %d, want 7", cfg.RateLimit)
	}
	if cfg.WindowSize != 15*time.Second {
		t.Errorf("WindowSize = %s, want 15s", cfg.WindowSize)
	}
	if cfg.FailPolicy != ratelimiter.FailClosed {
		t.Error("production deployments must fail closed")
	}

	lc := cfg.LimiterConfig()
	if lc.MaxRequests != 7 || lc.WindowSize != 15*time.Second || lc.KeyNamespace != "edge" {
		t.Errorf("LimiterConfig = %+v does not mirror the environment", lc)
	}
}

func TestLoad_IgnoresGarbageNumbers(t *testing.T) {
	t.Setenv("RATE_LIMIT", "not-a-number")

	cfg := Load()
	if cfg.RateLimit != 100 {
		t.Errorf("RateLimit = %d, want default 100 for unparsable input", cfg.RateLimit)
	}
}

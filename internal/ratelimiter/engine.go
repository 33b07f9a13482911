package ratelimiter

import (
	"context"
	"log"
	"time"
)

// FailPolicy decides the verdict when both backends are down.
type FailPolicy int

const (
	// FailOpen allows the request when no backend can produce a verdict.
	// Suitable for non-production deployments.
	FailOpen FailPolicy = iota
	// FailClosed denies the request when no backend can produce a verdict.
	FailClosed
)

// Engine produces rate-limit verdicts against the primary store, falling
// back to the durable store on any primary failure, and applying the
// configured fail policy when both are down.
//
// Engine holds no per-check state and is safe for concurrent use; counter
// correctness relies entirely on the backing stores' atomicity (atomic
// INCR for the primary, conflict-resolving upsert for the fallback), so
// concurrent checks are never serialized in-process.
type Engine struct {
	primary  PrimaryStore
	fallback FallbackStore
	policy   FailPolicy
	logger   *log.Logger
}

// NewEngine constructs an Engine. logger may be nil, in which case the
// default logger is used.
func NewEngine(primary PrimaryStore, fallback FallbackStore, policy FailPolicy, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		primary:  primary,
		fallback: fallback,
		policy:   policy,
		logger:   logger,
	}
}

// Check evaluates one request for identifier under cfg and always returns a
// Result, never an error: degraded-mode decisions are distinguished only in
// the logs. Callers need no error handling around a rate-limit check.
//
// Flow: probe the primary before every check; if healthy, take the primary
// path; on a primary failure mid-check, log the downgrade and re-run the
// full decision on the fallback (a single hop, not a retry loop). If the
// probe already reports unhealthy, skip the primary entirely. If the
// fallback fails too, apply the fail policy.
func (e *Engine) Check(ctx context.Context, identifier string, cfg Config) Result {
	cfg = normalize(cfg)

	if e.primary != nil && e.primary.Probe(ctx) {
		res, err := e.checkPrimary(ctx, identifier, cfg)
		if err == nil {
			return res
		}
		e.logger.Printf("rate limiter: primary store failed, downgrading to fallback: identifier=%s err=%v", identifier, err)
	}

	res, err := e.checkFallback(ctx, identifier, cfg)
	if err == nil {
		return res
	}
	return e.applyFailPolicy(identifier, cfg, err)
}

// checkPrimary counts the request in the primary store. The increment
// happens before the quota comparison, so a denied request still raises the
// stored count.
func (e *Engine) checkPrimary(ctx context.Context, identifier string, cfg Config) (Result, error) {
	now := time.Now()
	w := ComputeWindow(now, cfg.WindowSize)
	key := CounterKey(cfg.KeyNamespace, identifier, w.StartMs)

	count, err := e.primary.IncrementAndExpire(ctx, key, ttlFor(cfg.WindowSize))
	if err != nil {
		return Result{}, err
	}
	if count > cfg.MaxRequests {
		return Result{
			Allowed:    false,
			Remaining:  0,
			ResetAt:    w.End(),
			RetryAfter: retryAfterUntil(now, w.EndMs),
		}, nil
	}
	return Result{
		Allowed:   true,
		Remaining: cfg.MaxRequests - count,
		ResetAt:   w.End(),
	}, nil
}

// checkFallback counts the request in the durable store. Unlike the primary
// path, the quota comparison happens on the pre-increment count and a denied
// request is not written; the stored count stops at MaxRequests.
func (e *Engine) checkFallback(ctx context.Context, identifier string, cfg Config) (Result, error) {
	now := time.Now()
	w := ComputeWindow(now, cfg.WindowSize)

	// Lazy garbage collection of fully expired windows. Housekeeping only:
	// a failure here is logged and discarded, never aborts the check.
	if err := e.fallback.EvictExpired(ctx, w.StartMs); err != nil {
		e.logger.Printf("rate limiter: fallback eviction failed (continuing): %v", err)
	}

	count, err := e.fallback.ReadCount(ctx, identifier, w.StartMs)
	if err != nil {
		return Result{}, err
	}
	if count >= cfg.MaxRequests {
		return Result{
			Allowed:    false,
			Remaining:  0,
			ResetAt:    w.End(),
			RetryAfter: retryAfterUntil(now, w.EndMs),
		}, nil
	}
	if err := e.fallback.UpsertIncrement(ctx, identifier, w.StartMs); err != nil {
		return Result{}, err
	}
	return Result{
		Allowed:   true,
		Remaining: cfg.MaxRequests - count - 1,
		ResetAt:   w.End(),
	}, nil
}

// applyFailPolicy produces the verdict when both backends are down. Logged
// at error severity with the originating failure.
func (e *Engine) applyFailPolicy(identifier string, cfg Config, cause error) Result {
	now := time.Now()
	resetAt := now.Add(cfg.WindowSize)
	retryAfter := ttlFor(cfg.WindowSize)

	if e.policy == FailClosed {
		e.logger.Printf("ERROR rate limiter: all backends unavailable, failing closed: identifier=%s err=%v", identifier, cause)
		return Result{
			Allowed:    false,
			Remaining:  0,
			ResetAt:    resetAt,
			RetryAfter: retryAfter,
		}
	}
	e.logger.Printf("ERROR rate limiter: all backends unavailable, failing open: identifier=%s err=%v", identifier, cause)
	return Result{
		Allowed:   true,
		Remaining: cfg.MaxRequests - 1,
		ResetAt:   resetAt,
	}
}

func normalize(cfg Config) Config {
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = time.Minute
	}
	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = 1
	}
	if cfg.KeyNamespace == "" {
		cfg.KeyNamespace = "rate"
	}
	return cfg
}

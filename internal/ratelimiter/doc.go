// Package ratelimiter implements a distributed fixed-window rate limiter
// with automatic failover between two backing stores: Redis (low latency,
// ephemeral, primary) and PostgreSQL (durable, transactional, fallback).
//
// The entry point is Engine.Check, which always returns a Result and never
// an error. Before every check the primary store is probed; a healthy
// primary handles the check via an atomic INCR+EXPIRE batch, any primary
// failure downgrades the check to the fallback's upsert-based counter, and
// if the fallback fails too the configured FailPolicy decides the verdict
// (production deployments fail closed, everything else fails open).
//
// The two paths deliberately differ in how they treat the denying request:
// the primary path increments first and so counts rejected requests, while
// the fallback path checks the pre-increment count and leaves the stored
// counter at the quota. Counter correctness under concurrency comes from
// the stores themselves (single-threaded Lua-equivalent MULTI/EXEC on the
// Redis side, ON CONFLICT upsert on the Postgres side); the engine holds no
// cross-call state and never serializes callers.
package ratelimiter

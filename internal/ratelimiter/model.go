package ratelimiter

import (
	"context"
	"time"
)

// Config describes one rate-limit policy. It is supplied per call and never
// persisted; callers may use different configs for different routes as long
// as the KeyNamespace disambiguates the counters.
type Config struct {
	WindowSize   time.Duration // window duration, must be positive
	MaxRequests  int64         // quota per window, must be positive
	KeyNamespace string        // disambiguates counters across call sites
}

// Result is the outcome of a rate-limit check. Check never fails: every
// code path, including total backend failure, terminates in a Result.
type Result struct {
	Allowed    bool          // whether the request should proceed
	Remaining  int64         // quota left in the current window, 0 when denied
	ResetAt    time.Time     // instant the current window ends
	RetryAfter time.Duration // seconds until ResetAt; zero when allowed
}

// PrimaryStore is the low-latency, ephemeral counter store. Counters
// self-expire via TTL, so the adapter never deletes keys explicitly.
type PrimaryStore interface {
	// Probe reports whether the store is reachable. It never returns an
	// error; any communication failure is reported as false.
	Probe(ctx context.Context) bool

	// IncrementAndExpire atomically increments the counter for key and sets
	// its expiry to ttl, in a single atomic unit. Returns the count after
	// the increment, or ErrBackendUnavailable when the unit cannot complete.
	IncrementAndExpire(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// FallbackStore is the durable, transactional counter store used when the
// primary is unreachable or failing mid-check.
type FallbackStore interface {
	// EvictExpired deletes all rows whose bucket start is strictly before
	// the given instant. Housekeeping only; the caller logs failures and
	// proceeds with the check.
	EvictExpired(ctx context.Context, before int64) error

	// ReadCount returns the current count for the bucket, 0 if no row exists.
	ReadCount(ctx context.Context, identifier string, bucketStart int64) (int64, error)

	// UpsertIncrement inserts a row with count 1, or atomically increments
	// the existing row for identifier+bucket. Safe under concurrent callers
	// via the store's native conflict resolution.
	UpsertIncrement(ctx context.Context, identifier string, bucketStart int64) error
}

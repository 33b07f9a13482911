package ratelimiter

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is the durable fallback counter store. One row per
// identifier and window; eviction of stale windows happens lazily at the
// start of each fallback check rather than via a background sweep.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an existing pool. The pool is owned by the caller
// and must be closed exactly once at shutdown.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the counter table if it does not exist. Mirrors
// migrations/schema.sql for deployments that run migrations out of band.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS rate_limit_counters (
			identifier      TEXT        NOT NULL,
			bucket_start_ms BIGINT      NOT NULL,
			count           BIGINT      NOT NULL DEFAULT 1,
			updated_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (identifier, bucket_start_ms)
		)`)
	if err != nil {
		return backendUnavailable(err, "postgres ensure schema")
	}
	return nil
}

// EvictExpired deletes all rows whose window started strictly before the
// given instant. Best effort from the engine's point of view; the error is
// returned so the caller can log it, but the check proceeds regardless.
func (s *PostgresStore) EvictExpired(ctx context.Context, before int64) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM rate_limit_counters WHERE bucket_start_ms < $1`, before)
	if err != nil {
		return backendUnavailable(err, "postgres evict")
	}
	return nil
}

// ReadCount returns the count for identifier's current window, 0 when no
// row exists yet.
func (s *PostgresStore) ReadCount(ctx context.Context, identifier string, bucketStart int64) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx,
		`SELECT count FROM rate_limit_counters WHERE identifier = $1 AND bucket_start_ms = $2`,
		identifier, bucketStart).Scan(&count)
	if err == pgx.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, backendUnavailable(err, "postgres read count")
	}
	return count, nil
}

// UpsertIncrement inserts the first count for a window or increments the
// existing one. ON CONFLICT resolves races between concurrent first-writers,
// so parallel callers converge to the correct total with no lost updates.
func (s *PostgresStore) UpsertIncrement(ctx context.Context, identifier string, bucketStart int64) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO rate_limit_counters (identifier, bucket_start_ms, count, updated_at)
		VALUES ($1, $2, 1, now())
		ON CONFLICT (identifier, bucket_start_ms)
		DO UPDATE SET count = rate_limit_counters.count + 1, updated_at = now()`,
		identifier, bucketStart)
	if err != nil {
		return backendUnavailable(err, "postgres upsert")
	}
	return nil
}

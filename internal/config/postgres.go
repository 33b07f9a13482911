package config

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPostgresPool constructs the fallback-store connection pool. Like the
// Redis client, the pool does not require the database to be reachable at
// construction; a down fallback surfaces per check as BackendUnavailable.
func NewPostgresPool(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	return pgxpool.NewWithConfig(ctx, poolCfg)
}

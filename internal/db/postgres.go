package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolConfig carries the pool tuning the caller decides on. MaxConns below 1
// falls back to a small pool suitable for one-off tools like the seeder.
type PoolConfig struct {
	DSN      string
	MaxConns int
}

func ConnectPostgres(ctx context.Context, pc PoolConfig) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(pc.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	maxConns := pc.MaxConns
	if maxConns < 1 {
		maxConns = 2
	}
	cfg.MaxConns = int32(maxConns)
	cfg.MinConns = cfg.MaxConns / 4
	if cfg.MinConns < 1 {
		cfg.MinConns = 1
	}
	cfg.HealthCheckPeriod = time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return pool, nil
}

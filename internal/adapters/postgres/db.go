package postgres

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"maturity/internal/logger"
)

//go:embed migrations/*.sql
var migrations embed.FS

type DB struct {
	Pool *pgxpool.Pool
}

// Connect opens a pool, retrying transient failures while the database comes up.
func Connect(ctx context.Context, url string, attempts int, log *logger.Logger) (*DB, error) {
	if attempts < 1 {
		attempts = 1
	}
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 10
	cfg.HealthCheckPeriod = 30 * time.Second
	return retry.DoWithData(
		func() (*DB, error) { return connect(ctx, cfg) },
		retry.Context(ctx),
		retry.Attempts(uint(attempts)),
		retry.Delay(500*time.Millisecond),
		retry.MaxJitter(250*time.Millisecond),
		retry.OnRetry(func(n uint, err error) {
			log.Warn("database not ready", "attempt", n+1, "error", err)
		}),
	)
}

func connect(ctx context.Context, cfg *pgxpool.Config) (*DB, error) {
	pool, err := pgxpool.NewWithConfig(ctx, cfg.Copy())
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &DB{Pool: pool}, nil
}

func (db *DB) Close() { db.Pool.Close() }

// Migrate applies the embedded goose migrations. down rolls back the most
// recent one instead.
func (db *DB) Migrate(ctx context.Context, down bool) error {
	sqldb := stdlib.OpenDBFromPool(db.Pool)
	defer sqldb.Close()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if down {
		if err := goose.DownContext(ctx, sqldb, "migrations"); err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
		return nil
	}
	if err := goose.UpContext(ctx, sqldb, "migrations"); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"techblog/internal/repository/db/migrations"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

const pgxDriverName = "pgx"

// pingRetryDelay is the fixed wait between connection attempts at startup.
const pingRetryDelay = 5 * time.Second

// Open opens a Postgres pool for the given DSN.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open(pgxDriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// WaitReady pings the database until it accepts connections, retrying
// with a fixed delay. It returns early only when ctx is cancelled.
// Each failed attempt is reported through onRetry when set.
func WaitReady(ctx context.Context, db *sql.DB, onRetry func(err error)) error {
	for {
		err := db.PingContext(ctx)
		if err == nil {
			return nil
		}
		if onRetry != nil {
			onRetry(err)
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for postgres: %w", ctx.Err())
		case <-time.After(pingRetryDelay):
		}
	}
}

// Migrate applies the embedded goose migrations.
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

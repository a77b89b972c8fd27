package db

import (
	"context"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"

	"recshare/internal/store"
	"recshare/migrations"
)

// DB is the Postgres-backed store over a pgxpool connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

var _ store.Store = (*DB)(nil)

// New creates a new database connection pool.
func New(ctx context.Context, connString string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// RunMigrations runs all embedded SQL migrations.
func (d *DB) RunMigrations(connString string) error {
	sourceDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, connString)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

// Counts returns per-entity row counts for the metrics collector.
func (d *DB) Counts(ctx context.Context) (store.Counts, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM viewers),
			(SELECT COUNT(*) FROM meetings),
			(SELECT COUNT(*) FROM recordings),
			(SELECT COUNT(*) FROM recording_viewers)
	`

	var c store.Counts
	err := d.Pool.QueryRow(ctx, query).Scan(&c.Viewers, &c.Meetings, &c.Recordings, &c.Shares)
	return c, err
}

// Ping verifies the database connection is alive.
func (d *DB) Ping(ctx context.Context) error {
	return d.Pool.Ping(ctx)
}

// Close closes the connection pool.
func (d *DB) Close() {
	d.Pool.Close()
}

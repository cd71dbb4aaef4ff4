// Package postgres implements the store.Store interface backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/groblegark/launchfeed/internal/model"
	"github.com/groblegark/launchfeed/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements store.Store backed by a PostgreSQL database.
type PostgresStore struct {
	db *sql.DB
}

// Compile-time check that PostgresStore implements store.Store.
var _ store.Store = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) HighWaterMark(ctx context.Context) (time.Time, error) {
	return queryHighWaterMark(ctx, s.db)
}

func (s *PostgresStore) SetHighWaterMark(ctx context.Context, t time.Time) error {
	return querySetHighWaterMark(ctx, s.db, t)
}

func (s *PostgresStore) LatestLaunch(ctx context.Context) (*model.Launch, error) {
	return queryLatestLaunch(ctx, s.db)
}

// InsertLaunches batch-inserts launches with ON CONFLICT DO NOTHING
// semantics keyed on launch identity, inside a single transaction. The
// returned count is the before/after row-count delta, which matches the
// number of new rows under serialized pipeline invocation; concurrent
// writers could skew it (known limitation).
func (s *PostgresStore) InsertLaunches(ctx context.Context, launches []*model.Launch) (int, error) {
	if len(launches) == 0 {
		return 0, nil
	}

	var inserted int
	err := s.RunInTransaction(ctx, func(tx store.Store) error {
		txs := tx.(*txStore)
		n, err := queryInsertLaunches(ctx, txs.tx, launches)
		if err != nil {
			return err
		}
		inserted = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

func (s *PostgresStore) LaunchStats(ctx context.Context) (*store.LaunchStats, error) {
	return queryLaunchStats(ctx, s.db)
}

func (s *PostgresStore) SiteCount(ctx context.Context) (int, error) {
	return querySiteCount(ctx, s.db)
}

func (s *PostgresStore) AveragePayloadMass(ctx context.Context) (*float64, error) {
	return queryAveragePayloadMass(ctx, s.db)
}

func (s *PostgresStore) AverageLeadTimeHours(ctx context.Context) (*float64, error) {
	return queryAverageLeadTimeHours(ctx, s.db)
}

func (s *PostgresStore) InsertSnapshot(ctx context.Context, snap *model.Snapshot) (int64, error) {
	return queryInsertSnapshot(ctx, s.db, snap)
}

func (s *PostgresStore) LatestSnapshot(ctx context.Context) (*model.Snapshot, error) {
	return queryLatestSnapshot(ctx, s.db)
}

func (s *PostgresStore) SnapshotHistory(ctx context.Context, limit int) ([]*model.Snapshot, error) {
	return querySnapshotHistory(ctx, s.db, limit)
}

// RunInTransaction begins a database transaction, creates a txStore that
// delegates to it, calls fn, and commits on success or rolls back on error.
func (s *PostgresStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txS := &txStore{tx: tx}
	if err := fn(txS); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txStore implements store.Store using a *sql.Tx.
type txStore struct {
	tx *sql.Tx
}

// Compile-time check that txStore implements store.Store.
var _ store.Store = (*txStore)(nil)

func (s *txStore) HighWaterMark(ctx context.Context) (time.Time, error) {
	return queryHighWaterMark(ctx, s.tx)
}

func (s *txStore) SetHighWaterMark(ctx context.Context, t time.Time) error {
	return querySetHighWaterMark(ctx, s.tx, t)
}

func (s *txStore) LatestLaunch(ctx context.Context) (*model.Launch, error) {
	return queryLatestLaunch(ctx, s.tx)
}

func (s *txStore) InsertLaunches(ctx context.Context, launches []*model.Launch) (int, error) {
	return queryInsertLaunches(ctx, s.tx, launches)
}

func (s *txStore) LaunchStats(ctx context.Context) (*store.LaunchStats, error) {
	return queryLaunchStats(ctx, s.tx)
}

func (s *txStore) SiteCount(ctx context.Context) (int, error) {
	return querySiteCount(ctx, s.tx)
}

func (s *txStore) AveragePayloadMass(ctx context.Context) (*float64, error) {
	return queryAveragePayloadMass(ctx, s.tx)
}

func (s *txStore) AverageLeadTimeHours(ctx context.Context) (*float64, error) {
	return queryAverageLeadTimeHours(ctx, s.tx)
}

func (s *txStore) InsertSnapshot(ctx context.Context, snap *model.Snapshot) (int64, error) {
	return queryInsertSnapshot(ctx, s.tx, snap)
}

func (s *txStore) LatestSnapshot(ctx context.Context) (*model.Snapshot, error) {
	return queryLatestSnapshot(ctx, s.tx)
}

func (s *txStore) SnapshotHistory(ctx context.Context, limit int) ([]*model.Snapshot, error) {
	return querySnapshotHistory(ctx, s.tx, limit)
}

// RunInTransaction on a txStore reuses the existing transaction (no nesting).
func (s *txStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(s)
}

// Close is a no-op for a transaction store; the parent store owns the connection.
func (s *txStore) Close() error {
	return nil
}

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

	"github.com/groblegark/syllabus/internal/model"
	"github.com/groblegark/syllabus/internal/store"
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

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
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

func (s *PostgresStore) CreateRun(ctx context.Context, run *model.Run) error {
	return queryCreateRun(ctx, s.db, run)
}

func (s *PostgresStore) GetRun(ctx context.Context, id string) (*model.Run, error) {
	return queryGetRun(ctx, s.db, id)
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter model.RunFilter) ([]*model.Run, int, error) {
	return queryListRuns(ctx, s.db, filter)
}

func (s *PostgresStore) UpdateRun(ctx context.Context, run *model.Run) error {
	return queryUpdateRun(ctx, s.db, run)
}

func (s *PostgresStore) DeleteRun(ctx context.Context, id string) error {
	return queryDeleteRun(ctx, s.db, id)
}

func (s *PostgresStore) SaveGraph(ctx context.Context, runID string, g *model.Graph) error {
	return querySaveGraph(ctx, s.db, runID, g)
}

func (s *PostgresStore) GetGraph(ctx context.Context, runID string) (*model.Graph, error) {
	return queryGetGraph(ctx, s.db, runID)
}

func (s *PostgresStore) SaveDiagnostics(ctx context.Context, runID string, diags []model.Diagnostic) error {
	return querySaveDiagnostics(ctx, s.db, runID, diags)
}

func (s *PostgresStore) GetDiagnostics(ctx context.Context, runID string) ([]model.Diagnostic, error) {
	return queryGetDiagnostics(ctx, s.db, runID)
}

func (s *PostgresStore) SavePlan(ctx context.Context, runID string, p *model.StudyPlan) error {
	return querySavePlan(ctx, s.db, runID, p)
}

func (s *PostgresStore) GetPlan(ctx context.Context, runID string) (*model.StudyPlan, error) {
	return queryGetPlan(ctx, s.db, runID)
}

func (s *PostgresStore) DeletePlan(ctx context.Context, runID string) error {
	return queryDeletePlan(ctx, s.db, runID)
}

func (s *PostgresStore) GetStats(ctx context.Context) (*model.GraphStats, error) {
	return queryGetStats(ctx, s.db)
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

func (s *txStore) CreateRun(ctx context.Context, run *model.Run) error {
	return queryCreateRun(ctx, s.tx, run)
}

func (s *txStore) GetRun(ctx context.Context, id string) (*model.Run, error) {
	return queryGetRun(ctx, s.tx, id)
}

func (s *txStore) ListRuns(ctx context.Context, filter model.RunFilter) ([]*model.Run, int, error) {
	return queryListRuns(ctx, s.tx, filter)
}

func (s *txStore) UpdateRun(ctx context.Context, run *model.Run) error {
	return queryUpdateRun(ctx, s.tx, run)
}

func (s *txStore) DeleteRun(ctx context.Context, id string) error {
	return queryDeleteRun(ctx, s.tx, id)
}

func (s *txStore) SaveGraph(ctx context.Context, runID string, g *model.Graph) error {
	return querySaveGraph(ctx, s.tx, runID, g)
}

func (s *txStore) GetGraph(ctx context.Context, runID string) (*model.Graph, error) {
	return queryGetGraph(ctx, s.tx, runID)
}

func (s *txStore) SaveDiagnostics(ctx context.Context, runID string, diags []model.Diagnostic) error {
	return querySaveDiagnostics(ctx, s.tx, runID, diags)
}

func (s *txStore) GetDiagnostics(ctx context.Context, runID string) ([]model.Diagnostic, error) {
	return queryGetDiagnostics(ctx, s.tx, runID)
}

func (s *txStore) SavePlan(ctx context.Context, runID string, p *model.StudyPlan) error {
	return querySavePlan(ctx, s.tx, runID, p)
}

func (s *txStore) GetPlan(ctx context.Context, runID string) (*model.StudyPlan, error) {
	return queryGetPlan(ctx, s.tx, runID)
}

func (s *txStore) DeletePlan(ctx context.Context, runID string) error {
	return queryDeletePlan(ctx, s.tx, runID)
}

func (s *txStore) GetStats(ctx context.Context) (*model.GraphStats, error) {
	return queryGetStats(ctx, s.tx)
}

// RunInTransaction on a txStore reuses the existing transaction (no nesting).
func (s *txStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(s)
}

// Close is a no-op for a transaction store; the parent store owns the connection.
func (s *txStore) Close() error {
	return nil
}

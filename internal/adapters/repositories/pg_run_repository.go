package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"trash-route-solver/internal/domain"
	"trash-route-solver/internal/platform/obs"
)

// Postgres-backed store for solved runs: same shape as the SQLite store,
// used when results feed a shared database.
type PgRunRepository struct{ DB *sql.DB }

func NewPgRunRepository(db *sql.DB) *PgRunRepository {
	return &PgRunRepository{DB: db}
}

// InitPgSchema creates the run tables on Postgres.
func InitPgSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init pg schema: DB is nil")
	}

	statements := []string{
		`
		CREATE TABLE IF NOT EXISTS solution_runs (
			run_id TEXT PRIMARY KEY,
			dataset TEXT NOT NULL,
			total_cost DOUBLE PRECISION NOT NULL,
			feasible BOOLEAN NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS solution_stops (
			run_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			vehicle_id BIGINT NOT NULL,
			stop_id BIGINT NOT NULL,
			departure DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (run_id, seq)
		);
		`,
	}
	for i, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init pg schema: exec statement #%d: %w", i+1, err)
		}
	}
	return nil
}

// SaveRun persists a solution under a fresh run id and returns it.
func (s *PgRunRepository) SaveRun(ctx context.Context, dataset string, sol *domain.Solution) (_ string, err error) {
	defer obs.Time(ctx, "runs.pg.SaveRun")(&err)

	if s.DB == nil {
		return "", errors.New("pg run repository: DB is nil")
	}

	runID := uuid.NewString()

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("save run: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	headQuery := `
	INSERT INTO solution_runs (run_id, dataset, total_cost, feasible)
	VALUES ($1, $2, $3, $4);
	`
	if _, err := tx.ExecContext(ctx, headQuery, runID, dataset, sol.Cost(), sol.Feasible()); err != nil {
		return "", fmt.Errorf("save run: insert header: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO solution_stops (run_id, seq, vehicle_id, stop_id, departure)
	VALUES ($1, $2, $3, $4, $5);
	`)
	if err != nil {
		return "", fmt.Errorf("save run: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range sol.TabularRecords() {
		if _, err := stmt.ExecContext(ctx, runID, rec.Seq, rec.VehicleID, rec.StopID, rec.Departure); err != nil {
			return "", fmt.Errorf("save run: insert seq=%d: %w", rec.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("save run: commit tx: %w", err)
	}

	return runID, nil
}

package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"trash-route-solver/internal/domain"
)

// SQLite-backed store for solved runs: the run header plus the tabular
// per-stop dump (seq, vehicle, stop, departure).
type SqliteRunRepository struct{ DB *sql.DB }

func NewSqliteRunRepository(db *sql.DB) *SqliteRunRepository {
	return &SqliteRunRepository{DB: db}
}

// SaveRun persists a solution under a fresh run id and returns it.
func (s *SqliteRunRepository) SaveRun(ctx context.Context, dataset string, sol *domain.Solution) (string, error) {
	if s.DB == nil {
		return "", errors.New("sqlite run repository: DB is nil")
	}

	runID := uuid.NewString()

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("save run: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	feasible := 0
	if sol.Feasible() {
		feasible = 1
	}

	headQuery := `
	INSERT INTO solution_runs (run_id, dataset, total_cost, feasible)
	VALUES (?, ?, ?, ?);
	`
	if _, err := tx.ExecContext(ctx, headQuery, runID, dataset, sol.Cost(), feasible); err != nil {
		return "", fmt.Errorf("save run: insert header: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO solution_stops (run_id, seq, vehicle_id, stop_id, departure)
	VALUES (?, ?, ?, ?, ?);
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

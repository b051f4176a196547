package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createRunsQuery := `
	CREATE TABLE IF NOT EXISTS solution_runs (
		run_id TEXT PRIMARY KEY,
		dataset TEXT NOT NULL,
		total_cost REAL NOT NULL,
		feasible INTEGER NOT NULL,
		created_at TEXT NOT NULL DEFAULT (datetime('now'))
	);
	`

	createStopsQuery := `
	CREATE TABLE IF NOT EXISTS solution_stops (
		run_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		vehicle_id INTEGER NOT NULL,
		stop_id INTEGER NOT NULL,
		departure REAL NOT NULL,
		PRIMARY KEY (run_id, seq)
	);
	`

	createTravelCacheQuery := `
	CREATE TABLE IF NOT EXISTS travel_time_cache (
		from_id INTEGER NOT NULL,
		to_id INTEGER NOT NULL,
		seconds REAL NOT NULL,
		PRIMARY KEY (from_id, to_id)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_solution_stops_vehicle
	ON solution_stops(run_id, vehicle_id);
	`

	statements := []string{
		createRunsQuery,
		createStopsQuery,
		createTravelCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

package cache

import (
	"database/sql"
	"errors"
	"fmt"
)

// SQLite-backed persistent cache for stop-pair travel times. Survives
// across solver runs so a routing backend is only asked once per pair.
type SqliteTravelTimeCache struct {
	DB *sql.DB
}

func NewSqliteTravelTimeCache(db *sql.DB) *SqliteTravelTimeCache {
	return &SqliteTravelTimeCache{DB: db}
}

// Get fetches one cached pair. The second return reports a hit.
func (s *SqliteTravelTimeCache) Get(fromID, toID int64) (float64, bool, error) {
	if s.DB == nil {
		return 0, false, errors.New("travel time cache: db is nil")
	}

	q := `
	SELECT seconds
	FROM travel_time_cache
	WHERE from_id = ? AND to_id = ?;
	`
	var seconds float64
	err := s.DB.QueryRow(q, fromID, toID).Scan(&seconds)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get travel time cache: query: %w", err)
	}
	return seconds, true, nil
}

// GetMany fetches cached durations from one origin to many destinations.
func (s *SqliteTravelTimeCache) GetMany(fromID int64, toIDs []int64) (map[int64]float64, error) {
	if s.DB == nil {
		return nil, errors.New("travel time cache: db is nil")
	}

	if len(toIDs) == 0 {
		return map[int64]float64{}, nil
	}

	seen := map[int64]struct{}{}
	args := make([]any, 0, 1+len(toIDs))
	args = append(args, fromID)
	placeholders := ""
	for _, id := range toIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if placeholders != "" {
			placeholders += ","
		}
		placeholders += "?"
		args = append(args, id)
	}

	// SQLite cannot bind a slice into IN (...); only the placeholder list
	// is interpolated, values stay parameterized.
	q := fmt.Sprintf(`
	SELECT to_id, seconds
	FROM travel_time_cache
	WHERE from_id = ?
		AND to_id IN (%s);
	`, placeholders)

	rows, err := s.DB.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("get travel time cache: query: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]float64, len(toIDs))
	for rows.Next() {
		var toID int64
		var seconds float64
		if err := rows.Scan(&toID, &seconds); err != nil {
			return nil, fmt.Errorf("get travel time cache: scan rows: %w", err)
		}
		out[toID] = seconds
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get travel time cache: row iteration: %w", err)
	}

	return out, nil
}

// Put stores one pair, replacing any previous value.
func (s *SqliteTravelTimeCache) Put(fromID, toID int64, seconds float64) error {
	if s.DB == nil {
		return errors.New("travel time cache: db is nil")
	}

	q := `
	INSERT OR REPLACE INTO travel_time_cache (from_id, to_id, seconds)
	VALUES (?, ?, ?);
	`
	if _, err := s.DB.Exec(q, fromID, toID, seconds); err != nil {
		return fmt.Errorf("insert travel time cache %d -> %d: %w", fromID, toID, err)
	}
	return nil
}

// PutMany stores many pairs for a single origin in one transaction.
func (s *SqliteTravelTimeCache) PutMany(fromID int64, results map[int64]float64) error {
	if s.DB == nil {
		return errors.New("travel time cache: db is nil")
	}

	if len(results) == 0 {
		return nil
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return fmt.Errorf("insert travel time cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
	INSERT OR REPLACE INTO travel_time_cache (from_id, to_id, seconds)
	VALUES (?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("insert travel time cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for toID, seconds := range results {
		if _, err := stmt.Exec(fromID, toID, seconds); err != nil {
			return fmt.Errorf("insert travel time cache to_id=%d: %w", toID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert travel time cache commit: %w", err)
	}

	return nil
}

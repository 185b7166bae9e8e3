// Package history keeps a local record of workouts the service accepted.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver
)

// Entry is one successfully logged workout.
type Entry struct {
	ID        int64
	WorkoutID string
	Exercise  string
	Reps      int
	Sets      int
	Calories  float64
	LoggedAt  time.Time
}

// Store persists logged workouts in SQLite.
type Store struct {
	sql *sql.DB
	log zerolog.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS workouts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	workout_id TEXT NOT NULL,
	exercise TEXT NOT NULL,
	reps INTEGER NOT NULL,
	sets INTEGER NOT NULL,
	calories REAL NOT NULL,
	logged_at TEXT NOT NULL
)`

// Open opens (or creates) the history database at the given path.
// Use ":memory:" for an in-memory database (useful for tests).
func Open(path string, logger zerolog.Logger) (*Store, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}

	if _, err := sqlDB.Exec("PRAGMA journal_mode=WAL"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if _, err := sqlDB.Exec(schema); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	s := &Store{sql: sqlDB, log: logger}
	s.log.Debug().Str("path", path).Msg("history database opened")
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.sql.Close()
}

// Record inserts one logged workout.
func (s *Store) Record(e Entry) error {
	if e.LoggedAt.IsZero() {
		e.LoggedAt = time.Now()
	}
	_, err := s.sql.Exec(
		"INSERT INTO workouts (workout_id, exercise, reps, sets, calories, logged_at) VALUES (?, ?, ?, ?, ?, ?)",
		e.WorkoutID, e.Exercise, e.Reps, e.Sets, e.Calories, e.LoggedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording workout: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	rows, err := s.sql.Query(
		"SELECT id, workout_id, exercise, reps, sets, calories, logged_at FROM workouts ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var loggedAt string
		if err := rows.Scan(&e.ID, &e.WorkoutID, &e.Exercise, &e.Reps, &e.Sets, &e.Calories, &loggedAt); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339, loggedAt); err == nil {
			e.LoggedAt = ts
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

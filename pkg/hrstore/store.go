// SPDX-License-Identifier: Apache-2.0

// Package hrstore is the data-access layer the attendance tools run against:
// employees, teams, and daily attendance records in SQLite. All tool-facing
// accessors are read-only; absence of data returns empty results, never an
// error.
package hrstore

import (
	"context"
	"database/sql"
	"errors"

	_ "modernc.org/sqlite"
)

// Store wraps the HR database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path and ensures the schema.
// Use ":memory:" for tests.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("hrstore: empty database path")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite handles one writer at a time; a single connection avoids
	// SQLITE_BUSY under concurrent sessions.
	db.SetMaxOpenConns(1)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing connection and ensures the schema.
func New(db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("hrstore: db is nil")
	}
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS teams (
			team_id INTEGER PRIMARY KEY AUTOINCREMENT,
			team_name TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL DEFAULT (date('now')),
			updated_at TEXT NOT NULL DEFAULT (date('now'))
		);
		CREATE TABLE IF NOT EXISTS employees (
			employee_id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			team_id INTEGER REFERENCES teams(team_id),
			role TEXT NOT NULL DEFAULT 'EMPLOYEE'
		);
		CREATE TABLE IF NOT EXISTS attendance_records (
			record_id INTEGER PRIMARY KEY AUTOINCREMENT,
			employee_id INTEGER NOT NULL REFERENCES employees(employee_id),
			attendance_date TEXT NOT NULL,
			status TEXT NOT NULL,
			check_in_time TEXT,
			check_out_time TEXT,
			notes TEXT,
			UNIQUE (employee_id, attendance_date)
		);
		CREATE INDEX IF NOT EXISTS idx_attendance_date
			ON attendance_records (attendance_date);
		CREATE INDEX IF NOT EXISTS idx_attendance_employee
			ON attendance_records (employee_id);
	`)
	return err
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

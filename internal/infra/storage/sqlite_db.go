package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// InitSQLite initializes the local SQLite database and creates the necessary
// schemas for persisting the match state, pets, and the immutable event log.
func InitSQLite(dbPath string) (*sql.DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	// Create tables
	if err := createSchemas(db); err != nil {
		return nil, fmt.Errorf("failed to create schemas: %w", err)
	}

	return db, nil
}

func createSchemas(db *sql.DB) error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS match_state (
			match_id TEXT PRIMARY KEY,
			mode TEXT NOT NULL DEFAULT 'DUO',
			mischief_value INTEGER NOT NULL DEFAULT 0,
			mischief_threshold INTEGER NOT NULL DEFAULT 800,
			alert_active BOOLEAN NOT NULL DEFAULT 0,
			last_updated DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS pets (
			pet_id TEXT PRIMARY KEY,
			match_id TEXT NOT NULL,
			name TEXT,
			species TEXT NOT NULL,
			state TEXT NOT NULL,
			is_groomed BOOLEAN NOT NULL DEFAULT 0,
			is_caged BOOLEAN NOT NULL DEFAULT 0,
			grooming_steps INTEGER NOT NULL DEFAULT 0,
			pos_x REAL NOT NULL DEFAULT 0.0,
			pos_z REAL NOT NULL DEFAULT 0.0,
			last_updated DATETIME NOT NULL,
			FOREIGN KEY (match_id) REFERENCES match_state(match_id)
		);`,
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			match_id TEXT NOT NULL,
			timestamp DATETIME NOT NULL,
			event_type TEXT NOT NULL,
			actor_id TEXT NOT NULL,
			target_id TEXT NOT NULL,
			payload TEXT NOT NULL,
			tick INTEGER NOT NULL,
			FOREIGN KEY (match_id) REFERENCES match_state(match_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_match_id ON events(match_id);`,
		`CREATE INDEX IF NOT EXISTS idx_events_actor_id ON events(actor_id);`,
		`CREATE INDEX IF NOT EXISTS idx_events_tick ON events(tick);`,
	}

	for _, query := range schemas {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}

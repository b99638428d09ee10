// Package storage - postgres.go
// PostgreSQL implementation of EventRepository for shared-server deployments.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq" // postgres driver
)

// InitPostgres opens the shared ledger database and ensures the schema.
func InitPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach postgres: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS event_log (
			id TEXT PRIMARY KEY,
			match_id TEXT NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL,
			event_type TEXT NOT NULL,
			actor_id TEXT NOT NULL,
			target_id TEXT,
			payload JSONB NOT NULL,
			tick BIGINT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_event_log_match_tick ON event_log (match_id, tick);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure event_log schema: %w", err)
	}
	return db, nil
}

// PostgresEventRepository implements EventRepository using PostgreSQL.
type PostgresEventRepository struct {
	db *sql.DB
}

// NewPostgresEventRepository creates a new PostgreSQL event repository.
func NewPostgresEventRepository(db *sql.DB) *PostgresEventRepository {
	return &PostgresEventRepository{db: db}
}

// Append inserts a new event into the immutable ledger.
func (r *PostgresEventRepository) Append(ctx context.Context, event GameEvent) error {
	payloadJSON, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO event_log (id, match_id, timestamp, event_type, actor_id, target_id, payload, tick)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = r.db.ExecContext(ctx, query,
		event.ID,
		event.MatchID,
		event.Timestamp,
		event.EventType,
		event.ActorID,
		event.TargetID,
		payloadJSON,
		event.Tick,
	)

	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}

	return nil
}

// GetByMatchID retrieves all events for a match (the full replay).
func (r *PostgresEventRepository) GetByMatchID(ctx context.Context, matchID string) ([]GameEvent, error) {
	query := `
		SELECT id, match_id, timestamp, event_type, actor_id, target_id, payload, tick
		FROM event_log
		WHERE match_id = $1
		ORDER BY tick ASC, timestamp ASC
	`

	return r.queryEvents(ctx, query, matchID)
}

// GetByActorID retrieves all events performed by an actor.
func (r *PostgresEventRepository) GetByActorID(ctx context.Context, matchID, actorID string) ([]GameEvent, error) {
	query := `
		SELECT id, match_id, timestamp, event_type, actor_id, target_id, payload, tick
		FROM event_log
		WHERE match_id = $1 AND actor_id = $2
		ORDER BY tick ASC, timestamp ASC
	`

	return r.queryEvents(ctx, query, matchID, actorID)
}

// GetByEventType retrieves all events of a specific type.
func (r *PostgresEventRepository) GetByEventType(ctx context.Context, matchID string, eventType string) ([]GameEvent, error) {
	query := `
		SELECT id, match_id, timestamp, event_type, actor_id, target_id, payload, tick
		FROM event_log
		WHERE match_id = $1 AND event_type = $2
		ORDER BY tick ASC, timestamp ASC
	`

	return r.queryEvents(ctx, query, matchID, eventType)
}

// GetSinceTick retrieves events from a simulation tick onwards.
func (r *PostgresEventRepository) GetSinceTick(ctx context.Context, matchID string, tick int64) ([]GameEvent, error) {
	query := `
		SELECT id, match_id, timestamp, event_type, actor_id, target_id, payload, tick
		FROM event_log
		WHERE match_id = $1 AND tick >= $2
		ORDER BY tick ASC, timestamp ASC
	`

	return r.queryEvents(ctx, query, matchID, tick)
}

// queryEvents is a helper to execute queries and scan results.
func (r *PostgresEventRepository) queryEvents(ctx context.Context, query string, args ...interface{}) ([]GameEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []GameEvent
	for rows.Next() {
		var e GameEvent
		var payloadJSON []byte
		var targetID sql.NullString

		err := rows.Scan(
			&e.ID,
			&e.MatchID,
			&e.Timestamp,
			&e.EventType,
			&e.ActorID,
			&targetID,
			&payloadJSON,
			&e.Tick,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}

		if targetID.Valid {
			e.TargetID = targetID.String
		}

		if err := json.Unmarshal(payloadJSON, &e.Payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
		}

		events = append(events, e)
	}

	return events, rows.Err()
}

// Ensure PostgresEventRepository implements EventRepository
var _ EventRepository = (*PostgresEventRepository)(nil)

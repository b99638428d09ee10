package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// SQLiteEventRepository implements EventRepository for SQLite.
type SQLiteEventRepository struct {
	db *sql.DB
}

func NewSQLiteEventRepository(db *sql.DB) *SQLiteEventRepository {
	return &SQLiteEventRepository{db: db}
}

func (r *SQLiteEventRepository) Append(ctx context.Context, event GameEvent) error {
	payloadBytes, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO events (id, match_id, timestamp, event_type, actor_id, target_id, payload, tick)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		event.ID, event.MatchID, event.Timestamp, event.EventType, event.ActorID,
		event.TargetID, string(payloadBytes), event.Tick,
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

func (r *SQLiteEventRepository) getMany(ctx context.Context, query string, args ...interface{}) ([]GameEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []GameEvent
	for rows.Next() {
		var e GameEvent
		var payloadStr string
		err := rows.Scan(
			&e.ID, &e.MatchID, &e.Timestamp, &e.EventType, &e.ActorID,
			&e.TargetID, &payloadStr, &e.Tick,
		)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(payloadStr), &e.Payload); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *SQLiteEventRepository) GetByMatchID(ctx context.Context, matchID string) ([]GameEvent, error) {
	query := `SELECT id, match_id, timestamp, event_type, actor_id, target_id, payload, tick FROM events WHERE match_id = ? ORDER BY tick ASC, timestamp ASC`
	return r.getMany(ctx, query, matchID)
}

func (r *SQLiteEventRepository) GetByActorID(ctx context.Context, matchID, actorID string) ([]GameEvent, error) {
	query := `SELECT id, match_id, timestamp, event_type, actor_id, target_id, payload, tick FROM events WHERE match_id = ? AND actor_id = ? ORDER BY tick ASC, timestamp ASC`
	return r.getMany(ctx, query, matchID, actorID)
}

func (r *SQLiteEventRepository) GetByEventType(ctx context.Context, matchID string, eventType string) ([]GameEvent, error) {
	query := `SELECT id, match_id, timestamp, event_type, actor_id, target_id, payload, tick FROM events WHERE match_id = ? AND event_type = ? ORDER BY tick ASC, timestamp ASC`
	return r.getMany(ctx, query, matchID, eventType)
}

func (r *SQLiteEventRepository) GetSinceTick(ctx context.Context, matchID string, tick int64) ([]GameEvent, error) {
	query := `SELECT id, match_id, timestamp, event_type, actor_id, target_id, payload, tick FROM events WHERE match_id = ? AND tick >= ? ORDER BY tick ASC, timestamp ASC`
	return r.getMany(ctx, query, matchID, tick)
}

// ---------------------------------------------------------
// SQLiteSnapshotRepository
// ---------------------------------------------------------

type SQLiteSnapshotRepository struct {
	db *sql.DB
}

func NewSQLiteSnapshotRepository(db *sql.DB) *SQLiteSnapshotRepository {
	return &SQLiteSnapshotRepository{db: db}
}

func (r *SQLiteSnapshotRepository) Upsert(ctx context.Context, snapshot PetSnapshot) error {
	query := `
		INSERT INTO pets (pet_id, match_id, name, species, state, is_groomed, is_caged, grooming_steps, pos_x, pos_z, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(pet_id) DO UPDATE SET
			name=excluded.name,
			species=excluded.species,
			state=excluded.state,
			is_groomed=excluded.is_groomed,
			is_caged=excluded.is_caged,
			grooming_steps=excluded.grooming_steps,
			pos_x=excluded.pos_x,
			pos_z=excluded.pos_z,
			last_updated=excluded.last_updated
	`
	_, err := r.db.ExecContext(ctx, query,
		snapshot.PetID, snapshot.MatchID, snapshot.Name, snapshot.Species,
		snapshot.State, snapshot.IsGroomed, snapshot.IsCaged, snapshot.GroomingSteps,
		snapshot.PosX, snapshot.PosZ, time.Now(),
	)
	return err
}

func (r *SQLiteSnapshotRepository) GetByPetID(ctx context.Context, petID string) (*PetSnapshot, error) {
	query := `SELECT pet_id, match_id, name, species, state, is_groomed, is_caged, grooming_steps, pos_x, pos_z FROM pets WHERE pet_id = ?`
	var p PetSnapshot
	err := r.db.QueryRowContext(ctx, query, petID).Scan(
		&p.PetID, &p.MatchID, &p.Name, &p.Species, &p.State, &p.IsGroomed, &p.IsCaged, &p.GroomingSteps, &p.PosX, &p.PosZ,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *SQLiteSnapshotRepository) GetByMatchID(ctx context.Context, matchID string) ([]PetSnapshot, error) {
	query := `SELECT pet_id, match_id, name, species, state, is_groomed, is_caged, grooming_steps, pos_x, pos_z FROM pets WHERE match_id = ?`
	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []PetSnapshot
	for rows.Next() {
		var p PetSnapshot
		if err := rows.Scan(&p.PetID, &p.MatchID, &p.Name, &p.Species, &p.State, &p.IsGroomed, &p.IsCaged, &p.GroomingSteps, &p.PosX, &p.PosZ); err != nil {
			return nil, err
		}
		snaps = append(snaps, p)
	}
	return snaps, rows.Err()
}

// Ensure the SQLite implementations satisfy the repository interfaces
var _ EventRepository = (*SQLiteEventRepository)(nil)
var _ SnapshotRepository = (*SQLiteSnapshotRepository)(nil)

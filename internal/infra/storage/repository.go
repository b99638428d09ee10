// Package storage provides the persistence layer for the salon server.
// This package implements the repository pattern to keep the domain pure.
package storage

import (
	"context"
	"time"
)

// GameEvent mirrors the domain event structure for persistence.
// The domain package should NOT import this; use interfaces instead.
type GameEvent struct {
	ID        string                 `json:"id" db:"id"`
	MatchID   string                 `json:"match_id" db:"match_id"`
	Timestamp time.Time              `json:"timestamp" db:"timestamp"`
	EventType string                 `json:"event_type" db:"event_type"`
	ActorID   string                 `json:"actor_id" db:"actor_id"`
	TargetID  string                 `json:"target_id" db:"target_id"`
	Payload   map[string]interface{} `json:"payload" db:"payload"`
	Tick      int64                  `json:"tick" db:"tick"`
}

// EventRepository defines the interface for event persistence.
// The domain uses this interface; the implementation is in infra.
type EventRepository interface {
	// Append adds a new event to the immutable ledger.
	Append(ctx context.Context, event GameEvent) error

	// GetByMatchID retrieves all events for a match (for replay).
	GetByMatchID(ctx context.Context, matchID string) ([]GameEvent, error)

	// GetByActorID retrieves all events performed by an actor.
	GetByActorID(ctx context.Context, matchID, actorID string) ([]GameEvent, error)

	// GetByEventType retrieves all events of a specific type.
	GetByEventType(ctx context.Context, matchID string, eventType string) ([]GameEvent, error)

	// GetSinceTick retrieves events from a simulation tick onwards,
	// the incremental feed spectators poll.
	GetSinceTick(ctx context.Context, matchID string, tick int64) ([]GameEvent, error)
}

// PetSnapshot represents the current state of a pet for quick reads.
type PetSnapshot struct {
	PetID         string    `json:"pet_id" db:"pet_id"`
	MatchID       string    `json:"match_id" db:"match_id"`
	Name          string    `json:"name" db:"name"`
	Species       string    `json:"species" db:"species"`
	State         string    `json:"state" db:"state"`
	IsGroomed     bool      `json:"is_groomed" db:"is_groomed"`
	IsCaged       bool      `json:"is_caged" db:"is_caged"`
	GroomingSteps int       `json:"grooming_steps" db:"grooming_steps"`
	PosX          float64   `json:"pos_x" db:"pos_x"`
	PosZ          float64   `json:"pos_z" db:"pos_z"`
	LastUpdated   time.Time `json:"last_updated" db:"last_updated"`
}

// SnapshotRepository defines the interface for pet state snapshots.
type SnapshotRepository interface {
	// Upsert updates or inserts a pet snapshot.
	Upsert(ctx context.Context, snapshot PetSnapshot) error

	// GetByPetID retrieves a specific pet's snapshot.
	GetByPetID(ctx context.Context, petID string) (*PetSnapshot, error)

	// GetByMatchID retrieves all snapshots for a match.
	GetByMatchID(ctx context.Context, matchID string) ([]PetSnapshot, error)
}

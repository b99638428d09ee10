// Package events provides the append-only event log for the match.
// Every rules-engine transition the presentation layer cares about is
// recorded here; the log is the only channel between engine and spectators.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/platform/metrics"
)

// EventType defines the category of a game event.
type EventType string

const (
	EventTypeTimeTick         EventType = "TIME_TICK"
	EventTypeMatchStarted     EventType = "MATCH_STARTED"
	EventTypeMatchEnded       EventType = "MATCH_ENDED"
	EventTypePetSpawned       EventType = "PET_SPAWNED"
	EventTypePetCaptured      EventType = "PET_CAPTURED"
	EventTypeCaptureRejected  EventType = "CAPTURE_REJECTED"
	EventTypePetEscaped       EventType = "PET_ESCAPED"
	EventTypeGroomStarted     EventType = "GROOM_STARTED"
	EventTypeGroomStep        EventType = "GROOM_STEP"
	EventTypeGroomComplete    EventType = "GROOM_COMPLETE"
	EventTypeGroomCancelled   EventType = "GROOM_CANCELLED"
	EventTypeMischiefChanged  EventType = "MISCHIEF_CHANGED"
	EventTypeThresholdReached EventType = "MISCHIEF_THRESHOLD_REACHED"
	EventTypeAlertStarted     EventType = "ALERT_STARTED"
	EventTypeEffectApplied    EventType = "EFFECT_APPLIED"
	EventTypeEffectExpired    EventType = "EFFECT_EXPIRED"
	EventTypeEffectRemoved    EventType = "EFFECT_REMOVED"
	EventTypeCageStored       EventType = "CAGE_STORED"
	EventTypeCageWarning      EventType = "CAGE_WARNING"
	EventTypeCageReleased     EventType = "CAGE_RELEASED"
	EventTypeObjectKnocked    EventType = "OBJECT_KNOCKED"
	EventTypeSkillHit         EventType = "SKILL_HIT"
)

// GameEvent represents an immutable record of a transition in the match.
type GameEvent struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`  // who performed the action
	TargetID  string      `json:"target_id"` // who was affected (optional)
	Payload   interface{} `json:"payload"`   // event-specific data
	Tick      int64       `json:"tick"`      // simulation tick at emission
}

// EventPersister defines how an event is durably stored.
type EventPersister interface {
	Append(event GameEvent) error
}

// EventLog is the in-memory append-only log of game events.
// Write-through persistence is delegated to the optional persister.
type EventLog struct {
	mu        sync.RWMutex
	events    []GameEvent
	persister EventPersister
}

// NewEventLog creates a new event log with an optional persister.
func NewEventLog(persister EventPersister) *EventLog {
	return &EventLog{
		events:    make([]GameEvent, 0),
		persister: persister,
	}
}

// Append adds a new event to the log. Events are immutable once appended.
func (el *EventLog) Append(event GameEvent) {
	el.mu.Lock()
	el.events = append(el.events, event)
	el.mu.Unlock()

	if el.persister != nil {
		go func(e GameEvent) {
			start := time.Now()
			err := el.persister.Append(e)
			metrics.Get().RecordEventWrite(time.Since(start), err)
		}(event)
	}
}

// GetByActor returns all events performed by a specific actor.
func (el *EventLog) GetByActor(actorID string) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.ActorID == actorID {
			result = append(result, e)
		}
	}
	return result
}

// GetByType returns all events of one category.
func (el *EventLog) GetByType(t EventType) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// Replay returns the full history of events for state reconstruction and
// the spectator replay viewer.
func (el *EventLog) Replay() []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return el.events
}

// Len returns the number of appended events.
func (el *EventLog) Len() int {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return len(el.events)
}

// GenerateEventID creates a unique event identifier.
func GenerateEventID() string {
	return uuid.NewString()
}

// Package storage - reconstructor.go
// Rebuilds pet state and the mischief ledger from the event log.
// This is the core of Event Sourcing: state = f(events).
package storage

import (
	"context"
	"fmt"
)

// Reconstructor rebuilds match state from the event log.
// This is used for:
// 1. Crash recovery on server restart
// 2. Snapshot rebuilding after cache invalidation
// 3. Auditing and debugging
type Reconstructor struct {
	eventRepo EventRepository
}

// NewReconstructor creates a new state reconstructor.
func NewReconstructor(eventRepo EventRepository) *Reconstructor {
	return &Reconstructor{eventRepo: eventRepo}
}

// RebuiltPet holds the reconstructed state for a pet.
type RebuiltPet struct {
	PetID         string
	State         string
	IsGroomed     bool
	IsCaged       bool
	GroomingSteps int
}

// RebuiltMatch holds the reconstructed shared match state.
type RebuiltMatch struct {
	MischiefValue    int
	ThresholdReached bool
	AlertActive      bool
	Ended            bool
	Pets             map[string]*RebuiltPet
}

// RebuildMatchState replays the full event log into a match snapshot.
func (r *Reconstructor) RebuildMatchState(ctx context.Context, matchID string) (*RebuiltMatch, error) {
	events, err := r.eventRepo.GetByMatchID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get events for match: %w", err)
	}

	state := &RebuiltMatch{Pets: make(map[string]*RebuiltPet)}
	for _, e := range events {
		r.applyEvent(state, e)
	}
	return state, nil
}

func (r *Reconstructor) pet(state *RebuiltMatch, petID string) *RebuiltPet {
	if petID == "" {
		return nil
	}
	p, ok := state.Pets[petID]
	if !ok {
		p = &RebuiltPet{PetID: petID, State: "Idle"}
		state.Pets[petID] = p
	}
	return p
}

// applyEvent folds one event into the snapshot. Ordering is by tick; the
// repository queries already guarantee it.
func (r *Reconstructor) applyEvent(state *RebuiltMatch, event GameEvent) {
	switch event.EventType {
	case "PET_SPAWNED":
		r.pet(state, event.TargetID)

	case "PET_CAPTURED":
		if p := r.pet(state, event.TargetID); p != nil {
			p.State = "Captured"
			p.GroomingSteps = 0
		}

	case "PET_ESCAPED":
		if p := r.pet(state, event.ActorID); p != nil {
			p.State = "Fleeing"
			p.GroomingSteps = 0
		}

	case "GROOM_STARTED":
		if p := r.pet(state, event.TargetID); p != nil {
			p.State = "BeingGroomed"
			p.GroomingSteps = 0
		}

	case "GROOM_STEP":
		if p := r.pet(state, event.TargetID); p != nil {
			if steps, ok := event.Payload["completed_steps"].(float64); ok {
				p.GroomingSteps = int(steps)
			}
		}

	case "GROOM_COMPLETE":
		if p := r.pet(state, event.TargetID); p != nil {
			p.IsGroomed = true
			p.State = "Idle"
		}

	case "GROOM_CANCELLED":
		if p := r.pet(state, event.TargetID); p != nil {
			p.GroomingSteps = 0
			if p.State == "BeingGroomed" {
				p.State = "Captured"
			}
		}

	case "CAGE_STORED":
		if p := r.pet(state, event.TargetID); p != nil {
			p.IsCaged = true
			p.State = "Captured"
		}

	case "CAGE_RELEASED":
		if p := r.pet(state, event.TargetID); p != nil {
			p.IsCaged = false
			p.State = "Idle"
		}

	case "MISCHIEF_CHANGED":
		if v, ok := event.Payload["new_value"].(float64); ok {
			state.MischiefValue = int(v)
		}

	case "MISCHIEF_THRESHOLD_REACHED":
		state.ThresholdReached = true

	case "ALERT_STARTED":
		state.AlertActive = true

	case "MATCH_ENDED":
		state.Ended = true
	}
}

// RecapEvent is a simplified event for the spectator timeline.
type RecapEvent struct {
	Timestamp string `json:"timestamp"`
	EventType string `json:"event_type"`
	Summary   string `json:"summary"` // Human-readable description
	Impact    string `json:"impact"`  // "GROOMER", "PETS", "NEUTRAL"
}

// GenerateRecap creates the spectator timeline from a tick onwards.
func (r *Reconstructor) GenerateRecap(ctx context.Context, matchID string, sinceTick int64) ([]RecapEvent, error) {
	events, err := r.eventRepo.GetSinceTick(ctx, matchID, sinceTick)
	if err != nil {
		return nil, err
	}

	var recap []RecapEvent
	for _, e := range events {
		if e.EventType == "TIME_TICK" {
			continue
		}
		recap = append(recap, RecapEvent{
			Timestamp: e.Timestamp.Format("15:04:05"),
			EventType: e.EventType,
			Summary:   r.summarizeEvent(e),
			Impact:    r.determineImpact(e),
		})
	}
	return recap, nil
}

// summarizeEvent creates a human-readable summary.
func (r *Reconstructor) summarizeEvent(event GameEvent) string {
	switch event.EventType {
	case "PET_CAPTURED":
		return "¡La peluquera atrapó a una mascota!"
	case "PET_ESCAPED":
		return "Una mascota se escapó de las manos de la peluquera."
	case "GROOM_COMPLETE":
		return "Una mascota quedó perfectamente arreglada."
	case "MISCHIEF_CHANGED":
		return "Las mascotas causaron más caos en el salón."
	case "ALERT_STARTED":
		return "¡El salón entró en alerta!"
	case "MATCH_ENDED":
		return "La partida terminó."
	default:
		return "Algo ocurrió en el salón."
	}
}

// determineImpact classifies which side the event favors.
func (r *Reconstructor) determineImpact(event GameEvent) string {
	switch event.EventType {
	case "PET_CAPTURED", "GROOM_COMPLETE", "CAGE_STORED", "ALERT_STARTED":
		return "GROOMER"
	case "PET_ESCAPED", "MISCHIEF_CHANGED", "MISCHIEF_THRESHOLD_REACHED", "CAGE_RELEASED":
		return "PETS"
	default:
		return "NEUTRAL"
	}
}

package engine

import (
	"time"

	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/domain/effect"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/domain/groomer"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/domain/pet"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/domain/rules"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/events"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/platform/logger"
)

// CaptureResult is the discriminated outcome of a capture attempt.
type CaptureResult string

const (
	CaptureSuccess                 CaptureResult = "SUCCESS"
	CaptureRejectedAlreadyCarrying CaptureResult = "REJECTED_ALREADY_CARRYING"
	CaptureRejectedNoCandidate     CaptureResult = "REJECTED_NO_CANDIDATE"
	CaptureRejectedInvulnerable    CaptureResult = "REJECTED_INVULNERABLE"
	CaptureRejectedTooFar          CaptureResult = "REJECTED_TOO_FAR"
)

// CapturePayload describes a capture attempt outcome.
type CapturePayload struct {
	GroomerID string        `json:"groomer_id"`
	PetID     string        `json:"pet_id,omitempty"`
	Result    CaptureResult `json:"result"`
	Distance  float64       `json:"distance,omitempty"`
}

// CaptureSystem is the stateless rule set for capture attempts.
// It owns no state of its own; all mutation happens on success only.
type CaptureSystem struct {
	eventLog *events.EventLog
	logger   *logger.Logger
	clock    *simClock
	effects  *EffectSystem

	captureRange float64
}

// NewCaptureSystem creates the capture rule set.
func NewCaptureSystem(eventLog *events.EventLog, log *logger.Logger, clock *simClock, effects *EffectSystem, captureRange float64) *CaptureSystem {
	return &CaptureSystem{
		eventLog:     eventLog,
		logger:       log,
		clock:        clock,
		effects:      effects,
		captureRange: captureRange,
	}
}

// TryCapture runs the ordered capture checks. Rejection paths leave every
// piece of state untouched; only success mutates groomer and pet.
func (cs *CaptureSystem) TryCapture(g *groomer.Groomer, candidate *pet.Pet) CaptureResult {
	// 1. Single-carry invariant.
	if g.IsCarrying() {
		return cs.reject(g, candidate, CaptureRejectedAlreadyCarrying, 0)
	}

	// 2. A restrained or absent pet is not a candidate at all.
	if candidate == nil || !candidate.CanBeCaptured() {
		return cs.reject(g, candidate, CaptureRejectedNoCandidate, 0)
	}

	// 3. Invulnerability (e.g. fresh out of a cage).
	if cs.effects.HasEffect(candidate.ID, effect.KindInvulnerable) {
		return cs.reject(g, candidate, CaptureRejectedInvulnerable, 0)
	}

	// 4. Horizontal range check; the vertical axis is ignored.
	d := rules.HorizontalDistance(g.Position, candidate.Position)
	if d > cs.captureRange {
		return cs.reject(g, candidate, CaptureRejectedTooFar, d)
	}

	g.PickUp(candidate.ID)
	candidate.State = pet.StateCaptured
	candidate.GroomingStepsCompleted = 0

	cs.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypePetCaptured,
		ActorID:   g.ID,
		TargetID:  candidate.ID,
		Tick:      cs.clock.now(),
		Payload:   CapturePayload{GroomerID: g.ID, PetID: candidate.ID, Result: CaptureSuccess, Distance: d},
	})
	cs.logger.Event("PET_CAPTURED", g.ID, "Captured "+candidate.ID)
	return CaptureSuccess
}

func (cs *CaptureSystem) reject(g *groomer.Groomer, candidate *pet.Pet, result CaptureResult, distance float64) CaptureResult {
	payload := CapturePayload{GroomerID: g.ID, Result: result, Distance: distance}
	targetID := ""
	if candidate != nil {
		payload.PetID = candidate.ID
		targetID = candidate.ID
	}
	cs.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeCaptureRejected,
		ActorID:   g.ID,
		TargetID:  targetID,
		Tick:      cs.clock.now(),
		Payload:   payload,
	})
	return result
}

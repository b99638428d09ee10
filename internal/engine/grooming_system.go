package engine

import (
	"time"

	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/domain/groomer"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/domain/pet"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/domain/rules"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/events"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/platform/logger"
)

// Step identifies a stage of the grooming minigame.
type Step string

const (
	StepNone     Step = "None"
	StepBrush    Step = "Brush"
	StepClean    Step = "Clean"
	StepDry      Step = "Dry"
	StepComplete Step = "Complete"
)

// NextStep returns the successor in the fixed Brush→Clean→Dry→Complete order.
// Complete is absorbing.
func NextStep(s Step) Step {
	switch s {
	case StepNone:
		return StepBrush
	case StepBrush:
		return StepClean
	case StepClean:
		return StepDry
	case StepDry:
		return StepComplete
	default:
		return StepComplete
	}
}

// GroomStepPayload describes a step advance.
type GroomStepPayload struct {
	PetID          string `json:"pet_id"`
	Step           Step   `json:"step"` // the step now in progress (or Complete)
	CompletedSteps int    `json:"completed_steps"`
}

// GroomCancelPayload describes an interrupted grooming session.
type GroomCancelPayload struct {
	PetID           string `json:"pet_id"`
	Reason          string `json:"reason"`
	StationReleased bool   `json:"station_released"` // consumed by the station collaborator
}

// GroomingSystem advances the three-step grooming minigame and owns the
// escape-chance formula the struggle loop consults.
type GroomingSystem struct {
	eventLog *events.EventLog
	logger   *logger.Logger
	clock    *simClock

	reductionPerStep float64
	sessions         map[string]Step // petID -> step currently in progress
	grmr             *groomer.Groomer
}

// NewGroomingSystem creates the grooming state machine.
func NewGroomingSystem(eventLog *events.EventLog, log *logger.Logger, clock *simClock, reductionPerStep float64) *GroomingSystem {
	return &GroomingSystem{
		eventLog:         eventLog,
		logger:           log,
		clock:            clock,
		reductionPerStep: reductionPerStep,
		sessions:         make(map[string]Step),
	}
}

// SetGroomer wires the groomer so completion can release the carry slot.
func (gs *GroomingSystem) SetGroomer(g *groomer.Groomer) {
	gs.grmr = g
}

// CurrentStep returns the step in progress for a pet, StepNone if no session.
func (gs *GroomingSystem) CurrentStep(petID string) Step {
	if s, ok := gs.sessions[petID]; ok {
		return s
	}
	return StepNone
}

// Start begins a grooming session. The pet must already be captured;
// anything else is an integration bug, reported loudly and refused.
func (gs *GroomingSystem) Start(p *pet.Pet) bool {
	if p == nil {
		gs.logger.Error("INVARIANT VIOLATION: StartGrooming with nil pet")
		return false
	}
	if p.State != pet.StateCaptured {
		gs.logger.Error("INVARIANT VIOLATION: StartGrooming on " + p.ID + " in state " + string(p.State))
		return false
	}

	p.State = pet.StateBeingGroomed
	p.GroomingStepsCompleted = 0
	gs.sessions[p.ID] = StepBrush

	gs.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeGroomStarted,
		TargetID:  p.ID,
		Tick:      gs.clock.now(),
		Payload:   GroomStepPayload{PetID: p.ID, Step: StepBrush, CompletedSteps: 0},
	})
	return true
}

// Advance processes one input against the step in progress. A wrong input is
// an ordinary rejection: nothing changes, no event fires.
func (gs *GroomingSystem) Advance(p *pet.Pet, input Step) bool {
	cur, ok := gs.sessions[p.ID]
	if !ok || cur == StepNone {
		gs.logger.Error("INVARIANT VIOLATION: grooming input for " + p.ID + " with no active session")
		return false
	}
	if cur == StepComplete {
		// Terminal for this session; only Cancel or a fresh Start resets.
		return false
	}
	if input != cur {
		gs.logger.Warn("Grooming step rejected for " + p.ID + ": expected " + string(cur) + ", got " + string(input))
		return false
	}

	p.GroomingStepsCompleted++
	next := NextStep(cur)
	gs.sessions[p.ID] = next

	gs.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeGroomStep,
		TargetID:  p.ID,
		Tick:      gs.clock.now(),
		Payload:   GroomStepPayload{PetID: p.ID, Step: next, CompletedSteps: p.GroomingStepsCompleted},
	})

	if next == StepComplete {
		gs.complete(p)
	}
	return true
}

// complete marks the pet permanently groomed and releases it.
func (gs *GroomingSystem) complete(p *pet.Pet) {
	p.IsGroomed = true
	p.State = pet.StateIdle
	if gs.grmr != nil && gs.grmr.CarriedPetID == p.ID {
		gs.grmr.PutDown()
	}

	gs.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeGroomComplete,
		TargetID:  p.ID,
		Tick:      gs.clock.now(),
		Payload:   GroomStepPayload{PetID: p.ID, Step: StepComplete, CompletedSteps: p.GroomingStepsCompleted},
	})
	gs.logger.Event("GROOM_COMPLETE", p.ID, "Pet is now permanently groomed")
}

// Cancel aborts the session: step back to None, progress wiped, station
// released. The caller decides the pet's next behavioral state.
func (gs *GroomingSystem) Cancel(p *pet.Pet, reason string) bool {
	if _, ok := gs.sessions[p.ID]; !ok {
		return false
	}
	delete(gs.sessions, p.ID)
	p.GroomingStepsCompleted = 0
	if p.State == pet.StateBeingGroomed {
		p.State = pet.StateCaptured
	}

	gs.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeGroomCancelled,
		TargetID:  p.ID,
		Tick:      gs.clock.now(),
		Payload:   GroomCancelPayload{PetID: p.ID, Reason: reason, StationReleased: true},
	})
	return true
}

// EscapeChanceFor returns the current struggle success probability for a
// pet: species base chance minus the per-step reduction, floored at zero.
func (gs *GroomingSystem) EscapeChanceFor(p *pet.Pet) float64 {
	return rules.EscapeChance(p.Attributes().BaseEscapeChance, gs.reductionPerStep, p.GroomingStepsCompleted)
}

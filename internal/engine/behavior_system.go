package engine

import (
	"math/rand"
	"time"

	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/domain/groomer"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/domain/pet"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/domain/rules"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/events"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/platform/logger"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/platform/metrics"
)

// EscapePayload describes a successful struggle.
type EscapePayload struct {
	PetID     string     `json:"pet_id"`
	FromState pet.State  `json:"from_state"`
	Roll      float64    `json:"roll"`
	Chance    float64    `json:"chance"`
	NewPos    rules.Vec3 `json:"new_pos"`
}

// petTimers holds the per-pet countdowns driven by Tick.
type petTimers struct {
	wanderWait float64 // Idle: time until the next wander leg
	wanderMove float64 // Wandering: time until settling back to Idle
	struggle   float64 // restrained: time until the next escape roll
}

// BehaviorConfig is the tuning slice the behavior FSM needs.
type BehaviorConfig struct {
	StruggleInterval   float64
	FleeDetectionRange float64
	TeleportDistance   float64
	WanderWaitSeconds  float64
	WanderMoveSeconds  float64
	Bounds             rules.Bounds
}

// BehaviorSystem runs the per-pet finite-state machine:
// Idle ⇄ Wandering, either → Fleeing on groomer proximity, and the periodic
// struggle loop while Captured/BeingGroomed.
type BehaviorSystem struct {
	eventLog *events.EventLog
	logger   *logger.Logger
	clock    *simClock
	effects  *EffectSystem
	grooming *GroomingSystem
	rng      *rand.Rand
	cfg      BehaviorConfig

	pets   map[string]*pet.Pet
	order  []string // registration order: deterministic iteration under a fixed seed
	timers map[string]*petTimers
	grmr   *groomer.Groomer
	probe  rules.OpennessProbe
}

// NewBehaviorSystem creates the pet FSM driver. The rng must be the single
// shared, seedable generator of the match.
func NewBehaviorSystem(eventLog *events.EventLog, log *logger.Logger, clock *simClock, effects *EffectSystem, grooming *GroomingSystem, rng *rand.Rand, cfg BehaviorConfig) *BehaviorSystem {
	return &BehaviorSystem{
		eventLog: eventLog,
		logger:   log,
		clock:    clock,
		effects:  effects,
		grooming: grooming,
		rng:      rng,
		cfg:      cfg,
		pets:     make(map[string]*pet.Pet),
		timers:   make(map[string]*petTimers),
	}
}

// RegisterPet adds a pet to be driven.
func (bs *BehaviorSystem) RegisterPet(p *pet.Pet) {
	if _, ok := bs.pets[p.ID]; ok {
		return
	}
	bs.pets[p.ID] = p
	bs.order = append(bs.order, p.ID)
	bs.timers[p.ID] = &petTimers{
		wanderWait: bs.cfg.WanderWaitSeconds,
		struggle:   bs.cfg.StruggleInterval,
	}
}

// SetGroomer wires the threat the pets react to.
func (bs *BehaviorSystem) SetGroomer(g *groomer.Groomer) {
	bs.grmr = g
}

// SetOpennessProbe wires the movement collaborator's terrain query used by
// the dog flee heuristic. Optional; without it dogs flee directly away.
func (bs *BehaviorSystem) SetOpennessProbe(probe rules.OpennessProbe) {
	bs.probe = probe
}

// ResetStruggle restarts the escape-roll countdown, called on fresh capture.
func (bs *BehaviorSystem) ResetStruggle(petID string) {
	if t, ok := bs.timers[petID]; ok {
		t.struggle = bs.cfg.StruggleInterval
	}
}

// Tick advances every pet's FSM. Stunned pets freeze entirely; caged pets
// sit out the struggle loop (the cage timer is their way back).
func (bs *BehaviorSystem) Tick(dt float64) {
	for _, id := range bs.order {
		p := bs.pets[id]
		t := bs.timers[id]

		if bs.effects.IsStunned(p.ID) || p.IsCaged {
			continue
		}

		switch p.State {
		case pet.StateCaptured, pet.StateBeingGroomed:
			t.struggle -= dt
			if t.struggle <= 0 {
				t.struggle += bs.cfg.StruggleInterval
				bs.rollEscape(p)
			}

		case pet.StateIdle:
			if bs.groomerClose(p) {
				bs.startFleeing(p)
				continue
			}
			t.wanderWait -= dt
			if t.wanderWait <= 0 {
				p.State = pet.StateWandering
				t.wanderMove = bs.cfg.WanderMoveSeconds
			}

		case pet.StateWandering:
			if bs.groomerClose(p) {
				bs.startFleeing(p)
				continue
			}
			t.wanderMove -= dt
			if t.wanderMove <= 0 {
				p.State = pet.StateIdle
				t.wanderWait = bs.cfg.WanderWaitSeconds
			}

		case pet.StateFleeing:
			if !bs.groomerClose(p) {
				p.State = pet.StateIdle
				p.DesiredHeading = rules.Vec3{}
				t.wanderWait = bs.cfg.WanderWaitSeconds
			} else {
				p.DesiredHeading = bs.fleeHeading(p)
			}
		}
	}
}

// ReachedWanderTarget is the movement layer's notice that the current wander
// leg resolved early.
func (bs *BehaviorSystem) ReachedWanderTarget(petID string) {
	p, ok := bs.pets[petID]
	if !ok || p.State != pet.StateWandering {
		return
	}
	p.State = pet.StateIdle
	bs.timers[petID].wanderWait = bs.cfg.WanderWaitSeconds
}

// rollEscape draws against the grooming-derived escape chance.
func (bs *BehaviorSystem) rollEscape(p *pet.Pet) {
	roll := bs.rng.Float64()
	chance := bs.grooming.EscapeChanceFor(p)
	if roll >= chance {
		return
	}
	bs.escape(p, roll, chance)
}

// escape breaks the pet free: grooming cancelled, carry slot emptied, pet
// teleported away from the groomer and set fleeing.
func (bs *BehaviorSystem) escape(p *pet.Pet, roll, chance float64) {
	from := p.State
	if from == pet.StateBeingGroomed {
		bs.grooming.Cancel(p, "ESCAPED")
	}
	if bs.grmr != nil && bs.grmr.CarriedPetID == p.ID {
		bs.grmr.PutDown()
	}

	// Teleport only resolves with a valid flee direction; otherwise the pet
	// stays put but the transition still completes.
	if bs.grmr != nil {
		dir := bs.fleeHeading(p)
		if !dir.IsZero() {
			p.Position = bs.cfg.Bounds.Clamp(bs.grmr.Position.Add(dir.Scale(bs.cfg.TeleportDistance)))
		}
	}
	p.State = pet.StateFleeing
	p.DesiredHeading = bs.fleeHeading(p)

	bs.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypePetEscaped,
		ActorID:   p.ID,
		Tick:      bs.clock.now(),
		Payload:   EscapePayload{PetID: p.ID, FromState: from, Roll: roll, Chance: chance, NewPos: p.Position},
	})
	bs.logger.Event("PET_ESCAPED", p.ID, "Broke free from "+string(from))
	metrics.Get().RecordEscape()
}

func (bs *BehaviorSystem) startFleeing(p *pet.Pet) {
	p.State = pet.StateFleeing
	p.DesiredHeading = bs.fleeHeading(p)
}

func (bs *BehaviorSystem) groomerClose(p *pet.Pet) bool {
	if bs.grmr == nil {
		return false
	}
	return rules.HorizontalDistance(p.Position, bs.grmr.Position) <= bs.cfg.FleeDetectionRange
}

// fleeHeading picks the species heuristic: cats bolt directly away, dogs
// weigh the most open of 8 sampled headings against the away direction.
func (bs *BehaviorSystem) fleeHeading(p *pet.Pet) rules.Vec3 {
	if bs.grmr == nil {
		return rules.Vec3{}
	}
	if p.Attributes().PrefersOpenFlee {
		return rules.OpenFleeHeading(p.Position, bs.grmr.Position, bs.probe)
	}
	return rules.DirectAwayHeading(p.Position, bs.grmr.Position)
}

package engine

import (
	"time"

	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/domain/effect"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/domain/groomer"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/domain/pet"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/events"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/platform/logger"
)

// Cage is one timed containment unit.
type Cage struct {
	ID            string  `json:"id"`
	OccupantID    string  `json:"occupant_id"` // empty when free
	Elapsed       float64 `json:"elapsed"`
	WarningActive bool    `json:"warning_active"`
}

// Occupied reports whether the cage holds a pet.
func (c *Cage) Occupied() bool { return c.OccupantID != "" }

// CagePayload describes a cage transition.
type CagePayload struct {
	CageID    string  `json:"cage_id"`
	PetID     string  `json:"pet_id"`
	Elapsed   float64 `json:"elapsed"`
	Remaining float64 `json:"remaining"`
	Manual    bool    `json:"manual,omitempty"`
}

// CageSystem enforces the maximum storage duration of captured pets and the
// post-release invulnerability window.
type CageSystem struct {
	eventLog *events.EventLog
	logger   *logger.Logger
	clock    *simClock
	effects  *EffectSystem

	cages map[string]*Cage
	order []string
	pets  map[string]*pet.Pet
	grmr  *groomer.Groomer

	maxStorage    float64
	warningTime   float64
	invulnSeconds float64
}

// NewCageSystem creates the containment tracker.
func NewCageSystem(eventLog *events.EventLog, log *logger.Logger, clock *simClock, effects *EffectSystem, maxStorage, warningTime, invulnSeconds float64) *CageSystem {
	return &CageSystem{
		eventLog:      eventLog,
		logger:        log,
		clock:         clock,
		effects:       effects,
		cages:         make(map[string]*Cage),
		pets:          make(map[string]*pet.Pet),
		maxStorage:    maxStorage,
		warningTime:   warningTime,
		invulnSeconds: invulnSeconds,
	}
}

// AddCage registers a containment unit.
func (cs *CageSystem) AddCage(id string) {
	if _, ok := cs.cages[id]; ok {
		return
	}
	cs.cages[id] = &Cage{ID: id}
	cs.order = append(cs.order, id)
}

// RegisterPet adds a pet to be tracked.
func (cs *CageSystem) RegisterPet(p *pet.Pet) {
	cs.pets[p.ID] = p
}

// SetGroomer wires the groomer so storing a carried pet empties the hands.
func (cs *CageSystem) SetGroomer(g *groomer.Groomer) {
	cs.grmr = g
}

// Store puts a pet into a cage. Rejected when the cage is occupied, unknown,
// or the pet is nil/already caged; rejection changes nothing.
func (cs *CageSystem) Store(cageID string, p *pet.Pet) bool {
	c, ok := cs.cages[cageID]
	if !ok {
		cs.logger.Warn("Store rejected: unknown cage " + cageID)
		return false
	}
	if p == nil {
		cs.logger.Warn("Store rejected: nil pet for cage " + cageID)
		return false
	}
	if c.Occupied() {
		cs.logger.Warn("Store rejected: cage " + cageID + " already holds " + c.OccupantID)
		return false
	}
	if p.IsCaged {
		cs.logger.Warn("Store rejected: " + p.ID + " is already caged")
		return false
	}

	p.IsCaged = true
	p.State = pet.StateCaptured
	c.OccupantID = p.ID
	c.Elapsed = 0
	c.WarningActive = false
	if cs.grmr != nil && cs.grmr.CarriedPetID == p.ID {
		cs.grmr.PutDown()
	}

	cs.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeCageStored,
		TargetID:  p.ID,
		Tick:      cs.clock.now(),
		Payload:   CagePayload{CageID: cageID, PetID: p.ID, Remaining: cs.maxStorage},
	})
	return true
}

// Tick advances every occupied cage: warning once remaining time drops to
// the warning window, automatic release at timeout.
func (cs *CageSystem) Tick(dt float64) {
	for _, id := range cs.order {
		c := cs.cages[id]
		if !c.Occupied() {
			continue
		}

		c.Elapsed += dt
		remaining := cs.maxStorage - c.Elapsed

		if !c.WarningActive && remaining <= cs.warningTime {
			c.WarningActive = true
			cs.eventLog.Append(events.GameEvent{
				ID:        events.GenerateEventID(),
				Timestamp: time.Now(),
				Type:      events.EventTypeCageWarning,
				TargetID:  c.OccupantID,
				Tick:      cs.clock.now(),
				Payload:   CagePayload{CageID: c.ID, PetID: c.OccupantID, Elapsed: c.Elapsed, Remaining: remaining},
			})
		}

		if c.Elapsed >= cs.maxStorage {
			cs.Release(c.ID, false)
		}
	}
}

// Release frees the occupant. Auto- and manual release share this procedure;
// only the trigger differs. The released pet gets a short invulnerability
// window so it cannot be chain-captured at the cage door.
func (cs *CageSystem) Release(cageID string, manual bool) bool {
	c, ok := cs.cages[cageID]
	if !ok || !c.Occupied() {
		cs.logger.Warn("Release rejected: cage " + cageID + " is empty or unknown")
		return false
	}

	petID := c.OccupantID
	elapsed := c.Elapsed
	if p, ok := cs.pets[petID]; ok {
		p.IsCaged = false
		p.State = pet.StateIdle
	}
	cs.effects.Apply(petID, effect.KindInvulnerable, 1.0, cs.invulnSeconds)

	c.OccupantID = ""
	c.Elapsed = 0
	c.WarningActive = false

	cs.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeCageReleased,
		TargetID:  petID,
		Tick:      cs.clock.now(),
		Payload:   CagePayload{CageID: cageID, PetID: petID, Elapsed: elapsed, Manual: manual},
	})
	cs.logger.Event("CAGE_RELEASED", petID, "Cage "+cageID+" released (manual="+boolStr(manual)+")")
	return true
}

// Cages returns the containment units in registration order.
func (cs *CageSystem) Cages() []*Cage {
	out := make([]*Cage, 0, len(cs.order))
	for _, id := range cs.order {
		out = append(out, cs.cages[id])
	}
	return out
}

// Cage returns one unit by ID, nil if unknown.
func (cs *CageSystem) Cage(id string) *Cage {
	return cs.cages[id]
}

func boolStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

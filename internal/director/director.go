package director

import (
	"context"
	"time"

	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/platform/logger"
)

// DefaultCycleInterval is how often the AI pets reconsider their plans.
const DefaultCycleInterval = 2 * time.Second

// Director runs the decision loop for AI-controlled pets.
// Every cycle: Perceive the salon, Decide per pet, Execute through the
// engine. All game rules stay in the engine; the director only submits
// actions the same way a human player would.
type Director struct {
	perceiver *Perceiver
	cognitor  *Cognitor
	state     GameState
	logger    *logger.Logger
	interval  time.Duration
	stopChan  chan struct{}
}

// NewDirector assembles the perception-cognition-action loop.
func NewDirector(state GameState, log *logger.Logger) *Director {
	return &Director{
		perceiver: NewPerceiver(state, log),
		cognitor:  NewCognitor(2.0, 6.0, log),
		state:     state,
		logger:    log,
		interval:  DefaultCycleInterval,
		stopChan:  make(chan struct{}),
	}
}

// SetInterval overrides the cycle cadence. Call before Start.
func (d *Director) SetInterval(interval time.Duration) {
	d.interval = interval
}

// Start begins the decision loop. Blocks until the context is cancelled
// or Stop is called; run it in a goroutine.
func (d *Director) Start(ctx context.Context) {
	d.logger.Info("Las mascotas traviesas despiertan. Que empiece el caos...")

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Las mascotas se calman. El director se retira.")
			return
		case <-d.stopChan:
			d.logger.Info("Director silenciado manualmente.")
			return
		case <-ticker.C:
			d.runCycle()
		}
	}
}

// Stop halts the loop.
func (d *Director) Stop() {
	close(d.stopChan)
}

// runCycle executes one perceive-decide-act pass.
func (d *Director) runCycle() {
	snap := d.perceiver.Perceive()
	decisions := d.cognitor.Decide(snap)

	for _, dec := range decisions {
		d.execute(dec)
	}
}

// execute submits one decision to the engine. The engine applies its own
// filters (caged actors, match over) so a stale decision is harmlessly
// rejected.
func (d *Director) execute(dec Decision) {
	switch dec.Action {
	case ActionKnockShelf:
		if d.state.AddShelfItemMischief(dec.PetID) {
			d.logger.Event("DIRECTOR_ACTION", dec.PetID, "Action:KNOCK_SHELF")
		}
	case ActionKnockCart:
		if d.state.AddCleaningCartMischief(dec.PetID) {
			d.logger.Event("DIRECTOR_ACTION", dec.PetID, "Action:KNOCK_CART")
		}
	case ActionSkillHit:
		if d.state.AddPetSkillHitMischief(dec.PetID) {
			d.logger.Event("DIRECTOR_ACTION", dec.PetID, "Action:SKILL_HIT")
		}
	case ActionNone:
		// Lying low is also a decision.
	}
}

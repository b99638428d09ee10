package director

import (
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/platform/logger"
)

// ActionType is what one pet decides to do this cycle.
type ActionType string

const (
	ActionNone       ActionType = "NONE"
	ActionKnockShelf ActionType = "KNOCK_SHELF"
	ActionKnockCart  ActionType = "KNOCK_CART"
	ActionSkillHit   ActionType = "SKILL_HIT"
)

// Decision pairs a pet with its chosen action.
type Decision struct {
	PetID  string
	Action ActionType
}

// Cognitor turns a snapshot into decisions. Pure rule table, no randomness:
// the same snapshot always yields the same decisions.
type Cognitor struct {
	logger *logger.Logger

	// skillRange is how close the groomer must be for a skill hit.
	skillRange float64
	// lieLowRange is the distance under which a free pet stops vandalizing
	// and concentrates on not getting caught.
	lieLowRange float64
}

// NewCognitor creates the decision side of the loop.
func NewCognitor(skillRange, lieLowRange float64, log *logger.Logger) *Cognitor {
	return &Cognitor{logger: log, skillRange: skillRange, lieLowRange: lieLowRange}
}

// Decide evaluates every AI pet against the snapshot.
func (c *Cognitor) Decide(snap Snapshot) []Decision {
	if snap.ThresholdReached {
		return nil
	}

	var out []Decision
	for _, p := range snap.Pets {
		out = append(out, Decision{PetID: p.PetID, Action: c.decideFor(snap, p)})
	}
	return out
}

func (c *Cognitor) decideFor(snap Snapshot, p PetView) ActionType {
	// Restrained and caged pets have no actions; the struggle loop is the
	// engine's business, not ours.
	if p.Restrained || p.Caged {
		return ActionNone
	}

	// Groomer breathing down the neck: hit with the skill and run.
	if p.GroomerDistance <= c.skillRange {
		return ActionSkillHit
	}

	// Close but not adjacent: vandalizing now means getting grabbed.
	if p.GroomerDistance <= c.lieLowRange {
		return ActionNone
	}

	// Free and unobserved: cause chaos. Cats work the shelves, dogs ram
	// the carts for the bigger payout.
	if p.CanUseElevated {
		return ActionKnockShelf
	}
	return ActionKnockCart
}

// Package director drives the AI-controlled pets.
// It runs a Perception-Cognition-Action loop against the engine: observe
// the salon, pick the most annoying legal action, execute it.
package director

import (
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/domain/rules"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/engine"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/platform/logger"
)

// GameState is the slice of the engine the director is allowed to see and
// touch. Reads go through value-copy views because the director runs on its
// own goroutine, concurrent with the tick loop. *engine.Engine satisfies it.
type GameState interface {
	PetViews() []engine.PetView
	GroomerView() (engine.GroomerView, bool)
	MatchView() engine.MatchView

	AddShelfItemMischief(actorID string) bool
	AddCleaningCartMischief(actorID string) bool
	AddPetSkillHitMischief(actorID string) bool
}

// PetView is one pet as the director perceives it.
type PetView struct {
	PetID           string
	CanUseElevated  bool
	Restrained      bool
	Caged           bool
	GroomerDistance float64
}

// Snapshot is the world state one decision cycle works from.
type Snapshot struct {
	Tick             int64
	MischiefValue    int
	Threshold        int
	ThresholdReached bool
	AlertActive      bool
	Pets             []PetView
}

// Perceiver extracts decision-relevant state from the engine.
type Perceiver struct {
	state  GameState
	logger *logger.Logger
}

// NewPerceiver creates the observation side of the loop.
func NewPerceiver(state GameState, log *logger.Logger) *Perceiver {
	return &Perceiver{state: state, logger: log}
}

// Perceive builds a snapshot of the AI-controlled pets.
func (p *Perceiver) Perceive() Snapshot {
	match := p.state.MatchView()
	snap := Snapshot{
		Tick:             match.Tick,
		MischiefValue:    match.MischiefValue,
		Threshold:        match.MischiefThreshold,
		ThresholdReached: match.ThresholdReached,
		AlertActive:      match.AlertActive,
	}

	g, hasGroomer := p.state.GroomerView()
	for _, pv := range p.state.PetViews() {
		if !pv.IsAIControlled {
			continue
		}
		view := PetView{
			PetID:          pv.ID,
			CanUseElevated: pv.CanUseElevated,
			Restrained:     pv.Restrained,
			Caged:          pv.IsCaged,
		}
		if hasGroomer {
			view.GroomerDistance = rules.HorizontalDistance(pv.Position, g.Position)
		} else {
			view.GroomerDistance = 1e9
		}
		snap.Pets = append(snap.Pets, view)
	}
	return snap
}

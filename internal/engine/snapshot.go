package engine

import (
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/domain/rules"
)

// Value-copy views of live state. Everything outside the tick goroutine
// (HTTP handlers, the AI director, backup loops) reads the engine through
// these; the raw accessors below hand out live pointers and are only safe
// from the goroutine driving Tick.

// PetView is a point-in-time copy of one pet's public state.
type PetView struct {
	ID             string
	Name           string
	Species        string
	State          string
	IsGroomed      bool
	IsCaged        bool
	GroomingSteps  int
	IsAIControlled bool
	Restrained     bool
	CanUseElevated bool
	Position       rules.Vec3
}

// GroomerView is a point-in-time copy of the capturing player.
type GroomerView struct {
	ID           string
	Name         string
	Position     rules.Vec3
	IsCarrying   bool
	CarriedPetID string
}

// MatchView bundles the match-level counters one read usually needs
// together, taken under a single lock acquisition.
type MatchView struct {
	Mode              Mode
	Tick              int64
	MischiefValue     int
	MischiefThreshold int
	ThresholdReached  bool
	AlertActive       bool
}

// PetViews returns copies of all pets in registration order.
func (e *Engine) PetViews() []PetView {
	e.mu.Lock()
	defer e.mu.Unlock()

	views := make([]PetView, 0, len(e.order))
	for _, id := range e.order {
		p := e.pets[id]
		views = append(views, PetView{
			ID:             p.ID,
			Name:           p.Name,
			Species:        string(p.Species),
			State:          string(p.State),
			IsGroomed:      p.IsGroomed,
			IsCaged:        p.IsCaged,
			GroomingSteps:  p.GroomingStepsCompleted,
			IsAIControlled: p.IsAIControlled,
			Restrained:     p.IsRestrained(),
			CanUseElevated: p.Attributes().CanUseElevated,
			Position:       p.Position,
		})
	}
	return views
}

// GroomerView returns a copy of the groomer. The second return is false
// before RegisterGroomer.
func (e *Engine) GroomerView() (GroomerView, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.grmr == nil {
		return GroomerView{}, false
	}
	return GroomerView{
		ID:           e.grmr.ID,
		Name:         e.grmr.Name,
		Position:     e.grmr.Position,
		IsCarrying:   e.grmr.IsCarrying(),
		CarriedPetID: e.grmr.CarriedPetID,
	}, true
}

// MatchView returns the match-level counters.
func (e *Engine) MatchView() MatchView {
	e.mu.Lock()
	defer e.mu.Unlock()

	return MatchView{
		Mode:              e.match.Mode,
		Tick:              e.clock.now(),
		MischiefValue:     e.mischief.Value(),
		MischiefThreshold: e.mischief.Threshold(),
		ThresholdReached:  e.mischief.ThresholdReached(),
		AlertActive:       e.alert.IsActive(),
	}
}

// GroomingStep reports the minigame step a pet is currently on.
func (e *Engine) GroomingStep(petID string) Step {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.grooming.CurrentStep(petID)
}

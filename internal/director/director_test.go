package director

import (
	"testing"

	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/domain/pet"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/domain/rules"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/engine"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/platform/logger"
)

type stubState struct {
	views   []engine.PetView
	grmr    engine.GroomerView
	match   engine.MatchView
	shelves []string
	carts   []string
	skills  []string
}

func (s *stubState) PetViews() []engine.PetView { return s.views }

func (s *stubState) GroomerView() (engine.GroomerView, bool) { return s.grmr, true }

func (s *stubState) MatchView() engine.MatchView { return s.match }

func (s *stubState) AddShelfItemMischief(actorID string) bool {
	s.shelves = append(s.shelves, actorID)
	return true
}

func (s *stubState) AddCleaningCartMischief(actorID string) bool {
	s.carts = append(s.carts, actorID)
	return true
}

func (s *stubState) AddPetSkillHitMischief(actorID string) bool {
	s.skills = append(s.skills, actorID)
	return true
}

func aiPetView(id string, species pet.Species, pos rules.Vec3) engine.PetView {
	return engine.PetView{
		ID:             id,
		Name:           "Travieso",
		Species:        string(species),
		State:          string(pet.StateIdle),
		IsAIControlled: true,
		CanUseElevated: pet.AttributesFor(species).CanUseElevated,
		Position:       pos,
	}
}

func newStubState(views ...engine.PetView) *stubState {
	return &stubState{
		views: views,
		grmr:  engine.GroomerView{ID: "GROOMER_1", Name: "Rosita"},
		match: engine.MatchView{Tick: 42, MischiefThreshold: 1000},
	}
}

func TestPerceiverSkipsHumanControlledPets(t *testing.T) {
	human := engine.PetView{ID: "PET_HUMAN", Species: string(pet.SpeciesCat)}
	ai := aiPetView("PET_AI", pet.SpeciesDog, rules.Vec3{X: 10})
	state := newStubState(human, ai)

	p := NewPerceiver(state, logger.NewLogger())
	snap := p.Perceive()

	if len(snap.Pets) != 1 {
		t.Fatalf("Expected 1 AI pet in snapshot, got %d", len(snap.Pets))
	}
	if snap.Pets[0].PetID != "PET_AI" {
		t.Errorf("Expected PET_AI in snapshot, got %s", snap.Pets[0].PetID)
	}
	if snap.Tick != 42 {
		t.Errorf("Expected tick 42, got %d", snap.Tick)
	}
}

func TestPerceiverMeasuresHorizontalDistance(t *testing.T) {
	ai := aiPetView("PET_AI", pet.SpeciesCat, rules.Vec3{X: 3.0, Y: 50.0, Z: 4.0})
	state := newStubState(ai)

	p := NewPerceiver(state, logger.NewLogger())
	snap := p.Perceive()

	if snap.Pets[0].GroomerDistance != 5.0 {
		t.Errorf("Expected distance 5.0 ignoring height, got %f", snap.Pets[0].GroomerDistance)
	}
}

func TestCognitorSpeciesPickTheirVandalism(t *testing.T) {
	c := NewCognitor(2.0, 6.0, logger.NewLogger())
	snap := Snapshot{
		Pets: []PetView{
			{PetID: "CAT_1", CanUseElevated: true, GroomerDistance: 20.0},
			{PetID: "DOG_1", CanUseElevated: false, GroomerDistance: 20.0},
		},
	}

	decisions := c.Decide(snap)
	if len(decisions) != 2 {
		t.Fatalf("Expected 2 decisions, got %d", len(decisions))
	}
	if decisions[0].Action != ActionKnockShelf {
		t.Errorf("Expected cat to knock shelf, got %s", decisions[0].Action)
	}
	if decisions[1].Action != ActionKnockCart {
		t.Errorf("Expected dog to knock cart, got %s", decisions[1].Action)
	}
}

func TestCognitorSkillHitWhenGroomerAdjacent(t *testing.T) {
	c := NewCognitor(2.0, 6.0, logger.NewLogger())
	snap := Snapshot{
		Pets: []PetView{{PetID: "DOG_1", GroomerDistance: 1.5}},
	}

	decisions := c.Decide(snap)
	if decisions[0].Action != ActionSkillHit {
		t.Errorf("Expected skill hit at close range, got %s", decisions[0].Action)
	}
}

func TestCognitorLiesLowAtMidRange(t *testing.T) {
	c := NewCognitor(2.0, 6.0, logger.NewLogger())
	snap := Snapshot{
		Pets: []PetView{{PetID: "CAT_1", CanUseElevated: true, GroomerDistance: 4.0}},
	}

	decisions := c.Decide(snap)
	if decisions[0].Action != ActionNone {
		t.Errorf("Expected no action at mid range, got %s", decisions[0].Action)
	}
}

func TestCognitorIgnoresRestrainedAndCagedPets(t *testing.T) {
	c := NewCognitor(2.0, 6.0, logger.NewLogger())
	snap := Snapshot{
		Pets: []PetView{
			{PetID: "PET_1", Restrained: true, GroomerDistance: 20.0},
			{PetID: "PET_2", Caged: true, GroomerDistance: 20.0},
		},
	}

	for i, dec := range c.Decide(snap) {
		if dec.Action != ActionNone {
			t.Errorf("Expected decision %d to be NONE, got %s", i, dec.Action)
		}
	}
}

func TestCognitorStopsAfterThreshold(t *testing.T) {
	c := NewCognitor(2.0, 6.0, logger.NewLogger())
	snap := Snapshot{
		ThresholdReached: true,
		Pets:             []PetView{{PetID: "CAT_1", CanUseElevated: true, GroomerDistance: 20.0}},
	}

	if decisions := c.Decide(snap); decisions != nil {
		t.Errorf("Expected no decisions after threshold, got %d", len(decisions))
	}
}

func TestDirectorCycleExecutesDecisions(t *testing.T) {
	cat := aiPetView("CAT_1", pet.SpeciesCat, rules.Vec3{X: 20.0})
	dog := aiPetView("DOG_1", pet.SpeciesDog, rules.Vec3{X: -20.0})
	near := aiPetView("DOG_2", pet.SpeciesDog, rules.Vec3{X: 1.0})
	state := newStubState(cat, dog, near)

	d := NewDirector(state, logger.NewLogger())
	d.runCycle()

	if len(state.shelves) != 1 || state.shelves[0] != "CAT_1" {
		t.Errorf("Expected CAT_1 shelf knock, got %v", state.shelves)
	}
	if len(state.carts) != 1 || state.carts[0] != "DOG_1" {
		t.Errorf("Expected DOG_1 cart knock, got %v", state.carts)
	}
	if len(state.skills) != 1 || state.skills[0] != "DOG_2" {
		t.Errorf("Expected DOG_2 skill hit, got %v", state.skills)
	}
}

package engine

import (
	"testing"

	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/domain/groomer"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/domain/pet"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/events"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/platform/logger"
)

func newGroomingFixture() (*GroomingSystem, *events.EventLog) {
	log := events.NewEventLog(nil)
	return NewGroomingSystem(log, logger.NewLogger(), &simClock{}, 0.1), log
}

func capturedPet(id string, s pet.Species) *pet.Pet {
	p := pet.NewPet(id, id, s)
	p.State = pet.StateCaptured
	return p
}

func TestGroomingFullSession(t *testing.T) {
	gs, log := newGroomingFixture()
	g := groomer.NewGroomer("G1", "Sam", 5.5)
	g.PickUp("PET_CAT")
	gs.SetGroomer(g)
	p := capturedPet("PET_CAT", pet.SpeciesCat)

	if !gs.Start(p) {
		t.Fatal("Expected grooming start on captured pet to succeed")
	}
	if p.State != pet.StateBeingGroomed {
		t.Fatalf("Expected state BeingGroomed, got %s", p.State)
	}

	for _, step := range []Step{StepBrush, StepClean, StepDry} {
		if !gs.Advance(p, step) {
			t.Fatalf("Expected step %s to be accepted", step)
		}
	}

	if !p.IsGroomed {
		t.Error("Expected pet permanently groomed after three steps")
	}
	if p.State != pet.StateIdle {
		t.Errorf("Expected release to Idle, got %s", p.State)
	}
	if g.IsCarrying() {
		t.Error("Expected carry slot released on completion")
	}
	if got := len(log.GetByType(events.EventTypeGroomComplete)); got != 1 {
		t.Errorf("Expected 1 GROOM_COMPLETE event, got %d", got)
	}
}

func TestGroomingWrongInputRejected(t *testing.T) {
	gs, log := newGroomingFixture()
	p := capturedPet("PET_DOG", pet.SpeciesDog)
	gs.Start(p)

	if gs.Advance(p, StepDry) {
		t.Error("Expected Dry to be rejected while Brush is in progress")
	}
	if p.GroomingStepsCompleted != 0 {
		t.Errorf("Expected no progress on rejection, got %d", p.GroomingStepsCompleted)
	}
	if got := len(log.GetByType(events.EventTypeGroomStep)); got != 0 {
		t.Errorf("Expected no GROOM_STEP event on rejection, got %d", got)
	}
}

func TestGroomingStartRequiresCaptured(t *testing.T) {
	gs, _ := newGroomingFixture()
	p := pet.NewPet("PET_CAT", "Michi", pet.SpeciesCat)

	if gs.Start(p) {
		t.Error("Expected start on an idle pet to be refused")
	}
	if p.State != pet.StateIdle {
		t.Errorf("Expected state unchanged, got %s", p.State)
	}
}

func TestGroomingCancelWipesProgress(t *testing.T) {
	gs, log := newGroomingFixture()
	p := capturedPet("PET_CAT", pet.SpeciesCat)
	gs.Start(p)
	gs.Advance(p, StepBrush)
	gs.Advance(p, StepClean)

	if !gs.Cancel(p, "ESCAPED") {
		t.Fatal("Expected cancel of active session to succeed")
	}
	if p.GroomingStepsCompleted != 0 {
		t.Errorf("Expected progress wiped, got %d", p.GroomingStepsCompleted)
	}
	if p.State != pet.StateCaptured {
		t.Errorf("Expected BeingGroomed to fall back to Captured, got %s", p.State)
	}
	if gs.CurrentStep("PET_CAT") != StepNone {
		t.Errorf("Expected session gone, got %s", gs.CurrentStep("PET_CAT"))
	}

	evs := log.GetByType(events.EventTypeGroomCancelled)
	if len(evs) != 1 {
		t.Fatalf("Expected 1 GROOM_CANCELLED event, got %d", len(evs))
	}
	payload := evs[0].Payload.(GroomCancelPayload)
	if !payload.StationReleased {
		t.Error("Expected the cancel event to flag the station released")
	}
}

func TestEscapeChanceDecaysWithSteps(t *testing.T) {
	gs, _ := newGroomingFixture()
	p := capturedPet("PET_CAT", pet.SpeciesCat)

	want := []float64{0.4, 0.3, 0.2, 0.1}
	for steps, expected := range want {
		p.GroomingStepsCompleted = steps
		if got := gs.EscapeChanceFor(p); !almostEqual(got, expected) {
			t.Errorf("Expected chance %f at %d steps, got %f", expected, steps, got)
		}
	}
}

func TestNextStepOrder(t *testing.T) {
	order := []Step{StepNone, StepBrush, StepClean, StepDry, StepComplete}
	for i := 0; i < len(order)-1; i++ {
		if got := NextStep(order[i]); got != order[i+1] {
			t.Errorf("Expected %s after %s, got %s", order[i+1], order[i], got)
		}
	}
	if got := NextStep(StepComplete); got != StepComplete {
		t.Errorf("Expected Complete to be absorbing, got %s", got)
	}
}

package engine

import (
	"testing"

	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/domain/effect"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/domain/groomer"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/domain/pet"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/domain/rules"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/events"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/platform/logger"
)

func newCaptureFixture() (*CaptureSystem, *EffectSystem, *events.EventLog) {
	log := events.NewEventLog(nil)
	l := logger.NewLogger()
	clock := &simClock{}
	effects := NewEffectSystem(log, l, clock)
	return NewCaptureSystem(log, l, clock, effects, 1.5), effects, log
}

func TestCaptureSuccessWithinRange(t *testing.T) {
	cs, _, log := newCaptureFixture()
	g := groomer.NewGroomer("G1", "Sam", 5.5)
	p := pet.NewPet("PET_CAT", "Michi", pet.SpeciesCat)
	p.GroomingStepsCompleted = 2
	p.Position = rules.Vec3{X: 1.0, Z: 1.0}

	if got := cs.TryCapture(g, p); got != CaptureSuccess {
		t.Fatalf("Expected SUCCESS at distance ~1.41, got %s", got)
	}
	if p.State != pet.StateCaptured {
		t.Errorf("Expected state Captured, got %s", p.State)
	}
	if p.GroomingStepsCompleted != 0 {
		t.Errorf("Expected grooming progress reset, got %d", p.GroomingStepsCompleted)
	}
	if g.CarriedPetID != "PET_CAT" {
		t.Errorf("Expected groomer carrying PET_CAT, got %q", g.CarriedPetID)
	}
	if got := len(log.GetByType(events.EventTypePetCaptured)); got != 1 {
		t.Errorf("Expected 1 PET_CAPTURED event, got %d", got)
	}
}

func TestCaptureRangeIgnoresVertical(t *testing.T) {
	cs, _, _ := newCaptureFixture()
	g := groomer.NewGroomer("G1", "Sam", 5.5)
	p := pet.NewPet("PET_CAT", "Michi", pet.SpeciesCat)
	// On a shelf far above but horizontally adjacent.
	p.Position = rules.Vec3{X: 1.0, Y: 10.0, Z: 0}

	if got := cs.TryCapture(g, p); got != CaptureSuccess {
		t.Errorf("Expected SUCCESS ignoring Y distance, got %s", got)
	}
}

func TestCaptureRejectedTooFar(t *testing.T) {
	cs, _, log := newCaptureFixture()
	g := groomer.NewGroomer("G1", "Sam", 5.5)
	p := pet.NewPet("PET_DOG", "Rocky", pet.SpeciesDog)
	p.Position = rules.Vec3{X: 2.0, Z: 0}

	if got := cs.TryCapture(g, p); got != CaptureRejectedTooFar {
		t.Fatalf("Expected REJECTED_TOO_FAR, got %s", got)
	}
	if p.State != pet.StateIdle || g.IsCarrying() {
		t.Error("Expected rejection to leave all state untouched")
	}
	if got := len(log.GetByType(events.EventTypeCaptureRejected)); got != 1 {
		t.Errorf("Expected 1 CAPTURE_REJECTED event, got %d", got)
	}
}

func TestCaptureRejectedAlreadyCarrying(t *testing.T) {
	cs, _, _ := newCaptureFixture()
	g := groomer.NewGroomer("G1", "Sam", 5.5)
	g.PickUp("PET_DOG")
	p := pet.NewPet("PET_CAT", "Michi", pet.SpeciesCat)

	if got := cs.TryCapture(g, p); got != CaptureRejectedAlreadyCarrying {
		t.Errorf("Expected REJECTED_ALREADY_CARRYING, got %s", got)
	}
	if p.State != pet.StateIdle {
		t.Error("Expected candidate pet untouched")
	}
}

func TestCaptureRejectedRestrainedCandidate(t *testing.T) {
	cs, _, _ := newCaptureFixture()
	g := groomer.NewGroomer("G1", "Sam", 5.5)
	p := pet.NewPet("PET_CAT", "Michi", pet.SpeciesCat)
	p.State = pet.StateBeingGroomed

	if got := cs.TryCapture(g, p); got != CaptureRejectedNoCandidate {
		t.Errorf("Expected REJECTED_NO_CANDIDATE for restrained pet, got %s", got)
	}
	if got := cs.TryCapture(g, nil); got != CaptureRejectedNoCandidate {
		t.Errorf("Expected REJECTED_NO_CANDIDATE for nil pet, got %s", got)
	}
}

func TestCaptureRejectedInvulnerable(t *testing.T) {
	cs, effects, _ := newCaptureFixture()
	g := groomer.NewGroomer("G1", "Sam", 5.5)
	p := pet.NewPet("PET_DOG", "Rocky", pet.SpeciesDog)
	effects.Apply("PET_DOG", effect.KindInvulnerable, 1.0, 3.0)

	if got := cs.TryCapture(g, p); got != CaptureRejectedInvulnerable {
		t.Errorf("Expected REJECTED_INVULNERABLE, got %s", got)
	}
}

func TestCaptureCheckOrder(t *testing.T) {
	// A carrying groomer aiming at an invulnerable out-of-range pet must get
	// the carrying rejection, not a later one.
	cs, effects, _ := newCaptureFixture()
	g := groomer.NewGroomer("G1", "Sam", 5.5)
	g.PickUp("PET_DOG")
	p := pet.NewPet("PET_CAT", "Michi", pet.SpeciesCat)
	p.Position = rules.Vec3{X: 50, Z: 50}
	effects.Apply("PET_CAT", effect.KindInvulnerable, 1.0, 3.0)

	if got := cs.TryCapture(g, p); got != CaptureRejectedAlreadyCarrying {
		t.Errorf("Expected carrying check to fire first, got %s", got)
	}
}

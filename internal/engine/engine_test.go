package engine

import (
	"testing"

	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/domain/effect"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/domain/groomer"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/domain/pet"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/domain/rules"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/events"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/platform/config"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/platform/logger"
)

// newTestEngine builds an engine on default tunables with a fixed seed.
func newTestEngine() *Engine {
	tun := config.Defaults()
	tun.RandomSeed = 42
	return NewEngine(events.NewEventLog(nil), logger.NewLogger(), tun)
}

func TestConfigureMatchThresholds(t *testing.T) {
	eng := newTestEngine()

	duo := eng.ConfigureMatch(ModeDuo)
	if duo.PetCount != 2 || duo.MischiefThreshold != 800 {
		t.Errorf("Expected DUO to be 2 pets / 800 threshold, got %d / %d", duo.PetCount, duo.MischiefThreshold)
	}

	eng2 := newTestEngine()
	trio := eng2.ConfigureMatch(ModeTrio)
	if trio.PetCount != 3 || trio.MischiefThreshold != 1000 {
		t.Errorf("Expected TRIO to be 3 pets / 1000 threshold, got %d / %d", trio.PetCount, trio.MischiefThreshold)
	}
}

func TestConfigureMatchSealedAfterStart(t *testing.T) {
	eng := newTestEngine()
	eng.ConfigureMatch(ModeDuo)
	eng.StartMatch()

	after := eng.ConfigureMatch(ModeTrio)
	if after.Mode != ModeDuo {
		t.Errorf("Expected mode to stay DUO after match start, got %s", after.Mode)
	}
}

func TestCagedPetMischiefFiltered(t *testing.T) {
	eng := newTestEngine()
	eng.ConfigureMatch(ModeDuo)
	eng.RegisterGroomer(groomer.NewGroomer("G1", "Sam", 5.5))
	p := pet.NewPet("PET_CAT", "Michi", pet.SpeciesCat)
	eng.RegisterPet(p)
	eng.AddCage("CAGE_1")

	if !eng.AddShelfItemMischief("PET_CAT") {
		t.Fatal("Expected shelf mischief from a free pet to count")
	}
	before := eng.Mischief().Value()

	p.State = pet.StateCaptured
	if !eng.StorePet("CAGE_1", "PET_CAT") {
		t.Fatal("Expected store into empty cage to succeed")
	}

	if eng.AddShelfItemMischief("PET_CAT") {
		t.Error("Expected mischief from a caged pet to be filtered")
	}
	if eng.AddPetSkillHitMischief("PET_CAT") {
		t.Error("Expected skill hit from a caged pet to be filtered")
	}
	if eng.Mischief().Value() != before {
		t.Errorf("Expected ledger unchanged at %d, got %d", before, eng.Mischief().Value())
	}
}

func TestTickOrderingEffectsBeforeDecisions(t *testing.T) {
	// An invulnerability window expiring exactly this tick must be gone
	// before the capture check runs.
	eng := newTestEngine()
	eng.ConfigureMatch(ModeDuo)
	g := groomer.NewGroomer("G1", "Sam", 5.5)
	eng.RegisterGroomer(g)
	p := pet.NewPet("PET_DOG", "Rocky", pet.SpeciesDog)
	eng.RegisterPet(p)

	eng.Effects().Apply("PET_DOG", effect.KindInvulnerable, 1.0, 0.1)
	if got := eng.TryCapture("PET_DOG"); got != CaptureRejectedInvulnerable {
		t.Fatalf("Expected REJECTED_INVULNERABLE before expiry, got %s", got)
	}

	eng.Tick(0.1)
	if got := eng.TryCapture("PET_DOG"); got != CaptureSuccess {
		t.Errorf("Expected SUCCESS after the window expired on tick, got %s", got)
	}
}

func TestGroomerMoveSpeedComposition(t *testing.T) {
	eng := newTestEngine()
	eng.ConfigureMatch(ModeDuo)
	g := groomer.NewGroomer("G1", "Sam", 6.0)
	eng.RegisterGroomer(g)

	if got := eng.GroomerMoveSpeed(); got != 6.0 {
		t.Errorf("Expected base speed 6.0, got %f", got)
	}

	g.PickUp("PET_CAT")
	want := 6.0 * 0.85
	if got := eng.GroomerMoveSpeed(); !almostEqual(got, want) {
		t.Errorf("Expected carrying speed %f, got %f", want, got)
	}
}

func TestPetMoveSpeedStunned(t *testing.T) {
	eng := newTestEngine()
	eng.ConfigureMatch(ModeDuo)
	p := pet.NewPet("PET_CAT", "Michi", pet.SpeciesCat)
	eng.RegisterPet(p)

	if got := eng.PetMoveSpeed("PET_CAT"); got != 6.0 {
		t.Errorf("Expected cat base speed 6.0, got %f", got)
	}

	eng.Effects().Apply("PET_CAT", effect.KindStun, 1.0, 2.0)
	if got := eng.PetMoveSpeed("PET_CAT"); got != 0 {
		t.Errorf("Expected stunned speed 0, got %f", got)
	}
}

func TestUpdatePetPositionIgnoredWhileRestrained(t *testing.T) {
	eng := newTestEngine()
	eng.ConfigureMatch(ModeDuo)
	p := pet.NewPet("PET_CAT", "Michi", pet.SpeciesCat)
	eng.RegisterPet(p)

	eng.UpdatePetPosition("PET_CAT", rules.Vec3{X: 1, Z: 1})
	if p.Position.X != 1 {
		t.Fatal("Expected free pet position to update")
	}

	p.State = pet.StateCaptured
	eng.UpdatePetPosition("PET_CAT", rules.Vec3{X: 9, Z: 9})
	if p.Position.X != 1 {
		t.Errorf("Expected restrained pet position to stay, got %f", p.Position.X)
	}
}

func TestRestoreMatchStateBeforeStart(t *testing.T) {
	eng := newTestEngine()
	eng.ConfigureMatch(ModeDuo)

	eng.RestoreMatchState(720, false, true)
	if eng.Mischief().Value() != 720 {
		t.Errorf("Expected restored mischief 720, got %d", eng.Mischief().Value())
	}
	if !eng.Alert().IsActive() {
		t.Error("Expected restored alert to be active")
	}
	if len(eng.EventLog().GetByType(events.EventTypeAlertStarted)) != 0 {
		t.Error("Expected restore to emit no ALERT_STARTED event")
	}
}

func TestRestoreMatchStateRejectedAfterStart(t *testing.T) {
	eng := newTestEngine()
	eng.ConfigureMatch(ModeDuo)
	eng.StartMatch()

	eng.RestoreMatchState(500, false, false)
	if eng.Mischief().Value() != 0 {
		t.Errorf("Expected ledger untouched after match start, got %d", eng.Mischief().Value())
	}
	eng.RestoreTick(999)
	if eng.CurrentTick() != 0 {
		t.Errorf("Expected clock untouched after match start, got %d", eng.CurrentTick())
	}
}

func almostEqual(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}

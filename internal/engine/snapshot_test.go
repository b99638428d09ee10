package engine

import (
	"sync"
	"testing"

	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/domain/groomer"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/domain/pet"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/domain/rules"
)

func TestPetViewsCopyState(t *testing.T) {
	eng := newTestEngine()
	eng.ConfigureMatch(ModeDuo)
	p := pet.NewPet("PET_CAT", "Michi", pet.SpeciesCat)
	p.IsAIControlled = true
	eng.RegisterPet(p)
	p.State = pet.StateCaptured

	views := eng.PetViews()
	if len(views) != 1 {
		t.Fatalf("Expected 1 pet view, got %d", len(views))
	}
	v := views[0]
	if !v.Restrained {
		t.Error("Expected captured pet to read as restrained")
	}
	if !v.CanUseElevated {
		t.Error("Expected cat view to carry the elevated flag")
	}

	// Views are copies: writing one must not reach the live pet.
	views[0].State = string(pet.StateIdle)
	if p.State != pet.StateCaptured {
		t.Errorf("Expected live pet untouched by view write, got %s", p.State)
	}
}

func TestGroomerViewBeforeRegistration(t *testing.T) {
	eng := newTestEngine()
	eng.ConfigureMatch(ModeDuo)

	if _, ok := eng.GroomerView(); ok {
		t.Error("Expected no groomer view before registration")
	}

	eng.RegisterGroomer(groomer.NewGroomer("G1", "Sam", 5.5))
	g, ok := eng.GroomerView()
	if !ok || g.ID != "G1" {
		t.Errorf("Expected groomer view G1, got %+v ok=%v", g, ok)
	}
}

func TestMatchViewBundlesCounters(t *testing.T) {
	eng := newTestEngine()
	eng.ConfigureMatch(ModeDuo)
	p := pet.NewPet("PET_CAT", "Michi", pet.SpeciesCat)
	eng.RegisterPet(p)

	eng.AddCleaningCartMischief("PET_CAT")
	eng.Tick(0.1)

	match := eng.MatchView()
	if match.Mode != ModeDuo {
		t.Errorf("Expected mode DUO, got %s", match.Mode)
	}
	if match.Tick != 1 {
		t.Errorf("Expected tick 1, got %d", match.Tick)
	}
	if match.MischiefValue != 80 || match.MischiefThreshold != 800 {
		t.Errorf("Expected 80/800 ledger, got %d/%d", match.MischiefValue, match.MischiefThreshold)
	}
}

// TestViewReadsConcurrentWithTicks interleaves the tick loop with snapshot
// reads from another goroutine, the same access pattern the HTTP handlers
// and the AI director use against a live match. The groomer stands inside
// flee range so every tick rewrites pet state while the reads run.
func TestViewReadsConcurrentWithTicks(t *testing.T) {
	eng := newTestEngine()
	eng.ConfigureMatch(ModeDuo)
	g := groomer.NewGroomer("G1", "Sam", 5.5)
	g.Position = rules.Vec3{X: 3, Z: 0}
	eng.RegisterGroomer(g)
	p := pet.NewPet("PET_CAT", "Michi", pet.SpeciesCat)
	p.IsAIControlled = true
	eng.RegisterPet(p)
	eng.StartMatch()

	const ticks = 500

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < ticks; i++ {
			eng.Tick(0.1)
		}
	}()

	for i := 0; i < ticks; i++ {
		for _, v := range eng.PetViews() {
			_ = v.Position.X
			_ = v.State
		}
		if gv, ok := eng.GroomerView(); ok {
			_ = gv.Position.X
		}
		_ = eng.MatchView()
		_ = eng.GroomingStep("PET_CAT")
		_ = eng.CurrentTick()
	}
	wg.Wait()

	if got := eng.CurrentTick(); got != ticks {
		t.Errorf("Expected %d ticks after the loop, got %d", ticks, got)
	}
}

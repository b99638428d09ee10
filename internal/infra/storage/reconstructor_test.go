package storage

import (
	"context"
	"testing"
	"time"
)

// fakeEventRepo serves a fixed event slice without a database.
type fakeEventRepo struct {
	events []GameEvent
}

func (f *fakeEventRepo) Append(ctx context.Context, event GameEvent) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeEventRepo) GetByMatchID(ctx context.Context, matchID string) ([]GameEvent, error) {
	return f.events, nil
}

func (f *fakeEventRepo) GetByActorID(ctx context.Context, matchID, actorID string) ([]GameEvent, error) {
	var out []GameEvent
	for _, e := range f.events {
		if e.ActorID == actorID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) GetByEventType(ctx context.Context, matchID string, eventType string) ([]GameEvent, error) {
	var out []GameEvent
	for _, e := range f.events {
		if e.EventType == eventType {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) GetSinceTick(ctx context.Context, matchID string, tick int64) ([]GameEvent, error) {
	var out []GameEvent
	for _, e := range f.events {
		if e.Tick >= tick {
			out = append(out, e)
		}
	}
	return out, nil
}

func ev(tick int64, eventType, actorID, targetID string, payload map[string]interface{}) GameEvent {
	return GameEvent{
		ID:        "EVT_" + eventType,
		MatchID:   "MATCH_1",
		Timestamp: time.Date(2026, 8, 26, 10, 0, int(tick), 0, time.UTC),
		EventType: eventType,
		ActorID:   actorID,
		TargetID:  targetID,
		Payload:   payload,
		Tick:      tick,
	}
}

func TestRebuildMatchStateFullSession(t *testing.T) {
	repo := &fakeEventRepo{events: []GameEvent{
		ev(0, "PET_SPAWNED", "SYSTEM_SALON", "PET_001", nil),
		ev(0, "PET_SPAWNED", "SYSTEM_SALON", "PET_002", nil),
		ev(10, "PET_CAPTURED", "GROOMER_1", "PET_001", nil),
		ev(12, "GROOM_STARTED", "GROOMER_1", "PET_001", nil),
		ev(14, "GROOM_STEP", "GROOMER_1", "PET_001", map[string]interface{}{"completed_steps": float64(1)}),
		ev(16, "GROOM_STEP", "GROOMER_1", "PET_001", map[string]interface{}{"completed_steps": float64(2)}),
		ev(18, "GROOM_STEP", "GROOMER_1", "PET_001", map[string]interface{}{"completed_steps": float64(3)}),
		ev(18, "GROOM_COMPLETE", "GROOMER_1", "PET_001", nil),
		ev(20, "MISCHIEF_CHANGED", "PET_002", "", map[string]interface{}{"new_value": float64(80)}),
		ev(30, "PET_CAPTURED", "GROOMER_1", "PET_001", nil),
		ev(32, "CAGE_STORED", "GROOMER_1", "PET_001", nil),
	}}

	state, err := NewReconstructor(repo).RebuildMatchState(context.Background(), "MATCH_1")
	if err != nil {
		t.Fatalf("RebuildMatchState failed: %v", err)
	}

	if len(state.Pets) != 2 {
		t.Fatalf("Expected 2 rebuilt pets, got %d", len(state.Pets))
	}

	michi := state.Pets["PET_001"]
	if !michi.IsGroomed {
		t.Error("Expected PET_001 to be groomed after GROOM_COMPLETE")
	}
	if !michi.IsCaged {
		t.Error("Expected PET_001 to be caged after CAGE_STORED")
	}
	if state.MischiefValue != 80 {
		t.Errorf("Expected mischief 80, got %d", state.MischiefValue)
	}
	if state.Ended {
		t.Error("Expected match still running")
	}
}

func TestRebuildEscapeWipesProgress(t *testing.T) {
	repo := &fakeEventRepo{events: []GameEvent{
		ev(0, "PET_SPAWNED", "SYSTEM_SALON", "PET_001", nil),
		ev(10, "PET_CAPTURED", "GROOMER_1", "PET_001", nil),
		ev(12, "GROOM_STARTED", "GROOMER_1", "PET_001", nil),
		ev(14, "GROOM_STEP", "GROOMER_1", "PET_001", map[string]interface{}{"completed_steps": float64(2)}),
		ev(15, "GROOM_CANCELLED", "SYSTEM_SALON", "PET_001", nil),
		ev(15, "PET_ESCAPED", "PET_001", "", nil),
	}}

	state, err := NewReconstructor(repo).RebuildMatchState(context.Background(), "MATCH_1")
	if err != nil {
		t.Fatalf("RebuildMatchState failed: %v", err)
	}

	michi := state.Pets["PET_001"]
	if michi.State != "Fleeing" {
		t.Errorf("Expected Fleeing after escape, got %s", michi.State)
	}
	if michi.GroomingSteps != 0 {
		t.Errorf("Expected grooming progress wiped, got %d", michi.GroomingSteps)
	}
	if michi.IsGroomed {
		t.Error("Expected PET_001 not groomed after interrupted session")
	}
}

func TestRebuildEndgameFlags(t *testing.T) {
	repo := &fakeEventRepo{events: []GameEvent{
		ev(100, "MISCHIEF_CHANGED", "PET_002", "", map[string]interface{}{"new_value": float64(700)}),
		ev(100, "ALERT_STARTED", "SYSTEM_SALON", "", nil),
		ev(120, "MISCHIEF_CHANGED", "PET_002", "", map[string]interface{}{"new_value": float64(800)}),
		ev(120, "MISCHIEF_THRESHOLD_REACHED", "SYSTEM_SALON", "", nil),
		ev(120, "MATCH_ENDED", "SYSTEM_SALON", "", nil),
	}}

	state, err := NewReconstructor(repo).RebuildMatchState(context.Background(), "MATCH_1")
	if err != nil {
		t.Fatalf("RebuildMatchState failed: %v", err)
	}

	if !state.AlertActive || !state.ThresholdReached || !state.Ended {
		t.Errorf("Expected alert/threshold/ended all set, got %+v", state)
	}
	if state.MischiefValue != 800 {
		t.Errorf("Expected final mischief 800, got %d", state.MischiefValue)
	}
}

func TestGenerateRecapSkipsTimeTicks(t *testing.T) {
	repo := &fakeEventRepo{events: []GameEvent{
		ev(10, "TIME_TICK", "SYSTEM_SALON", "", nil),
		ev(11, "PET_CAPTURED", "GROOMER_1", "PET_001", nil),
		ev(20, "TIME_TICK", "SYSTEM_SALON", "", nil),
		ev(25, "PET_ESCAPED", "PET_001", "", nil),
	}}

	recap, err := NewReconstructor(repo).GenerateRecap(context.Background(), "MATCH_1", 0)
	if err != nil {
		t.Fatalf("GenerateRecap failed: %v", err)
	}

	if len(recap) != 2 {
		t.Fatalf("Expected 2 recap entries, got %d", len(recap))
	}
	if recap[0].Impact != "GROOMER" {
		t.Errorf("Expected capture to favor GROOMER, got %s", recap[0].Impact)
	}
	if recap[1].Impact != "PETS" {
		t.Errorf("Expected escape to favor PETS, got %s", recap[1].Impact)
	}
}

package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeRedis is an in-memory stand-in for a Redis connection.
type fakeRedis struct {
	strings map[string]string
	hashes  map[string]map[string]string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		strings: make(map[string]string),
		hashes:  make(map[string]map[string]string),
	}
}

func (f *fakeRedis) Get(ctx context.Context, key string) (string, error) {
	v, ok := f.strings[key]
	if !ok {
		return "", errors.New("cache miss")
	}
	return v, nil
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	switch v := value.(type) {
	case []byte:
		f.strings[key] = string(v)
	case string:
		f.strings[key] = v
	default:
		return errors.New("unsupported value type")
	}
	return nil
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.strings, k)
		delete(f.hashes, k)
	}
	return nil
}

func (f *fakeRedis) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	h, ok := f.hashes[key]
	if !ok {
		return map[string]string{}, nil
	}
	return h, nil
}

func (f *fakeRedis) HSet(ctx context.Context, key string, values ...interface{}) error {
	if len(values)%2 != 0 {
		return errors.New("odd number of hash values")
	}
	h, ok := f.hashes[key]
	if !ok {
		h = make(map[string]string)
		f.hashes[key] = h
	}
	for i := 0; i < len(values); i += 2 {
		field, _ := values[i].(string)
		val, _ := values[i+1].(string)
		h[field] = val
	}
	return nil
}

func TestPetCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewPetCache(newFakeRedis())

	in := PetState{
		PetID:         "PET_001",
		Name:          "Michi",
		Species:       "Cat",
		State:         "Fleeing",
		GroomingSteps: 2,
		PosX:          3.5,
		PosZ:          -1.25,
	}
	if err := c.SetPetState(ctx, "MATCH_1", in); err != nil {
		t.Fatalf("SetPetState failed: %v", err)
	}

	out, err := c.GetPetState(ctx, "MATCH_1", "PET_001")
	if err != nil {
		t.Fatalf("GetPetState failed: %v", err)
	}
	if out.Name != "Michi" || out.State != "Fleeing" || out.GroomingSteps != 2 {
		t.Errorf("Expected cached state to round-trip, got %+v", out)
	}
	if out.PosX != 3.5 || out.PosZ != -1.25 {
		t.Errorf("Expected position (3.5, -1.25), got (%f, %f)", out.PosX, out.PosZ)
	}
}

func TestPetCacheMissReturnsError(t *testing.T) {
	c := NewPetCache(newFakeRedis())

	if _, err := c.GetPetState(context.Background(), "MATCH_1", "PET_404"); err == nil {
		t.Error("Expected error on cache miss, got nil")
	}
}

func TestMatchStateHashAndInvalidation(t *testing.T) {
	ctx := context.Background()
	c := NewPetCache(newFakeRedis())

	states := map[string]PetState{
		"PET_001": {PetID: "PET_001", State: "Idle"},
		"PET_002": {PetID: "PET_002", State: "Captured", IsCaged: true},
	}
	if err := c.SetMatchState(ctx, "MATCH_1", states); err != nil {
		t.Fatalf("SetMatchState failed: %v", err)
	}

	got, err := c.GetMatchState(ctx, "MATCH_1")
	if err != nil {
		t.Fatalf("GetMatchState failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 cached pets, got %d", len(got))
	}
	if !got["PET_002"].IsCaged {
		t.Error("Expected PET_002 to remain caged in cache")
	}

	if err := c.InvalidateMatch(ctx, "MATCH_1"); err != nil {
		t.Fatalf("InvalidateMatch failed: %v", err)
	}
	got, err = c.GetMatchState(ctx, "MATCH_1")
	if err != nil {
		t.Fatalf("GetMatchState after invalidation failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected empty cache after invalidation, got %d entries", len(got))
	}
}

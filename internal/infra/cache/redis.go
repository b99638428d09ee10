// Package cache provides Redis-based caching for quick state reads.
// Pet snapshots only; the event log remains the source of truth.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// RedisClient is an interface for Redis operations.
// This allows for easy mocking in tests.
type RedisClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HSet(ctx context.Context, key string, values ...interface{}) error
}

// PetCache provides fast access to pet state snapshots.
type PetCache struct {
	client     RedisClient
	expiration time.Duration
}

// NewPetCache creates a new pet cache instance.
func NewPetCache(client RedisClient) *PetCache {
	return &PetCache{
		client:     client,
		expiration: 15 * time.Minute, // Cache expires after 15 minutes
	}
}

// PetState represents the cached state of a pet.
type PetState struct {
	PetID         string  `json:"pet_id"`
	Name          string  `json:"name"`
	Species       string  `json:"species"`
	State         string  `json:"state"`
	IsGroomed     bool    `json:"is_groomed"`
	IsCaged       bool    `json:"is_caged"`
	GroomingSteps int     `json:"grooming_steps"`
	PosX          float64 `json:"pos_x"`
	PosZ          float64 `json:"pos_z"`
	LastSync      int64   `json:"last_sync"` // Unix timestamp
}

// SetPetState caches the current state of a pet.
func (c *PetCache) SetPetState(ctx context.Context, matchID string, state PetState) error {
	key := c.petKey(matchID, state.PetID)

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal pet state: %w", err)
	}

	return c.client.Set(ctx, key, data, c.expiration)
}

// GetPetState retrieves the cached state of a pet.
func (c *PetCache) GetPetState(ctx context.Context, matchID, petID string) (*PetState, error) {
	key := c.petKey(matchID, petID)

	data, err := c.client.Get(ctx, key)
	if err != nil {
		return nil, err // Cache miss or error
	}

	var state PetState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pet state: %w", err)
	}

	return &state, nil
}

// SetMatchState caches the current state of all pets in a match.
// Uses Redis Hash for efficient storage.
func (c *PetCache) SetMatchState(ctx context.Context, matchID string, states map[string]PetState) error {
	key := c.matchKey(matchID)

	values := make([]interface{}, 0, len(states)*2)
	for id, state := range states {
		data, err := json.Marshal(state)
		if err != nil {
			return fmt.Errorf("failed to marshal state for %s: %w", id, err)
		}
		values = append(values, id, string(data))
	}

	return c.client.HSet(ctx, key, values...)
}

// GetMatchState retrieves the cached state of all pets in a match.
func (c *PetCache) GetMatchState(ctx context.Context, matchID string) (map[string]PetState, error) {
	key := c.matchKey(matchID)

	data, err := c.client.HGetAll(ctx, key)
	if err != nil {
		return nil, err
	}

	states := make(map[string]PetState)
	for id, jsonStr := range data {
		var state PetState
		if err := json.Unmarshal([]byte(jsonStr), &state); err != nil {
			return nil, fmt.Errorf("failed to unmarshal state for %s: %w", id, err)
		}
		states[id] = state
	}

	return states, nil
}

// InvalidateMatch removes all cached state for a match.
func (c *PetCache) InvalidateMatch(ctx context.Context, matchID string) error {
	key := c.matchKey(matchID)
	return c.client.Del(ctx, key)
}

// petKey generates the Redis key for a specific pet.
func (c *PetCache) petKey(matchID, petID string) string {
	return fmt.Sprintf("match:%s:pet:%s", matchID, petID)
}

// matchKey generates the Redis key for all pets in a match.
func (c *PetCache) matchKey(matchID string) string {
	return fmt.Sprintf("match:%s:pets", matchID)
}

// Package groomer defines the domain entity for the capturing role.
// This package is PURE and must NOT import any infrastructure packages.
package groomer

import "github.com/MRamiBalles/SalonMascotasJuego/server/internal/domain/rules"

// Groomer represents the capturing player. There is exactly one per match.
type Groomer struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	CarriedPetID  string     `json:"carried_pet_id"` // empty when hands are free
	Position      rules.Vec3 `json:"position"`
	BaseMoveSpeed float64    `json:"base_move_speed"`
}

// NewGroomer creates a groomer with empty hands.
func NewGroomer(id, name string, baseMoveSpeed float64) *Groomer {
	return &Groomer{
		ID:            id,
		Name:          name,
		BaseMoveSpeed: baseMoveSpeed,
	}
}

// IsCarrying reports whether a pet is currently being carried.
// The single-carry invariant: at most one pet at a time.
func (g *Groomer) IsCarrying() bool {
	return g.CarriedPetID != ""
}

// PickUp records the carried pet. Returns false if hands are full.
func (g *Groomer) PickUp(petID string) bool {
	if g.IsCarrying() {
		return false
	}
	g.CarriedPetID = petID
	return true
}

// PutDown clears the carry slot. Safe to call with empty hands.
func (g *Groomer) PutDown() {
	g.CarriedPetID = ""
}

// MoveSpeed returns the effective speed given the alert state, combining the
// carry penalty and alert bonus multiplicatively.
func (g *Groomer) MoveSpeed(isAlertActive bool, carryFactor, alertBonus float64) float64 {
	return g.BaseMoveSpeed * rules.GroomerSpeedMultiplier(g.IsCarrying(), isAlertActive, carryFactor, alertBonus)
}

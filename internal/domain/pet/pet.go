// Package pet defines the core domain entity for the evading role.
// This package is PURE and must NOT import any infrastructure packages
// (network, events, platform).
package pet

import "github.com/MRamiBalles/SalonMascotasJuego/server/internal/domain/rules"

// Species is the pet variant. Cats and dogs differ in every attribute row.
type Species string

const (
	SpeciesCat Species = "Cat"
	SpeciesDog Species = "Dog"
)

// State identifies the behavioral state of a pet.
type State string

const (
	StateIdle         State = "Idle"
	StateWandering    State = "Wandering"
	StateFleeing      State = "Fleeing"
	StateCaptured     State = "Captured"
	StateBeingGroomed State = "BeingGroomed"
)

// Attributes is the per-species tuning table.
type Attributes struct {
	MoveSpeed        float64 `json:"move_speed"`
	CollisionRadius  float64 `json:"collision_radius"`
	KnockbackForce   float64 `json:"knockback_force"`
	BaseEscapeChance float64 `json:"base_escape_chance"`
	CanUseElevated   bool    `json:"can_use_elevated"` // cats reach shelves, dogs do not
	PrefersOpenFlee  bool    `json:"prefers_open_flee"`
}

// AttributesFor returns the tuning row for a species.
func AttributesFor(s Species) Attributes {
	switch s {
	case SpeciesDog:
		return Attributes{
			MoveSpeed:        5.0,
			CollisionRadius:  1.0,
			KnockbackForce:   10.0,
			BaseEscapeChance: 0.3,
			CanUseElevated:   false,
			PrefersOpenFlee:  true,
		}
	default: // cat
		return Attributes{
			MoveSpeed:        6.0,
			CollisionRadius:  0.5,
			KnockbackForce:   5.0,
			BaseEscapeChance: 0.4,
			CanUseElevated:   true,
			PrefersOpenFlee:  false,
		}
	}
}

// Pet represents one evading participant, AI- or player-controlled.
type Pet struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Species Species `json:"species"`

	State                  State `json:"state"`
	IsGroomed              bool  `json:"is_groomed"` // permanent once set
	IsCaged                bool  `json:"is_caged"`
	GroomingStepsCompleted int   `json:"grooming_steps_completed"` // 0..3

	IsAIControlled bool `json:"is_ai_controlled"`

	// Position is owned by the movement collaborator and pushed into the
	// engine each tick; the engine never integrates motion itself.
	Position       rules.Vec3 `json:"position"`
	DesiredHeading rules.Vec3 `json:"desired_heading"` // read back by the movement layer
}

// NewPet creates a fresh pet in the idle state.
func NewPet(id, name string, species Species) *Pet {
	return &Pet{
		ID:      id,
		Name:    name,
		Species: species,
		State:   StateIdle,
	}
}

// Attributes returns the species tuning row for this pet.
func (p *Pet) Attributes() Attributes {
	return AttributesFor(p.Species)
}

// IsRestrained reports whether the pet is held by the groomer or a station.
func (p *Pet) IsRestrained() bool {
	return p.State == StateCaptured || p.State == StateBeingGroomed
}

// CanBeCaptured reports whether a capture attempt may target this pet at all.
// A restrained pet is never a valid candidate.
func (p *Pet) CanBeCaptured() bool {
	return !p.IsRestrained()
}

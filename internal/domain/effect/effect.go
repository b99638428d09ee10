// Package effect defines the status-effect domain types.
// This package is PURE and must NOT import any infrastructure packages.
package effect

// Kind identifies a status-effect category. At most one effect of a given
// kind is active per actor: re-applying replaces, it never stacks.
type Kind string

const (
	KindSlow         Kind = "Slow"
	KindStun         Kind = "Stun"
	KindInvisible    Kind = "Invisible"
	KindInvulnerable Kind = "Invulnerable"
	KindSpeedBoost   Kind = "SpeedBoost"
)

// Effect is one active status effect on an actor.
type Effect struct {
	Kind      Kind    `json:"kind"`
	Magnitude float64 `json:"magnitude"` // speed kinds: multiplier; others unused
	Remaining float64 `json:"remaining"` // seconds until expiry
}

// Expired reports whether the effect has run out. An effect that reaches
// exactly zero at a tick boundary counts as already expired for that tick's
// decisions.
func (e *Effect) Expired() bool {
	return e.Remaining <= 0
}

// Opacity values reported for the Invisible effect. Purely a numeric output
// for the rendering collaborator.
const (
	OpacityHidden = 0.0 // fully hidden while stationary
	OpacityMoving = 0.5
	OpacityFull   = 1.0
)

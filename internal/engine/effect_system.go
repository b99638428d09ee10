package engine

import (
	"time"

	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/domain/effect"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/events"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/platform/logger"
)

// EffectAppliedPayload describes an effect application or replacement.
type EffectAppliedPayload struct {
	ActorID   string      `json:"actor_id"`
	Kind      effect.Kind `json:"kind"`
	Magnitude float64     `json:"magnitude"`
	Duration  float64     `json:"duration"`
}

// EffectEndedPayload describes an effect removal or expiry.
type EffectEndedPayload struct {
	ActorID string      `json:"actor_id"`
	Kind    effect.Kind `json:"kind"`
}

// EffectSystem tracks timed status effects per actor.
// One effect per kind per actor: a fresh application replaces the old one.
type EffectSystem struct {
	eventLog *events.EventLog
	logger   *logger.Logger
	clock    *simClock

	active map[string]map[effect.Kind]*effect.Effect
}

// NewEffectSystem creates the status-effect tracker.
func NewEffectSystem(eventLog *events.EventLog, log *logger.Logger, clock *simClock) *EffectSystem {
	return &EffectSystem{
		eventLog: eventLog,
		logger:   log,
		clock:    clock,
		active:   make(map[string]map[effect.Kind]*effect.Effect),
	}
}

// Apply puts an effect on an actor, replacing any active effect of the same
// kind. While an actor is invulnerable every other kind is silently rejected;
// only Invulnerable itself may be refreshed.
func (es *EffectSystem) Apply(actorID string, kind effect.Kind, magnitude float64, duration float64) bool {
	if kind != effect.KindInvulnerable && es.HasEffect(actorID, effect.KindInvulnerable) {
		es.logger.Warn("Effect " + string(kind) + " rejected: " + actorID + " is invulnerable")
		return false
	}

	m, ok := es.active[actorID]
	if !ok {
		m = make(map[effect.Kind]*effect.Effect)
		es.active[actorID] = m
	}
	m[kind] = &effect.Effect{Kind: kind, Magnitude: magnitude, Remaining: duration}

	es.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeEffectApplied,
		ActorID:   actorID,
		Tick:      es.clock.now(),
		Payload: EffectAppliedPayload{
			ActorID:   actorID,
			Kind:      kind,
			Magnitude: magnitude,
			Duration:  duration,
		},
	})
	return true
}

// Remove clears an effect immediately. Restoration is implicit: the derived
// values (speed multiplier, stun flag, opacity) are recomputed on read.
func (es *EffectSystem) Remove(actorID string, kind effect.Kind) bool {
	m, ok := es.active[actorID]
	if !ok {
		return false
	}
	if _, ok := m[kind]; !ok {
		return false
	}
	delete(m, kind)

	es.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeEffectRemoved,
		ActorID:   actorID,
		Tick:      es.clock.now(),
		Payload:   EffectEndedPayload{ActorID: actorID, Kind: kind},
	})
	return true
}

// Tick decrements every remaining duration. Effects reaching zero are removed
// before any other system makes decisions this tick.
func (es *EffectSystem) Tick(dt float64) {
	for actorID, m := range es.active {
		for kind, e := range m {
			e.Remaining -= dt
			if e.Expired() {
				delete(m, kind)
				es.eventLog.Append(events.GameEvent{
					ID:        events.GenerateEventID(),
					Timestamp: time.Now(),
					Type:      events.EventTypeEffectExpired,
					ActorID:   actorID,
					Tick:      es.clock.now(),
					Payload:   EffectEndedPayload{ActorID: actorID, Kind: kind},
				})
			}
		}
	}
}

// HasEffect reports whether an actor currently carries an active effect of
// the given kind. Expired-but-not-yet-ticked entries do not count.
func (es *EffectSystem) HasEffect(actorID string, kind effect.Kind) bool {
	m, ok := es.active[actorID]
	if !ok {
		return false
	}
	e, ok := m[kind]
	return ok && !e.Expired()
}

// SpeedMultiplier returns the single authoritative movement multiplier for
// an actor: the product of any active Slow and SpeedBoost magnitudes.
func (es *EffectSystem) SpeedMultiplier(actorID string) float64 {
	mult := 1.0
	if m, ok := es.active[actorID]; ok {
		if e, ok := m[effect.KindSlow]; ok && !e.Expired() {
			mult *= e.Magnitude
		}
		if e, ok := m[effect.KindSpeedBoost]; ok && !e.Expired() {
			mult *= e.Magnitude
		}
	}
	return mult
}

// IsStunned reports whether locomotion is disabled for the actor.
func (es *EffectSystem) IsStunned(actorID string) bool {
	return es.HasEffect(actorID, effect.KindStun)
}

// Opacity returns the render opacity for an actor: invisible actors are 0
// while stationary and 0.5 while moving. Purely a numeric output for the
// rendering collaborator.
func (es *EffectSystem) Opacity(actorID string, moving bool) float64 {
	if !es.HasEffect(actorID, effect.KindInvisible) {
		return effect.OpacityFull
	}
	if moving {
		return effect.OpacityMoving
	}
	return effect.OpacityHidden
}

// ActiveEffects returns a snapshot of the actor's live effects.
func (es *EffectSystem) ActiveEffects(actorID string) []effect.Effect {
	m, ok := es.active[actorID]
	if !ok {
		return nil
	}
	out := make([]effect.Effect, 0, len(m))
	for _, e := range m {
		if !e.Expired() {
			out = append(out, *e)
		}
	}
	return out
}

// Remaining returns the seconds left on an effect, 0 if absent.
func (es *EffectSystem) Remaining(actorID string, kind effect.Kind) float64 {
	m, ok := es.active[actorID]
	if !ok {
		return 0
	}
	e, ok := m[kind]
	if !ok || e.Expired() {
		return 0
	}
	return e.Remaining
}

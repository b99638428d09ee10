package engine

import (
	"strconv"
	"time"

	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/domain/rules"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/events"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/platform/logger"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/platform/metrics"
)

// MischiefChangePayload describes a ledger increment.
type MischiefChangePayload struct {
	ActorID   string `json:"actor_id"`
	Previous  int    `json:"previous"`
	NewValue  int    `json:"new_value"`
	Delta     int    `json:"delta"`
	Cause     string `json:"cause"`
	Threshold int    `json:"threshold"`
}

// Mischief causes recorded on the ledger.
const (
	CauseShelfItem    = "SHELF_ITEM"
	CauseCleaningCart = "CLEANING_CART"
	CauseSkillHit     = "SKILL_HIT_GROOMER"
)

// MischiefSystem is the monotone score ledger for the pets' side.
// It only accumulates what it is told; it has no idea who caused an add or
// whether that actor was caged (the collision layer filters that upstream).
type MischiefSystem struct {
	eventLog *events.EventLog
	logger   *logger.Logger
	clock    *simClock
	alert    *AlertSystem

	value            int
	threshold        int
	thresholdReached bool

	shelfAmount int
	cartAmount  int
	skillAmount int
}

// NewMischiefSystem creates the ledger with the named default increments.
func NewMischiefSystem(eventLog *events.EventLog, log *logger.Logger, clock *simClock, alert *AlertSystem, shelf, cart, skill int) *MischiefSystem {
	return &MischiefSystem{
		eventLog:    eventLog,
		logger:      log,
		clock:       clock,
		alert:       alert,
		shelfAmount: shelf,
		cartAmount:  cart,
		skillAmount: skill,
	}
}

// SetThreshold fixes the match-ending value from the pet count.
// Called once by match setup, before the first add.
func (ms *MischiefSystem) SetThreshold(petCount int) {
	ms.threshold = rules.MischiefThreshold(petCount)
	ms.logger.Info("Mischief threshold set to " + strconv.Itoa(ms.threshold) + " for " + strconv.Itoa(petCount) + " pets")
}

// Restore rewinds the ledger to a reconstructed value after a restart.
// No events are emitted; the log already contains the history that produced
// this value.
func (ms *MischiefSystem) Restore(value int, thresholdReached bool) {
	ms.value = value
	ms.thresholdReached = thresholdReached
	ms.logger.Info("Mischief ledger restored to " + strconv.Itoa(value))
}

// Add accumulates a positive amount. Non-positive amounts are rejected as a
// no-op. The threshold event fires exactly once, at the first crossing.
func (ms *MischiefSystem) Add(actorID string, amount int, cause string) bool {
	if amount <= 0 {
		ms.logger.Warn("Mischief add rejected: non-positive amount " + strconv.Itoa(amount) + " from " + actorID)
		return false
	}

	prev := ms.value
	ms.value += amount
	metrics.Get().RecordMischief(amount)

	ms.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeMischiefChanged,
		ActorID:   actorID,
		Tick:      ms.clock.now(),
		Payload: MischiefChangePayload{
			ActorID:   actorID,
			Previous:  prev,
			NewValue:  ms.value,
			Delta:     amount,
			Cause:     cause,
			Threshold: ms.threshold,
		},
	})

	if ms.alert != nil {
		ms.alert.CheckCondition(ms.value, ms.threshold)
	}

	if !ms.thresholdReached && prev < ms.threshold && ms.value >= ms.threshold {
		ms.thresholdReached = true
		ms.eventLog.Append(events.GameEvent{
			ID:        events.GenerateEventID(),
			Timestamp: time.Now(),
			Type:      events.EventTypeThresholdReached,
			ActorID:   actorID,
			Tick:      ms.clock.now(),
			Payload:   MischiefChangePayload{ActorID: actorID, Previous: prev, NewValue: ms.value, Delta: amount, Cause: cause, Threshold: ms.threshold},
		})
		ms.eventLog.Append(events.GameEvent{
			ID:        events.GenerateEventID(),
			Timestamp: time.Now(),
			Type:      events.EventTypeMatchEnded,
			ActorID:   "SYSTEM_SALON",
			Tick:      ms.clock.now(),
			Payload:   map[string]string{"winner": "PETS", "reason": "MISCHIEF_THRESHOLD"},
		})
		ms.logger.Event("MISCHIEF_THRESHOLD", actorID, "Pets win: "+strconv.Itoa(ms.value)+"/"+strconv.Itoa(ms.threshold))
	}
	return true
}

// AddShelfItem records a knocked-over shelf item.
func (ms *MischiefSystem) AddShelfItem(actorID string) bool {
	return ms.Add(actorID, ms.shelfAmount, CauseShelfItem)
}

// AddCleaningCart records a toppled cleaning cart.
func (ms *MischiefSystem) AddCleaningCart(actorID string) bool {
	return ms.Add(actorID, ms.cartAmount, CauseCleaningCart)
}

// AddSkillHit records a pet skill landing on the groomer.
func (ms *MischiefSystem) AddSkillHit(actorID string) bool {
	return ms.Add(actorID, ms.skillAmount, CauseSkillHit)
}

// Value returns the accumulated mischief.
func (ms *MischiefSystem) Value() int { return ms.value }

// Threshold returns the match-ending value.
func (ms *MischiefSystem) Threshold() int { return ms.threshold }

// ThresholdReached reports whether the one-shot crossing has happened.
func (ms *MischiefSystem) ThresholdReached() bool { return ms.thresholdReached }

package engine

import (
	"strconv"
	"time"

	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/domain/rules"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/events"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/platform/logger"
)

// AlertPayload describes the escalation moment.
type AlertPayload struct {
	MischiefValue int `json:"mischief_value"`
	TriggerValue  int `json:"trigger_value"`
	Threshold     int `json:"threshold"`
}

// AlertSystem derives the irreversible salon-wide alert from the mischief
// ledger. Once active it never deactivates for the rest of the match;
// mischief has no decreasing mechanic, so re-evaluation can only confirm it.
type AlertSystem struct {
	eventLog *events.EventLog
	logger   *logger.Logger
	clock    *simClock

	offsetPoints int
	bonus        float64
	active       bool
}

// NewAlertSystem creates the escalation tracker.
func NewAlertSystem(eventLog *events.EventLog, log *logger.Logger, clock *simClock, offsetPoints int, speedBonus float64) *AlertSystem {
	return &AlertSystem{
		eventLog:     eventLog,
		logger:       log,
		clock:        clock,
		offsetPoints: offsetPoints,
		bonus:        speedBonus,
	}
}

// CheckCondition activates the alert once mischief comes within the offset
// of the threshold. One-way: subsequent calls are no-ops.
func (as *AlertSystem) CheckCondition(mischiefValue int, threshold int) {
	if as.active {
		return
	}
	trigger := rules.AlertTriggerValue(threshold, as.offsetPoints)
	if mischiefValue < trigger {
		return
	}

	as.active = true
	as.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeAlertStarted,
		ActorID:   "SYSTEM_SALON",
		Tick:      as.clock.now(),
		Payload:   AlertPayload{MischiefValue: mischiefValue, TriggerValue: trigger, Threshold: threshold},
	})
	as.logger.Event("ALERT_STARTED", "SALON", "Mischief "+strconv.Itoa(mischiefValue)+" reached trigger "+strconv.Itoa(trigger))
}

// Restore reinstates a previously active alert after a restart, without
// re-emitting the activation event.
func (as *AlertSystem) Restore(active bool) {
	if active && !as.active {
		as.active = true
		as.logger.Info("Alert state restored: active")
	}
}

// IsActive reports the alert state.
func (as *AlertSystem) IsActive() bool { return as.active }

// SpeedMultiplier returns the groomer bonus factor: 1+bonus while the alert
// is active, 1.0 otherwise.
func (as *AlertSystem) SpeedMultiplier() float64 {
	if as.active {
		return 1.0 + as.bonus
	}
	return 1.0
}

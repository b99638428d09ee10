package engine

import (
	"context"
	"time"

	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/events"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/platform/logger"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/platform/metrics"
)

// TickRate is the real-time cadence of the simulation loop.
const TickRate = 100 * time.Millisecond

// SimDt is the simulated seconds advanced per tick. The rules engine only
// ever sees this fixed delta, keeping outcomes frame-rate independent.
const SimDt = 0.1

// heartbeatEvery controls how often a TIME_TICK event reaches the log
// (once per simulated second; every tick would drown the spectators).
const heartbeatEvery = 10

// TimeTickPayload is the data attached to each heartbeat event.
type TimeTickPayload struct {
	Tick          int64   `json:"tick"`
	MatchSeconds  float64 `json:"match_seconds"`
	MischiefValue int     `json:"mischief_value"`
	AlertActive   bool    `json:"alert_active"`
}

// Ticker drives the engine at a fixed cadence. It knows nothing about pets
// or mischief, only time progression.
type Ticker struct {
	engine   *Engine
	eventLog *events.EventLog
	logger   *logger.Logger
	elapsed  float64
	stopChan chan struct{}
}

// NewTicker creates the match clock.
func NewTicker(eng *Engine, eventLog *events.EventLog, log *logger.Logger) *Ticker {
	return &Ticker{
		engine:   eng,
		eventLog: eventLog,
		logger:   log,
		stopChan: make(chan struct{}),
	}
}

// Start begins the loop. Call in a goroutine.
func (t *Ticker) Start(ctx context.Context) {
	t.logger.Info("Engine Ticker started. The salon is open...")

	ticker := time.NewTicker(TickRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("Engine Ticker stopped by context.")
			return
		case <-t.stopChan:
			t.logger.Info("Engine Ticker stopped manually.")
			return
		case <-ticker.C:
			t.tick()
		}
	}
}

// Stop gracefully stops the ticker.
func (t *Ticker) Stop() {
	close(t.stopChan)
}

func (t *Ticker) tick() {
	start := time.Now()
	t.engine.Tick(SimDt)
	t.elapsed += SimDt
	metrics.Get().RecordTick(time.Since(start))

	match := t.engine.MatchView()
	if match.Tick%heartbeatEvery != 0 {
		return
	}

	t.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeTimeTick,
		ActorID:   "SYSTEM_SALON",
		Tick:      match.Tick,
		Payload: TimeTickPayload{
			Tick:          match.Tick,
			MatchSeconds:  t.elapsed,
			MischiefValue: match.MischiefValue,
			AlertActive:   match.AlertActive,
		},
	})
}

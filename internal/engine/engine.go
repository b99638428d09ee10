package engine

import (
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/domain/groomer"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/domain/pet"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/domain/rules"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/events"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/platform/config"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/platform/logger"
)

// Engine is the central orchestrator wiring the event log to the rules
// systems. The simulation itself is single-threaded and tick-driven; the
// mutex only serializes externally-delivered operations (WebSocket, HTTP)
// against the tick loop.
type Engine struct {
	mu       sync.Mutex
	eventLog *events.EventLog
	logger   *logger.Logger
	tunables config.Tunables
	clock    *simClock
	rng      *rand.Rand

	// Sub-systems
	effects  *EffectSystem
	behavior *BehaviorSystem
	capture  *CaptureSystem
	grooming *GroomingSystem
	mischief *MischiefSystem
	alert    *AlertSystem
	cages    *CageSystem

	// State
	pets    map[string]*pet.Pet
	order   []string
	grmr    *groomer.Groomer
	match   MatchConfig
	started bool
}

// NewEngine initializes the core game systems and dependencies.
// A zero seed derives one from the clock; any other value makes every
// struggle roll of the match reproducible.
func NewEngine(eventLog *events.EventLog, log *logger.Logger, tun config.Tunables) *Engine {
	seed := tun.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	clock := &simClock{}
	rng := rand.New(rand.NewSource(seed))

	effects := NewEffectSystem(eventLog, log, clock)
	alert := NewAlertSystem(eventLog, log, clock, tun.AlertOffset, tun.AlertSpeedBonus)
	mischief := NewMischiefSystem(eventLog, log, clock, alert, tun.ShelfItemMischief, tun.CleaningCartMischief, tun.SkillHitMischief)
	grooming := NewGroomingSystem(eventLog, log, clock, tun.ReductionPerStep)
	capture := NewCaptureSystem(eventLog, log, clock, effects, tun.CaptureRange)
	cages := NewCageSystem(eventLog, log, clock, effects, tun.CageMaxStorageSeconds, tun.CageWarningSeconds, tun.ReleaseInvulnSeconds)
	behavior := NewBehaviorSystem(eventLog, log, clock, effects, grooming, rng, BehaviorConfig{
		StruggleInterval:   tun.StruggleInterval,
		FleeDetectionRange: tun.FleeDetectionRange,
		TeleportDistance:   tun.TeleportDistance,
		WanderWaitSeconds:  tun.WanderWaitSeconds,
		WanderMoveSeconds:  tun.WanderMoveSeconds,
		Bounds: rules.Bounds{
			MinX: tun.BoundsMinX, MaxX: tun.BoundsMaxX,
			MinZ: tun.BoundsMinZ, MaxZ: tun.BoundsMaxZ,
		},
	})

	return &Engine{
		eventLog: eventLog,
		logger:   log,
		tunables: tun,
		clock:    clock,
		rng:      rng,
		effects:  effects,
		behavior: behavior,
		capture:  capture,
		grooming: grooming,
		mischief: mischief,
		alert:    alert,
		cages:    cages,
		pets:     make(map[string]*pet.Pet),
	}
}

// ConfigureMatch fixes the game mode. Must be called before StartMatch and
// never again afterwards.
func (e *Engine) ConfigureMatch(mode Mode) MatchConfig {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		e.logger.Error("INVARIANT VIOLATION: ConfigureMatch after match start ignored")
		return e.match
	}
	e.match = ConfigForMode(mode)
	e.mischief.SetThreshold(e.match.PetCount)
	return e.match
}

// RegisterGroomer wires the single capturing player into all systems.
func (e *Engine) RegisterGroomer(g *groomer.Groomer) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.grmr = g
	e.behavior.SetGroomer(g)
	e.grooming.SetGroomer(g)
	e.cages.SetGroomer(g)
	e.logger.Info("Groomer registered with engine sub-systems: " + g.ID)
}

// RegisterPet adds a pet to all relevant subsystems.
func (e *Engine) RegisterPet(p *pet.Pet) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.pets[p.ID]; ok {
		return
	}
	e.pets[p.ID] = p
	e.order = append(e.order, p.ID)
	e.behavior.RegisterPet(p)
	e.cages.RegisterPet(p)

	e.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypePetSpawned,
		TargetID:  p.ID,
		Tick:      e.clock.now(),
		Payload:   map[string]string{"pet_id": p.ID, "species": string(p.Species)},
	})
	e.logger.Info("Pet registered with engine sub-systems: " + p.ID)
}

// AddCage registers a containment unit.
func (e *Engine) AddCage(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cages.AddCage(id)
}

// SetOpennessProbe wires the movement collaborator's terrain query.
func (e *Engine) SetOpennessProbe(probe rules.OpennessProbe) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.behavior.SetOpennessProbe(probe)
}

// StartMatch seals the configuration and emits the opening event.
func (e *Engine) StartMatch() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return
	}
	e.started = true
	e.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeMatchStarted,
		ActorID:   "SYSTEM_SALON",
		Tick:      e.clock.now(),
		Payload:   e.match,
	})
	e.logger.Info("Match started: mode " + string(e.match.Mode))
}

// RestoreTick resets the simulation clock after a restart. Only valid
// before StartMatch.
func (e *Engine) RestoreTick(tick int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		e.logger.Error("INVARIANT VIOLATION: RestoreTick after match start ignored")
		return
	}
	e.clock.tick = tick
	e.logger.Info("Simulation clock restored to tick " + strconv.FormatInt(tick, 10))
}

// RestoreMatchState reinstates the reconstructed ledger and alert after a
// restart. Only valid before StartMatch.
func (e *Engine) RestoreMatchState(mischiefValue int, thresholdReached bool, alertActive bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		e.logger.Error("INVARIANT VIOLATION: RestoreMatchState after match start ignored")
		return
	}
	e.mischief.Restore(mischiefValue, thresholdReached)
	e.alert.Restore(alertActive)
}

// Tick advances the simulation by dt seconds. Order matters: all timers run
// before any state-dependent decision, so boundary expiries count as expired.
func (e *Engine) Tick(dt float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.clock.tick++
	e.effects.Tick(dt)
	e.cages.Tick(dt)
	e.behavior.Tick(dt)
}

// TryCapture resolves a capture attempt by the groomer against a pet ID.
func (e *Engine) TryCapture(petID string) CaptureResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.grmr == nil {
		e.logger.Error("INVARIANT VIOLATION: TryCapture with no groomer registered")
		return CaptureRejectedNoCandidate
	}
	result := e.capture.TryCapture(e.grmr, e.pets[petID])
	if result == CaptureSuccess {
		e.behavior.ResetStruggle(petID)
	}
	return result
}

// StartGrooming begins the minigame on a captured pet.
func (e *Engine) StartGrooming(petID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.grooming.Start(e.pets[petID])
}

// AdvanceGrooming feeds one step input to the minigame.
func (e *Engine) AdvanceGrooming(petID string, input Step) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.pets[petID]
	if !ok {
		e.logger.Warn("AdvanceGrooming for unknown pet " + petID)
		return false
	}
	return e.grooming.Advance(p, input)
}

// CancelGrooming aborts the minigame, releasing the station.
func (e *Engine) CancelGrooming(petID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.pets[petID]
	if !ok {
		return false
	}
	return e.grooming.Cancel(p, "CANCELLED")
}

// Mischief entry points. The engine applies the caged filter here; the
// ledger itself never knows which actor caused an add.

func (e *Engine) AddShelfItemMischief(actorID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cagedActor(actorID) {
		return false
	}
	e.emitKnock(actorID, "SHELF_ITEM")
	return e.mischief.AddShelfItem(actorID)
}

func (e *Engine) AddCleaningCartMischief(actorID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cagedActor(actorID) {
		return false
	}
	e.emitKnock(actorID, "CLEANING_CART")
	return e.mischief.AddCleaningCart(actorID)
}

func (e *Engine) AddPetSkillHitMischief(actorID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cagedActor(actorID) {
		return false
	}
	e.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeSkillHit,
		ActorID:   actorID,
		Tick:      e.clock.now(),
		Payload:   map[string]string{"pet_id": actorID},
	})
	return e.mischief.AddSkillHit(actorID)
}

func (e *Engine) cagedActor(actorID string) bool {
	if p, ok := e.pets[actorID]; ok && p.IsCaged {
		e.logger.Warn("Mischief from caged pet " + actorID + " filtered out")
		return true
	}
	return false
}

func (e *Engine) emitKnock(actorID, objectType string) {
	e.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeObjectKnocked,
		ActorID:   actorID,
		Tick:      e.clock.now(),
		Payload:   map[string]string{"object_type": objectType},
	})
}

// StorePet places a pet into a cage.
func (e *Engine) StorePet(cageID, petID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cages.Store(cageID, e.pets[petID])
}

// ReleaseCage manually frees a cage's occupant.
func (e *Engine) ReleaseCage(cageID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cages.Release(cageID, true)
}

// Position inputs from the movement collaborator.

func (e *Engine) UpdateGroomerPosition(pos rules.Vec3) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.grmr != nil {
		e.grmr.Position = pos
	}
}

func (e *Engine) UpdatePetPosition(petID string, pos rules.Vec3) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p, ok := e.pets[petID]; ok && !p.IsRestrained() && !p.IsCaged {
		p.Position = pos
	}
}

// ReachedWanderTarget forwards the movement layer's arrival notice.
func (e *Engine) ReachedWanderTarget(petID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.behavior.ReachedWanderTarget(petID)
}

// Derived outputs consumed by the movement/rendering collaborators.

// PetMoveSpeed returns the species speed scaled by active effects.
func (e *Engine) PetMoveSpeed(petID string) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.pets[petID]
	if !ok {
		return 0
	}
	if e.effects.IsStunned(petID) {
		return 0
	}
	return p.Attributes().MoveSpeed * e.effects.SpeedMultiplier(petID)
}

// GroomerMoveSpeed returns the groomer speed with carry penalty, alert bonus
// and effect multiplier applied.
func (e *Engine) GroomerMoveSpeed() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.grmr == nil {
		return 0
	}
	base := e.grmr.MoveSpeed(e.alert.IsActive(), e.tunables.CarrySpeedFactor, e.tunables.AlertSpeedBonus)
	return base * e.effects.SpeedMultiplier(e.grmr.ID)
}

// PetOpacity returns the render opacity for a pet.
func (e *Engine) PetOpacity(petID string, moving bool) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.effects.Opacity(petID, moving)
}

// Accessors
//
// These hand out live pointers into the simulation and take no lock. They
// are only safe from the goroutine driving Tick (the match loop, or a
// single-threaded test harness). Concurrent readers use the view methods
// in snapshot.go instead.

// Pets returns the live pet map.
func (e *Engine) Pets() map[string]*pet.Pet { return e.pets }

// PetOrder returns pet IDs in registration order.
func (e *Engine) PetOrder() []string { return e.order }

// Groomer returns the capturing player.
func (e *Engine) Groomer() *groomer.Groomer { return e.grmr }

// Mischief exposes the ledger for API endpoints.
func (e *Engine) Mischief() *MischiefSystem { return e.mischief }

// Alert exposes the escalation tracker.
func (e *Engine) Alert() *AlertSystem { return e.alert }

// Effects exposes the status-effect tracker.
func (e *Engine) Effects() *EffectSystem { return e.effects }

// CageUnits exposes the containment system.
func (e *Engine) CageUnits() *CageSystem { return e.cages }

// Grooming exposes the minigame state machine.
func (e *Engine) Grooming() *GroomingSystem { return e.grooming }

// EventLog exposes the event log for clients to inject actions.
func (e *Engine) EventLog() *events.EventLog { return e.eventLog }

// Match returns the sealed configuration.
func (e *Engine) Match() MatchConfig { return e.match }

// CurrentTick returns the simulation tick counter. Unlike the accessors
// above it locks, so any goroutine may call it.
func (e *Engine) CurrentTick() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clock.now()
}

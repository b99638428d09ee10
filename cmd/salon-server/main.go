// Package main is the entry point for the Salón de Mascotas game server.
// It only handles dependency injection and server initialization.
// NO business logic belongs here.
package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/director"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/domain/groomer"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/domain/pet"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/engine"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/events"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/infra/cache"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/infra/storage"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/network"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/platform/config"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/platform/logger"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/platform/metrics"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/platform/optimization"
)

const matchID = "MATCH_1" // Default singleton match ID

// EventPersisterAdapter translates domain events to storage events for
// whichever EventRepository backs the ledger.
type EventPersisterAdapter struct {
	repo storage.EventRepository
}

func (a *EventPersisterAdapter) Append(event events.GameEvent) error {
	payloadBytes, _ := json.Marshal(event.Payload)
	var payloadMap map[string]interface{}
	json.Unmarshal(payloadBytes, &payloadMap)

	storageEvent := storage.GameEvent{
		ID:        event.ID,
		MatchID:   matchID,
		Timestamp: event.Timestamp,
		EventType: string(event.Type),
		ActorID:   event.ActorID,
		TargetID:  event.TargetID,
		Payload:   payloadMap,
		Tick:      event.Tick,
	}
	return a.repo.Append(context.Background(), storageEvent)
}

func snapshotOf(v engine.PetView) storage.PetSnapshot {
	return storage.PetSnapshot{
		PetID:         v.ID,
		MatchID:       matchID,
		Name:          v.Name,
		Species:       v.Species,
		State:         v.State,
		IsGroomed:     v.IsGroomed,
		IsCaged:       v.IsCaged,
		GroomingSteps: v.GroomingSteps,
		PosX:          v.Position.X,
		PosZ:          v.Position.Z,
	}
}

func bootstrapPets(ctx context.Context, repo *storage.SQLiteSnapshotRepository, eng *engine.Engine, mode engine.Mode, appLogger *logger.Logger) {
	appLogger.Info("Checking DB for existing pets...")
	snaps, err := repo.GetByMatchID(ctx, matchID)
	if err != nil {
		appLogger.Error("Failed to query DB for pets: " + err.Error())
		return
	}

	if len(snaps) == 0 {
		appLogger.Info("Database empty. Seeding initial pets...")
		starters := []*pet.Pet{
			pet.NewPet("PET_001", "Michi", pet.SpeciesCat),
			pet.NewPet("PET_002", "Firulais", pet.SpeciesDog),
		}
		if mode == engine.ModeTrio {
			starters = append(starters, pet.NewPet("PET_003", "Pelusa", pet.SpeciesCat))
		}
		for _, p := range starters {
			p.IsAIControlled = true // server-driven until a player takes over
			eng.RegisterPet(p)
		}
		for _, v := range eng.PetViews() {
			repo.Upsert(ctx, snapshotOf(v))
		}
	} else {
		appLogger.Info("Reconstructing pets from SQLite state...")
		for _, snap := range snaps {
			p := pet.NewPet(snap.PetID, snap.Name, pet.Species(snap.Species))
			p.State = pet.State(snap.State)
			p.IsGroomed = snap.IsGroomed
			p.IsCaged = snap.IsCaged
			p.GroomingStepsCompleted = snap.GroomingSteps
			p.Position.X = snap.PosX
			p.Position.Z = snap.PosZ
			p.IsAIControlled = true
			eng.RegisterPet(p)
		}
	}
}

func main() {
	log.Println("[SALON-SERVER] Initializing 'Salón de Mascotas' Authoritative Server...")

	appLogger := logger.NewLogger()

	tunables := config.Load(".", appLogger)

	optCfg := optimization.DefaultConfig()
	if os.Getenv("SALON_STRESS") == "true" {
		optCfg = optimization.StressTestConfig()
	}

	appLogger.Info("Initializing SQLite database 'salon.db'...")
	db, err := storage.InitSQLite("salon.db")
	if err != nil {
		appLogger.Error("Failed to initialize SQLite: " + err.Error())
		os.Exit(1)
	}
	db.SetMaxOpenConns(optCfg.DBMaxOpenConns)
	db.SetMaxIdleConns(optCfg.DBMaxIdleConns)

	// Shared-server deployments keep the ledger in PostgreSQL; pets and the
	// simulation clock stay in the local SQLite file either way.
	eventRepo := storage.EventRepository(storage.NewSQLiteEventRepository(db))
	if dsn := os.Getenv("SALON_PG_DSN"); dsn != "" {
		pgDB, err := storage.InitPostgres(dsn)
		if err != nil {
			appLogger.Warn("PostgreSQL unreachable, event ledger stays on SQLite: " + err.Error())
		} else {
			appLogger.Info("Event ledger backed by PostgreSQL")
			pgDB.SetMaxOpenConns(optCfg.DBMaxOpenConns)
			pgDB.SetMaxIdleConns(optCfg.DBMaxIdleConns)
			eventRepo = storage.NewPostgresEventRepository(pgDB)
		}
	}
	eventPersister := &EventPersisterAdapter{repo: eventRepo}

	appLogger.Info("Bootstrapping EventLog...")
	eventLog := events.NewEventLog(eventPersister)

	appLogger.Info("Bootstrapping Engine Subsystems...")
	gameEngine := engine.NewEngine(eventLog, appLogger, tunables)

	mode := engine.ModeTrio
	if os.Getenv("SALON_MODE") == string(engine.ModeDuo) {
		mode = engine.ModeDuo
	}
	match := gameEngine.ConfigureMatch(mode)
	appLogger.Info("Match configured: " + string(match.Mode) + " threshold " + strconv.Itoa(match.MischiefThreshold))

	gameEngine.RegisterGroomer(groomer.NewGroomer("GROOMER_1", "Rosita", tunables.GroomerBaseSpeed))
	for i := 0; i < match.PetCount; i++ {
		gameEngine.AddCage("CAGE_" + strconv.Itoa(i+1))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapRepo := storage.NewSQLiteSnapshotRepository(db)
	bootstrapPets(ctx, snapRepo, gameEngine, mode, appLogger)

	// Rebuild the shared match state from the event log (state = f(events))
	if rebuilt, err := storage.NewReconstructor(eventRepo).RebuildMatchState(ctx, matchID); err == nil && rebuilt.MischiefValue > 0 {
		gameEngine.RestoreMatchState(rebuilt.MischiefValue, rebuilt.ThresholdReached, rebuilt.AlertActive)
	}

	// Attempt to recover the last known simulation clock state
	var tickPayloadStr string
	err = db.QueryRowContext(ctx, "SELECT payload FROM events WHERE match_id = ? AND event_type = ? ORDER BY tick DESC LIMIT 1", matchID, events.EventTypeTimeTick).Scan(&tickPayloadStr)
	if err == nil {
		var tickPayload engine.TimeTickPayload
		if err := json.Unmarshal([]byte(tickPayloadStr), &tickPayload); err == nil {
			gameEngine.RestoreTick(tickPayload.Tick)
		}
	}

	gameEngine.StartMatch()

	ticker := engine.NewTicker(gameEngine, eventLog, appLogger)
	go ticker.Start(ctx)

	// Optional redis mirror: spectator-facing services read pet state from
	// the cache without touching SQLite or the engine.
	var petCache *cache.PetCache
	if addr := os.Getenv("SALON_REDIS_ADDR"); addr != "" {
		redisClient, err := cache.NewGoRedisClient(ctx, addr, optCfg.RedisPoolSize)
		if err != nil {
			appLogger.Warn("Redis unreachable at " + addr + ", snapshot mirror disabled: " + err.Error())
		} else {
			appLogger.Info("Redis snapshot mirror enabled at " + addr)
			petCache = cache.NewPetCache(redisClient)
		}
	}

	// Automated State Backup Routine
	go func() {
		backupTicker := time.NewTicker(5 * time.Second)
		defer backupTicker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-backupTicker.C:
				views := gameEngine.PetViews()
				for _, v := range views {
					_ = snapRepo.Upsert(ctx, snapshotOf(v))
				}
				if petCache == nil {
					continue
				}
				states := make(map[string]cache.PetState, len(views))
				for _, v := range views {
					states[v.ID] = cache.PetState{
						PetID:         v.ID,
						Name:          v.Name,
						Species:       v.Species,
						State:         v.State,
						IsGroomed:     v.IsGroomed,
						IsCaged:       v.IsCaged,
						GroomingSteps: v.GroomingSteps,
						PosX:          v.Position.X,
						PosZ:          v.Position.Z,
						LastSync:      time.Now().Unix(),
					}
				}
				if err := petCache.SetMatchState(ctx, matchID, states); err != nil {
					appLogger.Warn("Redis snapshot mirror write failed: " + err.Error())
				}
			}
		}
	}()

	appLogger.Info("Bootstrapping WebSocket Hub...")
	hub := network.NewHub(gameEngine, appLogger, optCfg)
	go hub.Run(ctx)
	hub.StartEventPoller(ctx, eventLog)

	appLogger.Info("Bootstrapping AI Director for unclaimed pets...")
	aiDirector := director.NewDirector(gameEngine, appLogger)
	go aiDirector.Start(ctx)

	// Setup API Routes
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(hub, w, r, appLogger)
	})

	spectator := network.NewSpectatorBridge(gameEngine, eventLog, hub, appLogger)
	spectator.RegisterRoutes(mux)

	replay, err := network.NewReplayHandler(eventLog, appLogger)
	if err != nil {
		appLogger.Error("Failed to initialize replay handler: " + err.Error())
		os.Exit(1)
	}
	replay.RegisterRoutes(mux)

	mux.HandleFunc("/metrics", metrics.Handler())
	mux.HandleFunc("/metrics/prometheus", metrics.PrometheusHandler())

	go func() {
		log.Println("[SALON-SERVER] HTTP API & WS Server listening on :8080")
		if err := http.ListenAndServe(":8080", mux); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	log.Println("[SALON-SERVER] Server running. Press Ctrl+C to exit.")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[SALON-SERVER] Shutting down...")
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow cross-origin requests for the Unity dev client
	},
}

// serveWs handles websocket requests from the peer.
func serveWs(hub *network.Hub, w http.ResponseWriter, r *http.Request, log *logger.Logger) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("Failed to upgrade websocket connection")
		return
	}

	client := network.NewClient(hub, conn)
	client.Register()

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.WritePump()
	go client.ReadPump()
}

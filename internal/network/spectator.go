// Package network - spectator.go
// REST API for the spectator companion app: live standings and a
// non-intrusive cheer channel. Spectators observe, they never touch
// the rules engine.
package network

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/engine"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/events"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/platform/logger"
)

// SpectatorBridge handles companion app interactions.
type SpectatorBridge struct {
	engine   *engine.Engine
	eventLog *events.EventLog
	wsHub    *Hub
	logger   *logger.Logger
}

// NewSpectatorBridge creates a new spectator interaction handler.
func NewSpectatorBridge(eng *engine.Engine, el *events.EventLog, hub *Hub, log *logger.Logger) *SpectatorBridge {
	return &SpectatorBridge{
		engine:   eng,
		eventLog: el,
		wsHub:    hub,
		logger:   log,
	}
}

// PetStanding is the public view of one pet.
type PetStanding struct {
	PetID         string `json:"pet_id"`
	Name          string `json:"name"`
	Species       string `json:"species"`
	State         string `json:"state"`
	IsGroomed     bool   `json:"is_groomed"`
	IsCaged       bool   `json:"is_caged"`
	GroomingSteps int    `json:"grooming_steps"`
}

// CheerRequest is the payload for a spectator cheer.
type CheerRequest struct {
	SpectatorID string `json:"spectator_id"`
	Side        string `json:"side"` // "GROOMER" or "PETS"
	Message     string `json:"message"`
}

// HandleStandings returns the current score view.
// GET /api/spectator/standings
func (sb *SpectatorBridge) HandleStandings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sb.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var pets []PetStanding
	for _, v := range sb.engine.PetViews() {
		pets = append(pets, PetStanding{
			PetID:         v.ID,
			Name:          v.Name,
			Species:       v.Species,
			State:         v.State,
			IsGroomed:     v.IsGroomed,
			IsCaged:       v.IsCaged,
			GroomingSteps: v.GroomingSteps,
		})
	}

	match := sb.engine.MatchView()
	sb.jsonSuccess(w, map[string]interface{}{
		"mode":               match.Mode,
		"tick":               match.Tick,
		"mischief_value":     match.MischiefValue,
		"mischief_threshold": match.MischiefThreshold,
		"alert_active":       match.AlertActive,
		"match_over":         match.ThresholdReached,
		"pets":               pets,
		"timestamp":          time.Now().Unix(),
	})
}

// HandleStatus returns connection-level info for the lobby screen.
// GET /api/spectator/status
func (sb *SpectatorBridge) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sb.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sb.jsonSuccess(w, map[string]interface{}{
		"connected_clients": sb.wsHub.ClientCount(),
		"events_logged":     sb.eventLog.Len(),
		"tick":              sb.engine.CurrentTick(),
		"timestamp":         time.Now().Unix(),
	})
}

// HandleCheer broadcasts a spectator cheer to connected players.
// Purely cosmetic: it never reaches the rules engine.
// POST /api/spectator/cheer
func (sb *SpectatorBridge) HandleCheer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sb.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req CheerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sb.jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Side != "GROOMER" && req.Side != "PETS" {
		sb.jsonError(w, "side must be GROOMER or PETS", http.StatusBadRequest)
		return
	}

	sb.logger.Event("SPECTATOR_CHEER", req.SpectatorID, "Side:"+req.Side)

	payload, err := json.Marshal(map[string]interface{}{
		"event_type": "SPECTATOR_CHEER",
		"side":       req.Side,
		"message":    req.Message,
		"timestamp":  time.Now().Unix(),
	})
	if err == nil {
		sb.wsHub.broadcast <- payload
	}

	sb.jsonSuccess(w, map[string]interface{}{
		"success": true,
		"side":    req.Side,
	})
}

// RegisterRoutes sets up the spectator API routes.
func (sb *SpectatorBridge) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/spectator/standings", sb.HandleStandings)
	mux.HandleFunc("/api/spectator/status", sb.HandleStatus)
	mux.HandleFunc("/api/spectator/cheer", sb.HandleCheer)
}

// jsonError sends an error response.
func (sb *SpectatorBridge) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// jsonSuccess sends a success response.
func (sb *SpectatorBridge) jsonSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(data)
}

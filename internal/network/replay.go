// Package network - replay.go
// Replay endpoint - paged JSON export of the match history.
//
// Spectators and moderators scrub through the immutable event log here.
// Because the log is append-only, a fully-filled page never changes, so
// completed pages are kept in a small LRU cache.
package network

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/events"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/platform/logger"
)

// pageSize is fixed so cached pages stay valid as the log grows.
const pageSize = 100

// cachedPages bounds the memory spent on replay pages.
const cachedPages = 64

// ReplayHandler provides the match replay API.
type ReplayHandler struct {
	eventLog *events.EventLog
	logger   *logger.Logger
	pages    *lru.Cache[int, []ReplayEvent]
}

// NewReplayHandler creates a new replay handler.
func NewReplayHandler(el *events.EventLog, log *logger.Logger) (*ReplayHandler, error) {
	pages, err := lru.New[int, []ReplayEvent](cachedPages)
	if err != nil {
		return nil, err
	}
	return &ReplayHandler{
		eventLog: el,
		logger:   log,
		pages:    pages,
	}, nil
}

// ReplayEvent is a sanitized event for public viewing.
type ReplayEvent struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Tick      int64  `json:"tick"`
	Type      string `json:"type"`
	ActorName string `json:"actor_name"`
	TargetID  string `json:"target_id,omitempty"`
	Summary   string `json:"summary"`
	Impact    string `json:"impact"`
}

// ReplayResponse is the API response for the replay viewer.
type ReplayResponse struct {
	Page        int           `json:"page"`
	PageSize    int           `json:"page_size"`
	TotalEvents int           `json:"total_events"`
	TotalPages  int           `json:"total_pages"`
	GeneratedAt string        `json:"generated_at"`
	Events      []ReplayEvent `json:"events"`
}

// HandleReplay returns one page of the match replay.
// GET /api/replay?page=N
func (rh *ReplayHandler) HandleReplay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		rh.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	page := 0
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		p, err := strconv.Atoi(pageStr)
		if err != nil || p < 0 {
			rh.jsonError(w, "Invalid page", http.StatusBadRequest)
			return
		}
		page = p
	}

	total := rh.eventLog.Len()
	totalPages := (total + pageSize - 1) / pageSize

	response := ReplayResponse{
		Page:        page,
		PageSize:    pageSize,
		TotalEvents: total,
		TotalPages:  totalPages,
		GeneratedAt: time.Now().Format(time.RFC3339),
		Events:      rh.page(page, total),
	}

	rh.logger.Event("REPLAY_PAGE", "SPECTATOR", "Page:"+strconv.Itoa(page)+" Events:"+strconv.Itoa(len(response.Events)))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// page returns the events of one page, serving completed pages from cache.
func (rh *ReplayHandler) page(page, total int) []ReplayEvent {
	start := page * pageSize
	if start >= total {
		return nil
	}
	end := start + pageSize
	full := end <= total
	if !full {
		end = total
	}

	if full {
		if cached, ok := rh.pages.Get(page); ok {
			return cached
		}
	}

	all := rh.eventLog.Replay()
	out := make([]ReplayEvent, 0, end-start)
	for _, e := range all[start:end] {
		out = append(out, rh.convertToReplayEvent(e))
	}

	if full {
		rh.pages.Add(page, out)
	}
	return out
}

// HandleEventDetail returns details of a specific event.
// GET /api/replay/event?event_id=XXX
func (rh *ReplayHandler) HandleEventDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		rh.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	eventID := r.URL.Query().Get("event_id")
	if eventID == "" {
		rh.jsonError(w, "Missing event_id", http.StatusBadRequest)
		return
	}

	for _, e := range rh.eventLog.Replay() {
		if e.ID == eventID {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(rh.convertToReplayEvent(e))
			return
		}
	}

	rh.jsonError(w, "Event not found", http.StatusNotFound)
}

// HandleStats returns aggregate statistics for the replay viewer.
// GET /api/replay/stats
func (rh *ReplayHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		rh.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	allEvents := rh.eventLog.Replay()

	stats := map[string]int{
		"total_events":     len(allEvents),
		"captures":         0,
		"escapes":          0,
		"grooms_completed": 0,
		"mischief_changes": 0,
		"cage_stores":      0,
	}

	for _, e := range allEvents {
		switch e.Type {
		case events.EventTypePetCaptured:
			stats["captures"]++
		case events.EventTypePetEscaped:
			stats["escapes"]++
		case events.EventTypeGroomComplete:
			stats["grooms_completed"]++
		case events.EventTypeMischiefChanged:
			stats["mischief_changes"]++
		case events.EventTypeCageStored:
			stats["cage_stores"]++
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"generated_at": time.Now().Format(time.RFC3339),
		"stats":        stats,
	})
}

// RegisterRoutes sets up the replay API routes.
func (rh *ReplayHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/replay", rh.HandleReplay)
	mux.HandleFunc("/api/replay/event", rh.HandleEventDetail)
	mux.HandleFunc("/api/replay/stats", rh.HandleStats)
}

// convertToReplayEvent transforms an internal event to public format.
func (rh *ReplayHandler) convertToReplayEvent(e events.GameEvent) ReplayEvent {
	actorName := e.ActorID
	if e.ActorID == "SYSTEM_SALON" {
		actorName = "El Salón"
	}

	return ReplayEvent{
		ID:        e.ID,
		Timestamp: e.Timestamp.Format("15:04:05"),
		Tick:      e.Tick,
		Type:      string(e.Type),
		ActorName: actorName,
		TargetID:  e.TargetID,
		Summary:   rh.summarizeEvent(e),
		Impact:    rh.determineImpact(e),
	}
}

// summarizeEvent creates a human-readable summary.
func (rh *ReplayHandler) summarizeEvent(e events.GameEvent) string {
	switch e.Type {
	case events.EventTypePetCaptured:
		return "¡La peluquera atrapó a una mascota!"
	case events.EventTypePetEscaped:
		return "Una mascota se escapó."
	case events.EventTypeGroomComplete:
		return "Una mascota quedó perfectamente arreglada."
	case events.EventTypeMischiefChanged:
		return "Más caos en el salón."
	case events.EventTypeAlertStarted:
		return "¡El salón entró en alerta!"
	case events.EventTypeMatchEnded:
		return "La partida terminó."
	case events.EventTypeTimeTick:
		return "El tiempo avanzó en el salón."
	default:
		return "Algo ocurrió..."
	}
}

// determineImpact classifies which side the event favors.
func (rh *ReplayHandler) determineImpact(e events.GameEvent) string {
	switch e.Type {
	case events.EventTypePetCaptured, events.EventTypeGroomComplete, events.EventTypeCageStored, events.EventTypeAlertStarted:
		return "GROOMER"
	case events.EventTypePetEscaped, events.EventTypeMischiefChanged, events.EventTypeThresholdReached, events.EventTypeCageReleased:
		return "PETS"
	default:
		return "NEUTRAL"
	}
}

// jsonError sends an error response.
func (rh *ReplayHandler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

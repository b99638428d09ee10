package network

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/domain/rules"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/engine"
	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/platform/metrics"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 512
	// Minimum spacing between gameplay actions from one client.
	// Movement updates are exempt; they arrive every frame.
	minActionInterval = 100 * time.Millisecond
)

// PlayerAction represents an incoming command from the frontend.
type PlayerAction struct {
	Type    string          `json:"type"`     // "CAPTURE", "GROOM_STEP", "MOVE", etc.
	ActorID string          `json:"actor_id"` // Who triggered the action
	Payload json.RawMessage `json:"payload"`  // Action-specific data
}

// Client holds one WebSocket connection and its send queue.
type Client struct {
	hub            *Hub
	conn           *websocket.Conn
	send           chan []byte
	lastActionTime time.Time
}

// NewClient creates a new WebSocket client and returns it.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, hub.sendBuffer),
	}
}

// Register adds the client to the hub.
func (c *Client) Register() {
	c.hub.register <- c
}

// ReadPump pumps messages from the websocket connection to the engine.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error: %v", err)
			}
			break
		}
		metrics.Get().RecordWSMessage(true)

		var action PlayerAction
		if err := json.Unmarshal(message, &action); err != nil {
			c.hub.logger.Error("Failed to parse PlayerAction from WebSocket. err: " + err.Error())
			continue
		}

		c.handlePlayerAction(action)
	}
}

func (c *Client) handlePlayerAction(action PlayerAction) {
	// Movement streams continuously and skips the rate limiter.
	if action.Type == "MOVE" {
		c.handleMove(action)
		return
	}

	if time.Since(c.lastActionTime) < minActionInterval {
		c.hub.logger.Warn("Rate limit exceeded for client action from " + action.ActorID)
		return
	}
	c.lastActionTime = time.Now()

	eng := c.hub.engine

	switch action.Type {
	case "CAPTURE":
		c.handleCapture(action)
	case "GROOM_START":
		c.handleGroomStart(action)
	case "GROOM_STEP":
		c.handleGroomStep(action)
	case "GROOM_CANCEL":
		var target struct {
			PetID string `json:"pet_id"`
		}
		if err := json.Unmarshal(action.Payload, &target); err == nil {
			eng.CancelGrooming(target.PetID)
		}
	case "STORE_PET":
		c.handleStorePet(action)
	case "RELEASE_PET":
		var target struct {
			CageID string `json:"cage_id"`
		}
		if err := json.Unmarshal(action.Payload, &target); err == nil {
			eng.ReleaseCage(target.CageID)
		}
	case "KNOCK_SHELF":
		eng.AddShelfItemMischief(action.ActorID)
	case "KNOCK_CART":
		eng.AddCleaningCartMischief(action.ActorID)
	case "SKILL_HIT":
		eng.AddPetSkillHitMischief(action.ActorID)
	default:
		c.hub.logger.Warn("Unknown PlayerAction type: " + action.Type)
	}
}

func (c *Client) handleMove(action PlayerAction) {
	var parsed struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
		Z float64 `json:"z"`
	}
	if err := json.Unmarshal(action.Payload, &parsed); err != nil {
		return
	}
	pos := rules.Vec3{X: parsed.X, Y: parsed.Y, Z: parsed.Z}

	eng := c.hub.engine
	if g, ok := eng.GroomerView(); ok && g.ID == action.ActorID {
		eng.UpdateGroomerPosition(pos)
		return
	}
	eng.UpdatePetPosition(action.ActorID, pos)
}

func (c *Client) handleCapture(action PlayerAction) {
	var target struct {
		PetID string `json:"pet_id"`
	}
	if err := json.Unmarshal(action.Payload, &target); err != nil {
		c.hub.logger.Warn("Failed to parse capture payload from " + action.ActorID)
		return
	}

	result := c.hub.engine.TryCapture(target.PetID)
	metrics.Get().RecordCapture(result == engine.CaptureSuccess)
	c.hub.logger.Event("PLAYER_ACTION_CAPTURE", action.ActorID, "Target:"+target.PetID+" Result:"+string(result))
}

func (c *Client) handleGroomStart(action PlayerAction) {
	var target struct {
		PetID string `json:"pet_id"`
	}
	if err := json.Unmarshal(action.Payload, &target); err != nil {
		return
	}
	if c.hub.engine.StartGrooming(target.PetID) {
		c.hub.logger.Event("PLAYER_ACTION_GROOM_START", action.ActorID, "Pet:"+target.PetID)
	}
}

func (c *Client) handleGroomStep(action PlayerAction) {
	var parsed struct {
		PetID string `json:"pet_id"`
		Step  string `json:"step"` // "Brush", "Clean", "Dry"
	}
	if err := json.Unmarshal(action.Payload, &parsed); err != nil {
		return
	}
	if c.hub.engine.AdvanceGrooming(parsed.PetID, engine.Step(parsed.Step)) {
		if c.hub.engine.GroomingStep(parsed.PetID) == engine.StepComplete {
			metrics.Get().RecordGroomComplete()
		}
	}
}

func (c *Client) handleStorePet(action PlayerAction) {
	var parsed struct {
		CageID string `json:"cage_id"`
		PetID  string `json:"pet_id"`
	}
	if err := json.Unmarshal(action.Payload, &parsed); err != nil {
		return
	}
	if c.hub.engine.StorePet(parsed.CageID, parsed.PetID) {
		c.hub.logger.Event("PLAYER_ACTION_STORE", action.ActorID, "Pet:"+parsed.PetID+" Cage:"+parsed.CageID)
	}
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message.
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

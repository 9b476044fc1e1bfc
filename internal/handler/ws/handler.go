package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	roomservice "github.com/pairpad/backend/internal/service/room"
	"github.com/pairpad/backend/pkg/metrics"
)

// Handler binds websocket connections to rooms and relays events
// between members of the same room.
//
// mu serializes every lookup+mutate+fan-out sequence (join, content
// change, disconnect) as one step, so the store and the hub never
// disagree about which members see an update.
type Handler struct {
	mu       sync.Mutex
	roomSvc  *roomservice.Service
	hub      *hub
	upgrader websocket.Upgrader
}

// New creates the realtime handler.
func New(roomSvc *roomservice.Service) *Handler {
	return &Handler{
		roomSvc: roomSvc,
		hub:     newHub(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the websocket endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws", h.handleSocket)
}

func (h *Handler) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	c := newClient(uuid.NewString(), conn)
	log.Printf("[ws] user connected: %s", c.id)

	metrics.ActiveConnections.Inc()
	defer metrics.ActiveConnections.Dec()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go c.writeLoop(ctx)

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				log.Printf("[ws] read error: %v", err)
			}
			break
		}

		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		h.handleMessage(c, &msg)
	}

	h.handleDisconnect(c)
	log.Printf("[ws] user disconnected: %s", c.id)
}

func (h *Handler) handleMessage(c *client, msg *inboundMessage) {
	switch msg.Event {
	case "join-room":
		var roomID string
		if err := json.Unmarshal(msg.Data, &roomID); err != nil || roomID == "" {
			c.queue(outboundMessage{Event: "room-error", Data: map[string]string{"message": "roomId is required"}})
			return
		}
		h.handleJoin(c, roomID)

	case "code-change":
		var payload struct {
			RoomID string `json:"roomId"`
			Code   string `json:"code"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			return
		}
		h.handleCodeChange(c, payload.RoomID, payload.Code)

	case "cursor-change":
		var payload struct {
			RoomID   string          `json:"roomId"`
			Position json.RawMessage `json:"position"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			return
		}
		// Ephemeral presence signal; no room validation on purpose.
		h.hub.broadcast(payload.RoomID, c, outboundMessage{
			Event: "cursor-update",
			Data: map[string]interface{}{
				"userId":   c.id,
				"position": payload.Position,
			},
		})

	case "code-executed":
		var payload struct {
			RoomID    string          `json:"roomId"`
			Timestamp json.RawMessage `json:"timestamp"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			return
		}
		h.hub.broadcast(payload.RoomID, c, outboundMessage{
			Event: "execution-notification",
			Data: map[string]interface{}{
				"userId":    c.id,
				"timestamp": payload.Timestamp,
			},
		})

	default:
		log.Printf("[ws] unknown event %q from %s", msg.Event, c.id)
	}
}

func (h *Handler) handleJoin(c *client, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Rejoining the bound room only refreshes the requester's state;
	// binding to a different room detaches from the old one first,
	// with the usual leave bookkeeping.
	rejoin := c.roomID == roomID
	if c.roomID != "" && !rejoin {
		h.detachLocked(c)
	}

	content, count, err := h.roomSvc.Join(roomID, c.id)
	if err != nil {
		c.queue(outboundMessage{Event: "room-error", Data: map[string]string{"message": "Room does not exist"}})
		return
	}

	if !rejoin {
		h.hub.join(roomID, c)
		c.roomID = roomID
		log.Printf("[ws] user %s joined room %s", c.id, roomID)
	}

	c.queue(outboundMessage{Event: "load-code", Data: map[string]string{"code": content}})
	if !rejoin {
		h.hub.broadcast(roomID, c, outboundMessage{
			Event: "user-joined",
			Data:  map[string]int{"participantCount": count},
		})
	}
	c.queue(outboundMessage{Event: "room-info", Data: map[string]int{"participantCount": count}})
}

func (h *Handler) handleCodeChange(c *client, roomID, code string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// A change for a reclaimed or unknown room is dropped silently;
	// the sender has no room context to report into.
	if !h.roomSvc.SetContent(roomID, code) {
		return
	}
	h.hub.broadcast(roomID, c, outboundMessage{
		Event: "code-update",
		Data:  map[string]string{"code": code},
	})
}

func (h *Handler) handleDisconnect(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.detachLocked(c)
}

// detachLocked removes c from its bound room. Caller holds h.mu.
func (h *Handler) detachLocked(c *client) {
	if c.roomID == "" {
		return
	}
	roomID := c.roomID
	c.roomID = ""

	h.hub.leave(roomID, c)
	count, ok := h.roomSvc.Leave(roomID, c.id)
	if !ok {
		return
	}
	h.hub.broadcast(roomID, nil, outboundMessage{
		Event: "user-left",
		Data:  map[string]int{"participantCount": count},
	})
}

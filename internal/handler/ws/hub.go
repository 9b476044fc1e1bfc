package ws

import (
	"sync"

	"github.com/pairpad/backend/pkg/metrics"
)

// hub tracks which live connections belong to which room and fans
// messages out to them. Membership here mirrors the room service's
// participant list but holds the transport handles; the service owns
// the durable state, the hub owns delivery.
type hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*client]struct{}
}

func newHub() *hub {
	return &hub{rooms: make(map[string]map[*client]struct{})}
}

func (h *hub) join(roomID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members := h.rooms[roomID]
	if members == nil {
		members = make(map[*client]struct{})
		h.rooms[roomID] = members
	}
	members[c] = struct{}{}
}

func (h *hub) leave(roomID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members := h.rooms[roomID]
	delete(members, c)
	if len(members) == 0 {
		delete(h.rooms, roomID)
	}
}

// broadcast delivers msg to every member of roomID except the sender.
// Slow members are skipped rather than blocking the router. A missing
// room is a silent no-op.
func (h *hub) broadcast(roomID string, except *client, msg outboundMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	members := h.rooms[roomID]
	if len(members) == 0 {
		return
	}
	metrics.Broadcasts.Inc()

	for c := range members {
		if c == except {
			continue
		}
		c.queue(msg)
	}
}

package room

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pairpad/backend/internal/model/room"
	"github.com/pairpad/backend/pkg/metrics"
)

var ErrRoomNotFound = errors.New("room not found")

// Service owns every live room. All lookup+mutate sequences run under
// one lock so join, leave and content updates observe and change a
// room's state atomically.
type Service struct {
	mu           sync.RWMutex
	rooms        map[string]*room.Room
	cleanupDelay time.Duration
}

// NewService bootstraps the in-memory room store.
func NewService(cleanupDelay time.Duration) *Service {
	return &Service{
		rooms:        make(map[string]*room.Room),
		cleanupDelay: cleanupDelay,
	}
}

// Create provisions a room seeded with the template for language and
// returns a snapshot of it. Rooms start with no participants.
func (s *Service) Create(language string) room.Room {
	r := &room.Room{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Content:   room.TemplateFor(language),
	}

	s.mu.Lock()
	s.rooms[r.ID] = r
	s.mu.Unlock()

	metrics.RoomsCreated.Inc()
	return snapshot(r)
}

// Get returns a snapshot of the room, or ErrRoomNotFound.
func (s *Service) Get(roomID string) (room.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return room.Room{}, ErrRoomNotFound
	}
	return snapshot(r), nil
}

// Delete removes a room. Deleting an id that is not present is a no-op.
func (s *Service) Delete(roomID string) {
	s.mu.Lock()
	delete(s.rooms, roomID)
	s.mu.Unlock()
}

// Join appends connID to the room's participants and returns the
// current content and the updated participant count. Joining twice
// with the same connID does not duplicate the entry.
func (s *Service) Join(roomID, connID string) (content string, count int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return "", 0, ErrRoomNotFound
	}

	present := false
	for _, p := range r.Participants {
		if p.ConnID == connID {
			present = true
			break
		}
	}
	if !present {
		r.Participants = append(r.Participants, room.Participant{
			ConnID:   connID,
			JoinedAt: time.Now().UTC(),
		})
	}

	return r.Content, len(r.Participants), nil
}

// Leave removes connID from the room's participants and returns the
// remaining count. When the room empties, a cleanup timer is armed;
// the timer re-checks emptiness when it fires, so an intervening
// rejoin keeps the room (the stale timer simply no-ops). Leaving a
// missing room reports ok=false.
func (s *Service) Leave(roomID, connID string) (count int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, present := s.rooms[roomID]
	if !present {
		return 0, false
	}

	kept := r.Participants[:0]
	for _, p := range r.Participants {
		if p.ConnID != connID {
			kept = append(kept, p)
		}
	}
	r.Participants = kept

	if len(r.Participants) == 0 {
		s.armCleanup(roomID)
	}

	return len(r.Participants), true
}

// SetContent overwrites the room's content (last write wins). Returns
// false when the room is absent so callers can drop the event silently.
func (s *Service) SetContent(roomID, content string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return false
	}
	r.Content = content
	return true
}

// ParticipantCount reports the current membership size, or 0 with
// ok=false when the room is absent.
func (s *Service) ParticipantCount(roomID string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return 0, false
	}
	return len(r.Participants), true
}

// armCleanup schedules a deferred deletion check. Caller holds s.mu.
// Timers are never cancelled; each fire re-validates against current
// state, which is what makes stale timers harmless.
func (s *Service) armCleanup(roomID string) {
	time.AfterFunc(s.cleanupDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		r, ok := s.rooms[roomID]
		if !ok || len(r.Participants) > 0 {
			return
		}
		delete(s.rooms, roomID)
		metrics.RoomsReclaimed.Inc()
		log.Printf("[room] room %s cleaned up", roomID)
	})
}

// snapshot copies a room so callers never share the stored instance.
func snapshot(r *room.Room) room.Room {
	out := *r
	out.Participants = make([]room.Participant, len(r.Participants))
	copy(out.Participants, r.Participants)
	return out
}

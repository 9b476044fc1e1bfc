package room

import "time"

// Room captures a shared editing context: one content buffer plus the
// set of currently connected participants.
type Room struct {
	ID           string        `json:"id"`
	CreatedAt    time.Time     `json:"createdAt"`
	Content      string        `json:"content"`
	Participants []Participant `json:"participants"`
}

// Participant is one live connection bound to a room.
type Participant struct {
	ConnID   string    `json:"connId"`
	JoinedAt time.Time `json:"joinedAt"`
}

// Package fanout groups live connections into one room per poll and pushes
// poll snapshots to every member of a room.
package fanout

import (
	"log/slog"
	"sync"

	"github.com/14kear/online_voting/polls-service/internal/entity"
)

const (
	EventPollUpdated   = "poll_updated"
	EventPollCancelled = "poll_cancelled"
	EventException     = "exception"
)

type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Conn is one participant connection. Send must not block: a connection that
// can't keep up drops the event and reports false.
type Conn interface {
	ParticipantID() string
	Send(event Event) bool
	Close()
}

type Hub struct {
	log   *slog.Logger
	mu    sync.RWMutex
	rooms map[string]map[Conn]struct{}
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		log:   log,
		rooms: make(map[string]map[Conn]struct{}),
	}
}

func (h *Hub) JoinRoom(pollID string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[pollID]
	if !ok {
		room = make(map[Conn]struct{})
		h.rooms[pollID] = room
	}
	room[conn] = struct{}{}

	h.log.Debug("joined room",
		slog.String("poll_id", pollID),
		slog.String("user_id", conn.ParticipantID()),
		slog.Int("room_size", len(room)),
	)
}

func (h *Hub) LeaveRoom(pollID string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[pollID]
	if !ok {
		return
	}
	delete(room, conn)
	if len(room) == 0 {
		delete(h.rooms, pollID)
	}

	h.log.Debug("left room",
		slog.String("poll_id", pollID),
		slog.String("user_id", conn.ParticipantID()),
		slog.Int("room_size", len(room)),
	)
}

// Broadcast sends the snapshot to every connection in the room.
func (h *Hub) Broadcast(pollID string, poll entity.Poll) {
	h.send(pollID, Event{Type: EventPollUpdated, Payload: poll})
}

// BroadcastTermination tells the room the poll is gone, then tears the room
// down and closes its connections.
func (h *Hub) BroadcastTermination(pollID string) {
	h.send(pollID, Event{Type: EventPollCancelled})

	h.mu.Lock()
	room := h.rooms[pollID]
	delete(h.rooms, pollID)
	h.mu.Unlock()

	for conn := range room {
		conn.Close()
	}
}

func (h *Hub) RoomSize(pollID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.rooms[pollID])
}

// MemberConnections counts the open connections one participant holds in a room.
func (h *Hub) MemberConnections(pollID, participantID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for conn := range h.rooms[pollID] {
		if conn.ParticipantID() == participantID {
			n++
		}
	}
	return n
}

func (h *Hub) send(pollID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn := range h.rooms[pollID] {
		if !conn.Send(event) {
			h.log.Warn("dropped event for slow connection",
				slog.String("poll_id", pollID),
				slog.String("user_id", conn.ParticipantID()),
				slog.String("event", event.Type),
			)
		}
	}
}

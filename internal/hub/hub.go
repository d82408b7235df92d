// Package hub is the real-time presence and broadcast core. A Hub maps
// channel ids to Sessions; a Session owns the membership of one channel and
// fans events out to it; a Connection is one authenticated client scoped to
// exactly one channel.
package hub

import (
	"sync"
	"time"
)

// Identity is a user resolved from a bearer token, immutable for the
// lifetime of the connection it was resolved for.
type Identity struct {
	UserID   uint
	Username string
}

// Verifier validates an opaque bearer token. Token issuance lives outside
// the hub; the hub only consumes this contract during the handshake.
type Verifier interface {
	Verify(token string) (Identity, error)
}

// StoredMessage is what the persistence gateway assigns to a chat message.
type StoredMessage struct {
	ID        uint
	Timestamp time.Time
}

// MessageStore durably stores chat messages. Implementations must be safe
// for concurrent use; the hub calls Persist from many connection goroutines.
type MessageStore interface {
	Persist(channelID, userID uint, content, fileURL string) (StoredMessage, error)
}

// Hub is the process-wide registry of channel sessions. Sessions are created
// lazily on first reference and never evicted, so growth is bounded by the
// number of distinct channels rather than connection churn.
type Hub struct {
	store MessageStore

	mu       sync.Mutex
	sessions map[uint]*Session
}

func New(store MessageStore) *Hub {
	return &Hub{
		store:    store,
		sessions: make(map[uint]*Session),
	}
}

// Session returns the session for channelID, creating it if this is the
// first reference. Concurrent first arrivals get the same instance.
func (h *Hub) Session(channelID uint) *Session {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[channelID]
	if !ok {
		s = newSession(channelID, h.store)
		h.sessions[channelID] = s
	}
	return s
}

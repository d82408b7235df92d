package hub

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"discord-clone/pkg/chat"
)

// Session is the membership registry and broadcast router for one channel.
// Its mutex guards the membership map and typing set only; it is never held
// across socket writes or gateway calls, so a slow peer cannot stall the
// channel.
type Session struct {
	channelID uint
	store     MessageStore

	mu      sync.Mutex
	members map[uint]*Connection
	typing  map[uint]bool
}

func newSession(channelID uint, store MessageStore) *Session {
	return &Session{
		channelID: channelID,
		store:     store,
		members:   make(map[uint]*Connection),
		typing:    make(map[uint]bool),
	}
}

// Register inserts c into the membership and broadcasts the join notice to
// the resulting membership (joiner included). A prior live connection for
// the same user is superseded: removed first and closed, with no leave
// notice, so clients that reconnect after a tab refresh or network blip
// never see a phantom departure or double delivery.
func (s *Session) Register(c *Connection) {
	s.mu.Lock()
	old := s.members[c.identity.UserID]
	s.members[c.identity.UserID] = c
	c.bind(s)
	s.mu.Unlock()

	if old != nil {
		old.Close()
	}

	c.setState(StateJoined)

	s.broadcast(chat.Event{
		Type:      chat.EventUserJoined,
		Username:  c.identity.Username,
		Timestamp: chat.Timestamp(time.Now()),
	}, nil)
}

// deregister removes c from the membership if it is still the registered
// connection for its user, and broadcasts the leave notice only when an
// entry was actually removed. Safe to call more than once, and a no-op for
// a connection that was superseded (its slot now belongs to the newer one).
func (s *Session) deregister(c *Connection) {
	s.mu.Lock()
	removed := s.members[c.identity.UserID] == c
	if removed {
		delete(s.members, c.identity.UserID)
		delete(s.typing, c.identity.UserID)
	}
	s.mu.Unlock()

	if removed {
		s.broadcast(chat.Event{
			Type:      chat.EventUserLeft,
			Username:  c.identity.Username,
			Timestamp: chat.Timestamp(time.Now()),
		}, nil)
	}
}

// RouteTyping marks the sender as typing and notifies every other member.
// The typing set is transient signal state; it is overwritten by the next
// typing or message event from the same user and cleared on deregistration.
func (s *Session) RouteTyping(c *Connection) {
	s.mu.Lock()
	s.typing[c.identity.UserID] = true
	s.mu.Unlock()

	s.broadcast(chat.Event{
		Type:      chat.EventTyping,
		Username:  c.identity.Username,
		Timestamp: chat.Timestamp(time.Now()),
	}, c)
}

// RouteMessage persists the message through the gateway, then broadcasts it
// to the full membership, sender included: the sender's client treats this
// broadcast as the source of truth for the message it just sent. If the
// gateway fails nothing is broadcast and the error is returned to the
// sending connection only.
func (s *Session) RouteMessage(c *Connection, content, fileURL string) error {
	stored, err := s.store.Persist(s.channelID, c.identity.UserID, content, fileURL)
	if err != nil {
		return fmt.Errorf("persist message: %w", err)
	}

	s.mu.Lock()
	delete(s.typing, c.identity.UserID)
	s.mu.Unlock()

	s.broadcast(chat.Event{
		Type:      chat.EventMessage,
		Username:  c.identity.Username,
		Content:   content,
		FileURL:   fileURL,
		ID:        stored.ID,
		Timestamp: chat.Timestamp(stored.Timestamp),
	}, nil)

	return nil
}

// broadcast serializes event once and enqueues the same bytes to every
// current member except exclude, so every recipient sees a byte-identical
// payload. A member whose queue cannot accept the payload does not abort
// the pass; it is closed after the pass completes and heals membership
// through the same deregister path as an explicit disconnect, which avoids
// mutating the membership map while iterating it.
func (s *Session) broadcast(event chat.Event, exclude *Connection) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.WithFields(log.Fields{"channel": s.channelID, "error": err}).Error("failed to encode event")
		return
	}

	var failed []*Connection

	s.mu.Lock()
	for _, m := range s.members {
		if m == exclude {
			continue
		}
		if !m.enqueue(payload) {
			failed = append(failed, m)
		}
	}
	s.mu.Unlock()

	for _, m := range failed {
		log.WithFields(log.Fields{"channel": s.channelID, "user": m.identity.Username}).Warn("dropping unresponsive member")
		m.Close()
	}
}

// MemberCount reports the current membership size.
func (s *Session) MemberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.members)
}

// Members lists the usernames currently registered, for the connection-info
// endpoint.
func (s *Session) Members() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.members))
	for _, m := range s.members {
		names = append(names, m.identity.Username)
	}
	return names
}

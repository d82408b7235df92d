package hub

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"discord-clone/pkg/chat"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096

	// Outbound queue depth per connection.
	sendBufferSize = 256
)

// State is a connection's position in its lifecycle.
type State int

const (
	StateConnecting State = iota
	StateAuthenticated
	StateJoined
	StateClosing
	StateClosed
)

// Connection is one live client link, scoped to a single channel. It owns
// its outbound queue; only the session that registered it may enqueue to
// it. A reconnect is always a new Connection with a fresh identity
// resolution, never a reuse.
type Connection struct {
	channelID uint
	ws        *websocket.Conn

	identity Identity
	send     chan []byte
	closing  chan struct{}

	mu      sync.Mutex
	state   State
	session *Session

	closeOnce sync.Once
}

// NewConnection wraps an accepted transport that has not yet presented an
// identity.
func NewConnection(channelID uint, ws *websocket.Conn) *Connection {
	return &Connection{
		channelID: channelID,
		ws:        ws,
		send:      make(chan []byte, sendBufferSize),
		closing:   make(chan struct{}),
		state:     StateConnecting,
	}
}

// Authenticate records the identity the verifier resolved for this
// connection. The identity is immutable from here on.
func (c *Connection) Authenticate(identity Identity) {
	c.mu.Lock()
	c.identity = identity
	c.state = StateAuthenticated
	c.mu.Unlock()
}

// Reject closes an unauthenticated connection with a policy-violation close
// code. No membership has been touched yet, so there is nothing to
// deregister and no notice to broadcast.
func (c *Connection) Reject(reason string) {
	c.closeOnce.Do(func() {
		close(c.closing)
		if c.ws != nil {
			msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason)
			_ = c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
			_ = c.ws.Close()
		}
		c.setState(StateClosed)
	})
}

// Close tears the connection down: deregister from the owning session
// (which emits the leave notice if this connection still held its slot),
// then close the transport. Reachable from the read pump, the write pump,
// a failed broadcast delivery, and the supersede path; the teardown body
// runs exactly once no matter how many of those race.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		c.setState(StateClosing)
		close(c.closing)

		c.mu.Lock()
		s := c.session
		c.mu.Unlock()
		if s != nil {
			s.deregister(c)
		}

		if c.ws != nil {
			_ = c.ws.Close()
		}
		c.setState(StateClosed)
	})
}

// State reports the current lifecycle state.
func (c *Connection) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Username returns the display name resolved at the handshake.
func (c *Connection) Username() string {
	return c.identity.Username
}

func (c *Connection) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Connection) bind(s *Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
}

// enqueue hands a serialized event to the write pump without blocking.
// Reports false when the connection is closing or its queue is full, which
// the broadcasting session treats as a delivery failure.
func (c *Connection) enqueue(payload []byte) bool {
	select {
	case <-c.closing:
		return false
	default:
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// ReadPump reads inbound frames and routes them until the transport fails
// or closes, then tears the connection down. Runs on the connection's own
// goroutine; the session lock is never held while blocked here.
func (c *Connection) ReadPump() {
	defer c.Close()

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.WithFields(log.Fields{"user": c.identity.Username, "channel": c.channelID, "error": err}).Debug("read failed")
			}
			return
		}
		c.dispatch(raw)
	}
}

// dispatch decodes one inbound frame and routes it to the owning session.
func (c *Connection) dispatch(raw []byte) {
	c.mu.Lock()
	s := c.session
	c.mu.Unlock()
	if s == nil {
		return
	}

	frame := decodeFrame(raw)
	switch frame.Type {
	case chat.EventTyping:
		s.RouteTyping(c)
	default:
		if err := s.RouteMessage(c, frame.Content, frame.FileURL); err != nil {
			// Nothing was stored or broadcast; the connection stays up.
			log.WithFields(log.Fields{"user": c.identity.Username, "channel": c.channelID, "error": err}).Error("message not delivered")
		}
	}
}

// WritePump drains the outbound queue onto the transport and keeps the
// connection alive with pings. Exits when a write fails or teardown begins.
func (c *Connection) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case payload := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.closing:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

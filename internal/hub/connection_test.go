package hub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConnection_Lifecycle(t *testing.T) {
	s := newTestSession(nil)

	c := NewConnection(7, nil)
	assert.Equal(t, StateConnecting, c.State())

	c.Authenticate(Identity{UserID: 1, Username: "alice"})
	assert.Equal(t, StateAuthenticated, c.State())
	assert.Equal(t, "alice", c.Username())

	s.Register(c)
	assert.Equal(t, StateJoined, c.State())
	assert.Equal(t, 1, s.MemberCount())

	c.Close()
	assert.Equal(t, StateClosed, c.State())
	assert.Equal(t, 0, s.MemberCount())
}

func TestConnection_RejectTouchesNoMembership(t *testing.T) {
	h := New(&fakeStore{at: time.Now()})
	s := h.Session(7)
	peer := join(s, 1, "alice")
	drainRaw(peer)

	c := NewConnection(7, nil)
	c.Reject("invalid token")

	assert.Equal(t, StateClosed, c.State())
	assert.Equal(t, 1, s.MemberCount())
	assert.Empty(t, drainRaw(peer))
}

func TestConnection_EnqueueAfterCloseFails(t *testing.T) {
	s := newTestSession(nil)
	c := join(s, 1, "alice")

	c.Close()
	assert.False(t, c.enqueue([]byte("late")))
}

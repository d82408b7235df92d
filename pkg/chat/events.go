package chat

import "time"

// Event kinds carried on the websocket, tagged by the "type" field.
const (
	EventMessage    = "message"
	EventTyping     = "typing"
	EventUserJoined = "user_joined"
	EventUserLeft   = "user_left"
)

// Event is the outbound wire frame fanned out to channel members. Events are
// values; once handed to delivery they are never mutated.
type Event struct {
	Type      string `json:"type"`
	Username  string `json:"username"`
	Content   string `json:"content,omitempty"`
	FileURL   string `json:"file_url,omitempty"`
	ID        uint   `json:"id,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Timestamp formats t the way clients expect (ISO-8601, UTC).
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

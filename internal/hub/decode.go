package hub

import (
	"encoding/json"

	"discord-clone/pkg/chat"
)

// inboundFrame is the typed union a client may send. Only message and
// typing arrive from clients; join/leave notices are generated by the hub.
type inboundFrame struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	FileURL string `json:"file_url"`
}

// decodeFrame turns a raw inbound payload into a typed frame. Not every
// client sends structured frames, so an unparseable payload degrades to a
// plain chat message carrying the raw text rather than being dropped. A
// parseable frame with a missing or unknown type routes as a message with
// whatever content it carried; the hub validates structure, not semantics.
func decodeFrame(raw []byte) inboundFrame {
	var f inboundFrame
	if err := json.Unmarshal(raw, &f); err != nil {
		return inboundFrame{Type: chat.EventMessage, Content: string(raw)}
	}
	if f.Type != chat.EventTyping {
		f.Type = chat.EventMessage
	}
	return f
}

package popout

import "encoding/json"

// MessageType names one of the recognized cross-window messages.
type MessageType string

const (
	// PopoutClosed is sent by the pop-out to its opener when it exits.
	PopoutClosed MessageType = "popoutClosed"
	// Focus is sent by the opener to ask the pop-out to raise itself.
	Focus MessageType = "focus"
)

// Message is the wire shape exchanged between the opener and the pop-out.
type Message struct {
	Type MessageType `json:"type"`

	// Session is stamped by the hub on delivery and never read from the wire.
	Session string `json:"-"`
}

// ParseMessage decodes a JSON payload. It reports false for anything that is
// not an object carrying a recognized type; such payloads are ignored, not
// treated as errors.
func ParseMessage(data []byte) (Message, bool) {
	var raw struct {
		Type *string `json:"type"`
	}
	if err := json.Unmarshal(data, &raw); err != nil || raw.Type == nil {
		return Message{}, false
	}
	switch t := MessageType(*raw.Type); t {
	case PopoutClosed, Focus:
		return Message{Type: t}, true
	}
	return Message{}, false
}

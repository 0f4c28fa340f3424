// Package protocol defines the messages exchanged with the external renderer
// over the websocket: the handshake, per-frame input, inventory commands and
// the frames and events sent back.
package protocol

import "encoding/json"

const Version = "1.0"

// Message types.
const (
	TypeHello    = "HELLO"
	TypeWelcome  = "WELCOME"
	TypeInput    = "INPUT"
	TypeCommand  = "COMMAND"
	TypeAck      = "ACK"
	TypeFrame    = "FRAME"
	TypeSettings = "SETTINGS"
)

// BaseMessage lets us route unknown JSON messages by type.
type BaseMessage struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version,omitempty"`
}

func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}

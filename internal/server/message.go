package server

import (
	"encoding/json"
	"time"

	"github.com/lox/quantumholdem/internal/game"
	"github.com/lox/quantumholdem/internal/quantum"
)

// MessageType names a websocket message.
type MessageType string

// Client to server.
const (
	MessageJoin      MessageType = "join"
	MessageSnapshot  MessageType = "snapshot"
	MessageStartHand MessageType = "start_hand"
	MessageAction    MessageType = "action"
	MessageGate      MessageType = "gate"
	MessageCollapse  MessageType = "collapse"
	MessageDealNext  MessageType = "deal_next"
	MessageShowdown  MessageType = "showdown"
)

// Server to client.
const (
	MessageJoined         MessageType = "joined"
	MessageState          MessageType = "state"
	MessageActionResult   MessageType = "action_result"
	MessageGateResult     MessageType = "gate_result"
	MessageCollapseResult MessageType = "collapse_result"
	MessageStreet         MessageType = "street"
	MessageHandResult     MessageType = "hand_result"
	MessageError          MessageType = "error"
)

// Message is the envelope for every websocket frame.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"request_id,omitempty"`
}

// NewMessage wraps data in an envelope stamped with the current time.
func NewMessage(messageType MessageType, data any) (*Message, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{Type: messageType, Data: raw, Timestamp: time.Now()}, nil
}

// JoinData attaches a connection to a table. An empty PlayerID joins as a
// spectator.
type JoinData struct {
	TableID  string `json:"table_id"`
	PlayerID string `json:"player_id,omitempty"`
}

// JoinedData confirms a join. Seat is -1 for spectators.
type JoinedData struct {
	TableID  string `json:"table_id"`
	PlayerID string `json:"player_id,omitempty"`
	Seat     int    `json:"seat"`
}

// ActionData is a betting action. Amount is the raise-to total.
type ActionData struct {
	Action game.Action `json:"action"`
	Amount int         `json:"amount,omitempty"`
}

// GateData applies or previews a gate on the sender's hole cards.
type GateData struct {
	Gate    quantum.Gate `json:"gate"`
	Cards   []int        `json:"cards"`
	Preview bool         `json:"preview,omitempty"`
}

// ErrorData reports a rejected request. Code is an error category or one of
// the transport codes below.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Transport error codes.
const (
	CodeInvalidMessage = "invalid_message"
	CodeUnknownMessage = "unknown_message"
	CodeNotJoined      = "not_joined"
	CodeSpectator      = "spectator"
	CodeNotFound       = "not_found"
	CodeUnknownPlayer  = "unknown_player"
)

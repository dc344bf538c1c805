package ws

import (
	"encoding/json"
	"time"
)

// MessageType represents the type of WebSocket message
type MessageType string

// Client → Server message types
const (
	MsgJoin         MessageType = "join"
	MsgInput        MessageType = "input"
	MsgRelease      MessageType = "release"
	MsgStart        MessageType = "start"
	MsgPause        MessageType = "pause"
	MsgResume       MessageType = "resume"
	MsgReset        MessageType = "reset"
	MsgResetPlayers MessageType = "resetPlayers"
	MsgDisplayJoin  MessageType = "display:join"
	MsgAdminJoin    MessageType = "admin:join"
	MsgDiagJoin     MessageType = "diag:join"
	MsgPing         MessageType = "ping"
)

// Server → Client message types sent by the connection itself. Match events
// use the same envelope with their own type names.
const (
	MsgError MessageType = "error"
	MsgPong  MessageType = "pong"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewServerMessage creates a new server message with current timestamp
func NewServerMessage(msgType MessageType, payload interface{}) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// Client message payloads

// JoinPayload is the payload for join
type JoinPayload struct {
	Nickname string `json:"nickname"`
}

// InputPayload is the payload for input
type InputPayload struct {
	Direction string `json:"direction"`
}

// StartPayload is the payload for start; an empty topology keeps the default
type StartPayload struct {
	Topology string `json:"topology"`
}

// Server message payloads

// ErrorPayload is the payload for error message
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeInvalidMessage = "INVALID_MESSAGE"
	ErrCodeUnknownType    = "UNKNOWN_TYPE"
	ErrCodeNotAdmin       = "NOT_ADMIN"
	ErrCodeInvalidAction  = "INVALID_ACTION"
	ErrCodeInternalError  = "INTERNAL_ERROR"
)

// decodePayload unmarshals an optional payload; a missing one leaves v zeroed
func decodePayload(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, v)
}

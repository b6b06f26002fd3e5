package ws

import (
	"encoding/json"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	// client -> server
	MessageTypeMove      MessageType = "move"
	MessageTypeSelect    MessageType = "select"
	MessageTypeResign    MessageType = "resign"
	MessageTypeReset     MessageType = "reset"
	MessageTypeConfigure MessageType = "configure"

	// server -> client
	MessageTypeGameState          MessageType = "gameState"
	MessageTypeMoveApplied        MessageType = "moveApplied"
	MessageTypeLegalMoves         MessageType = "legalMoves"
	MessageTypeAssignColor        MessageType = "assignColor"
	MessageTypeWaitingForOpponent MessageType = "waitingForOpponent"
	MessageTypeOpponentLeft       MessageType = "opponentLeft"
	MessageTypeMatchFound         MessageType = "matchFound"
	MessageTypeError              MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewMessage marshals payload into a message of the given type.
func NewMessage(t MessageType, payload interface{}) (Message, error) {
	if payload == nil {
		return Message{Type: t}, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: t, Payload: raw}, nil
}

// ErrorPayload is sent with MessageTypeError.
type ErrorPayload struct {
	Error string `json:"error"`
}

package websocket

import (
	"encoding/json"
)

// Inbound frames form a closed set of variants. Anything with an unknown type
// parses to IgnoredFrame so newer clients degrade to a no-op instead of an
// error.
type Frame interface {
	isFrame()
}

type SubscribeFrame struct {
	ConversationID uint
}

type UnsubscribeFrame struct {
	ConversationID uint
}

type MessageFrame struct {
	ConversationID uint
	Content        string
}

type ReadFrame struct {
	ConversationID uint
	MessageIDs     []uint
}

// IgnoredFrame is the forward-compatible fallthrough for unknown types.
type IgnoredFrame struct {
	Type string
}

// InvalidFrame is a structurally valid frame that fails field validation; the
// handler answers it with an error reply instead of dropping it.
type InvalidFrame struct {
	Reason string
}

func (SubscribeFrame) isFrame()   {}
func (UnsubscribeFrame) isFrame() {}
func (MessageFrame) isFrame()     {}
func (ReadFrame) isFrame()        {}
func (IgnoredFrame) isFrame()     {}
func (InvalidFrame) isFrame()     {}

type rawFrame struct {
	Type           string `json:"type"`
	ConversationID *int64 `json:"conversation_id"`
	Content        string `json:"content"`
	MessageIDs     []uint `json:"message_ids"`
}

// ParseFrame decodes one inbound frame. The returned error means the payload
// was not valid JSON; callers swallow those and keep the connection alive.
func ParseFrame(data []byte) (Frame, error) {
	var raw rawFrame
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	switch raw.Type {
	case "subscribe", "unsubscribe", "message", "read":
	default:
		return IgnoredFrame{Type: raw.Type}, nil
	}

	if raw.ConversationID == nil {
		return InvalidFrame{Reason: "missing_conversation_id"}, nil
	}
	if *raw.ConversationID <= 0 {
		return InvalidFrame{Reason: "invalid_conversation_id"}, nil
	}
	conversationID := uint(*raw.ConversationID)

	switch raw.Type {
	case "subscribe":
		return SubscribeFrame{ConversationID: conversationID}, nil
	case "unsubscribe":
		return UnsubscribeFrame{ConversationID: conversationID}, nil
	case "message":
		return MessageFrame{ConversationID: conversationID, Content: raw.Content}, nil
	default:
		return ReadFrame{ConversationID: conversationID, MessageIDs: raw.MessageIDs}, nil
	}
}

// Outbound events. Every frame the server sends carries a type tag the client
// switches on.

type ConnectedEvent struct {
	Type            string `json:"type"`
	ConversationIDs []uint `json:"conversation_ids"`
	Count           int    `json:"count"`
}

type SubscribedEvent struct {
	Type           string `json:"type"`
	ConversationID uint   `json:"conversation_id"`
}

type UnsubscribedEvent struct {
	Type           string `json:"type"`
	ConversationID uint   `json:"conversation_id"`
}

type MessageBody struct {
	ID             uint   `json:"id"`
	ConversationID uint   `json:"conversation_id"`
	SenderID       uint   `json:"sender_id"`
	Content        string `json:"content"`
	Timestamp      string `json:"timestamp"`
}

type NewMessageEvent struct {
	Type           string      `json:"type"`
	ConversationID uint        `json:"conversation_id"`
	Message        MessageBody `json:"message"`
}

type DeliveredEvent struct {
	Type           string `json:"type"`
	ConversationID uint   `json:"conversation_id"`
	MessageID      uint   `json:"message_id"`
	To             uint   `json:"to"`
}

type ReadReceiptEvent struct {
	Type           string `json:"type"`
	ConversationID uint   `json:"conversation_id"`
	MessageIDs     []uint `json:"message_ids"`
	By             uint   `json:"by"`
}

type ErrorEvent struct {
	Type           string `json:"type"`
	ConversationID uint   `json:"conversation_id,omitempty"`
	Reason         string `json:"reason"`
}
